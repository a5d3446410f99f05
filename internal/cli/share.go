// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-recovery.
//
// go-recovery is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-recovery/pkg/crypto/shamir"
	"github.com/jeremyhahn/go-recovery/pkg/crypto/zeroize"
)

var (
	splitSecretFile string
	splitThreshold  int
	splitTotal      int
)

// splitCmd splits a secret into shares
var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a secret into threshold shares",
	Long: `Split a secret into N shares such that any M of them reconstruct it.
The secret is read from --secret-file ("-" for stdin). Shares are
printed base64-encoded, one per guardian, and carry their index so they
may be stored and later combined in any order.`,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)

		secret, err := readSecret(splitSecretFile)
		if err != nil {
			handleError(err)
			return
		}
		defer zeroize.Bytes(secret)

		printVerbose("splitting %d byte secret into %d shares, threshold %d",
			len(secret), splitTotal, splitThreshold)

		shares, err := shamir.Split(secret, splitThreshold, splitTotal)
		if err != nil {
			handleError(err)
			return
		}

		encoded := make([]string, len(shares))
		for i, share := range shares {
			encoded[i], err = share.Serialize()
			if err != nil {
				handleError(err)
				return
			}
			zeroize.Bytes(share.Data)
		}

		if err := printer.PrintShares(encoded, splitThreshold); err != nil {
			handleError(err)
		}
	},
}

var combineThreshold int

// combineCmd reconstructs a secret from shares
var combineCmd = &cobra.Command{
	Use:   "combine <share>...",
	Short: "Reconstruct a secret from shares",
	Long: `Reconstruct a secret from base64-encoded shares produced by split.
Pass --threshold to fail loudly when too few shares are supplied;
without it, reconstruction below the original threshold yields an
unrelated value, not an error.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)

		shares := make([]shamir.Share, len(args))
		for i, arg := range args {
			share, err := shamir.Deserialize(arg)
			if err != nil {
				handleError(fmt.Errorf("share %d: %w", i+1, err))
				return
			}
			shares[i] = share
		}

		secret, err := shamir.Reconstruct(shares, combineThreshold)
		if err != nil {
			handleError(err)
			return
		}
		defer zeroize.Bytes(secret)

		if err := printer.PrintSecret(secret); err != nil {
			handleError(err)
		}
	},
}

func init() {
	splitCmd.Flags().StringVar(&splitSecretFile, "secret-file", "-",
		"file containing the secret to split (\"-\" for stdin)")
	splitCmd.Flags().IntVarP(&splitThreshold, "threshold", "t", 3,
		"number of shares required to reconstruct")
	splitCmd.Flags().IntVarP(&splitTotal, "shares", "n", 5,
		"total number of shares to create")

	combineCmd.Flags().IntVarP(&combineThreshold, "threshold", "t", 0,
		"original threshold; reconstruction fails if fewer shares are given (0 disables the check)")
}
