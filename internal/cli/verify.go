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
	"github.com/jeremyhahn/go-recovery/pkg/recovery"
)

var (
	verifyBundleFile string
	verifyGuardian   string
)

// verifyShareCmd checks a guardian's share against its published commitment
var verifyShareCmd = &cobra.Command{
	Use:   "verify-share <share>",
	Short: "Verify a share against its published commitment",
	Long: `Verify that a base64 share (as produced by split, or opened from a
sealed share) matches the commitment published for --guardian in the
setup bundle. Guardians can run this before a recovery drill to confirm
their stored share is intact.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)

		bundle, err := os.ReadFile(verifyBundleFile)
		if err != nil {
			handleError(fmt.Errorf("failed to read bundle: %w", err))
			return
		}
		setup, err := recovery.UnmarshalRecoverySetup(bundle)
		if err != nil {
			handleError(err)
			return
		}

		pubkey, err := decodeBase64("guardian", verifyGuardian)
		if err != nil {
			handleError(err)
			return
		}
		share, err := shamir.Deserialize(args[0])
		if err != nil {
			handleError(err)
			return
		}
		defer zeroize.Bytes(share.Data)

		err = recovery.VerifySubmission(recovery.ShareSubmission{
			GuardianPubkey: pubkey,
			ShareIndex:     share.Index,
			ShareData:      share.Data,
		}, setup.Commitments)
		if err != nil {
			handleError(err)
			return
		}

		if err := printer.PrintSuccess(fmt.Sprintf("share %d matches its published commitment", share.Index)); err != nil {
			handleError(err)
		}
	},
}

func init() {
	verifyShareCmd.Flags().StringVar(&verifyBundleFile, "bundle", "recovery-setup.json",
		"path to the setup bundle")
	verifyShareCmd.Flags().StringVarP(&verifyGuardian, "guardian", "g", "",
		"guardian X25519 public key (base64)")
	_ = verifyShareCmd.MarkFlagRequired("guardian")
}
