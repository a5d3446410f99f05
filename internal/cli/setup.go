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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-recovery/pkg/crypto/zeroize"
	"github.com/jeremyhahn/go-recovery/pkg/ledger"
	"github.com/jeremyhahn/go-recovery/pkg/logging"
	"github.com/jeremyhahn/go-recovery/pkg/recovery"
	"github.com/jeremyhahn/go-recovery/pkg/recovery/sealer"
)

var (
	setupSecretFile string
	setupThreshold  int
	setupGuardians  []string
	setupBundleFile string
)

// setupCmd creates a recovery setup
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create a recovery setup for a set of guardians",
	Long: `Split a 32-byte master secret among guardians and write the setup
bundle. Each --guardian is a base64 X25519 public key from keygen; the
guardian's share is sealed to that key inside the bundle. The bundle
also carries the per-guardian commitments and the encrypted proof
challenge used to verify a later recovery.`,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)

		secret, err := readSecret(setupSecretFile)
		if err != nil {
			handleError(err)
			return
		}
		defer zeroize.Bytes(secret)

		guardians := make([]recovery.Guardian, len(setupGuardians))
		for i, encoded := range setupGuardians {
			raw, err := decodeBase64(fmt.Sprintf("guardian %d", i+1), encoded)
			if err != nil {
				handleError(err)
				return
			}
			key, err := sealer.ParsePublicKey(raw)
			if err != nil {
				handleError(fmt.Errorf("guardian %d: %w", i+1, err))
				return
			}
			guardians[i] = recovery.NewGuardian(raw, key)
		}

		printVerbose("setting up recovery for %d guardians, threshold %d",
			len(guardians), setupThreshold)

		coordinator := recovery.NewCoordinator(ledger.NewMemory(),
			recovery.WithLogger(logging.NewLogger(getConfig().Verbose)))
		setup, err := coordinator.SetupRecovery(context.Background(), secret, guardians, setupThreshold)
		if err != nil {
			handleError(err)
			return
		}

		bundle, err := recovery.MarshalRecoverySetup(setup)
		if err != nil {
			handleError(err)
			return
		}
		if err := os.WriteFile(setupBundleFile, bundle, 0600); err != nil {
			handleError(fmt.Errorf("failed to write bundle: %w", err))
			return
		}

		if err := printer.PrintSetup(setup, setupBundleFile); err != nil {
			handleError(err)
		}
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupSecretFile, "secret-file", "-",
		"file containing the 32-byte master secret (\"-\" for stdin)")
	setupCmd.Flags().IntVarP(&setupThreshold, "threshold", "t", 3,
		"number of guardians required to recover")
	setupCmd.Flags().StringArrayVarP(&setupGuardians, "guardian", "g", nil,
		"guardian X25519 public key (base64, repeatable)")
	setupCmd.Flags().StringVar(&setupBundleFile, "bundle", "recovery-setup.json",
		"path to write the setup bundle")
	_ = setupCmd.MarkFlagRequired("guardian")
}
