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
	"bytes"
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
	recoverBundleFile string
	recoverKeys       []string
)

// recoverCmd runs a recovery attempt against a setup bundle
var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Run a recovery attempt against a setup bundle",
	Long: `Recover the master secret from a setup bundle. Each --key is a
guardian's base64 X25519 private key; the matching sealed share is
opened, verified against its published commitment, and submitted. Once
the threshold is reached the secret is reconstructed and proven by
decrypting the setup's challenge.`,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)
		ctx := context.Background()

		bundle, err := os.ReadFile(recoverBundleFile)
		if err != nil {
			handleError(fmt.Errorf("failed to read bundle: %w", err))
			return
		}
		setup, err := recovery.UnmarshalRecoverySetup(bundle)
		if err != nil {
			handleError(err)
			return
		}

		// Republish the bundle's public config and challenge so the
		// attempt runs against the same records a ledger would hold.
		led := ledger.NewMemory()
		configRecord, err := recovery.MarshalRecoveryConfig(setup.Config())
		if err != nil {
			handleError(err)
			return
		}
		if err := led.PublishCommitments(ctx, configRecord); err != nil {
			handleError(err)
			return
		}
		if err := led.PublishChallenge(ctx, ledger.Challenge{
			Encrypted: setup.Challenge.Encrypted,
			Hash:      setup.Challenge.Hash,
		}); err != nil {
			handleError(err)
			return
		}

		attempt, err := recovery.NewAttempt(ctx, led,
			recovery.WithAttemptLogger(logging.NewLogger(getConfig().Verbose)))
		if err != nil {
			handleError(err)
			return
		}

		box := sealer.NewX25519()
		for i, encoded := range recoverKeys {
			raw, err := decodeBase64(fmt.Sprintf("key %d", i+1), encoded)
			if err != nil {
				handleError(err)
				return
			}
			key, err := sealer.ParsePrivateKey(raw)
			zeroize.Bytes(raw)
			if err != nil {
				handleError(fmt.Errorf("key %d: %w", i+1, err))
				return
			}

			sealed := findSealedShare(setup, key.PublicKey().Bytes())
			if sealed == nil {
				handleError(fmt.Errorf("key %d: no sealed share for this guardian in bundle", i+1))
				return
			}
			share, err := recovery.OpenSealedShare(box, key, sealed.Sealed)
			if err != nil {
				handleError(fmt.Errorf("key %d: %w", i+1, err))
				return
			}

			err = attempt.SubmitShare(recovery.ShareSubmission{
				GuardianPubkey: sealed.GuardianPubkey,
				ShareIndex:     share.Index,
				ShareData:      share.Data,
			})
			zeroize.Bytes(share.Data)
			if err != nil {
				handleError(fmt.Errorf("key %d: %w", i+1, err))
				return
			}
			printVerbose("share %d accepted (%d collected)", share.Index, attempt.Submissions())
		}

		secret, err := attempt.Reconstruct()
		if err != nil {
			handleError(err)
			return
		}
		defer zeroize.Bytes(secret)

		proof, err := attempt.GenerateProof()
		if err != nil {
			handleError(err)
			return
		}
		verified, err := attempt.VerifyProof(ctx, proof)
		if err != nil {
			handleError(err)
			return
		}

		if err := printer.PrintRecovery(attempt.ID(), verified, secret); err != nil {
			handleError(err)
		}
	},
}

// findSealedShare locates the sealed share addressed to the guardian with
// the given public key.
func findSealedShare(setup *recovery.RecoverySetup, pubkey []byte) *recovery.EncryptedShare {
	for i := range setup.EncryptedShares {
		if bytes.Equal(setup.EncryptedShares[i].GuardianPubkey, pubkey) {
			return &setup.EncryptedShares[i]
		}
	}
	return nil
}

func init() {
	recoverCmd.Flags().StringVar(&recoverBundleFile, "bundle", "recovery-setup.json",
		"path to the setup bundle")
	recoverCmd.Flags().StringArrayVarP(&recoverKeys, "key", "k", nil,
		"guardian X25519 private key (base64, repeatable)")
	_ = recoverCmd.MarkFlagRequired("key")
}
