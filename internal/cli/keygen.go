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

	"github.com/jeremyhahn/go-recovery/pkg/recovery/sealer"
)

// keygenCmd generates an X25519 key pair for a guardian
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an X25519 key pair for a guardian",
	Long: `Generate an X25519 key pair. The public key is given to the secret
owner before setup; the private key stays with the guardian and is used
to open the sealed share during recovery.`,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)

		key, err := sealer.GenerateKeyPair()
		if err != nil {
			handleError(fmt.Errorf("failed to generate key pair: %w", err))
			return
		}

		if err := printer.PrintKeyPair(key.PublicKey().Bytes(), key.Bytes()); err != nil {
			handleError(err)
		}
	},
}
