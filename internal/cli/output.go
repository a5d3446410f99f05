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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-recovery/pkg/recovery"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintKeyPair prints a generated guardian key pair
func (p *Printer) PrintKeyPair(publicKey, privateKey []byte) error {
	pub := base64.StdEncoding.EncodeToString(publicKey)
	priv := base64.StdEncoding.EncodeToString(privateKey)
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"public_key":  pub,
			"private_key": priv,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Public key:  %s\n", pub)
		fmt.Fprintf(p.writer, "Private key: %s\n", priv)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintShares prints serialized shares, one per line in text mode
func (p *Printer) PrintShares(shares []string, threshold int) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"threshold": threshold,
			"shares":    shares,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Split into %d shares, any %d reconstruct:\n", len(shares), threshold)
		for i, s := range shares {
			fmt.Fprintf(p.writer, "  %d: %s\n", i+1, s)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSecret prints a reconstructed secret as base64
func (p *Printer) PrintSecret(secret []byte) error {
	encoded := base64.StdEncoding.EncodeToString(secret)
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"secret": encoded,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, encoded)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSetup prints a recovery setup summary. The full bundle, sealed
// shares included, is written separately; this is the human summary.
func (p *Printer) PrintSetup(setup *recovery.RecoverySetup, bundlePath string) error {
	switch p.format {
	case OutputFormatJSON:
		guardians := make([]map[string]interface{}, len(setup.Commitments))
		for i, c := range setup.Commitments {
			guardians[i] = map[string]interface{}{
				"guardian_pubkey": base64.StdEncoding.EncodeToString(c.GuardianPubkey),
				"share_index":     c.ShareIndex,
				"status":          c.Status.String(),
			}
		}
		return p.printJSON(map[string]interface{}{
			"threshold": setup.Threshold,
			"algorithm": setup.Algorithm,
			"guardians": guardians,
			"bundle":    bundlePath,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Recovery setup complete\n")
		fmt.Fprintf(p.writer, "  Threshold: %d of %d guardians\n", setup.Threshold, len(setup.Commitments))
		fmt.Fprintf(p.writer, "  Algorithm: %s\n", setup.Algorithm)
		for _, c := range setup.Commitments {
			fmt.Fprintf(p.writer, "  Guardian %d: %s (%s)\n",
				c.ShareIndex, base64.StdEncoding.EncodeToString(c.GuardianPubkey), c.Status)
		}
		fmt.Fprintf(p.writer, "  Bundle written to %s\n", bundlePath)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintRecovery prints the outcome of a recovery attempt
func (p *Printer) PrintRecovery(attemptID string, verified bool, secret []byte) error {
	switch p.format {
	case OutputFormatJSON:
		result := map[string]interface{}{
			"attempt":  attemptID,
			"verified": verified,
		}
		if verified {
			result["secret"] = base64.StdEncoding.EncodeToString(secret)
		}
		return p.printJSON(result)
	case OutputFormatText:
		if !verified {
			fmt.Fprintf(p.writer, "Recovery attempt %s failed verification\n", attemptID)
			return nil
		}
		fmt.Fprintf(p.writer, "Recovery attempt %s verified\n", attemptID)
		fmt.Fprintf(p.writer, "Secret: %s\n", base64.StdEncoding.EncodeToString(secret))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Error: %s\n", err)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// printJSON marshals and prints JSON output
func (p *Printer) printJSON(v interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
