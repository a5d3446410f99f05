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

package shamir

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Share is a single piece of a split secret. Index is the x-coordinate the
// share was evaluated at (1 to 255; 0 is reserved for the secret itself)
// and Data holds one byte per byte of the original secret.
type Share struct {
	Index byte   `json:"index"`
	Data  []byte `json:"data"`
}

// Validate checks the share's structural invariants.
func (s Share) Validate() error {
	if s.Index == 0 {
		return ErrInvalidShareIndex
	}
	if len(s.Data) == 0 {
		return fmt.Errorf("%w (index %d)", ErrEmptyShareData, s.Index)
	}
	return nil
}

// Equal reports whether two shares carry the same index and data.
func (s Share) Equal(other Share) bool {
	if s.Index != other.Index || len(s.Data) != len(other.Data) {
		return false
	}
	for i := range s.Data {
		if s.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}

// String returns a redacted representation safe for logs. Share data is
// secret material and is never printed.
func (s Share) String() string {
	return fmt.Sprintf("Share{Index: %d, Len: %d}", s.Index, len(s.Data))
}

// Serialize encodes the share for transport as base64 over the wire layout
//
//	[1 byte index][N bytes data]
func (s Share) Serialize() (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	wire := make([]byte, 1+len(s.Data))
	wire[0] = s.Index
	copy(wire[1:], s.Data)
	return base64.StdEncoding.EncodeToString(wire), nil
}

// Deserialize decodes a share produced by Serialize.
func Deserialize(encoded string) (Share, error) {
	wire, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Share{}, fmt.Errorf("shamir: invalid share encoding: %w", err)
	}
	if len(wire) < 2 {
		return Share{}, fmt.Errorf("shamir: serialized share too short: %d bytes", len(wire))
	}
	share := Share{
		Index: wire[0],
		Data:  make([]byte, len(wire)-1),
	}
	copy(share.Data, wire[1:])
	if share.Index == 0 {
		return Share{}, ErrInvalidShareIndex
	}
	return share, nil
}

// MarshalJSON encodes the share with base64 data, matching the envelope
// format used for recovery setup bundles.
func (s Share) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index byte   `json:"index"`
		Data  string `json:"data"`
	}{
		Index: s.Index,
		Data:  base64.StdEncoding.EncodeToString(s.Data),
	})
}

// UnmarshalJSON decodes a share encoded by MarshalJSON.
func (s *Share) UnmarshalJSON(data []byte) error {
	var aux struct {
		Index byte   `json:"index"`
		Data  string `json:"data"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	decoded, err := base64.StdEncoding.DecodeString(aux.Data)
	if err != nil {
		return fmt.Errorf("shamir: invalid share data encoding: %w", err)
	}
	s.Index = aux.Index
	s.Data = decoded
	return nil
}
