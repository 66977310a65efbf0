package domain

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"slices"

	"github.com/mr-tron/base58"
	"go.trai.ch/zerr"
)

const (
	// EncodingBase64 is the default encoding of snapshot data buffers.
	EncodingBase64 = "base64"
	// EncodingBase58 is the alternative encoding accepted in snapshot data buffers.
	EncodingBase58 = "base58"
)

// AccountSnapshot is the JSON document written by `solana account --output json`
// and read back by the validator through --account-dir.
type AccountSnapshot struct {
	Pubkey  string      `json:"pubkey"`
	Account AccountData `json:"account"`
}

// AccountData is the account half of a snapshot.
// Data holds the encoded buffer followed by the encoding name.
type AccountData struct {
	Lamports   uint64   `json:"lamports"`
	Data       []string `json:"data"`
	Owner      string   `json:"owner"`
	Executable bool     `json:"executable"`
	RentEpoch  uint64   `json:"rentEpoch"`
	Space      uint64   `json:"space,omitempty"`
}

// ParseSnapshot decodes a snapshot document.
func ParseSnapshot(data []byte) (*AccountSnapshot, error) {
	var s AccountSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Join(ErrSnapshotDecode, err)
	}
	return &s, nil
}

// Marshal encodes the snapshot in the indented form the toolchain writes.
func (s *AccountSnapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal account snapshot")
	}
	return data, nil
}

// Encoding returns the encoding of buffer 0, base64 when unspecified.
func (s *AccountSnapshot) Encoding() string {
	if len(s.Account.Data) < 2 || s.Account.Data[1] == "" {
		return EncodingBase64
	}
	return s.Account.Data[1]
}

// DecodeData returns the raw bytes of buffer 0.
func (s *AccountSnapshot) DecodeData() ([]byte, error) {
	if len(s.Account.Data) == 0 {
		return nil, zerr.With(zerr.Wrap(ErrEmptyAccountData, "no data buffers"), "pubkey", s.Pubkey)
	}

	encoded := s.Account.Data[0]
	var (
		raw []byte
		err error
	)
	switch enc := s.Encoding(); enc {
	case EncodingBase64:
		raw, err = base64.StdEncoding.DecodeString(encoded)
	case EncodingBase58:
		raw, err = base58.Decode(encoded)
	default:
		return nil, zerr.With(zerr.Wrap(ErrUnsupportedEncoding, enc), "pubkey", s.Pubkey)
	}
	if err != nil {
		return nil, zerr.With(errors.Join(ErrSnapshotDecode, err), "pubkey", s.Pubkey)
	}
	return raw, nil
}

// WithData returns a copy of the snapshot whose buffer 0 is raw, encoded the same way
// as the receiver's buffer. The receiver is left untouched.
func (s *AccountSnapshot) WithData(raw []byte) (*AccountSnapshot, error) {
	enc := s.Encoding()

	var encoded string
	switch enc {
	case EncodingBase64:
		encoded = base64.StdEncoding.EncodeToString(raw)
	case EncodingBase58:
		encoded = base58.Encode(raw)
	default:
		return nil, zerr.With(zerr.Wrap(ErrUnsupportedEncoding, enc), "pubkey", s.Pubkey)
	}

	out := s.Clone()
	if len(out.Account.Data) == 0 {
		out.Account.Data = []string{encoded, enc}
	} else {
		out.Account.Data[0] = encoded
	}
	return out, nil
}

// Clone returns a deep copy of the snapshot.
func (s *AccountSnapshot) Clone() *AccountSnapshot {
	out := *s
	out.Account.Data = slices.Clone(s.Account.Data)
	return &out
}
