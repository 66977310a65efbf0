// Package mint rewrites and decodes SPL token mint account snapshots.
package mint

import (
	"encoding/binary"
	"errors"

	"github.com/gagliardetto/solana-go"
	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/zerr"
)

// Byte layout of the SPL token mint base state.
const (
	// OptionOffset is the start of the 4-byte COption tag guarding the mint authority.
	OptionOffset = 0
	// AuthorityOffset is the first byte of the mint authority.
	AuthorityOffset = 4
	// AuthorityEnd is one past the last byte of the mint authority.
	AuthorityEnd = 36
	// LayoutSize is the size of the base mint state shared by Token and Token-2022.
	LayoutSize = 82
)

// Patch describes one mint authority rewrite.
type Patch struct {
	// Previous is the authority found in the buffer before the rewrite.
	Previous string
	// Replacement is the authority written into the buffer.
	Replacement string
	// OptionSet reports whether the COption tag marks the authority as present.
	// The tag itself is never modified.
	OptionSet bool
	// Changed reports whether the buffer bytes differ after the rewrite.
	Changed bool
}

// ApplyAuthorityPatch returns a copy of snapshot with bytes [4,36) of buffer 0 replaced by
// the decoded authority, re-encoded in the snapshot's own encoding. snapshot is not modified.
func ApplyAuthorityPatch(snapshot *domain.AccountSnapshot, authority string) (*domain.AccountSnapshot, Patch, error) {
	raw, err := snapshot.DecodeData()
	if err != nil {
		return nil, Patch{}, err
	}

	if len(raw) < AuthorityEnd {
		return nil, Patch{}, zerr.With(zerr.With(zerr.Wrap(domain.ErrInsufficientData, "buffer shorter than mint authority field"),
			"pubkey", snapshot.Pubkey), "length", len(raw))
	}

	replacement, err := solana.PublicKeyFromBase58(authority)
	if err != nil {
		return nil, Patch{}, zerr.With(errors.Join(domain.ErrInvalidAuthority, err), "authority", authority)
	}

	previous := solana.PublicKeyFromBytes(raw[AuthorityOffset:AuthorityEnd])
	patch := Patch{
		Previous:    previous.String(),
		Replacement: replacement.String(),
		OptionSet:   binary.LittleEndian.Uint32(raw[OptionOffset:AuthorityOffset]) == 1,
		Changed:     !previous.Equals(replacement),
	}

	patched := make([]byte, len(raw))
	copy(patched, raw)
	copy(patched[AuthorityOffset:AuthorityEnd], replacement[:])

	out, err := snapshot.WithData(patched)
	if err != nil {
		return nil, Patch{}, err
	}
	return out, patch, nil
}
