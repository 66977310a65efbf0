package mint

import (
	"errors"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/zerr"
)

// Info is the decoded base state of a token mint.
type Info struct {
	Address         string
	Owner           string
	MintAuthority   string
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority string
	// Extended reports whether the buffer carries Token-2022 extensions past the base layout.
	Extended bool
}

// IsTokenProgram reports whether owner is the SPL Token or Token-2022 program.
func IsTokenProgram(owner string) bool {
	key, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return false
	}
	return key.Equals(solana.TokenProgramID) || key.Equals(solana.Token2022ProgramID)
}

// Decode reads the mint base layout from a snapshot owned by a token program.
func Decode(snapshot *domain.AccountSnapshot) (*Info, error) {
	if !IsTokenProgram(snapshot.Account.Owner) {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrNotMintAccount, "owner is not a token program"),
			"pubkey", snapshot.Pubkey), "owner", snapshot.Account.Owner)
	}

	raw, err := snapshot.DecodeData()
	if err != nil {
		return nil, err
	}
	if len(raw) < LayoutSize {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrNotMintAccount, "buffer shorter than mint layout"),
			"pubkey", snapshot.Pubkey), "length", len(raw))
	}

	var state token.Mint
	if err := state.UnmarshalWithDecoder(bin.NewBinDecoder(raw[:LayoutSize])); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrNotMintAccount, err), "pubkey", snapshot.Pubkey)
	}

	info := &Info{
		Address:       snapshot.Pubkey,
		Owner:         snapshot.Account.Owner,
		Supply:        state.Supply,
		Decimals:      state.Decimals,
		IsInitialized: state.IsInitialized,
		Extended:      len(raw) > LayoutSize,
	}
	if state.MintAuthority != nil {
		info.MintAuthority = state.MintAuthority.String()
	}
	if state.FreezeAuthority != nil {
		info.FreezeAuthority = state.FreezeAuthority.String()
	}
	return info, nil
}
