package domain

import (
	"errors"

	"github.com/gagliardetto/solana-go"
	"go.trai.ch/zerr"
)

// ParseAddress decodes a base58 account identifier and requires it to be exactly 32 bytes.
func ParseAddress(address string) (solana.PublicKey, error) {
	if address == "" {
		return solana.PublicKey{}, zerr.Wrap(ErrInvalidAddress, "address is empty")
	}

	key, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, zerr.With(errors.Join(ErrInvalidAddress, err), "address", address)
	}
	return key, nil
}
