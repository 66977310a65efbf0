package mint_test

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/engine/mint"
)

const (
	usdcMint    = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	replacement = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
)

func snapshotOf(raw []byte, encoding string) *domain.AccountSnapshot {
	var encoded string
	if encoding == domain.EncodingBase58 {
		encoded = base58.Encode(raw)
	} else {
		encoded = base64.StdEncoding.EncodeToString(raw)
	}
	return &domain.AccountSnapshot{
		Pubkey: usdcMint,
		Account: domain.AccountData{
			Lamports: 1461600,
			Data:     []string{encoded, encoding},
			Owner:    solana.TokenProgramID.String(),
		},
	}
}

func filled(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestApplyAuthorityPatch(t *testing.T) {
	raw := filled(40, 0xAA)
	binary.LittleEndian.PutUint32(raw[0:4], 1)
	snapshot := snapshotOf(raw, domain.EncodingBase64)
	original := snapshot.Clone()

	patched, patch, err := mint.ApplyAuthorityPatch(snapshot, replacement)
	require.NoError(t, err)

	out, err := patched.DecodeData()
	require.NoError(t, err)
	require.Len(t, out, 40)

	want := solana.MustPublicKeyFromBase58(replacement)
	assert.Equal(t, raw[0:4], out[0:4], "option tag must be untouched")
	assert.Equal(t, want[:], out[4:36])
	assert.Equal(t, raw[36:], out[36:], "trailing bytes must be untouched")

	assert.Equal(t, solana.PublicKeyFromBytes(filled(32, 0xAA)).String(), patch.Previous)
	assert.Equal(t, replacement, patch.Replacement)
	assert.True(t, patch.OptionSet)
	assert.True(t, patch.Changed)

	assert.Equal(t, original, snapshot, "input snapshot must not be modified")
	assert.Equal(t, domain.EncodingBase64, patched.Encoding())
	assert.Equal(t, snapshot.Account.Lamports, patched.Account.Lamports)
	assert.Equal(t, snapshot.Account.Owner, patched.Account.Owner)
}

func TestApplyAuthorityPatch_ExactlyAuthorityEnd(t *testing.T) {
	snapshot := snapshotOf(filled(mint.AuthorityEnd, 0), domain.EncodingBase64)

	patched, patch, err := mint.ApplyAuthorityPatch(snapshot, replacement)
	require.NoError(t, err)
	assert.False(t, patch.OptionSet)

	out, err := patched.DecodeData()
	require.NoError(t, err)
	assert.Len(t, out, mint.AuthorityEnd)
}

func TestApplyAuthorityPatch_Base58(t *testing.T) {
	snapshot := snapshotOf(filled(82, 0x01), domain.EncodingBase58)

	patched, _, err := mint.ApplyAuthorityPatch(snapshot, replacement)
	require.NoError(t, err)
	assert.Equal(t, domain.EncodingBase58, patched.Encoding())

	out, err := patched.DecodeData()
	require.NoError(t, err)
	want := solana.MustPublicKeyFromBase58(replacement)
	assert.Equal(t, want[:], out[4:36])
}

func TestApplyAuthorityPatch_Idempotent(t *testing.T) {
	snapshot := snapshotOf(filled(82, 0x07), domain.EncodingBase64)

	once, first, err := mint.ApplyAuthorityPatch(snapshot, replacement)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	twice, second, err := mint.ApplyAuthorityPatch(once, replacement)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, once.Account.Data, twice.Account.Data)
}

func TestApplyAuthorityPatch_InsufficientData(t *testing.T) {
	snapshot := snapshotOf(filled(35, 0xAA), domain.EncodingBase64)
	original := snapshot.Clone()

	patched, _, err := mint.ApplyAuthorityPatch(snapshot, replacement)
	require.ErrorIs(t, err, domain.ErrInsufficientData)
	assert.Nil(t, patched)
	assert.Equal(t, original, snapshot)
}

func TestApplyAuthorityPatch_InvalidAuthority(t *testing.T) {
	snapshot := snapshotOf(filled(40, 0), domain.EncodingBase64)

	for _, authority := range []string{"", "not-base58!", "3xy"} {
		_, _, err := mint.ApplyAuthorityPatch(snapshot, authority)
		require.ErrorIs(t, err, domain.ErrInvalidAuthority, "authority %q", authority)
	}
}

func TestApplyAuthorityPatch_LengthCheckedBeforeAuthority(t *testing.T) {
	snapshot := snapshotOf(filled(10, 0), domain.EncodingBase64)

	_, _, err := mint.ApplyAuthorityPatch(snapshot, "bogus")
	require.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestApplyAuthorityPatch_BadSnapshot(t *testing.T) {
	empty := &domain.AccountSnapshot{Pubkey: usdcMint}
	_, _, err := mint.ApplyAuthorityPatch(empty, replacement)
	require.ErrorIs(t, err, domain.ErrEmptyAccountData)

	unsupported := &domain.AccountSnapshot{
		Pubkey:  usdcMint,
		Account: domain.AccountData{Data: []string{"abc", "base64+zstd"}},
	}
	_, _, err = mint.ApplyAuthorityPatch(unsupported, replacement)
	require.ErrorIs(t, err, domain.ErrUnsupportedEncoding)

	garbage := &domain.AccountSnapshot{
		Pubkey:  usdcMint,
		Account: domain.AccountData{Data: []string{"!!!", domain.EncodingBase64}},
	}
	_, _, err = mint.ApplyAuthorityPatch(garbage, replacement)
	require.ErrorIs(t, err, domain.ErrSnapshotDecode)
}
