package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/engine/mint"
	"go.trai.ch/lumos/internal/ui/style"
	"go.trai.ch/zerr"
)

// InspectOptions configuration for the Inspect method.
type InspectOptions struct {
	ConfigPath string
	Address    string
}

// Inspect decodes a cached token mint snapshot and prints its base state.
func (a *App) Inspect(_ context.Context, opts InspectOptions) error {
	if _, err := domain.ParseAddress(opts.Address); err != nil {
		return err
	}

	cache, _, err := a.openCache(opts.ConfigPath)
	if err != nil {
		return err
	}

	if !cache.Exists(domain.KindAccount, opts.Address) {
		return zerr.With(zerr.Wrap(domain.ErrArtifactNotCached, "run clone first"), "address", opts.Address)
	}

	snapshot, err := cache.ReadSnapshot(cache.Path(domain.KindAccount, opts.Address))
	if err != nil {
		return err
	}

	info, err := mint.Decode(snapshot)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(style.Title.Render("mint " + info.Address))
	b.WriteString("\n")
	for _, row := range [][2]string{
		{"owner", info.Owner},
		{"mint authority", orNone(info.MintAuthority)},
		{"freeze authority", orNone(info.FreezeAuthority)},
		{"supply", strconv.FormatUint(info.Supply, 10)},
		{"decimals", strconv.Itoa(int(info.Decimals))},
		{"initialized", strconv.FormatBool(info.IsInitialized)},
		{"extensions", strconv.FormatBool(info.Extended)},
	} {
		b.WriteString(style.Field(row[0], row[1]))
		b.WriteString("\n")
	}

	_, _ = fmt.Fprint(a.out, b.String())
	return nil
}

func orNone(s string) string {
	if s == "" {
		return style.Danger.Render("none")
	}
	return s
}
