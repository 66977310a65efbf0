// Package config provides the configuration loader for lumos.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader for lumos.yaml files.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the configuration file at path and returns the validated model.
func (l *Loader) Load(path string) (*domain.Model, error) {
	model, err := Load(path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug(fmt.Sprintf("loaded %s: %d account(s), %d program(s)", path, len(model.Accounts), len(model.Programs)))
	return model, nil
}

// Load reads a configuration file from the given path and returns a domain.Model.
func Load(path string) (*domain.Model, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(errors.Join(domain.ErrConfigNotFound, err), "path", path)
		}
		return nil, zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}

	return Parse(data, path)
}

// Parse decodes configuration content. source is only used in error metadata.
func Parse(data []byte, source string) (*domain.Model, error) {
	var file Lumosfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", source)
	}

	model, err := file.toModel()
	if err != nil {
		return nil, zerr.With(err, "path", source)
	}
	return model, nil
}

func (f *Lumosfile) toModel() (*domain.Model, error) {
	if f.General.RPCEndpoint == "" {
		return nil, zerr.Wrap(domain.ErrMissingEndpoint, "general.rpc_endpoint is empty")
	}

	model := &domain.Model{
		Settings: domain.Settings{
			Endpoint:      f.General.RPCEndpoint,
			CacheDir:      f.General.CacheDir,
			LedgerDir:     f.General.LedgerDir,
			MintAuthority: f.General.MintAuthority,
		},
		Toolchain: domain.Toolchain{
			Solana:    f.Toolchain.Solana,
			Validator: f.Toolchain.Validator,
		},
		Accounts: make([]domain.DesiredAccount, 0, len(f.Account)),
		Programs: make([]domain.DesiredProgram, 0, len(f.Program)),
	}
	if model.Settings.CacheDir == "" {
		model.Settings.CacheDir = domain.DefaultCacheDir
	}
	if model.Settings.LedgerDir == "" {
		model.Settings.LedgerDir = domain.DefaultLedgerDir
	}
	if model.Toolchain.Solana == "" {
		model.Toolchain.Solana = domain.DefaultSolanaBinary
	}
	if model.Toolchain.Validator == "" {
		model.Toolchain.Validator = domain.DefaultValidatorBinary
	}
	if err := checkAddress("general.mint_authority", "", f.General.MintAuthority, true); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(f.Account))
	for _, e := range f.Account {
		if seen[e.Name] {
			return nil, zerr.With(zerr.Wrap(domain.ErrDuplicateName, "account table"), "name", e.Name)
		}
		seen[e.Name] = true

		if err := checkAddress("account.address", e.Name, e.Value.Address, false); err != nil {
			return nil, err
		}
		if err := checkAddress("account.mint_authority", e.Name, e.Value.MintAuthority, true); err != nil {
			return nil, err
		}

		model.Accounts = append(model.Accounts, domain.DesiredAccount{
			Name:           e.Name,
			Address:        e.Value.Address,
			ForceUpdate:    e.Value.Update,
			ApplyMintPatch: e.Value.Mint,
			MintAuthority:  e.Value.MintAuthority,
		})
	}

	clear(seen)
	for _, e := range f.Program {
		if seen[e.Name] {
			return nil, zerr.With(zerr.Wrap(domain.ErrDuplicateName, "program table"), "name", e.Name)
		}
		seen[e.Name] = true

		if err := checkAddress("program.address", e.Name, e.Value.Address, false); err != nil {
			return nil, err
		}
		if err := checkAddress("program.authority", e.Name, e.Value.Authority, true); err != nil {
			return nil, err
		}

		model.Programs = append(model.Programs, domain.DesiredProgram{
			Name:             e.Name,
			Address:          e.Value.Address,
			UpgradeAuthority: e.Value.Authority,
			ForceUpdate:      e.Value.Update,
		})
	}

	return model, nil
}

// checkAddress rejects a malformed identifier in field. optional allows an empty value.
func checkAddress(field, name, address string, optional bool) error {
	if optional && address == "" {
		return nil
	}
	if _, err := domain.ParseAddress(address); err != nil {
		return zerr.With(zerr.With(err, "field", field), "name", name)
	}
	return nil
}
