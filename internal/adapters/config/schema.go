package config

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Lumosfile represents the structure of the lumos.yaml configuration file.
type Lumosfile struct {
	General   GeneralDTO        `yaml:"general"`
	Account   Table[AccountDTO] `yaml:"account"`
	Program   Table[ProgramDTO] `yaml:"program"`
	Toolchain ToolchainDTO      `yaml:"toolchain"`
}

// GeneralDTO represents the general section.
type GeneralDTO struct {
	RPCEndpoint   string `yaml:"rpc_endpoint"`
	CacheDir      string `yaml:"cache_dir"`
	LedgerDir     string `yaml:"ledger_dir"`
	MintAuthority string `yaml:"mint_authority"`
}

// AccountDTO represents one entry of the account table.
type AccountDTO struct {
	Address       string `yaml:"address"`
	Update        bool   `yaml:"update"`
	Mint          bool   `yaml:"mint"`
	MintAuthority string `yaml:"mint_authority"`
}

// ProgramDTO represents one entry of the program table.
type ProgramDTO struct {
	Address   string `yaml:"address"`
	Authority string `yaml:"authority"`
	Update    bool   `yaml:"update"`
}

// ToolchainDTO overrides the toolchain binaries.
type ToolchainDTO struct {
	Solana    string `yaml:"solana"`
	Validator string `yaml:"validator"`
}

// Entry is one named row of a Table.
type Entry[T any] struct {
	Name  string
	Value T
}

// Table is a YAML mapping decoded in document order. Duplicate keys are kept so
// validation can report them.
type Table[T any] []Entry[T]

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Table[T]) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return zerr.With(zerr.New("expected a mapping of named entries"), "line", value.Line)
	}

	out := make(Table[T], 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]

		entry := Entry[T]{Name: key.Value}
		if err := val.Decode(&entry.Value); err != nil {
			return zerr.With(zerr.Wrap(err, "invalid entry"), "name", key.Value)
		}
		out = append(out, entry)
	}

	*t = out
	return nil
}
