package domain

import "strconv"

const (
	// DefaultRPCPort is the validator JSON-RPC port tried first.
	DefaultRPCPort = 8899
	// FallbackRPCPort is used when DefaultRPCPort is taken.
	FallbackRPCPort = 8900
	// DefaultFaucetPort is the validator faucet port tried first.
	DefaultFaucetPort = 9900
	// FallbackFaucetPort is used when DefaultFaucetPort is taken.
	FallbackFaucetPort = 9901
)

// ProgramFlag loads one cached program binary into the validator.
// An empty Authority loads the program as immutable bytecode.
type ProgramFlag struct {
	Address   string
	Path      string
	Authority string
}

// Args renders the flag group for this program.
func (f ProgramFlag) Args() []string {
	if f.Authority != "" {
		return []string{"--upgradeable-program", f.Address, f.Path, f.Authority}
	}
	return []string{"--bpf-program", f.Address, f.Path}
}

// ValidatorPlan is the fully negotiated validator invocation. It is built per launch.
type ValidatorPlan struct {
	Endpoint   string
	LedgerDir  string
	AccountDir string
	RPCPort    int
	FaucetPort int
	Programs   []ProgramFlag
	Reset      bool
	// Verbose relays validator standard output. It is not rendered into Args.
	Verbose bool
}

// Args renders the validator argument vector.
func (p ValidatorPlan) Args() []string {
	args := []string{
		"--url", p.Endpoint,
		"--ledger", p.LedgerDir,
		"--rpc-port", strconv.Itoa(p.RPCPort),
		"--faucet-port", strconv.Itoa(p.FaucetPort),
		"--account-dir", p.AccountDir,
	}
	for _, prog := range p.Programs {
		args = append(args, prog.Args()...)
	}
	if p.Reset {
		args = append(args, "--reset")
	}
	return args
}
