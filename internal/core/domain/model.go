package domain

// Settings holds the general section of the configuration.
// It is passed by value to every operation; nothing mutates it after loading.
type Settings struct {
	Endpoint      string
	CacheDir      string
	LedgerDir     string
	MintAuthority string
}

// Toolchain names the external binaries invoked for fetches and the validator.
type Toolchain struct {
	Solana    string
	Validator string
}

// DesiredAccount is an account snapshot that must be present in the cache.
type DesiredAccount struct {
	Name           string
	Address        string
	ForceUpdate    bool
	ApplyMintPatch bool
	// MintAuthority overrides Settings.MintAuthority for this account when set.
	MintAuthority string
}

// DesiredProgram is a program binary that must be present in the cache.
type DesiredProgram struct {
	Name             string
	Address          string
	UpgradeAuthority string
	ForceUpdate      bool
}

// Upgradeable reports whether the program is loaded with an upgrade authority.
func (p DesiredProgram) Upgradeable() bool {
	return p.UpgradeAuthority != ""
}

// Model is the declarative description of the local network to materialize.
// Accounts and Programs keep the order in which they were declared.
type Model struct {
	Settings  Settings
	Toolchain Toolchain
	Accounts  []DesiredAccount
	Programs  []DesiredProgram
}

// ReplacementAuthority returns the authority a mint patch of account should install.
func (m *Model) ReplacementAuthority(account DesiredAccount) string {
	if account.MintAuthority != "" {
		return account.MintAuthority
	}
	return m.Settings.MintAuthority
}

// Total returns the number of artifacts the model asks for.
func (m *Model) Total() int {
	return len(m.Accounts) + len(m.Programs)
}
