package domain

const (
	// DefaultConfigFile is the configuration file looked up when no path is given.
	DefaultConfigFile = "lumos.yaml"

	// ConfigEnvKey overrides the configuration file path.
	ConfigEnvKey = "LUMOS_CONFIG"

	// DefaultCacheDir is the cache root used when the configuration does not set one.
	DefaultCacheDir = ".lumos-cache"

	// DefaultLedgerDir is the validator ledger directory used when the configuration does not set one.
	DefaultLedgerDir = ".lumos-ledger"

	// ManifestFileName is the name of the fetch manifest inside the cache root.
	ManifestFileName = "manifest.json"

	// DefaultSolanaBinary is the toolchain binary used for fetches.
	DefaultSolanaBinary = "solana"

	// DefaultValidatorBinary is the toolchain binary used to start the local validator.
	DefaultValidatorBinary = "solana-test-validator"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
