package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidAddress is returned when an identifier does not decode to exactly 32 bytes of base58.
	ErrInvalidAddress = zerr.New("invalid address")

	// ErrFetchFailed is returned when the toolchain exits non-zero while fetching an artifact.
	ErrFetchFailed = zerr.New("fetch failed")

	// ErrInsufficientData is returned when an account buffer is too short to carry a mint authority.
	ErrInsufficientData = zerr.New("insufficient account data for mint authority patch")

	// ErrInvalidAuthority is returned when the replacement authority does not decode to 32 bytes.
	ErrInvalidAuthority = zerr.New("invalid replacement authority")

	// ErrLaunchFailed is returned when the validator process exits non-zero.
	ErrLaunchFailed = zerr.New("validator launch failed")

	// ErrCacheIO is returned when a cache directory or entry cannot be created, read or written.
	ErrCacheIO = zerr.New("cache i/o failed")

	// ErrToolNotFound is returned when a toolchain binary cannot be found on PATH.
	ErrToolNotFound = zerr.New("toolchain binary not found")

	// ErrCommandFailed is returned when a subprocess exits non-zero or cannot be started.
	ErrCommandFailed = zerr.New("command failed")

	// ErrEmptyAccountData is returned when a snapshot carries no data buffers.
	ErrEmptyAccountData = zerr.New("account data is empty")

	// ErrUnsupportedEncoding is returned when a snapshot buffer uses an encoding other than base64 or base58.
	ErrUnsupportedEncoding = zerr.New("unsupported account data encoding")

	// ErrSnapshotDecode is returned when a cached snapshot is not valid JSON or its buffer cannot be decoded.
	ErrSnapshotDecode = zerr.New("failed to decode account snapshot")

	// ErrMissingMintAuthority is returned when a mint patch is requested without any replacement authority.
	ErrMissingMintAuthority = zerr.New("mint authority is not set in the general or account configuration")

	// ErrMissingEndpoint is returned when no RPC endpoint is configured.
	ErrMissingEndpoint = zerr.New("rpc endpoint is not configured")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = zerr.New("config file not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrDuplicateName is returned when two accounts or two programs share a name.
	ErrDuplicateName = zerr.New("duplicate entry name")

	// ErrNotMintAccount is returned when an inspected account is not owned by a token program.
	ErrNotMintAccount = zerr.New("not a token mint account")

	// ErrArtifactNotCached is returned when an operation needs a cache entry that does not exist.
	ErrArtifactNotCached = zerr.New("artifact is not cached")

	// ErrManifestIO is returned when the fetch manifest cannot be read or written.
	ErrManifestIO = zerr.New("fetch manifest i/o failed")
)
