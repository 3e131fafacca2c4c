// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Geo Routing - the proxy descriptor forwarded to the metadata backend.
const (
	ProxyCNVerification = "proxy.cn_verification"
)

// Resolution Behaviour - these keys govern how page resolution fans out and reacts to failures.
const (
	ResolveStrict  = "resolve.strict"
	ResolveWorkers = "resolve.workers"
)

// Transport - these keys tune the shared HTTP fetcher.
const (
	NetworkTimeout        = "network.timeout"
	NetworkRetries        = "network.retries"
	NetworkRateLimit      = "network.rate_limit"
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Output Rendering - these keys shape what the resolve command prints.
const (
	OutputPretty = "output.pretty"
	OpenWith     = "open.with"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern general command behaviour.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
