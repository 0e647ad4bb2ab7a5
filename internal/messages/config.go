package messages

// Config messages for option resolution and config files.
const (
	ConfigMissingFileFmt   = "failed to read config %s: %w"
	ConfigInvalidConfigFmt = "invalid config %s: %w"
	ConfigMarshalFmt       = "render config: %w"
	ConfigUnknownOption    = "unknown option"
	// ConfigUnknownOptionFmt lists rejected keys, then accepted keys.
	ConfigUnknownOptionFmt = "%s (accepted: %s)"
	ConfigOptionSyntaxFmt  = "invalid option %q: expected key=value"
	ConfigResolvePathFmt   = "resolve config path: %w"

	TargetInvalidName    = "invalid package name"
	TargetInvalidNameFmt = "%q (expected group+package+version[/architecture])"
	TargetInvalidArchFmt = "%q: architecture %q must be a single path segment"

	BackendUnknown    = "unknown backend"
	BackendUnknownFmt = "%q (supported: %s)"
)
