package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "cmsdist"
	// RootShort is the short description for the root command.
	RootShort       = "Install CMS software packages into a bootstrapped prefix"
	RootVersionFlag = "Print version and exit"

	RootFlagConfig      = "Config file (TOML or YAML); defaults to $CMSDIST_CONFIG or the first of ~/.config/cmsdist/config.{toml,yaml}, /etc/cmsdist/config.toml"
	RootFlagBackend     = "Package manager backend (apt or cmspkg)"
	RootFlagVerbose     = "Log every executed command and its output"
	RootFlagNoLock      = "Do not serialize runs against the same prefix"
	RootFlagLockTimeout = "How long to wait for another run on the same prefix"
	RootFlagInsecure    = "Skip TLS certificate verification when fetching the bootstrap script"

	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	RequestFlagPrefix     = "Installation prefix"
	RequestFlagArch       = "Target architecture (a /arch suffix on the name wins)"
	RequestFlagUser       = "Account that owns the prefix and runs the package manager"
	RequestFlagRepository = "Package repository"
	RequestFlagServer     = "Bootstrap server base URL"
	RequestFlagServerPath = "Bootstrap path on the server"
	RequestFlagOption     = "Extra option as key=value (repeatable)"

	InstallUse     = "install <group+package+version[/arch]>"
	InstallShort   = "Bootstrap the prefix if needed and install a package"
	InstallDoneFmt = "Installed %s into %s\n"

	UninstallUse       = "uninstall <group+package+version[/arch]>"
	UninstallShort     = "Bootstrap the prefix if needed and remove a package"
	UninstallFlagYes   = "Remove without asking for confirmation"
	UninstallPromptFmt = "Remove %s from %s?"
	UninstallAborted   = "Aborted."
	UninstallDoneFmt   = "Removed %s from %s\n"

	QueryUse        = "query <group+package+version[/arch]>"
	QueryShort      = "Report whether a package is installed (exit 3 when absent)"
	QueryPresentFmt = "%s present %s\n"
	QueryAbsentFmt  = "%s absent\n"

	InstancesUse         = "instances"
	InstancesShort       = "List installed packages (not supported; always empty)"
	InstancesUnsupported = "note: package enumeration is not supported; an empty list does not mean nothing is installed"
	InstancesLineFmt     = "%s %s\n"

	BootstrapUse     = "bootstrap"
	BootstrapShort   = "Bootstrap the prefix for an architecture without installing anything"
	BootstrapDoneFmt = "Prefix %s is bootstrapped for %s\n"

	ConfigUse          = "config"
	ConfigShort        = "Print the effective configuration as TOML"
	ConfigFlagDiff     = "Show a diff against the built-in defaults instead"
	ConfigSourceFmt    = "# config file: %s\n"
	ConfigSourceNone   = "# config file: none"
	ConfigNoDiff       = "(no differences from built-in defaults)"
	ConfigDiffFromName = "builtin"
	ConfigDiffToName   = "effective"

	DoctorUse   = "doctor"
	DoctorShort = "Check the prefix, bootstrap state, and required tools"

	ConfirmRequiresTerminal = "confirmation requires an interactive terminal; re-run with --yes"
	ExitCodeFmt             = "exit %d"
)
