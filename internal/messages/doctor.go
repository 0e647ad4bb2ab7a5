package messages

// Doctor messages for health checks and their rendering.
const (
	DoctorHealthCheckFmt = "Checking cmsdist setup for %s (%s backend)...\n"

	DoctorCheckNameConfig    = "Config"
	DoctorCheckNameBackend   = "Backend"
	DoctorCheckNamePrefix    = "Prefix"
	DoctorCheckNameBootstrap = "Bootstrap"
	DoctorCheckNameTools     = "Tools"
	DoctorCheckNameUser      = "User"

	DoctorConfigNone          = "No config file; using built-in defaults and environment"
	DoctorConfigLoadedFmt     = "Loaded %s"
	DoctorConfigLoadFailedFmt = "Failed to load config: %v"
	DoctorConfigLoadRecommend = "Fix the file or point --config / $CMSDIST_CONFIG at a valid one."

	DoctorBackendFmt          = "Using %s (bootstrap %s)"
	DoctorBackendFailedFmt    = "%v"
	DoctorBackendRecommendFmt = "Set backend to one of: %s"

	DoctorPrefixExistsFmt        = "%s exists"
	DoctorPrefixMissingFmt       = "%s does not exist yet"
	DoctorPrefixMissingRecommend = "It is created on the first install or by `cmsdist bootstrap`."
	DoctorPrefixNotDirFmt        = "%s exists but is not a directory"
	DoctorPrefixNotDirRecommend  = "Remove the file or choose another install_prefix."
	DoctorPrefixStatFailedFmt    = "Cannot inspect %s: %v"

	DoctorBootstrappedFmt       = "%s is bootstrapped in %s"
	DoctorNotBootstrappedFmt    = "%s is not bootstrapped in %s"
	DoctorNotBootstrapRecommend = "Run `cmsdist bootstrap`; install also bootstraps on first use."
	DoctorBootstrapFailedFmt    = "Cannot check bootstrap markers: %v"

	DoctorToolFoundFmt     = "%s found at %s"
	DoctorToolMissingFmt   = "%s not found in PATH"
	DoctorToolRecommendFmt = "Install %s; it is required to run the package manager."

	DoctorUserFoundFmt     = "Install user %s exists"
	DoctorUserMissingFmt   = "Install user %s not found: %v"
	DoctorUserRecommendFmt = "Create the account or set install_user; chown and sudo -u %s will fail otherwise."

	DoctorFailureSummary = "Some checks failed. Please address the items above."
	DoctorFailureError   = "doctor checks failed"
	DoctorSuccessSummary = "All checks passed."

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-10s %s\n"
	DoctorRecommendationPrefix = "       -> "
	DoctorRecommendationIndent = "          "
)
