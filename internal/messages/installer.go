package messages

// Installer messages for bootstrap and package-manager invocations.
const (
	InstallerSystemRequired    = "installer system is required"
	InstallerNotBootstrapped   = "installation root is not bootstrapped"
	InstallerCommandFailedFmt  = "%s failed (exit %d): %s"
	InstallerCommandRunFmt     = "%s failed: %v"
	InstallerCreatePrefixFmt   = "create %s: %w"
	InstallerChownFmt          = "assign %s to %s: %w"
	InstallerFetchBootstrapFmt = "fetch bootstrap from %s: %w"
	InstallerRunBootstrapFmt   = "run bootstrap for %s: %w"
	InstallerCheckMarkerFmt    = "check bootstrap marker %s: %w"
	InstallerCheckInstalledFmt = "check %s: %w"
	InstallerInstallFmt        = "could not install package %s: %w"
	InstallerUninstallFmt      = "could not remove package %s: %w"

	InstallerStepLabelInstall   = "install"
	InstallerStepLabelRemove    = "remove"
	InstallerStepLabelBootstrap = "bootstrap"
	InstallerStepLabelChown     = "chown"

	InstallerLogCheckingFmt      = "Checking if %s bootstrapped in %s"
	InstallerLogBootstrapDone    = "Bootstrap previously done"
	InstallerLogCreatingFmt      = "Creating %s and assigning it to %s"
	InstallerLogFetchingFmt      = "Fetching bootstrap from %s (repository %s)"
	InstallerLogInstallingBoot   = "Installing CMS bootstrap"
	InstallerLogBootCompleted    = "Bootstrap completed"
	InstallerLogChownIgnoredFmt  = "Ownership fix-up on %s failed (ignored): %v"
	InstallerLogQueryFmt         = "query invoked with %s %s %s"
	InstallerLogInstancesIgnored = "instances: enumeration is not supported; returning no packages"
)
