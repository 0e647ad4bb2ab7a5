package messages

// System messages for downloads, locking, and process execution.
const (
	FetchCreateDirFmt           = "create download dir: %w"
	FetchCreateTempFileFmt      = "create temp file: %w"
	FetchSyncTempFileFmt        = "sync temp file: %w"
	FetchCloseTempFileFmt       = "close temp file: %w"
	FetchTruncateTempFileFmt    = "truncate temp file: %w"
	FetchResetTempFileOffsetFmt = "reset temp file offset: %w"
	FetchChmodFmt               = "chmod %s: %w"
	FetchMoveIntoPlaceFmt       = "move download into place: %w"
	FetchBuildRequestFmt        = "build request for %s: %w"
	FetchFailedFmt              = "download %s: %w"
	FetchUnexpectedStatusFmt    = "download %s: unexpected status %s"
	FetchTooLargeFmt            = "download %s: response too large (%d bytes > limit %d bytes)"
	FetchNotFoundFmt            = "download %s: not found (HTTP 404)\n\nRemediation:\n  - Check the server and server_path options\n  - Verify the bootstrap script exists at the printed URL"
	FetchTimeoutFmt             = "download %s: request timed out\n\nRemediation:\n  - Check your network connection\n  - If behind a proxy, ensure HTTP_PROXY/HTTPS_PROXY are set\n  - Retry the command"
	FetchRetryBudgetExhausted   = "retry budget exhausted"
	FetchProgressDescription    = "bootstrap.sh"

	LockOpenFmt       = "open lock %s: %w"
	LockFmt           = "lock %s: %w"
	LockTimeoutFmt    = "timed out waiting for lock %s after %s; another cmsdist run may be using this prefix"
	LockCreateDirFmt  = "create lock dir: %w"
	LockCacheDirFmt   = "resolve user cache dir: %w"
	LockWaitingFmt    = "Waiting for another cmsdist run on %s...\n"
	LockDirectoryName = "locks"

	LogExecFmt        = "Exec: [%s]"
	LogExecFailedFmt  = "Exec failed: [%s]: %v"
	LogInvalidLevel   = "invalid log level %q"
	LogBuildLoggerFmt = "build logger: %w"
)
