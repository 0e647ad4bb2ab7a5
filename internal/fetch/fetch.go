// Package fetch downloads single files over HTTP into place atomically.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

const (
	defaultMaxBytes = int64(64 * 1024 * 1024) // 64 MiB
	defaultTimeout  = 60 * time.Second
	retryCount      = 1
	retryBackoff    = 250 * time.Millisecond
)

var (
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
	osChmod      = os.Chmod
	fetchSleep   = time.Sleep
)

// Fetcher downloads files. The zero value is not usable; call New.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	progress io.Writer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithMaxBytes caps the accepted response size.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithProgress renders a byte progress bar to w while downloading.
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) { f.progress = w }
}

// New returns a Fetcher using NewClient(false) unless overridden.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{client: NewClient(false), maxBytes: defaultMaxBytes}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewClient returns an HTTP client requiring TLS 1.2 or newer.
// insecure skips certificate verification, for mirrors with self-signed certificates.
func NewClient(insecure bool) *http.Client {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: insecure, //nolint:gosec // opt-in via --insecure
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig
	return &http.Client{Transport: transport, Timeout: defaultTimeout}
}

// Download fetches url into dest with mode perm.
// dest is replaced only after the full body has been written; on failure no partial file is left.
func (f *Fetcher) Download(ctx context.Context, url string, dest string, perm os.FileMode) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.FetchCreateDirFmt, err)
	}
	tmp, err := osCreateTemp(dir, filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.FetchCreateTempFileFmt, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := f.downloadToFile(ctx, url, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FetchSyncTempFileFmt, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.FetchCloseTempFileFmt, err)
	}
	if err := osChmod(tmpName, perm); err != nil {
		return fmt.Errorf(messages.FetchChmodFmt, tmpName, err)
	}
	if err := osRename(tmpName, dest); err != nil {
		return fmt.Errorf(messages.FetchMoveIntoPlaceFmt, err)
	}
	committed = true
	return nil
}

func (f *Fetcher) downloadToFile(ctx context.Context, url string, dest *os.File) error {
	for attempt := 0; attempt <= retryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf(messages.FetchBuildRequestFmt, url, err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			if ctx.Err() == nil && shouldRetry(attempt, err, 0) {
				fetchSleep(retryBackoff)
				continue
			}
			if isTimeoutError(err) {
				return fmt.Errorf(messages.FetchTimeoutFmt, url)
			}
			return fmt.Errorf(messages.FetchFailedFmt, url, err)
		}

		if resp.StatusCode == http.StatusNotFound {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.FetchNotFoundFmt, url)
		}
		if resp.StatusCode != http.StatusOK {
			status := resp.StatusCode
			statusText := resp.Status
			_ = resp.Body.Close()
			if shouldRetry(attempt, nil, status) {
				fetchSleep(retryBackoff)
				continue
			}
			return fmt.Errorf(messages.FetchUnexpectedStatusFmt, url, statusText)
		}

		if err := dest.Truncate(0); err != nil {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.FetchTruncateTempFileFmt, err)
		}
		if _, err := dest.Seek(0, io.SeekStart); err != nil {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.FetchResetTempFileOffsetFmt, err)
		}

		var out io.Writer = dest
		bar := f.newBar(resp.ContentLength)
		if bar != nil {
			out = io.MultiWriter(dest, bar)
		}
		n, copyErr := io.Copy(out, io.LimitReader(resp.Body, f.maxBytes+1))
		_ = resp.Body.Close()
		if bar != nil {
			_ = bar.Finish()
		}
		if copyErr != nil {
			if ctx.Err() == nil && shouldRetry(attempt, copyErr, 0) {
				fetchSleep(retryBackoff)
				continue
			}
			return fmt.Errorf(messages.FetchFailedFmt, url, copyErr)
		}
		if n > f.maxBytes {
			return fmt.Errorf(messages.FetchTooLargeFmt, url, n, f.maxBytes)
		}
		return nil
	}
	return fmt.Errorf(messages.FetchFailedFmt, url, errors.New(messages.FetchRetryBudgetExhausted))
}

// newBar returns nil when progress is disabled or the size is unknown.
func (f *Fetcher) newBar(size int64) *progressbar.ProgressBar {
	if f.progress == nil || size <= 0 {
		return nil
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(f.progress),
		progressbar.OptionSetDescription(messages.FetchProgressDescription),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(f.progress) }),
	)
}

// isTimeoutError reports whether err is a network timeout.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func shouldRetry(attempt int, err error, statusCode int) bool {
	if attempt >= retryCount {
		return false
	}
	if err != nil {
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}
