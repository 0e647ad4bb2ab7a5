package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(t *testing.T) {
	t.Helper()
	original := fetchSleep
	fetchSleep = func(time.Duration) {}
	t.Cleanup(func() { fetchSleep = original })
}

func TestDownload_WritesFileWithMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#!/bin/sh\necho bootstrap\n"))
	}))
	t.Cleanup(srv.Close)

	dest := filepath.Join(t.TempDir(), "nested", "bootstrap-slc7.sh")
	f := New(WithClient(srv.Client()))
	require.NoError(t, f.Download(context.Background(), srv.URL+"/cmssw/cms/bootstrap.sh", dest, 0o755))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho bootstrap\n", string(data))
	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestDownload_NotFoundLeavesNothing(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	dest := filepath.Join(dir, "bootstrap.sh")
	err := New(WithClient(srv.Client())).Download(context.Background(), srv.URL+"/missing", dest, 0o755)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file should be removed")
}

func TestDownload_RetriesServerError(t *testing.T) {
	noSleep(t)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	dest := filepath.Join(t.TempDir(), "bootstrap.sh")
	require.NoError(t, New(WithClient(srv.Client())).Download(context.Background(), srv.URL, dest, 0o644))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDownload_GivesUpAfterRetry(t *testing.T) {
	noSleep(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	err := New(WithClient(srv.Client())).Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "b.sh"), 0o644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestDownload_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	t.Cleanup(srv.Close)

	dest := filepath.Join(t.TempDir(), "b.sh")
	err := New(WithClient(srv.Client()), WithMaxBytes(16)).Download(context.Background(), srv.URL, dest, 0o644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownload_RenameFailure(t *testing.T) {
	original := osRename
	osRename = func(string, string) error { return errors.New("boom") }
	t.Cleanup(func() { osRename = original })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	err := New(WithClient(srv.Client())).Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "b.sh"), 0o644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "move download into place")
}

func TestDownload_ProgressBar(t *testing.T) {
	body := strings.Repeat("y", 2048)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	var progress bytes.Buffer
	dest := filepath.Join(t.TempDir(), "b.sh")
	require.NoError(t, New(WithClient(srv.Client()), WithProgress(&progress)).Download(context.Background(), srv.URL, dest, 0o644))
	assert.Contains(t, progress.String(), "bootstrap.sh")
}

func TestDownload_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(WithClient(srv.Client())).Download(ctx, srv.URL, filepath.Join(t.TempDir(), "b.sh"), 0o644)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewClient_TLSSettings(t *testing.T) {
	c := NewClient(true)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
	assert.False(t, NewClient(false).Transport.(*http.Transport).TLSClientConfig.InsecureSkipVerify)
}
