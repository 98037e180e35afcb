package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sub2utf.app/v2/internal/app"
	"sub2utf.app/v2/internal/config"
	"sub2utf.app/v2/internal/model"
	"sub2utf.app/v2/internal/version"
)

func withApp(t *testing.T) context.Context {
	t.Helper()
	a, err := app.New(app.Options{})
	require.NoError(t, err)

	saved := application
	application = a
	t.Cleanup(func() {
		application = saved
		_ = a.Close()
	})
	return a.Context(context.Background())
}

func withOptions(t *testing.T) {
	t.Helper()
	os.Clearenv()
	opts, err := config.NewParser().ParseEnvironmentVariables()
	require.NoError(t, err)

	saved := config.Opts
	config.Opts = opts
	t.Cleanup(func() { config.Opts = saved })
}

// "Шта је ово" in windows-1251.
var cp1251Text = []byte{
	0xd8, 0xf2, 0xe0, ' ', 0xbc, 0xe5, ' ', 0xee, 0xe2, 0xee,
}

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestDetectFile(t *testing.T) {
	ctx := withApp(t)
	path := writeFile(t, "empty.srt", nil)

	var b bytes.Buffer
	require.NoError(t, detectFile(ctx, &b, path))
	assert.Equal(t, "windows-1252\t1\n", b.String())

	err := detectFile(ctx, &b, filepath.Join(t.TempDir(), "not_exist.srt"))
	require.ErrorIs(t, err, model.ErrFileSystem)
}

func TestConvertFile(t *testing.T) {
	ctx := withApp(t)
	path := writeFile(t, "movie.srt", cp1251Text)

	var b bytes.Buffer
	require.NoError(t, convertFile(ctx, &b, path, "windows-1251", ""))
	assert.Equal(t, "Шта је ово", b.String())

	output := filepath.Join(filepath.Dir(path), "movie.sr.srt")
	b.Reset()
	require.NoError(t, convertFile(ctx, &b, path, "cp1251", output))
	assert.Zero(t, b.Len())
	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Шта је ово", string(got))

	err = convertFile(ctx, &b, path, "klingon", "")
	require.ErrorIs(t, err, model.ErrUnknownEncoding)
	assert.Equal(t, "Unknown encoding: klingon", err.Error())
}

func TestConvertFile_detected(t *testing.T) {
	ctx := withApp(t)
	path := writeFile(t, "ascii.srt", []byte("Hello, world!\n"))

	var b bytes.Buffer
	require.NoError(t, convertFile(ctx, &b, path, "", ""))
	assert.Equal(t, "Hello, world!\n", b.String())
}

func TestSaveFile(t *testing.T) {
	ctx := withApp(t)
	path := filepath.Join(t.TempDir(), "hello.txt")

	content, err := readStdin(strings.NewReader("Здраво"))
	require.NoError(t, err)
	require.NoError(t, saveFile(ctx, path, string(content)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Здраво", string(got))

	err = saveFile(ctx, filepath.Join(path, "x"), "x")
	require.ErrorIs(t, err, model.ErrFileSystem)
}

func TestBatch(t *testing.T) {
	withOptions(t)
	ctx := withApp(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "movie.srt")
	require.NoError(t, os.WriteFile(path, cp1251Text, 0o600))

	var b bytes.Buffer
	jobs := makeJobs([]string{path}, "windows-1251", "sr")
	require.NoError(t, batch(ctx, &b, jobs))

	output := filepath.Join(dir, "movie.sr.srt")
	assert.Equal(t, "done\t"+path+"\t"+output+"\n", b.String())
	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Шта је ово", string(got))

	b.Reset()
	jobs = makeJobs([]string{path, filepath.Join(dir, "no.srt")},
		"windows-1251", "hr")
	err = batch(ctx, &b, jobs)
	require.EqualError(t, err, "1 of 2 files failed")
	assert.Contains(t, b.String(), "error\t"+filepath.Join(dir, "no.srt"))
}

func TestListEncodings(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, listEncodings(&b, []string{"utf8", "cp1251", "klingon"}))
	assert.Equal(t,
		"utf8\tUTF-8\ncp1251\twindows-1251\nklingon\tunsupported\n",
		b.String())
}

func TestDoHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/healthz" {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		}))
	defer srv.Close()

	ctx := withApp(t)
	addr := strings.TrimPrefix(srv.URL, "http://")
	require.NoError(t, doHealthCheck(ctx, "auto", addr))
	require.NoError(t, doHealthCheck(ctx, srv.URL+"/healthz", ""))
	require.ErrorContains(t, doHealthCheck(ctx, srv.URL+"/readyz", ""),
		"status code 503")
}

func TestInfo(t *testing.T) {
	var b bytes.Buffer
	info(&b)
	assert.Contains(t, b.String(), "Version: "+version.Version+"\n")
	assert.Contains(t, b.String(), "OS: ")
}

func TestCmd_encodings(t *testing.T) {
	os.Clearenv()
	savedOpts, savedApp := config.Opts, application
	t.Cleanup(func() { config.Opts, application = savedOpts, savedApp })

	var b bytes.Buffer
	Cmd.SetOut(&b)
	Cmd.SetArgs([]string{"encodings"})
	t.Cleanup(func() {
		Cmd.SetOut(nil)
		Cmd.SetArgs(nil)
	})

	require.NoError(t, Cmd.Execute())
	assert.Contains(t, b.String(), "windows-1251\twindows-1251\n")
	assert.Contains(t, b.String(), "KOI8-R\tKOI8-R\n")
}

func TestExecute_closesLogOnError(t *testing.T) {
	os.Clearenv()
	savedOpts, savedApp := config.Opts, application
	savedLog := slog.Default()
	t.Cleanup(func() {
		config.Opts, application = savedOpts, savedApp
		slog.SetDefault(savedLog)
	})

	logFile := filepath.Join(t.TempDir(), "sub2utf.log")
	t.Setenv("DEBUG", "1")
	t.Setenv("LOG_FILE", logFile)

	Cmd.SetArgs([]string{"detect", filepath.Join(t.TempDir(), "not_exist.srt")})
	t.Cleanup(func() { Cmd.SetArgs(nil) })

	require.ErrorIs(t, execute(), os.ErrNotExist)
	assert.Nil(t, application)

	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "application initialized")

	fds, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("no /proc/self/fd:", err)
	}
	for _, fd := range fds {
		target, _ := os.Readlink(filepath.Join("/proc/self/fd", fd.Name()))
		assert.NotEqual(t, logFile, target, "log file still open")
	}
}
