package llogs

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
)

func TestFilesLogs(t *testing.T) {
	dir := t.TempDir()
	e := &env.Environment{Logs: env.LogsEnvironment{Dir: dir + "/log-%s.txt", DateFormat: "2006"}}

	d, err := MakeFilesLogs(e)
	if err != nil {
		t.Fatalf("make logs: %v", err)
	}
	fl := d.(FilesLogs)
	if !strings.HasPrefix(fl.path, dir) {
		t.Fatalf("path not in dir")
	}
	if !fl.Close() {
		t.Fatalf("close")
	}
}

func TestDefaultPath(t *testing.T) {
	e := &env.Environment{Logs: env.LogsEnvironment{Dir: "foo-%s", DateFormat: "2006"}}
	fl := FilesLogs{env: e}
	p := fl.DefaultPath()
	if !strings.HasPrefix(p, "foo-") {
		t.Fatalf("path prefix")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}

	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
