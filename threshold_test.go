package tofudrf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeThresholds writes n rows "label value" with value = (i+1)/8 MeV.
func writeThresholds(tb testing.TB, dir, name string, n int) string {
	tb.Helper()
	var sb strings.Builder
	sb.WriteString("# channel threshold(MeV)\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "ch%d\t%g\n", i, float64(i+1)/8)
		if i == 4 {
			sb.WriteString("\n")
		}
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		tb.Fatalf("could not write thresholds: %v", err)
	}
	return path
}

func TestLoadThresholds(t *testing.T) {
	path := writeThresholds(t, t.TempDir(), "thr.txt", 37)

	thr, err := LoadThresholds(path)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range thr.Source {
		if want := float64(i+1) / 8 * ThresholdScale; v != want {
			t.Errorf("S1 %d: got %v, want %v", i, v, want)
		}
	}
	for i, v := range thr.Detector {
		if want := float64(i+6) / 8 * ThresholdScale; v != want {
			t.Errorf("S2 %d: got %v, want %v", i, v, want)
		}
	}
}

func TestLoadThresholdsErrors(t *testing.T) {
	dir := t.TempDir()
	short := writeThresholds(t, dir, "short.txt", 36)
	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("0 abc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	oneCol := filepath.Join(dir, "onecol.txt")
	if err := os.WriteFile(oneCol, []byte("0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{short, bad, oneCol, filepath.Join(dir, "missing.txt")} {
		_, err := LoadThresholds(path)
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%s: got %v, want a *ConfigError", path, err)
		}
		if cfgErr.Path != path {
			t.Errorf("error path %q, want %q", cfgErr.Path, path)
		}
	}

	_, err := LoadThresholds(filepath.Join(dir, "missing.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error does not wrap fs.ErrNotExist: %v", err)
	}
}

func TestThresholdFilesSelectUnits(t *testing.T) {
	dir := t.TempDir()
	files := ThresholdFiles{
		MeVee: writeThresholds(t, dir, "thresholds_MeVee.txt", 37),
		MeV:   filepath.Join(dir, "absent.txt"),
	}
	if _, err := files.Thresholds(true); err != nil {
		t.Fatalf("light yield table: %v", err)
	}
	if _, err := files.Thresholds(false); err == nil {
		t.Fatal("raw energy table should be missing")
	}
}
