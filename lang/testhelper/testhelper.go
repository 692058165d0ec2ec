// Package testhelper provides the golden-file test fixtures used by the
// scanner's golden-file test: list source fixtures in a directory and diff
// a stage's rendered output against a checked-in golden file, optionally
// rewriting it with -test.update-golden.
package testhelper

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/diff"
)

var updateAllGolden = flag.Bool("test.update-golden", false, "if set, rewrites every golden file with the actual output instead of comparing")

// SourceFiles returns the list of fixture files in dir with extension ext
// (with or without the leading dot).
func SourceFiles(t *testing.T, dir, ext string) []os.FileInfo {
	t.Helper()

	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}

	dents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	res := make([]os.FileInfo, 0, len(dents))
	for _, dent := range dents {
		if !dent.Type().IsRegular() {
			continue
		}
		if ext != "" && filepath.Ext(dent.Name()) != ext {
			continue
		}
		fi, err := dent.Info()
		if err != nil {
			t.Fatal(err)
		}
		res = append(res, fi)
	}
	return res
}

// DiffOutput validates output against the golden file fi.Name()+".want" in
// resultDir.
func DiffOutput(t *testing.T, fi os.FileInfo, output, resultDir string) {
	t.Helper()
	DiffCustom(t, fi, "output", ".want", output, resultDir)
}

// DiffCustom is the general form of DiffOutput: label is used only in
// failure messages, ext is the golden-file extension (including the dot).
func DiffCustom(t *testing.T, fi os.FileInfo, label, ext, output, resultDir string) {
	t.Helper()

	goldFile := filepath.Join(resultDir, fi.Name()+ext)
	if *updateAllGolden {
		if err := os.WriteFile(goldFile, []byte(output), 0o600); err != nil {
			t.Fatal(err)
		}
		return
	}

	wantb, err := os.ReadFile(goldFile)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	want := string(wantb)
	if patch := diff.Diff(want, output); patch != "" {
		t.Errorf("diff %s:\n%s\n", label, patch)
	}
}
