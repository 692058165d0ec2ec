package scanner_test

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tnediserp/sysy-compiler/lang/scanner"
	"github.com/tnediserp/sysy-compiler/lang/testhelper"
)

// TestGoldenTokenDump scans every fixture in testdata and diffs a simple
// token/literal dump against its checked-in .want file.
func TestGoldenTokenDump(t *testing.T) {
	const dir = "testdata"
	for _, fi := range testhelper.SourceFiles(t, dir, ".sy") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(dir, fi.Name()))
			require.NoError(t, err)

			fset := token.NewFileSet()
			toks, err := scanner.ScanFile(fset, fi.Name(), src)
			require.NoError(t, err)

			var out strings.Builder
			for _, tv := range toks {
				fmt.Fprintf(&out, "%s %q\n", tv.Tok, tv.Lit)
			}
			testhelper.DiffOutput(t, fi, out.String(), dir)
		})
	}
}
