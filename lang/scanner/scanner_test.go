package scanner_test

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnediserp/sysy-compiler/lang/scanner"
)

func TestScanFileTokens(t *testing.T) {
	src := `int main() {
  const int x = 010, y = 0x1F;
  return x + y - 1 <= 2 && !0 || y != 3;
}
`
	fset := token.NewFileSet()
	toks, err := scanner.ScanFile(fset, "t.sy", []byte(src))
	require.NoError(t, err)

	want := []scanner.Token{
		scanner.INT_KW, scanner.IDENT, scanner.LPAREN, scanner.RPAREN, scanner.LBRACE,
		scanner.CONST, scanner.INT_KW, scanner.IDENT, scanner.ASSIGN, scanner.INT, scanner.COMMA,
		scanner.IDENT, scanner.ASSIGN, scanner.INT, scanner.SEMI,
		scanner.RETURN, scanner.IDENT, scanner.PLUS, scanner.IDENT, scanner.MINUS, scanner.INT,
		scanner.LE, scanner.INT, scanner.LAND, scanner.NOT, scanner.INT,
		scanner.LOR, scanner.IDENT, scanner.NEQ, scanner.INT, scanner.SEMI,
		scanner.RBRACE, scanner.EOF,
	}
	got := make([]scanner.Token, len(toks))
	for i, tv := range toks {
		got[i] = tv.Tok
	}
	assert.Equal(t, want, got)

	var octal, hex int64
	for _, tv := range toks {
		if tv.Tok == scanner.INT && tv.Lit == "010" {
			octal = tv.Int
		}
		if tv.Tok == scanner.INT && tv.Lit == "0x1F" {
			hex = tv.Int
		}
	}
	assert.EqualValues(t, 8, octal)
	assert.EqualValues(t, 31, hex)
}

func TestScanFileIllegalCharacterReported(t *testing.T) {
	fset := token.NewFileSet()
	_, err := scanner.ScanFile(fset, "t.sy", []byte("int x = 1 & 2;"))
	assert.Error(t, err)
}
