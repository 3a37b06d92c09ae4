package lexer

import (
	"bytes"
	"testing"
)

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("let x = 5;")...)
	got := Normalize(src)
	if bytes.HasPrefix(got, bomUTF8) {
		t.Fatal("BOM was not stripped")
	}
	if string(got) != "let x = 5;" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeAppliesNFC(t *testing.T) {
	// NFD: 'e' (U+0065) followed by a combining acute accent (U+0301),
	// vs. the single precomposed NFC code point (U+00E9).
	nfd := []byte("caf" + "e" + "́")
	nfc := []byte("caf" + "é")
	if string(Normalize(nfd)) != string(nfc) {
		t.Fatalf("NFD input was not normalized to NFC form")
	}
}

func TestNormalizeRewritesCRLFAndLoneCRToLF(t *testing.T) {
	src := []byte("let x = 1;\r\nlet y = 2;\rlet z = 3;\n")
	got := string(Normalize(src))
	want := "let x = 1;\nlet y = 2;\nlet z = 3;\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	src := []byte("let " + "café" + " = 1;")
	once := Normalize(src)
	twice := Normalize(once)
	if !bytes.Equal(once, twice) {
		t.Fatal("normalizing twice changed the output")
	}
}
