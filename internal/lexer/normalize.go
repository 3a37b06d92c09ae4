package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 Byte Order Mark.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize canonicalizes source bytes before they reach the lexer:
//  1. strips a leading UTF-8 BOM,
//  2. rewrites CRLF and lone CR line endings to LF, so a caret snippet
//     rendered later by the diagnostic sink never carries a trailing '\r',
//  3. applies Unicode NFC normalization, so "café" typed as a single
//     precomposed code point and "café" typed as 'e' plus a combining
//     accent lex to the same identifier.
//
// Every step is idempotent; running Normalize twice is the same as once.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	src = normalizeLineEndings(src)

	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}

	return src
}

// normalizeLineEndings rewrites "\r\n" and bare "\r" to "\n". The lexer
// already treats '\r' as whitespace, so this doesn't change token
// boundaries — it only keeps source lines (and the diagnostic snippets
// sliced from them) free of stray carriage returns.
func normalizeLineEndings(src []byte) []byte {
	if !bytes.ContainsRune(src, '\r') {
		return src
	}
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(src, []byte("\r"), []byte("\n"))
}
