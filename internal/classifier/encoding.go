package classifier

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decoder checks a byte stream against one encoding. feed returns false as
// soon as the stream can no longer be decoded; finish reports whether the
// stream ended on a complete character.
type decoder interface {
	feed(p []byte) bool
	finish() bool
}

// Encoding is a named candidate in the fallback chain.
type Encoding struct {
	Name       string
	newDecoder func() decoder
}

// Candidate encodings. All of them are ASCII supersets, so CR and LF bytes
// mean the same thing whichever one is adopted.
var (
	UTF8        = Encoding{Name: "utf-8", newDecoder: func() decoder { return &utf8Decoder{} }}
	Latin1      = Encoding{Name: "latin-1", newDecoder: newCharmapDecoder(charmap.ISO8859_1)}
	Windows1252 = Encoding{Name: "windows-1252", newDecoder: newCharmapDecoder(charmap.Windows1252)}
)

// DefaultChain is the fallback order used to classify files. The first
// encoding that decodes the whole file wins, so the order is significant.
var DefaultChain = []Encoding{UTF8, Latin1, Windows1252}

// utf8Decoder validates UTF-8, carrying incomplete sequences across reads.
type utf8Decoder struct {
	pending []byte
	buf     []byte
}

func (d *utf8Decoder) feed(p []byte) bool {
	d.buf = append(d.buf[:0], d.pending...)
	d.buf = append(d.buf, p...)
	d.pending = d.pending[:0]

	for i := 0; i < len(d.buf); {
		if d.buf[i] < utf8.RuneSelf {
			i++
			continue
		}
		if !utf8.FullRune(d.buf[i:]) {
			d.pending = append(d.pending, d.buf[i:]...)
			break
		}
		r, size := utf8.DecodeRune(d.buf[i:])
		if r == utf8.RuneError && size == 1 {
			return false
		}
		i += size
	}
	return true
}

func (d *utf8Decoder) finish() bool {
	return len(d.pending) == 0
}

// charmapDecoder accepts a byte only if the code page maps it to a text
// character. Single-byte code pages assign every byte once control codes
// are included, so control codes other than common whitespace and ESC
// count as decode failures; otherwise no file could ever be binary.
type charmapDecoder struct {
	accept *[256]bool
}

func newCharmapDecoder(cm *charmap.Charmap) func() decoder {
	var table [256]bool
	for b := 0; b < 256; b++ {
		table[b] = isTextRune(cm.DecodeByte(byte(b)))
	}
	return func() decoder { return charmapDecoder{accept: &table} }
}

func (d charmapDecoder) feed(p []byte) bool {
	for _, b := range p {
		if !d.accept[b] {
			return false
		}
	}
	return true
}

func (d charmapDecoder) finish() bool {
	return true
}

func isTextRune(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', 0x1b:
		return true
	case utf8.RuneError:
		return false
	}
	if r < 0x20 || r == 0x7f {
		return false
	}
	// C1 controls: unassigned in ISO 8859-1 text, undefined slots in cp1252
	if r >= 0x80 && r <= 0x9f {
		return false
	}
	return true
}
