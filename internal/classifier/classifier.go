// Package classifier decides whether a file is text or binary by trying an
// ordered chain of text encodings, and counts lines in text files.
//
// The check is a heuristic based only on whether the bytes decode. File
// names and extensions are never consulted, and a binary file whose bytes
// happen to decode under one of the candidates is reported as text.
package classifier

import (
	"fmt"
	"io"
	"os"

	"github.com/harrison/filestat/internal/models"
)

const defaultBufferSize = 32 * 1024

// Result is the outcome of classifying a single file. A failure to read
// or decode the file is not an error: the file is reported as binary and
// Err carries the I/O cause, if any, for diagnostics.
type Result struct {
	Type      string // models.TypeText or models.TypeBinary
	LineCount *int   // nil unless Type is text
	Encoding  string // adopted encoding name, empty for binary
	Err       error  // I/O error that forced a binary result
}

// IsText reports whether the file decoded under a candidate encoding
func (r Result) IsText() bool {
	return r.Type == models.TypeText
}

// Classifier runs files through an encoding fallback chain.
type Classifier struct {
	chain      []Encoding
	bufferSize int
}

// New creates a Classifier for the given chain, or DefaultChain when no
// encodings are passed.
func New(chain ...Encoding) *Classifier {
	if len(chain) == 0 {
		chain = DefaultChain
	}
	return &Classifier{
		chain:      chain,
		bufferSize: defaultBufferSize,
	}
}

// Classify classifies path with DefaultChain.
func Classify(path string) Result {
	return New().Classify(path)
}

// Classify reads path once, feeding every chunk to all candidate decoders
// at the same time. The earliest encoding in the chain that accepts the
// whole file is adopted.
func (c *Classifier) Classify(path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return binary(fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()

	decoders := make([]decoder, len(c.chain))
	for i, enc := range c.chain {
		decoders[i] = enc.newDecoder()
	}
	alive := len(decoders)

	var counter lineCounter
	buf := make([]byte, c.bufferSize)

	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			counter.feed(chunk)
			for i, d := range decoders {
				if d != nil && !d.feed(chunk) {
					decoders[i] = nil
					alive--
				}
			}
			if alive == 0 {
				return binary(nil)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return binary(fmt.Errorf("read %s: %w", path, readErr))
		}
	}

	for i, d := range decoders {
		if d != nil && d.finish() {
			lines := counter.total()
			return Result{
				Type:      models.TypeText,
				LineCount: &lines,
				Encoding:  c.chain[i].Name,
			}
		}
	}
	return binary(nil)
}

func binary(err error) Result {
	return Result{Type: models.TypeBinary, Err: err}
}
