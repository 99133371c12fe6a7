// Package chunker provides a sentence-boundary text chunker.
package chunker

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 900

// Chunker splits text into chunks of at most chunkSize characters,
// cutting after the last full stop inside each window when there is one.
// It implements the driven.Chunker interface.
type Chunker struct {
	chunkSize int
	boundary  rune
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithBoundary sets the rune a chunk preferably ends with.
func WithBoundary(r rune) Option {
	return func(c *Chunker) {
		if r != utf8.RuneError {
			c.boundary = r
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		boundary:  '.',
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the chunker name.
func (c *Chunker) Name() string {
	return "sentence"
}

// ChunkSize returns the maximum chunk size in characters.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Split yields the chunks of text. The chunks partition text exactly:
// concatenated they reproduce it. Sizes count runes, so multi-byte
// characters are never split.
func (c *Chunker) Split(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" {
			return
		}
		if utf8.RuneCountInString(text) <= c.chunkSize {
			yield(text)
			return
		}

		rest := text
		for rest != "" {
			end := c.cut(rest)
			if !yield(rest[:end]) {
				return
			}
			rest = rest[end:]
		}
	}
}

// Chunks collects Split into a slice.
func (c *Chunker) Chunks(text string) []string {
	var out []string
	for chunk := range c.Split(text) {
		out = append(out, chunk)
	}
	return out
}

// cut returns the byte length of the next chunk of s.
func (c *Chunker) cut(s string) int {
	window := windowEnd(s, c.chunkSize)
	if window == len(s) {
		return window
	}
	// A boundary at the very start would give a one-rune chunk; hard-cut instead.
	if i := strings.LastIndex(s[:window], string(c.boundary)); i > 0 {
		return i + utf8.RuneLen(c.boundary)
	}
	return window
}

// windowEnd returns the byte offset just past the first n runes of s.
func windowEnd(s string, n int) int {
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}
