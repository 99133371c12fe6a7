package driven

import "iter"

// Chunker splits document text into bounded chunks.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Split lazily yields the chunks of text. The sequence may be ranged
	// over more than once.
	Split(text string) iter.Seq[string]
}
