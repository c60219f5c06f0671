package codec

import (
	"compress/gzip"
	"io"
)

// Gzip implements Codec for the gzip compression format.
//
// Level is the compression level for encoding; the zero value uses gzip.DefaultCompression.
type Gzip struct {
	Level int
}

var _ Codec = Gzip{}

func (c Gzip) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(src)
}

func (c Gzip) NewEncoder(dst io.Writer) (io.WriteCloser, error) {
	if c.Level == 0 {
		return gzip.NewWriterLevel(dst, gzip.DefaultCompression)
	}

	return gzip.NewWriterLevel(dst, c.Level)
}
