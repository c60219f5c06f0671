package codec

import (
	"io"

	"github.com/andybalholm/brotli"
)

// Brotli implements Codec for the brotli compression format.
//
// Level is the compression level for encoding (0-11); the zero value uses brotli.DefaultCompression.
type Brotli struct {
	Level int
}

var _ Codec = Brotli{}

func (c Brotli) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(src)), nil
}

func (c Brotli) NewEncoder(dst io.Writer) (io.WriteCloser, error) {
	level := c.Level
	if level == 0 {
		level = brotli.DefaultCompression
	}

	return brotli.NewWriterLevel(dst, level), nil
}
