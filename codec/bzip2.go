package codec

import (
	"io"

	"github.com/dsnet/compress/bzip2"
)

// Bzip2 implements Codec for the bzip2 compression format.
//
// Level is the compression level for encoding; the zero value uses bzip2.DefaultCompression.
type Bzip2 struct {
	Level int
}

var _ Codec = Bzip2{}

func (c Bzip2) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	return bzip2.NewReader(src, nil)
}

func (c Bzip2) NewEncoder(dst io.Writer) (io.WriteCloser, error) {
	level := c.Level
	if level == 0 {
		level = bzip2.DefaultCompression
	}

	return bzip2.NewWriter(dst, &bzip2.WriterConfig{Level: level})
}
