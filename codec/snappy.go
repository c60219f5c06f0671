package codec

import (
	"io"

	"github.com/golang/snappy"
)

// Snappy implements Codec for the snappy framed stream format. Snappy has no compression levels.
type Snappy struct{}

var _ Codec = Snappy{}

func (c Snappy) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(src)), nil
}

func (c Snappy) NewEncoder(dst io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(dst), nil
}
