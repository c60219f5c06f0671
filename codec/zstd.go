package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// Zstd implements Codec for the zstd compression format.
//
// Level is the compression level for encoding using zstd's 1-19 scale; the zero value uses the library default.
type Zstd struct {
	Level int
}

var _ Codec = Zstd{}

func (c Zstd) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, err
	}

	return &zstdDecoder{dec}, nil
}

func (c Zstd) NewEncoder(dst io.Writer) (io.WriteCloser, error) {
	if c.Level == 0 {
		return zstd.NewWriter(dst)
	}

	return zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(c.Level)))
}

type zstdDecoder struct {
	*zstd.Decoder
}

// Close adapts zstd.Decoder.Close which doesn't return error.
func (d *zstdDecoder) Close() error {
	d.Decoder.Close()
	return nil
}
