package codec

import (
	"io"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// Xz implements Codec for the xz compression format.
type Xz struct{}

var _ Codec = Xz{}

func (c Xz) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	r, err := xz.NewReader(src)
	if err != nil {
		return nil, err
	}

	return io.NopCloser(r), nil
}

func (c Xz) NewEncoder(dst io.Writer) (io.WriteCloser, error) {
	return xz.NewWriter(dst)
}

// Lzma implements Codec for the legacy lzma format (.lzma files, xz's predecessor).
type Lzma struct{}

var _ Codec = Lzma{}

func (c Lzma) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	r, err := lzma.NewReader(src)
	if err != nil {
		return nil, err
	}

	return io.NopCloser(r), nil
}

func (c Lzma) NewEncoder(dst io.Writer) (io.WriteCloser, error) {
	return lzma.NewWriter(dst)
}
