package codec

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// Lz4 implements Codec for the lz4 frame format.
//
// Level is the compression level for encoding (1-9); the zero value uses the fast default.
type Lz4 struct {
	Level int
}

var _ Codec = Lz4{}

var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6,
	lz4.Level7, lz4.Level8, lz4.Level9,
}

func (c Lz4) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(src)), nil
}

func (c Lz4) NewEncoder(dst io.Writer) (io.WriteCloser, error) {
	w := lz4.NewWriter(dst)
	if c.Level > 0 && c.Level < len(lz4Levels) {
		if err := w.Apply(lz4.CompressionLevelOption(lz4Levels[c.Level])); err != nil {
			return nil, err
		}
	}

	return w, nil
}
