package codec

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	data := []byte(strings.Repeat("hello, world!\n", 1000))

	tests := []struct {
		name  string
		codec Codec
	}{
		{name: "gzip", codec: Gzip{}},
		{name: "gzip level 9", codec: Gzip{Level: 9}},
		{name: "bzip2", codec: Bzip2{}},
		{name: "xz", codec: Xz{}},
		{name: "lzma", codec: Lzma{}},
		{name: "zstd", codec: Zstd{}},
		{name: "zstd level 19", codec: Zstd{Level: 19}},
		{name: "lz4", codec: Lz4{}},
		{name: "lz4 level 9", codec: Lz4{Level: 9}},
		{name: "brotli", codec: Brotli{}},
		{name: "snappy", codec: Snappy{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			enc, err := tt.codec.NewEncoder(&buf)
			require.NoError(t, err)
			_, err = enc.Write(data)
			require.NoError(t, err)
			require.NoError(t, enc.Close())

			assert.NotEqual(t, data, buf.Bytes())

			dec, err := tt.codec.NewDecoder(&buf)
			require.NoError(t, err)
			got, err := io.ReadAll(dec)
			require.NoError(t, err)
			require.NoError(t, dec.Close())

			assert.Equal(t, data, got)
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	// every decoder must reject a stream that is not in its format, either at construction or at first read.
	for _, tt := range []struct {
		name  string
		codec Codec
	}{
		{name: "gzip", codec: Gzip{}},
		{name: "bzip2", codec: Bzip2{}},
		{name: "xz", codec: Xz{}},
		{name: "zstd", codec: Zstd{}},
		{name: "lz4", codec: Lz4{}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := tt.codec.NewDecoder(strings.NewReader("this is not compressed data"))
			if err != nil {
				return
			}

			_, err = io.ReadAll(dec)
			assert.Error(t, err)
		})
	}
}
