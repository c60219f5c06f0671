package xopen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Get(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name string
		want string
	}{
		{name: "gzip", want: "gzip"},
		{name: "gz", want: "gzip"},
		{name: "GZIP", want: "gzip"},
		{name: "bz2", want: "bzip2"},
		{name: "zst", want: "zstd"},
		{name: "br", want: "brotli"},
		{name: "xz", want: "xz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := r.Get(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Name)
		})
	}

	_, err := r.Get("rar")
	var ufe *UnknownFormatError
	assert.ErrorAs(t, err, &ufe)
	assert.Equal(t, "rar", ufe.Name)
}

func TestRegistry_GetMixedCaseRegistration(t *testing.T) {
	// lookups stay case-insensitive no matter how the format declared itself.
	r := NewRegistry(&Format{Name: "GZip", Aliases: []string{"GZ"}, Exts: []string{".gz"}})

	for _, name := range []string{"gzip", "GZIP", "gz", "Gz"} {
		f, err := r.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, "GZip", f.Name)
	}
}

func TestRegistry_Detect(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name   string
		prefix []byte
		want   string
	}{
		{name: "gzip", prefix: []byte{0x1f, 0x8b, 0x08, 0x00}, want: "gzip"},
		{name: "bzip2", prefix: []byte{0x42, 0x5a, 0x68, 0x39}, want: "bzip2"},
		{name: "xz", prefix: []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}, want: "xz"},
		{name: "lzma", prefix: []byte{0x5d, 0x00, 0x00, 0x80}, want: "lzma"},
		{name: "zstd", prefix: []byte{0x28, 0xb5, 0x2f, 0xfd, 0x24}, want: "zstd"},
		{name: "lz4", prefix: []byte{0x04, 0x22, 0x4d, 0x18}, want: "lz4"},
		{name: "snappy", prefix: []byte{0xff, 0x06, 0x00, 0x00, 0x73, 0x4e, 0x61, 0x50, 0x70, 0x59}, want: "snappy"},
		{name: "plain text", prefix: []byte("hello"), want: ""},
		{name: "empty", prefix: nil, want: ""},
		{name: "too short", prefix: []byte{0x1f}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := r.Detect(tt.prefix)
			if tt.want == "" {
				assert.Nil(t, f)
				return
			}

			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Name)
		})
	}
}

func TestRegistry_DetectName(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name string
		want string
	}{
		{name: "file.gz", want: "gzip"},
		{name: "file.tar.gz", want: "gzip"},
		{name: "file.tgz", want: "gzip"},
		{name: "FILE.GZ", want: "gzip"},
		{name: "file.bz2", want: "bzip2"},
		{name: "file.xz", want: "xz"},
		{name: "file.lzma", want: "lzma"},
		{name: "file.zst", want: "zstd"},
		{name: "file.lz4", want: "lz4"},
		{name: "file.br", want: "brotli"},
		{name: "file.sz", want: "snappy"},
		{name: "file.txt", want: ""},
		{name: "file", want: ""},
		{name: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := r.DetectName(tt.name)
			if tt.want == "" {
				assert.Nil(t, f)
				return
			}

			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Name)
		})
	}
}

func TestRegistry_MaxMagicLen(t *testing.T) {
	// snappy's stream identifier is the longest registered signature.
	assert.Equal(t, 8, DefaultRegistry().MaxMagicLen())
}

func TestFormat_DefaultExt(t *testing.T) {
	r := DefaultRegistry()

	f, err := r.Get("gzip")
	require.NoError(t, err)
	assert.Equal(t, ".gz", f.DefaultExt())

	f, err = r.Get("zstd")
	require.NoError(t, err)
	assert.Equal(t, ".zst", f.DefaultExt())
}
