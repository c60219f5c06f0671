package xopen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Strings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(file, []byte("hi"), 0o644))

	tests := []struct {
		name     string
		target   string
		mode     Mode
		wantKind targetKind
		wantErr  bool
	}{
		{name: "existing file read", target: file, mode: Read, wantKind: targetPath},
		{name: "new file write", target: filepath.Join(dir, "new.txt"), mode: Write, wantKind: targetPath},
		{name: "missing file read", target: filepath.Join(dir, "missing.txt"), mode: Read, wantErr: true},
		{name: "directory read", target: dir, mode: Read, wantErr: true},
		{name: "std read", target: "-", mode: Read, wantKind: targetStd},
		{name: "std write", target: "-", mode: Write, wantKind: targetStd},
		{name: "std append", target: "-", mode: Append, wantErr: true},
		{name: "command read", target: "|sort -k2", mode: Read, wantKind: targetCommand},
		{name: "command write", target: "|gzip -c", mode: Write, wantKind: targetCommand},
		{name: "command append", target: "|sort", mode: Append, wantErr: true},
		{name: "empty command", target: "|  ", mode: Read, wantErr: true},
		{name: "http url", target: "https://example.com/data.gz", mode: Read, wantKind: targetURL},
		{name: "s3 url", target: "s3://bucket/key.gz", mode: Read, wantKind: targetURL},
		{name: "url append", target: "s3://bucket/key.gz", mode: Append, wantErr: true},
		{name: "empty", target: "", mode: Read, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt, err := resolve(tt.target, &Options{Mode: tt.mode})
			if tt.wantErr {
				var ite *InvalidTargetError
				assert.ErrorAs(t, err, &ite)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, tgt.kind)
			assert.Equal(t, tt.target, tgt.name)
		})
	}
}

func TestResolve_Command(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    []string
		wantErr bool
	}{
		{name: "plain", target: "|sort -k2 -n", want: []string{"sort", "-k2", "-n"}},
		{name: "double quotes", target: `|grep "a b" file`, want: []string{"grep", "a b", "file"}},
		{name: "single quotes", target: `|awk '{print $1}'`, want: []string{"awk", "{print $1}"}},
		{name: "adjacent quoted and bare", target: `|echo pre"mid dle"post`, want: []string{"echo", "premid dlepost"}},
		{name: "empty quoted argument", target: `|cmd ""`, want: []string{"cmd", ""}},
		{name: "unterminated quote", target: `|grep "a b`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt, err := resolve(tt.target, &Options{Mode: Read})
			if tt.wantErr {
				var ite *InvalidTargetError
				assert.ErrorAs(t, err, &ite)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, tgt.argv)
		})
	}
}

func TestResolve_Buffer(t *testing.T) {
	b := NewBuffer([]byte("seed"))

	tgt, err := resolve(b, &Options{Mode: Read})
	require.NoError(t, err)
	assert.Equal(t, targetBuffer, tgt.kind)
	assert.Same(t, b, tgt.buffer)
}

func TestResolve_Nil(t *testing.T) {
	_, err := resolve(nil, &Options{Mode: Read})
	var ite *InvalidTargetError
	assert.ErrorAs(t, err, &ite)
}

func TestResolve_Streams(t *testing.T) {
	tests := []struct {
		name    string
		v       any
		mode    Mode
		wantErr bool
	}{
		{name: "reader read", v: strings.NewReader("hi"), mode: Read},
		{name: "reader write", v: strings.NewReader("hi"), mode: Write, wantErr: true},
		{name: "writer write", v: &bytes.Buffer{}, mode: Write},
		{name: "writer append not seekable", v: justWriter{}, mode: Append, wantErr: true},
		{name: "not a stream", v: 42, mode: Read, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolve(tt.v, &Options{Mode: tt.mode})
			if tt.wantErr {
				var ite *InvalidTargetError
				assert.ErrorAs(t, err, &ite)
				return
			}

			assert.NoError(t, err)
		})
	}
}

type justWriter struct{}

func (justWriter) Write(p []byte) (int, error) {
	return len(p), nil
}
