package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStemAndExt(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantStem string
		wantExt  string
	}{
		{
			name:     "test.txt",
			path:     "/path/to/test.txt",
			wantStem: "test",
			wantExt:  ".txt",
		},
		{
			name:     "test.tar.gz",
			path:     "/path/to/test.tar.gz",
			wantStem: "test",
			wantExt:  ".tar.gz",
		},
		{
			name:     "test.txt.zst",
			path:     "test.txt.zst",
			wantStem: "test",
			wantExt:  ".txt.zst",
		},
		{
			name:     "long extension is not an extension",
			path:     "/path/to/test.jfif-tbnl",
			wantStem: "test.jfif-tbnl",
			wantExt:  "",
		},
		{
			name:     "no extension",
			path:     "/path/to/ab",
			wantStem: "ab",
			wantExt:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStem, gotExt := StemAndExt(tt.path)
			assert.Equalf(t, tt.wantStem, gotStem, "StemAndExt() gotStem = %v, want %v", gotStem, tt.wantStem)
			assert.Equalf(t, tt.wantExt, gotExt, "StemAndExt() gotExt = %v, want %v", gotExt, tt.wantExt)
		})
	}
}

func TestTruncateRightWithSuffix(t *testing.T) {
	assert.Equal(t, "abc", TruncateRightWithSuffix("abc", 10, "..."))
	assert.Equal(t, "abc...", TruncateRightWithSuffix("abcdefgh", 3, "..."))
	assert.Equal(t, "abc", TruncateRight("abcdefgh", 3))
	assert.Equal(t, "...", TruncateRightWithSuffix("abc", 0, "..."))
}
