package util

import "path/filepath"

// StemAndExt is a variant of filepath.Ext that detects extended extensions while also returning the stem.
//
// For example, `filepath.Ext("file.txt.gz")` would return ".gz", but `StemAndExt("file.txt.gz")` would return
// ".txt.gz" for the extension, "file" for the stem. This is useful for deriving sibling names: "file-1.txt.gz" reads
// more naturally than "file.txt-1.gz".
//
// StemAndExt will only accept file extensions of 5 characters or less, so if there is no `.` in the last 6 characters,
// the returned ext will be empty string unlike filepath.Ext which will keep searching until the last path separator or
// `.` is found.
func StemAndExt(path string) (stem, ext string) {
	n := len(path) - 1
	for i, j := n, max(0, n-6); i >= j; i-- {
		switch path[i] {
		case '\\', '/':
			stem = path[i+1:]
			return
		case '.':
			ext = path[i:] + ext
			path = path[:i]
			n = len(path)
			i, j = n, max(0, n-6)
			continue
		}
	}

	stem = filepath.Base(path)
	return
}
