package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/xopen/util"
)

// NewLogger creates a logger with a consistent prefix for all file-based commands to use.
//
// i and n are the zero-based ordinal and expected count.
func NewLogger(i, n int, name flags.Filename) *log.Logger {
	prefix := fmt.Sprintf(`[%d/%d] "%s" - `, i+1, n, util.TruncateRightWithSuffix(filepath.Base(string(name)), 30, "..."))
	return log.New(os.Stderr, prefix, 0)
}
