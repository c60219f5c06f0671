package util

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// DefaultBytes creates a byte-counting progress bar for a transfer of known or unknown (-1) size. The returned writer
// should sit alongside the real destination in an io.MultiWriter.
func DefaultBytes(size int64, description string, options ...progressbar.Option) io.WriteCloser {
	return progressbar.NewOptions64(size, append([]progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(65 * time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionOnCompletion(func() {
			_, _ = os.Stderr.WriteString("\n")
		}),
	}, options...)...)
}
