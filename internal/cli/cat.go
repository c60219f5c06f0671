package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nguyengg/xopen"
	"github.com/nguyengg/xopen/util"
	"golang.org/x/time/rate"
)

type Cat struct {
	OpenerMixin

	Compression string `short:"c" long:"compression" description:"compression format override for the inputs; auto detects, none passes bytes through" default:"auto"`
	Output      string `short:"o" long:"output" description:"write to this target instead of stdout" default:"-"`
	NoPrograms  bool   `long:"no-programs" description:"use native codecs even when an external program is installed"`
	Args        struct {
		Files []string `positional-arg-name:"file" description:"the files, URLs, or - to be decompressed and concatenated"`
	} `positional-args:"yes"`
}

func (c *Cat) Execute(args []string) (err error) {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	files := c.Args.Files
	if len(files) == 0 {
		files = []string{xopen.Std}
	}

	opener, err := c.Opener(ctx, append(files, c.Output)...)
	if err != nil {
		return err
	}

	// the output stays open across all inputs so they concatenate.
	dst, err := opener.Open(c.Output, func(opts *xopen.Options) {
		opts.Mode = xopen.Write
		opts.Compression = xopen.None
		opts.Context = ctx
	})
	if err != nil {
		return err
	}

	var written int64
	sometimes := rate.Sometimes{Interval: 5 * time.Second}
	n := len(files)
	for i, file := range files {
		src, err := opener.Open(file, func(opts *xopen.Options) {
			opts.Compression = c.Compression
			opts.NoPrograms = c.NoPrograms
			opts.Context = ctx
		})
		if err != nil {
			_ = dst.Close()
			return err
		}

		w, err := util.CopyBufferWithContext(ctx, dst, src, nil)
		written += w
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = dst.Close()
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf(`cat "%s" error: %w`, file, err)
		}

		sometimes.Do(func() {
			log.Printf("[%d/%d] written %s so far", i+1, n, humanize.Bytes(uint64(written)))
		})
	}

	return dst.Close()
}
