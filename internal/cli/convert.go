package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/xopen"
	"github.com/nguyengg/xopen/util"
)

type Convert struct {
	OpenerMixin

	To         string `short:"t" long:"to" description:"target compression format" choice:"gzip" choice:"bzip2" choice:"xz" choice:"lzma" choice:"zstd" choice:"lz4" choice:"brotli" choice:"snappy" required:"yes"`
	Level      int    `short:"l" long:"level" description:"compression level, 0 for the format default"`
	Delete     bool   `long:"delete" description:"if specified, delete the original files that were successfully converted"`
	NoPrograms bool   `long:"no-programs" description:"use native codecs even when an external program is installed"`
	Args       struct {
		Files []flags.Filename `positional-arg-name:"file" description:"the local files to be converted" required:"yes"`
	} `positional-args:"yes"`

	logger *log.Logger
}

func (c *Convert) Execute(args []string) (err error) {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	opener, err := c.Opener(ctx)
	if err != nil {
		return err
	}

	format, err := opener.Registry.Get(c.To)
	if err != nil {
		return err
	}

	success := 0
	n := len(c.Args.Files)
	for i, file := range c.Args.Files {
		c.logger = NewLogger(i, n, file)
		c.logger.Printf("start converting")

		if err = c.convert(ctx, opener, format, string(file)); err == nil {
			c.logger.Printf("done converting")
			success++
			continue
		}

		if errors.Is(err, context.Canceled) {
			break
		}

		c.logger.Printf(`convert "%s" error: %v`, file, err)
	}

	log.Printf("successfully converted %d/%d files", success, n)
	return nil
}

func (c *Convert) convert(ctx context.Context, opener *xopen.Opener, format *xopen.Format, name string) error {
	src, err := opener.Open(name, func(opts *xopen.Options) {
		opts.NoPrograms = c.NoPrograms
		opts.Context = ctx
	})
	if err != nil {
		return err
	}
	defer src.Close()

	// keep an inner extension such as .txt in file.txt.gz, so file.txt.gz converts to file.txt.zst.
	stem, ext := util.StemAndExt(name)
	if f := src.Format(); f != nil {
		for _, e := range f.Exts {
			if strings.HasSuffix(ext, e) {
				ext = strings.TrimSuffix(ext, e)
				break
			}
		}
	}

	dst, err := util.OpenExclFile(".", stem, ext+format.DefaultExt(), 0666)
	if err != nil {
		return fmt.Errorf("create output file error: %w", err)
	}

	bar := util.DefaultBytes(-1, "converting")
	defer bar.Close()

	out, err := opener.Open(dst, func(opts *xopen.Options) {
		opts.Mode = xopen.Write
		opts.Compression = format.Name
		opts.Level = c.Level
		opts.NoPrograms = c.NoPrograms
		opts.Context = ctx
	})
	if err != nil {
		_, _ = dst.Close(), os.Remove(dst.Name())
		return err
	}

	written, err := util.CopyBufferWithContext(ctx, io.MultiWriter(out, bar), src, nil)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := dst.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst.Name())
		return err
	}

	c.logger.Printf(`wrote %s to "%s"`, humanize.Bytes(uint64(written)), dst.Name())

	if c.Delete {
		if err = os.Remove(name); err != nil {
			c.logger.Printf(`delete file "%s" error: %v`, name, err)
		}
	}

	return nil
}
