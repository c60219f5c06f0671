package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nguyengg/xopen"
	"golang.org/x/time/rate"
)

type Split struct {
	OpenerMixin

	Pattern     string `short:"P" long:"pattern" description:"output file template with a single {} placeholder, e.g. chrom-{}.txt.gz" required:"yes"`
	Field       *int   `short:"f" long:"field" description:"route each line by this 0-based whitespace-separated field"`
	Regexp      string `short:"e" long:"regexp" description:"route each line by the first capture group of this pattern"`
	Compression string `short:"c" long:"compression" description:"compression format override for the inputs" default:"auto"`
	Args        struct {
		Files []string `positional-arg-name:"file" description:"the files, URLs, or - whose lines are split"`
	} `positional-args:"yes"`
}

func (c *Split) Execute(args []string) (err error) {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	var token xopen.TokenFunc
	switch {
	case c.Field != nil && c.Regexp != "":
		return fmt.Errorf("--field and --regexp are mutually exclusive")
	case c.Field != nil:
		token = xopen.FieldToken(*c.Field)
	case c.Regexp != "":
		re, err := regexp.Compile(c.Regexp)
		if err != nil {
			return fmt.Errorf("compile --regexp error: %w", err)
		}
		token = xopen.RegexpToken(re)
	default:
		token = xopen.FieldToken(0)
	}

	files := c.Args.Files
	if len(files) == 0 {
		files = []string{xopen.Std}
	}

	opener, err := c.Opener(ctx, files...)
	if err != nil {
		return err
	}

	w, err := opener.NewPatternWriter(c.Pattern, token, func(opts *xopen.Options) {
		opts.Context = ctx
	})
	if err != nil {
		return err
	}

	var lines uint64
	sometimes := rate.Sometimes{Interval: 5 * time.Second}
	for _, file := range files {
		if err = func() error {
			src, err := opener.Open(file, func(opts *xopen.Options) {
				opts.Compression = c.Compression
				opts.Context = ctx
			})
			if err != nil {
				return err
			}
			defer src.Close()

			scanner := bufio.NewScanner(src)
			scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
			for scanner.Scan() {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				if err = w.WriteLine(scanner.Text()); err != nil {
					return err
				}

				lines++
				sometimes.Do(func() {
					log.Printf("split %s lines into %d files so far", humanize.Comma(int64(lines)), len(w.Tokens()))
				})
			}

			return scanner.Err()
		}(); err != nil {
			_ = w.Close()
			return fmt.Errorf(`split "%s" error: %w`, file, err)
		}
	}

	if err = w.Close(); err != nil {
		return err
	}

	log.Printf("split %s lines into %d files", humanize.Comma(int64(lines)), len(w.Tokens()))
	return nil
}
