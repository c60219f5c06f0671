package xopen

import (
	"bytes"
	"strings"

	"github.com/nguyengg/xopen/codec"
)

// Format describes one compression format: how to recognise it on disk and which engines can handle it.
type Format struct {
	// Name is the canonical format name, matched case-insensitively by Registry.Get.
	Name string

	// Aliases are additional names accepted by Registry.Get.
	Aliases []string

	// Exts are the file name extensions for this format including the leading dot, compound extensions first
	// (".tar.gz" must be listed before ".gz" so it wins suffix matching).
	Exts []string

	// Magic are the magic-byte signatures for this format, longest and most specific first.
	Magic [][]byte

	// Programs are the external program names capable of handling this format, in order of preference.
	Programs []string

	// ProgramFlags are extra flags passed on every program invocation for this format, e.g. --format=lzma so xz
	// produces lzma frames.
	ProgramFlags []string

	// NewCodec creates the native codec for this format with the given compression level (0 for the codec
	// default), or is nil if the format has no in-process implementation.
	NewCodec func(level int) codec.Codec
}

// DefaultExt returns the format's primary extension.
func (f *Format) DefaultExt() string {
	return f.Exts[len(f.Exts)-1]
}

// decompressArgs returns the argument vector for running the named program as a streaming decompressor.
func (f *Format) decompressArgs(program string) []string {
	return append([]string{program, "-d", "-c"}, f.ProgramFlags...)
}

// compressArgs returns the argument vector for running the named program as a streaming compressor with the given
// level (0 for the program default). The common compressors all accept -1 through -9.
func (f *Format) compressArgs(program string, level int) []string {
	argv := append([]string{program, "-c"}, f.ProgramFlags...)
	if level > 0 && level <= 9 {
		argv = append(argv, "-"+string(rune('0'+level)))
	}
	return argv
}

// Registry is the static table of known compression formats. It is immutable after construction and safe for
// concurrent use.
type Registry struct {
	formats []*Format
	byName  map[string]*Format
	maxPeek int
}

// NewRegistry builds a Registry from the given formats. Registry order is the tie-break order for magic-byte
// detection. Names and aliases are indexed case-insensitively.
func NewRegistry(formats ...*Format) *Registry {
	r := &Registry{formats: formats, byName: make(map[string]*Format)}
	for _, f := range formats {
		r.byName[strings.ToLower(f.Name)] = f
		for _, alias := range f.Aliases {
			r.byName[strings.ToLower(alias)] = f
		}
		for _, m := range f.Magic {
			if len(m) > r.maxPeek {
				r.maxPeek = len(m)
			}
		}
	}

	return r
}

// DefaultRegistry returns a Registry with every format xopen knows natively or by external program.
//
// Magic numbers are from https://en.wikipedia.org/wiki/List_of_file_signatures. Brotli has no magic signature and is
// only detected by extension or explicit override.
func DefaultRegistry() *Registry {
	return NewRegistry(
		&Format{
			Name:     "gzip",
			Aliases:  []string{"gz"},
			Exts:     []string{".tar.gz", ".tgz", ".gz"},
			Magic:    [][]byte{{0x1f, 0x8b}},
			Programs: []string{"pigz", "gzip"},
			NewCodec: func(level int) codec.Codec { return codec.Gzip{Level: level} },
		},
		&Format{
			Name:     "bzip2",
			Aliases:  []string{"bz2", "bzip"},
			Exts:     []string{".tar.bz2", ".tbz2", ".bzip2", ".bz2"},
			Magic:    [][]byte{{0x42, 0x5a, 0x68}},
			Programs: []string{"pbzip2", "bzip2"},
			NewCodec: func(level int) codec.Codec { return codec.Bzip2{Level: level} },
		},
		&Format{
			Name:     "xz",
			Exts:     []string{".tar.xz", ".txz", ".xz"},
			Magic:    [][]byte{{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
			Programs: []string{"xz"},
			NewCodec: func(level int) codec.Codec { return codec.Xz{} },
		},
		&Format{
			Name:         "lzma",
			Exts:         []string{".lzma"},
			Magic:        [][]byte{{0x5d, 0x00, 0x00}},
			Programs:     []string{"xz", "lzma"},
			ProgramFlags: []string{"--format=lzma"},
			NewCodec:     func(level int) codec.Codec { return codec.Lzma{} },
		},
		&Format{
			Name:     "zstd",
			Aliases:  []string{"zst"},
			Exts:     []string{".tar.zst", ".zstd", ".zst"},
			Magic:    [][]byte{{0x28, 0xb5, 0x2f, 0xfd}},
			Programs: []string{"zstd"},
			NewCodec: func(level int) codec.Codec { return codec.Zstd{Level: level} },
		},
		&Format{
			Name:     "lz4",
			Exts:     []string{".tar.lz4", ".lz4"},
			Magic:    [][]byte{{0x04, 0x22, 0x4d, 0x18}},
			Programs: []string{"lz4"},
			NewCodec: func(level int) codec.Codec { return codec.Lz4{Level: level} },
		},
		&Format{
			Name:     "brotli",
			Aliases:  []string{"br"},
			Exts:     []string{".br"},
			Programs: []string{"brotli"},
			NewCodec: func(level int) codec.Codec { return codec.Brotli{Level: level} },
		},
		&Format{
			Name:     "snappy",
			Aliases:  []string{"sz"},
			Exts:     []string{".snappy", ".sz"},
			Magic:    [][]byte{{0xff, 0x06, 0x00, 0x00, 0x73, 0x4e, 0x61, 0x50}},
			NewCodec: func(level int) codec.Codec { return codec.Snappy{} },
		},
	)
}

// Get returns the format registered under the given name or alias, matched case-insensitively. An unrecognised name
// is a hard UnknownFormatError, never silently ignored.
func (r *Registry) Get(name string) (*Format, error) {
	if f, ok := r.byName[strings.ToLower(name)]; ok {
		return f, nil
	}

	return nil, &UnknownFormatError{Name: name}
}

// Formats returns the registered formats in registry order.
func (r *Registry) Formats() []*Format {
	return r.formats
}

// MaxMagicLen returns the number of leading bytes Detect needs to identify any registered format.
func (r *Registry) MaxMagicLen() int {
	return r.maxPeek
}

// Detect matches the given leading bytes against every registered magic signature and returns the matching format, or
// nil if no signature matches. The longest match wins; ties are broken by registry order.
func (r *Registry) Detect(prefix []byte) *Format {
	var (
		best    *Format
		bestLen int
	)
	for _, f := range r.formats {
		for _, m := range f.Magic {
			if len(m) > bestLen && bytes.HasPrefix(prefix, m) {
				best, bestLen = f, len(m)
			}
		}
	}

	return best
}

// DetectName matches the file name against every registered extension and returns the matching format, or nil if no
// extension matches. The longest compound suffix wins, so "file.tar.gz" matches ".tar.gz" before ".gz". Matching is
// case-insensitive.
func (r *Registry) DetectName(name string) *Format {
	name = strings.ToLower(name)

	var (
		best    *Format
		bestLen int
	)
	for _, f := range r.formats {
		for _, ext := range f.Exts {
			if len(ext) > bestLen && strings.HasSuffix(name, ext) {
				best, bestLen = f, len(ext)
			}
		}
	}

	return best
}
