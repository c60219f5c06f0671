package cli

import (
	"github.com/jessevdk/go-flags"
)

type Xopen struct {
	Cat     Cat     `command:"cat" alias:"c" description:"decompress files or streams to an output"`
	Convert Convert `command:"convert" alias:"conv" description:"convert files between compression formats"`
	Split   Split   `command:"split" alias:"sp" description:"split lines of input into per-token output files"`
}

func NewParser() (*flags.Parser, error) {
	opts := &Xopen{}

	p := flags.NewNamedParser("xopen", flags.Default)
	if _, err := p.AddGroup("Global Options", "", opts); err != nil {
		return nil, err
	}

	return p, nil
}
