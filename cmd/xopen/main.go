package main

import (
	"github.com/nguyengg/xopen/internal/cli"
)

func main() {
	p, err := cli.NewParser()
	if err != nil {
		exit(err)
		return
	}

	_, err = p.Parse()
	exit(err)
}
