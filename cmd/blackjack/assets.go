package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/blackjack/internal/assets"
)

// AssetsCmd lists the card image names, or checks a directory holds them all
type AssetsCmd struct {
	Dir string `help:"Check that this directory contains every image" type:"existingdir"`
}

func (c *AssetsCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *AssetsCmd) run(w io.Writer) error {
	if c.Dir == "" {
		_, err := fmt.Fprintln(w, strings.Join(assets.Names(), "\n"))
		return err
	}

	missing, err := assets.NewResolver(os.DirFS(c.Dir)).Missing()
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s is missing %d images: %s", c.Dir, len(missing), strings.Join(missing, ", "))
	}

	_, err = fmt.Fprintf(w, "%s has all %d images\n", c.Dir, len(assets.Names()))
	return err
}
