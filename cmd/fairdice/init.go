package main

import (
	"fmt"
	"os"

	"github.com/lox/fairdice/internal/config"
)

// InitCmd writes an example configuration.
type InitCmd struct {
	Path  string `arg:"" optional:"" default:"fairdice.hcl" help:"Where to write the file"`
	Force bool   `help:"Overwrite an existing file"`
}

func (cmd *InitCmd) Run(_ *Globals) error {
	if !cmd.Force {
		if _, err := os.Stat(cmd.Path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cmd.Path)
		}
	}
	if err := config.WriteExample(cmd.Path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", cmd.Path)
	return nil
}
