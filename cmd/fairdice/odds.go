package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/fairdice/internal/config"
	"github.com/lox/fairdice/internal/console"
)

// OddsCmd prints the pairwise win probabilities.
type OddsCmd struct {
	Dice   []string `arg:"" optional:"" name:"dice" help:"Dice as comma separated faces"`
	Config string   `short:"c" type:"existingfile" help:"HCL configuration file" env:"FAIRDICE_CONFIG"`
}

func (cmd *OddsCmd) Run(_ *Globals) error {
	return cmd.run(os.Stdout)
}

func (cmd *OddsCmd) run(out io.Writer) error {
	settings, err := config.Load(cmd.Config, cmd.Dice)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Probability that the row dice beats the column dice:")
	fmt.Fprintln(out, console.ProbabilityTable(rules(settings), console.DefaultStyles()))
	return nil
}
