package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lox/fairdice/internal/fairness"
)

var errMismatch = errors.New("HMAC does not match key and value")

// VerifyCmd recomputes a published HMAC from the revealed key and value.
type VerifyCmd struct {
	Key   string `required:"" help:"Revealed KEY (hex)"`
	Value int    `required:"" help:"Revealed value"`
	HMAC  string `name:"hmac" required:"" help:"HMAC published before your move (hex)"`
	Hash  string `default:"sha3-256" help:"Hash inside the HMAC (sha3-256 or sha256)" env:"FAIRDICE_HASH"`
}

func (cmd *VerifyCmd) Run(_ *Globals) error {
	return cmd.run(os.Stdout)
}

func (cmd *VerifyCmd) run(out io.Writer) error {
	alg, err := fairness.ParseAlgorithm(cmd.Hash)
	if err != nil {
		return err
	}
	ok, err := fairness.VerifyHex(alg, cmd.Key, cmd.Value, cmd.HMAC)
	if err != nil {
		return err
	}
	if !ok {
		return errMismatch
	}
	fmt.Fprintf(out, "OK: %s(KEY, %d) matches the published HMAC\n", alg.Label(), cmd.Value)
	return nil
}
