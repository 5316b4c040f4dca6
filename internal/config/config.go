// Package config loads the dice set and game options from an HCL file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/fairdice/internal/dice"
	"github.com/lox/fairdice/internal/fairness"
	"github.com/lox/fairdice/internal/game"
)

// MinDice is the smallest playable dice set.
const MinDice = 2

// ErrTooFewDice is returned when fewer than MinDice are configured.
var ErrTooFewDice = errors.New("too few dice")

// File mirrors the HCL configuration file.
type File struct {
	Hash          string       `hcl:"hash,optional"`
	Rounds        int          `hcl:"rounds,optional"`
	TurnsPerRound int          `hcl:"turns_per_round,optional"`
	Dice          []DiceConfig `hcl:"dice,block"`
}

// DiceConfig is one labelled dice block.
type DiceConfig struct {
	Name  string `hcl:"name,label"`
	Faces []int  `hcl:"faces"`
}

// Overrides are read from the environment and win over the file.
type Overrides struct {
	Hash          string `env:"FAIRDICE_HASH"`
	Rounds        int    `env:"FAIRDICE_ROUNDS"`
	TurnsPerRound int    `env:"FAIRDICE_TURNS_PER_ROUND"`
}

// Settings is the resolved configuration used to build an engine. DiceNames
// holds the labels of configured dice; dice given on the command line are
// unnamed.
type Settings struct {
	Algorithm     fairness.Algorithm
	Rounds        int
	TurnsPerRound int
	Dice          []dice.Dice
	DiceNames     []string
}

// GameConfig returns the engine configuration.
func (s *Settings) GameConfig() game.Config {
	return game.Config{
		Dice:          s.Dice,
		Names:         s.DiceNames,
		MaxRounds:     s.Rounds,
		TurnsPerRound: s.TurnsPerRound,
	}
}

// Default returns settings with no dice and the single-round rules.
func Default() *Settings {
	return &Settings{
		Algorithm:     fairness.DefaultAlgorithm,
		Rounds:        game.DefaultMaxRounds,
		TurnsPerRound: game.DefaultTurnsPerRound,
	}
}

// LoadFile parses an HCL file.
func LoadFile(filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg File
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	return &cfg, nil
}

// Load resolves settings from an optional file, the environment, and dice
// given on the command line. Command line dice replace configured dice.
func Load(filename string, args []string) (*Settings, error) {
	s := Default()

	if filename != "" {
		f, err := LoadFile(filename)
		if err != nil {
			return nil, err
		}
		if err := s.applyFile(f); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}

	var o Overrides
	if err := env.Parse(&o); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := s.applyOverrides(o); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		set, err := dice.ParseAll(args)
		if err != nil {
			return nil, err
		}
		s.Dice = set
		s.DiceNames = nil
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyFile(f *File) error {
	if f.Hash != "" {
		alg, err := fairness.ParseAlgorithm(f.Hash)
		if err != nil {
			return err
		}
		s.Algorithm = alg
	}
	if f.Rounds != 0 {
		s.Rounds = f.Rounds
	}
	if f.TurnsPerRound != 0 {
		s.TurnsPerRound = f.TurnsPerRound
	}
	for _, dc := range f.Dice {
		d, err := dice.New(dc.Faces...)
		if err != nil {
			return fmt.Errorf("dice %q: %w", dc.Name, err)
		}
		s.Dice = append(s.Dice, d)
		s.DiceNames = append(s.DiceNames, dc.Name)
	}
	return nil
}

func (s *Settings) applyOverrides(o Overrides) error {
	if o.Hash != "" {
		alg, err := fairness.ParseAlgorithm(o.Hash)
		if err != nil {
			return fmt.Errorf("FAIRDICE_HASH: %w", err)
		}
		s.Algorithm = alg
	}
	if o.Rounds != 0 {
		s.Rounds = o.Rounds
	}
	if o.TurnsPerRound != 0 {
		s.TurnsPerRound = o.TurnsPerRound
	}
	return nil
}

// Validate checks the resolved settings.
func (s *Settings) Validate() error {
	if len(s.Dice) < MinDice {
		return fmt.Errorf("%w: need at least %d, got %d (pass dice like 2,2,4,4,9,9)", ErrTooFewDice, MinDice, len(s.Dice))
	}
	if s.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", s.Rounds)
	}
	if s.TurnsPerRound < 1 {
		return fmt.Errorf("turns per round must be at least 1, got %d", s.TurnsPerRound)
	}
	return nil
}

// WriteExample writes a sample configuration file.
func WriteExample(filename string) error {
	return os.WriteFile(filename, []byte(Example), 0o644)
}

// Example is a ready-to-edit configuration with the classic non-transitive
// set.
const Example = `# fairdice configuration
hash            = "sha3-256"
rounds          = 1
turns_per_round = 6

dice "red" {
  faces = [2, 2, 4, 4, 9, 9]
}

dice "blue" {
  faces = [1, 1, 6, 6, 8, 8]
}

dice "green" {
  faces = [3, 3, 5, 5, 7, 7]
}
`
