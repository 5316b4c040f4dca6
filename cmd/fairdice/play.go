package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/fairdice/cmd/fairdice/shared"
	"github.com/lox/fairdice/internal/config"
	"github.com/lox/fairdice/internal/console"
	"github.com/lox/fairdice/internal/dice"
	"github.com/lox/fairdice/internal/fairness"
	"github.com/lox/fairdice/internal/game"
)

// PlayCmd runs an interactive game.
type PlayCmd struct {
	Dice     []string `arg:"" optional:"" name:"dice" help:"Dice as comma separated faces, e.g. 2,2,4,4,9,9 1,1,6,6,8,8 3,3,5,5,7,7"`
	Config   string   `short:"c" type:"existingfile" help:"HCL configuration file" env:"FAIRDICE_CONFIG"`
	RollSeed int64    `help:"Seed for flavor rolls and the computer's dice choice (0 = secure random). Committed values are always secure."`
	AutoDice bool     `help:"Let the computer pick its own dice instead of showing the dice menu on its turn"`
	History  string   `help:"Readline history file" type:"path"`
}

func (cmd *PlayCmd) Run(g *Globals) error {
	logger, closer, err := shared.SetupLogger(g.Debug, g.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	settings, err := config.Load(cmd.Config, cmd.Dice)
	if err != nil {
		return err
	}

	con, err := console.New(rules(settings), console.Options{
		HistoryFile: cmd.History,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := con.Close(); err != nil {
			logger.Error("Failed to close console", "error", err)
		}
	}()

	con.Banner(" ⚀ ⚅ Fair Dice ⚅ ⚀ ")

	var opts []game.Option
	if cmd.RollSeed != 0 {
		opts = append(opts, game.WithRollSource(dice.NewSeededSource(cmd.RollSeed)))
	}
	if cmd.AutoDice {
		opts = append(opts, game.WithAutoComputerDice())
	}

	_, err = playSession(settings, con, os.Stdout, logger, nil, opts...)
	return err
}

func rules(s *config.Settings) console.Rules {
	return console.Rules{
		Dice:          s.Dice,
		Names:         s.DiceNames,
		Algorithm:     s.Algorithm,
		TurnsPerRound: s.TurnsPerRound,
		Rounds:        s.Rounds,
	}
}

// playSession runs one game and prints the verification summary. Committed
// values come from values, or from crypto/rand when it is nil.
func playSession(settings *config.Settings, p game.Prompter, out io.Writer, logger *log.Logger, values fairness.ValueSource, opts ...game.Option) (*game.Result, error) {
	genOpts := []fairness.Option{fairness.WithAlgorithm(settings.Algorithm)}
	if values != nil {
		genOpts = append(genOpts, fairness.WithValueSource(values))
	}
	gen := fairness.NewGenerator(genOpts...)
	base := []game.Option{game.WithGenerator(gen), game.WithLogger(logger)}

	engine, err := game.NewEngine(settings.GameConfig(), p, out, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	res, err := engine.Play()
	if err != nil {
		if errors.Is(err, fairness.ErrEntropy) {
			return nil, fmt.Errorf("cannot guarantee a fair game, aborting: %w", err)
		}
		return nil, err
	}

	if !res.Aborted {
		printSummary(out, res, settings.Algorithm)
	}
	return res, nil
}

func printSummary(out io.Writer, res *game.Result, alg fairness.Algorithm) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Session %s (%s, %s)\n", res.SessionID, alg.Label(), res.Duration().Round(time.Second))
	for _, x := range res.Exchanges {
		fmt.Fprintf(out, "  round %d turn %d: value=%d HMAC=%s KEY=%s\n",
			x.Round, x.Turn, x.ComputerContribution, x.Digest, x.Key)
	}
}
