// Package game implements the two-player fair dice game.
//
// The main type is Engine, a sequential state machine that runs one session
// against a human through a Prompter:
//
//	DeterminingFirstMove -> SelectingDice -> Rolling -> CheckingEnd
//	                            ^                           |
//	                            +---------------------------+
//	CheckingEnd -> RoundEnding -> (next round | GameEnding)
//
// # Fairness
//
// Every value the computer contributes is committed through a
// fairness.Generator before the human is asked for input. The engine prints
// the HMAC first, reads the human's answer, and only then reveals the value
// and key. fairness.Pending does not expose the value until Reveal, so the
// order cannot be inverted by accident.
//
// # Basic Usage
//
//	set := []dice.Dice{dice.MustNew(2, 2, 4, 4, 9, 9), dice.MustNew(1, 1, 6, 6, 8, 8)}
//	e, err := game.NewEngine(game.Config{Dice: set}, prompter, os.Stdout)
//	res, err := e.Play()
//	if res.Aborted {
//	    // the player typed X
//	}
//
// # Deterministic Testing
//
// Inject a fairness.Generator with a fixed ValueSource and a seeded dice
// Source to make every draw reproducible:
//
//	e, _ := game.NewEngine(cfg, prompter, &buf,
//	    game.WithGenerator(fairness.NewGenerator(fairness.WithValueSource(src))),
//	    game.WithRollSource(dice.NewSeededSource(42)))
package game
