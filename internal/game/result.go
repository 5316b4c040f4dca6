package game

import (
	"time"

	"github.com/lox/fairdice/internal/dice"
	"github.com/lox/fairdice/internal/fairness"
)

// Exchange records one turn so the player can verify it afterwards.
// UserContribution is the typed number already reduced into [0, Modulus).
type Exchange struct {
	Round        int
	Turn         int
	Active       Player
	ActiveDice   dice.Dice
	OpponentDice dice.Dice
	ActiveRoll   int

	Modulus              int
	ComputerContribution int
	UserContribution     int
	Combined             int
	OpponentThrow        int

	Algorithm fairness.Algorithm
	Key       string
	Digest    string
}

// UserThrow returns the value credited to the user for this exchange.
func (x Exchange) UserThrow() int {
	if x.Active == User {
		return x.ActiveRoll
	}
	return x.OpponentThrow
}

// ComputerThrow returns the value credited to the computer.
func (x Exchange) ComputerThrow() int {
	if x.Active == Computer {
		return x.ActiveRoll
	}
	return x.OpponentThrow
}

// RoundResult is the score of one finished round.
type RoundResult struct {
	Round         int
	FirstMover    Player
	UserScore     int
	ComputerScore int
	Outcome       Outcome
}

// Result is the final report of a session.
type Result struct {
	SessionID string
	Aborted   bool

	Rounds    []RoundResult
	Exchanges []Exchange

	UserScore     int
	ComputerScore int
	Outcome       Outcome

	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is the wall time of the session.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
