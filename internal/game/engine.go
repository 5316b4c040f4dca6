package game

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/fairdice/internal/dice"
	"github.com/lox/fairdice/internal/fairness"
	"github.com/lox/fairdice/internal/sessionid"
)

const (
	// DefaultTurnsPerRound is the number of exchanges before a round ends.
	DefaultTurnsPerRound = 6
	// DefaultMaxRounds keeps the game to a single round.
	DefaultMaxRounds = 1
)

// Config is the static configuration of a session. Names, when set, labels
// Dice index for index.
type Config struct {
	Dice          []dice.Dice
	Names         []string
	MaxRounds     int
	TurnsPerRound int
}

// Engine runs one game session. It is not safe for concurrent use; every
// call blocks on the Prompter.
type Engine struct {
	cfg      Config
	prompter Prompter
	out      io.Writer

	gen       *fairness.Generator
	rolls     dice.Source
	logger    *log.Logger
	clock     quartz.Clock
	sessionID string
	observe   func(State)
	autoDice  bool

	state  GameState
	chosen [2]*dice.Dice
}

// Option configures an Engine.
type Option func(*Engine)

// WithGenerator sets the commitment generator.
func WithGenerator(g *fairness.Generator) Option {
	return func(e *Engine) { e.gen = g }
}

// WithRollSource sets the source for flavor rolls, and for the computer's
// dice choice under WithAutoComputerDice.
func WithRollSource(src dice.Source) Option {
	return func(e *Engine) { e.rolls = src }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock sets the clock used to timestamp the session.
func WithClock(c quartz.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.sessionID = id }
}

// WithAutoComputerDice lets the computer pick its own dice from the roll
// source instead of presenting the dice menu on its turn.
func WithAutoComputerDice() Option {
	return func(e *Engine) { e.autoDice = true }
}

// WithObserver registers fn to be called on every state entered.
func WithObserver(fn func(State)) Option {
	return func(e *Engine) { e.observe = fn }
}

// NewEngine validates cfg and returns a ready engine.
func NewEngine(cfg Config, prompter Prompter, out io.Writer, opts ...Option) (*Engine, error) {
	if len(cfg.Dice) == 0 {
		return nil, errors.New("at least one dice is required")
	}
	if prompter == nil {
		return nil, errors.New("prompter is required")
	}
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.TurnsPerRound == 0 {
		cfg.TurnsPerRound = DefaultTurnsPerRound
	}
	if cfg.MaxRounds < 0 || cfg.TurnsPerRound < 0 {
		return nil, fmt.Errorf("rounds (%d) and turns per round (%d) must be positive", cfg.MaxRounds, cfg.TurnsPerRound)
	}
	if len(cfg.Names) > 0 && len(cfg.Names) != len(cfg.Dice) {
		return nil, fmt.Errorf("got %d dice names for %d dice", len(cfg.Names), len(cfg.Dice))
	}
	if out == nil {
		out = io.Discard
	}

	e := &Engine{
		cfg:      cfg,
		prompter: prompter,
		out:      out,
		gen:      fairness.NewGenerator(),
		rolls:    dice.NewCryptoSource(),
		logger:   log.New(io.Discard),
		clock:    quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sessionID == "" {
		id, err := sessionid.New()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", fairness.ErrEntropy, err)
		}
		e.sessionID = id
	} else if err := sessionid.Validate(e.sessionID); err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	e.logger = e.logger.With("session", e.sessionID)
	e.state.MaxRounds = cfg.MaxRounds
	return e, nil
}

// State returns a copy of the current counters.
func (e *Engine) State() GameState {
	return e.state
}

// SessionID returns the identifier used in logs and the result.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Play runs the session to completion. An exit signal yields a Result with
// Aborted set and a nil error. Entropy and I/O failures are returned.
func (e *Engine) Play() (*Result, error) {
	res := &Result{
		SessionID: e.sessionID,
		StartedAt: e.clock.Now(),
	}
	e.logger.Info("Starting game", "dice", len(e.cfg.Dice), "rounds", e.cfg.MaxRounds, "algorithm", e.gen.Algorithm())

	err := e.run(res)
	res.FinishedAt = e.clock.Now()

	switch {
	case errors.Is(err, ErrUserAbort):
		e.enter(Aborted)
		e.say("Exiting the game.")
		res.Aborted = true
		res.UserScore = e.state.UserTotal
		res.ComputerScore = e.state.ComputerTotal
		e.logger.Info("Game aborted by user", "round", e.state.CurrentRound, "turns", e.state.TurnsCompleted)
		return res, nil
	case err != nil:
		e.logger.Error("Game failed", "error", err)
		return nil, err
	}

	e.endGame(res)
	e.logger.Info("Game finished", "outcome", res.Outcome, "user", res.UserScore, "computer", res.ComputerScore, "duration", res.Duration())
	return res, nil
}

func (e *Engine) run(res *Result) error {
	var (
		mover    Player
		selected dice.Dice
	)

	e.startRound()
	state := DeterminingFirstMove
	for {
		e.enter(state)
		switch state {
		case DeterminingFirstMove:
			first, err := e.determineFirstMove()
			if err != nil {
				return err
			}
			mover = first
			res.Rounds = append(res.Rounds, RoundResult{Round: e.state.CurrentRound, FirstMover: first})
			state = SelectingDice

		case SelectingDice:
			d, err := e.selectDice(mover)
			if err != nil {
				return err
			}
			selected = d
			state = Rolling

		case Rolling:
			x, err := e.roll(mover, selected)
			if err != nil {
				return err
			}
			res.Exchanges = append(res.Exchanges, x)
			state = CheckingEnd

		case CheckingEnd:
			if e.state.TurnsCompleted >= e.cfg.TurnsPerRound {
				state = RoundEnding
				continue
			}
			if e.state.TurnsCompleted%2 == 0 {
				mover = User
			} else {
				mover = Computer
			}
			state = SelectingDice

		case RoundEnding:
			e.endRound(&res.Rounds[len(res.Rounds)-1])
			if e.state.CurrentRound >= e.cfg.MaxRounds {
				return nil
			}
			e.startRound()
			state = DeterminingFirstMove
		}
	}
}

func (e *Engine) enter(s State) {
	e.logger.Debug("Entering state", "state", s, "round", e.state.CurrentRound, "turns", e.state.TurnsCompleted)
	if e.observe != nil {
		e.observe(s)
	}
}

func (e *Engine) startRound() {
	e.state.beginRound()
	e.chosen = [2]*dice.Dice{}
	if e.cfg.MaxRounds > 1 {
		e.say("Starting round %d of %d.", e.state.CurrentRound, e.cfg.MaxRounds)
	}
}

func (e *Engine) determineFirstMove() (Player, error) {
	commit, err := e.gen.Generate(2)
	if err != nil {
		return User, fmt.Errorf("commit first move: %w", err)
	}
	e.logger.Debug("Commitment published", "purpose", "first-move", "algorithm", commit.Algorithm(), "digest", commit.Digest())

	e.say("Let's determine who makes the first move.")
	e.say("I selected a random value in the range 0..1 (HMAC=%s).", commit.Digest())
	e.say("Try to guess my selection.")
	e.say("0 - 0")
	e.say("1 - 1")
	e.say("X - exit")
	e.say("? - help")

	var guess int
	for {
		input, err := e.ask("Your selection: ")
		if err != nil {
			return User, err
		}
		guess, err = strconv.Atoi(input)
		if err == nil && (guess == 0 || guess == 1) {
			break
		}
		e.invalid(input)
	}

	disclosed, err := commit.Reveal()
	if err != nil {
		return User, err
	}
	e.say("My selection: %d (KEY=%s).", disclosed.Value, disclosed.KeyHex())
	e.logger.Debug("Commitment revealed", "purpose", "first-move", "value", disclosed.Value, "guess", guess)

	if guess == disclosed.Value {
		e.say("You make the first move.")
		return User, nil
	}
	e.say("I make the first move.")
	return Computer, nil
}

func (e *Engine) selectDice(p Player) (dice.Dice, error) {
	if p == Computer {
		e.say("It's time for my throw.")
		if e.autoDice {
			idx := e.rolls.Intn(len(e.cfg.Dice))
			d := e.cfg.Dice[idx]
			e.chosen[Computer] = &d
			e.say("I choose the %s dice.", e.label(idx))
			return d, nil
		}
	} else {
		e.say("It's time for your throw.")
	}

	e.say("Choose your dice:")
	for i, d := range e.cfg.Dice {
		if e.name(i) == "" {
			e.say("%d - %s", i, d)
		} else {
			e.say("%d - %s", i, e.label(i))
		}
	}
	e.say("X - exit")
	e.say("? - help")

	for {
		input, err := e.ask("Your selection: ")
		if err != nil {
			return dice.Dice{}, err
		}
		idx, err := strconv.Atoi(input)
		if err != nil || idx < 0 || idx >= len(e.cfg.Dice) {
			e.invalid(input)
			continue
		}
		d := e.cfg.Dice[idx]
		e.chosen[p] = &d
		if p == User {
			e.say("You choose the %s dice.", e.label(idx))
		} else {
			e.say("I take the %s dice.", e.label(idx))
		}
		return d, nil
	}
}

func (e *Engine) name(i int) string {
	if i < len(e.cfg.Names) {
		return e.cfg.Names[i]
	}
	return ""
}

// label is "[faces]", prefixed with the dice name when one is configured.
func (e *Engine) label(i int) string {
	if n := e.name(i); n != "" {
		return fmt.Sprintf("%s [%s]", n, e.cfg.Dice[i])
	}
	return fmt.Sprintf("[%s]", e.cfg.Dice[i])
}

// roll plays one exchange. The active player's throw is a flavor roll of
// their own dice; the opponent's throw is the committed computer value plus
// the user's contribution, reduced modulo the opponent dice's face count.
func (e *Engine) roll(active Player, activeDice dice.Dice) (Exchange, error) {
	opponentDice := activeDice
	if d := e.chosen[active.Opponent()]; d != nil {
		opponentDice = *d
	}

	x := Exchange{
		Round:        e.state.CurrentRound,
		Turn:         e.state.TurnsCompleted + 1,
		Active:       active,
		ActiveDice:   activeDice,
		OpponentDice: opponentDice,
		Modulus:      opponentDice.Len(),
	}

	x.ActiveRoll = activeDice.RollWith(e.rolls)
	if active == User {
		e.say("You roll the dice...")
		e.say("You rolled: %d", x.ActiveRoll)
	} else {
		e.say("I roll the dice...")
		e.say("I rolled: %d", x.ActiveRoll)
	}

	commit, err := e.gen.Generate(x.Modulus)
	if err != nil {
		return x, fmt.Errorf("commit throw: %w", err)
	}
	x.Digest = commit.Digest()
	x.Algorithm = commit.Algorithm()
	e.logger.Debug("Commitment published", "purpose", "throw", "turn", x.Turn, "modulus", x.Modulus, "algorithm", x.Algorithm, "digest", x.Digest)
	e.say("I selected a random value in the range 0..%d (HMAC=%s).", x.Modulus-1, x.Digest)

	prompt := fmt.Sprintf("Add your number modulo %d: ", x.Modulus)
	for {
		input, err := e.ask(prompt)
		if err != nil {
			return x, err
		}
		v, err := strconv.Atoi(input)
		if err == nil {
			x.UserContribution = ((v % x.Modulus) + x.Modulus) % x.Modulus
			break
		}
		e.invalid(input)
	}

	disclosed, err := commit.Reveal()
	if err != nil {
		return x, err
	}
	x.ComputerContribution = disclosed.Value
	x.Key = disclosed.KeyHex()
	x.Combined = (x.ComputerContribution + x.UserContribution) % x.Modulus
	x.OpponentThrow = opponentDice.Face(x.Combined)

	e.say("My number is %d (KEY=%s).", x.ComputerContribution, x.Key)
	e.say("The result is %d + %d = %d (mod %d).", x.ComputerContribution, x.UserContribution, x.Combined, x.Modulus)
	if active == User {
		e.say("My throw is %d.", x.OpponentThrow)
	} else {
		e.say("Your throw is %d.", x.OpponentThrow)
	}
	e.say("Your score: %d + %d, my score: %d + %d.",
		e.state.UserScore, x.UserThrow(), e.state.ComputerScore, x.ComputerThrow())

	e.state.credit(x.UserThrow(), x.ComputerThrow())
	e.logger.Debug("Exchange complete",
		"turn", x.Turn,
		"active", active,
		"activeRoll", x.ActiveRoll,
		"computerContribution", x.ComputerContribution,
		"userContribution", x.UserContribution,
		"combined", x.Combined,
		"opponentThrow", x.OpponentThrow)
	return x, nil
}

func (e *Engine) endRound(r *RoundResult) {
	r.UserScore = e.state.UserScore
	r.ComputerScore = e.state.ComputerScore
	r.Outcome = Compare(r.UserScore, r.ComputerScore)
	e.state.closeRound()

	e.say("Round over!")
	e.say("Your score: %d", r.UserScore)
	e.say("Computer's score: %d", r.ComputerScore)
	switch r.Outcome {
	case UserWins:
		e.say("You win this round!")
	case ComputerWins:
		e.say("I win this round!")
	default:
		e.say("It's a tie this round!")
	}
	e.logger.Debug("Round finished", "round", r.Round, "outcome", r.Outcome)
}

func (e *Engine) endGame(res *Result) {
	e.enter(GameEnding)
	res.UserScore = e.state.UserTotal
	res.ComputerScore = e.state.ComputerTotal
	res.Outcome = Compare(res.UserScore, res.ComputerScore)

	e.say("Game over!")
	e.say("Final score:")
	e.say("Your score: %d", res.UserScore)
	e.say("Computer's score: %d", res.ComputerScore)
	switch res.Outcome {
	case UserWins:
		e.say("You win the game!")
	case ComputerWins:
		e.say("I win the game!")
	default:
		e.say("It's a tie!")
	}
}

// ask prompts until the player types something other than help. Exit
// becomes ErrUserAbort.
func (e *Engine) ask(text string) (string, error) {
	for {
		raw, err := e.prompter.Prompt(text)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		input := strings.TrimSpace(raw)
		switch {
		case IsExit(input):
			return "", ErrUserAbort
		case IsHelp(input):
			e.prompter.ShowHelp()
		default:
			return input, nil
		}
	}
}

func (e *Engine) invalid(input string) {
	e.logger.Debug("Invalid selection", "input", input)
	e.say("Invalid selection. Please try again.")
}

func (e *Engine) say(format string, args ...any) {
	fmt.Fprintf(e.out, format+"\n", args...)
}
