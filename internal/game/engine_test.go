package game

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/fairdice/internal/dice"
	"github.com/lox/fairdice/internal/fairness"
)

// Six turns alternate by parity of completed turns: user, computer, user...
// Every turn is a dice choice followed by a modulo contribution.
var fullRoundInputs = []string{
	"1",      // first move guess, matches committed 1
	"0", "0", // turn 1: user dice, modulo
	"0", "0", // turn 2: computer dice, modulo
	"0", "0", // turn 3
	"0", "0", // turn 4
	"0", "0", // turn 5
	"0", "0", // turn 6
}

func moduloPrompts(calls []promptCall) []promptCall {
	var out []promptCall
	for _, c := range calls {
		if strings.HasPrefix(c.text, "Add your number modulo") {
			out = append(out, c)
		}
	}
	return out
}

func TestFullRoundUserFirst(t *testing.T) {
	h := newHarness(t, Config{}, fullRoundInputs, []int{1, 0}, []int{0})

	res, err := h.engine.Play()
	require.NoError(t, err)
	require.False(t, res.Aborted)

	state := h.engine.State()
	assert.Equal(t, 6, state.TurnsCompleted)
	assert.Equal(t, 1, state.CurrentRound)
	assert.Equal(t, 1, h.count(RoundEnding))
	assert.Equal(t, 1, h.count(GameEnding))
	assert.Equal(t, 6, h.count(Rolling))
	assert.Equal(t, 6, h.count(SelectingDice))

	require.Len(t, res.Rounds, 1)
	assert.Equal(t, User, res.Rounds[0].FirstMover)

	require.Len(t, res.Exchanges, 6)
	movers := make([]Player, 0, 6)
	for _, x := range res.Exchanges {
		movers = append(movers, x.Active)
	}
	assert.Equal(t, []Player{User, Computer, User, Computer, User, Computer}, movers)

	// All draws are zero, so every throw is face 0 of diceA.
	assert.Equal(t, 12, res.UserScore)
	assert.Equal(t, 12, res.ComputerScore)
	assert.Equal(t, Tie, res.Outcome)
	assert.Equal(t, Tie, res.Rounds[0].Outcome)

	out := h.out.String()
	assert.Contains(t, out, "You make the first move.")
	assert.Contains(t, out, "It's a tie this round!")
	assert.Contains(t, out, "It's a tie!")
	assert.Equal(t, 1, strings.Count(out, "Round over!"))
	assert.Equal(t, 6, strings.Count(out, "Choose your dice:"))
	assert.Empty(t, h.prompter.inputs, "all scripted inputs consumed")
}

func TestComputerMovesFirstOnWrongGuess(t *testing.T) {
	inputs := []string{"0", "0", "0", "0", "0"}
	h := newHarness(t, Config{TurnsPerRound: 2}, inputs, []int{1, 0}, []int{0})

	res, err := h.engine.Play()
	require.NoError(t, err)

	out := h.out.String()
	assert.Contains(t, out, "I make the first move.")
	assert.Contains(t, out, "It's time for my throw.\nChoose your dice:\n0 - 2,2,4,4,9,9\n")
	assert.Contains(t, out, "I take the [2,2,4,4,9,9] dice.")

	// The prompt after the guess is the computer's dice menu.
	require.GreaterOrEqual(t, len(h.prompter.calls), 2)
	assert.Equal(t, "Your selection: ", h.prompter.calls[1].text)

	require.Len(t, res.Exchanges, 2)
	assert.Equal(t, Computer, res.Exchanges[0].Active)
	// One completed turn is odd, so the computer moves again.
	assert.Equal(t, Computer, res.Exchanges[1].Active)
	assert.Empty(t, h.prompter.inputs)
}

func TestExitAtComputerDiceSelection(t *testing.T) {
	// Wrong guess hands the first move to the computer; help is shown once and
	// the exit lands on the computer's dice menu.
	h := newHarness(t, Config{}, []string{"0", "?", "x"}, []int{1}, []int{0})

	res, err := h.engine.Play()
	require.NoError(t, err)
	assert.True(t, res.Aborted)
	assert.Equal(t, NoOutcome, res.Outcome)
	assert.Empty(t, res.Exchanges)
	assert.Equal(t, 1, h.prompter.helps)
	assert.Equal(t, 1, h.count(SelectingDice))
	assert.Equal(t, 1, h.count(Aborted))
	assert.Zero(t, h.count(Rolling))

	out := h.out.String()
	assert.Contains(t, out, "It's time for my throw.")
	assert.Contains(t, out, "Exiting the game.")
	assert.NotContains(t, out, "Game over!")
	assert.Equal(t, 1, strings.Count(out, "KEY="), "only the first move is revealed")
}

func TestAutoComputerDice(t *testing.T) {
	// Roll index 1 picks diceB for the computer without a menu.
	inputs := []string{"0", "0", "0"}
	h := newHarness(t, Config{TurnsPerRound: 2}, inputs, []int{1, 0}, []int{1}, WithAutoComputerDice())

	res, err := h.engine.Play()
	require.NoError(t, err)
	require.Len(t, res.Exchanges, 2)
	assert.Equal(t, diceB, res.Exchanges[0].ActiveDice)
	assert.Equal(t, diceB, res.Exchanges[1].ActiveDice)

	out := h.out.String()
	assert.Contains(t, out, "I choose the [1,1,6,6,8,8] dice.")
	assert.NotContains(t, out, "Choose your dice:")
	assert.Len(t, moduloPrompts(h.prompter.calls), 2)
	assert.Len(t, h.prompter.calls, 3)
}

func TestDiceNamesInMenu(t *testing.T) {
	cfg := Config{Names: []string{"red", "blue"}}
	h := newHarness(t, cfg, []string{"0", "1", "x"}, []int{0}, []int{0})

	res, err := h.engine.Play()
	require.NoError(t, err)
	assert.True(t, res.Aborted)

	out := h.out.String()
	assert.Contains(t, out, "0 - red [2,2,4,4,9,9]\n")
	assert.Contains(t, out, "1 - blue [1,1,6,6,8,8]\n")
	assert.Contains(t, out, "You choose the blue [1,1,6,6,8,8] dice.")
}

func TestModuloReduction(t *testing.T) {
	// committed: first move 0, throw 2; user adds 3 => (2+3) mod 6 = 5.
	// Turn 2 publishes a third commitment, then the player exits at the
	// contribution prompt.
	inputs := []string{"0", "0", "3", "0", "x"}
	h := newHarness(t, Config{}, inputs, []int{0, 2}, []int{0})

	res, err := h.engine.Play()
	require.NoError(t, err)
	require.True(t, res.Aborted)
	require.Len(t, res.Exchanges, 1)

	x := res.Exchanges[0]
	assert.Equal(t, 2, x.ComputerContribution)
	assert.Equal(t, 3, x.UserContribution)
	assert.Equal(t, 5, x.Combined)
	assert.Equal(t, 6, x.Modulus)
	assert.Equal(t, diceA.Face(5), x.OpponentThrow)
	assert.Equal(t, 9, x.ComputerThrow())

	out := h.out.String()
	assert.Contains(t, out, "The result is 2 + 3 = 5 (mod 6).")
	assert.Equal(t, 3, strings.Count(out, "HMAC="))
	assert.Equal(t, 2, strings.Count(out, "KEY="), "abandoned commitment stays sealed")

	calls := moduloPrompts(h.prompter.calls)
	require.Len(t, calls, 2)
	assert.NotContains(t, out[calls[1].offset:], "KEY=")
}

func TestMixedFaceCounts(t *testing.T) {
	three := dice.MustNew(1, 2, 3)
	cfg := Config{Dice: []dice.Dice{three, diceA}}
	inputs := []string{
		"0",      // guess, user first
		"0", "2", // turn 1: user takes three; computer has no dice yet
		"1", "1", // turn 2: computer takes diceA; user's throw uses three
		"0", "4", // turn 3: user takes three; computer's throw uses diceA
		"x",
	}
	committed := []int{0, 2, 1, 5}
	h := newHarness(t, cfg, inputs, committed, []int{0})

	res, err := h.engine.Play()
	require.NoError(t, err)
	require.True(t, res.Aborted)
	require.Len(t, res.Exchanges, 3)

	t1 := res.Exchanges[0]
	assert.Equal(t, three, t1.OpponentDice, "falls back to the active dice")
	assert.Equal(t, 3, t1.Modulus)
	assert.Equal(t, 1, t1.Combined) // (2+2) mod 3
	assert.Equal(t, three.Face(1), t1.ComputerThrow())

	t2 := res.Exchanges[1]
	assert.Equal(t, diceA, t2.ActiveDice)
	assert.Equal(t, three, t2.OpponentDice)
	assert.Equal(t, 3, t2.Modulus)
	assert.Equal(t, 2, t2.Combined) // (1+1) mod 3
	assert.Equal(t, three.Face(2), t2.UserThrow())

	t3 := res.Exchanges[2]
	assert.Equal(t, diceA, t3.OpponentDice)
	assert.Equal(t, 6, t3.Modulus)
	assert.Equal(t, 3, t3.Combined) // (5+4) mod 6
	assert.Equal(t, diceA.Face(3), t3.ComputerThrow())

	for _, x := range res.Exchanges {
		assert.Less(t, x.Combined, x.Modulus)
		assert.Less(t, x.ComputerContribution, x.Modulus)
	}

	calls := moduloPrompts(h.prompter.calls)
	require.Len(t, calls, 3)
	assert.Equal(t, "Add your number modulo 3: ", calls[0].text)
	assert.Equal(t, "Add your number modulo 3: ", calls[1].text)
	assert.Equal(t, "Add your number modulo 6: ", calls[2].text)

	out := h.out.String()
	assert.Contains(t, out, "in the range 0..2 (HMAC=")
	assert.Contains(t, out, "in the range 0..5 (HMAC=")
}

func TestOpponentThrowUsesOpponentDice(t *testing.T) {
	// Turn 1 the user picks diceA. Turn 2 the computer gets diceB, so the
	// user's protocol throw in turn 2 uses diceA and the computer's in turn 3
	// uses diceB.
	inputs := []string{"0", "0", "1", "1", "4", "0", "5", "x"}
	h := newHarness(t, Config{}, inputs, []int{0, 0, 0, 0}, []int{0})

	res, err := h.engine.Play()
	require.NoError(t, err)
	require.Len(t, res.Exchanges, 3)

	t2 := res.Exchanges[1]
	assert.Equal(t, Computer, t2.Active)
	assert.Equal(t, diceB, t2.ActiveDice)
	assert.Equal(t, diceA, t2.OpponentDice)
	assert.Equal(t, diceA.Face(4), t2.UserThrow())

	t3 := res.Exchanges[2]
	assert.Equal(t, User, t3.Active)
	assert.Equal(t, diceB, t3.OpponentDice)
	assert.Equal(t, diceB.Face(5), t3.ComputerThrow())
}

func TestExitAtFirstMove(t *testing.T) {
	for _, exit := range []string{"x", "X", " x "} {
		t.Run(exit, func(t *testing.T) {
			h := newHarness(t, Config{}, []string{exit}, []int{0}, []int{0})

			res, err := h.engine.Play()
			require.NoError(t, err)
			assert.True(t, res.Aborted)
			assert.Equal(t, NoOutcome, res.Outcome)
			assert.Empty(t, res.Exchanges)
			assert.Equal(t, 1, h.count(Aborted))
			assert.Zero(t, h.count(RoundEnding))
			assert.Zero(t, h.count(GameEnding))

			out := h.out.String()
			assert.Contains(t, out, "Exiting the game.")
			assert.NotContains(t, out, "Game over!")
			assert.NotContains(t, out, "tie")
			assert.NotContains(t, out, "win")
			assert.NotContains(t, out, "KEY=", "no reveal after abort")
		})
	}
}

func TestInvalidDiceSelectionReprompts(t *testing.T) {
	inputs := []string{"0", "abc", "7", "-1", "?", "x"}
	h := newHarness(t, Config{}, inputs, []int{0}, []int{0})

	res, err := h.engine.Play()
	require.NoError(t, err)
	assert.True(t, res.Aborted)

	state := h.engine.State()
	assert.Zero(t, state.TurnsCompleted)
	assert.Zero(t, state.UserScore)
	assert.Zero(t, state.ComputerScore)
	assert.Equal(t, 1, h.prompter.helps)
	assert.Equal(t, 3, strings.Count(h.out.String(), "Invalid selection. Please try again."))
	assert.Len(t, h.prompter.calls, 6)
	assert.Equal(t, 1, h.count(SelectingDice), "help and errors stay in the same state")
}

func TestInvalidGuessAndContributionReprompt(t *testing.T) {
	inputs := []string{"2", "?", "one", "0", "0", "five", "", "-3", "x"}
	h := newHarness(t, Config{}, inputs, []int{0, 4}, []int{0})

	res, err := h.engine.Play()
	require.NoError(t, err)
	require.Len(t, res.Exchanges, 1)
	assert.Equal(t, 3, res.Exchanges[0].UserContribution)
	assert.Equal(t, 1, res.Exchanges[0].Combined) // (4+3) mod 6
	assert.Equal(t, 1, h.prompter.helps)
	assert.Equal(t, 4, strings.Count(h.out.String(), "Invalid selection. Please try again."))
}

func TestContributionIsReduced(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{input: "0", want: 0},
		{input: "5", want: 5},
		{input: "6", want: 0},
		{input: "13", want: 1},
		{input: "-1", want: 5},
		{input: "-12", want: 0},
		{input: "+4", want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h := newHarness(t, Config{}, []string{"0", "0", tt.input, "x"}, []int{0, 0}, []int{0})

			res, err := h.engine.Play()
			require.NoError(t, err)
			require.Len(t, res.Exchanges, 1)
			x := res.Exchanges[0]
			assert.Equal(t, tt.want, x.UserContribution)
			assert.Equal(t, tt.want, x.Combined)
			assert.Equal(t, diceA.Face(tt.want), x.ComputerThrow())
		})
	}
}

func TestDigestPublishedBeforeInputAndKeyAfter(t *testing.T) {
	h := newHarness(t, Config{}, fullRoundInputs, []int{1, 3, 5, 0, 2, 4, 1}, []int{0, 1, 3})

	out := h.out
	res, err := h.engine.Play()
	require.NoError(t, err)
	transcript := out.String()

	// First move: digest before the first prompt, key after it.
	first := h.prompter.calls[0]
	hmacAt := strings.Index(transcript, "HMAC=")
	keyAt := strings.Index(transcript, "KEY=")
	require.GreaterOrEqual(t, hmacAt, 0)
	assert.Less(t, hmacAt, first.offset)
	assert.Greater(t, keyAt, first.offset)

	moduloCalls := moduloPrompts(h.prompter.calls)
	require.Len(t, moduloCalls, len(res.Exchanges))

	for i, x := range res.Exchanges {
		call := moduloCalls[i]
		digestAt := strings.Index(transcript, "HMAC="+x.Digest)
		keyAt := strings.Index(transcript, "KEY="+x.Key)
		require.GreaterOrEqual(t, digestAt, 0, "turn %d digest printed", x.Turn)
		assert.Less(t, digestAt, call.offset, "turn %d digest before input", x.Turn)
		assert.Greater(t, keyAt, call.offset, "turn %d key after input", x.Turn)

		assert.Equal(t, fairness.DefaultAlgorithm, x.Algorithm)
		ok, err := fairness.VerifyHex(x.Algorithm, x.Key, x.ComputerContribution, x.Digest)
		require.NoError(t, err)
		assert.True(t, ok, "turn %d verifies", x.Turn)
	}
}

func TestTieAtTwentyOne(t *testing.T) {
	// With a 0..5 dice every face equals its index, so protocol throws equal
	// the committed value (the user always adds 0) and flavor throws equal the
	// scripted roll.
	flat := dice.MustNew(0, 1, 2, 3, 4, 5)
	cfg := Config{Dice: []dice.Dice{flat}}
	inputs := []string{"1", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0"}
	// first move, then turns 1..6
	committed := []int{1, 4, 5, 4, 3, 4, 0}
	// flavor roll of the active player in turns 1..6
	rolls := []int{5, 4, 5, 4, 3, 1}
	h := newHarness(t, cfg, inputs, committed, rolls)

	res, err := h.engine.Play()
	require.NoError(t, err)
	assert.Equal(t, 21, res.UserScore)
	assert.Equal(t, 21, res.ComputerScore)
	assert.Equal(t, Tie, res.Rounds[0].Outcome)
	assert.Equal(t, Tie, res.Outcome)
	assert.Contains(t, h.out.String(), "It's a tie this round!")
	assert.Contains(t, h.out.String(), "It's a tie!")
}

func TestMultipleRounds(t *testing.T) {
	inputs := []string{
		"1", "0", "0", "0", "0", // round 1: user first, two turns
		"0", "0", "0", "0", "0", // round 2: guess wrong, computer twice
	}
	h := newHarness(t, Config{MaxRounds: 2, TurnsPerRound: 2}, inputs, []int{1, 0, 0, 1, 0, 0}, []int{0})

	res, err := h.engine.Play()
	require.NoError(t, err)

	require.Len(t, res.Rounds, 2)
	assert.Equal(t, User, res.Rounds[0].FirstMover)
	assert.Equal(t, Computer, res.Rounds[1].FirstMover)
	assert.Equal(t, 2, h.count(RoundEnding))
	assert.Equal(t, 2, h.count(DeterminingFirstMove))
	assert.Equal(t, 1, h.count(GameEnding))

	state := h.engine.State()
	assert.Equal(t, 2, state.CurrentRound)
	assert.Equal(t, 2, state.TurnsCompleted, "turn counter resets per round")
	assert.Equal(t, res.Rounds[0].UserScore+res.Rounds[1].UserScore, res.UserScore)
	assert.Equal(t, res.Rounds[0].ComputerScore+res.Rounds[1].ComputerScore, res.ComputerScore)
	assert.Contains(t, h.out.String(), "Starting round 2 of 2.")
	assert.Empty(t, h.prompter.inputs)
}

func TestEntropyFailureIsFatal(t *testing.T) {
	h := newHarness(t, Config{}, []string{"0"}, []int{0}, []int{0},
		WithGenerator(fairness.NewGenerator(fairness.WithKeyReader(brokenReader{}))))

	res, err := h.engine.Play()
	require.ErrorIs(t, err, fairness.ErrEntropy)
	assert.Nil(t, res)
	assert.Empty(t, h.prompter.calls, "no input accepted without a commitment")
}

func TestInputErrorPropagates(t *testing.T) {
	h := newHarness(t, Config{}, nil, []int{0}, []int{0})
	_, err := h.engine.Play()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserAbort)
}

func TestSessionTiming(t *testing.T) {
	clock := quartz.NewMock(t)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock.Set(start).MustWait(context.Background())

	h := newHarness(t, Config{}, fullRoundInputs, []int{1, 0}, []int{0}, WithClock(clock))
	h.prompter.onPrompt = func() {
		clock.Advance(time.Second).MustWait(context.Background())
	}

	res, err := h.engine.Play()
	require.NoError(t, err)
	assert.Equal(t, testSessionID, res.SessionID)
	assert.True(t, start.Equal(res.StartedAt))
	assert.Equal(t, time.Duration(len(fullRoundInputs))*time.Second, res.Duration())
}

func TestNewEngineValidation(t *testing.T) {
	p := &scriptedPrompter{out: &bytes.Buffer{}}
	one := []dice.Dice{diceA}

	_, err := NewEngine(Config{}, p, nil)
	require.Error(t, err)

	_, err = NewEngine(Config{Dice: one}, nil, nil)
	require.Error(t, err)

	_, err = NewEngine(Config{Dice: one, MaxRounds: -1}, p, nil)
	require.Error(t, err)

	_, err = NewEngine(Config{Dice: one, Names: []string{"red", "blue"}}, p, nil)
	require.Error(t, err)

	_, err = NewEngine(Config{Dice: one}, p, nil, WithSessionID("not a session"))
	require.Error(t, err)

	e, err := NewEngine(Config{Dice: one}, p, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxRounds, e.State().MaxRounds)
	assert.Len(t, e.SessionID(), 26)
}

func TestNilOutputIsDiscarded(t *testing.T) {
	p := &scriptedPrompter{out: &bytes.Buffer{}, inputs: []string{"0", "x"}}
	e, err := NewEngine(Config{Dice: []dice.Dice{diceA}}, p, nil)
	require.NoError(t, err)

	res, err := e.Play()
	require.NoError(t, err)
	assert.True(t, res.Aborted)
	assert.Zero(t, p.out.Len(), "nothing is written anywhere")
}

func TestCompare(t *testing.T) {
	assert.Equal(t, UserWins, Compare(10, 9))
	assert.Equal(t, ComputerWins, Compare(9, 10))
	assert.Equal(t, Tie, Compare(21, 21))
	assert.Equal(t, "tie", Tie.String())
}
