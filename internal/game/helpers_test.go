package game

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/lox/fairdice/internal/dice"
	"github.com/lox/fairdice/internal/fairness"
)

// promptCall records what had been written to the transcript when a prompt
// was issued.
type promptCall struct {
	text   string
	offset int
}

type scriptedPrompter struct {
	out      *bytes.Buffer
	inputs   []string
	calls    []promptCall
	helps    int
	onPrompt func()
}

func (p *scriptedPrompter) Prompt(text string) (string, error) {
	p.calls = append(p.calls, promptCall{text: text, offset: p.out.Len()})
	if p.onPrompt != nil {
		p.onPrompt()
	}
	if len(p.inputs) == 0 {
		return "", io.EOF
	}
	in := p.inputs[0]
	p.inputs = p.inputs[1:]
	return in, nil
}

func (p *scriptedPrompter) ShowHelp() {
	p.helps++
	p.out.WriteString("HELP\n")
}

// sequence yields the scripted values in order, wrapping around.
type sequence struct {
	values []int
	index  int
}

func (s *sequence) next() int {
	v := s.values[s.index%len(s.values)]
	s.index++
	return v
}

// committedValues feeds fairness.Generator.
type committedValues struct{ sequence }

func (c *committedValues) Intn(n int) (int, error) { return c.next() % n, nil }

// rollValues feeds flavor rolls and the automatic dice choice.
type rollValues struct{ sequence }

func (r *rollValues) Intn(n int) int { return r.next() % n }

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("entropy pool empty") }

var (
	diceA = dice.MustNew(2, 2, 4, 4, 9, 9)
	diceB = dice.MustNew(1, 1, 6, 6, 8, 8)
)

const testSessionID = "01h5n0et5q6mt3v7ms1234abcd"

type harness struct {
	engine   *Engine
	prompter *scriptedPrompter
	out      *bytes.Buffer
	states   []State
}

func newHarness(t *testing.T, cfg Config, inputs []string, committed, rolls []int, opts ...Option) *harness {
	t.Helper()
	if cfg.Dice == nil {
		cfg.Dice = []dice.Dice{diceA, diceB}
	}
	h := &harness{out: &bytes.Buffer{}}
	h.prompter = &scriptedPrompter{out: h.out, inputs: inputs}

	gen := fairness.NewGenerator(fairness.WithValueSource(&committedValues{sequence{values: committed}}))
	base := []Option{
		WithGenerator(gen),
		WithRollSource(&rollValues{sequence{values: rolls}}),
		WithSessionID(testSessionID),
		WithObserver(func(s State) { h.states = append(h.states, s) }),
	}
	e, err := NewEngine(cfg, h.prompter, h.out, append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	h.engine = e
	return h
}

func (h *harness) count(s State) int {
	n := 0
	for _, st := range h.states {
		if st == s {
			n++
		}
	}
	return n
}
