// Package console is the interactive terminal front end of the game.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
)

// exitInput is what interrupts and end of input translate to.
const exitInput = "X"

// LineReader is the subset of *readline.Instance the console needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Console reads player input and shows help. It implements game.Prompter.
type Console struct {
	rl     LineReader
	out    io.Writer
	styles Styles
	rules  Rules
}

// Options configures New.
type Options struct {
	Stdin       io.ReadCloser
	Stdout      io.Writer
	HistoryFile string
}

// New creates a readline-backed console.
func New(rules Rules, opts Options) (*Console, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	completer := readline.NewPrefixCompleter(readline.PcItem("X"), readline.PcItem("?"))
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     opts.HistoryFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           opts.Stdin,
		Stdout:          opts.Stdout,
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return NewWithReader(rl, opts.Stdout, rules), nil
}

// NewWithReader builds a console over an existing line reader.
func NewWithReader(rl LineReader, out io.Writer, rules Rules) *Console {
	return &Console{
		rl:     rl,
		out:    out,
		styles: DefaultStyles(),
		rules:  rules,
	}
}

// Prompt shows text and returns the next line. Ctrl-C and end of input are
// reported as the exit command so the game ends cleanly.
func (c *Console) Prompt(text string) (string, error) {
	c.rl.SetPrompt(c.styles.Prompt.Render(text))
	line, err := c.rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt), errors.Is(err, io.EOF):
		return exitInput, nil
	case err != nil:
		return "", err
	}
	return line, nil
}

// ShowHelp prints the rules and the odds table.
func (c *Console) ShowHelp() {
	fmt.Fprintln(c.out, HelpText(c.rules, c.styles))
}

// Banner prints the game title.
func (c *Console) Banner(title string) {
	fmt.Fprintln(c.out, c.styles.Title.Render(title))
	fmt.Fprintln(c.out)
}

// Close releases the terminal.
func (c *Console) Close() error {
	return c.rl.Close()
}
