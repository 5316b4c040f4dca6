package game

import (
	"errors"
	"strings"
)

// Prompter is the text collaborator the engine talks to.
type Prompter interface {
	// Prompt shows text and blocks until a line is entered. The returned
	// string is exactly what was typed.
	Prompt(text string) (string, error)
	// ShowHelp displays the rules and dice odds.
	ShowHelp()
}

// ErrUserAbort is raised when the player types the exit command.
var ErrUserAbort = errors.New("user aborted the game")

const (
	exitCommand = "x"
	helpCommand = "?"
)

// IsExit reports whether input is the universal exit signal.
func IsExit(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), exitCommand)
}

// IsHelp reports whether input asks for help.
func IsHelp(input string) bool {
	return strings.TrimSpace(input) == helpCommand
}
