package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/fairdice/internal/dice"
	"github.com/lox/fairdice/internal/fairness"
	"github.com/lox/fairdice/internal/game"
)

// Rules describes the game being played, for help and tables.
type Rules struct {
	Dice          []dice.Dice
	Names         []string
	Algorithm     fairness.Algorithm
	TurnsPerRound int
	Rounds        int
}

func (r Rules) label(i int) string {
	if i < len(r.Names) && r.Names[i] != "" {
		return r.Names[i] + " " + r.Dice[i].String()
	}
	return r.Dice[i].String()
}

// ProbabilityTable renders P(row dice beats column dice) for the set.
func ProbabilityTable(r Rules, styles Styles) string {
	probs := dice.ProbabilityTable(r.Dice)

	headers := make([]string, 0, len(r.Dice)+1)
	headers = append(headers, "User dice v")
	for i := range r.Dice {
		headers = append(headers, r.label(i))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Border).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return styles.Header
			}
			return styles.Cell
		})

	for i := range r.Dice {
		cells := make([]string, 0, len(r.Dice)+1)
		cells = append(cells, r.label(i))
		for j := range r.Dice {
			if i == j {
				cells = append(cells, fmt.Sprintf("- (%.4f)", probs[i][j]))
				continue
			}
			cells = append(cells, fmt.Sprintf("%.4f", probs[i][j]))
		}
		t.Row(cells...)
	}
	return t.String()
}

func (r Rules) winningRule() string {
	turns := r.TurnsPerRound
	if turns < 1 {
		turns = game.DefaultTurnsPerRound
	}
	if r.Rounds > 1 {
		return fmt.Sprintf("  Each round lasts %d turns and the game %d rounds; the higher total over\n  all rounds wins.\n", turns, r.Rounds)
	}
	return fmt.Sprintf("  After %d turns the higher total wins.\n", turns)
}

// HelpText explains the rules, the fairness check and the odds.
func HelpText(r Rules, styles Styles) string {
	alg := r.Algorithm
	if alg == "" {
		alg = fairness.DefaultAlgorithm
	}

	var sb strings.Builder
	sb.WriteString(styles.Success.Render("How to play"))
	sb.WriteString("\n")
	sb.WriteString("  Each turn one player picks a dice and rolls it. The other player's throw\n")
	sb.WriteString("  is decided jointly: I pick a secret number and show its " + alg.Label() + ",\n")
	sb.WriteString("  you add your own number, and the sum modulo the face count picks a face.\n")
	sb.WriteString(r.winningRule())
	sb.WriteString("\n")

	sb.WriteString(styles.Success.Render("Checking my honesty"))
	sb.WriteString("\n")
	sb.WriteString("  When I reveal my number I also print the KEY. Compute\n")
	sb.WriteString("  " + alg.Label() + "(KEY, number) and compare it with the HMAC shown before\n")
	sb.WriteString("  your move, or run: fairdice verify --key KEY --value N --hmac HMAC\n\n")

	sb.WriteString(styles.Success.Render("Commands"))
	sb.WriteString("\n")
	sb.WriteString("  X - exit the game\n")
	sb.WriteString("  ? - show this help\n\n")

	sb.WriteString(styles.Success.Render("Probability of the win for the user"))
	sb.WriteString("\n")
	sb.WriteString(ProbabilityTable(r, styles))
	sb.WriteString("\n")
	return sb.String()
}
