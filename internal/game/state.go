package game

// Player identifies a side of the table.
type Player int

const (
	User Player = iota
	Computer
)

func (p Player) String() string {
	if p == Computer {
		return "computer"
	}
	return "user"
}

// Opponent returns the other side.
func (p Player) Opponent() Player {
	if p == User {
		return Computer
	}
	return User
}

// State is a node of the engine's state machine.
type State int

const (
	DeterminingFirstMove State = iota
	SelectingDice
	Rolling
	CheckingEnd
	RoundEnding
	GameEnding
	Aborted
)

var stateNames = [...]string{
	DeterminingFirstMove: "determining-first-move",
	SelectingDice:        "selecting-dice",
	Rolling:              "rolling",
	CheckingEnd:          "checking-end",
	RoundEnding:          "round-ending",
	GameEnding:           "game-ending",
	Aborted:              "aborted",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Outcome is the comparison of two scores.
type Outcome int

const (
	// NoOutcome marks a session that was aborted before it could be scored.
	NoOutcome Outcome = iota
	UserWins
	ComputerWins
	Tie
)

func (o Outcome) String() string {
	switch o {
	case UserWins:
		return "user wins"
	case ComputerWins:
		return "computer wins"
	case Tie:
		return "tie"
	default:
		return "none"
	}
}

// Compare applies the win rule shared by rounds and games.
func Compare(userScore, computerScore int) Outcome {
	switch {
	case userScore > computerScore:
		return UserWins
	case computerScore > userScore:
		return ComputerWins
	default:
		return Tie
	}
}

// GameState holds every mutable counter of a session. Only the Engine
// writes to it.
type GameState struct {
	UserScore      int
	ComputerScore  int
	TurnsCompleted int
	CurrentRound   int
	MaxRounds      int

	// Totals across all finished rounds.
	UserTotal     int
	ComputerTotal int
}

func (s *GameState) beginRound() {
	s.CurrentRound++
	s.UserScore = 0
	s.ComputerScore = 0
	s.TurnsCompleted = 0
}

func (s *GameState) credit(user, computer int) {
	s.UserScore += user
	s.ComputerScore += computer
	s.TurnsCompleted++
}

func (s *GameState) closeRound() {
	s.UserTotal += s.UserScore
	s.ComputerTotal += s.ComputerScore
}
