package model

import "time"

// GameID uniquely identifies a game
type GameID string

// Color identifies one of the two sides
type Color string

const (
	ColorRed   Color = "red"
	ColorBlack Color = "black"
)

// Opponent returns the other side
func (c Color) Opponent() Color {
	if c == ColorRed {
		return ColorBlack
	}
	return ColorRed
}

// GameStatus represents the lifecycle phase of a game.
// Transitions are monotone: waiting -> in_progress -> completed.
type GameStatus string

const (
	StatusWaiting    GameStatus = "waiting"
	StatusInProgress GameStatus = "in_progress"
	StatusCompleted  GameStatus = "completed"
)

// Game represents a single online checkers game. The variant tag is opaque
// to this layer; the board is whatever the clients last reported.
type Game struct {
	ID            GameID     `json:"id"`
	GameVariant   string     `json:"game_variant"`
	Board         Board      `json:"board"`
	CurrentPlayer Color      `json:"current_player"`
	Status        GameStatus `json:"status"`
	Winner        Color      `json:"winner,omitempty"`
	RedPlayer     AccountID  `json:"red_player"`
	BlackPlayer   AccountID  `json:"black_player,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMoveAt    time.Time  `json:"last_move_at"`
}

// Clone returns a deep copy of the game, board included
func (g *Game) Clone() *Game {
	clone := *g
	clone.Board = g.Board.Clone()
	return &clone
}

// PlayerFor returns the account seated on the given side
func (g *Game) PlayerFor(color Color) AccountID {
	if color == ColorRed {
		return g.RedPlayer
	}
	return g.BlackPlayer
}

// IsParticipant reports whether the account holds either seat
func (g *Game) IsParticipant(id AccountID) bool {
	return id == g.RedPlayer || (g.BlackPlayer != "" && id == g.BlackPlayer)
}
