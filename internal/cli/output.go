package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case Game:
		o.printGame(v)
	case GameDetail:
		o.printGameDetail(v)
	case GameList:
		o.printGameList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Piece is a single board cell on the wire
type Piece struct {
	Color  string `json:"color"`
	IsKing bool   `json:"isKing"`
}

// Game response type
type Game struct {
	ID            string     `json:"id"`
	GameVariant   string     `json:"game_variant"`
	Board         [][]*Piece `json:"board"`
	CurrentPlayer string     `json:"current_player"`
	Status        string     `json:"status"`
	Winner        string     `json:"winner,omitempty"`
	RedPlayer     string     `json:"red_player"`
	BlackPlayer   string     `json:"black_player,omitempty"`
	CreatedAt     string     `json:"created_at"`
	LastMoveAt    string     `json:"last_move_at"`
}

// GameDetail wraps a game with the requesting player's ID
type GameDetail struct {
	Game     Game   `json:"game"`
	PlayerID string `json:"player_id"`
}

// GameList is a list of games
type GameList []Game

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAccount(a Account) {
	fmt.Printf("Account: %s\n", a.Email)
	fmt.Printf("ID: %s\n", a.ID)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("Variant: %s\n", g.GameVariant)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Red: %s\n", g.RedPlayer)
	if g.BlackPlayer != "" {
		fmt.Printf("Black: %s\n", g.BlackPlayer)
	}
	if g.Status == "completed" {
		fmt.Printf("Winner: %s\n", g.Winner)
	} else {
		fmt.Printf("To Move: %s\n", g.CurrentPlayer)
	}
	fmt.Println()
	o.printBoard(g.Board)
}

func (o *Output) printGameDetail(d GameDetail) {
	o.printGame(d.Game)
	color := "spectator"
	switch d.PlayerID {
	case d.Game.RedPlayer:
		color = "red"
	case d.Game.BlackPlayer:
		color = "black"
	}
	fmt.Printf("\nYou are: %s\n", color)
}

func (o *Output) printGameList(games GameList) {
	if len(games) == 0 {
		fmt.Println("No games found")
		return
	}
	fmt.Printf("Games (%d):\n", len(games))
	for _, g := range games {
		opponent := g.BlackPlayer
		if opponent == "" {
			opponent = "(open seat)"
		}
		fmt.Printf("  %s  %s  %s vs %s\n", g.ID, g.Status, g.RedPlayer, opponent)
	}
}

// printBoard renders the board with red pieces as r/R and black as b/B,
// kings uppercase.
func (o *Output) printBoard(board [][]*Piece) {
	if len(board) == 0 {
		return
	}

	size := len(board)

	fmt.Print("    ")
	for col := 0; col < size; col++ {
		fmt.Printf(" %d ", col)
	}
	fmt.Println()

	fmt.Print("   +")
	for col := 0; col < size; col++ {
		fmt.Print("---")
	}
	fmt.Println("+")

	for row := 0; row < size; row++ {
		fmt.Printf(" %d |", row)
		for col := 0; col < size; col++ {
			fmt.Printf(" %s ", cellRune(board[row][col]))
		}
		fmt.Println("|")
	}

	fmt.Print("   +")
	for col := 0; col < size; col++ {
		fmt.Print("---")
	}
	fmt.Println("+")
}

func cellRune(p *Piece) string {
	if p == nil {
		return "."
	}
	c := "b"
	if p.Color == "red" {
		c = "r"
	}
	if p.IsKing {
		return string(c[0] - 'a' + 'A')
	}
	return c
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
