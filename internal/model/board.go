package model

// BoardSize is the side length of a checkers board
const BoardSize = 8

// Piece is a single checker on the board
type Piece struct {
	Color  Color `json:"color"`
	IsKing bool  `json:"isKing"`
}

// Board is an 8x8 grid of squares; nil means the square is empty.
// The server stores whatever board the client sends verbatim and
// never validates move legality.
type Board [][]*Piece

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	for row := range b {
		out[row] = make([]*Piece, len(b[row]))
		for col, p := range b[row] {
			if p != nil {
				piece := *p
				out[row][col] = &piece
			}
		}
	}
	return out
}

// NewBoard returns the standard opening layout: black pieces on rows 0-2,
// red pieces on rows 5-7, dark squares only.
func NewBoard() Board {
	board := make(Board, BoardSize)
	for row := range board {
		board[row] = make([]*Piece, BoardSize)
	}

	for row := 0; row < 3; row++ {
		for col := 0; col < BoardSize; col++ {
			if (row+col)%2 == 1 {
				board[row][col] = &Piece{Color: ColorBlack}
			}
		}
	}

	for row := 5; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if (row+col)%2 == 1 {
				board[row][col] = &Piece{Color: ColorRed}
			}
		}
	}

	return board
}
