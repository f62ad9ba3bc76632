package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/chala47/checker/internal/dependencies/mocks"
	"github.com/chala47/checker/internal/model"
	"github.com/chala47/checker/internal/storage/memory"
	"github.com/chala47/checker/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.controller = NewController(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ControllerSuite) saveGame(status model.GameStatus) *model.Game {
	game := &model.Game{
		ID:            "game1",
		GameVariant:   "classic",
		Board:         model.NewBoard(),
		CurrentPlayer: model.ColorRed,
		Status:        status,
		RedPlayer:     "red-account",
		CreatedAt:     s.clock.Now(),
		LastMoveAt:    s.clock.Now(),
	}
	if status != model.StatusWaiting {
		game.BlackPlayer = "black-account"
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	return game
}

// emptyBoard returns a board with a single red piece, distinguishable from
// the opening layout.
func emptyBoard() model.Board {
	board := make(model.Board, model.BoardSize)
	for i := range board {
		board[i] = make([]*model.Piece, model.BoardSize)
	}
	board[0][1] = &model.Piece{Color: model.ColorRed, IsKing: true}
	return board
}

// Join tests

func (s *ControllerSuite) TestJoinWaitingGameSeatsBlack() {
	s.saveGame(model.StatusWaiting)

	res, err := s.controller.Join(s.ctx, "game1", "joiner")
	s.Require().NoError(err)

	s.True(res.Accepted)
	s.Equal(model.AccountID("joiner"), res.Game.BlackPlayer)
	s.Equal(model.StatusInProgress, res.Game.Status)
}

func (s *ControllerSuite) TestJoinPersistsTheStartedGame() {
	s.saveGame(model.StatusWaiting)

	_, err := s.controller.Join(s.ctx, "game1", "joiner")
	s.Require().NoError(err)

	stored, err := s.storage.GetGame(s.ctx, "game1")
	s.Require().NoError(err)
	s.Equal(model.StatusInProgress, stored.Status)
	s.Equal(model.AccountID("joiner"), stored.BlackPlayer)
}

func (s *ControllerSuite) TestJoinMissingGameIsRejected() {
	res, err := s.controller.Join(s.ctx, "missing", "joiner")
	s.Require().NoError(err)

	s.False(res.Accepted)
	s.Equal(ReasonGameNotFound, res.Reason)
}

func (s *ControllerSuite) TestJoinInProgressGameChangesNothing() {
	game := s.saveGame(model.StatusInProgress)
	prevBlack := game.BlackPlayer

	res, err := s.controller.Join(s.ctx, "game1", "intruder")
	s.Require().NoError(err)

	s.False(res.Accepted)
	s.Equal(ReasonNotJoinable, res.Reason)

	stored, _ := s.storage.GetGame(s.ctx, "game1")
	s.Equal(prevBlack, stored.BlackPlayer)
	s.Equal(model.StatusInProgress, stored.Status)
}

func (s *ControllerSuite) TestJoinCompletedGameIsRejected() {
	s.saveGame(model.StatusCompleted)

	res, err := s.controller.Join(s.ctx, "game1", "joiner")
	s.Require().NoError(err)

	s.False(res.Accepted)
	s.Equal(ReasonNotJoinable, res.Reason)
}

// Move tests

func (s *ControllerSuite) TestMoveReplacesBoardAndTogglesTurn() {
	s.saveGame(model.StatusInProgress)
	board := emptyBoard()

	s.clock.Advance(time.Minute)
	res, err := s.controller.Move(s.ctx, "game1", "red-account", board, "")
	s.Require().NoError(err)

	s.True(res.Accepted)
	s.Equal(board, res.Game.Board)
	s.Equal(model.ColorBlack, res.Game.CurrentPlayer)
	s.Equal(s.clock.Now(), res.Game.LastMoveAt)
	s.Equal(model.StatusInProgress, res.Game.Status)
}

func (s *ControllerSuite) TestTurnsAlternateStartingWithRed() {
	s.saveGame(model.StatusInProgress)

	res, err := s.controller.Move(s.ctx, "game1", "red-account", emptyBoard(), "")
	s.Require().NoError(err)
	s.True(res.Accepted)

	res, err = s.controller.Move(s.ctx, "game1", "black-account", emptyBoard(), "")
	s.Require().NoError(err)
	s.True(res.Accepted)
	s.Equal(model.ColorRed, res.Game.CurrentPlayer)
}

func (s *ControllerSuite) TestMoveOutOfTurnChangesNothing() {
	game := s.saveGame(model.StatusInProgress)
	prevBoard := game.Board
	prevMoveAt := game.LastMoveAt

	res, err := s.controller.Move(s.ctx, "game1", "black-account", emptyBoard(), "")
	s.Require().NoError(err)

	s.False(res.Accepted)
	s.Equal(ReasonNotYourTurn, res.Reason)

	stored, _ := s.storage.GetGame(s.ctx, "game1")
	s.Equal(prevBoard, stored.Board)
	s.Equal(model.ColorRed, stored.CurrentPlayer)
	s.Equal(prevMoveAt, stored.LastMoveAt)
}

func (s *ControllerSuite) TestMoveByNonParticipantIsRejected() {
	s.saveGame(model.StatusInProgress)

	res, err := s.controller.Move(s.ctx, "game1", "stranger", emptyBoard(), "")
	s.Require().NoError(err)

	s.False(res.Accepted)
	s.Equal(ReasonNotYourTurn, res.Reason)
}

func (s *ControllerSuite) TestMoveOnWaitingGameIsRejected() {
	s.saveGame(model.StatusWaiting)

	res, err := s.controller.Move(s.ctx, "game1", "red-account", emptyBoard(), "")
	s.Require().NoError(err)

	s.False(res.Accepted)
	s.Equal(ReasonNotInProgress, res.Reason)
}

func (s *ControllerSuite) TestMoveWithWinnerCompletesGame() {
	s.saveGame(model.StatusInProgress)

	res, err := s.controller.Move(s.ctx, "game1", "red-account", emptyBoard(), model.ColorRed)
	s.Require().NoError(err)

	s.True(res.Accepted)
	s.Equal(model.StatusCompleted, res.Game.Status)
	s.Equal(model.ColorRed, res.Game.Winner)
}

func (s *ControllerSuite) TestMoveAfterCompletionIsRejected() {
	s.saveGame(model.StatusInProgress)

	_, err := s.controller.Move(s.ctx, "game1", "red-account", emptyBoard(), model.ColorBlack)
	s.Require().NoError(err)

	res, err := s.controller.Move(s.ctx, "game1", "black-account", emptyBoard(), "")
	s.Require().NoError(err)

	s.False(res.Accepted)
	s.Equal(ReasonNotInProgress, res.Reason)
}

func (s *ControllerSuite) TestWinnerOnlySetOnCompletedGames() {
	s.saveGame(model.StatusInProgress)

	res, err := s.controller.Move(s.ctx, "game1", "red-account", emptyBoard(), "")
	s.Require().NoError(err)
	s.Empty(res.Game.Winner)

	res, err = s.controller.Move(s.ctx, "game1", "black-account", emptyBoard(), model.ColorBlack)
	s.Require().NoError(err)
	s.Equal(model.ColorBlack, res.Game.Winner)
}
