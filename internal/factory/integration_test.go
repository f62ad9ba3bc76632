package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/chala47/checker/internal/model"
	"github.com/chala47/checker/internal/services/game"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) register(email string) *model.Account {
	account, err := s.app.AuthService.Register(s.ctx, email, "hunter22")
	s.Require().NoError(err)
	return account
}

// moveBoard returns a copy of the board with the piece at (fromRow, fromCol)
// relocated to (toRow, toCol).
func moveBoard(b model.Board, fromRow, fromCol, toRow, toCol int) model.Board {
	next := make(model.Board, len(b))
	for i, row := range b {
		next[i] = make([]*model.Piece, len(row))
		copy(next[i], row)
	}
	next[toRow][toCol] = next[fromRow][fromCol]
	next[fromRow][fromCol] = nil
	return next
}

// Test: full flow from registration through auto-pairing to a finished game
func (s *IntegrationSuite) TestCompleteGameFlow() {
	red := s.register("red@example.com")
	black := s.register("black@example.com")

	// Step 1: red creates a game; black is the only candidate opponent
	s.app.MockRandom.QueueIntn(0)
	created, err := s.app.MatchService.CreateGame(s.ctx, "classic", red.ID)
	s.Require().NoError(err)
	s.Equal(model.StatusInProgress, created.Status)
	s.Equal(red.ID, created.RedPlayer)
	s.Equal(black.ID, created.BlackPlayer)
	s.Equal(model.ColorRed, created.CurrentPlayer)

	// Step 2: red moves first
	s.app.MockClock.Advance(time.Minute)
	board := moveBoard(created.Board, 5, 0, 4, 1)
	res, err := s.app.GameController.Move(s.ctx, created.ID, red.ID, board, "")
	s.Require().NoError(err)
	s.True(res.Accepted)
	s.Equal(model.ColorBlack, res.Game.CurrentPlayer)
	s.Equal(s.app.MockClock.Now(), res.Game.LastMoveAt)

	// Step 3: black replies
	board = moveBoard(res.Game.Board, 2, 1, 3, 0)
	res, err = s.app.GameController.Move(s.ctx, created.ID, black.ID, board, "")
	s.Require().NoError(err)
	s.True(res.Accepted)
	s.Equal(model.ColorRed, res.Game.CurrentPlayer)

	// Step 4: red reports a winning move
	board = moveBoard(res.Game.Board, 4, 1, 2, 1)
	res, err = s.app.GameController.Move(s.ctx, created.ID, red.ID, board, model.ColorRed)
	s.Require().NoError(err)
	s.True(res.Accepted)
	s.Equal(model.StatusCompleted, res.Game.Status)
	s.Equal(model.ColorRed, res.Game.Winner)

	// Step 5: no further moves accepted
	res, err = s.app.GameController.Move(s.ctx, created.ID, black.ID, board, "")
	s.Require().NoError(err)
	s.False(res.Accepted)
	s.Equal(game.ReasonNotInProgress, res.Reason)

	stored, err := s.app.MatchService.GetGame(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(model.StatusCompleted, stored.Status)
}

// Test: with no other accounts the game waits and a later join seats black
func (s *IntegrationSuite) TestWaitingGameJoinedLater() {
	red := s.register("alone@example.com")

	created, err := s.app.MatchService.CreateGame(s.ctx, "classic", red.ID)
	s.Require().NoError(err)
	s.Equal(model.StatusWaiting, created.Status)
	s.Empty(created.BlackPlayer)

	// Game shows up in the open list
	open, err := s.app.MatchService.ListOpenGames(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(open, 1)
	s.Equal(created.ID, open[0].ID)

	// A second account joins and takes black
	black := s.register("joiner@example.com")
	res, err := s.app.GameController.Join(s.ctx, created.ID, black.ID)
	s.Require().NoError(err)
	s.True(res.Accepted)
	s.Equal(model.StatusInProgress, res.Game.Status)
	s.Equal(black.ID, res.Game.BlackPlayer)

	// The open list is empty again
	open, err = s.app.MatchService.ListOpenGames(s.ctx, "")
	s.Require().NoError(err)
	s.Empty(open)
}

// Test: invite pairs a specific opponent immediately
func (s *IntegrationSuite) TestInviteFlow() {
	red := s.register("host@example.com")
	invitee := s.register("friend@example.com")
	s.register("bystander@example.com")

	created, err := s.app.MatchService.Invite(s.ctx, "classic", red.ID, "friend@example.com")
	s.Require().NoError(err)
	s.Equal(model.StatusInProgress, created.Status)
	s.Equal(invitee.ID, created.BlackPlayer)

	// Joining an in_progress game changes nothing
	res, err := s.app.GameController.Join(s.ctx, created.ID, invitee.ID)
	s.Require().NoError(err)
	s.False(res.Accepted)
	s.Equal(game.ReasonNotJoinable, res.Reason)

	stored, err := s.app.MatchService.GetGame(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(invitee.ID, stored.BlackPlayer)
}

// Test: logins reuse stored credentials and sessions expire on the clock
func (s *IntegrationSuite) TestSessionLifecycle() {
	s.register("player@example.com")

	session, err := s.app.AuthService.Login(s.ctx, "player@example.com", "hunter22")
	s.Require().NoError(err)

	got, err := s.app.AuthService.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.AccountID, got.AccountID)

	s.app.MockClock.Advance(25 * time.Hour)
	_, err = s.app.AuthService.ValidateSession(session.Token)
	s.Error(err)
}
