package auth

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

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	account, err := s.service.Register(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	s.NotEmpty(account.ID)
	s.Equal("alice@example.com", account.Email)
	s.Equal(s.clock.Now(), account.CreatedAt)
}

func (s *ServiceSuite) TestRegisterPersistsAccount() {
	account, _ := s.service.Register(s.ctx, "alice@example.com", "password123")

	stored, err := s.storage.GetAccount(s.ctx, account.ID)
	s.Require().NoError(err)
	s.Equal("alice@example.com", stored.Email)
	s.NotEmpty(stored.PasswordHash)
	s.NotEqual("password123", stored.PasswordHash) // Should be hashed
}

func (s *ServiceSuite) TestRegisterNormalizesEmail() {
	account, err := s.service.Register(s.ctx, "  Alice@Example.COM ", "password123")
	s.Require().NoError(err)
	s.Equal("alice@example.com", account.Email)
}

func (s *ServiceSuite) TestRegisterFailsIfEmailExists() {
	_, _ = s.service.Register(s.ctx, "alice@example.com", "password123")

	_, err := s.service.Register(s.ctx, "alice@example.com", "different")
	s.ErrorIs(err, model.ErrEmailExists)
}

func (s *ServiceSuite) TestRegisterTreatsEmailCaseInsensitively() {
	_, _ = s.service.Register(s.ctx, "alice@example.com", "password123")

	_, err := s.service.Register(s.ctx, "ALICE@example.com", "different")
	s.ErrorIs(err, model.ErrEmailExists)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	account, _ := s.service.Register(s.ctx, "alice@example.com", "password123")

	session, err := s.service.Login(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal(account.ID, session.AccountID)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestLoginWithWrongPasswordFails() {
	_, _ = s.service.Register(s.ctx, "alice@example.com", "password123")

	_, err := s.service.Login(s.ctx, "alice@example.com", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginWithUnknownEmailFails() {
	_, err := s.service.Login(s.ctx, "nobody@example.com", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginNormalizesEmail() {
	_, _ = s.service.Register(s.ctx, "alice@example.com", "password123")

	_, err := s.service.Login(s.ctx, "ALICE@example.com ", "password123")
	s.Require().NoError(err)
}

// Session tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	_, _ = s.service.Register(s.ctx, "alice@example.com", "password123")
	session, _ := s.service.Login(s.ctx, "alice@example.com", "password123")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.AccountID, validated.AccountID)
}

func (s *ServiceSuite) TestValidateSessionFailsForUnknownToken() {
	_, err := s.service.ValidateSession("not-a-token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsAfterExpiry() {
	_, _ = s.service.Register(s.ctx, "alice@example.com", "password123")
	session, _ := s.service.Login(s.ctx, "alice@example.com", "password123")

	s.clock.Advance(24*time.Hour + time.Second)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionRemovesIt() {
	_, _ = s.service.Register(s.ctx, "alice@example.com", "password123")
	session, _ := s.service.Login(s.ctx, "alice@example.com", "password123")

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestCleanExpiredSessionsKeepsLiveOnes() {
	_, _ = s.service.Register(s.ctx, "alice@example.com", "password123")
	expired, _ := s.service.Login(s.ctx, "alice@example.com", "password123")

	s.clock.Advance(25 * time.Hour)
	live, _ := s.service.Login(s.ctx, "alice@example.com", "password123")

	s.service.CleanExpiredSessions()

	_, err := s.service.ValidateSession(expired.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(live.Token)
	s.NoError(err)
}
