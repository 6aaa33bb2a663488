package services_test

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/services"
)

func TestAuthService_Login_FirstTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should register and issue a session on first login", func(t *testing.T) {
		req := require.New(t)
		mockAccounts := mocks.NewMockIAccountRepository(ctrl)
		sessions := auth.NewSessionStore()
		svc := services.NewAuthService(mockAccounts, auth.Argon2Hasher{}, sessions, log)

		mockAccounts.EXPECT().
			GetAccount("alice").
			Return(domain.Account{}, false, nil).
			Times(1)
		// The stored hash must never be the plain password
		mockAccounts.EXPECT().
			CreateAccount("alice", gomock.Not(gomock.Eq("p1"))).
			Return(nil).
			Times(1)

		token, err := svc.Login("alice", "p1")
		req.NoError(err)
		req.NotEmpty(token)

		session, ok := sessions.GetSession(string(token))
		req.True(ok)
		req.Equal("alice", session.Username)
	})

	t.Run("should not create a session when registration fails", func(t *testing.T) {
		req := require.New(t)
		mockAccounts := mocks.NewMockIAccountRepository(ctrl)
		sessions := auth.NewSessionStore()
		svc := services.NewAuthService(mockAccounts, auth.Argon2Hasher{}, sessions, log)

		mockAccounts.EXPECT().
			GetAccount("alice").
			Return(domain.Account{}, false, nil).
			Times(1)
		mockAccounts.EXPECT().
			CreateAccount("alice", gomock.Any()).
			Return(fmt.Errorf("disk on fire")).
			Times(1)

		token, err := svc.Login("alice", "p1")
		req.ErrorIs(err, errors.ErrServiceFault)
		req.Empty(token)
	})
}

func TestAuthService_Login_Existing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	hasher := auth.Argon2Hasher{}

	t.Run("should issue a session for the correct password", func(t *testing.T) {
		req := require.New(t)
		mockAccounts := mocks.NewMockIAccountRepository(ctrl)
		sessions := auth.NewSessionStore()
		svc := services.NewAuthService(mockAccounts, hasher, sessions, log)

		hash, err := hasher.Hash("p1")
		req.NoError(err)
		mockAccounts.EXPECT().
			GetAccount("alice").
			Return(domain.Account{Username: "alice", PasswordHash: hash}, true, nil).
			Times(1)

		token, err := svc.Login("alice", "p1")
		req.NoError(err)
		req.NotEmpty(token)
	})

	t.Run("should fail with forbidden on a wrong password", func(t *testing.T) {
		req := require.New(t)
		mockAccounts := mocks.NewMockIAccountRepository(ctrl)
		sessions := auth.NewSessionStore()
		svc := services.NewAuthService(mockAccounts, hasher, sessions, log)

		hash, err := hasher.Hash("p1")
		req.NoError(err)
		mockAccounts.EXPECT().
			GetAccount("alice").
			Return(domain.Account{Username: "alice", PasswordHash: hash}, true, nil).
			Times(1)

		token, err := svc.Login("alice", "wrong")
		req.ErrorIs(err, errors.ErrForbidden)
		req.Empty(token)
	})

	t.Run("should issue distinct tokens across logins", func(t *testing.T) {
		req := require.New(t)
		mockAccounts := mocks.NewMockIAccountRepository(ctrl)
		sessions := auth.NewSessionStore()
		svc := services.NewAuthService(mockAccounts, hasher, sessions, log)

		hash, err := hasher.Hash("p1")
		req.NoError(err)
		mockAccounts.EXPECT().
			GetAccount("alice").
			Return(domain.Account{Username: "alice", PasswordHash: hash}, true, nil).
			Times(2)

		first, err := svc.Login("alice", "p1")
		req.NoError(err)
		second, err := svc.Login("alice", "p1")
		req.NoError(err)
		req.NotEqual(first, second)
	})
}

func TestAuthService_Login_Faults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should surface a lookup fault as a service fault", func(t *testing.T) {
		req := require.New(t)
		mockAccounts := mocks.NewMockIAccountRepository(ctrl)
		sessions := auth.NewSessionStore()
		svc := services.NewAuthService(mockAccounts, auth.Argon2Hasher{}, sessions, log)

		mockAccounts.EXPECT().
			GetAccount("alice").
			Return(domain.Account{}, false, fmt.Errorf("%w: unreachable", errors.ErrStorageFault)).
			Times(1)

		_, err := svc.Login("alice", "p1")
		req.ErrorIs(err, errors.ErrServiceFault)
	})

	t.Run("should treat a record without a hash as a service fault, not as no account", func(t *testing.T) {
		req := require.New(t)
		mockAccounts := mocks.NewMockIAccountRepository(ctrl)
		sessions := auth.NewSessionStore()
		svc := services.NewAuthService(mockAccounts, auth.Argon2Hasher{}, sessions, log)

		mockAccounts.EXPECT().
			GetAccount("alice").
			Return(domain.Account{Username: "alice"}, true, nil).
			Times(1)

		_, err := svc.Login("alice", "p1")
		req.ErrorIs(err, errors.ErrServiceFault)
	})

	t.Run("should surface a hashing fault and skip account creation", func(t *testing.T) {
		req := require.New(t)
		mockAccounts := mocks.NewMockIAccountRepository(ctrl)
		mockHasher := mocks.NewMockPasswordHasher(ctrl)
		sessions := auth.NewSessionStore()
		svc := services.NewAuthService(mockAccounts, mockHasher, sessions, log)

		mockAccounts.EXPECT().
			GetAccount("alice").
			Return(domain.Account{}, false, nil).
			Times(1)
		mockHasher.EXPECT().
			Hash("p1").
			Return("", fmt.Errorf("entropy exhausted")).
			Times(1)
		mockAccounts.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Login("alice", "p1")
		req.ErrorIs(err, errors.ErrServiceFault)
	})
}
