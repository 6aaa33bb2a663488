//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"chat-relay/auth"
	"chat-relay/errors"
	"chat-relay/repositories"
)

// PasswordHasher is the external hashing capability consumed, not implemented,
// by the auth service.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) (bool, error)
}

type IAuthService interface {
	Login(username, password string) (Token, error)
}

type Token string

// AuthService decides login and registration. Policy: the first login with an
// unknown username registers the account with exactly that password and issues
// a session immediately; later logins must present the same password.
type AuthService struct {
	accounts repositories.IAccountRepository
	hasher   PasswordHasher
	sessions auth.ISessionStore
	log      *slog.Logger
}

func NewAuthService(accounts repositories.IAccountRepository, hasher PasswordHasher,
	sessions auth.ISessionStore, log *slog.Logger) *AuthService {
	return &AuthService{accounts: accounts, hasher: hasher, sessions: sessions, log: log}
}

// Login authenticates (or first-registers) username and returns a session
// token. A wrong password fails with ErrForbidden without revealing which of
// username/password was wrong; capability faults surface as ErrServiceFault
// and never create a session.
func (s *AuthService) Login(username, password string) (Token, error) {
	request := auth.LoginRequest{Username: username, Password: password}
	if err := auth.ValidateLogin(request); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrForbidden, err)
	}

	account, found, err := s.accounts.GetAccount(username)
	if err != nil {
		if stderrors.Is(err, errors.ErrServiceFault) {
			return "", err
		}
		return "", fmt.Errorf("%w: account lookup: %v", errors.ErrServiceFault, err)
	}

	switch {
	case !found:
		// First-time registration
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return "", fmt.Errorf("%w: hash password: %v", errors.ErrServiceFault, err)
		}
		if err := s.accounts.CreateAccount(username, hash); err != nil {
			return "", fmt.Errorf("%w: create account: %v", errors.ErrServiceFault, err)
		}
		s.log.Info("Registered new account on first login", "username", username)

	default:
		if account.PasswordHash == "" {
			return "", fmt.Errorf("%w: account %q has no password hash", errors.ErrServiceFault, username)
		}
		match, err := s.hasher.Verify(password, account.PasswordHash)
		if err != nil {
			return "", fmt.Errorf("%w: verify password: %v", errors.ErrServiceFault, err)
		}
		if !match {
			return "", errors.ErrForbidden
		}
	}

	token, err := s.sessions.AddSession(username)
	if err != nil {
		return "", err
	}
	return Token(token), nil
}
