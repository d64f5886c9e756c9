package app

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"calendrette/internal/domain/account"
	"calendrette/internal/domain/auth"
	"calendrette/internal/domain/period"
	idb "calendrette/internal/infra/database"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Custom application-level errors for account service
var ErrAccountAlreadyExists = fmt.Errorf("account with this email already exists")
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")
var ErrInvalidAccountDetails = fmt.Errorf("invalid account details")

const minPasswordLength = 6

// SessionManager is the auth source that can also change the session.
type SessionManager interface {
	auth.Source
	SignIn(principalID string) error
	SignOut() error
}

type AccountService struct {
	accountRepo account.Repository
	sessions    SessionManager
	logger      *logrus.Entry
	cost        int
}

// NewAccountService builds the service. accountRepo is nil when no remote
// database is configured; Register and Login then fail with
// period.ErrRemoteUnavailable.
func NewAccountService(ar account.Repository, sessions SessionManager, logger *logrus.Entry) *AccountService {
	return &AccountService{
		accountRepo: ar,
		sessions:    sessions,
		logger:      logger,
		cost:        bcrypt.DefaultCost,
	}
}

// Register creates an account. It does not sign in.
func (s *AccountService) Register(ctx context.Context, email, password string) (*account.Account, error) {
	if s.accountRepo == nil {
		return nil, period.ErrRemoteUnavailable
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidAccountDetails, minPasswordLength)
	}

	// Check if account already exists by email
	_, err = s.accountRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrAccountAlreadyExists
	}
	if !errors.Is(err, account.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newAccount := &account.Account{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.accountRepo.Create(ctx, newAccount); err != nil {
		if errors.Is(err, idb.ErrDuplicateEmail) {
			return nil, ErrAccountAlreadyExists
		}
		return nil, fmt.Errorf("failed to create account in repository: %w", err)
	}

	s.logger.Infof("Registered account %d", newAccount.ID)
	return newAccount, nil
}

// Login verifies the credentials and signs the account in.
func (s *AccountService) Login(ctx context.Context, email, password string) (*account.Account, error) {
	if s.accountRepo == nil {
		return nil, period.ErrRemoteUnavailable
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	acc, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		s.logger.Warnf("Failed login attempt for account %d", acc.ID)
		return nil, ErrInvalidCredentials
	}

	if err := s.sessions.SignIn(acc.PrincipalID()); err != nil {
		return nil, err
	}
	s.logger.Infof("Account %d signed in", acc.ID)
	return acc, nil
}

func (s *AccountService) Logout() error {
	return s.sessions.SignOut()
}

func (s *AccountService) Whoami() auth.State {
	return s.sessions.Current()
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q is not a valid email address", ErrInvalidAccountDetails, email)
	}
	return email, nil
}
