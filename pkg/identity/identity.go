// Package identity owns accounts and sessions: email/password
// registration and sign-in, federated sign-in through pluggable
// providers, and a session-change hub that fires on every login and
// logout.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"

	"convodb/pkg/logger"
	"convodb/pkg/models"
	"convodb/pkg/session"
	"convodb/pkg/store"
	"convodb/pkg/utils"
)

var (
	// ErrInvalidCredentials deliberately does not distinguish an
	// unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrUnknownProvider    = errors.New("unknown provider")
	// ErrProviderCancelled is returned by providers when the user
	// aborts the federated flow.
	ErrProviderCancelled = errors.New("sign-in cancelled by user")
)

// DefaultMinEntropy is the password strength floor in bits when the
// config does not set one.
const DefaultMinEntropy = 50

type Service struct {
	minEntropy float64
	providers  map[string]Provider
	sessions   *session.Container
}

func NewService(minEntropy float64) *Service {
	if minEntropy <= 0 {
		minEntropy = DefaultMinEntropy
	}
	return &Service{
		minEntropy: minEntropy,
		providers:  map[string]Provider{},
		sessions:   session.NewContainer(),
	}
}

// Sessions exposes the session state container.
func (s *Service) Sessions() *session.Container {
	return s.sessions
}

// RegisterProvider adds a federated provider. Last registration wins on
// name collisions.
func (s *Service) RegisterProvider(p Provider) {
	s.providers[strings.ToLower(p.Name())] = p
}

// Register creates an email/password account, mirrors it into the
// directory, and signs the new account in.
func (s *Service) Register(email, password string) (models.Account, error) {
	email = utils.NormalizeID(email)
	if email == "" || !strings.Contains(email, "@") {
		return models.Account{}, fmt.Errorf("invalid email address")
	}
	if err := passwordvalidator.Validate(password, s.minEntropy); err != nil {
		return models.Account{}, fmt.Errorf("weak password: %w", err)
	}
	if _, err := store.GetAccountByEmail(email); err == nil {
		return models.Account{}, ErrAccountExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, err
	}
	a := models.Account{
		ID:           utils.GenAccountID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedTS:    time.Now().UnixMilli(),
	}
	if err := store.SaveAccount(a); err != nil {
		return models.Account{}, err
	}
	if err := store.SaveUserRecord(models.UserRecord{AccountID: a.ID, Email: a.Email}); err != nil {
		return models.Account{}, err
	}
	logger.AuditEvent("account_registered", "account", a.ID, "email", a.Email)
	s.setSession(&a)
	return a, nil
}

// SignIn verifies email/password credentials and establishes a session.
func (s *Service) SignIn(email, password string) (models.Account, error) {
	a, err := store.GetAccountByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return models.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Account{}, err
	}
	if a.PasswordHash == "" {
		// federated-only account
		return models.Account{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		logger.Warn("sign_in_failed", "email", utils.NormalizeID(email))
		return models.Account{}, ErrInvalidCredentials
	}
	logger.AuditEvent("signed_in", "account", a.ID)
	s.setSession(&a)
	return a, nil
}

// SignOut clears the current session and notifies subscribers.
func (s *Service) SignOut() {
	logger.AuditEvent("signed_out")
	s.setSession(nil)
}

// OnSessionChange registers a callback which fires once immediately
// with the current session and again on every login/logout.
func (s *Service) OnSessionChange(fn func(*models.Account)) {
	s.sessions.Subscribe(func(st session.State) { fn(st.Account) })
	fn(s.sessions.Get().Account)
}

// Current returns the current session account, or nil.
func (s *Service) Current() *models.Account {
	return s.sessions.Get().Account
}

func (s *Service) setSession(a *models.Account) {
	s.sessions.Update(func(st session.State) session.State {
		st.Account = a
		if a == nil {
			st.ConversationID = ""
		}
		return st
	})
}
