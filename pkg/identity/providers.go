package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"convodb/pkg/config"
	"convodb/pkg/logger"
	"convodb/pkg/models"
	"convodb/pkg/store"
	"convodb/pkg/utils"
)

// ProviderIdentity is the verified identity returned by a federated
// provider after a successful exchange.
type ProviderIdentity struct {
	Email   string
	Subject string
}

// Provider is a federated sign-in backend (Google/Facebook/Twitter
// analogs). Exchange trades a provider assertion for a verified
// identity; it returns ErrProviderCancelled when the user aborted.
type Provider interface {
	Name() string
	Exchange(ctx context.Context, assertion string) (ProviderIdentity, error)
}

// StaticProvider is a demo provider with a fixed identity. The literal
// assertion "cancel" simulates the user closing the provider popup.
type StaticProvider struct {
	ProviderName string
	Email        string
	Subject      string
}

func (p StaticProvider) Name() string { return p.ProviderName }

func (p StaticProvider) Exchange(_ context.Context, assertion string) (ProviderIdentity, error) {
	if assertion == "cancel" {
		return ProviderIdentity{}, ErrProviderCancelled
	}
	return ProviderIdentity{Email: p.Email, Subject: p.Subject}, nil
}

// RegisterConfiguredProviders installs the static providers declared in
// the config file.
func (s *Service) RegisterConfiguredProviders(pcs []config.ProviderConfig) {
	for _, pc := range pcs {
		if pc.Name == "" {
			continue
		}
		s.RegisterProvider(StaticProvider{ProviderName: pc.Name, Email: pc.Email, Subject: pc.Subject})
	}
}

// SignInFederated runs the provider exchange and signs the resulting
// identity in, lazily creating a password-less account on first contact
// and merging its record into the directory.
func (s *Service) SignInFederated(ctx context.Context, providerName, assertion string) (models.Account, error) {
	p, ok := s.providers[strings.ToLower(providerName)]
	if !ok {
		return models.Account{}, ErrUnknownProvider
	}
	id, err := p.Exchange(ctx, assertion)
	if err != nil {
		// provider errors, including cancellation, surface verbatim
		return models.Account{}, err
	}
	email := utils.NormalizeID(id.Email)
	if email == "" {
		return models.Account{}, ErrInvalidCredentials
	}

	a, err := store.GetAccountByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		a = models.Account{
			ID:        utils.GenAccountID(),
			Email:     email,
			Provider:  p.Name(),
			CreatedTS: time.Now().UnixMilli(),
		}
		if err := store.SaveAccount(a); err != nil {
			return models.Account{}, err
		}
		logger.AuditEvent("account_registered_federated", "account", a.ID, "provider", p.Name())
	} else if err != nil {
		return models.Account{}, err
	}

	// upsert-on-login keeps the directory record current
	if err := store.SaveUserRecord(models.UserRecord{AccountID: a.ID, Email: a.Email}); err != nil {
		return models.Account{}, err
	}
	logger.AuditEvent("signed_in_federated", "account", a.ID, "provider", p.Name())
	s.setSession(&a)
	return a, nil
}
