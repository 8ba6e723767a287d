package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/streamly/accounts/internal/accounts/domain"
	"github.com/streamly/accounts/internal/accounts/observability"
	"github.com/streamly/accounts/internal/accounts/store"
	"github.com/streamly/accounts/pkg/idx"
	"github.com/streamly/accounts/pkg/slogx"
)

const (
	DefaultRoleName          = "USER"
	DefaultRoleDescription   = "Default user role"
	DefaultMinPasswordLength = 8

	roleCacheSize = 16
)

// RegistrationService provisions new accounts with the default role.
type RegistrationService struct {
	Store   store.Store
	Hasher  PasswordHasher
	Metrics *observability.Metrics

	RoleName          string
	RoleDescription   string
	MinPasswordLength int

	// Now defaults to time.Now.
	Now func() time.Time

	roles *lru.Cache[string, domain.Role]
}

// NewRegistrationService fills in defaults for empty role settings and a
// non-positive minimum password length.
func NewRegistrationService(st store.Store, hasher PasswordHasher, roleName, roleDescription string, minPasswordLength int) *RegistrationService {
	if roleName == "" {
		roleName = DefaultRoleName
		roleDescription = DefaultRoleDescription
	}
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}
	// lru.New only fails for a non-positive size.
	roles, _ := lru.New[string, domain.Role](roleCacheSize)
	return &RegistrationService{
		Store:             st,
		Hasher:            hasher,
		RoleName:          roleName,
		RoleDescription:   roleDescription,
		MinPasswordLength: minPasswordLength,
		roles:             roles,
	}
}

// Register creates an account holding exactly the default role. Username
// uniqueness is checked before email uniqueness; a storage-level uniqueness
// rejection (a concurrent registration winning the race) maps to the same
// errors.
func (s *RegistrationService) Register(ctx context.Context, username, email, password string) (domain.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	l := slogx.FromContext(ctx).With(slog.String("username", username))

	if err := s.validate(username, email, password); err != nil {
		s.Metrics.Registration(observability.OutcomeInvalidInput)
		return domain.Account{}, err
	}

	taken, err := s.Store.Accounts().ExistsByUsername(ctx, username)
	if err != nil {
		return domain.Account{}, s.fail(l, "username check failed", err)
	}
	if taken {
		l.Info("registration rejected", slog.String("reason", KindUsernameTaken.String()))
		s.Metrics.Registration(observability.OutcomeUsernameTaken)
		return domain.Account{}, ErrUsernameTaken
	}

	taken, err = s.Store.Accounts().ExistsByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, s.fail(l, "email check failed", err)
	}
	if taken {
		l.Info("registration rejected", slog.String("reason", KindEmailTaken.String()))
		s.Metrics.Registration(observability.OutcomeEmailTaken)
		return domain.Account{}, ErrEmailTaken
	}

	start := time.Now()
	hash, err := s.Hasher.Hash(password)
	s.Metrics.ObserveHash("hash", start)
	if err != nil {
		return domain.Account{}, s.fail(l, "password hashing failed", err)
	}

	role, err := s.defaultRole(ctx)
	if err != nil {
		return domain.Account{}, s.fail(l, "default role lookup failed", err)
	}

	now := s.now().UTC()
	acct := domain.Account{
		ID:           idx.NewAt(now).String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        []domain.Role{role},
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Accounts().CreateAccount(ctx, acct)
	})
	if err != nil {
		var conflict *store.ConflictError
		if errors.As(err, &conflict) {
			switch conflict.Field {
			case store.FieldUsername:
				l.Info("registration lost race", slog.String("reason", KindUsernameTaken.String()))
				s.Metrics.Registration(observability.OutcomeUsernameTaken)
				return domain.Account{}, &Error{Kind: KindUsernameTaken, Err: err}
			case store.FieldEmail:
				l.Info("registration lost race", slog.String("reason", KindEmailTaken.String()))
				s.Metrics.Registration(observability.OutcomeEmailTaken)
				return domain.Account{}, &Error{Kind: KindEmailTaken, Err: err}
			}
		}
		// A cached role may have been removed behind our back.
		if s.roles != nil {
			s.roles.Remove(s.roleName())
		}
		return domain.Account{}, s.fail(l, "saving account failed", err)
	}

	s.Metrics.Registration(observability.OutcomeSuccess)
	l.Info("account registered", slog.String("account_id", acct.ID))
	return acct, nil
}

func (s *RegistrationService) validate(username, email, password string) error {
	switch {
	case username == "":
		return invalidInput("username is required")
	case email == "":
		return invalidInput("email is required")
	case !strings.Contains(email, "@"):
		return invalidInput("email is invalid")
	case password == "":
		return invalidInput("password is required")
	case utf8.RuneCountInString(password) < s.minPasswordLength():
		return invalidInput("password is too short")
	}
	return nil
}

// defaultRole returns the configured role, creating it on first use. Roles
// never change once created, so the result is cached.
func (s *RegistrationService) defaultRole(ctx context.Context) (domain.Role, error) {
	name := s.roleName()
	if s.roles != nil {
		if role, ok := s.roles.Get(name); ok {
			return role, nil
		}
	}

	description := s.RoleDescription
	if s.RoleName == "" {
		description = DefaultRoleDescription
	}

	now := s.now().UTC()
	role, err := s.Store.Roles().EnsureRole(ctx, domain.Role{
		ID:          idx.NewAt(now).String(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
	})
	if err != nil {
		return domain.Role{}, err
	}

	if s.roles != nil {
		s.roles.Add(name, role)
	}
	return role, nil
}

func (s *RegistrationService) roleName() string {
	if s.RoleName != "" {
		return s.RoleName
	}
	return DefaultRoleName
}

func (s *RegistrationService) fail(l *slog.Logger, msg string, err error) error {
	l.Error(msg, slog.Any("error", err))
	s.Metrics.Registration(observability.OutcomeFailed)
	return registrationFailed(err)
}

func (s *RegistrationService) minPasswordLength() int {
	if s.MinPasswordLength > 0 {
		return s.MinPasswordLength
	}
	return DefaultMinPasswordLength
}

func (s *RegistrationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
