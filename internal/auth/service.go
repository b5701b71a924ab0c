package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	redisclient "github.com/hackgods/medai-console/internal/redis"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Demo account preloaded into fresh stores.
const (
	DemoEmail    = "doctor@example.com"
	DemoPassword = "password123"
)

type Service struct {
	repo   Repository
	locker redisclient.Locker
	tokens *Tokens
	log    zerolog.Logger
	now    func() time.Time

	cost      int
	dummyOnce sync.Once
	dummyHash string
}

func NewService(repo Repository, locker redisclient.Locker, tokens *Tokens, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		tokens: tokens,
		log:    logger.With().Str("component", "auth").Logger(),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		cost:   bcrypt.DefaultCost,
	}
}

// Register creates a doctor account. The lookup and insert run under a lock
// keyed by the normalized email; a registration racing on the same email is
// reported as ErrEmailTaken.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	email := NormalizeEmail(in.Email)

	var created *Account
	err := s.locker.WithLock(ctx, "register:"+email, func(ctx context.Context) error {
		_, err := s.repo.GetByEmail(ctx, email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, ErrAccountNotFound) {
			return fmt.Errorf("lookup account: %w", err)
		}

		hash, err := hashPassword(in.Password, s.cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		now := s.now()
		a := &Account{
			Name:          in.Name,
			Email:         email,
			PasswordHash:  hash,
			Specialty:     in.Specialty,
			LicenseNumber: in.LicenseNumber,
			Role:          RoleDoctor,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.Create(ctx, a); err != nil {
			if errors.Is(err, ErrEmailTaken) {
				return err
			}
			return fmt.Errorf("create account: %w", err)
		}
		created = a
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info().Str("account_id", created.ID).Str("email", created.Email).Msg("account registered")
	return created, nil
}

// Login checks credentials and returns a signed token with the account.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Account, error) {
	a, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// burn the same bcrypt work as a real comparison
			_, _ = checkPassword(password, s.dummy())
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup account: %w", err)
	}

	ok, err := checkPassword(password, a.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(*a)
	if err != nil {
		return "", nil, err
	}

	s.log.Debug().Str("account_id", a.ID).Msg("login succeeded")
	return token, a, nil
}

// Authenticate verifies a bearer token and returns its claims.
func (s *Service) Authenticate(raw string) (*Claims, error) {
	return s.tokens.Parse(raw)
}

// Identify resolves the account a verified token belongs to.
func (s *Service) Identify(ctx context.Context, accountID string) (*Account, error) {
	a, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *Service) UpdateProfile(ctx context.Context, accountID string, patch ProfilePatch) (*Account, error) {
	a, err := s.repo.Update(ctx, accountID, func(a *Account) error {
		patch.Apply(a)
		a.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info().Str("account_id", a.ID).Msg("profile updated")
	return a, nil
}

// SeedDemo registers the demo doctor unless it already exists.
func (s *Service) SeedDemo(ctx context.Context) error {
	_, err := s.Register(ctx, RegisterInput{
		Name:          "Dr. John Smith",
		Email:         DemoEmail,
		Password:      DemoPassword,
		Specialty:     "Cardiology",
		LicenseNumber: "MD12345",
	})
	if err != nil && !errors.Is(err, ErrEmailTaken) {
		return fmt.Errorf("seed demo account: %w", err)
	}
	return nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := hashPassword("not-a-real-password", s.cost)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to build dummy hash")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
