package service

import (
	"context"
	"errors"

	"github.com/Deek-011/formbot/internal/common/clock"
	commoncrypto "github.com/Deek-011/formbot/internal/common/crypto"
	commonerrors "github.com/Deek-011/formbot/internal/common/errors"
	"github.com/Deek-011/formbot/internal/common/logger"
	"github.com/Deek-011/formbot/internal/common/resilience"
	"github.com/Deek-011/formbot/internal/observability/metrics"
	"github.com/Deek-011/formbot/internal/user/domain"
	userrepo "github.com/Deek-011/formbot/internal/user/repository"
)

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type Service struct {
	repo    userrepo.Repository
	hasher  commoncrypto.PasswordHasher
	tokens  TokenIssuer
	ids     commoncrypto.IDGenerator
	breaker resilience.CircuitBreakerInterface
	clock   clock.Clock
	log     *logger.Logger
}

func NewService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	tokens TokenIssuer,
	ids commoncrypto.IDGenerator,
	breaker resilience.CircuitBreakerInterface,
	clk clock.Clock,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		ids:     ids,
		breaker: breaker,
		clock:   clk,
		log:     log,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token    string
	Username string
}

// UpdateInput fields left empty are not changed.
type UpdateInput struct {
	Username    string
	Email       string
	OldPassword string
	NewPassword string
}

func (s *Service) Signup(ctx context.Context, input SignupInput) error {
	email := domain.NormalizeEmail(input.Email)
	entry := s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "signup",
	})

	_, err := s.findByEmail(ctx, email)
	switch {
	case err == nil:
		entry.Warn("signup rejected: user already exists")
		metrics.SignupsTotal.WithLabelValues("exists").Inc()
		return ErrUserExists
	case !errors.Is(err, userrepo.ErrUserNotFound):
		entry.Errorf("signup failed: lookup error: %v", err)
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return commonerrors.EnsureDomain(err, "SIGNUP_LOOKUP_FAILED")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		entry.Errorf("signup failed: password hash error: %v", err)
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return commonerrors.NewInternalError("HASH_FAILED", "failed to hash password", err)
	}

	id, err := s.ids.NewID()
	if err != nil {
		entry.Errorf("signup failed: id generation error: %v", err)
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return commonerrors.NewInternalError("ID_GENERATION_FAILED", "failed to generate id", err)
	}

	now := s.clock.Now()
	user := domain.User{
		ID:           domain.ID(id),
		Username:     input.Username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			entry.Warn("signup rejected: email taken concurrently")
			metrics.SignupsTotal.WithLabelValues("exists").Inc()
			return ErrUserExists
		}
		entry.Errorf("signup failed: %v", err)
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return commonerrors.EnsureDomain(err, "USER_CREATE_FAILED")
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "signup_success",
	}).Info("user created")
	metrics.SignupsTotal.WithLabelValues("success").Inc()
	return nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := domain.NormalizeEmail(input.Email)
	entry := s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "login",
	})

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			entry.Warn("login failed: user not found")
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			return LoginResult{}, ErrUserNotFound
		}
		entry.Errorf("login failed: lookup error: %v", err)
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return LoginResult{}, commonerrors.EnsureDomain(err, "LOGIN_LOOKUP_FAILED")
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		entry.Warn("login failed: wrong password")
		metrics.LoginsTotal.WithLabelValues("wrong_password").Inc()
		return LoginResult{}, ErrWrongPassword
	}

	token, err := s.tokens.Issue(string(user.ID))
	if err != nil {
		entry.Errorf("login failed: token issue error: %v", err)
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return LoginResult{}, commonerrors.NewInternalError("TOKEN_ISSUE_FAILED", "failed to issue token", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return LoginResult{Token: token, Username: user.Username}, nil
}

func (s *Service) Update(ctx context.Context, userID string, input UpdateInput) error {
	entry := s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"action":  "user_update",
	})

	var user domain.User
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var findErr error
		user, findErr = s.repo.FindByID(ctx, domain.ID(userID))
		return findErr
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			entry.Warn("update failed: user not found")
			return ErrUserNotFound
		}
		entry.Errorf("update failed: lookup error: %v", err)
		return commonerrors.EnsureDomain(err, "USER_LOOKUP_FAILED")
	}

	if input.Username != "" {
		user.Username = input.Username
	}

	if input.Email != "" {
		email := domain.NormalizeEmail(input.Email)
		if email != user.Email {
			existing, err := s.findByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				entry.Warn("update rejected: email already in use")
				return ErrEmailInUse
			case err != nil && !errors.Is(err, userrepo.ErrUserNotFound):
				entry.Errorf("update failed: email lookup error: %v", err)
				return commonerrors.EnsureDomain(err, "USER_LOOKUP_FAILED")
			}
			user.Email = email
		}
	}

	if input.OldPassword != "" || input.NewPassword != "" {
		if input.OldPassword == "" || input.NewPassword == "" {
			entry.Warn("update rejected: password change needs both passwords")
			return ErrPasswordPairRequired
		}
		if !s.hasher.Verify(input.OldPassword, user.PasswordHash) {
			entry.Warn("update rejected: incorrect old password")
			return ErrIncorrectOldPassword
		}
		if input.OldPassword == input.NewPassword {
			entry.Warn("update rejected: password unchanged")
			return ErrSamePassword
		}
		hash, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			entry.Errorf("update failed: password hash error: %v", err)
			return commonerrors.NewInternalError("HASH_FAILED", "failed to hash password", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = s.clock.Now()

	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, user)
	})
	if err != nil {
		switch {
		case errors.Is(err, userrepo.ErrEmailAlreadyExists):
			entry.Warn("update rejected: email taken concurrently")
			return ErrEmailInUse
		case errors.Is(err, userrepo.ErrUserNotFound):
			return ErrUserNotFound
		}
		entry.Errorf("update failed: %v", err)
		return commonerrors.EnsureDomain(err, "USER_UPDATE_FAILED")
	}

	entry.Info("user updated")
	return nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.FindByEmail(ctx, email)
		return err
	})
	return user, err
}
