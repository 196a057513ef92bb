package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Deek-011/formbot/internal/common/clock"
	commoncrypto "github.com/Deek-011/formbot/internal/common/crypto"
	"github.com/Deek-011/formbot/internal/common/logger"
	"github.com/Deek-011/formbot/internal/user/domain"
	userrepo "github.com/Deek-011/formbot/internal/user/repository"
)

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user domain.User) error
	findByEmailFunc func(ctx context.Context, email string) (domain.User, error)
	findByIDFunc    func(ctx context.Context, id domain.ID) (domain.User, error)
	updateFunc      func(ctx context.Context, user domain.User) error
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) Update(ctx context.Context, user domain.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return nil
}

type mockTokenIssuer struct {
	issueFunc func(userID string) (string, error)
}

func (m *mockTokenIssuer) Issue(userID string) (string, error) {
	if m.issueFunc != nil {
		return m.issueFunc(userID)
	}
	return "token-for-" + userID, nil
}

type mockIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (m *mockIDGenerator) NewID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return "id-" + strconv.Itoa(m.next), nil
}

type directBreaker struct{}

func (directBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockUserRepo, tokens *mockTokenIssuer) (*Service, commoncrypto.PasswordHasher) {
	hasher := commoncrypto.NewBcryptHasher(4)
	if tokens == nil {
		tokens = &mockTokenIssuer{}
	}
	svc := NewService(
		repo,
		hasher,
		tokens,
		&mockIDGenerator{},
		directBreaker{},
		clock.NewMockClock(testNow),
		logger.NewDiscard(),
	)
	return svc, hasher
}

func mustHash(h commoncrypto.PasswordHasher, password string) string {
	hash, err := h.Hash(password)
	if err != nil {
		panic(err)
	}
	return hash
}
