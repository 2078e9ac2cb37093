package application

import (
	"context"
	"testing"
	"time"

	cartapp "github.com/aurorajewels/storefront/internal/cart/application"
	cartdomain "github.com/aurorajewels/storefront/internal/cart/domain"
	"github.com/aurorajewels/storefront/internal/user/domain"
	"github.com/aurorajewels/storefront/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	users []*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uint(len(r.users) + 1)
	r.users = append(r.users, user)
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUID(_ context.Context, uid string) (*domain.User, error) {
	for _, u := range r.users {
		if u.UID == uid {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) Save(context.Context, *domain.User) error { return nil }

type memSessionStore struct {
	sessions map[string]string
}

func (s *memSessionStore) Save(_ context.Context, uid, token string, _ time.Duration) error {
	if s.sessions == nil {
		s.sessions = map[string]string{}
	}
	s.sessions[uid] = token
	return nil
}

func (s *memSessionStore) Valid(_ context.Context, uid, token string) (bool, error) {
	return s.sessions[uid] == token, nil
}

func (s *memSessionStore) Delete(_ context.Context, uid string) error {
	delete(s.sessions, uid)
	return nil
}

type recordingCartRepo struct {
	merges [][2]string
}

func (r *recordingCartRepo) Upsert(context.Context, *cartdomain.CartLine) error { return nil }
func (r *recordingCartRepo) GetLine(context.Context, uint) (*cartdomain.CartLine, error) {
	return nil, nil
}
func (r *recordingCartRepo) GetLines(context.Context, string, string) ([]*cartdomain.CartLine, error) {
	return nil, nil
}
func (r *recordingCartRepo) UpdateQuantity(context.Context, uint, int) error { return nil }
func (r *recordingCartRepo) DeleteLine(context.Context, uint) error          { return nil }
func (r *recordingCartRepo) Clear(context.Context, string, string) error     { return nil }
func (r *recordingCartRepo) MergeSessionIntoUser(_ context.Context, sessionID, userID string) error {
	r.merges = append(r.merges, [2]string{sessionID, userID})
	return nil
}

type noopCatalog struct{}

func (noopCatalog) Snapshot(context.Context, uint, uint) (*cartdomain.ProductSnapshot, error) {
	return &cartdomain.ProductSnapshot{}, nil
}

func newAuthFixture() (*AuthService, *memUserRepo, *memSessionStore, *recordingCartRepo) {
	users := &memUserRepo{}
	sessions := &memSessionStore{}
	cartRepo := &recordingCartRepo{}
	cartCmd := cartapp.NewCartCommandService(cartRepo, noopCatalog{})
	jwt := middleware.NewJWTManager("test-secret", 1)
	return NewAuthService(users, sessions, jwt, cartCmd, 1), users, sessions, cartRepo
}

func TestRegisterIssuesTokenAndMergesCart(t *testing.T) {
	svc, users, sessions, cartRepo := newAuthFixture()

	result, err := svc.Register(context.Background(), RegisterCommand{
		Email:     "Jo@Example.COM",
		Password:  "correct-horse",
		Name:      "Jo",
		SessionID: "sess-1",
	})
	require.NoError(t, err)

	// 邮箱规整为小写
	assert.Equal(t, "jo@example.com", result.User.Email)
	assert.NotEmpty(t, result.User.UID)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "correct-horse", result.User.PasswordHash)

	require.Len(t, users.users, 1)
	assert.Contains(t, sessions.sessions, result.User.UID)

	// 游客购物车并入新账号
	require.Len(t, cartRepo.merges, 1)
	assert.Equal(t, [2]string{"sess-1", result.User.UID}, cartRepo.merges[0])
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), RegisterCommand{
		Email: "jo@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterCommand{
		Email: "JO@example.com", Password: "different-pass",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), RegisterCommand{
		Email: "jo@example.com", Password: "short",
	})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc, _, _, cartRepo := newAuthFixture()

	registered, err := svc.Register(context.Background(), RegisterCommand{
		Email: "jo@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginCommand{
		Email: "jo@example.com", Password: "wrong-horse",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginCommand{
		Email: "nobody@example.com", Password: "correct-horse",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	result, err := svc.Login(context.Background(), LoginCommand{
		Email: "jo@example.com", Password: "correct-horse", SessionID: "sess-2",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.UID, result.User.UID)
	assert.Contains(t, cartRepo.merges, [2]string{"sess-2", result.User.UID})
}

func TestLogoutDropsSession(t *testing.T) {
	svc, _, sessions, _ := newAuthFixture()

	result, err := svc.Register(context.Background(), RegisterCommand{
		Email: "jo@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.User.UID))
	assert.NotContains(t, sessions.sessions, result.User.UID)
}
