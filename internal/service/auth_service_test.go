package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/classroll-api/internal/models"
	"github.com/noah-isme/classroll-api/pkg/config"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

type memorySessions struct {
	mu    sync.Mutex
	items map[string]models.SessionUser
}

func newMemorySessions() *memorySessions {
	return &memorySessions{items: make(map[string]models.SessionUser)}
}

func (m *memorySessions) Save(ctx context.Context, id string, user models.SessionUser, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = user
	return nil
}

func (m *memorySessions) Find(ctx context.Context, id string) (*models.SessionUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.items[id]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return &user, nil
}

func (m *memorySessions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

type fakeLogin struct {
	enabled bool
	user    *models.SessionUser
	err     error
}

func (f fakeLogin) Enabled() bool { return f.enabled }

func (f fakeLogin) Login(ctx context.Context, email, password string) (*models.SessionUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	u := *f.user
	return &u, nil
}

func localAccounts(t *testing.T) []config.LocalAccount {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	return []config.LocalAccount{
		{Email: "admin@example.com", Role: "admin", Name: "Admin", PasswordHash: string(hash)},
		{Email: "tess@example.com", Role: "teacher", Name: "Tess", PasswordHash: string(hash), TeacherID: "t1"},
	}
}

func newAuthService(t *testing.T, gw loginGateway, sessions sessionStore) (*AuthService, *mockAuditRepo) {
	t.Helper()
	audit := &mockAuditRepo{}
	svc := NewAuthService(gw, sessions, NewAuditService(audit, nil), nil, nil, AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "classroll-test",
		Accounts:          localAccounts(t),
	})
	return svc, audit
}

func TestAuthLocalLoginAndValidate(t *testing.T) {
	sessions := newMemorySessions()
	svc, audit := newAuthService(t, nil, sessions)
	ctx := context.Background()

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "Tess@Example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, resp.User.Role)
	assert.Equal(t, "t1", resp.User.TeacherID)
	assert.EqualValues(t, 3600, resp.ExpiresIn)

	claims, err := svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tess@example.com", claims.UserID)
	assert.Equal(t, "t1", claims.TeacherID)
	assert.Len(t, sessions.items, 1)

	me, err := svc.CurrentUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "Tess", me.Name)

	require.NoError(t, svc.Logout(ctx, testActor, claims))
	_, err = svc.ValidateToken(ctx, resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	assert.Equal(t, []string{models.AuditActionLogin, models.AuditActionLogout}, audit.actions())
}

func TestAuthLocalLoginRejects(t *testing.T) {
	svc, _ := newAuthService(t, nil, newMemorySessions())
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "s3cret!"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "bad", Password: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthGatewayLogin(t *testing.T) {
	gw := fakeLogin{enabled: true, user: &models.SessionUser{ID: "42", Name: "Remote", Email: "r@example.com", Role: "", TeacherID: "7", Token: "backend-token"}}
	sessions := newMemorySessions()
	svc, _ := newAuthService(t, gw, sessions)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "r@example.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, resp.User.Role)
	assert.Empty(t, resp.User.Token, "backend token stays server side")

	for _, stored := range sessions.items {
		assert.Equal(t, "backend-token", stored.Token)
	}

	gw = fakeLogin{enabled: true, err: appErrors.ErrInvalidCredentials}
	svc, _ = newAuthService(t, gw, sessions)
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "r@example.com", Password: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthValidateTokenRejectsTampered(t *testing.T) {
	svc, _ := newAuthService(t, nil, nil)
	ctx := context.Background()

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "admin@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err, "without a session store the signature is enough")

	_, err = svc.ValidateToken(ctx, resp.AccessToken+"x")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "sess",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, signed)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
