package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/internal/tokens"
	"github.com/Skotchmaster/storefront/internal/transport"
)

var testSecret = []byte("test-jwt-secret")

func newTestAuthService(t *testing.T) (*AuthService, *testutil.Recorder) {
	t.Helper()
	rec := &testutil.Recorder{}
	return &AuthService{
		Repo:   repo.New(testutil.OpenDB(t)),
		Tokens: tokens.NewCodec(testSecret, 7*24*time.Hour),
		Events: rec,
	}, rec
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	svc, rec := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, transport.RegisterRequest{Name: " A ", Email: "a@x.com", Password: "secret12"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "A", res.User.Name)
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.Equal(t, models.RoleUser, res.User.Role)

	claims, err := svc.Tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.ID)
	assert.Equal(t, models.RoleUser, claims.Role)

	stored, err := svc.Repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret12", stored.PasswordHash)

	assert.Equal(t, []string{events.TypeUserRegistered}, rec.Types())
	assert.Equal(t, events.TopicUsers, rec.All()[0].Topic)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, transport.RegisterRequest{Name: "A", Email: "a@x.com", Password: "secret12"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, transport.RegisterRequest{Name: "B", Email: "a@x.com", Password: "other123"})
	require.ErrorIs(t, err, ErrConflict)

	n, err := svc.Repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc, rec := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   transport.RegisterRequest
		field string
		msg   string
	}{
		{name: "empty name", req: transport.RegisterRequest{Name: "  ", Email: "a@x.com", Password: "secret12"}, field: "name", msg: "Name is required"},
		{name: "empty email", req: transport.RegisterRequest{Name: "A", Email: "", Password: "secret12"}, field: "email", msg: "Email is required"},
		{name: "bad email", req: transport.RegisterRequest{Name: "A", Email: "not-an-email", Password: "secret12"}, field: "email", msg: "Invalid email address"},
		{name: "empty password", req: transport.RegisterRequest{Name: "A", Email: "a@x.com", Password: ""}, field: "password", msg: "Password is required"},
		{name: "short password", req: transport.RegisterRequest{Name: "A", Email: "a@x.com", Password: "12345"}, field: "password", msg: "Password must be at least 6 characters"},
		{name: "first violation wins", req: transport.RegisterRequest{}, field: "name", msg: "Name is required"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := svc.Register(ctx, tt.req)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.msg, ve.Message)
		})
	}
	t.Cleanup(func() { assert.Empty(t, rec.All()) })
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	svc, rec := newTestAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, transport.RegisterRequest{Name: "A", Email: "a@x.com", Password: "secret12"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, transport.LoginRequest{Email: "a@x.com", Password: "secret12"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.Equal(t, []string{events.TypeUserRegistered, events.TypeUserLoggedIn}, rec.Types())

	_, wrongPass := svc.Login(ctx, transport.LoginRequest{Email: "a@x.com", Password: "secret13"})
	_, unknown := svc.Login(ctx, transport.LoginRequest{Email: "b@x.com", Password: "secret12"})
	require.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	require.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestAuthService_Login_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.LoginRequest
	}{
		{name: "empty email", req: transport.LoginRequest{Email: "", Password: "secret12"}},
		{name: "bad email", req: transport.LoginRequest{Email: "nope", Password: "secret12"}},
		{name: "empty password", req: transport.LoginRequest{Email: "a@x.com", Password: ""}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := svc.Login(ctx, tt.req)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Profile(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	res, err := svc.Register(ctx, transport.RegisterRequest{Name: "A", Email: "a@x.com", Password: "secret12"})
	require.NoError(t, err)

	me, err := svc.Profile(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, res.User, *me)

	_, err = svc.Profile(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAuthService_PublishFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	svc, rec := newTestAuthService(t)
	rec.Err = errors.New("broker down")

	res, err := svc.Register(context.Background(), transport.RegisterRequest{Name: "A", Email: "a@x.com", Password: "secret12"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}
