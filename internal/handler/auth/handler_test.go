package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitanips/platform-api/internal/middleware"
	"github.com/vitanips/platform-api/internal/model"
	authService "github.com/vitanips/platform-api/internal/service/auth"
	"github.com/vitanips/platform-api/internal/service/event"
	pkgauth "github.com/vitanips/platform-api/pkg/auth"
	apperrors "github.com/vitanips/platform-api/pkg/errors"
	"github.com/vitanips/platform-api/pkg/security"
)

type memUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error { return nil }

func (r *memUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

func (r *memUserRepo) Count(ctx context.Context) (int, error)       { return 0, nil }
func (r *memUserRepo) CountActive(ctx context.Context) (int, error) { return 0, nil }

func (r *memUserRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return 0, nil
}

func (r *memUserRepo) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	return 0, nil
}

type memOutboxRepo struct{}

func (memOutboxRepo) Create(ctx context.Context, ev *model.OutboxEvent) error { return nil }

func (memOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (memOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error { return nil }

func (memOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return nil
}

type noopEmail struct{}

func (noopEmail) SendVerificationEmail(to, username string) error { return nil }

func (noopEmail) SendDoctorVerificationEmail(to string, verified bool) error { return nil }

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	jwtSvc := pkgauth.NewJWTService(pkgauth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh",
		Expiry:        time.Hour,
		RefreshExpiry: time.Hour,
	})
	svc := authService.NewService(
		&memUserRepo{users: map[uuid.UUID]*model.User{}},
		jwtSvc,
		security.NewBcryptHasher(4),
		noopEmail{},
		event.NewService(memOutboxRepo{}),
	)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/users/register",
		`{"email":"ada@example.com","username":"ada","password":"long-enough-pw","password_confirm":"long-enough-pw"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestRegister_PasswordMismatch(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/users/register",
		`{"email":"ada@example.com","username":"ada","password":"long-enough-pw","password_confirm":"different-pw"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "passwords must match")
}

func TestRegister_ValidationErrors(t *testing.T) {
	r := newTestRouter()

	// Malformed email
	w := doJSON(r, http.MethodPost, "/api/v1/users/register",
		`{"email":"not-an-email","username":"ada","password":"long-enough-pw","password_confirm":"long-enough-pw"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Password below minimum length
	w = doJSON(r, http.MethodPost, "/api/v1/users/register",
		`{"email":"ada@example.com","username":"ada","password":"short","password_confirm":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginFlow(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/users/register",
		`{"email":"ada@example.com","username":"ada","password":"long-enough-pw","password_confirm":"long-enough-pw"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"ada@example.com","password":"long-enough-pw"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")
	assert.Contains(t, w.Body.String(), "refresh_token")
}

func TestLogin_BadCredentials(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"nobody@example.com","password":"whatever-pw"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}
