package profile

import (
	"context"
	"encoding/json"
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
	profileService "github.com/vitanips/platform-api/internal/service/profile"
	"github.com/vitanips/platform-api/pkg/auth"
	apperrors "github.com/vitanips/platform-api/pkg/errors"
)

type memUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, apperrors.NotFound("user", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) Count(ctx context.Context) (int, error)       { return 0, nil }
func (r *memUserRepo) CountActive(ctx context.Context) (int, error) { return 0, nil }

func (r *memUserRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return 0, nil
}

func (r *memUserRepo) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	return 0, nil
}

type memHistoryRepo struct {
	records map[uuid.UUID]*model.MedicalHistory
}

func (r *memHistoryRepo) Create(ctx context.Context, record *model.MedicalHistory) error {
	record.ID = uuid.New()
	r.records[record.ID] = record
	return nil
}

func (r *memHistoryRepo) Get(ctx context.Context, id, userID uuid.UUID) (*model.MedicalHistory, error) {
	rec, ok := r.records[id]
	if !ok || rec.UserID != userID {
		return nil, apperrors.NotFound("medical history record", nil)
	}
	copied := *rec
	return &copied, nil
}

func (r *memHistoryRepo) Update(ctx context.Context, record *model.MedicalHistory) error {
	r.records[record.ID] = record
	return nil
}

func (r *memHistoryRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	rec, ok := r.records[id]
	if !ok || rec.UserID != userID {
		return apperrors.NotFound("medical history record", nil)
	}
	delete(r.records, id)
	return nil
}

func (r *memHistoryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.MedicalHistory, error) {
	out := []*model.MedicalHistory{}
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memVaccineRepo struct {
	records map[uuid.UUID]*model.Vaccination
}

func (r *memVaccineRepo) Create(ctx context.Context, v *model.Vaccination) error {
	v.ID = uuid.New()
	r.records[v.ID] = v
	return nil
}

func (r *memVaccineRepo) Get(ctx context.Context, id, userID uuid.UUID) (*model.Vaccination, error) {
	rec, ok := r.records[id]
	if !ok || rec.UserID != userID {
		return nil, apperrors.NotFound("vaccination record", nil)
	}
	copied := *rec
	return &copied, nil
}

func (r *memVaccineRepo) Update(ctx context.Context, v *model.Vaccination) error {
	r.records[v.ID] = v
	return nil
}

func (r *memVaccineRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	rec, ok := r.records[id]
	if !ok || rec.UserID != userID {
		return apperrors.NotFound("vaccination record", nil)
	}
	delete(r.records, id)
	return nil
}

func (r *memVaccineRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Vaccination, error) {
	out := []*model.Vaccination{}
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type env struct {
	router *gin.Engine
	jwtSvc auth.JWTService
	users  *memUserRepo
}

func newEnv() *env {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidation()

	users := &memUserRepo{users: map[uuid.UUID]*model.User{}}
	svc := profileService.NewService(
		users,
		&memHistoryRepo{records: map[uuid.UUID]*model.MedicalHistory{}},
		&memVaccineRepo{records: map[uuid.UUID]*model.Vaccination{}},
	)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh",
		Expiry:        time.Hour,
		RefreshExpiry: time.Hour,
	})

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	api := r.Group("/api/v1")
	h := NewHandler(svc)
	h.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.NewAuthMiddleware(jwtSvc).Authenticate())
	h.RegisterRoutes(protected)

	return &env{router: r, jwtSvc: jwtSvc, users: users}
}

func (e *env) addUser(email string) (uuid.UUID, string) {
	id := uuid.New()
	e.users.users[id] = &model.User{Base: model.Base{ID: id}, Email: email, Username: email, IsActive: true}
	token, err := e.jwtSvc.GenerateAccessToken(id, email, false)
	if err != nil {
		panic(err)
	}
	return id, token
}

func (e *env) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestGetProfile_RequiresToken(t *testing.T) {
	e := newEnv()

	w := e.do(http.MethodGet, "/api/v1/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProfile(t *testing.T) {
	e := newEnv()
	_, token := e.addUser("ada@example.com")

	w := e.do(http.MethodGet, "/api/v1/users/me", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
}

func TestUpdateProfile_AllowListOnly(t *testing.T) {
	e := newEnv()
	id, token := e.addUser("ada@example.com")

	w := e.do(http.MethodPatch, "/api/v1/users/me", token,
		`{"first_name":"Ada","is_staff":true,"email":"new@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	stored := e.users.users[id]
	assert.Equal(t, "Ada", stored.FirstName)
	assert.False(t, stored.IsStaff, "privilege flags are not self-service")
	assert.Equal(t, "ada@example.com", stored.Email, "email is not self-service")
}

func TestUpdateProfile_EmptyBodyIsEmptyPatch(t *testing.T) {
	e := newEnv()
	id, token := e.addUser("ada@example.com")
	e.users.users[id].FirstName = "Ada"

	w := e.do(http.MethodPatch, "/api/v1/users/me", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada", e.users.users[id].FirstName, "profile unchanged")
}

func TestUpdateProfile_ValidatesBloodGroup(t *testing.T) {
	e := newEnv()
	id, token := e.addUser("ada@example.com")

	w := e.do(http.MethodPatch, "/api/v1/users/me", token, `{"blood_group":"Z+"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "blood_group")

	w = e.do(http.MethodPatch, "/api/v1/users/me", token, `{"blood_group":"O-"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, e.users.users[id].BloodGroup)
	assert.Equal(t, "O-", *e.users.users[id].BloodGroup)
}

func TestMedicalHistory_OwnerScoping(t *testing.T) {
	e := newEnv()
	_, aliceToken := e.addUser("alice@example.com")
	_, bobToken := e.addUser("bob@example.com")

	w := e.do(http.MethodPost, "/api/v1/users/me/medical-history", aliceToken,
		`{"condition":"Asthma","diagnosis_date":"2020-06-01T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data model.MedicalHistory `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	recordURL := "/api/v1/users/me/medical-history/" + created.Data.ID.String()

	// The owner sees the record; anyone else gets a 404, not a 403.
	w = e.do(http.MethodGet, recordURL, aliceToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, recordURL, bobToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodDelete, recordURL, bobToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodDelete, recordURL, aliceToken, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMedicalHistory_MalformedIDReadsAsAbsent(t *testing.T) {
	e := newEnv()
	_, token := e.addUser("ada@example.com")

	w := e.do(http.MethodGet, "/api/v1/users/me/medical-history/not-a-uuid", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVaccinations_ListEnvelope(t *testing.T) {
	e := newEnv()
	_, token := e.addUser("ada@example.com")

	w := e.do(http.MethodPost, "/api/v1/users/me/vaccinations", token,
		`{"vaccine_name":"Tetanus","date_administered":"2022-02-02T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(http.MethodGet, "/api/v1/users/me/vaccinations", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count   int                 `json:"count"`
		Results []model.Vaccination `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Results, 1)
	assert.Equal(t, 1, body.Results[0].DoseNumber)
}

func TestListUsers_Public(t *testing.T) {
	e := newEnv()
	e.addUser("ada@example.com")

	w := e.do(http.MethodGet, "/api/v1/users", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}
