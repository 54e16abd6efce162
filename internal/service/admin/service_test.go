package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitanips/platform-api/internal/model"
	"github.com/vitanips/platform-api/internal/service/event"
	apperrors "github.com/vitanips/platform-api/pkg/errors"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User

	total          int
	active         int
	sinceArg       time.Time
	sinceCount     int
	betweenByStart map[time.Time]int

	updated []*model.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (r *stubUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	copied := *u
	return &copied, nil
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, apperrors.NotFound("user", nil)
}

func (r *stubUserRepo) Update(ctx context.Context, user *model.User) error {
	r.updated = append(r.updated, user)
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

func (r *stubUserRepo) Count(ctx context.Context) (int, error)       { return r.total, nil }
func (r *stubUserRepo) CountActive(ctx context.Context) (int, error) { return r.active, nil }

func (r *stubUserRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	r.sinceArg = since
	return r.sinceCount, nil
}

func (r *stubUserRepo) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	return r.betweenByStart[start], nil
}

type stubDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor

	total       int
	verified    int
	pending     int
	specialties []model.SpecialtyRank

	verifyCalls []bool
}

func (r *stubDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	copied := *d
	return &copied, nil
}

func (r *stubDoctorRepo) UpdateVerification(ctx context.Context, id uuid.UUID, verified bool) error {
	d, ok := r.doctors[id]
	if !ok {
		return apperrors.NotFound("doctor", nil)
	}
	r.verifyCalls = append(r.verifyCalls, verified)
	d.IsVerified = verified
	return nil
}

func (r *stubDoctorRepo) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	return nil, nil
}

func (r *stubDoctorRepo) Count(ctx context.Context) (int, error) { return r.total, nil }

func (r *stubDoctorRepo) CountVerified(ctx context.Context, verified bool) (int, error) {
	if verified {
		return r.verified, nil
	}
	return r.pending, nil
}

func (r *stubDoctorRepo) TopSpecialties(ctx context.Context, limit int) ([]model.SpecialtyRank, error) {
	if limit < len(r.specialties) {
		return r.specialties[:limit], nil
	}
	return r.specialties, nil
}

type stubPharmacyRepo struct {
	pharmacies map[uuid.UUID]*model.Pharmacy

	total  int
	active int

	updateCalls []bool
}

func (r *stubPharmacyRepo) Get(ctx context.Context, id uuid.UUID) (*model.Pharmacy, error) {
	p, ok := r.pharmacies[id]
	if !ok {
		return nil, apperrors.NotFound("pharmacy", nil)
	}
	copied := *p
	return &copied, nil
}

func (r *stubPharmacyRepo) UpdateActive(ctx context.Context, id uuid.UUID, active bool) error {
	p, ok := r.pharmacies[id]
	if !ok {
		return apperrors.NotFound("pharmacy", nil)
	}
	r.updateCalls = append(r.updateCalls, active)
	p.IsActive = active
	return nil
}

func (r *stubPharmacyRepo) List(ctx context.Context, filters *model.PharmacyFilters) ([]*model.Pharmacy, error) {
	return nil, nil
}

func (r *stubPharmacyRepo) Count(ctx context.Context) (int, error)       { return r.total, nil }
func (r *stubPharmacyRepo) CountActive(ctx context.Context) (int, error) { return r.active, nil }

type stubAppointmentRepo struct {
	total    int
	month    int
	today    int
	byStatus []model.StatusCount
}

func (r *stubAppointmentRepo) Count(ctx context.Context) (int, error) { return r.total, nil }

func (r *stubAppointmentRepo) CountOnOrAfter(ctx context.Context, date time.Time) (int, error) {
	return r.month, nil
}

func (r *stubAppointmentRepo) CountOnDate(ctx context.Context, date time.Time) (int, error) {
	return r.today, nil
}

func (r *stubAppointmentRepo) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	return r.byStatus, nil
}

type stubOrderRepo struct {
	total   int
	pending int
}

func (r *stubOrderRepo) Count(ctx context.Context) (int, error) { return r.total, nil }

func (r *stubOrderRepo) CountWithStatus(ctx context.Context, status string) (int, error) {
	return r.pending, nil
}

type stubOutboxRepo struct {
	created []*model.OutboxEvent
}

func (r *stubOutboxRepo) Create(ctx context.Context, ev *model.OutboxEvent) error {
	r.created = append(r.created, ev)
	return nil
}

func (r *stubOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (r *stubOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return nil
}

type stubEmailService struct{}

func (s *stubEmailService) SendVerificationEmail(to, username string) error { return nil }

func (s *stubEmailService) SendDoctorVerificationEmail(to string, verified bool) error {
	return nil
}

type fixture struct {
	svc     *Service
	users   *stubUserRepo
	doctors *stubDoctorRepo
	pharms  *stubPharmacyRepo
	appts   *stubAppointmentRepo
	orders  *stubOrderRepo
	outbox  *stubOutboxRepo
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		users:   &stubUserRepo{users: map[uuid.UUID]*model.User{}, betweenByStart: map[time.Time]int{}},
		doctors: &stubDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{}},
		pharms:  &stubPharmacyRepo{pharmacies: map[uuid.UUID]*model.Pharmacy{}},
		appts:   &stubAppointmentRepo{},
		orders:  &stubOrderRepo{},
		outbox:  &stubOutboxRepo{},
	}
	f.svc = NewService(f.users, f.doctors, f.pharms, f.appts, f.orders, &stubEmailService{}, event.NewService(f.outbox))
	f.svc.now = func() time.Time { return now }
	return f
}

func TestTrailingMonthWindows_ConsecutiveMonths(t *testing.T) {
	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	windows := trailingMonthWindows(today)
	require.Len(t, windows, 12)

	wantLabels := []string{
		"Mar 2024", "Apr 2024", "May 2024", "Jun 2024",
		"Jul 2024", "Aug 2024", "Sep 2024", "Oct 2024",
		"Nov 2024", "Dec 2024", "Jan 2025", "Feb 2025",
	}
	for i, w := range windows {
		assert.Equal(t, wantLabels[i], w.label)
		assert.Equal(t, 1, w.start.Day(), "window starts on the first of the month")
		assert.Equal(t, 1, w.end.Day(), "window ends on the first of the next month")
		assert.Equal(t, w.end, firstOfMonth(w.start.AddDate(0, 0, 32)))
	}
}

// The 30-day stepping means buckets near February can repeat one month and
// skip another. The behavior is load-bearing for the dashboard frontend, so
// the test pins it rather than the calendar-correct series.
func TestTrailingMonthWindows_FebruaryBoundary(t *testing.T) {
	today := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)

	windows := trailingMonthWindows(today)
	require.Len(t, windows, 12)

	labels := make([]string, 0, 12)
	for _, w := range windows {
		labels = append(labels, w.label)
	}

	assert.Equal(t, "Jan 2025", labels[10])
	assert.Equal(t, "Jan 2025", labels[11])
	assert.NotContains(t, labels, "Feb 2025")
}

func TestGetStats(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
	f := newFixture(now)

	f.users.total = 100
	f.users.active = 80
	f.users.sinceCount = 12
	f.doctors.total = 20
	f.doctors.verified = 15
	f.doctors.pending = 5
	f.pharms.total = 10
	f.pharms.active = 7
	f.appts.total = 500
	f.appts.month = 40
	f.appts.today = 3
	f.orders.total = 250
	f.orders.pending = 9

	stats, err := f.svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100, stats.Users.Total)
	assert.Equal(t, 20, stats.Users.Inactive, "inactive is derived, not queried")
	assert.Equal(t, 12, stats.Users.NewThisMonth)
	assert.Equal(t, 15, stats.Doctors.Verified)
	assert.Equal(t, 5, stats.Doctors.PendingVerification)
	assert.Equal(t, 3, stats.Pharmacies.Inactive)
	assert.Equal(t, 40, stats.Appointments.ThisMonth)
	assert.Equal(t, 3, stats.Appointments.Today)
	assert.Equal(t, 9, stats.Orders.Pending)

	wantMonthStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantMonthStart, f.users.sinceArg, "new-user count starts at the first of the current month")
}

func TestGetAnalytics(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
	f := newFixture(now)

	jan := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	f.users.betweenByStart[jan] = 17
	f.appts.byStatus = []model.StatusCount{{Status: "completed", Count: 30}, {Status: "cancelled", Count: 4}}
	f.doctors.specialties = []model.SpecialtyRank{{Specialty: "Cardiology", Count: 8}}

	analytics, err := f.svc.GetAnalytics(context.Background())
	require.NoError(t, err)

	require.Len(t, analytics.UserGrowth, 12)
	assert.Equal(t, "Jan 2025", analytics.UserGrowth[10].Month)
	assert.Equal(t, 17, analytics.UserGrowth[10].Count)
	assert.Equal(t, 0, analytics.UserGrowth[0].Count)

	assert.Equal(t, f.appts.byStatus, analytics.AppointmentsByStatus)
	assert.Equal(t, f.doctors.specialties, analytics.TopSpecialties)
}

func TestPatchUserFlags(t *testing.T) {
	f := newFixture(time.Now())

	id := uuid.New()
	f.users.users[id] = &model.User{
		Base:     model.Base{ID: id},
		Email:    "staff@example.com",
		IsActive: true,
	}

	isStaff := true
	isActive := false
	updated, err := f.svc.PatchUserFlags(context.Background(), id, &model.UpdateUserFlagsRequest{
		IsActive: &isActive,
		IsStaff:  &isStaff,
	})
	require.NoError(t, err)

	assert.False(t, updated.IsActive)
	assert.True(t, updated.IsStaff)
	assert.False(t, updated.IsSuperuser, "absent flags stay untouched")
	assert.False(t, updated.IsPharmacyStaff)

	require.Len(t, f.users.updated, 1)
	require.Len(t, f.outbox.created, 1)
	assert.Equal(t, model.EventUserFlagsPatched, f.outbox.created[0].EventType)
}

func TestPatchUserFlags_EmptyRequestStillWrites(t *testing.T) {
	f := newFixture(time.Now())

	id := uuid.New()
	f.users.users[id] = &model.User{Base: model.Base{ID: id}, IsActive: true}

	updated, err := f.svc.PatchUserFlags(context.Background(), id, &model.UpdateUserFlagsRequest{})
	require.NoError(t, err)

	assert.True(t, updated.IsActive)
	assert.Len(t, f.users.updated, 1, "the row is written even when nothing changed")
}

func TestPatchUserFlags_NotFound(t *testing.T) {
	f := newFixture(time.Now())

	_, err := f.svc.PatchUserFlags(context.Background(), uuid.New(), &model.UpdateUserFlagsRequest{})
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.outbox.created)
}

func TestVerifyDoctor(t *testing.T) {
	f := newFixture(time.Now())

	id := uuid.New()
	f.doctors.doctors[id] = &model.Doctor{Base: model.Base{ID: id}, FirstName: "Ada"}

	doctor, err := f.svc.VerifyDoctor(context.Background(), id, true)
	require.NoError(t, err)

	assert.True(t, doctor.IsVerified)
	assert.Equal(t, []bool{true}, f.doctors.verifyCalls)
	require.Len(t, f.outbox.created, 1)
	assert.Equal(t, model.EventDoctorVerified, f.outbox.created[0].EventType)
}

func TestVerifyDoctor_NotFound(t *testing.T) {
	f := newFixture(time.Now())

	_, err := f.svc.VerifyDoctor(context.Background(), uuid.New(), true)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.outbox.created)
}

func TestPatchPharmacy_AbsentFlagIsNoOp(t *testing.T) {
	f := newFixture(time.Now())

	id := uuid.New()
	f.pharms.pharmacies[id] = &model.Pharmacy{Base: model.Base{ID: id}, Name: "Corner Pharmacy", IsActive: true}

	pharmacy, err := f.svc.PatchPharmacy(context.Background(), id, &model.UpdatePharmacyRequest{})
	require.NoError(t, err)

	assert.True(t, pharmacy.IsActive)
	assert.Empty(t, f.pharms.updateCalls, "no write without is_active")
	assert.Empty(t, f.outbox.created, "no event without a change")
}

func TestPatchPharmacy_SetsActive(t *testing.T) {
	f := newFixture(time.Now())

	id := uuid.New()
	f.pharms.pharmacies[id] = &model.Pharmacy{Base: model.Base{ID: id}, Name: "Corner Pharmacy", IsActive: true}

	inactive := false
	pharmacy, err := f.svc.PatchPharmacy(context.Background(), id, &model.UpdatePharmacyRequest{IsActive: &inactive})
	require.NoError(t, err)

	assert.False(t, pharmacy.IsActive)
	assert.Equal(t, []bool{false}, f.pharms.updateCalls)
	require.Len(t, f.outbox.created, 1)
	assert.Equal(t, model.EventPharmacyPatched, f.outbox.created[0].EventType)
}
