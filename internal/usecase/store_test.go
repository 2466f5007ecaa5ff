package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for the Postgres repositories. Every
// method runs under one mutex, mirroring the single-statement atomicity the
// SQL implementation relies on.
type memStore struct {
	mu            sync.Mutex
	excursions    map[int64]*entity.Excursion
	slots         map[uuid.UUID]*entity.TicketSlot
	bookings      map[int64]*entity.Booking
	notifications []*entity.Notification
	nextID        int64

	// reserveFailures makes the next Reserve calls fail with a serialization error.
	reserveFailures int
	notifyErr       error
}

func newMemStore() *memStore {
	return &memStore{
		excursions: make(map[int64]*entity.Excursion),
		slots:      make(map[uuid.UUID]*entity.TicketSlot),
		bookings:   make(map[int64]*entity.Booking),
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Excursion:    memExcursions{m},
		Slot:         memSlots{m},
		Booking:      memBookings{m},
		Notification: memNotifications{m},
	}
}

func (m *memStore) addExcursion(id int64, guideID, managerID *int64) *entity.Excursion {
	m.mu.Lock()
	defer m.mu.Unlock()

	title := "Old Town Walk"
	e := &entity.Excursion{ID: id, OrganizationID: 1, GuideID: guideID, ManagerID: managerID, Title: &title}
	m.excursions[id] = e
	return e
}

func (m *memStore) addSlot(excursionID int64, startsAt time.Time, category string, total, sold int, price float64) *entity.TicketSlot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	s := &entity.TicketSlot{
		Timestamps:  entity.Timestamps{CreatedAt: time.Unix(m.nextID, 0).UTC()},
		ID:          uuid.New(),
		ExcursionID: excursionID,
		StartsAt:    startsAt,
		Category:    category,
		Total:       total,
		Sold:        sold,
		Price:       price,
		Currency:    "USD",
	}
	m.slots[s.ID] = s
	cp := *s
	return &cp
}

func (m *memStore) sold(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[id].Sold
}

func (m *memStore) booking(id int64) entity.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.bookings[id]
}

func (m *memStore) notificationsFor(userID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n.Message)
		}
	}
	return out
}

type memExcursions struct{ m *memStore }

func (r memExcursions) FindByID(_ context.Context, id int64) (*entity.Excursion, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	e, ok := r.m.excursions[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

type memSlots struct{ m *memStore }

func (r memSlots) CreateBatch(_ context.Context, slots []*entity.TicketSlot) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, s := range slots {
		if s.Category == "" {
			continue
		}
		for _, existing := range r.m.slots {
			if existing.ExcursionID == s.ExcursionID && existing.StartsAt.Equal(s.StartsAt) &&
				strings.EqualFold(existing.Category, s.Category) {
				return repository.ErrDuplicateSlot
			}
		}
	}
	for _, s := range slots {
		cp := *s
		r.m.slots[s.ID] = &cp
	}
	return nil
}

func (r memSlots) FindByID(_ context.Context, id uuid.UUID) (*entity.TicketSlot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	s, ok := r.m.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r memSlots) FindByExcursionID(_ context.Context, excursionID int64) ([]*entity.TicketSlot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []*entity.TicketSlot
	for _, s := range r.m.slots {
		if s.ExcursionID == excursionID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r memSlots) FindByKey(ctx context.Context, excursionID int64, startsAt time.Time, category string) (*entity.TicketSlot, error) {
	slots, _ := r.FindByExcursionID(ctx, excursionID)
	for _, s := range slots {
		if s.StartsAt.Equal(startsAt) && s.Category == category {
			return s, nil
		}
	}
	return nil, nil
}

func (r memSlots) Reserve(_ context.Context, id uuid.UUID, quantity int) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.m.reserveFailures > 0 {
		r.m.reserveFailures--
		return false, &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
	}

	s, ok := r.m.slots[id]
	if !ok {
		return false, nil
	}
	return s.Reserve(quantity), nil
}

func (r memSlots) Release(_ context.Context, id uuid.UUID, quantity int) (int, int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	s, ok := r.m.slots[id]
	if !ok {
		return 0, 0, repository.ErrNotFound
	}
	before := s.Sold
	s.Release(quantity)
	return before, s.Sold, nil
}

type memBookings struct{ m *memStore }

func (r memBookings) Create(_ context.Context, b *entity.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.nextID++
	b.ID = r.m.nextID
	cp := *b
	r.m.bookings[b.ID] = &cp
	return nil
}

func (r memBookings) FindByID(_ context.Context, id int64) (*entity.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	b, ok := r.m.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r memBookings) LockByID(ctx context.Context, id int64) (*entity.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r memBookings) filter(keep func(*entity.Booking) bool) []*entity.Booking {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []*entity.Booking
	for _, b := range r.m.bookings {
		if keep(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memBookings) FindByUserID(_ context.Context, userID int64) ([]*entity.Booking, error) {
	return r.filter(func(b *entity.Booking) bool { return b.UserID == userID }), nil
}

func (r memBookings) FindByGuideID(_ context.Context, guideID int64) ([]*entity.Booking, error) {
	r.m.mu.Lock()
	guided := make(map[int64]bool)
	for id, e := range r.m.excursions {
		guided[id] = e.IsGuidedBy(guideID)
	}
	r.m.mu.Unlock()

	return r.filter(func(b *entity.Booking) bool { return guided[b.ExcursionID] }), nil
}

func (r memBookings) FindAll(_ context.Context) ([]*entity.Booking, error) {
	return r.filter(func(*entity.Booking) bool { return true }), nil
}

func (r memBookings) Update(_ context.Context, b *entity.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *b
	r.m.bookings[b.ID] = &cp
	return nil
}

func (r memBookings) UpdateStatus(_ context.Context, id int64, status entity.BookingStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	b, ok := r.m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	return nil
}

func (r memBookings) CompletePast(_ context.Context, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var n int64
	for _, b := range r.m.bookings {
		if b.Status == entity.BookingStatusPending && b.DateTime.Before(now) {
			b.Status = entity.BookingStatusCompleted
			n++
		}
	}
	return n, nil
}

type memNotifications struct{ m *memStore }

func (r memNotifications) Create(_ context.Context, n *entity.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.m.notifyErr != nil {
		return r.m.notifyErr
	}
	r.m.nextID++
	n.ID = r.m.nextID
	cp := *n
	r.m.notifications = append(r.m.notifications, &cp)
	return nil
}

func (r memNotifications) FindByUserID(_ context.Context, userID int64) ([]*entity.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []*entity.Notification
	for i := len(r.m.notifications) - 1; i >= 0; i-- {
		if n := r.m.notifications[i]; n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

type testEnv struct {
	store        *memStore
	repo         *repository.Repository
	availability AvailabilityService
	inventory    InventoryService
	notification NotificationService
	booking      *bookingService
	now          time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	repo := store.repository()
	log := zap.NewNop()

	availability := NewAvailabilityService(repo, log)
	notification := NewNotificationService(repo, log)
	booking := NewBookingService(repo, availability, notification, utils.BookingConfig{MaxRetries: 2}, log).(*bookingService)

	env := &testEnv{
		store:        store,
		repo:         repo,
		availability: availability,
		inventory:    NewInventoryService(repo, availability, log),
		notification: notification,
		booking:      booking,
		now:          mustTime(t, "2025-05-01 09:00"),
	}
	booking.now = func() time.Time { return env.now }
	return env
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := utils.ParseDateTime(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func ptr[T any](v T) *T { return &v }
