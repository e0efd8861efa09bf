package controllers_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"peakgear/booking"
	"peakgear/models"
	"peakgear/store"
)

// memStorage is an in-memory store.Storage for handler tests
type memStorage struct {
	mu       sync.Mutex
	users    map[string]*models.User
	products map[string]*models.Product
	bookings map[string]*models.Booking
	waivers  map[string]*models.Waiver // keyed by user id
	sessions map[string]*models.Session
}

func newMemStorage() *memStorage {
	return &memStorage{
		users:    make(map[string]*models.User),
		products: make(map[string]*models.Product),
		bookings: make(map[string]*models.Booking),
		waivers:  make(map[string]*models.Waiver),
		sessions: make(map[string]*models.Session),
	}
}

// ---- Users ----

func (m *memStorage) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStorage) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStorage) UpdatePassword(_ context.Context, userID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (m *memStorage) SetPasswordResetToken(_ context.Context, email, tokenHash string, expiry time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u.ResetToken = tokenHash
			u.ResetTokenExpiry = expiry
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStorage) GetUserByResetToken(_ context.Context, tokenHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ResetToken == tokenHash && u.ResetTokenExpiry.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStorage) ClearPasswordResetToken(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.ResetToken = ""
		u.ResetTokenExpiry = time.Time{}
	}
	return nil
}

// ---- Products ----

func (m *memStorage) ListAvailableProducts(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if p.Available {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStorage) ListAllProducts(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStorage) GetProduct(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStorage) CreateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *memStorage) UpdateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *memStorage) SoftDeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Available = false
	return nil
}

// ---- Bookings ----

func (m *memStorage) CreateBooking(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStorage) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStorage) ListBookingsByUser(_ context.Context, userID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStorage) ListAllBookings(_ context.Context) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memStorage) UpdateBooking(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStorage) FindBookingsInRange(_ context.Context, productID, startDate, endDate string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.ProductID != productID || b.Status == models.StatusCancelled {
			continue
		}
		if booking.Overlaps(b.StartDate, b.EndDate, startDate, endDate) {
			out = append(out, *b)
		}
	}
	return out, nil
}

// ---- Waivers ----

func (m *memStorage) UpsertWaiver(_ context.Context, waiver *models.Waiver) (*models.Waiver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.waivers[waiver.UserID]
	if ok {
		existing.IPAddress = waiver.IPAddress
		existing.WaiverContent = waiver.WaiverContent
		existing.SignedAt = waiver.SignedAt
	} else {
		cp := *waiver
		m.waivers[waiver.UserID] = &cp
		existing = m.waivers[waiver.UserID]
	}
	if u, ok := m.users[waiver.UserID]; ok {
		u.WaiverSigned = true
	}
	cp := *existing
	return &cp, nil
}

func (m *memStorage) GetWaiverByUser(_ context.Context, userID string) (*models.Waiver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wv, ok := m.waivers[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *wv
	return &cp, nil
}

func (m *memStorage) HasSignedWaiver(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.waivers[userID]
	return ok, nil
}

// ---- Sessions ----

func (m *memStorage) CreateSession(_ context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *memStorage) GetSession(_ context.Context, sid string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sid]
	if !ok || s.ExpiresAt.Before(time.Now()) {
		return nil, store.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStorage) DeleteSession(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

func (m *memStorage) DeleteSessionsByUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for sid, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, sid)
			n++
		}
	}
	return n, nil
}
