package store

import (
	"context"
	"errors"
	"time"

	"peakgear/models"
)

// ErrNotFound is returned when a record does not exist or has expired
var ErrNotFound = errors.New("record not found")

// Storage is the persistence surface of the application. The Mongo
// implementation lives in this package; tests substitute in-memory fakes.
type Storage interface {
	// User operations
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetPasswordResetToken(ctx context.Context, email, tokenHash string, expiry time.Time) error
	GetUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error)
	ClearPasswordResetToken(ctx context.Context, userID string) error

	// Product operations
	ListAvailableProducts(ctx context.Context) ([]models.Product, error)
	ListAllProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	SoftDeleteProduct(ctx context.Context, id string) error

	// Booking operations
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListAllBookings(ctx context.Context) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, booking *models.Booking) error
	// FindBookingsInRange returns bookings for the product whose inclusive
	// [startDate, endDate] ranges intersect the query range. Cancelled
	// bookings do not hold their slot and are excluded.
	FindBookingsInRange(ctx context.Context, productID, startDate, endDate string) ([]models.Booking, error)

	// Waiver operations
	UpsertWaiver(ctx context.Context, waiver *models.Waiver) (*models.Waiver, error)
	GetWaiverByUser(ctx context.Context, userID string) (*models.Waiver, error)
	HasSignedWaiver(ctx context.Context, userID string) (bool, error)

	// Session operations
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, sid string) (*models.Session, error)
	DeleteSession(ctx context.Context, sid string) error
	DeleteSessionsByUser(ctx context.Context, userID string) (int64, error)
}
