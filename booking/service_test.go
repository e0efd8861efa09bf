package booking_test

import (
	"context"
	"testing"
	"time"

	"peakgear/booking"
	"peakgear/models"
	"peakgear/store"
)

// memStore is an in-memory booking.Store for exercising the service
// without MongoDB. FindBookingsInRange applies the same inclusive-overlap
// rule as the Mongo query, via booking.Overlaps.
type memStore struct {
	signed   map[string]bool
	products map[string]*models.Product
	bookings map[string]*models.Booking
}

func newMemStore() *memStore {
	return &memStore{
		signed:   make(map[string]bool),
		products: make(map[string]*models.Product),
		bookings: make(map[string]*models.Booking),
	}
}

func (m *memStore) HasSignedWaiver(_ context.Context, userID string) (bool, error) {
	return m.signed[userID], nil
}

func (m *memStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) FindBookingsInRange(_ context.Context, productID, startDate, endDate string) ([]models.Booking, error) {
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

func (m *memStore) CreateBooking(_ context.Context, b *models.Booking) error {
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) UpdateBooking(_ context.Context, b *models.Booking) error {
	if _, ok := m.bookings[b.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestService(m *memStore) *booking.Service {
	return booking.NewService(m, booking.Config{
		StandardDeliveryFee: "49.99",
		ExtendedDeliveryFee: "89.99",
		Now:                 fixedNow,
	})
}

func seedProduct(m *memStore, id string) {
	m.products[id] = &models.Product{
		ID:              id,
		Name:            "Thule Motion XT XXL",
		Category:        models.CategoryCargoBox,
		DailyRate:       "25.00",
		SecurityDeposit: "300.00",
		Available:       true,
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"disjoint before", "2024-07-01", "2024-07-05", "2024-07-06", "2024-07-08", false},
		{"shared boundary day", "2024-07-01", "2024-07-05", "2024-07-05", "2024-07-06", true},
		{"contained", "2024-07-01", "2024-07-10", "2024-07-03", "2024-07-04", true},
		{"identical", "2024-07-01", "2024-07-05", "2024-07-01", "2024-07-05", true},
		{"disjoint after", "2024-07-06", "2024-07-08", "2024-07-01", "2024-07-05", false},
		{"one-day ranges touching", "2024-07-05", "2024-07-05", "2024-07-05", "2024-07-05", true},
	}
	for _, c := range cases {
		if got := booking.Overlaps(c.s1, c.e1, c.s2, c.e2); got != c.want {
			t.Errorf("%s: Overlaps(%s,%s,%s,%s) = %v; want %v", c.name, c.s1, c.e1, c.s2, c.e2, got, c.want)
		}
	}
}

func TestCreate_WaiverRequired(t *testing.T) {
	m := newMemStore()
	seedProduct(m, "p1")
	svc := newTestService(m)

	// Rejected on the waiver gate even with nonsense dates: the gate
	// is checked first.
	_, err := svc.Create(context.Background(), "u1", booking.CreateInput{
		ProductID:      "p1",
		StartDate:      "not-a-date",
		EndDate:        "also-not",
		DeliveryOption: models.DeliveryPickup,
	})
	if booking.Code(err) != booking.ErrWaiverRequired {
		t.Fatalf("got %v; want WAIVER_REQUIRED", err)
	}
}

func TestCreate_InvalidDates(t *testing.T) {
	m := newMemStore()
	m.signed["u1"] = true
	seedProduct(m, "p1")
	svc := newTestService(m)

	cases := []struct {
		name       string
		start, end string
	}{
		{"malformed start", "06/10/2024", "2024-06-12"},
		{"malformed end", "2024-06-10", "June 12"},
		{"end before start", "2024-06-12", "2024-06-10"},
		{"start in the past", "2024-05-20", "2024-06-10"},
	}
	for _, c := range cases {
		_, err := svc.Create(context.Background(), "u1", booking.CreateInput{
			ProductID:      "p1",
			StartDate:      c.start,
			EndDate:        c.end,
			DeliveryOption: models.DeliveryPickup,
		})
		if booking.Code(err) != booking.ErrInvalidDateRange {
			t.Errorf("%s: got %v; want INVALID_DATE_RANGE", c.name, err)
		}
	}
}

func TestCreate_ProductMissingOrDelisted(t *testing.T) {
	m := newMemStore()
	m.signed["u1"] = true
	seedProduct(m, "p1")
	m.products["p1"].Available = false
	svc := newTestService(m)

	in := booking.CreateInput{
		ProductID:      "nope",
		StartDate:      "2024-06-10",
		EndDate:        "2024-06-12",
		DeliveryOption: models.DeliveryPickup,
	}
	if _, err := svc.Create(context.Background(), "u1", in); booking.Code(err) != booking.ErrProductNotFound {
		t.Errorf("missing product: got %v; want PRODUCT_NOT_FOUND", err)
	}

	in.ProductID = "p1"
	if _, err := svc.Create(context.Background(), "u1", in); booking.Code(err) != booking.ErrProductNotFound {
		t.Errorf("delisted product: got %v; want PRODUCT_NOT_FOUND", err)
	}
}

func TestCreate_CostPickup(t *testing.T) {
	m := newMemStore()
	m.signed["u1"] = true
	seedProduct(m, "p1")
	svc := newTestService(m)

	// 2024-06-01..2024-06-03 inclusive is 3 days at 25.00/day
	b, err := svc.Create(context.Background(), "u1", booking.CreateInput{
		ProductID:      "p1",
		StartDate:      "2024-06-01",
		EndDate:        "2024-06-03",
		DeliveryOption: models.DeliveryPickup,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.TotalCost != "75.00" {
		t.Errorf("TotalCost = %s; want 75.00", b.TotalCost)
	}
	if b.DeliveryFee != "0.00" {
		t.Errorf("DeliveryFee = %s; want 0.00", b.DeliveryFee)
	}
	if b.Status != models.StatusPending || b.PaymentStatus != models.PaymentPending {
		t.Errorf("new booking is %s/%s; want pending/pending", b.Status, b.PaymentStatus)
	}
}

func TestCreate_CostStandardDelivery(t *testing.T) {
	m := newMemStore()
	m.signed["u1"] = true
	seedProduct(m, "p1")
	svc := newTestService(m)

	b, err := svc.Create(context.Background(), "u1", booking.CreateInput{
		ProductID:      "p1",
		StartDate:      "2024-06-01",
		EndDate:        "2024-06-03",
		DeliveryOption: models.DeliveryStandard,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.DeliveryFee != "49.99" {
		t.Errorf("DeliveryFee = %s; want 49.99", b.DeliveryFee)
	}
	if b.TotalCost != "124.99" {
		t.Errorf("TotalCost = %s; want 124.99", b.TotalCost)
	}
}

func TestCreate_OneDayRental(t *testing.T) {
	m := newMemStore()
	m.signed["u1"] = true
	seedProduct(m, "p1")
	svc := newTestService(m)

	b, err := svc.Create(context.Background(), "u1", booking.CreateInput{
		ProductID:      "p1",
		StartDate:      "2024-06-15",
		EndDate:        "2024-06-15",
		DeliveryOption: models.DeliveryPickup,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.TotalCost != "25.00" {
		t.Errorf("one-day rental TotalCost = %s; want 25.00", b.TotalCost)
	}
}

func TestCreate_ConflictBoundary(t *testing.T) {
	m := newMemStore()
	m.signed["u1"] = true
	m.signed["u2"] = true
	seedProduct(m, "p1")
	svc := newTestService(m)

	if _, err := svc.Create(context.Background(), "u1", booking.CreateInput{
		ProductID:      "p1",
		StartDate:      "2024-07-01",
		EndDate:        "2024-07-05",
		DeliveryOption: models.DeliveryPickup,
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	// Ending and starting on the same day conflict: no same-day turnover
	_, err := svc.Create(context.Background(), "u2", booking.CreateInput{
		ProductID:      "p1",
		StartDate:      "2024-07-05",
		EndDate:        "2024-07-06",
		DeliveryOption: models.DeliveryPickup,
	})
	if booking.Code(err) != booking.ErrProductUnavailable {
		t.Fatalf("boundary overlap: got %v; want PRODUCT_UNAVAILABLE", err)
	}

	if _, err := svc.Create(context.Background(), "u2", booking.CreateInput{
		ProductID:      "p1",
		StartDate:      "2024-07-06",
		EndDate:        "2024-07-08",
		DeliveryOption: models.DeliveryPickup,
	}); err != nil {
		t.Fatalf("adjacent range should be free: %v", err)
	}
}

func TestCreate_CancelledBookingFreesSlot(t *testing.T) {
	m := newMemStore()
	m.signed["u1"] = true
	seedProduct(m, "p1")
	svc := newTestService(m)

	b, err := svc.Create(context.Background(), "u1", booking.CreateInput{
		ProductID:      "p1",
		StartDate:      "2024-07-01",
		EndDate:        "2024-07-05",
		DeliveryOption: models.DeliveryPickup,
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	m.bookings[b.ID].Status = models.StatusCancelled

	if _, err := svc.Create(context.Background(), "u1", booking.CreateInput{
		ProductID:      "p1",
		StartDate:      "2024-07-03",
		EndDate:        "2024-07-04",
		DeliveryOption: models.DeliveryPickup,
	}); err != nil {
		t.Fatalf("cancelled booking should not block: %v", err)
	}
}

func TestCreate_SerializedNoOverlapInvariant(t *testing.T) {
	m := newMemStore()
	m.signed["u1"] = true
	seedProduct(m, "p1")
	svc := newTestService(m)

	ranges := [][2]string{
		{"2024-07-01", "2024-07-03"},
		{"2024-07-02", "2024-07-04"}, // conflicts with the first
		{"2024-07-04", "2024-07-06"},
		{"2024-07-05", "2024-07-05"}, // conflicts with the third
		{"2024-07-07", "2024-07-10"},
	}
	for _, r := range ranges {
		svc.Create(context.Background(), "u1", booking.CreateInput{
			ProductID:      "p1",
			StartDate:      r[0],
			EndDate:        r[1],
			DeliveryOption: models.DeliveryPickup,
		})
	}

	var kept []*models.Booking
	for _, b := range m.bookings {
		if b.Status != models.StatusCancelled {
			kept = append(kept, b)
		}
	}
	if len(kept) != 3 {
		t.Fatalf("got %d bookings; want 3", len(kept))
	}
	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			if booking.Overlaps(kept[i].StartDate, kept[i].EndDate, kept[j].StartDate, kept[j].EndDate) {
				t.Errorf("bookings [%s,%s] and [%s,%s] overlap",
					kept[i].StartDate, kept[i].EndDate, kept[j].StartDate, kept[j].EndDate)
			}
		}
	}
}

func TestCheckout(t *testing.T) {
	m := newMemStore()
	m.signed["u1"] = true
	seedProduct(m, "p1")
	svc := newTestService(m)

	b, err := svc.Create(context.Background(), "u1", booking.CreateInput{
		ProductID:      "p1",
		StartDate:      "2024-06-01",
		EndDate:        "2024-06-03",
		DeliveryOption: models.DeliveryStandard,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Checkout(context.Background(), "someone-else", b.ID); booking.Code(err) != booking.ErrNotOwner {
		t.Errorf("stranger checkout: got %v; want NOT_OWNER", err)
	}

	result, err := svc.Checkout(context.Background(), "u1", b.ID)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	// Persisted total excludes the deposit; the checkout amount includes it
	if result.RentalAndDeliveryCost != "124.99" {
		t.Errorf("RentalAndDeliveryCost = %s; want 124.99", result.RentalAndDeliveryCost)
	}
	if result.PayableAtCheckout != "424.99" {
		t.Errorf("PayableAtCheckout = %s; want 424.99", result.PayableAtCheckout)
	}
	if result.Booking.Status != models.StatusConfirmed || result.Booking.PaymentStatus != models.PaymentPaid {
		t.Errorf("after checkout booking is %s/%s; want confirmed/paid",
			result.Booking.Status, result.Booking.PaymentStatus)
	}
	if stored := m.bookings[b.ID]; stored.TotalCost != "124.99" {
		t.Errorf("stored TotalCost = %s; deposit must not be folded in", stored.TotalCost)
	}

	if _, err := svc.Checkout(context.Background(), "u1", b.ID); booking.Code(err) != booking.ErrAlreadyPaid {
		t.Errorf("second checkout: got %v; want ALREADY_PAID", err)
	}
}

func TestUpdate_Authorization(t *testing.T) {
	m := newMemStore()
	m.signed["u1"] = true
	seedProduct(m, "p1")
	svc := newTestService(m)

	b, err := svc.Create(context.Background(), "u1", booking.CreateInput{
		ProductID:      "p1",
		StartDate:      "2024-06-10",
		EndDate:        "2024-06-12",
		DeliveryOption: models.DeliveryPickup,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	owner := &models.User{ID: "u1"}
	admin := &models.User{ID: "a1", IsAdmin: true}
	stranger := &models.User{ID: "u2"}

	confirmed := models.StatusConfirmed
	notes := "leave at the side door"

	if _, err := svc.Update(context.Background(), stranger, b.ID, booking.UpdateInput{Notes: &notes}); booking.Code(err) != booking.ErrNotOwner {
		t.Errorf("stranger update: got %v; want NOT_OWNER", err)
	}
	if _, err := svc.Update(context.Background(), owner, b.ID, booking.UpdateInput{Status: &confirmed}); booking.Code(err) != booking.ErrForbiddenField {
		t.Errorf("owner status change: got %v; want FORBIDDEN_FIELD", err)
	}
	updated, err := svc.Update(context.Background(), owner, b.ID, booking.UpdateInput{Notes: &notes})
	if err != nil {
		t.Fatalf("owner notes update: %v", err)
	}
	if updated.Notes != notes {
		t.Errorf("Notes = %q; want %q", updated.Notes, notes)
	}

	if _, err := svc.Update(context.Background(), admin, b.ID, booking.UpdateInput{Status: &confirmed}); err != nil {
		t.Fatalf("admin pending->confirmed: %v", err)
	}

	completed := models.StatusCompleted
	if _, err := svc.Update(context.Background(), admin, b.ID, booking.UpdateInput{Status: &completed}); booking.Code(err) != booking.ErrInvalidTransition {
		t.Errorf("confirmed->completed: got %v; want INVALID_TRANSITION", err)
	}
}
