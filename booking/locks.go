package booking

import "sync"

// productLocks serializes check-then-create per product so two concurrent
// bookings for the same product cannot both pass the conflict check.
// One entry per product ever booked; the catalog is small enough that
// entries are never evicted.
type productLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *productLocks) get(productID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[productID] = l
	}
	return l
}
