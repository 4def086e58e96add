// Package ticketid hands out process-wide unique ticket numbers.
package ticketid

import (
	"sync"

	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

// Start is the first ID handed out when storage holds no tickets
const Start = 1000

// Allocator is a monotonic ticket ID counter
type Allocator struct {
	mu   sync.Mutex
	next int
}

// New creates an allocator seeded at Start
func New() *Allocator {
	return &Allocator{next: Start}
}

// FromUsers creates an allocator that continues past every ticket the
// users already hold
func FromUsers(users []models.User) *Allocator {
	a := New()
	for _, u := range users {
		for _, t := range u.Tickets {
			a.Observe(t.ID)
		}
	}
	return a
}

// Observe records an ID read back from storage so it is never reissued
func (a *Allocator) Observe(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id >= a.next {
		a.next = id + 1
	}
}

// Next returns the current counter value and advances it
func (a *Allocator) Next() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.next
	a.next++
	return id
}

// Peek returns the value the next call to Next will return
func (a *Allocator) Peek() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next
}
