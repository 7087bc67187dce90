package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/radiusdt/roas-attribution/internal/models"
)

// InMemoryOrderStore provides in-memory storage for purchase actions.
// Used in tests and when PostgreSQL is unavailable.
type InMemoryOrderStore struct {
	mu      sync.RWMutex
	actions []models.Action
}

// NewInMemoryOrderStore creates a new in-memory order store.
func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{}
}

// AddAction appends an action record.
func (s *InMemoryOrderStore) AddAction(a models.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, a)
}

func (s *InMemoryOrderStore) ActionsInWindow(ctx context.Context, userID string, start, end int64) ([]models.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Action, 0)
	for _, a := range s.actions {
		if a.RoasUserID != userID {
			continue
		}
		if a.CreatedAtUnixTimestamp > start && a.CreatedAtUnixTimestamp < end {
			result = append(result, a)
		}
	}
	return result, nil
}

// InMemoryEventStore provides in-memory storage for ad events.
type InMemoryEventStore struct {
	mu     sync.RWMutex
	events []models.AdEvent
}

// NewInMemoryEventStore creates a new in-memory event store.
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{}
}

// AddEvent appends an event record.
func (s *InMemoryEventStore) AddEvent(e models.AdEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *InMemoryEventStore) EventsByIPv4(ctx context.Context, userID, ip string) ([]models.AdEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.AdEvent, 0)
	for _, e := range s.events {
		if e.RoasUserID == userID && e.IPv4 == ip {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *InMemoryEventStore) EventsByIPv6(ctx context.Context, userID, ip string) ([]models.AdEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.AdEvent, 0)
	for _, e := range s.events {
		if e.RoasUserID == userID && e.IPv6 == ip {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *InMemoryEventStore) EventsByField(ctx context.Context, field, value, userID string) ([]models.AdEvent, error) {
	switch field {
	case "ipv4":
		return s.EventsByIPv4(ctx, userID, value)
	case "ipv6":
		return s.EventsByIPv6(ctx, userID, value)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.AdEvent, 0)
	for _, e := range s.events {
		if e.RoasUserID != userID {
			continue
		}
		var match bool
		switch field {
		case "ad_id":
			match = e.AdID == value
		case "fb_ad_id":
			match = e.FBAdID == value
		case "h_ad_id":
			match = e.HAdID == value
		case "fb_id":
			match = e.FBID == value
		default:
			return nil, fmt.Errorf("unknown event field %q", field)
		}
		if match {
			result = append(result, e)
		}
	}
	return result, nil
}
