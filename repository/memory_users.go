package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func userMatches(q UserQuery, u models.User) bool {
	if q.Search == "" {
		return true
	}
	return containsFold(u.Name, q.Search) || containsFold(u.Email, q.Search) || containsFold(u.Phone, q.Search)
}

func (s *MemoryStore) InsertUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.users, func(u models.User) bool { return u.Email == user.Email }) {
		return ErrDuplicate
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStore) GetUser(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStore) ListUsers(_ context.Context, q UserQuery, page Page) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := newestFirstIndexes(s.users,
		func(u models.User) int64 { return u.CreatedAt.UnixNano() },
		func(u models.User) bool { return userMatches(q, u) },
	)
	users := []models.User{}
	for _, i := range paginate(idx, page) {
		users = append(users, s.users[i])
	}
	return users, nil
}

func (s *MemoryStore) CountUsers(_ context.Context, q UserQuery) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, u := range s.users {
		if userMatches(q, u) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ReplaceUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.users, func(u models.User) bool { return u.ID == user.ID })
	if i < 0 {
		return ErrNotFound
	}
	s.users[i] = user
	return nil
}

type attemptWindow struct {
	count     int
	expiresAt time.Time
}

// MemoryAttempts is a per-process attempt counter.
type MemoryAttempts struct {
	mu      sync.Mutex
	windows map[string]attemptWindow
	now     func() time.Time
}

func NewMemoryAttempts() *MemoryAttempts {
	return &MemoryAttempts{windows: make(map[string]attemptWindow), now: now}
}

func (m *MemoryAttempts) HitAttempt(_ context.Context, key string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.now()
	w, ok := m.windows[key]
	if !ok || !current.Before(w.expiresAt) {
		w = attemptWindow{expiresAt: current.Add(window)}
	}
	w.count++
	m.windows[key] = w

	// drop lapsed windows so the map stays bounded by active clients
	for k, other := range m.windows {
		if !current.Before(other.expiresAt) {
			delete(m.windows, k)
		}
	}
	return w.count, nil
}

func (m *MemoryAttempts) ResetAttempts(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, key)
	return nil
}
