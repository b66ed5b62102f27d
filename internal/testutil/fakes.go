package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/djprofessorkash/pet-emporium-project/internal/model"
	"github.com/djprofessorkash/pet-emporium-project/internal/repository"
	"github.com/djprofessorkash/pet-emporium-project/internal/session"
)

// FakeStore is a mutex-guarded in-memory stand-in for the repository.
// It returns the same sentinel errors so handler error mapping is
// exercised for real.
type FakeStore struct {
	mu        sync.RWMutex
	users     map[int64]*model.User
	dogs      map[int64]*model.Dog
	adoptions map[int64]*model.Adoption
	nextID    int64
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		users:     make(map[int64]*model.User),
		dogs:      make(map[int64]*model.Dog),
		adoptions: make(map[int64]*model.Adoption),
	}
}

func (s *FakeStore) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

// CreateUser inserts a user, enforcing username uniqueness.
func (s *FakeStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}

	user.ID = s.nextIDLocked()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// GetUserByID loads a user by ID.
func (s *FakeStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByUsername loads a user by exact username.
func (s *FakeStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// CreateDog inserts a dog.
func (s *FakeStore) CreateDog(ctx context.Context, dog *model.Dog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dog.ID = s.nextIDLocked()
	copied := *dog
	s.dogs[dog.ID] = &copied
	return nil
}

// GetDogByID loads a dog by ID.
func (s *FakeStore) GetDogByID(ctx context.Context, id int64) (*model.Dog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dog, ok := s.dogs[id]
	if !ok {
		return nil, repository.ErrDogNotFound
	}
	copied := *dog
	return &copied, nil
}

// ListDogs returns all dogs ordered by ID.
func (s *FakeStore) ListDogs(ctx context.Context) ([]*model.Dog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var maxID int64
	for id := range s.dogs {
		if id > maxID {
			maxID = id
		}
	}

	var dogs []*model.Dog
	for id := int64(1); id <= maxID; id++ {
		if dog, ok := s.dogs[id]; ok {
			copied := *dog
			dogs = append(dogs, &copied)
		}
	}
	return dogs, nil
}

// UpdateDog persists an already-loaded dog.
func (s *FakeStore) UpdateDog(ctx context.Context, dog *model.Dog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dogs[dog.ID]; !ok {
		return repository.ErrDogNotFound
	}
	copied := *dog
	s.dogs[dog.ID] = &copied
	return nil
}

// DeleteDog removes a dog by ID.
func (s *FakeStore) DeleteDog(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dogs[id]; !ok {
		return repository.ErrDogNotFound
	}
	delete(s.dogs, id)
	return nil
}

// CreateAdoption records a dog-user association.
func (s *FakeStore) CreateAdoption(ctx context.Context, adoption *model.Adoption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	adoption.ID = s.nextIDLocked()
	copied := *adoption
	s.adoptions[adoption.ID] = &copied
	return nil
}

// Adoptions returns a snapshot of all recorded adoptions.
func (s *FakeStore) Adoptions() []*model.Adoption {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var adoptions []*model.Adoption
	for _, adoption := range s.adoptions {
		copied := *adoption
		adoptions = append(adoptions, &copied)
	}
	return adoptions
}

// TruncateAll wipes all data.
func (s *FakeStore) TruncateAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int64]*model.User)
	s.dogs = make(map[int64]*model.Dog)
	s.adoptions = make(map[int64]*model.Adoption)
	return nil
}

// Ping always succeeds.
func (s *FakeStore) Ping(ctx context.Context) error {
	return nil
}

// FakeSessions is an in-memory stand-in for the Redis session store.
// It mirrors the null-sentinel logout semantics: Clear keeps the token
// but drops the user behind it.
type FakeSessions struct {
	mu       sync.Mutex
	sessions map[string]int64
	attempts map[string]int

	// AttemptLimit caps CheckAuthRateLimit when > 0.
	AttemptLimit int

	counter int64
}

// NewFakeSessions creates an empty FakeSessions.
func NewFakeSessions() *FakeSessions {
	return &FakeSessions{
		sessions: make(map[string]int64),
		attempts: make(map[string]int),
	}
}

// Create opens a session and returns its token.
func (s *FakeSessions) Create(ctx context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	token := fmt.Sprintf("fake-session-%d", s.counter)
	s.sessions[token] = userID
	return token, nil
}

// Get resolves a token to its user ID.
func (s *FakeSessions) Get(ctx context.Context, token string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.sessions[token]
	if !ok || userID == 0 {
		return 0, false, nil
	}
	return userID, true, nil
}

// Clear nulls out the user behind a token without removing the key.
func (s *FakeSessions) Clear(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = 0
	return nil
}

// Renew is a no-op; the fake does not track expiry.
func (s *FakeSessions) Renew(ctx context.Context, token string) error {
	return nil
}

// CheckAuthRateLimit counts attempts per client and enforces
// AttemptLimit when set.
func (s *FakeSessions) CheckAuthRateLimit(ctx context.Context, clientIP string, perMinute int) (*session.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[clientIP]++
	limit := s.AttemptLimit
	if limit <= 0 {
		limit = perMinute
	}
	if limit > 0 && s.attempts[clientIP] > limit {
		return &session.RateLimitResult{Allowed: false}, nil
	}
	return &session.RateLimitResult{Allowed: true}, nil
}

// Ping always succeeds.
func (s *FakeSessions) Ping(ctx context.Context) error {
	return nil
}
