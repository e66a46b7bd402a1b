// Package memory provides in-process implementations of the repository
// stores. Data lives for the lifetime of the process only.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
	"github.com/yusufkecer/fittrack-backend/internal/repository"
)

// New returns a fresh set of empty in-memory stores.
func New() repository.Stores {
	users := &UserStore{byID: map[string]domain.User{}}
	return repository.Stores{
		Users:       users,
		ResetTokens: &ResetTokenStore{users: users},
		Workouts:    &WorkoutStore{c: newCollection(cloneWorkout)},
		Meals:       &MealStore{c: newCollection(cloneMeal)},
		Progress:    &ProgressStore{c: newCollection(func(p domain.Progress) domain.Progress { return p })},
		Reminders:   &ReminderStore{c: newCollection(cloneReminder)},
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// collection is an owner-scoped map of records. Values are cloned on the way
// in and out so callers never share slices with the store.
type collection[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	owner map[string]string
	clone func(T) T
}

func newCollection[T any](clone func(T) T) *collection[T] {
	return &collection[T]{
		items: map[string]T{},
		owner: map[string]string{},
		clone: clone,
	}
}

func (c *collection[T]) put(userID, id string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[id] = c.clone(v)
	c.owner[id] = userID
}

func (c *collection[T]) get(userID, id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	if c.owner[id] != userID {
		return zero, false
	}
	v, ok := c.items[id]
	if !ok {
		return zero, false
	}
	return c.clone(v), true
}

// replace overwrites an existing owned record and reports whether it existed.
func (c *collection[T]) replace(userID, id string, v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok || c.owner[id] != userID {
		return false
	}
	c.items[id] = c.clone(v)
	return true
}

func (c *collection[T]) remove(userID, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok || c.owner[id] != userID {
		return false
	}
	delete(c.items, id)
	delete(c.owner, id)
	return true
}

// filter returns clones of the user's records accepted by keep.
func (c *collection[T]) filter(userID string, keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []T{}
	for id, v := range c.items {
		if c.owner[id] != userID {
			continue
		}
		if keep == nil || keep(v) {
			out = append(out, c.clone(v))
		}
	}
	return out
}

func paginate[T any](items []T, p domain.Page) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+p.Limit, len(items))
	return items[start:end]
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

type UserStore struct {
	mu   sync.RWMutex
	byID map[string]domain.User
}

var _ repository.UserStore = (*UserStore)(nil)

func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = now()
	s.byID[u.ID] = *u
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byID {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *UserStore) Update(_ context.Context, u *domain.User) error {
	return s.modify(u.ID, func(stored *domain.User) {
		stored.Name = u.Name
		stored.Avatar = u.Avatar
		stored.Profile = u.Profile
		stored.Settings = u.Settings
	})
}

func (s *UserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return s.modify(id, func(stored *domain.User) { stored.PasswordHash = passwordHash })
}

func (s *UserStore) UpdateWeight(_ context.Context, id string, weight float64) error {
	return s.modify(id, func(stored *domain.User) { stored.Profile.Weight = weight })
}

func (s *UserStore) SetWearableUserID(_ context.Context, id string, wearableUserID *string) error {
	return s.modify(id, func(stored *domain.User) {
		if wearableUserID == nil {
			stored.WearableUserID = nil
			return
		}
		v := *wearableUserID
		stored.WearableUserID = &v
	})
}

// modify applies fn to the stored user. Unknown ids are ignored, matching an
// UPDATE that matches no rows.
func (s *UserStore) modify(id string, fn func(*domain.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil
	}
	fn(&u)
	s.byID[id] = u
	return nil
}

type ResetTokenStore struct {
	mu     sync.Mutex
	nextID int64
	tokens []domain.PasswordResetToken
	users  repository.UserStore
}

var _ repository.ResetTokenStore = (*ResetTokenStore)(nil)

func (s *ResetTokenStore) Create(_ context.Context, userID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.tokens = append(s.tokens, domain.PasswordResetToken{
		ID:        s.nextID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
	return nil
}

func (s *ResetTokenStore) GetValid(ctx context.Context, email, token string, now time.Time) (*domain.PasswordResetToken, error) {
	if s.users == nil {
		return nil, nil
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.tokens) - 1; i >= 0; i-- {
		t := s.tokens[i]
		if t.UserID == u.ID && t.Token == token && !t.Used && t.ExpiresAt.After(now) {
			return &t, nil
		}
	}
	return nil, nil
}

func (s *ResetTokenStore) MarkUsed(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tokens {
		if s.tokens[i].ID == id {
			s.tokens[i].Used = true
		}
	}
	return nil
}

func (s *ResetTokenStore) DeleteByUserID(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = slices.DeleteFunc(s.tokens, func(t domain.PasswordResetToken) bool {
		return t.UserID == userID
	})
	return nil
}

type WorkoutStore struct {
	c *collection[domain.Workout]
}

var _ repository.WorkoutStore = (*WorkoutStore)(nil)

func (s *WorkoutStore) Create(_ context.Context, w *domain.Workout) error {
	w.ID = uuid.NewString()
	w.CreatedAt = now()
	w.UpdatedAt = w.CreatedAt
	s.c.put(w.UserID, w.ID, *w)
	return nil
}

func (s *WorkoutStore) Get(_ context.Context, userID, id string) (*domain.Workout, error) {
	w, ok := s.c.get(userID, id)
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (s *WorkoutStore) List(_ context.Context, userID string, f domain.WorkoutFilter) ([]domain.Workout, int, error) {
	items := s.c.filter(userID, func(w domain.Workout) bool {
		return (f.Type == "" || w.Type == f.Type) && inRange(w.CompletedAt, f.From, f.To)
	})
	slices.SortStableFunc(items, func(a, b domain.Workout) int { return b.CompletedAt.Compare(a.CompletedAt) })
	return paginate(items, f.Page), len(items), nil
}

func (s *WorkoutStore) Since(_ context.Context, userID string, since time.Time) ([]domain.Workout, error) {
	items := s.c.filter(userID, func(w domain.Workout) bool { return !w.CompletedAt.Before(since) })
	slices.SortStableFunc(items, func(a, b domain.Workout) int { return a.CompletedAt.Compare(b.CompletedAt) })
	return items, nil
}

func (s *WorkoutStore) FindSynced(_ context.Context, userID string, completedAt time.Time) (*domain.Workout, error) {
	items := s.c.filter(userID, func(w domain.Workout) bool {
		return w.Source == domain.SourceWearable && w.CompletedAt.Equal(completedAt)
	})
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *WorkoutStore) Update(_ context.Context, w *domain.Workout) error {
	w.UpdatedAt = now()
	s.c.replace(w.UserID, w.ID, *w)
	return nil
}

func (s *WorkoutStore) Delete(_ context.Context, userID, id string) (bool, error) {
	return s.c.remove(userID, id), nil
}

type MealStore struct {
	c *collection[domain.Meal]
}

var _ repository.MealStore = (*MealStore)(nil)

func (s *MealStore) Create(_ context.Context, m *domain.Meal) error {
	m.ID = uuid.NewString()
	m.CreatedAt = now()
	m.UpdatedAt = m.CreatedAt
	s.c.put(m.UserID, m.ID, *m)
	return nil
}

func (s *MealStore) Get(_ context.Context, userID, id string) (*domain.Meal, error) {
	m, ok := s.c.get(userID, id)
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *MealStore) List(_ context.Context, userID string, f domain.MealFilter) ([]domain.Meal, int, error) {
	items := s.c.filter(userID, func(m domain.Meal) bool {
		return (f.Type == "" || m.Type == f.Type) && inRange(m.Date, f.From, f.To)
	})
	slices.SortStableFunc(items, func(a, b domain.Meal) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return paginate(items, f.Page), len(items), nil
}

func (s *MealStore) Between(_ context.Context, userID string, from, to time.Time) ([]domain.Meal, error) {
	items := s.c.filter(userID, func(m domain.Meal) bool { return inRange(m.Date, &from, &to) })
	slices.SortStableFunc(items, func(a, b domain.Meal) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Type, b.Type)
	})
	return items, nil
}

func (s *MealStore) Favorites(_ context.Context, userID string) ([]domain.Meal, error) {
	items := s.c.filter(userID, func(m domain.Meal) bool { return m.IsFavorite })
	slices.SortStableFunc(items, func(a, b domain.Meal) int { return strings.Compare(a.Name, b.Name) })
	return items, nil
}

func (s *MealStore) Update(_ context.Context, m *domain.Meal) error {
	m.UpdatedAt = now()
	s.c.replace(m.UserID, m.ID, *m)
	return nil
}

func (s *MealStore) Delete(_ context.Context, userID, id string) (bool, error) {
	return s.c.remove(userID, id), nil
}

type ProgressStore struct {
	c *collection[domain.Progress]
}

var _ repository.ProgressStore = (*ProgressStore)(nil)

func (s *ProgressStore) Create(_ context.Context, p *domain.Progress) error {
	p.ID = uuid.NewString()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	s.c.put(p.UserID, p.ID, *p)
	return nil
}

func (s *ProgressStore) Get(_ context.Context, userID, id string) (*domain.Progress, error) {
	p, ok := s.c.get(userID, id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *ProgressStore) List(_ context.Context, userID string, page domain.Page) ([]domain.Progress, int, error) {
	items := s.c.filter(userID, nil)
	slices.SortStableFunc(items, func(a, b domain.Progress) int { return b.Date.Compare(a.Date) })
	return paginate(items, page), len(items), nil
}

func (s *ProgressStore) Since(_ context.Context, userID string, since time.Time) ([]domain.Progress, error) {
	items := s.c.filter(userID, func(p domain.Progress) bool { return !p.Date.Before(since) })
	slices.SortStableFunc(items, func(a, b domain.Progress) int { return a.Date.Compare(b.Date) })
	return items, nil
}

func (s *ProgressStore) Update(_ context.Context, p *domain.Progress) error {
	p.UpdatedAt = now()
	s.c.replace(p.UserID, p.ID, *p)
	return nil
}

func (s *ProgressStore) Delete(_ context.Context, userID, id string) (bool, error) {
	return s.c.remove(userID, id), nil
}

type ReminderStore struct {
	c *collection[domain.Reminder]
}

var _ repository.ReminderStore = (*ReminderStore)(nil)

func (s *ReminderStore) Create(_ context.Context, r *domain.Reminder) error {
	r.ID = uuid.NewString()
	r.CreatedAt = now()
	r.UpdatedAt = r.CreatedAt
	s.c.put(r.UserID, r.ID, *r)
	return nil
}

func (s *ReminderStore) Get(_ context.Context, userID, id string) (*domain.Reminder, error) {
	r, ok := s.c.get(userID, id)
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *ReminderStore) List(_ context.Context, userID string, active *bool) ([]domain.Reminder, error) {
	items := s.c.filter(userID, func(r domain.Reminder) bool {
		return active == nil || r.IsActive == *active
	})
	slices.SortStableFunc(items, func(a, b domain.Reminder) int { return strings.Compare(a.Time, b.Time) })
	return items, nil
}

func (s *ReminderStore) Update(_ context.Context, r *domain.Reminder) error {
	r.UpdatedAt = now()
	s.c.replace(r.UserID, r.ID, *r)
	return nil
}

func (s *ReminderStore) Delete(_ context.Context, userID, id string) (bool, error) {
	return s.c.remove(userID, id), nil
}

func cloneWorkout(w domain.Workout) domain.Workout {
	w.Exercises = slices.Clone(w.Exercises)
	if w.Exercises == nil {
		w.Exercises = []domain.Exercise{}
	}
	return w
}

func cloneMeal(m domain.Meal) domain.Meal {
	m.Foods = slices.Clone(m.Foods)
	if m.Foods == nil {
		m.Foods = []domain.FoodItem{}
	}
	return m
}

func cloneReminder(r domain.Reminder) domain.Reminder {
	r.Days = slices.Clone(r.Days)
	if r.Days == nil {
		r.Days = []string{}
	}
	return r
}
