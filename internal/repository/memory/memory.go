// Package memory keeps users, profiles, intervals and sessions in process
// memory. It is the store itself when storage is set to memory, so every
// operation runs under the one mutex the repositories share.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"presence/backend/internal/entity"
	"presence/backend/internal/pkg/apperr"
)

type DB struct {
	mu sync.Mutex

	nextUserID     int64
	nextEntranceID int64

	users     map[int64]entity.User
	employees map[int64]entity.Employee
	entrances []entity.Entrance
	open      map[int64]int
	sessions  map[string]sessionEntry
}

type sessionEntry struct {
	userID    int64
	expiresAt time.Time
}

func NewDB() *DB {
	return &DB{
		users:     make(map[int64]entity.User),
		employees: make(map[int64]entity.Employee),
		open:      make(map[int64]int),
		sessions:  make(map[string]sessionEntry),
	}
}

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r UserRepository) Create(_ context.Context, user entity.User) (entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == user.Username {
			return entity.User{}, apperr.ErrUsernameTaken
		}
	}

	r.db.nextUserID++
	user.ID = r.db.nextUserID
	user.CreatedAt = time.Now()
	r.db.users[user.ID] = user

	return user, nil
}

func (r UserRepository) GetByUsername(_ context.Context, username string) (entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == username {
			return u, nil
		}
	}

	return entity.User{}, entity.ErrUserNotFound
}

func (r UserRepository) GetByID(_ context.Context, id int64) (entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return entity.User{}, entity.ErrUserNotFound
	}

	return u, nil
}

type EmployeeRepository struct {
	db *DB
}

func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r EmployeeRepository) Get(_ context.Context, userID int64) (entity.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	e, ok := r.db.employees[userID]
	if !ok {
		return entity.Employee{}, apperr.ErrEmployeeNotFound
	}

	return e, nil
}

func (r EmployeeRepository) Create(_ context.Context, request entity.Employee) (entity.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.employees[request.UserID]; ok {
		return entity.Employee{}, apperr.ErrEmployeeExists
	}

	request.CreatedAt = time.Now()
	r.db.employees[request.UserID] = request

	return request, nil
}

func (r EmployeeRepository) Update(_ context.Context, request entity.Employee) (entity.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	current, ok := r.db.employees[request.UserID]
	if !ok {
		return entity.Employee{}, apperr.ErrEmployeeNotFound
	}

	current.Name = request.Name
	current.Title = request.Title
	current.CurrentTask = request.CurrentTask
	current.UpdatedAt = time.Now()
	r.db.employees[request.UserID] = current

	return current, nil
}

type AttendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r AttendanceRepository) OpenEntrance(_ context.Context, userID, enterTimestamp int64) (entity.Entrance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.open[userID]; ok {
		return entity.Entrance{}, apperr.ErrAlreadyPresent
	}

	r.db.nextEntranceID++
	detail := entity.Entrance{
		ID:             r.db.nextEntranceID,
		UserID:         userID,
		EnterTimestamp: enterTimestamp,
	}
	r.db.entrances = append(r.db.entrances, detail)
	r.db.open[userID] = len(r.db.entrances) - 1

	return detail, nil
}

func (r AttendanceRepository) CloseEntrance(_ context.Context, userID, leaveTimestamp int64) (entity.Entrance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	idx, ok := r.db.open[userID]
	if !ok {
		return entity.Entrance{}, apperr.ErrNotPresent
	}

	detail := r.db.entrances[idx]
	if leaveTimestamp < detail.EnterTimestamp {
		leaveTimestamp = detail.EnterTimestamp
	}
	detail.LeaveTimestamp = &leaveTimestamp
	r.db.entrances[idx] = detail
	delete(r.db.open, userID)

	return detail, nil
}

func (r AttendanceRepository) ListPresent(_ context.Context, excludeUserID int64) ([]entity.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	list := make([]entity.Employee, 0, len(r.db.open))
	for userID := range r.db.open {
		if userID == excludeUserID {
			continue
		}
		e, ok := r.db.employees[userID]
		if !ok {
			continue
		}
		list = append(list, e)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].UserID < list[j].UserID })

	return list, nil
}

// History returns every interval of userID in insertion order.
func (r AttendanceRepository) History(_ context.Context, userID int64) ([]entity.Entrance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var list []entity.Entrance
	for _, e := range r.db.entrances {
		if e.UserID == userID {
			list = append(list, e)
		}
	}

	return list, nil
}

type SessionStore struct {
	db  *DB
	now func() time.Time
}

func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

func (s SessionStore) Save(_ context.Context, id string, userID int64, ttl time.Duration) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.sessions[id] = sessionEntry{userID: userID, expiresAt: s.now().Add(ttl)}

	return nil
}

func (s SessionStore) Exists(_ context.Context, id string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	entry, ok := s.db.sessions[id]
	if !ok {
		return false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.db.sessions, id)
		return false, nil
	}

	return true, nil
}

func (s SessionStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.sessions, id)

	return nil
}
