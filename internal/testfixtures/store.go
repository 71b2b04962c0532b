// Package testfixtures provides in-memory implementations of the repository
// interfaces for service and handler tests.
package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/repository"
)

// Store is a goroutine-safe in-memory store. Transactions are not rolled back.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]*domain.Account
	rooms        map[string]*domain.Room
	reservations map[string]*domain.Reservation
	history      []domain.ReservationHistory
	seq          int

	lockMu    sync.Mutex
	slotLocks map[string]*sync.Mutex

	// AfterOverlapCheck, when set, runs after every ExistsOverlapping call.
	AfterOverlapCheck func()
	// Unserialized makes WithinSlotLock skip locking, reproducing an unguarded store.
	Unserialized bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*domain.Account),
		rooms:        make(map[string]*domain.Room),
		reservations: make(map[string]*domain.Reservation),
		slotLocks:    make(map[string]*sync.Mutex),
	}
}

// Stores returns repositories backed by s.
func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Accounts:     accountRepo{s},
		Rooms:        roomRepo{s},
		Reservations: reservationRepo{s},
		History:      historyRepo{s},
	}
}

// WithinTx runs fn against the store.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, st repository.Stores) error) error {
	return fn(ctx, s.Stores())
}

// WithinSlotLock serializes fn per (room, date).
func (s *Store) WithinSlotLock(ctx context.Context, roomID string, date time.Time, fn func(ctx context.Context, st repository.Stores) error) error {
	if !s.Unserialized {
		lock := s.slotLock(repository.SlotKey(roomID, date))
		lock.Lock()
		defer lock.Unlock()
	}
	return fn(ctx, s.Stores())
}

func (s *Store) slotLock(key string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.slotLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.slotLocks[key] = lock
	}
	return lock
}

// AddRoom seeds a room and returns it.
func (s *Store) AddRoom(name string, capacity int, available bool) *domain.Room {
	room := &domain.Room{Name: name, Capacity: capacity, Available: available, Location: "Building A"}
	_ = roomRepo{s}.Create(context.Background(), room)
	return room
}

// AddAccount seeds an account and returns it.
func (s *Store) AddAccount(name, email string, role domain.Role, approved bool) *domain.Account {
	account := &domain.Account{Name: name, Email: email, Role: role, Approved: approved}
	_ = accountRepo{s}.Create(context.Background(), account)
	return account
}

// AddReservation seeds a reservation in the given status, bypassing admission.
func (s *Store) AddReservation(roomID, accountID string, date time.Time, start, end domain.Clock, status domain.ReservationStatus) *domain.Reservation {
	res := &domain.Reservation{RoomID: roomID, AccountID: accountID, Date: date, Start: start, End: end, Status: status}
	_ = reservationRepo{s}.Create(context.Background(), res)
	return res
}

// Reservation returns a copy of the stored reservation.
func (s *Store) Reservation(id string) (domain.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.reservations[id]
	if !ok {
		return domain.Reservation{}, false
	}
	return *res, true
}

// Account returns a copy of the stored account.
func (s *Store) Account(id string) (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, false
	}
	return *account, true
}

// Reservations returns copies of every stored reservation.
func (s *Store) Reservations() []domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reservation, 0, len(s.reservations))
	for _, res := range s.reservations {
		out = append(out, *res)
	}
	return out
}

func (s *Store) nextTime() time.Time {
	s.seq++
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Second)
}

type accountRepo struct{ s *Store }

func (r accountRepo) Create(_ context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account.Email = repository.NormalizeEmail(account.Email)
	for _, existing := range r.s.accounts {
		if existing.Email == account.Email {
			return domain.ErrDuplicateEmail
		}
	}
	account.ID = uuid.NewString()
	account.CreatedAt = r.s.nextTime()
	stored := *account
	r.s.accounts[account.ID] = &stored
	return nil
}

func (r accountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if account, ok := r.s.accounts[id]; ok {
		cp := *account
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r accountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = repository.NormalizeEmail(email)
	for _, account := range r.s.accounts {
		if account.Email == email {
			cp := *account
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r accountRepo) Approve(_ context.Context, ids []string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[string]struct{}, len(ids))
	n := 0
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if account, ok := r.s.accounts[id]; ok {
			account.Approved = true
			n++
		}
	}
	return n, nil
}

func (r accountRepo) ListPending(_ context.Context, limit int) ([]domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Account
	for _, account := range r.s.accounts {
		if !account.Approved {
			out = append(out, *account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r accountRepo) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.accounts), nil
}

func (r accountRepo) CountPending(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, account := range r.s.accounts {
		if !account.Approved {
			n++
		}
	}
	return n, nil
}

type roomRepo struct{ s *Store }

func (r roomRepo) Create(_ context.Context, room *domain.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room.ID = uuid.NewString()
	room.CreatedAt = r.s.nextTime()
	room.UpdatedAt = room.CreatedAt
	stored := *room
	r.s.rooms[room.ID] = &stored
	return nil
}

func (r roomRepo) Update(_ context.Context, room *domain.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.rooms[room.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	room.CreatedAt = existing.CreatedAt
	room.UpdatedAt = r.s.nextTime()
	stored := *room
	r.s.rooms[room.ID] = &stored
	return nil
}

func (r roomRepo) GetByID(_ context.Context, id string) (*domain.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if room, ok := r.s.rooms[id]; ok {
		cp := *room
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r roomRepo) SetAvailability(_ context.Context, id string, available bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return pgx.ErrNoRows
	}
	room.Available = available
	room.UpdatedAt = r.s.nextTime()
	return nil
}

func (r roomRepo) ListAvailable(ctx context.Context) ([]domain.Room, error) {
	all, _ := r.ListAll(ctx)
	var out []domain.Room
	for _, room := range all {
		if room.Available {
			out = append(out, room)
		}
	}
	return out, nil
}

func (r roomRepo) ListAll(_ context.Context) ([]domain.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Room, 0, len(r.s.rooms))
	for _, room := range r.s.rooms {
		out = append(out, *room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r roomRepo) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.rooms), nil
}

type reservationRepo struct{ s *Store }

func (r reservationRepo) Create(_ context.Context, res *domain.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res.ID = uuid.NewString()
	res.CreatedAt = r.s.nextTime()
	stored := *res
	r.s.reservations[res.ID] = &stored
	return nil
}

func (r reservationRepo) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if res, ok := r.s.reservations[id]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r reservationRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r reservationRepo) UpdateStatus(_ context.Context, res *domain.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.reservations[res.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Status = res.Status
	existing.ProcessedAt = res.ProcessedAt
	return nil
}

func (r reservationRepo) ExistsOverlapping(_ context.Context, q repository.ConflictQuery) (bool, error) {
	found := r.overlapping(q)
	if r.s.AfterOverlapCheck != nil {
		r.s.AfterOverlapCheck()
	}
	return found, nil
}

func (r reservationRepo) overlapping(q repository.ConflictQuery) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	date := domain.DateOf(q.Date, nil)
	for _, res := range r.s.reservations {
		if res.RoomID != q.RoomID || !domain.DateOf(res.Date, nil).Equal(date) {
			continue
		}
		if q.ExcludeID != nil && res.ID == *q.ExcludeID {
			continue
		}
		if !hasStatus(q.Statuses, res.Status) {
			continue
		}
		if res.Overlaps(q.Start, q.End) {
			return true
		}
	}
	return false
}

func (r reservationRepo) ListWithFilter(_ context.Context, filter repository.ReservationFilter) ([]domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Reservation
	for _, res := range r.s.reservations {
		if filter.AccountID != nil && res.AccountID != *filter.AccountID {
			continue
		}
		if filter.RoomID != nil && res.RoomID != *filter.RoomID {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, res.Status) {
			continue
		}
		out = append(out, *res)
	}
	earlier := func(a, b domain.Reservation) bool {
		return a.Date.Before(b.Date) || (a.Date.Equal(b.Date) && a.Start < b.Start)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.Oldest {
			return earlier(out[i], out[j])
		}
		return earlier(out[j], out[i])
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r reservationRepo) CountByStatus(_ context.Context, status domain.ReservationStatus) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, res := range r.s.reservations {
		if res.Status == status {
			n++
		}
	}
	return n, nil
}

type historyRepo struct{ s *Store }

func (r historyRepo) Create(_ context.Context, entry *domain.ReservationHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.CreatedAt = r.s.nextTime()
	r.s.history = append(r.s.history, *entry)
	return nil
}

func (r historyRepo) ListByReservation(_ context.Context, reservationID string) ([]domain.ReservationHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.ReservationHistory
	for _, entry := range r.s.history {
		if entry.ReservationID == reservationID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func hasStatus(statuses []domain.ReservationStatus, status domain.ReservationStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
