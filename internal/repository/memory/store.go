// Package memory is the in-process Store backend. It backs STORAGE=memory
// mode and the unit tests. Seat-level operations (ticket commit, hold
// create/expire, sweep) serialize on a per-(trip,seat) mutex so the
// commit path and the sweep share one exclusion scope.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type seatKey struct {
	tripID int64
	seat   string
}

type fareKey struct {
	routeID  int64
	from, to int
}

type Store struct {
	mu sync.RWMutex

	routes       map[int64]domain.Route
	stops        map[int64]domain.Stop
	stopsByRoute map[int64][]int64 // stop IDs in ord order
	buses        map[int64]domain.Bus
	seatsByBus   map[int64][]string
	trips        map[int64]domain.Trip
	users        map[int64]domain.User

	tickets       map[uuid.UUID]*domain.Ticket
	ticketsBySeat map[seatKey][]uuid.UUID
	holds         map[uuid.UUID]*domain.SeatHold
	holdBySeat    map[seatKey]uuid.UUID

	fares map[fareKey]int64

	nextID int64

	lockMu    sync.Mutex
	seatLocks map[seatKey]*sync.Mutex

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		routes:        make(map[int64]domain.Route),
		stops:         make(map[int64]domain.Stop),
		stopsByRoute:  make(map[int64][]int64),
		buses:         make(map[int64]domain.Bus),
		seatsByBus:    make(map[int64][]string),
		trips:         make(map[int64]domain.Trip),
		users:         make(map[int64]domain.User),
		tickets:       make(map[uuid.UUID]*domain.Ticket),
		ticketsBySeat: make(map[seatKey][]uuid.UUID),
		holds:         make(map[uuid.UUID]*domain.SeatHold),
		holdBySeat:    make(map[seatKey]uuid.UUID),
		fares:         make(map[fareKey]int64),
		seatLocks:     make(map[seatKey]*sync.Mutex),
		now:           time.Now,
	}
}

// SetClock replaces the store's time source. Tests use it to move holds
// past their expiry without sleeping.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) clock() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now
}

// seatLock returns the mutex guarding all mutations for one (trip, seat).
func (s *Store) seatLock(k seatKey) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	m, ok := s.seatLocks[k]
	if !ok {
		m = &sync.Mutex{}
		s.seatLocks[k] = m
	}

	return m
}

func (s *Store) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

// RunTx runs fn directly: every memory operation is atomic on its own,
// so there is no transaction to open.
func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) Catalog() repository.Catalog    { return &catalogRepo{s: s} }
func (s *Store) Admin() repository.CatalogAdmin { return &adminRepo{s: s} }
func (s *Store) Tickets() repository.Tickets    { return &ticketRepo{s: s} }
func (s *Store) Holds() repository.Holds        { return &holdRepo{s: s} }
func (s *Store) Fares() repository.FareRules    { return &fareRepo{s: s} }

var _ repository.Store = (*Store)(nil)
