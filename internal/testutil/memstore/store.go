// Package memstore is an in-memory stand-in for the PostgreSQL repositories, used by
// usecase and service tests. Transactions are serialized and roll back on error.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	bookingRepo "github.com/m04kA/SMC-AccommodationService/internal/infra/storage/booking"
	bedspaceRepo "github.com/m04kA/SMC-AccommodationService/internal/infra/storage/bedspace"
	premisesRepo "github.com/m04kA/SMC-AccommodationService/internal/infra/storage/premises"
	voidsRepo "github.com/m04kA/SMC-AccommodationService/internal/infra/storage/voids"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

type txKey struct{}

// Store holds all tables. Zero value is not usable, call New.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	premises  map[int64]domain.Premises
	bedspaces map[int64]domain.Bedspace
	bookings  map[int64]*domain.Booking
	voids     map[int64]*domain.VoidPeriod
	nextID    int64
	clock     time.Time

	// Fail makes the named operation return the error once
	Fail map[string]error
}

func New() *Store {
	return &Store{
		premises:  make(map[int64]domain.Premises),
		bedspaces: make(map[int64]domain.Bedspace),
		bookings:  make(map[int64]*domain.Booking),
		voids:     make(map[int64]*domain.VoidPeriod),
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Fail:      make(map[string]error),
	}
}

func (s *Store) AddPremises(p domain.Premises) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.premises[p.ID] = p
}

func (s *Store) AddBedspace(b domain.Bedspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.premises[b.PremisesID]; ok {
		if p.EndDate != nil && (b.EndDate == nil || p.EndDate.Before(*b.EndDate)) {
			end := *p.EndDate
			b.EndDate = &end
		}
		b.PremisesTurnaroundWorkingDays = p.TurnaroundWorkingDays
	}
	s.bedspaces[b.ID] = b
}

// Booking returns a copy of the stored booking.
func (s *Store) Booking(id int64) (*domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, false
	}
	return cloneBooking(b), true
}

// AllBookings returns copies ordered by id.
func (s *Store) AllBookings() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, *cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Void returns a copy of the stored void.
func (s *Store) Void(id int64) (*domain.VoidPeriod, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voids[id]
	if !ok {
		return nil, false
	}
	return cloneVoid(v), true
}

// PutBooking stores b as is, records included.
func (s *Store) PutBooking(b domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID > s.nextID {
		s.nextID = b.ID
	}
	if b.Version == 0 {
		b.Version = 1
	}
	s.bookings[b.ID] = cloneBooking(&b)
}

// PutVoid stores v as is.
func (s *Store) PutVoid(v domain.VoidPeriod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID > s.nextID {
		s.nextID = v.ID
	}
	s.voids[v.ID] = cloneVoid(&v)
}

func (s *Store) fail(op string) error {
	if err, ok := s.Fail[op]; ok {
		delete(s.Fail, op)
		return err
	}
	return nil
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) now() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// Tx is a serializing transaction manager over the store.
type Tx struct {
	s *Store
}

func (s *Store) Tx() *Tx { return &Tx{s: s} }

func (t *Tx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

func (t *Tx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

func (t *Tx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

func (t *Tx) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snapshot := t.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.s.restore(snapshot)
		return err
	}
	return nil
}

type state struct {
	bookings map[int64]*domain.Booking
	voids    map[int64]*domain.VoidPeriod
	premises map[int64]domain.Premises
	nextID   int64
}

func (s *Store) snapshot() state {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := state{
		bookings: make(map[int64]*domain.Booking, len(s.bookings)),
		voids:    make(map[int64]*domain.VoidPeriod, len(s.voids)),
		premises: make(map[int64]domain.Premises, len(s.premises)),
		nextID:   s.nextID,
	}
	for id, b := range s.bookings {
		st.bookings[id] = cloneBooking(b)
	}
	for id, v := range s.voids {
		st.voids[id] = cloneVoid(v)
	}
	for id, p := range s.premises {
		st.premises[id] = p
	}
	return st
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = st.bookings
	s.voids = st.voids
	s.premises = st.premises
	s.nextID = st.nextID
}

// Bookings is the booking repository view.
func (s *Store) Bookings() *Bookings { return &Bookings{s: s} }

// Bedspaces is the bedspace repository view.
func (s *Store) Bedspaces() *Bedspaces { return &Bedspaces{s: s} }

// Voids is the void repository view.
func (s *Store) Voids() *Voids { return &Voids{s: s} }

// Premises is the premises repository view.
func (s *Store) Premises() *Premises { return &Premises{s: s} }

type Bookings struct{ s *Store }

func (r *Bookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Create"); err != nil {
		return nil, err
	}
	b.ID = r.s.id()
	b.Version = 1
	b.CreatedAt = r.s.now()
	b.UpdatedAt = b.CreatedAt
	r.s.bookings[b.ID] = cloneBooking(b)
	return b, nil
}

func (r *Bookings) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *Bookings) ListActiveByBedspaces(_ context.Context, ids []int64, rng domain.DateRange, lookbackDays int) ([]domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("ListActiveByBedspaces"); err != nil {
		return nil, err
	}
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	from := rng.Start.AddDate(0, 0, -lookbackDays)
	out := make([]domain.Booking, 0)
	for _, b := range r.s.bookings {
		if !wanted[b.BedspaceID] || b.IsCancelled() {
			continue
		}
		if b.ArrivalDate.After(rng.End) || b.DepartureDate.Before(from) {
			continue
		}
		out = append(out, *cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Bookings) Update(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Update"); err != nil {
		return err
	}
	stored, ok := r.s.bookings[b.ID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if stored.Version != b.Version {
		return fmt.Errorf("%w: booking %d at version %d", bookingRepo.ErrVersionConflict, b.ID, b.Version)
	}
	stored.ArrivalDate = b.ArrivalDate
	stored.DepartureDate = b.DepartureDate
	stored.Status = b.Status
	stored.Version++
	stored.UpdatedAt = r.s.now()
	b.Version = stored.Version
	b.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *Bookings) record(op string, meta *domain.RecordMeta, apply func(b *domain.Booking)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(op); err != nil {
		return err
	}
	b, ok := r.s.bookings[meta.BookingID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	meta.ID = r.s.id()
	meta.CreatedAt = r.s.now()
	apply(b)
	return nil
}

func (r *Bookings) AddArrival(_ context.Context, a *domain.Arrival) error {
	return r.record("AddArrival", &a.RecordMeta, func(b *domain.Booking) { b.Arrivals = append(b.Arrivals, *a) })
}

func (r *Bookings) AddDeparture(_ context.Context, d *domain.Departure) error {
	return r.record("AddDeparture", &d.RecordMeta, func(b *domain.Booking) { b.Departures = append(b.Departures, *d) })
}

func (r *Bookings) AddCancellation(_ context.Context, c *domain.Cancellation) error {
	return r.record("AddCancellation", &c.RecordMeta, func(b *domain.Booking) { b.Cancellations = append(b.Cancellations, *c) })
}

func (r *Bookings) AddNonArrival(_ context.Context, n *domain.NonArrival) error {
	r.s.mu.Lock()
	b, ok := r.s.bookings[n.BookingID]
	dup := ok && b.NonArrival != nil
	r.s.mu.Unlock()
	if dup {
		return bookingRepo.ErrDuplicateRecord
	}
	return r.record("AddNonArrival", &n.RecordMeta, func(b *domain.Booking) { na := *n; b.NonArrival = &na })
}

func (r *Bookings) AddConfirmation(_ context.Context, c *domain.Confirmation) error {
	r.s.mu.Lock()
	b, ok := r.s.bookings[c.BookingID]
	dup := ok && b.Confirmation != nil
	r.s.mu.Unlock()
	if dup {
		return bookingRepo.ErrDuplicateRecord
	}
	return r.record("AddConfirmation", &c.RecordMeta, func(b *domain.Booking) { cf := *c; b.Confirmation = &cf })
}

func (r *Bookings) AddExtension(_ context.Context, e *domain.Extension) error {
	return r.record("AddExtension", &e.RecordMeta, func(b *domain.Booking) { b.Extensions = append(b.Extensions, *e) })
}

func (r *Bookings) AddTurnaround(_ context.Context, t *domain.Turnaround) error {
	return r.record("AddTurnaround", &t.RecordMeta, func(b *domain.Booking) { b.Turnarounds = append(b.Turnarounds, *t) })
}

type Bedspaces struct{ s *Store }

func (r *Bedspaces) GetByID(_ context.Context, id int64) (*domain.Bedspace, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bedspaces[id]
	if !ok {
		return nil, bedspaceRepo.ErrBedspaceNotFound
	}
	return &b, nil
}

func (r *Bedspaces) ListByIDs(_ context.Context, ids []int64) ([]domain.Bedspace, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Bedspace, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.s.bedspaces[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

type Voids struct{ s *Store }

func (r *Voids) Create(_ context.Context, v *domain.VoidPeriod) (*domain.VoidPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("CreateVoid"); err != nil {
		return nil, err
	}
	v.ID = r.s.id()
	v.CreatedAt = r.s.now()
	r.s.voids[v.ID] = cloneVoid(v)
	return v, nil
}

func (r *Voids) GetByID(_ context.Context, id int64) (*domain.VoidPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.voids[id]
	if !ok {
		return nil, voidsRepo.ErrVoidNotFound
	}
	return cloneVoid(v), nil
}

func (r *Voids) ListActiveByBedspaces(_ context.Context, ids []int64, rng domain.DateRange) ([]domain.VoidPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]domain.VoidPeriod, 0)
	for _, v := range r.s.voids {
		if !wanted[v.BedspaceID] || !v.IsActive() || !v.Range().Overlaps(rng) {
			continue
		}
		out = append(out, *cloneVoid(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Voids) AddCancellation(_ context.Context, c *domain.VoidCancellation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.voids[c.VoidID]
	if !ok {
		return voidsRepo.ErrVoidNotFound
	}
	if v.Cancellation != nil {
		return voidsRepo.ErrAlreadyCancelled
	}
	c.ID = r.s.id()
	c.CreatedAt = r.s.now()
	cc := *c
	v.Cancellation = &cc
	return nil
}

type Premises struct{ s *Store }

func (r *Premises) GetByID(_ context.Context, id int64) (*domain.Premises, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.premises[id]
	if !ok {
		return nil, premisesRepo.ErrPremisesNotFound
	}
	return &p, nil
}

func (r *Premises) UpdateTurnaround(_ context.Context, id int64, workingDays *int) (*domain.Premises, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.premises[id]
	if !ok {
		return nil, premisesRepo.ErrPremisesNotFound
	}
	p.TurnaroundWorkingDays = workingDays
	p.UpdatedAt = r.s.now()
	r.s.premises[id] = p
	for bid, b := range r.s.bedspaces {
		if b.PremisesID == id {
			b.PremisesTurnaroundWorkingDays = workingDays
			r.s.bedspaces[bid] = b
		}
	}
	return &p, nil
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.Arrivals = append([]domain.Arrival(nil), b.Arrivals...)
	c.Departures = append([]domain.Departure(nil), b.Departures...)
	c.Cancellations = append([]domain.Cancellation(nil), b.Cancellations...)
	c.Extensions = append([]domain.Extension(nil), b.Extensions...)
	c.Turnarounds = append([]domain.Turnaround(nil), b.Turnarounds...)
	if b.NonArrival != nil {
		na := *b.NonArrival
		c.NonArrival = &na
	}
	if b.Confirmation != nil {
		cf := *b.Confirmation
		c.Confirmation = &cf
	}
	return &c
}

func cloneVoid(v *domain.VoidPeriod) *domain.VoidPeriod {
	c := *v
	if v.Cancellation != nil {
		cc := *v.Cancellation
		c.Cancellation = &cc
	}
	return &c
}
