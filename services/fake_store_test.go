package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"pawcare-backend/models"
	"pawcare-backend/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

// memStore keeps every table in maps and applies the same rules as the gorm store.
type memStore struct {
	mu         sync.Mutex
	pricings   map[uuid.UUID]models.ServicePricing
	pets       map[uuid.UUID]models.Pet
	addresses  map[uuid.UUID]models.Address
	groomers   map[uuid.UUID]models.Groomer
	bookings   map[uuid.UUID]models.Booking
	slots      []models.Slot
	txns       []models.Transaction
	challenges []models.OtpChallenge
}

func newMemStore() *memStore {
	return &memStore{
		pricings:  map[uuid.UUID]models.ServicePricing{},
		pets:      map[uuid.UUID]models.Pet{},
		addresses: map[uuid.UUID]models.Address{},
		groomers:  map[uuid.UUID]models.Groomer{},
		bookings:  map[uuid.UUID]models.Booking{},
	}
}

func quietLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func (m *memStore) addPricing(price, taxRate string) models.ServicePricing {
	p := models.ServicePricing{
		ID:        uuid.New(),
		ServiceID: uuid.New(),
		Level:     "standard",
		Price:     decimal.RequireFromString(price),
		TaxRate:   decimal.RequireFromString(taxRate),
	}
	m.pricings[p.ID] = p
	return p
}

func (m *memStore) addPet(customerID uuid.UUID) models.Pet {
	p := models.Pet{ID: uuid.New(), CustomerID: customerID, Name: "Bruno", Status: true}
	m.pets[p.ID] = p
	return p
}

func (m *memStore) addAddress(customerID uuid.UUID) models.Address {
	a := models.Address{ID: uuid.New(), CustomerID: customerID, Line1: "12 MG Road", City: "Pune", Status: true}
	m.addresses[a.ID] = a
	return a
}

func (m *memStore) addGroomer(active bool) models.Groomer {
	g := models.Groomer{ID: uuid.New(), Name: "Asha", Email: uuid.NewString() + "@example.com", IsActive: active}
	m.groomers[g.ID] = g
	return g
}

func (m *memStore) addBooking(b models.Booking) models.Booking {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = models.BookingScheduled
	}
	m.bookings[b.ID] = b
	return b
}

// gone reports whether b was soft deleted. gorm hides such rows from every query.
func gone(b models.Booking) bool {
	return b.DeletedAt.Valid
}

func isActive(status string) bool {
	return status == models.BookingScheduled || status == models.BookingInProgress
}

func (m *memStore) PricingsByIDs(_ context.Context, ids []uuid.UUID) ([]models.ServicePricing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ServicePricing
	for _, id := range ids {
		if p, ok := m.pricings[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) FindCustomerPet(_ context.Context, customerID, petID uuid.UUID) (*models.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pets[petID]
	if !ok || p.CustomerID != customerID {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) FindCustomerAddress(_ context.Context, customerID, addressID uuid.UUID) (*models.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.addresses[addressID]
	if !ok || a.CustomerID != customerID {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (m *memStore) CreateBookings(_ context.Context, pet *models.Pet, bookings []models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pet != nil {
		m.pets[pet.ID] = *pet
	}
	for i := range bookings {
		bookings[i].ID = uuid.New()
		m.bookings[bookings[i].ID] = bookings[i]
	}
	return nil
}

func (m *memStore) FindBooking(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || gone(b) {
		return nil, store.ErrNotFound
	}
	if b.GroomerID != nil {
		if g, ok := m.groomers[*b.GroomerID]; ok {
			b.Groomer = &g
		}
	}
	return &b, nil
}

func (m *memStore) RescheduleBooking(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.bookings[b.ID]
	if !ok || gone(cur) || cur.Status != models.BookingScheduled {
		return store.ErrNotFound
	}
	next := *b
	next.GroomerID = nil
	next.StartOtpHash = ""
	next.EndOtpHash = ""
	m.bookings[b.ID] = next
	return nil
}

func (m *memStore) ListBookings(_ context.Context, q store.BookingQuery) ([]models.Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []models.Booking
	for _, b := range m.bookings {
		if gone(b) {
			continue
		}
		if q.CustomerID != nil && b.CustomerID != *q.CustomerID {
			continue
		}
		if q.GroomerID != nil && (b.GroomerID == nil || *b.GroomerID != *q.GroomerID) {
			continue
		}
		if len(q.Statuses) > 0 && !contains(q.Statuses, b.Status) {
			continue
		}
		rows = append(rows, b)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].AppointmentTimeSlot, rows[j].AppointmentTimeSlot
		return a != nil && (b == nil || a.After(*b))
	})
	total := int64(len(rows))
	if q.Offset >= len(rows) {
		return []models.Booking{}, total, nil
	}
	rows = rows[q.Offset:]
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows, total, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (m *memStore) TransactionsForBookings(_ context.Context, ids []uuid.UUID) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.txns {
		for _, id := range ids {
			if t.BookingID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (m *memStore) CancelBooking(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || gone(b) || b.Status != models.BookingScheduled {
		return store.ErrNotFound
	}
	b.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	m.bookings[id] = b
	return nil
}

func (m *memStore) FindGroomer(_ context.Context, id uuid.UUID) (*models.Groomer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groomers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &g, nil
}

// AssignGroomer matches the SQL BETWEEN used by the gorm store, both ends inclusive.
func (m *memStore) AssignGroomer(_ context.Context, bookingID, groomerID uuid.UUID, from, to time.Time, startHash, endHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groomers[groomerID]; !ok {
		return store.ErrNotFound
	}
	for id, b := range m.bookings {
		if id == bookingID || gone(b) || b.GroomerID == nil || *b.GroomerID != groomerID || b.AppointmentTimeSlot == nil {
			continue
		}
		at := *b.AppointmentTimeSlot
		if !at.Before(from) && !at.After(to) {
			return store.ErrScheduleConflict
		}
	}
	b, ok := m.bookings[bookingID]
	if !ok || gone(b) {
		return store.ErrNotFound
	}
	gid := groomerID
	b.GroomerID = &gid
	b.StartOtpHash = startHash
	b.EndOtpHash = endHash
	m.bookings[bookingID] = b
	return nil
}

func (m *memStore) MarkStarted(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || gone(b) {
		return store.ErrNotFound
	}
	b.Status = models.BookingInProgress
	b.StartTime = &at
	m.bookings[id] = b
	return nil
}

func (m *memStore) MarkCompleted(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || gone(b) {
		return store.ErrNotFound
	}
	b.Status = models.BookingCompleted
	b.EndTime = &at
	m.bookings[id] = b
	return nil
}

func (m *memStore) ListSlots(_ context.Context) ([]models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.Slot(nil), m.slots...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *memStore) CreateSlot(_ context.Context, slot *models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.slots {
		if s.Slot == slot.Slot {
			return store.ErrDuplicate
		}
	}
	slot.ID = uuid.New()
	m.slots = append(m.slots, *slot)
	return nil
}

func (m *memStore) CountActiveGroomers(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, g := range m.groomers {
		if g.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountBookingsBetween(_ context.Context, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.bookings {
		if gone(b) || b.AppointmentTimeSlot == nil {
			continue
		}
		at := *b.AppointmentTimeSlot
		if !at.Before(from) && at.Before(to) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ReplaceChallenge(_ context.Context, c *models.OtpChallenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.challenges {
		ch := &m.challenges[i]
		if ch.Key() == c.Key() && ch.ConsumedAt == nil && ch.InvalidatedAt == nil {
			at := c.SentAt
			ch.InvalidatedAt = &at
		}
	}
	c.ID = uuid.New()
	m.challenges = append(m.challenges, *c)
	return nil
}

func (m *memStore) LiveChallenges(_ context.Context, key models.OtpKey, now time.Time) ([]models.OtpChallenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OtpChallenge
	for _, c := range m.challenges {
		if c.Key() == key && c.Live(now) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out, nil
}

func (m *memStore) ConsumeChallenge(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.challenges {
		c := &m.challenges[i]
		if c.ID != id {
			continue
		}
		if c.ConsumedAt != nil || c.InvalidatedAt != nil {
			return false, nil
		}
		c.ConsumedAt = &at
		return true, nil
	}
	return false, nil
}

func (m *memStore) CountChallengesSince(_ context.Context, key models.OtpKey, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.challenges {
		if c.Key() == key && !c.SentAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreatePayment(_ context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[t.BookingID]
	if !ok || gone(b) {
		return store.ErrNotFound
	}
	paid := decimal.Zero
	for _, existing := range m.txns {
		if existing.BookingID == t.BookingID && existing.Status == models.TransactionCompleted {
			paid = paid.Add(existing.Amount)
		}
	}
	if paid.Add(t.Amount).GreaterThan(b.Total) {
		return store.ErrPaymentExceedsTotal
	}
	t.ID = uuid.New()
	m.txns = append(m.txns, *t)
	return nil
}

func (m *memStore) ListPayments(_ context.Context, bookingID uuid.UUID) ([]models.Transaction, error) {
	return m.TransactionsForBookings(context.Background(), []uuid.UUID{bookingID})
}

func (m *memStore) ListAddresses(_ context.Context, customerID uuid.UUID) ([]models.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Address
	for _, a := range m.addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) CreateAddress(_ context.Context, a *models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	m.addresses[a.ID] = *a
	return nil
}

func (m *memStore) UpdateAddress(_ context.Context, a *models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.addresses[a.ID]; !ok {
		return store.ErrNotFound
	}
	m.addresses[a.ID] = *a
	return nil
}

func (m *memStore) DeleteAddress(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.addresses[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.addresses, id)
	return nil
}

func (m *memStore) CountActiveBookingsForAddress(_ context.Context, addressID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.bookings {
		if !gone(b) && b.AddressID == addressID && isActive(b.Status) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListPets(_ context.Context, customerID uuid.UUID) ([]models.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Pet
	for _, p := range m.pets {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) CreatePet(_ context.Context, p *models.Pet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	m.pets[p.ID] = *p
	return nil
}

func (m *memStore) UpdatePet(_ context.Context, p *models.Pet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pets[p.ID]; !ok {
		return store.ErrNotFound
	}
	m.pets[p.ID] = *p
	return nil
}

func (m *memStore) DeletePet(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pets[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.pets, id)
	return nil
}

// CountActiveBookingsForPet counts the booking's main pet and every pet on its service lines.
func (m *memStore) CountActiveBookingsForPet(_ context.Context, petID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.bookings {
		if gone(b) || !isActive(b.Status) {
			continue
		}
		if b.PetID == petID || lineHasPet(b.Lines, petID) {
			n++
		}
	}
	return n, nil
}

func lineHasPet(lines []models.BookingService, petID uuid.UUID) bool {
	for _, l := range lines {
		for _, p := range l.Pets {
			if p.PetID == petID {
				return true
			}
		}
	}
	return false
}

// recorder captures outgoing mail and events.
type recorder struct {
	mu     sync.Mutex
	mails  []string
	sms    []string
	events []string
}

func (r *recorder) SendMail(_ context.Context, to, subject, _, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mails = append(r.mails, to+": "+subject)
	return nil
}

func (r *recorder) SendSMS(_ context.Context, to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sms = append(r.sms, to+": "+body)
	return nil
}

func (r *recorder) PublishJSON(_ context.Context, key string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, key)
	return nil
}
