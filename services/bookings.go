package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"pawcare-backend/models"
	"pawcare-backend/store"
	"pawcare-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type BookingStore interface {
	PricingsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServicePricing, error)
	FindCustomerPet(ctx context.Context, customerID, petID uuid.UUID) (*models.Pet, error)
	FindCustomerAddress(ctx context.Context, customerID, addressID uuid.UUID) (*models.Address, error)
	CreateBookings(ctx context.Context, pet *models.Pet, bookings []models.Booking) error
	FindBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	RescheduleBooking(ctx context.Context, b *models.Booking) error
	ListBookings(ctx context.Context, q store.BookingQuery) ([]models.Booking, int64, error)
	TransactionsForBookings(ctx context.Context, ids []uuid.UUID) ([]models.Transaction, error)
	CancelBooking(ctx context.Context, id uuid.UUID) error
	FindGroomer(ctx context.Context, id uuid.UUID) (*models.Groomer, error)
	AssignGroomer(ctx context.Context, bookingID, groomerID uuid.UUID, from, to time.Time, startHash, endHash string) error
	MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
}

type BookingConfig struct {
	Location  *time.Location
	OtpPepper string
}

type BookingService struct {
	store  BookingStore
	mail   Mailer
	events EventPublisher
	cfg    BookingConfig
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewBookingService(store BookingStore, mail Mailer, events EventPublisher, cfg BookingConfig, log logrus.FieldLogger) *BookingService {
	return &BookingService{store: store, mail: mail, events: events, cfg: cfg, log: log, now: time.Now}
}

type CreateBookingInput struct {
	PetID                uuid.UUID          `json:"pet_id" binding:"required"`
	AddressID            uuid.UUID          `json:"address_id" binding:"required"`
	ServicePricingID     uuid.UUID          `json:"service_pricing_id"`
	AddonServiceIDs      []uuid.UUID        `json:"addon_service_ids"`
	Services             []ServiceLineInput `json:"services" binding:"omitempty,dive"`
	AppointmentTimeSlots []time.Time        `json:"appointment_time_slots"`
	Notes                string             `json:"notes"`
	PaymentMethod        string             `json:"payment_method"`
	Nature               *string            `json:"nature"`
	HealthIssues         *string            `json:"health_issues"`
}

type UpdateBookingInput struct {
	PetID               uuid.UUID          `json:"pet_id" binding:"required"`
	AddressID           uuid.UUID          `json:"address_id" binding:"required"`
	ServicePricingID    uuid.UUID          `json:"service_pricing_id"`
	AddonServiceIDs     []uuid.UUID        `json:"addon_service_ids"`
	Services            []ServiceLineInput `json:"services" binding:"omitempty,dive"`
	AppointmentTimeSlot *time.Time         `json:"appointment_time_slot"`
	Notes               string             `json:"notes"`
	PaymentMethod       string             `json:"payment_method"`
}

type ListFilter struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
	Type   string `form:"type"`
	Search string `form:"search"`
}

type Pagination struct {
	TotalRecords int64 `json:"totalRecords"`
	CurrentPage  int   `json:"currentPage"`
	PerPage      int   `json:"perPage"`
	TotalPages   int   `json:"totalPages"`
}

type BookingPage struct {
	Bookings   []models.Booking
	Pagination Pagination
}

// Create books one appointment per requested slot, or a single multi-service
// booking when service lines are given. All rows share one order id.
func (s *BookingService) Create(ctx context.Context, session utils.Session, in CreateBookingInput) ([]models.Booking, error) {
	ctx, span := tracer.Start(ctx, "bookings.create")
	defer span.End()

	customerID, err := customerIDOf(session)
	if err != nil {
		return nil, err
	}
	if len(in.AppointmentTimeSlots) == 0 {
		return nil, invalid("At least one appointment slot is required")
	}
	if len(in.Services) > 0 && len(in.AppointmentTimeSlots) > 1 {
		return nil, invalid("Multi-service bookings take exactly one appointment slot")
	}
	for _, slot := range in.AppointmentTimeSlots {
		if slot.IsZero() {
			return nil, invalid("Appointment slot is invalid")
		}
	}

	pet, err := s.ownedPetAndAddress(ctx, customerID, in.PetID, in.AddressID)
	if err != nil {
		return nil, err
	}

	template, err := s.price(ctx, customerID, bookingDraft{
		PetID:            in.PetID,
		AddressID:        in.AddressID,
		ServicePricingID: in.ServicePricingID,
		AddonPricingIDs:  in.AddonServiceIDs,
		Services:         in.Services,
	})
	if err != nil {
		return nil, err
	}
	template.OrderID = utils.GenerateOrderID()
	template.Status = models.BookingScheduled
	template.Notes = in.Notes
	template.PaymentMethod = in.PaymentMethod

	bookings := make([]models.Booking, 0, len(in.AppointmentTimeSlots))
	for _, slot := range in.AppointmentTimeSlots {
		b := template
		at := slot
		b.AppointmentTimeSlot = &at
		bookings = append(bookings, b)
	}

	var petUpdate *models.Pet
	if in.Nature != nil || in.HealthIssues != nil {
		petUpdate = pet
		if in.Nature != nil {
			petUpdate.Nature = *in.Nature
		}
		if in.HealthIssues != nil {
			petUpdate.HealthIssues = *in.HealthIssues
		}
	}

	if err := s.store.CreateBookings(ctx, petUpdate, bookings); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("pawcare.order_id", template.OrderID), attribute.Int("pawcare.bookings", len(bookings)))

	s.log.WithFields(logrus.Fields{
		"order_id":    template.OrderID,
		"customer_id": customerID,
		"bookings":    len(bookings),
	}).Info("booking created")

	for i := range bookings {
		s.publish(ctx, EventBookingCreated, &bookings[i])
	}
	s.sendConfirmation(ctx, bookings)
	return bookings, nil
}

func (s *BookingService) ownedPetAndAddress(ctx context.Context, customerID, petID, addressID uuid.UUID) (*models.Pet, error) {
	pet, err := s.store.FindCustomerPet(ctx, customerID, petID)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Pet not found")
		}
		return nil, err
	}
	if _, err := s.store.FindCustomerAddress(ctx, customerID, addressID); err != nil {
		if isNotFound(err) {
			return nil, notFound("Address not found")
		}
		return nil, err
	}
	return pet, nil
}

// Update reschedules a Scheduled booking owned by the caller. The groomer
// assignment and both OTPs are dropped so the booking must be assigned again.
func (s *BookingService) Update(ctx context.Context, session utils.Session, id uuid.UUID, in UpdateBookingInput) (*models.Booking, error) {
	ctx, span := tracer.Start(ctx, "bookings.update")
	defer span.End()
	span.SetAttributes(attribute.String("pawcare.booking_id", id.String()))

	customerID, err := customerIDOf(session)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.FindBooking(ctx, id)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing == nil || existing.CustomerID != customerID || existing.Status != models.BookingScheduled {
		return nil, notFound("Booking not found or not editable")
	}

	if _, err := s.ownedPetAndAddress(ctx, customerID, in.PetID, in.AddressID); err != nil {
		return nil, err
	}
	updated, err := s.price(ctx, customerID, bookingDraft{
		PetID:            in.PetID,
		AddressID:        in.AddressID,
		ServicePricingID: in.ServicePricingID,
		AddonPricingIDs:  in.AddonServiceIDs,
		Services:         in.Services,
	})
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.OrderID = existing.OrderID
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt
	updated.AppointmentTimeSlot = existing.AppointmentTimeSlot
	if in.AppointmentTimeSlot != nil {
		if in.AppointmentTimeSlot.IsZero() {
			return nil, invalid("Appointment slot is invalid")
		}
		updated.AppointmentTimeSlot = in.AppointmentTimeSlot
	}
	updated.Notes = in.Notes
	updated.PaymentMethod = in.PaymentMethod

	if err := s.store.RescheduleBooking(ctx, &updated); err != nil {
		if isNotFound(err) {
			return nil, notFound("Booking not found or not editable")
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"booking_id": id, "customer_id": customerID}).Info("booking updated")
	if existing.Groomer != nil {
		s.notifyUnassigned(ctx, existing.Groomer, existing)
	}
	s.publish(ctx, EventBookingUpdated, &updated)
	return &updated, nil
}

// statusesFor resolves the status and type filters. ok is false when the
// combination can match nothing.
func statusesFor(status, kind string) (statuses []string, ok bool, err error) {
	switch kind {
	case "":
	case "upcoming":
		statuses = []string{models.BookingScheduled, models.BookingInProgress}
	case "past":
		statuses = []string{models.BookingCompleted}
	default:
		return nil, false, invalid("Type must be upcoming or past")
	}
	if status == "" {
		return statuses, true, nil
	}
	switch status {
	case models.BookingScheduled, models.BookingInProgress, models.BookingCompleted:
	default:
		return nil, false, invalid("Invalid status filter")
	}
	if statuses == nil {
		return []string{status}, true, nil
	}
	for _, st := range statuses {
		if st == status {
			return []string{status}, true, nil
		}
	}
	return nil, false, nil
}

// List pages through the bookings visible to the caller. Upcoming and past
// are status based: a Scheduled booking from last week is still upcoming.
func (s *BookingService) List(ctx context.Context, session utils.Session, f ListFilter) (*BookingPage, error) {
	ctx, span := tracer.Start(ctx, "bookings.list")
	defer span.End()

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}

	q := store.BookingQuery{
		Search: strings.TrimSpace(f.Search),
		Offset: (f.Page - 1) * f.Limit,
		Limit:  f.Limit,
	}
	if err := s.scope(session, &q); err != nil {
		return nil, err
	}

	statuses, ok, err := statusesFor(f.Status, f.Type)
	if err != nil {
		return nil, err
	}
	page := &BookingPage{
		Bookings:   []models.Booking{},
		Pagination: Pagination{CurrentPage: f.Page, PerPage: f.Limit},
	}
	if !ok {
		return page, nil
	}
	q.Statuses = statuses

	rows, total, err := s.store.ListBookings(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.attach(ctx, rows); err != nil {
		return nil, err
	}
	page.Bookings = rows
	page.Pagination.TotalRecords = total
	page.Pagination.TotalPages = int(math.Ceil(float64(total) / float64(f.Limit)))
	return page, nil
}

func (s *BookingService) scope(session utils.Session, q *store.BookingQuery) error {
	switch {
	case utils.IsAdmin(session):
		return nil
	case utils.IsCustomer(session):
		id, err := customerIDOf(session)
		if err != nil {
			return err
		}
		q.CustomerID = &id
		return nil
	case utils.IsGroomer(session):
		id, ok := groomerIDOf(session)
		if !ok {
			return unauthorized("Invalid token")
		}
		q.GroomerID = &id
		return nil
	}
	return forbidden("You are not allowed to access this resource")
}

func visibleTo(session utils.Session, b *models.Booking) bool {
	switch {
	case utils.IsAdmin(session):
		return true
	case utils.IsCustomer(session):
		return b.CustomerID.String() == session.CustomerID
	case utils.IsGroomer(session):
		return b.GroomerID != nil && b.GroomerID.String() == session.UserID
	}
	return false
}

// attach loads transactions and add-on pricing rows for a page in two bulk
// queries and hangs them on each booking.
func (s *BookingService) attach(ctx context.Context, rows []models.Booking) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	var addonIDs []uuid.UUID
	for _, b := range rows {
		ids = append(ids, b.ID)
		for _, raw := range b.AddonServiceIDs {
			if id, err := uuid.Parse(raw); err == nil {
				addonIDs = append(addonIDs, id)
			}
		}
	}

	txns, err := s.store.TransactionsForBookings(ctx, ids)
	if err != nil {
		return err
	}
	byBooking := make(map[uuid.UUID][]models.Transaction, len(rows))
	for _, t := range txns {
		byBooking[t.BookingID] = append(byBooking[t.BookingID], t)
	}

	addons, err := s.store.PricingsByIDs(ctx, addonIDs)
	if err != nil {
		return err
	}
	addonByID := make(map[string]models.ServicePricing, len(addons))
	for _, a := range addons {
		addonByID[a.ID.String()] = a
	}

	for i := range rows {
		rows[i].Transactions = byBooking[rows[i].ID]
		for _, raw := range rows[i].AddonServiceIDs {
			if a, ok := addonByID[raw]; ok {
				rows[i].Addons = append(rows[i].Addons, a)
			}
		}
	}
	return nil
}

func (s *BookingService) Get(ctx context.Context, session utils.Session, id uuid.UUID) (*models.Booking, error) {
	b, err := s.store.FindBooking(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Booking not found")
		}
		return nil, err
	}
	if !visibleTo(session, b) {
		return nil, notFound("Booking not found")
	}
	rows := []models.Booking{*b}
	if err := s.attach(ctx, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// Delete cancels a Scheduled booking of the caller by soft deleting it.
func (s *BookingService) Delete(ctx context.Context, session utils.Session, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "bookings.delete")
	defer span.End()

	customerID, err := customerIDOf(session)
	if err != nil {
		return err
	}
	b, err := s.store.FindBooking(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return notFound("Booking not found")
		}
		return err
	}
	if b.CustomerID != customerID {
		return notFound("Booking not found")
	}
	if b.Status != models.BookingScheduled {
		return conflict("Only scheduled bookings can be cancelled")
	}
	if err := s.store.CancelBooking(ctx, id); err != nil {
		if isNotFound(err) {
			return notFound("Booking not found")
		}
		return err
	}

	s.log.WithFields(logrus.Fields{"booking_id": id, "customer_id": customerID}).Info("booking cancelled")
	if b.Groomer != nil {
		s.notifyUnassigned(ctx, b.Groomer, b)
	}
	s.publish(ctx, EventBookingCancelled, b)
	return nil
}

func (s *BookingService) publish(ctx context.Context, key string, b *models.Booking) {
	if s.events == nil {
		return
	}
	ev := BookingEvent{
		BookingID:  b.ID.String(),
		OrderID:    b.OrderID,
		CustomerID: b.CustomerID.String(),
		Status:     b.Status,
		At:         s.now().UTC().Format(time.RFC3339),
	}
	if b.GroomerID != nil {
		ev.GroomerID = b.GroomerID.String()
	}
	if err := s.events.PublishJSON(ctx, key, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"event": key, "booking_id": b.ID}).Warn("publish booking event")
	}
}

func (s *BookingService) formatSlot(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.In(s.cfg.Location).Format("Mon, 02 Jan 2006 15:04")
}

func (s *BookingService) sendConfirmation(ctx context.Context, bookings []models.Booking) {
	if s.mail == nil || len(bookings) == 0 {
		return
	}
	customerID := bookings[0].CustomerID
	full, err := s.store.FindBooking(ctx, bookings[0].ID)
	if err != nil || full.Customer == nil || full.Customer.Email == "" {
		s.log.WithField("customer_id", customerID).Debug("no customer email, skipping confirmation")
		return
	}

	var lines []string
	for _, b := range bookings {
		lines = append(lines, fmt.Sprintf("%s  total %s", s.formatSlot(b.AppointmentTimeSlot), b.Total.StringFixed(2)))
	}
	service := "grooming"
	if full.Service != nil {
		service = full.Service.Name
	}
	subject := fmt.Sprintf("Booking confirmed: order %s", bookings[0].OrderID)
	text := fmt.Sprintf("Hi %s,\n\nYour %s booking is confirmed.\n\n%s\n\nOrder %s",
		full.Customer.Name, service, strings.Join(lines, "\n"), bookings[0].OrderID)
	html := "<p>" + htmlLines(text) + "</p>"

	if err := s.mail.SendMail(ctx, full.Customer.Email, subject, text, html); err != nil {
		s.log.WithError(err).WithField("order_id", bookings[0].OrderID).Warn("booking confirmation email failed")
	}
}
