package store

import (
	"context"
	"fmt"
	"time"

	"pawcare-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activeStatuses = []string{models.BookingScheduled, models.BookingInProgress}

// BookingQuery scopes and filters a booking page. Nil ids mean no scope.
type BookingQuery struct {
	CustomerID *uuid.UUID
	GroomerID  *uuid.UUID
	Statuses   []string
	Search     string
	Offset     int
	Limit      int
}

func (s *Store) PricingsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServicePricing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.ServicePricing
	err := s.db.WithContext(ctx).Preload("Service").Where("id IN ?", ids).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load pricings: %w", err)
	}
	return rows, nil
}

func (s *Store) FindCustomerPet(ctx context.Context, customerID, petID uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	err := s.db.WithContext(ctx).Where("id = ? AND customer_id = ?", petID, customerID).First(&pet).Error
	if err != nil {
		return nil, translate(err)
	}
	return &pet, nil
}

func (s *Store) FindCustomerAddress(ctx context.Context, customerID, addressID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	err := s.db.WithContext(ctx).Where("id = ? AND customer_id = ?", addressID, customerID).First(&addr).Error
	if err != nil {
		return nil, translate(err)
	}
	return &addr, nil
}

// CreateBookings stores the pet care notes and every booking with its lines in
// one transaction. pet may be nil.
func (s *Store) CreateBookings(ctx context.Context, pet *models.Pet, bookings []models.Booking) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if pet != nil {
			err := tx.Model(&models.Pet{}).Where("id = ?", pet.ID).Updates(map[string]interface{}{
				"nature":        pet.Nature,
				"health_issues": pet.HealthIssues,
			}).Error
			if err != nil {
				return fmt.Errorf("update pet: %w", err)
			}
		}
		for i := range bookings {
			lines := bookings[i].Lines
			bookings[i].Lines = nil
			if err := tx.Omit(clause.Associations).Create(&bookings[i]).Error; err != nil {
				return fmt.Errorf("create booking: %w", err)
			}
			if err := insertLines(tx, bookings[i].ID, lines); err != nil {
				return err
			}
			bookings[i].Lines = lines
		}
		return nil
	})
}

func insertLines(tx *gorm.DB, bookingID uuid.UUID, lines []models.BookingService) error {
	for i := range lines {
		lines[i].BookingID = bookingID
		pets := lines[i].Pets
		lines[i].Pets = nil
		if err := tx.Omit(clause.Associations).Create(&lines[i]).Error; err != nil {
			return fmt.Errorf("create booking service: %w", err)
		}
		for j := range pets {
			pets[j].BookingServiceID = lines[i].ID
		}
		if len(pets) > 0 {
			if err := tx.Create(&pets).Error; err != nil {
				return fmt.Errorf("create booking service pets: %w", err)
			}
		}
		lines[i].Pets = pets
	}
	return nil
}

func (s *Store) FindBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Pet").
		Preload("Service").
		Preload("Pricing").
		Preload("Groomer").
		Preload("Address").
		Preload("Lines.Pets").
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// RescheduleBooking rewrites a Scheduled booking, drops the assignment and
// replaces its service lines wholesale.
func (s *Store) RescheduleBooking(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", b.ID, models.BookingScheduled).
			Updates(map[string]interface{}{
				"pet_id":                b.PetID,
				"service_id":            b.ServiceID,
				"service_pricing_id":    b.ServicePricingID,
				"address_id":            b.AddressID,
				"appointment_time_slot": b.AppointmentTimeSlot,
				"amount":                b.Amount,
				"tax":                   b.Tax,
				"total":                 b.Total,
				"addon_service_ids":     b.AddonServiceIDs,
				"notes":                 b.Notes,
				"payment_method":        b.PaymentMethod,
				"groomer_id":            nil,
				"start_otp_hash":        "",
				"end_otp_hash":          "",
			})
		if res.Error != nil {
			return fmt.Errorf("update booking: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		lineIDs := tx.Model(&models.BookingService{}).Select("id").Where("booking_id = ?", b.ID)
		if err := tx.Where("booking_service_id IN (?)", lineIDs).Delete(&models.BookingServicePet{}).Error; err != nil {
			return fmt.Errorf("delete booking service pets: %w", err)
		}
		if err := tx.Where("booking_id = ?", b.ID).Delete(&models.BookingService{}).Error; err != nil {
			return fmt.Errorf("delete booking services: %w", err)
		}
		return insertLines(tx, b.ID, b.Lines)
	})
}

func (s *Store) ListBookings(ctx context.Context, q BookingQuery) ([]models.Booking, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Booking{}).
		Joins("LEFT JOIN pets ON pets.id = bookings.pet_id").
		Joins("LEFT JOIN services ON services.id = bookings.service_id").
		Joins("LEFT JOIN groomers ON groomers.id = bookings.groomer_id")

	if q.CustomerID != nil {
		base = base.Where("bookings.customer_id = ?", *q.CustomerID)
	}
	if q.GroomerID != nil {
		base = base.Where("bookings.groomer_id = ?", *q.GroomerID)
	}
	if len(q.Statuses) > 0 {
		base = base.Where("bookings.status IN ?", q.Statuses)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		base = base.Where("pets.name ILIKE ? OR services.name ILIKE ? OR groomers.name ILIKE ? OR bookings.order_id ILIKE ?",
			like, like, like, like)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	var rows []models.Booking
	err := base.Select("bookings.*").
		Preload("Customer").
		Preload("Pet").
		Preload("Service").
		Preload("Pricing").
		Preload("Groomer").
		Preload("Address").
		Preload("Lines.Pets").
		Order("bookings.appointment_time_slot DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return rows, total, nil
}

func (s *Store) TransactionsForBookings(ctx context.Context, ids []uuid.UUID) ([]models.Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Transaction
	err := s.db.WithContext(ctx).Where("booking_id IN ?", ids).Order("created_at").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return rows, nil
}

// CancelBooking soft deletes a booking that is still Scheduled.
func (s *Store) CancelBooking(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.BookingScheduled).
		Delete(&models.Booking{})
	if res.Error != nil {
		return fmt.Errorf("delete booking: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignGroomer locks the groomer row, rejects the assignment when the groomer
// holds another booking inside [from, to] and stores the new OTP hashes.
func (s *Store) AssignGroomer(ctx context.Context, bookingID, groomerID uuid.UUID, from, to time.Time, startHash, endHash string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Groomer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&g, "id = ?", groomerID).Error; err != nil {
			return translate(err)
		}

		var conflicts int64
		err := tx.Model(&models.Booking{}).
			Where("groomer_id = ? AND id <> ?", groomerID, bookingID).
			Where("appointment_time_slot BETWEEN ? AND ?", from, to).
			Count(&conflicts).Error
		if err != nil {
			return fmt.Errorf("check groomer schedule: %w", err)
		}
		if conflicts > 0 {
			return ErrScheduleConflict
		}

		res := tx.Model(&models.Booking{}).Where("id = ?", bookingID).Updates(map[string]interface{}{
			"groomer_id":     groomerID,
			"start_otp_hash": startHash,
			"end_otp_hash":   endHash,
		})
		if res.Error != nil {
			return fmt.Errorf("assign groomer: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Store) MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.setStatus(ctx, id, models.BookingInProgress, "start_time", at)
}

func (s *Store) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.setStatus(ctx, id, models.BookingCompleted, "end_time", at)
}

func (s *Store) setStatus(ctx context.Context, id uuid.UUID, status, column string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status": status,
		column:   at,
	})
	if res.Error != nil {
		return fmt.Errorf("set booking status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignedBookingsBetween returns assigned bookings in [from, to) with groomer,
// pet and address loaded, ordered by groomer then time.
func (s *Store) AssignedBookingsBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	var rows []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Groomer").
		Preload("Pet").
		Preload("Service").
		Preload("Address").
		Where("groomer_id IS NOT NULL AND status IN ?", activeStatuses).
		Where("appointment_time_slot >= ? AND appointment_time_slot < ?", from, to).
		Order("groomer_id, appointment_time_slot").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load assigned bookings: %w", err)
	}
	return rows, nil
}
