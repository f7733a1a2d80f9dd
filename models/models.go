package models

// All lists every model for AutoMigrate in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Customer{},
		&Groomer{},
		&Pet{},
		&Address{},
		&Category{},
		&Service{},
		&ServicePricing{},
		&Slot{},
		&Booking{},
		&BookingService{},
		&BookingServicePet{},
		&Transaction{},
		&OtpChallenge{},
		&Setting{},
	}
}
