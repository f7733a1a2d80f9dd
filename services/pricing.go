package services

import (
	"context"

	"pawcare-backend/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// priceLine returns amount, tax and total for qty units of a pricing row.
// Tax is TaxRate percent of the amount, rounded to two places.
func priceLine(p models.ServicePricing, qty int) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	if qty < 1 {
		qty = 1
	}
	amount := p.Price.Mul(decimal.NewFromInt(int64(qty)))
	tax := amount.Mul(p.TaxRate).Div(hundred).Round(2)
	return amount, tax, amount.Add(tax)
}

// ServiceLineInput is one line of a multi-service booking.
type ServiceLineInput struct {
	ServicePricingID uuid.UUID   `json:"service_pricing_id" binding:"required"`
	ParentServiceID  *uuid.UUID  `json:"parent_service_id"`
	PetIDs           []uuid.UUID `json:"pet_ids"`
}

// bookingDraft is the shared part of create and update requests.
type bookingDraft struct {
	PetID            uuid.UUID
	AddressID        uuid.UUID
	ServicePricingID uuid.UUID
	AddonPricingIDs  []uuid.UUID
	Services         []ServiceLineInput
}

func (d bookingDraft) pricingIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 1+len(d.AddonPricingIDs)+len(d.Services))
	if d.ServicePricingID != uuid.Nil {
		ids = append(ids, d.ServicePricingID)
	}
	ids = append(ids, d.AddonPricingIDs...)
	for _, l := range d.Services {
		ids = append(ids, l.ServicePricingID)
	}
	return ids
}

// price resolves the draft against authoritative pricing rows and returns a
// booking template with totals and, in multi-service mode, its lines.
func (s *BookingService) price(ctx context.Context, customerID uuid.UUID, d bookingDraft) (models.Booking, error) {
	rows, err := s.store.PricingsByIDs(ctx, d.pricingIDs())
	if err != nil {
		return models.Booking{}, err
	}
	pricings := make(map[uuid.UUID]models.ServicePricing, len(rows))
	for _, r := range rows {
		pricings[r.ID] = r
	}
	lookup := func(id uuid.UUID) (models.ServicePricing, error) {
		p, ok := pricings[id]
		if !ok {
			return models.ServicePricing{}, notFound("Service pricing not found")
		}
		return p, nil
	}

	b := models.Booking{
		CustomerID: customerID,
		PetID:      d.PetID,
		AddressID:  d.AddressID,
		Amount:     decimal.Zero,
		Tax:        decimal.Zero,
		Total:      decimal.Zero,
	}

	if len(d.Services) == 0 {
		if d.ServicePricingID == uuid.Nil {
			return models.Booking{}, invalid("Service pricing is required")
		}
		primary, err := lookup(d.ServicePricingID)
		if err != nil {
			return models.Booking{}, err
		}
		b.ServiceID = primary.ServiceID
		b.ServicePricingID = primary.ID
		b.Amount, b.Tax, _ = priceLine(primary, 1)

		addons := make(pq.StringArray, 0, len(d.AddonPricingIDs))
		for _, id := range d.AddonPricingIDs {
			addon, err := lookup(id)
			if err != nil {
				return models.Booking{}, err
			}
			amount, tax, _ := priceLine(addon, 1)
			b.Amount = b.Amount.Add(amount)
			b.Tax = b.Tax.Add(tax)
			addons = append(addons, id.String())
		}
		b.AddonServiceIDs = addons
		b.Total = b.Amount.Add(b.Tax)
		return b, nil
	}

	for _, in := range d.Services {
		p, err := lookup(in.ServicePricingID)
		if err != nil {
			return models.Booking{}, err
		}
		petIDs := in.PetIDs
		if len(petIDs) == 0 {
			petIDs = []uuid.UUID{d.PetID}
		}
		for _, petID := range petIDs {
			if petID == d.PetID {
				continue
			}
			if _, err := s.store.FindCustomerPet(ctx, customerID, petID); err != nil {
				if isNotFound(err) {
					return models.Booking{}, notFound("Pet not found")
				}
				return models.Booking{}, err
			}
		}

		amount, tax, total := priceLine(p, len(petIDs))
		line := models.BookingService{
			ServiceID:        p.ServiceID,
			ServicePricingID: p.ID,
			ParentServiceID:  in.ParentServiceID,
			Amount:           amount,
			Tax:              tax,
			Total:            total,
		}
		for _, petID := range petIDs {
			line.Pets = append(line.Pets, models.BookingServicePet{PetID: petID})
		}
		if in.ParentServiceID == nil && b.ServicePricingID == uuid.Nil {
			b.ServiceID = p.ServiceID
			b.ServicePricingID = p.ID
		}
		b.Amount = b.Amount.Add(amount)
		b.Tax = b.Tax.Add(tax)
		b.Lines = append(b.Lines, line)
	}
	if b.ServicePricingID == uuid.Nil {
		return models.Booking{}, invalid("At least one primary service is required")
	}
	b.AddonServiceIDs = pq.StringArray{}
	b.Total = b.Amount.Add(b.Tax)
	return b, nil
}
