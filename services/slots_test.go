package services

import (
	"context"
	"testing"

	"pawcare-backend/models"
)

func TestSlotsWithStatusCapacity(t *testing.T) {
	st := newMemStore()
	svc := NewSlotService(st, ist, quietLogger())
	ctx := context.Background()
	for i, s := range []string{"09:00 - 10:00", "10:00 - 11:00", "11:00 - 12:00"} {
		if _, err := svc.CreateSlot(ctx, CreateSlotInput{Slot: s, SortOrder: i}); err != nil {
			t.Fatalf("create slot %q: %v", s, err)
		}
	}
	st.addGroomer(true)
	st.addGroomer(true)
	st.addGroomer(false)

	// two bookings fill 09:00 for two active groomers, one leaves 10:00 open,
	// and 11:00 sharp belongs to the third slot only
	for _, ts := range [][2]int{{9, 0}, {9, 45}, {10, 30}, {11, 0}, {11, 0}} {
		slot := at(ts[0], ts[1])
		st.addBooking(models.Booking{AppointmentTimeSlot: &slot})
	}

	got, err := svc.SlotsWithStatus(ctx, "2026-10-20")
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	want := []bool{true, false, true}
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].IsBooked != w {
			t.Fatalf("slot %s booked=%v, want %v", got[i].Slot, got[i].IsBooked, w)
		}
	}

	other, err := svc.SlotsWithStatus(ctx, "2026-10-21")
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	for _, s := range other {
		if s.IsBooked {
			t.Fatalf("another day should be free, got %+v", s)
		}
	}
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	st := newMemStore()
	svc := NewSlotService(st, ist, quietLogger())
	ctx := context.Background()
	if _, err := svc.CreateSlot(ctx, CreateSlotInput{Slot: "09:00 - 10:00"}); err != nil {
		t.Fatalf("create slot: %v", err)
	}
	st.addGroomer(true)
	slot := at(9, 30)
	b := st.addBooking(models.Booking{AppointmentTimeSlot: &slot})

	booked := func() bool {
		t.Helper()
		got, err := svc.SlotsWithStatus(ctx, "2026-10-20")
		if err != nil || len(got) != 1 {
			t.Fatalf("slots: %v %+v", err, got)
		}
		return got[0].IsBooked
	}
	if !booked() {
		t.Fatal("single groomer slot with one booking should be full")
	}
	if err := st.CancelBooking(ctx, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if booked() {
		t.Fatal("cancelled booking still fills the slot")
	}
}

func TestSlotsWithStatusErrors(t *testing.T) {
	st := newMemStore()
	svc := NewSlotService(st, ist, quietLogger())
	ctx := context.Background()

	_, err := svc.SlotsWithStatus(ctx, "")
	wantKind(t, err, KindValidation)
	_, err = svc.SlotsWithStatus(ctx, "20-10-2026")
	wantKind(t, err, KindValidation)
	_, err = svc.SlotsWithStatus(ctx, "2026-10-20")
	wantKind(t, err, KindValidation)
}

func TestCreateSlotValidation(t *testing.T) {
	svc := NewSlotService(newMemStore(), ist, quietLogger())
	ctx := context.Background()

	for _, bad := range []string{"9am", "10:00 - 09:00", "10:00-", "25:00 - 26:00"} {
		_, err := svc.CreateSlot(ctx, CreateSlotInput{Slot: bad})
		wantKind(t, err, KindValidation)
	}
	if _, err := svc.CreateSlot(ctx, CreateSlotInput{Slot: "09:00 - 10:00"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.CreateSlot(ctx, CreateSlotInput{Slot: " 09:00 - 10:00 "})
	wantKind(t, err, KindDuplicate)
}
