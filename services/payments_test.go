package services

import (
	"context"
	"testing"
	"time"

	"pawcare-backend/models"
	"pawcare-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestPaymentCeiling(t *testing.T) {
	st := newMemStore()
	out := &recorder{}
	svc := NewPaymentService(st, out, quietLogger())
	ctx := context.Background()
	admin := utils.Session{UserID: AdminSubject, Role: models.RoleAdmin}
	slot := time.Date(2026, 10, 20, 10, 0, 0, 0, ist)
	b := st.addBooking(models.Booking{CustomerID: uuid.New(), AppointmentTimeSlot: &slot, Total: decimal.RequireFromString("1000")})

	pay := func(amount, status string) error {
		_, err := svc.Add(ctx, admin, b.ID, PaymentInput{Amount: decimal.RequireFromString(amount), Status: status})
		return err
	}

	if err := pay("600", models.TransactionCompleted); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	// every new payment is checked, whatever its status
	wantKind(t, pay("900", ""), KindConflict)
	if err := pay("400", models.TransactionPending); err != nil {
		t.Fatalf("pending payment up to the total: %v", err)
	}
	wantKind(t, pay("400.01", models.TransactionCompleted), KindConflict)
	// pending rows do not count toward the completed sum
	if err := pay("400", models.TransactionCompleted); err != nil {
		t.Fatalf("payment up to the total: %v", err)
	}
	wantKind(t, pay("0.01", models.TransactionPending), KindConflict)

	rows, err := svc.List(ctx, admin, b.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rejected payments must not be stored, got %d rows", len(rows))
	}
	if len(out.events) != 3 || out.events[0] != EventPaymentRecorded {
		t.Fatalf("unexpected events %v", out.events)
	}
}

func TestPaymentValidation(t *testing.T) {
	st := newMemStore()
	svc := NewPaymentService(st, nil, quietLogger())
	ctx := context.Background()
	owner := uuid.New()
	b := st.addBooking(models.Booking{CustomerID: owner, Total: decimal.RequireFromString("100")})
	customer := utils.Session{UserID: uuid.NewString(), CustomerID: owner.String(), Role: models.RoleCustomer}
	stranger := utils.Session{UserID: uuid.NewString(), CustomerID: uuid.NewString(), Role: models.RoleCustomer}

	_, err := svc.Add(ctx, customer, b.ID, PaymentInput{Amount: decimal.Zero})
	wantKind(t, err, KindValidation)
	_, err = svc.Add(ctx, customer, b.ID, PaymentInput{Amount: decimal.NewFromInt(10), Status: "Refunded"})
	wantKind(t, err, KindValidation)
	_, err = svc.Add(ctx, stranger, b.ID, PaymentInput{Amount: decimal.NewFromInt(10)})
	wantKind(t, err, KindNotFound)

	txn, err := svc.Add(ctx, customer, b.ID, PaymentInput{Amount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if txn.Status != models.TransactionPending {
		t.Fatalf("status should default to Pending, got %s", txn.Status)
	}
}

func TestPaymentWithoutStatusIsCheckedAgainstTotal(t *testing.T) {
	st := newMemStore()
	svc := NewPaymentService(st, nil, quietLogger())
	admin := utils.Session{UserID: AdminSubject, Role: models.RoleAdmin}
	b := st.addBooking(models.Booking{CustomerID: uuid.New(), Total: decimal.RequireFromString("100")})

	_, err := svc.Add(context.Background(), admin, b.ID, PaymentInput{Amount: decimal.NewFromInt(1000000)})
	wantKind(t, err, KindConflict)
	if len(st.txns) != 0 {
		t.Fatalf("rejected payment was stored: %+v", st.txns)
	}
}

func TestOnlyAdminSetsPaymentStatus(t *testing.T) {
	st := newMemStore()
	svc := NewPaymentService(st, nil, quietLogger())
	ctx := context.Background()
	owner := uuid.New()
	b := st.addBooking(models.Booking{CustomerID: owner, Total: decimal.RequireFromString("100")})
	customer := utils.Session{UserID: uuid.NewString(), CustomerID: owner.String(), Role: models.RoleCustomer}
	admin := utils.Session{UserID: AdminSubject, Role: models.RoleAdmin}

	for _, status := range []string{models.TransactionCompleted, models.TransactionFailed} {
		_, err := svc.Add(ctx, customer, b.ID, PaymentInput{Amount: decimal.NewFromInt(100), Status: status})
		wantKind(t, err, KindForbidden)
	}
	if len(st.txns) != 0 {
		t.Fatalf("forbidden payments were stored: %+v", st.txns)
	}

	txn, err := svc.Add(ctx, customer, b.ID, PaymentInput{Amount: decimal.NewFromInt(40), Status: models.TransactionPending})
	if err != nil || txn.Status != models.TransactionPending {
		t.Fatalf("customer pending payment: %v %+v", err, txn)
	}
	txn, err = svc.Add(ctx, admin, b.ID, PaymentInput{Amount: decimal.NewFromInt(60), Status: models.TransactionCompleted})
	if err != nil || txn.Status != models.TransactionCompleted {
		t.Fatalf("admin completed payment: %v %+v", err, txn)
	}
}
