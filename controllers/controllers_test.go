package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pawcare-backend/models"
	"pawcare-backend/services"
	"pawcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeBookings struct {
	createFn func(ctx context.Context, s utils.Session, in services.CreateBookingInput) ([]models.Booking, error)
	listFn   func(ctx context.Context, s utils.Session, f services.ListFilter) (*services.BookingPage, error)
	assignFn func(ctx context.Context, bookingID, groomerID uuid.UUID) (*services.AssignResult, error)
	startFn  func(ctx context.Context, s utils.Session, id uuid.UUID, otp string) (*models.Booking, error)
}

func (f fakeBookings) Create(ctx context.Context, s utils.Session, in services.CreateBookingInput) ([]models.Booking, error) {
	if f.createFn == nil {
		return nil, nil
	}
	return f.createFn(ctx, s, in)
}

func (f fakeBookings) Update(ctx context.Context, s utils.Session, id uuid.UUID, in services.UpdateBookingInput) (*models.Booking, error) {
	return &models.Booking{ID: id}, nil
}

func (f fakeBookings) List(ctx context.Context, s utils.Session, filter services.ListFilter) (*services.BookingPage, error) {
	if f.listFn == nil {
		return &services.BookingPage{}, nil
	}
	return f.listFn(ctx, s, filter)
}

func (f fakeBookings) Get(ctx context.Context, s utils.Session, id uuid.UUID) (*models.Booking, error) {
	return nil, &services.Error{Kind: services.KindNotFound, Message: "Booking not found"}
}

func (f fakeBookings) Delete(ctx context.Context, s utils.Session, id uuid.UUID) error {
	return nil
}

func (f fakeBookings) AssignGroomer(ctx context.Context, bookingID, groomerID uuid.UUID) (*services.AssignResult, error) {
	if f.assignFn == nil {
		return &services.AssignResult{}, nil
	}
	return f.assignFn(ctx, bookingID, groomerID)
}

func (f fakeBookings) Start(ctx context.Context, s utils.Session, id uuid.UUID, otp string) (*models.Booking, error) {
	if f.startFn == nil {
		return &models.Booking{ID: id}, nil
	}
	return f.startFn(ctx, s, id, otp)
}

func (f fakeBookings) Complete(ctx context.Context, s utils.Session, id uuid.UUID, otp string) (*models.Booking, error) {
	return &models.Booking{ID: id}, nil
}

var customerSession = utils.Session{UserID: "u-1", CustomerID: uuid.NewString(), Role: models.RoleCustomer}

// withSession stands in for the auth middleware.
func withSession(s *utils.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s != nil {
			utils.SetSession(c, *s)
		}
		c.Next()
	}
}

func bookingRouter(api BookingAPI, s *utils.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	bc := &BookingController{Bookings: api}
	r := gin.New()
	g := r.Group("/bookings", withSession(s))
	g.POST("/new", bc.Create)
	g.GET("/list", bc.List)
	g.GET("/:id", bc.Get)
	g.POST("/assign_groomer/:id", bc.AssignGroomer)
	g.POST("/start/:id", bc.Start)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func message(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", resp.Body.String(), err)
	}
	return body.Message
}

func TestStatusFor(t *testing.T) {
	cases := map[services.Kind]int{
		services.KindValidation:   http.StatusBadRequest,
		services.KindConflict:     http.StatusBadRequest,
		services.KindUnauthorized: http.StatusUnauthorized,
		services.KindForbidden:    http.StatusForbidden,
		services.KindNotFound:     http.StatusNotFound,
		services.KindDuplicate:    http.StatusConflict,
		services.KindInternal:     http.StatusInternalServerError,
	}
	for k, want := range cases {
		if got := statusFor(k); got != want {
			t.Fatalf("statusFor(%d)=%d, want %d", k, got, want)
		}
	}
}

func TestCreateBookingErrors(t *testing.T) {
	slotBody := map[string]any{
		"pet_id":                 uuid.NewString(),
		"address_id":             uuid.NewString(),
		"service_pricing_id":     uuid.NewString(),
		"appointment_time_slots": []string{"2026-10-20T10:00:00+05:30"},
	}
	cases := []struct {
		name    string
		session *utils.Session
		body    any
		err     error
		want    int
		message string
	}{
		{"no session", nil, slotBody, nil, http.StatusUnauthorized, ""},
		{"bad body", &customerSession, map[string]any{"pet_id": "x"}, nil, http.StatusBadRequest, ""},
		{"service line without pricing", &customerSession, map[string]any{
			"pet_id":     uuid.NewString(),
			"address_id": uuid.NewString(),
			"services":   []map[string]any{{"pet_ids": []string{uuid.NewString()}}},
		}, nil, http.StatusBadRequest, ""},
		{"business rule", &customerSession, slotBody, &services.Error{Kind: services.KindConflict, Message: "nope"}, http.StatusBadRequest, "nope"},
		{"not found", &customerSession, slotBody, &services.Error{Kind: services.KindNotFound, Message: "Pet not found"}, http.StatusNotFound, "Pet not found"},
		{"database failure", &customerSession, slotBody, errors.New("pq: relation does not exist"), http.StatusInternalServerError, "Internal server error"},
		{"created", &customerSession, slotBody, nil, http.StatusCreated, "Booking created successfully"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			api := fakeBookings{createFn: func(ctx context.Context, s utils.Session, in services.CreateBookingInput) ([]models.Booking, error) {
				if len(in.AppointmentTimeSlots) != 1 {
					t.Fatalf("slots not bound: %+v", in)
				}
				return []models.Booking{{}}, tt.err
			}}
			resp := do(bookingRouter(api, tt.session), http.MethodPost, "/bookings/new", tt.body)
			if resp.Code != tt.want {
				t.Fatalf("expected status %d, got %d: %s", tt.want, resp.Code, resp.Body.String())
			}
			if tt.message != "" && message(t, resp) != tt.message {
				t.Fatalf("unexpected message %q", message(t, resp))
			}
		})
	}
}

func TestListBookingsPagination(t *testing.T) {
	api := fakeBookings{listFn: func(ctx context.Context, s utils.Session, f services.ListFilter) (*services.BookingPage, error) {
		if f.Type != "upcoming" || f.Page != 2 {
			t.Fatalf("query not bound: %+v", f)
		}
		return &services.BookingPage{
			Bookings:   []models.Booking{{OrderID: "ABCD2345"}},
			Pagination: services.Pagination{TotalRecords: 11, CurrentPage: 2, PerPage: 10, TotalPages: 2},
		}, nil
	}}
	resp := do(bookingRouter(api, &customerSession), http.MethodGet, "/bookings/list?type=upcoming&page=2", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body struct {
		Data       []models.Booking    `json:"data"`
		Pagination services.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Pagination.TotalPages != 2 || body.Pagination.TotalRecords != 11 {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestBookingPathValidation(t *testing.T) {
	r := bookingRouter(fakeBookings{}, &customerSession)
	if resp := do(r, http.MethodGet, "/bookings/not-a-uuid", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if resp := do(r, http.MethodGet, "/bookings/"+uuid.NewString(), nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if resp := do(r, http.MethodPost, "/bookings/assign_groomer/"+uuid.NewString(), map[string]string{}); resp.Code != http.StatusBadRequest {
		t.Fatalf("missing groomer_id should be rejected, got %d", resp.Code)
	}
}

func TestStartPassesOtp(t *testing.T) {
	groomer := utils.Session{UserID: uuid.NewString(), Role: models.RoleGroomer}
	var gotOtp string
	api := fakeBookings{startFn: func(ctx context.Context, s utils.Session, id uuid.UUID, otp string) (*models.Booking, error) {
		gotOtp = otp
		return nil, &services.Error{Kind: services.KindForbidden, Message: "You are not assigned to this booking"}
	}}
	resp := do(bookingRouter(api, &groomer), http.MethodPost, "/bookings/start/"+uuid.NewString(), map[string]string{"otp": "123456"})
	if resp.Code != http.StatusForbidden || gotOtp != "123456" {
		t.Fatalf("expected 403 with otp passed through, got %d %q", resp.Code, gotOtp)
	}
}

type fakeAuth struct {
	verifyFn func(ctx context.Context, email, userType, code string) (*services.LoginResult, error)
}

func (f fakeAuth) SendEmailOtp(ctx context.Context, email, userType string) error { return nil }
func (f fakeAuth) SendSmsOtp(ctx context.Context, phone, userType string) error   { return nil }
func (f fakeAuth) VerifyEmailOtp(ctx context.Context, email, userType, code string) (*services.LoginResult, error) {
	return f.verifyFn(ctx, email, userType, code)
}
func (f fakeAuth) VerifySmsOtp(ctx context.Context, phone, userType, code string) (*services.LoginResult, error) {
	return nil, nil
}
func (f fakeAuth) LoginAdmin(ctx context.Context, email, password string) (*services.LoginResult, error) {
	return nil, &services.Error{Kind: services.KindUnauthorized, Message: "Invalid email or password"}
}
func (f fakeAuth) Logout(ctx context.Context, s utils.Session) error { return nil }

func authRouter(api AuthAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ac := &AuthController{Auth: api, TokenTTL: time.Hour}
	r := gin.New()
	r.POST("/auth/send_email_otp", ac.SendEmailOtp)
	r.POST("/auth/verify_email_otp", ac.VerifyEmailOtp)
	r.POST("/auth/login_admin", ac.LoginAdmin)
	return r
}

func TestSendEmailOtpBinding(t *testing.T) {
	r := authRouter(fakeAuth{})
	cases := []struct {
		body map[string]string
		want int
	}{
		{map[string]string{"email": "jane@example.com", "user_type": "customer"}, http.StatusOK},
		{map[string]string{"email": "jane@example.com", "user_type": "admin"}, http.StatusBadRequest},
		{map[string]string{"email": "jane", "user_type": "customer"}, http.StatusBadRequest},
		{map[string]string{"user_type": "groomer"}, http.StatusBadRequest},
	}
	for _, tt := range cases {
		if resp := do(r, http.MethodPost, "/auth/send_email_otp", tt.body); resp.Code != tt.want {
			t.Fatalf("body %v: expected status %d, got %d", tt.body, tt.want, resp.Code)
		}
	}
}

func TestVerifySetsTokenCookie(t *testing.T) {
	r := authRouter(fakeAuth{verifyFn: func(ctx context.Context, email, userType, code string) (*services.LoginResult, error) {
		return &services.LoginResult{Token: "signed", Role: userType}, nil
	}})
	resp := do(r, http.MethodPost, "/auth/verify_email_otp", map[string]string{
		"email": "jane@example.com", "user_type": "customer", "otp": "123456",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if cookie := resp.Header().Get("Set-Cookie"); !strings.Contains(cookie, "token=signed") {
		t.Fatalf("token cookie not set: %q", cookie)
	}

	if resp := do(r, http.MethodPost, "/auth/login_admin", map[string]string{"email": "a@b.co", "password": "x"}); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

type pinger func(ctx context.Context) error

func (p pinger) Ping(ctx context.Context) error { return p(ctx) }

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", Health(map[string]Pinger{
		"database": pinger(func(context.Context) error { return nil }),
	}))
	if resp := do(r, http.MethodGet, "/healthz", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	down := gin.New()
	down.GET("/healthz", Health(map[string]Pinger{
		"redis": pinger(func(context.Context) error { return errors.New("connection refused") }),
	}))
	if resp := do(down, http.MethodGet, "/healthz", nil); resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}

type fakePayments struct {
	calls int
}

func (f *fakePayments) Add(ctx context.Context, s utils.Session, bookingID uuid.UUID, in services.PaymentInput) (*models.Transaction, error) {
	f.calls++
	return &models.Transaction{BookingID: bookingID, Amount: in.Amount, Status: in.Status}, nil
}

func (f *fakePayments) List(ctx context.Context, s utils.Session, bookingID uuid.UUID) ([]models.Transaction, error) {
	return nil, nil
}

func TestAddPaymentStatusBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := &fakePayments{}
	pc := &PaymentController{Payments: api}
	r := gin.New()
	r.POST("/bookings/:id/payments", withSession(&customerSession), pc.Add)
	path := "/bookings/" + uuid.NewString() + "/payments"

	if resp := do(r, http.MethodPost, path, map[string]any{"amount": "10", "status": "Refunded"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown status, got %d", resp.Code)
	}
	if api.calls != 0 {
		t.Fatal("invalid status reached the service")
	}
	if resp := do(r, http.MethodPost, path, map[string]any{"amount": "10"}); resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}
