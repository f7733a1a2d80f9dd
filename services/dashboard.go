package services

import (
	"context"
	"time"

	"pawcare-backend/models"
	"pawcare-backend/store"
	"pawcare-backend/utils"

	"github.com/shopspring/decimal"
)

type DashboardStore interface {
	BookingCountsByStatus(ctx context.Context) ([]store.StatusCount, error)
	CountBookingsBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountActiveGroomers(ctx context.Context) (int64, error)
	RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	ListBookings(ctx context.Context, q store.BookingQuery) ([]models.Booking, int64, error)
	TopServices(ctx context.Context, from, to time.Time, limit int) ([]store.ServiceSummary, error)
	TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]store.CustomerSummary, error)
}

type DashboardOverview struct {
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
	TodayBookings    int64            `json:"todayBookings"`
	ActiveGroomers   int64            `json:"activeGroomers"`
	MonthlyRevenue   decimal.Decimal  `json:"monthlyRevenue"`
	RecentBookings   []models.Booking `json:"recentBookings"`
}

// ReportSummary is revenue per calendar period with growth against the
// previous period, plus the top services and customers of the month.
type ReportSummary struct {
	CurrentMonthRevenue   decimal.Decimal         `json:"currentMonthRevenue"`
	MonthGrowth           float64                 `json:"monthGrowth"`
	CurrentQuarterRevenue decimal.Decimal         `json:"currentQuarterRevenue"`
	QuarterGrowth         float64                 `json:"quarterGrowth"`
	CurrentYearRevenue    decimal.Decimal         `json:"currentYearRevenue"`
	YearGrowth            float64                 `json:"yearGrowth"`
	TopServices           []store.ServiceSummary  `json:"topServices"`
	TopCustomers          []store.CustomerSummary `json:"topCustomers"`
}

type DashboardService struct {
	store DashboardStore
	loc   *time.Location
	now   func() time.Time
}

func NewDashboardService(store DashboardStore, loc *time.Location) *DashboardService {
	return &DashboardService{store: store, loc: loc, now: time.Now}
}

func (s *DashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	now := s.now().In(s.loc)
	dayStart, dayEnd := utils.DayRange(now, s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	counts, err := s.store.BookingCountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := &DashboardOverview{BookingsByStatus: map[string]int64{
		models.BookingScheduled:  0,
		models.BookingInProgress: 0,
		models.BookingCompleted:  0,
	}}
	for _, c := range counts {
		out.BookingsByStatus[c.Status] = c.Count
	}

	if out.TodayBookings, err = s.store.CountBookingsBetween(ctx, dayStart, dayEnd); err != nil {
		return nil, err
	}
	if out.ActiveGroomers, err = s.store.CountActiveGroomers(ctx); err != nil {
		return nil, err
	}
	if out.MonthlyRevenue, err = s.store.RevenueBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}
	if out.RecentBookings, _, err = s.store.ListBookings(ctx, store.BookingQuery{Limit: 5}); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DashboardService) Report(ctx context.Context) (*ReportSummary, error) {
	now := s.now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	quarter := quarterStart(now)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, s.loc)

	out := &ReportSummary{}
	var err error
	if out.CurrentMonthRevenue, out.MonthGrowth, err = s.periodRevenue(ctx, monthStart, 1); err != nil {
		return nil, err
	}
	if out.CurrentQuarterRevenue, out.QuarterGrowth, err = s.periodRevenue(ctx, quarter, 3); err != nil {
		return nil, err
	}
	if out.CurrentYearRevenue, out.YearGrowth, err = s.periodRevenue(ctx, yearStart, 12); err != nil {
		return nil, err
	}

	monthEnd := monthStart.AddDate(0, 1, 0)
	if out.TopServices, err = s.store.TopServices(ctx, monthStart, monthEnd, 4); err != nil {
		return nil, err
	}
	if out.TopCustomers, err = s.store.TopCustomers(ctx, monthStart, monthEnd, 4); err != nil {
		return nil, err
	}
	return out, nil
}

// periodRevenue returns revenue of the period of months starting at start and
// its growth over the period before.
func (s *DashboardService) periodRevenue(ctx context.Context, start time.Time, months int) (decimal.Decimal, float64, error) {
	current, err := s.store.RevenueBetween(ctx, start, start.AddDate(0, months, 0))
	if err != nil {
		return decimal.Zero, 0, err
	}
	previous, err := s.store.RevenueBetween(ctx, start.AddDate(0, -months, 0), start)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return current, growthPercentage(current, previous), nil
}

func quarterStart(t time.Time) time.Time {
	month := time.Month((int(t.Month())-1)/3*3 + 1)
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, t.Location())
}

func growthPercentage(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	g, _ := current.Sub(previous).Div(previous).Mul(hundred).Round(2).Float64()
	return g
}
