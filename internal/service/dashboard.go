package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dentnotion/dentnotion/internal/api"
	"github.com/dentnotion/dentnotion/internal/domain/model"
)

// recentAppointmentLimit caps how many appointments the snapshot carries.
const recentAppointmentLimit = 10

// PatientLister, AppointmentLister and InvoiceLister are the read surfaces the
// dashboard needs from the resource clients.
type PatientLister interface {
	List(ctx context.Context) (api.List[model.Patient], error)
}

type AppointmentLister interface {
	List(ctx context.Context) (api.List[model.Appointment], error)
}

type InvoiceLister interface {
	List(ctx context.Context) (api.List[model.Invoice], error)
}

// DashboardOptions groups dependencies for DashboardService.
type DashboardOptions struct {
	Patients     PatientLister
	Appointments AppointmentLister
	Invoices     InvoiceLister
	// Now is injectable for tests; time.Now when nil.
	Now func() time.Time
}

// DashboardService aggregates the three resource lists into the overview
// figures the dashboard shows.
type DashboardService struct {
	patients     PatientLister
	appointments AppointmentLister
	invoices     InvoiceLister
	now          func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(opts DashboardOptions) *DashboardService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		patients:     opts.Patients,
		appointments: opts.Appointments,
		invoices:     opts.Invoices,
		now:          now,
	}
}

// Snapshot is the aggregated dashboard view.
type Snapshot struct {
	TotalPatients     int                 `json:"total_patients"`
	TodayAppointments int                 `json:"today_appointments"`
	TotalRevenue      string              `json:"total_revenue"`
	UnpaidInvoices    int                 `json:"unpaid_invoices"`
	Recent            []model.Appointment `json:"recent_appointments"`
}

// Snapshot fetches the three lists concurrently and joins them. Any failure
// yields one aggregate error and a zero snapshot; there is no partial merge.
func (d *DashboardService) Snapshot(ctx context.Context) (Snapshot, error) {
	var (
		patients     api.List[model.Patient]
		appointments api.List[model.Appointment]
		invoices     api.List[model.Invoice]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		patients, err = d.patients.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		appointments, err = d.appointments.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		invoices, err = d.invoices.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("load dashboard data: %w", err)
	}

	today := d.now().Format("2006-01-02")
	todayCount := 0
	for _, appt := range appointments.Results {
		if appt.Date == today {
			todayCount++
		}
	}

	revenue := 0.0
	unpaid := 0
	for _, inv := range invoices.Results {
		switch inv.Status {
		case model.InvoicePaid:
			if amount, err := strconv.ParseFloat(inv.Amount, 64); err == nil {
				revenue += amount
			}
		case model.InvoiceUnpaid:
			unpaid++
		}
	}

	recent := appointments.Results
	if len(recent) > recentAppointmentLimit {
		recent = recent[:recentAppointmentLimit]
	}

	return Snapshot{
		TotalPatients:     patients.Count,
		TodayAppointments: todayCount,
		TotalRevenue:      strconv.FormatFloat(revenue, 'f', 2, 64),
		UnpaidInvoices:    unpaid,
		Recent:            recent,
	}, nil
}
