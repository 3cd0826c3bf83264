package server

import (
	"gymclass/internal/booking"
	"gymclass/internal/config"
	"gymclass/internal/dashboard"
	"gymclass/internal/email"
	"gymclass/internal/payment"
	"gymclass/internal/profile"
	"gymclass/internal/schedule"
	"gymclass/internal/subscription"

	"github.com/jmoiron/sqlx"
)

// App holds the services behind the HTTP surface. cmd/app and cmd/ledgerctl
// build it the same way.
type App struct {
	Profiles      profile.Service
	Schedule      schedule.Service
	Subscriptions subscription.Service
	Bookings      booking.Service
	Dashboard     dashboard.Service
	Payments      payment.Repository
}

// NewApp wires repositories and services. mailer may be nil, in which case
// no notifications are queued.
func NewApp(db *sqlx.DB, cfg *config.Config, mailer *email.Service) *App {
	profiles := profile.NewService(profile.NewRepository(db))
	sessions := schedule.NewService(schedule.NewRepository(db))

	var (
		subNotifier     subscription.Notifier
		bookingNotifier booking.Notifier
	)
	if mailer != nil {
		subNotifier = mailer
		bookingNotifier = mailer
	}

	return &App{
		Profiles: profiles,
		Schedule: sessions,
		Subscriptions: subscription.NewService(
			subscription.NewRepository(db, cfg.LockTimeout),
			subNotifier,
			profiles,
			cfg.PaymentWindow,
		),
		Bookings: booking.NewService(
			booking.NewRepository(db, cfg.LockTimeout, cfg.Location),
			sessions,
			bookingNotifier,
			profiles,
			booking.Options{
				Location:     cfg.Location,
				CheckInEarly: cfg.CheckInEarly,
				CheckInLate:  cfg.CheckInLate,
			},
		),
		Dashboard: dashboard.NewService(dashboard.NewRepository(db), cfg.Location),
		Payments:  payment.NewRepository(db),
	}
}
