package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymclass/internal/apperr"
	"gymclass/internal/auth"
	"gymclass/internal/email"
	"gymclass/internal/logger"
	"gymclass/internal/metrics"
	"gymclass/internal/schedule"

	"github.com/google/uuid"
)

var (
	ErrOutOfWindow    = fmt.Errorf("%w: check-in is not open for this session", apperr.ErrOutOfWindow)
	ErrSessionNotOver = fmt.Errorf("%w: session has not ended yet", apperr.ErrConflict)
)

// Notifier sends the member-facing booking emails.
type Notifier interface {
	SendBookingConfirmed(ctx context.Context, to email.Recipient, session, qrCode string) error
	SendBookingCancelled(ctx context.Context, to email.Recipient, session string) error
}

// Directory resolves a member's email address and language.
type Directory interface {
	Recipient(ctx context.Context, userID uuid.UUID) (email.Recipient, error)
}

// Sessions looks up class sessions.
type Sessions interface {
	GetSession(ctx context.Context, id uuid.UUID) (*schedule.ClassSession, error)
}

type Options struct {
	Location     *time.Location
	CheckInEarly time.Duration
	CheckInLate  time.Duration
}

type Service interface {
	BookSession(ctx context.Context, actor auth.Actor, sessionID uuid.UUID) (*Ledger, error)
	CancelBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID) (*Ledger, error)
	CheckIn(ctx context.Context, actor auth.Actor, qrCode string) (*Booking, error)
	MarkNoShow(ctx context.Context, actor auth.Actor, bookingID uuid.UUID) (*Booking, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]BookingWithSession, error)
	Roster(ctx context.Context, actor auth.Actor, sessionID uuid.UUID) ([]RosterEntry, error)
	StatsByDay(ctx context.Context, actor auth.Actor, from, to time.Time) ([]DayStats, error)
}

type service struct {
	repo      Repository
	sessions  Sessions
	notifier  Notifier
	directory Directory
	opts      Options
	now       func() time.Time
	newQRCode func() string
}

// NewService wires the booking ledger. notifier and directory may be nil,
// in which case no emails are sent.
func NewService(repo Repository, sessions Sessions, notifier Notifier, directory Directory, opts Options) Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &service{
		repo:      repo,
		sessions:  sessions,
		notifier:  notifier,
		directory: directory,
		opts:      opts,
		now:       time.Now,
		newQRCode: uuid.NewString,
	}
}

// outcome labels an operation result for metrics.
func outcome(err error) string {
	switch apperr.Kind(err) {
	case nil:
		if err != nil {
			return "error"
		}
		return "ok"
	case apperr.ErrInsufficientCredits:
		return "insufficient_credits"
	case apperr.ErrSessionFull:
		return "session_full"
	case apperr.ErrConflict:
		return "conflict"
	case apperr.ErrNotFound:
		return "not_found"
	case apperr.ErrUnauthorized:
		return "unauthorized"
	case apperr.ErrAlreadyUsed:
		return "already_used"
	case apperr.ErrOutOfWindow:
		return "out_of_window"
	case apperr.ErrTryAgain:
		return "try_again"
	default:
		return "error"
	}
}

func (s *service) BookSession(ctx context.Context, actor auth.Actor, sessionID uuid.UUID) (*Ledger, error) {
	if err := actor.Authorize(auth.ActionBookForSelf); err != nil {
		return nil, err
	}

	ledger, err := s.repo.Book(ctx, actor.UserID, sessionID, s.newQRCode(), s.now())
	metrics.RecordBookingAttempt(outcome(err))
	if err != nil {
		if errors.Is(err, apperr.ErrTryAgain) {
			metrics.RecordLockContention("book_session")
		}
		return nil, err
	}

	logger.Info("session booked",
		"booking_id", ledger.Booking.ID,
		"user_id", actor.UserID,
		"session_id", sessionID,
		"subscription_id", ledger.Booking.SubscriptionID,
		"credits_remaining", ledger.CreditsRemaining,
		"current_bookings", ledger.Session.CurrentBookings,
	)

	s.notify(ctx, actor.UserID, func(to email.Recipient) error {
		return s.notifier.SendBookingConfirmed(ctx, to, ledger.Session.Describe(), ledger.Booking.QRCode)
	})
	return ledger, nil
}

func (s *service) CancelBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID) (*Ledger, error) {
	current, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	by := "owner"
	action := auth.ActionCancelOwnBooking
	if current.UserID != actor.UserID {
		by = "staff"
		action = auth.ActionCancelAnyBooking
	}
	if err := actor.Authorize(action); err != nil {
		return nil, err
	}

	ledger, err := s.repo.Cancel(ctx, bookingID, s.now())
	if err != nil {
		if errors.Is(err, apperr.ErrTryAgain) {
			metrics.RecordLockContention("cancel_booking")
		}
		return nil, err
	}

	metrics.RecordBookingCancellation(by)
	logger.Info("booking cancelled",
		"booking_id", bookingID,
		"user_id", current.UserID,
		"by", actor.UserID,
		"credits_remaining", ledger.CreditsRemaining,
		"current_bookings", ledger.Session.CurrentBookings,
	)

	s.notify(ctx, current.UserID, func(to email.Recipient) error {
		return s.notifier.SendBookingCancelled(ctx, to, ledger.Session.Describe())
	})
	return ledger, nil
}

func (s *service) CheckIn(ctx context.Context, actor auth.Actor, qrCode string) (*Booking, error) {
	b, err := s.checkIn(ctx, actor, qrCode)
	metrics.RecordCheckIn(outcome(err))
	return b, err
}

func (s *service) checkIn(ctx context.Context, actor auth.Actor, qrCode string) (*Booking, error) {
	if err := actor.Authorize(auth.ActionCheckIn); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByQRCode(ctx, qrCode)
	if err != nil {
		return nil, err
	}
	if err := checkActive(current.Status); err != nil {
		return nil, err
	}
	// Bookings of a cancelled session stay active until cancelled with a refund.
	if current.SessionStatus == schedule.StatusCancelled {
		return nil, ErrSessionCancelled
	}

	start, end, err := current.Session().Window(s.opts.Location)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if now.Before(start.Add(-s.opts.CheckInEarly)) || now.After(end.Add(s.opts.CheckInLate)) {
		return nil, ErrOutOfWindow
	}

	b, err := s.repo.Complete(ctx, current.ID, now)
	if err != nil {
		return nil, err
	}

	logger.Info("booking checked in", "booking_id", b.ID, "user_id", b.UserID, "by", actor.UserID)
	return b, nil
}

func (s *service) MarkNoShow(ctx context.Context, actor auth.Actor, bookingID uuid.UUID) (*Booking, error) {
	if err := actor.Authorize(auth.ActionCheckIn); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkActive(current.Status); err != nil {
		return nil, err
	}
	if current.SessionStatus == schedule.StatusCancelled {
		return nil, ErrSessionCancelled
	}

	_, end, err := current.Session().Window(s.opts.Location)
	if err != nil {
		return nil, err
	}
	if s.now().Before(end) {
		return nil, ErrSessionNotOver
	}

	b, err := s.repo.MarkNoShow(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	logger.Info("booking marked no-show", "booking_id", bookingID, "user_id", b.UserID, "by", actor.UserID)
	return b, nil
}

func checkActive(status Status) error {
	switch status {
	case StatusActive:
		return nil
	case StatusCompleted:
		return ErrAlreadyCheckedIn
	default:
		return ErrBookingNotActive
	}
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]BookingWithSession, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Roster(ctx context.Context, actor auth.Actor, sessionID uuid.UUID) ([]RosterEntry, error) {
	if err := actor.Authorize(auth.ActionViewRoster); err != nil {
		return nil, err
	}
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListBySession(ctx, sessionID)
}

func (s *service) StatsByDay(ctx context.Context, actor auth.Actor, from, to time.Time) ([]DayStats, error) {
	if err := actor.Authorize(auth.ActionViewAdminDashboard); err != nil {
		return nil, err
	}
	return s.repo.StatsByDay(ctx, from, to)
}

func (s *service) notify(ctx context.Context, userID uuid.UUID, send func(email.Recipient) error) {
	if s.notifier == nil || s.directory == nil {
		return
	}
	to, err := s.directory.Recipient(ctx, userID)
	if err != nil {
		logger.Warn("booking email skipped", "user_id", userID, "error", err)
		return
	}
	if err := send(to); err != nil {
		logger.Warn("booking email not queued", "user_id", userID, "error", err)
	}
}
