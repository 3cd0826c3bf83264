package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"gymclass/internal/i18n"
	"gymclass/internal/logger"
	"gymclass/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Recipient is who a notification goes to and in which language.
type Recipient struct {
	Email    string
	Name     string
	Language i18n.Language
}

type Service struct {
	redis      *redis.Client
	from       string
	fromName   string
	smtpHost   string
	smtpPort   string
	smtpUser   string
	smtpPass   string
	retryDelay time.Duration
	send       func(EmailJob) error
	now        func() time.Time
}

// FailedJob is what lands on the dead-letter list.
type FailedJob struct {
	Job      EmailJob  `json:"job"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	s := &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:       fromEmail,
		fromName:   fromName,
		smtpHost:   smtpHost,
		smtpPort:   smtpPort,
		smtpUser:   smtpUser,
		smtpPass:   smtpPass,
		retryDelay: 5 * time.Second,
		now:        time.Now,
	}
	s.send = s.sendNow
	return s
}

func (s *Service) Send(ctx context.Context, kind, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Kind:    kind,
		Subject: subject,
		Body:    body,
		Created: s.now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("failed to queue email", "to", to, "kind", kind, "error", err)
		metrics.RecordEmail(kind, "queue_failed")
		return err
	}

	logger.Info("email queued", "to", to, "kind", kind)
	return nil
}

// Start consumes the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	logger.Debug("sending email", "to", job.To, "attempt", job.Tries)
	if err := s.send(job); err != nil {
		logger.Error("failed to send email", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			if s.retryDelay > 0 {
				time.Sleep(s.retryDelay)
			}
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, string(data))
		} else {
			metrics.RecordEmail(job.Kind, "failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordEmail(job.Kind, "success")
	logger.Info("email sent", "to", job.To, "kind", job.Kind)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n"
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	data, _ := json.Marshal(FailedJob{Job: job, Error: err.Error(), FailedAt: s.now()})
	s.redis.LPush(context.Background(), failedQueueKey, string(data))
	logger.Error("email moved to failed queue", "to", job.To, "kind", job.Kind)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendBookingConfirmed(ctx context.Context, to Recipient, session, qrCode string) error {
	subject := i18n.T(i18n.KeyBookingConfirmedSubject, to.Language)
	body := fmt.Sprintf(i18n.T(i18n.KeyBookingConfirmedBody, to.Language), to.Name, session, qrCode)
	return s.Send(ctx, "booking_confirmed", to.Email, to.Name, subject, body)
}

func (s *Service) SendBookingCancelled(ctx context.Context, to Recipient, session string) error {
	subject := i18n.T(i18n.KeyBookingCancelledSubject, to.Language)
	body := fmt.Sprintf(i18n.T(i18n.KeyBookingCancelledBody, to.Language), to.Name, session)
	return s.Send(ctx, "booking_cancelled", to.Email, to.Name, subject, body)
}

func (s *Service) SendSubscriptionApproved(ctx context.Context, to Recipient, credits int, expiresAt time.Time) error {
	subject := i18n.T(i18n.KeySubApprovedSubject, to.Language)
	body := fmt.Sprintf(i18n.T(i18n.KeySubApprovedBody, to.Language), to.Name, credits, expiresAt.Format("02/01/2006"))
	return s.Send(ctx, "subscription_approved", to.Email, to.Name, subject, body)
}

func (s *Service) SendSubscriptionRejected(ctx context.Context, to Recipient) error {
	subject := i18n.T(i18n.KeySubRejectedSubject, to.Language)
	body := fmt.Sprintf(i18n.T(i18n.KeySubRejectedBody, to.Language), to.Name)
	return s.Send(ctx, "subscription_rejected", to.Email, to.Name, subject, body)
}
