// internal/app/status_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// StatusService runs poll cycles against the homework API and reports
// status changes and failures to a single chat.
// It is not safe for concurrent use; cycles must run one at a time.
type StatusService struct {
	api            homework.API
	telegramClient domainTelegram.Client
	chatID         int64
	lookback       time.Duration
	logger         *logrus.Logger
	now            func() time.Time

	lastMessage string
	lastError   string
}

func NewStatusService(
	api homework.API,
	tc domainTelegram.Client,
	chatID int64,
	lookback time.Duration,
	logger *logrus.Logger,
) *StatusService {
	return &StatusService{
		api:            api,
		telegramClient: tc,
		chatID:         chatID,
		lookback:       lookback,
		logger:         logger,
		now:            time.Now,
	}
}

// RunCycle performs one poll cycle. Every failure is handled here, so the
// caller only needs to schedule the next cycle.
func (s *StatusService) RunCycle(ctx context.Context) {
	err := s.checkStatus(ctx)
	if err == nil {
		s.lastError = ""
		return
	}
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		s.logger.WithError(err).Debug("Poll cycle interrupted by shutdown")
		return
	}

	s.logger.WithError(err).Error("Poll cycle failed")
	text := err.Error()
	if text == s.lastError {
		s.logger.Debug("Same error already reported, not notifying again")
		return
	}
	s.notify(ctx, fmt.Sprintf("Сбой в работе программы: %s", text))
	s.lastError = text
}

func (s *StatusService) checkStatus(ctx context.Context) error {
	fromDate := homework.WindowStart(s.now(), s.lookback)

	payload, err := s.api.HomeworkStatuses(ctx, fromDate)
	if err != nil {
		return err
	}
	records, err := homework.ParseResponse(payload)
	if err != nil {
		return err
	}
	// Only the most recent submission is tracked.
	latest, err := homework.Latest(records)
	if err != nil {
		return err
	}
	message, err := homework.StatusMessage(latest)
	if err != nil {
		return err
	}

	log := s.logger.WithFields(logrus.Fields{
		"homework":  *latest.Name,
		"status":    *latest.Status,
		"from_date": fromDate,
	})
	if !homework.HasChanged(message, s.lastMessage) {
		log.Debug("No new homework statuses")
		return nil
	}
	changed := logrus.Fields{
		"homework_id": latest.ID,
		"lesson_name": latest.LessonName,
	}
	if !latest.DateUpdated.IsZero() {
		changed["date_updated"] = latest.DateUpdated.Format(time.RFC3339)
	}
	if latest.ReviewerComment != "" {
		changed["reviewer_comment"] = latest.ReviewerComment
	}
	log.WithFields(changed).Info("Homework status changed")
	s.notify(ctx, message)
	s.lastMessage = message
	return nil
}

// notify sends text to the configured chat. Delivery failures are logged only.
func (s *StatusService) notify(ctx context.Context, text string) {
	log := s.logger.WithField("chat_id", s.chatID)
	if err := s.telegramClient.SendMessage(ctx, s.chatID, text, &telebot.SendOptions{ParseMode: telebot.ModeDefault}); err != nil {
		log.WithError(err).Errorf("Failed to send message %q", text)
		return
	}
	log.Infof("Sent message %q", text)
}

// LastMessage returns the most recent status message sent.
func (s *StatusService) LastMessage() string {
	return s.lastMessage
}
