package bot

import (
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// BroadcastReport aggregates a fan-out run. No per-recipient detail is
// retained.
type BroadcastReport struct {
	Delivered int
	Failed    int
}

// Broadcaster copies one authored message to the full recipient set with a
// fixed minimum inter-send delay. A rate-limit signal carrying a suggested
// wait is honored and that one recipient retried exactly once; any other
// failure counts once and the run continues. One bad recipient never
// aborts the run.
type Broadcaster struct {
	sender Sender
	delay  time.Duration
	log    *zap.Logger

	// sleep is swappable for tests.
	sleep func(time.Duration)
}

func NewBroadcaster(sender Sender, delay time.Duration, log *zap.Logger) *Broadcaster {
	return &Broadcaster{
		sender: sender,
		delay:  delay,
		log:    log,
		sleep:  time.Sleep,
	}
}

// Run fans the message out to the snapshot of recipients taken by the
// caller. It is intended to run as a detached background task.
func (b *Broadcaster) Run(recipients []int64, fromChatID int64, messageID int) BroadcastReport {
	var report BroadcastReport
	for _, chatID := range recipients {
		if b.sendOnce(chatID, fromChatID, messageID) {
			report.Delivered++
		} else {
			report.Failed++
		}
		b.sleep(b.delay)
	}
	b.log.Info("broadcast finished",
		zap.Int("delivered", report.Delivered),
		zap.Int("failed", report.Failed),
		zap.Int("recipients", len(recipients)),
	)
	return report
}

func (b *Broadcaster) sendOnce(chatID, fromChatID int64, messageID int) bool {
	copyMsg := tgbotapi.NewCopyMessage(chatID, fromChatID, messageID)
	_, err := b.sender.Send(copyMsg)
	if err == nil {
		return true
	}

	if wait, ok := retryAfter(err); ok {
		b.sleep(wait)
		if _, err := b.sender.Send(copyMsg); err == nil {
			return true
		}
		return false
	}

	// Blocked or deleted account; recorded in the aggregate, not retried.
	b.log.Debug("broadcast recipient failed", zap.Int64("chat_id", chatID), zap.Error(err))
	return false
}

// retryAfter extracts the suggested wait from a too-many-requests error.
func retryAfter(err error) (time.Duration, bool) {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return time.Duration(apiErr.RetryAfter) * time.Second, true
	}
	return 0, false
}
