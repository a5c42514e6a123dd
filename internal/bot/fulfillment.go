package bot

import (
	"fmt"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Dispatcher delivers purchased artifacts. Delivery is attempted exactly
// once; an unreachable recipient is not a ledger failure, the payment
// stays approved and the caller surfaces the miss to the operator for a
// manual resend.
type Dispatcher struct {
	sender Sender
	log    *zap.Logger
}

func NewDispatcher(sender Sender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, log: log}
}

// Deliver sends the artifact document to the buyer with a localized
// caption. The returned error means "tell the operator", nothing more.
func (d *Dispatcher) Deliver(payload *model.FulfillmentPayload) error {
	doc := tgbotapi.NewDocument(payload.UserID, tgbotapi.FileID(payload.ArtifactRef))
	doc.Caption = text(payload.Language, "delivery_caption")
	doc.ParseMode = tgbotapi.ModeMarkdown

	if _, err := d.sender.Send(doc); err != nil {
		d.log.Warn("artifact delivery failed",
			zap.String("payment_id", payload.PaymentID.String()),
			zap.Int64("user_id", payload.UserID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to deliver artifact for payment %s: %w", payload.PaymentID, err)
	}

	d.log.Info("artifact delivered",
		zap.String("payment_id", payload.PaymentID.String()),
		zap.Int64("user_id", payload.UserID),
	)
	return nil
}
