package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
)

// handlePayStart opens the payment sub-flow: the offer price is
// snapshotted into the draft and the buyer is asked for transfer evidence.
func (b *Bot) handlePayStart(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID
	lang := b.userLang(ctx, userID)

	productID, err := uuid.Parse(strings.TrimPrefix(callback.Data, "pay_"))
	if err != nil {
		return
	}

	latest, err := b.ledger.LatestForUser(ctx, userID)
	if err != nil {
		b.log.Error("latest payment lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if latest != nil {
		switch latest.Status {
		case model.PaymentPending:
			b.reply(callback.Message.Chat.ID, text(lang, "already_pending"))
			return
		case model.PaymentApproved:
			b.reply(callback.Message.Chat.ID, fmt.Sprintf(text(lang, "already_active"), latest.Title))
			return
		}
	}

	product, err := b.products.Get(ctx, productID)
	if err != nil {
		b.log.Error("product lookup failed", zap.String("product_id", productID.String()), zap.Error(err))
		return
	}
	if product == nil || !product.IsActive {
		b.reply(callback.Message.Chat.ID, text(lang, "no_product_found"))
		return
	}

	b.conv.Set(userID, State{
		Flow: FlowPayment,
		Payment: PaymentDraft{
			ProductID: product.ID,
			Title:     product.Title,
			Amount:    product.Price,
		},
	})

	invoice := fmt.Sprintf(text(lang, "invoice"),
		product.Title, product.Price.StringFixed(2), b.cfg.BankDetails)
	msg := tgbotapi.NewMessage(callback.Message.Chat.ID, invoice)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = cancelPaymentKeyboard(lang)
	b.send(msg)
}

// handlePaymentEvidence consumes the next message inside the payment
// sub-flow: a photo books the attempt, the cancel button aborts, anything
// else re-prompts.
func (b *Bot) handlePaymentEvidence(ctx context.Context, message *tgbotapi.Message, state State, lang string) {
	userID := message.From.ID

	if isButton(message.Text, "btn_cancel_pay") {
		b.conv.Clear(userID)
		msg := tgbotapi.NewMessage(message.Chat.ID, text(lang, "payment_cancelled"))
		msg.ReplyMarkup = mainMenuKeyboard(lang)
		b.send(msg)
		return
	}

	if len(message.Photo) == 0 {
		b.reply(message.Chat.ID, text(lang, "awaiting_photo"))
		return
	}

	// Last size is the largest rendition.
	evidenceRef := message.Photo[len(message.Photo)-1].FileID

	paymentID, err := b.ledger.Create(ctx, userID, state.Payment.ProductID, evidenceRef, state.Payment.Amount)
	if err != nil {
		b.log.Error("payment create failed", zap.Int64("user_id", userID), zap.Error(err))
		b.reply(message.Chat.ID, text(lang, "awaiting_photo"))
		return
	}
	b.conv.Clear(userID)
	b.stats.Invalidate()

	msg := tgbotapi.NewMessage(message.Chat.ID, text(lang, "receipt_logged"))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = mainMenuKeyboard(lang)
	b.send(msg)

	b.notifyReviewCard(message.From, state.Payment, paymentID, evidenceRef)
}

// notifyReviewCard posts the evidence photo with approve/reject controls
// to the operator log channel.
func (b *Bot) notifyReviewCard(from *tgbotapi.User, draft PaymentDraft, paymentID uuid.UUID, evidenceRef string) {
	if b.cfg.PaymentLogChatID == 0 {
		return
	}
	caption := fmt.Sprintf(
		"🔔 *NEW PAYMENT CLAIM*\n👤 %s (@%s)\n📦 %s\n💰 `%s ETB`\n🆔 `%s`",
		strings.TrimSpace(from.FirstName+" "+from.LastName), from.UserName,
		draft.Title, draft.Amount.StringFixed(2), paymentID,
	)
	chatID := b.cfg.PaymentLogChatID
	b.notifier.Submit("review-card", func() error {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(evidenceRef))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeMarkdown
		photo.ReplyMarkup = reviewCardKeyboard(paymentID)
		_, err := b.sender.Send(photo)
		return err
	})
}

// handleMyPlan reports the user's plan status from their latest payment.
func (b *Bot) handleMyPlan(ctx context.Context, chatID, userID int64, lang string) {
	latest, err := b.ledger.LatestForUser(ctx, userID)
	if err != nil {
		b.log.Error("latest payment lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if latest == nil {
		b.reply(chatID, text(lang, "plan_none"))
		return
	}
	switch latest.Status {
	case model.PaymentApproved:
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(text(lang, "plan_active"), latest.Title))
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.ReplyMarkup = viewPlanKeyboard(lang)
		b.send(msg)
	case model.PaymentPending:
		b.reply(chatID, text(lang, "plan_pending"))
	default:
		b.reply(chatID, text(lang, "plan_none"))
	}
}

// handleMyPlanCallback re-delivers the artifact of an approved plan.
func (b *Bot) handleMyPlanCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID
	lang := b.userLang(ctx, userID)

	latest, err := b.ledger.LatestForUser(ctx, userID)
	if err != nil {
		b.log.Error("latest payment lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if latest == nil || latest.Status != model.PaymentApproved {
		b.reply(callback.Message.Chat.ID, text(lang, "plan_none"))
		return
	}

	product, err := b.products.Get(ctx, latest.ProductID)
	if err != nil || product == nil {
		b.log.Error("plan artifact lookup failed",
			zap.String("product_id", latest.ProductID.String()), zap.Error(err))
		b.reply(callback.Message.Chat.ID, text(lang, "plan_none"))
		return
	}

	if err := b.dispatcher.Deliver(&model.FulfillmentPayload{
		PaymentID:   latest.ID,
		UserID:      userID,
		ArtifactRef: product.ArtifactRef,
		Language:    lang,
		Title:       product.Title,
	}); err != nil {
		b.reply(callback.Message.Chat.ID, text(lang, "plan_pending"))
	}
}

// handleUnlockPlan re-runs the offer for a completed profile, or restarts
// intake when the questionnaire was never finished.
func (b *Bot) handleUnlockPlan(ctx context.Context, chatID, userID int64, lang string) {
	latest, err := b.ledger.LatestForUser(ctx, userID)
	if err != nil {
		b.log.Error("latest payment lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if latest != nil {
		switch latest.Status {
		case model.PaymentPending:
			b.reply(chatID, text(lang, "already_pending"))
			return
		case model.PaymentApproved:
			b.reply(chatID, fmt.Sprintf(text(lang, "already_active"), latest.Title))
			return
		}
	}

	user, err := b.users.Get(ctx, userID)
	if err != nil {
		b.log.Error("user lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if user == nil || !user.OnboardingCompleted {
		b.conv.Set(userID, State{Flow: FlowOnboarding, Onboarding: StepLanguage})
		msg := tgbotapi.NewMessage(chatID, text(langEN, "welcome"))
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.ReplyMarkup = languageKeyboard()
		b.send(msg)
		return
	}

	product, err := b.matcher.MatchForUser(ctx, user)
	if err != nil {
		b.log.Error("product match failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if product == nil {
		b.reply(chatID, text(lang, "no_product_found"))
		return
	}

	offer := fmt.Sprintf(text(lang, "offer"), product.Title, product.Price.StringFixed(2))
	msg := tgbotapi.NewMessage(chatID, offer)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = payKeyboard(lang, product.ID)
	b.send(msg)
}
