package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/service"
)

// Operator reply-keyboard labels. Like the buyer menu, the labels are the
// wire protocol.
const (
	btnAdminStats      = "📊 Business Stats"
	btnAdminPending    = "⏳ Pending Payments"
	btnAdminAddProduct = "📦 Add New Product"
	btnAdminBroadcast  = "📢 Global Broadcast"
	btnAdminManage     = "🛠 Manage Products"
	btnAdminAbort      = "❌ Abort Operation"
)

const adminPageSize = 5

// Product creation steps. Text steps are consumed by handleAdminMessage,
// keyboard steps by handleAdminCallback.
const (
	draftStepTitle = iota
	draftStepLanguage
	draftStepGender
	draftStepLevel
	draftStepFrequency
	draftStepPrice
	draftStepArtifact
)

// handleAdminMessage consumes operator reply-keyboard taps and text steps
// of the admin flows. It reports whether the message was handled; an
// unhandled message falls through to the regular buyer routing so an
// operator can still use the funnel.
func (b *Bot) handleAdminMessage(ctx context.Context, message *tgbotapi.Message) bool {
	userID := message.From.ID
	state := b.conv.Get(userID)

	if message.Text == btnAdminAbort {
		b.conv.Clear(userID)
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Operation aborted.")
		msg.ReplyMarkup = adminMenuKeyboard()
		b.send(msg)
		return true
	}

	switch message.Text {
	case btnAdminStats:
		b.handleAdminDashboard(ctx, message.Chat.ID)
		return true
	case btnAdminPending:
		b.sendPendingQueue(ctx, message.Chat.ID, 0)
		return true
	case btnAdminAddProduct:
		b.conv.Set(userID, State{Flow: FlowProductCreate, Product: ProductDraft{Step: draftStepTitle}})
		msg := tgbotapi.NewMessage(message.Chat.ID, "📦 *NEW PRODUCT*\n\nSend the product title:")
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.ReplyMarkup = adminAbortKeyboard()
		b.send(msg)
		return true
	case btnAdminBroadcast:
		b.conv.Set(userID, State{Flow: FlowBroadcast})
		msg := tgbotapi.NewMessage(message.Chat.ID, "📢 *GLOBAL BROADCAST*\n\nSend the message to deliver to every user. Text, photo or video all work.")
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.ReplyMarkup = adminAbortKeyboard()
		b.send(msg)
		return true
	case btnAdminManage:
		b.sendProductList(ctx, message.Chat.ID, 0)
		return true
	}

	switch state.Flow {
	case FlowProductCreate:
		return b.handleProductDraftMessage(ctx, message, state)
	case FlowRejection:
		return b.handleRejectionReason(ctx, message, state)
	case FlowBroadcast:
		return b.handleBroadcastDraft(ctx, message, state)
	}
	return false
}

// dashboardCard builds the stats card plus a short tail of recent
// payment activity.
func (b *Bot) dashboardCard(ctx context.Context) (string, error) {
	stats, err := b.stats.Get(ctx)
	if err != nil {
		return "", err
	}

	card := fmt.Sprintf(
		"📊 *BUSINESS DASHBOARD*\n————————————————————\n👥 Users: *%d*\n✅ Sales: *%d*\n💰 Revenue: `%s ETB`\n⏳ Pending reviews: *%d*",
		stats.Users, stats.Sales, stats.Revenue.StringFixed(2), stats.PendingCount,
	)

	recent, err := b.ledger.Recent(ctx, adminPageSize)
	if err != nil {
		b.log.Warn("recent payments load failed", zap.Error(err))
		return card, nil
	}
	if len(recent) > 0 {
		card += "\n\n🕘 *Recent activity:*"
		icons := map[model.PaymentStatus]string{
			model.PaymentPending:  "⏳",
			model.PaymentApproved: "✅",
			model.PaymentRejected: "❌",
		}
		for _, p := range recent {
			card += fmt.Sprintf("\n%s %s · `%s ETB` · %s",
				icons[p.Status], p.FullName, p.Amount.StringFixed(2),
				p.CreatedAt.Format("Jan 2 15:04"))
		}
	}
	return card, nil
}

func (b *Bot) handleAdminDashboard(ctx context.Context, chatID int64) {
	card, err := b.dashboardCard(ctx)
	if err != nil {
		b.log.Error("stats load failed", zap.Error(err))
		b.reply(chatID, "⚠️ Could not load stats.")
		return
	}

	msg := tgbotapi.NewMessage(chatID, card)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = statsRefreshKeyboard()
	b.send(msg)

	points, err := b.payments.RevenueByDay(ctx, 30)
	if err != nil {
		b.log.Warn("revenue series load failed", zap.Error(err))
		return
	}
	png, err := b.charts.RevenueChart(points)
	if err != nil {
		b.log.Warn("revenue chart render failed", zap.Error(err))
		return
	}
	if png == nil {
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "revenue.png", Bytes: png})
	photo.Caption = "📈 Approved revenue, last 30 days"
	b.send(photo)
}

func (b *Bot) handleAdminCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	data := callback.Data
	var toast string

	switch {
	case strings.HasPrefix(data, "approve_"):
		toast = b.handleApprove(ctx, callback)
	case strings.HasPrefix(data, "reject_confirm"):
		toast = b.handleRejectConfirm(ctx, callback)
	case data == "reject_edit":
		toast = b.handleRejectEdit(callback)
	case data == "reject_abort":
		toast = b.handleRejectAbort(callback)
	case strings.HasPrefix(data, "reject_"):
		toast = b.handleRejectStart(ctx, callback)
	case strings.HasPrefix(data, "view_pay_"):
		toast = b.handleViewPayment(ctx, callback)
	case strings.HasPrefix(data, "paypage_"):
		toast = b.handlePendingPage(ctx, callback)
	case data == "refresh_admin_stats":
		toast = b.handleStatsRefresh(ctx, callback)
	case strings.HasPrefix(data, "manage_view_"):
		toast = b.handleProductView(ctx, callback)
	case strings.HasPrefix(data, "toggle_prod_"):
		toast = b.handleProductToggle(ctx, callback)
	case strings.HasPrefix(data, "confirm_del_"):
		toast = b.handleProductDeleteConfirm(ctx, callback)
	case strings.HasPrefix(data, "force_del_"):
		toast = b.handleProductDelete(ctx, callback)
	case strings.HasPrefix(data, "prodpage_"):
		toast = b.handleProductPage(ctx, callback)
	case strings.HasPrefix(data, "set_lang_"),
		strings.HasPrefix(data, "set_gen_"),
		strings.HasPrefix(data, "set_lvl_"),
		strings.HasPrefix(data, "set_frq_"):
		toast = b.handleProductDraftCallback(ctx, callback)
	case data == "confirm_launch":
		toast = b.handleBroadcastLaunch(ctx, callback)
	case data == "broadcast_edit":
		toast = b.handleBroadcastEdit(callback)
	}

	b.answerCallback(callback.ID, toast)
}

// handleApprove runs the conditional approval. A miss means another
// operator got there first; the card is left for them to update.
func (b *Bot) handleApprove(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	id, err := uuid.Parse(strings.TrimPrefix(callback.Data, "approve_"))
	if err != nil {
		return "Bad payment id"
	}

	payload, err := b.ledger.Approve(ctx, id)
	if errors.Is(err, service.ErrAlreadyResolved) {
		return "Already resolved by another admin"
	}
	if err != nil {
		b.log.Error("approve failed", zap.String("payment_id", id.String()), zap.Error(err))
		return "Approval failed, try again"
	}
	b.stats.Invalidate()

	deliverErr := b.dispatcher.Deliver(payload)

	status := "✅ APPROVED & DELIVERED"
	if deliverErr != nil {
		status = "⚠️ APPROVED, DELIVERY FAILED. Resend from the product card."
	}
	b.editReviewCaption(callback, status)

	if deliverErr != nil {
		return "Approved, but delivery failed"
	}
	return "Approved"
}

// handleRejectStart opens the nested reason flow for one payment.
func (b *Bot) handleRejectStart(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	id, err := uuid.Parse(strings.TrimPrefix(callback.Data, "reject_"))
	if err != nil {
		return "Bad payment id"
	}

	detail, err := b.ledger.Detail(ctx, id)
	if err != nil || detail == nil {
		return "Payment not found"
	}
	if detail.Status != model.PaymentPending {
		return "Already resolved by another admin"
	}

	b.conv.Set(callback.From.ID, State{Flow: FlowRejection, Rejection: RejectionDraft{PaymentID: id}})

	msg := tgbotapi.NewMessage(callback.Message.Chat.ID,
		fmt.Sprintf("🚩 *REJECTING PAYMENT* `%s`\n\nType the reason shown to the buyer:", id))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = adminAbortKeyboard()
	b.send(msg)
	return ""
}

// handleRejectionReason captures the typed reason and previews the exact
// message the buyer will receive before anything is committed.
func (b *Bot) handleRejectionReason(ctx context.Context, message *tgbotapi.Message, state State) bool {
	if state.Rejection.Confirming || strings.TrimSpace(message.Text) == "" {
		return false
	}

	state.Rejection.Reason = strings.TrimSpace(message.Text)
	state.Rejection.Confirming = true
	b.conv.Set(message.From.ID, state)

	detail, err := b.ledger.Detail(ctx, state.Rejection.PaymentID)
	if err != nil || detail == nil {
		b.conv.Clear(message.From.ID)
		b.reply(message.Chat.ID, "⚠️ Payment disappeared, aborting.")
		return true
	}

	preview := fmt.Sprintf(text(detail.Language, "declined"),
		detail.Amount.StringFixed(2), state.Rejection.Reason)
	msg := tgbotapi.NewMessage(message.Chat.ID,
		"👁 *PREVIEW* (what the buyer sees):\n\n"+preview)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = rejectionConfirmKeyboard()
	b.send(msg)
	return true
}

func (b *Bot) handleRejectConfirm(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	state := b.conv.Get(callback.From.ID)
	if state.Flow != FlowRejection || !state.Rejection.Confirming {
		return "Nothing to confirm"
	}

	id := state.Rejection.PaymentID
	detail, err := b.ledger.Detail(ctx, id)
	if err != nil || detail == nil {
		b.conv.Clear(callback.From.ID)
		return "Payment not found"
	}

	err = b.ledger.Reject(ctx, id)
	if errors.Is(err, service.ErrAlreadyResolved) {
		b.conv.Clear(callback.From.ID)
		return "Already resolved by another admin"
	}
	if err != nil {
		// The typed reason survives a transient store failure; the same
		// confirm tap retries it.
		b.log.Error("reject failed", zap.String("payment_id", id.String()), zap.Error(err))
		return "Rejection failed, try again"
	}
	b.conv.Clear(callback.From.ID)
	b.stats.Invalidate()

	declined := fmt.Sprintf(text(detail.Language, "declined"),
		detail.Amount.StringFixed(2), state.Rejection.Reason)
	buyerID := detail.UserID
	b.notifier.Submit("declined-notice", func() error {
		msg := tgbotapi.NewMessage(buyerID, declined)
		msg.ParseMode = tgbotapi.ModeMarkdown
		_, err := b.sender.Send(msg)
		return err
	})

	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID,
		fmt.Sprintf("❌ *REJECTED* `%s`\n🚩 %s", id, state.Rejection.Reason), nil)
	return "Rejected"
}

func (b *Bot) handleRejectEdit(callback *tgbotapi.CallbackQuery) string {
	state := b.conv.Get(callback.From.ID)
	if state.Flow != FlowRejection {
		return "Nothing to edit"
	}
	state.Rejection.Confirming = false
	state.Rejection.Reason = ""
	b.conv.Set(callback.From.ID, state)

	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID,
		"✍️ Type the new rejection reason:", nil)
	return ""
}

func (b *Bot) handleRejectAbort(callback *tgbotapi.CallbackQuery) string {
	b.conv.Clear(callback.From.ID)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID,
		"❌ Rejection aborted. The payment is still pending.", nil)
	msg := tgbotapi.NewMessage(callback.Message.Chat.ID, "Choose an action:")
	msg.ReplyMarkup = adminMenuKeyboard()
	b.send(msg)
	return "Aborted"
}

func (b *Bot) handleViewPayment(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	id, err := uuid.Parse(strings.TrimPrefix(callback.Data, "view_pay_"))
	if err != nil {
		return "Bad payment id"
	}
	detail, err := b.ledger.Detail(ctx, id)
	if err != nil || detail == nil {
		return "Payment not found"
	}

	caption := fmt.Sprintf(
		"🔍 *PAYMENT REVIEW*\n👤 %s (@%s)\n📦 %s\n💰 `%s ETB`\n📅 %s\n🆔 `%s`",
		detail.FullName, detail.Username, detail.Title,
		detail.Amount.StringFixed(2),
		detail.CreatedAt.Format("2006-01-02 15:04"),
		detail.ID,
	)
	photo := tgbotapi.NewPhoto(callback.Message.Chat.ID, tgbotapi.FileID(detail.EvidenceRef))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	if detail.Status == model.PaymentPending {
		photo.ReplyMarkup = reviewCardKeyboard(detail.ID)
	}
	b.send(photo)
	return ""
}

func (b *Bot) sendPendingQueue(ctx context.Context, chatID int64, page int) {
	details, count, err := b.ledger.PendingQueue(ctx, adminPageSize, page*adminPageSize)
	if err != nil {
		b.log.Error("pending queue load failed", zap.Error(err))
		b.reply(chatID, "⚠️ Could not load the queue.")
		return
	}
	if count == 0 {
		b.reply(chatID, "✅ No payments waiting for review.")
		return
	}

	totalPages := int((count + adminPageSize - 1) / adminPageSize)
	body := fmt.Sprintf("⏳ *PENDING PAYMENTS* (%d total, page %d/%d)", count, page+1, totalPages)
	msg := tgbotapi.NewMessage(chatID, body)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = pendingQueueKeyboard(details, page, totalPages)
	b.send(msg)
}

func (b *Bot) handlePendingPage(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	page, err := strconv.Atoi(strings.TrimPrefix(callback.Data, "paypage_"))
	if err != nil || page < 0 {
		return ""
	}
	details, count, err := b.ledger.PendingQueue(ctx, adminPageSize, page*adminPageSize)
	if err != nil {
		b.log.Error("pending queue load failed", zap.Error(err))
		return "Load failed"
	}
	if count == 0 {
		b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID,
			"✅ No payments waiting for review.", nil)
		return ""
	}

	totalPages := int((count + adminPageSize - 1) / adminPageSize)
	body := fmt.Sprintf("⏳ *PENDING PAYMENTS* (%d total, page %d/%d)", count, page+1, totalPages)
	kb := pendingQueueKeyboard(details, page, totalPages)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, body, &kb)
	return ""
}

func (b *Bot) handleStatsRefresh(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	b.stats.Invalidate()
	card, err := b.dashboardCard(ctx)
	if err != nil {
		b.log.Error("stats load failed", zap.Error(err))
		return "Refresh failed"
	}
	kb := statsRefreshKeyboard()
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, card, &kb)
	return "Refreshed"
}

// Product management.

func (b *Bot) sendProductList(ctx context.Context, chatID int64, page int) {
	products, err := b.products.List(ctx, adminPageSize, page*adminPageSize)
	if err != nil {
		b.log.Error("product list load failed", zap.Error(err))
		b.reply(chatID, "⚠️ Could not load products.")
		return
	}
	count, err := b.products.Count(ctx)
	if err != nil {
		b.log.Error("product count failed", zap.Error(err))
		return
	}
	if count == 0 {
		b.reply(chatID, "📭 The catalog is empty. Use 'Add New Product' first.")
		return
	}

	totalPages := int((count + adminPageSize - 1) / adminPageSize)
	body := fmt.Sprintf("🛠 *PRODUCT CATALOG* (%d total, page %d/%d)", count, page+1, totalPages)
	msg := tgbotapi.NewMessage(chatID, body)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = productListKeyboard(products, page, totalPages)
	b.send(msg)
}

func (b *Bot) handleProductPage(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	page, err := strconv.Atoi(strings.TrimPrefix(callback.Data, "prodpage_"))
	if err != nil || page < 0 {
		return ""
	}
	products, err := b.products.List(ctx, adminPageSize, page*adminPageSize)
	if err != nil {
		b.log.Error("product list load failed", zap.Error(err))
		return "Load failed"
	}
	count, err := b.products.Count(ctx)
	if err != nil || count == 0 {
		b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID,
			"📭 The catalog is empty.", nil)
		return ""
	}

	totalPages := int((count + adminPageSize - 1) / adminPageSize)
	body := fmt.Sprintf("🛠 *PRODUCT CATALOG* (%d total, page %d/%d)", count, page+1, totalPages)
	kb := productListKeyboard(products, page, totalPages)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, body, &kb)
	return ""
}

func (b *Bot) productCard(p *model.Product) string {
	status := "🔴 Inactive"
	if p.IsActive {
		status = "🟢 Active"
	}
	return fmt.Sprintf(
		"📦 *%s*\n————————————————————\n🌐 %s | %s | %s\n📆 %d days/week\n💰 `%s ETB`\n%s\n🆔 `%s`",
		p.Title, p.Language, p.Gender, p.Level,
		p.Frequency, p.Price.StringFixed(2), status, p.ID,
	)
}

func (b *Bot) handleProductView(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	id, err := uuid.Parse(strings.TrimPrefix(callback.Data, "manage_view_"))
	if err != nil {
		return "Bad product id"
	}
	product, err := b.products.Get(ctx, id)
	if err != nil || product == nil {
		return "Product not found"
	}
	kb := productDetailKeyboard(product.ID, product.IsActive)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, b.productCard(product), &kb)
	return ""
}

func (b *Bot) handleProductToggle(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	id, err := uuid.Parse(strings.TrimPrefix(callback.Data, "toggle_prod_"))
	if err != nil {
		return "Bad product id"
	}
	if err := b.products.ToggleActive(ctx, id); err != nil {
		b.log.Error("product toggle failed", zap.String("product_id", id.String()), zap.Error(err))
		return "Toggle failed"
	}
	product, err := b.products.Get(ctx, id)
	if err != nil || product == nil {
		return "Product not found"
	}
	kb := productDetailKeyboard(product.ID, product.IsActive)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, b.productCard(product), &kb)
	if product.IsActive {
		return "Activated"
	}
	return "Deactivated"
}

func (b *Bot) handleProductDeleteConfirm(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	id, err := uuid.Parse(strings.TrimPrefix(callback.Data, "confirm_del_"))
	if err != nil {
		return "Bad product id"
	}
	product, err := b.products.Get(ctx, id)
	if err != nil || product == nil {
		return "Product not found"
	}
	kb := deleteConfirmKeyboard(id)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID,
		fmt.Sprintf("⚠️ *DELETE '%s'?*\n\nBuyers who already received it keep their files, but matching and re-delivery stop working. This cannot be undone.", product.Title),
		&kb)
	return ""
}

func (b *Bot) handleProductDelete(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	id, err := uuid.Parse(strings.TrimPrefix(callback.Data, "force_del_"))
	if err != nil {
		return "Bad product id"
	}
	if err := b.products.Delete(ctx, id); err != nil {
		b.log.Error("product delete failed", zap.String("product_id", id.String()), zap.Error(err))
		return "Delete failed"
	}
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, "🗑 Product deleted.", nil)
	b.sendProductList(ctx, callback.Message.Chat.ID, 0)
	return "Deleted"
}

// Product creation flow.

func (b *Bot) handleProductDraftMessage(ctx context.Context, message *tgbotapi.Message, state State) bool {
	switch state.Product.Step {
	case draftStepTitle:
		title := strings.TrimSpace(message.Text)
		if title == "" {
			b.reply(message.Chat.ID, "The title cannot be empty. Send the product title:")
			return true
		}
		state.Product.Title = title
		state.Product.Step = draftStepLanguage
		b.conv.Set(message.From.ID, state)
		msg := tgbotapi.NewMessage(message.Chat.ID, "🌐 Which language is this plan written in?")
		msg.ReplyMarkup = adminProductLangKeyboard()
		b.send(msg)
		return true

	case draftStepPrice:
		price, err := decimal.NewFromString(strings.TrimSpace(message.Text))
		if err != nil || price.IsNegative() {
			b.reply(message.Chat.ID, "Send the price as a number, like `1500` or `1499.99`:")
			return true
		}
		state.Product.Price = price
		state.Product.Step = draftStepArtifact
		b.conv.Set(message.From.ID, state)
		b.reply(message.Chat.ID, "📎 Finally, upload the plan file (PDF or document):")
		return true

	case draftStepArtifact:
		if message.Document == nil {
			b.reply(message.Chat.ID, "📎 Upload the plan as a document, or abort below.")
			return true
		}
		product := &model.Product{
			Title:       state.Product.Title,
			Language:    state.Product.Language,
			Gender:      state.Product.Gender,
			Level:       state.Product.Level,
			Frequency:   state.Product.Frequency,
			Price:       state.Product.Price,
			ArtifactRef: message.Document.FileID,
			IsActive:    true,
		}
		if err := b.products.Create(ctx, product); err != nil {
			b.log.Error("product create failed", zap.Error(err))
			b.reply(message.Chat.ID, "⚠️ Saving failed, try uploading again.")
			return true
		}
		b.conv.Clear(message.From.ID)

		msg := tgbotapi.NewMessage(message.Chat.ID, "✅ *PRODUCT LIVE*\n\n"+b.productCard(product))
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.ReplyMarkup = adminMenuKeyboard()
		b.send(msg)
		return true
	}

	// Keyboard steps ignore stray text.
	b.reply(message.Chat.ID, "Use the buttons above, or abort below.")
	return true
}

func (b *Bot) handleProductDraftCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	state := b.conv.Get(callback.From.ID)
	if state.Flow != FlowProductCreate {
		return "No product draft in progress"
	}
	data := callback.Data

	switch {
	case strings.HasPrefix(data, "set_lang_") && state.Product.Step == draftStepLanguage:
		state.Product.Language = strings.TrimPrefix(data, "set_lang_")
		state.Product.Step = draftStepGender
		b.conv.Set(callback.From.ID, state)
		kb := adminProductGenderKeyboard()
		b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, "🧬 Who is this plan for?", &kb)

	case strings.HasPrefix(data, "set_gen_") && state.Product.Step == draftStepGender:
		state.Product.Gender = strings.TrimPrefix(data, "set_gen_")
		state.Product.Step = draftStepLevel
		b.conv.Set(callback.From.ID, state)
		kb := adminProductLevelKeyboard()
		b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, "⚖️ Which experience level?", &kb)

	case strings.HasPrefix(data, "set_lvl_") && state.Product.Step == draftStepLevel:
		state.Product.Level = strings.TrimPrefix(data, "set_lvl_")
		state.Product.Step = draftStepFrequency
		b.conv.Set(callback.From.ID, state)
		kb := adminProductFreqKeyboard()
		b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, "📆 How many training days per week?", &kb)

	case strings.HasPrefix(data, "set_frq_") && state.Product.Step == draftStepFrequency:
		freq, err := strconv.Atoi(strings.TrimPrefix(data, "set_frq_"))
		if err != nil {
			return "Bad frequency"
		}
		state.Product.Frequency = freq
		state.Product.Step = draftStepPrice
		b.conv.Set(callback.From.ID, state)
		b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID,
			"💰 Send the price in ETB (numbers only):", nil)

	default:
		return "Out of order, use the current step"
	}
	return ""
}

// Broadcast flow.

// handleBroadcastDraft captures the authored message and previews it by
// copying it back to the operator. Copying preserves media exactly as the
// audience will receive it.
func (b *Bot) handleBroadcastDraft(ctx context.Context, message *tgbotapi.Message, state State) bool {
	if state.Broadcast.Confirming {
		return false
	}

	state.Broadcast.FromChatID = message.Chat.ID
	state.Broadcast.MessageID = message.MessageID
	state.Broadcast.Confirming = true
	b.conv.Set(message.From.ID, state)

	b.reply(message.Chat.ID, "👁 *PREVIEW* (what every user receives):")
	b.send(tgbotapi.NewCopyMessage(message.Chat.ID, message.Chat.ID, message.MessageID))

	count, err := b.users.Count(ctx)
	if err != nil {
		b.log.Warn("audience count failed", zap.Error(err))
	}
	msg := tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("🎯 Audience: *%d users*. Launch?", count))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = broadcastConfirmKeyboard()
	b.send(msg)
	return true
}

// handleBroadcastLaunch snapshots the audience and runs the fan-out off
// the hot path. The completion report lands in the operator's chat.
func (b *Bot) handleBroadcastLaunch(ctx context.Context, callback *tgbotapi.CallbackQuery) string {
	state := b.conv.Get(callback.From.ID)
	if state.Flow != FlowBroadcast || !state.Broadcast.Confirming {
		return "No broadcast draft"
	}
	draft := state.Broadcast
	b.conv.Clear(callback.From.ID)

	recipients, err := b.users.AllIDs(ctx)
	if err != nil {
		b.log.Error("audience snapshot failed", zap.Error(err))
		return "Could not load the audience"
	}

	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID,
		fmt.Sprintf("🚀 *BROADCAST LAUNCHED* to %d users. Report follows when done.", len(recipients)), nil)

	operatorChat := callback.Message.Chat.ID
	b.notifier.Submit("broadcast", func() error {
		report := b.broadcaster.Run(recipients, draft.FromChatID, draft.MessageID)
		msg := tgbotapi.NewMessage(operatorChat, fmt.Sprintf(
			"🏁 *BROADCAST COMPLETE*\n✅ Delivered: %d\n❌ Failed: %d",
			report.Delivered, report.Failed))
		msg.ParseMode = tgbotapi.ModeMarkdown
		_, err := b.sender.Send(msg)
		return err
	})
	return "Launched"
}

func (b *Bot) handleBroadcastEdit(callback *tgbotapi.CallbackQuery) string {
	state := b.conv.Get(callback.From.ID)
	if state.Flow != FlowBroadcast {
		return "No broadcast draft"
	}
	state.Broadcast = BroadcastDraft{}
	b.conv.Set(callback.From.ID, state)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID,
		"✍️ Send the new broadcast message:", nil)
	return ""
}

// editReviewCaption appends the decision line to a review card photo.
func (b *Bot) editReviewCaption(callback *tgbotapi.CallbackQuery, status string) {
	caption := callback.Message.Caption
	if caption != "" {
		caption += "\n\n"
	}
	edit := tgbotapi.NewEditMessageCaption(callback.Message.Chat.ID, callback.Message.MessageID, caption+status)
	b.send(edit)
}
