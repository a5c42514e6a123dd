package bot

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/charts"
	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/config"
	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/repository"
	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/service"
)

// Sender is the slice of the Telegram client the handlers need. *BotAPI
// satisfies it; tests swap in a fake.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api    *tgbotapi.BotAPI
	sender Sender
	cfg    *config.Config
	log    *zap.Logger

	conv        *ConversationStore
	limiter     *RateLimiter
	notifier    *Notifier
	dispatcher  *Dispatcher
	broadcaster *Broadcaster

	ledger   *service.PaymentLedger
	matcher  *service.ProductMatcher
	stats    *service.StatsCache
	users    repository.UserRepository
	products repository.ProductRepository
	payments repository.PaymentRepository
	charts   *charts.Renderer
}

func NewBot(
	cfg *config.Config,
	log *zap.Logger,
	ledger *service.PaymentLedger,
	matcher *service.ProductMatcher,
	stats *service.StatsCache,
	users repository.UserRepository,
	products repository.ProductRepository,
	payments repository.PaymentRepository,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		api:      api,
		sender:   api,
		cfg:      cfg,
		log:      log,
		ledger:   ledger,
		matcher:  matcher,
		stats:    stats,
		users:    users,
		products: products,
		payments: payments,
		charts:   charts.NewRenderer(),
	}
	b.conv = NewConversationStore(cfg.ConversationTTL, log)
	b.limiter = NewRateLimiter(cfg.MessageInterval, cfg.CallbackInterval)
	b.notifier = NewNotifier(2, 64, log)
	b.dispatcher = NewDispatcher(api, log)
	b.broadcaster = NewBroadcaster(api, cfg.BroadcastDelay, log)
	return b, nil
}

// Start runs the bot in long polling mode until Stop is called.
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.log.Info("bot started", zap.String("username", b.api.Self.UserName))
	for update := range updates {
		b.handleUpdate(update)
	}
	return nil
}

// RegisterWebhook points Telegram at baseURL/webhook. Long polling must
// not run at the same time.
func (b *Bot) RegisterWebhook(baseURL string) error {
	wh, err := tgbotapi.NewWebhook(strings.TrimRight(baseURL, "/") + "/webhook")
	if err != nil {
		return err
	}
	_, err = b.api.Request(wh)
	return err
}

// HandleWebhook is the entry point for webhook-delivered updates.
func (b *Bot) HandleWebhook(body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}
	b.handleUpdate(update)
	return nil
}

// Stop shuts the bot down: polling stops, background loops halt, queued
// notifications drain.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	b.limiter.Stop()
	b.conv.Stop()
	b.notifier.Close()
	b.stats.Clear()
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			b.log.Error("update handler panicked", zap.Any("panic", rec))
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	if !b.limiter.Allow(ClassMessage, message.From.ID) {
		return
	}

	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "admin":
		if b.cfg.IsAdmin(message.From.ID) {
			b.handleAdminDashboard(ctx, message.Chat.ID)
		}
	case "help":
		lang := b.userLang(ctx, message.From.ID)
		b.reply(message.Chat.ID, text(lang, "help"))
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID

	if !b.limiter.Allow(ClassCallback, userID) {
		b.answerCallback(callback.ID, text(b.userLang(ctx, userID), "slow_down"))
		return
	}

	data := callback.Data
	switch {
	// Onboarding intake.
	case strings.HasPrefix(data, "lang_"):
		b.handleLanguageAnswer(ctx, callback)
	case strings.HasPrefix(data, "gender_"):
		b.handleGenderAnswer(ctx, callback)
	case strings.HasPrefix(data, "goal_"):
		b.handleGoalAnswer(ctx, callback)
	case strings.HasPrefix(data, "level_"):
		b.handleLevelAnswer(ctx, callback)
	case strings.HasPrefix(data, "obs_"):
		b.handleObstacleAnswer(ctx, callback)
	case strings.HasPrefix(data, "freq_"):
		b.handleFrequencyAnswer(ctx, callback)

	// Buyer surface.
	case strings.HasPrefix(data, "pay_"):
		b.handlePayStart(ctx, callback)
	case data == "view_current_plan":
		b.handleMyPlanCallback(ctx, callback)

	// Operator surface. Every branch below is gated.
	default:
		if !b.cfg.IsAdmin(userID) {
			b.answerCallback(callback.ID, "")
			return
		}
		b.handleAdminCallback(ctx, callback)
		return
	}

	b.answerCallback(callback.ID, "")
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	if !b.limiter.Allow(ClassMessage, userID) {
		return
	}

	if b.cfg.IsAdmin(userID) && b.handleAdminMessage(ctx, message) {
		return
	}

	state := b.conv.Get(userID)
	lang := b.userLang(ctx, userID)

	if state.Flow == FlowPayment {
		b.handlePaymentEvidence(ctx, message, state, lang)
		return
	}

	switch {
	case isButton(message.Text, "btn_my_plan"):
		b.handleMyPlan(ctx, message.Chat.ID, userID, lang)
	case isButton(message.Text, "btn_unlock"):
		b.handleUnlockPlan(ctx, message.Chat.ID, userID, lang)
	case isButton(message.Text, "btn_help"):
		b.reply(message.Chat.ID, text(lang, "help"))
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, text(lang, "menu"))
		msg.ReplyMarkup = mainMenuKeyboard(lang)
		b.send(msg)
	}
}

// isButton matches a reply-keyboard label in any supported language. The
// labels double as the wire protocol for reply keyboards.
func isButton(got, key string) bool {
	return got == texts[langEN][key] || got == texts[langAM][key]
}

// userLang resolves the user's language, preferring in-flight onboarding
// answers over the stored profile. Unknown users get English.
func (b *Bot) userLang(ctx context.Context, userID int64) string {
	if state := b.conv.Get(userID); state.Answers.Language != "" {
		return state.Answers.Language
	}
	user, err := b.users.Get(ctx, userID)
	if err != nil || user == nil || user.Language == "" {
		return langEN
	}
	return user.Language
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.sender.Send(c); err != nil {
		b.log.Warn("send failed", zap.Error(err))
	}
}

func (b *Bot) reply(chatID int64, body string) {
	msg := tgbotapi.NewMessage(chatID, body)
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.send(msg)
}

func (b *Bot) answerCallback(id, toast string) {
	if _, err := b.sender.Request(tgbotapi.NewCallback(id, toast)); err != nil {
		b.log.Debug("callback answer failed", zap.Error(err))
	}
}

func (b *Bot) editMessage(chatID int64, messageID int, body string, markup *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, body)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = markup
	b.send(edit)
}
