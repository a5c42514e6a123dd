package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
)

// handleStart registers the user on first contact and opens the intake.
// Restarting mid-flow resets the questionnaire from the top.
func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	user := &model.User{
		TelegramID: message.From.ID,
		FullName:   strings.TrimSpace(message.From.FirstName + " " + message.From.LastName),
		Username:   message.From.UserName,
	}
	if err := b.users.Upsert(ctx, user); err != nil {
		b.log.Error("user upsert failed", zap.Int64("user_id", message.From.ID), zap.Error(err))
	}

	b.conv.Set(message.From.ID, State{Flow: FlowOnboarding, Onboarding: StepLanguage})

	msg := tgbotapi.NewMessage(message.Chat.ID, text(langEN, "welcome"))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = languageKeyboard()
	b.send(msg)

	if b.cfg.IsAdmin(message.From.ID) {
		adminMsg := tgbotapi.NewMessage(message.Chat.ID, "🛡 Operator controls enabled.")
		adminMsg.ReplyMarkup = adminMenuKeyboard()
		b.send(adminMsg)
	}
}

// onboardingState returns the in-flight state if the user is at the given
// step, or false for stale and out-of-order taps, which are dropped.
func (b *Bot) onboardingState(userID int64, step OnboardingStep) (State, bool) {
	state := b.conv.Get(userID)
	if state.Flow != FlowOnboarding || state.Onboarding != step {
		return State{}, false
	}
	return state, true
}

func (b *Bot) handleLanguageAnswer(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	state, ok := b.onboardingState(callback.From.ID, StepLanguage)
	if !ok {
		return
	}
	lang := strings.TrimPrefix(callback.Data, "lang_")
	if lang != langEN && lang != langAM {
		return
	}

	state.Answers.Language = lang
	state.Onboarding = StepGender
	b.conv.Set(callback.From.ID, state)

	kb := genderKeyboard(lang)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, text(lang, "ask_gender"), &kb)
}

func (b *Bot) handleGenderAnswer(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	state, ok := b.onboardingState(callback.From.ID, StepGender)
	if !ok {
		return
	}
	state.Answers.Gender = strings.TrimPrefix(callback.Data, "gender_")
	state.Onboarding = StepGoal
	b.conv.Set(callback.From.ID, state)

	lang := state.Answers.Language
	kb := goalKeyboard(lang)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, text(lang, "ask_goal"), &kb)
}

func (b *Bot) handleGoalAnswer(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	state, ok := b.onboardingState(callback.From.ID, StepGoal)
	if !ok {
		return
	}
	state.Answers.Goal = strings.TrimPrefix(callback.Data, "goal_")
	state.Onboarding = StepLevel
	b.conv.Set(callback.From.ID, state)

	lang := state.Answers.Language
	kb := levelKeyboard(lang)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, text(lang, "ask_level"), &kb)
}

func (b *Bot) handleLevelAnswer(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	state, ok := b.onboardingState(callback.From.ID, StepLevel)
	if !ok {
		return
	}
	state.Answers.Level = strings.TrimPrefix(callback.Data, "level_")
	state.Onboarding = StepObstacle
	b.conv.Set(callback.From.ID, state)

	lang := state.Answers.Language
	kb := obstacleKeyboard(lang)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, text(lang, "ask_obstacle"), &kb)
}

func (b *Bot) handleObstacleAnswer(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	state, ok := b.onboardingState(callback.From.ID, StepObstacle)
	if !ok {
		return
	}
	state.Answers.Obstacle = strings.TrimPrefix(callback.Data, "obs_")
	state.Onboarding = StepFrequency
	b.conv.Set(callback.From.ID, state)

	lang := state.Answers.Language
	kb := frequencyKeyboard(lang)
	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, text(lang, "ask_freq"), &kb)
}

// handleFrequencyAnswer is the terminal intake step: the profile is
// persisted, the catalog consulted exactly once, and the operator alerted
// about the new lead off the hot path.
func (b *Bot) handleFrequencyAnswer(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	state, ok := b.onboardingState(callback.From.ID, StepFrequency)
	if !ok {
		return
	}
	freq, err := strconv.Atoi(strings.TrimPrefix(callback.Data, "freq_"))
	if err != nil {
		return
	}
	state.Answers.Frequency = freq

	userID := callback.From.ID
	lang := state.Answers.Language

	user := &model.User{
		TelegramID:          userID,
		FullName:            strings.TrimSpace(callback.From.FirstName + " " + callback.From.LastName),
		Username:            callback.From.UserName,
		Language:            lang,
		Gender:              state.Answers.Gender,
		Goal:                state.Answers.Goal,
		Level:               state.Answers.Level,
		Obstacle:            state.Answers.Obstacle,
		Frequency:           freq,
		OnboardingCompleted: true,
	}
	// The persist must land before anything else happens: on failure the
	// user stays at this step so re-tapping the same answer retries the
	// whole terminal transition.
	if err := b.users.Upsert(ctx, user); err != nil {
		b.log.Error("profile persist failed", zap.Int64("user_id", userID), zap.Error(err))
		b.reply(callback.Message.Chat.ID, text(lang, "save_failed"))
		return
	}
	b.conv.Clear(userID)

	b.editMessage(callback.Message.Chat.ID, callback.Message.MessageID, text(lang, "analysis_complete"), nil)

	product, err := b.matcher.MatchForUser(ctx, user)
	if err != nil {
		b.log.Error("product match failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	if product != nil {
		offer := fmt.Sprintf(text(lang, "offer"), product.Title, product.Price.StringFixed(2))
		msg := tgbotapi.NewMessage(callback.Message.Chat.ID, offer)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.ReplyMarkup = payKeyboard(lang, product.ID)
		b.send(msg)
	} else {
		b.reply(callback.Message.Chat.ID, text(lang, "no_product_found"))
	}

	menu := tgbotapi.NewMessage(callback.Message.Chat.ID, text(lang, "menu"))
	menu.ReplyMarkup = mainMenuKeyboard(lang)
	b.send(menu)

	b.notifyNewLead(user, product)
}

// notifyNewLead posts a lead summary to the operator log channel.
func (b *Bot) notifyNewLead(user *model.User, product *model.Product) {
	if b.cfg.NewUserLogChatID == 0 {
		return
	}
	matched := "none"
	if product != nil {
		matched = product.Title
	}
	body := fmt.Sprintf(
		"🆕 *NEW LEAD*\n👤 %s (@%s)\n🌐 %s | %s | %s\n📆 %d days/week\n🎯 %s\n📦 Matched: %s",
		user.FullName, user.Username,
		user.Language, user.Gender, user.Level,
		user.Frequency, user.Goal, matched,
	)
	chatID := b.cfg.NewUserLogChatID
	b.notifier.Submit("new-lead", func() error {
		msg := tgbotapi.NewMessage(chatID, body)
		msg.ParseMode = tgbotapi.ModeMarkdown
		_, err := b.sender.Send(msg)
		return err
	})
}
