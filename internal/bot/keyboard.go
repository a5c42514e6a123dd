package bot

import (
	"fmt"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
	"github.com/google/uuid"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func mainMenuKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(text(lang, "btn_my_plan")),
			tgbotapi.NewKeyboardButton(text(lang, "btn_unlock")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(text(lang, "btn_help")),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelPaymentKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(text(lang, "btn_cancel_pay")),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func adminMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminStats),
			tgbotapi.NewKeyboardButton(btnAdminPending),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminAddProduct),
			tgbotapi.NewKeyboardButton(btnAdminBroadcast),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminManage),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func adminAbortKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminAbort),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇸 English", "lang_EN"),
			tgbotapi.NewInlineKeyboardButtonData("🇪🇹 አማርኛ", "lang_AM"),
		),
	)
}

func genderKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(text(lang, "btn_male"), "gender_MALE"),
			tgbotapi.NewInlineKeyboardButtonData(text(lang, "btn_female"), "gender_FEMALE"),
		),
	)
}

func goalKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(text(lang, "btn_goal_fat"), "goal_FATLOSS")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(text(lang, "btn_goal_muscle"), "goal_MUSCLE")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(text(lang, "btn_goal_ath"), "goal_ATHLETE")),
	)
}

func levelKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	levels := [][2]string{
		{"Beginner", "BEGINNER"},
		{"Intermediate", "INTERMEDIATE"},
		{"Glute Focused", "GLUTE_FOCUSED"},
		{"Advanced/Elite", "ADVANCED"},
	}
	amharic := map[string]string{
		"BEGINNER": "ጀማሪ", "INTERMEDIATE": "መካከለኛ",
		"GLUTE_FOCUSED": "ዳሌ ላይ ያተኮረ", "ADVANCED": "የላቀ",
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(levels))
	for _, lvl := range levels {
		label := lvl[0]
		if lang == langAM {
			label = amharic[lvl[1]]
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "level_"+lvl[1]),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func obstacleKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(text(lang, "btn_obs_diet"), "obs_DIET")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(text(lang, "btn_obs_consist"), "obs_CONSISTENCY")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(text(lang, "btn_obs_noplan"), "obs_NOPLAN")),
	)
}

func frequencyKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	suffix := text(lang, "days_suffix")
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("3 %s", suffix), "freq_3"),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("4 %s", suffix), "freq_4"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("5 %s", suffix), "freq_5"),
		),
	)
}

func payKeyboard(lang string, productID uuid.UUID) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(text(lang, "btn_pay"), "pay_"+productID.String()),
		),
	)
}

func viewPlanKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(text(lang, "btn_view_plan"), "view_current_plan"),
		),
	)
}

func reviewCardKeyboard(paymentID uuid.UUID) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ APPROVE & SEND", "approve_"+paymentID.String()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ REJECT / FAKE", "reject_"+paymentID.String()),
		),
	)
}

func pendingQueueKeyboard(payments []model.PaymentDetail, page, totalPages int) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(payments)+1)
	for _, p := range payments {
		label := fmt.Sprintf("%s — %s ETB", p.FullName, p.Amount.StringFixed(2))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "view_pay_"+p.ID.String()),
		))
	}
	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", fmt.Sprintf("paypage_%d", page-1)))
	}
	if page < totalPages-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", fmt.Sprintf("paypage_%d", page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func productListKeyboard(products []model.Product, page, totalPages int) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(products)+1)
	for _, p := range products {
		status := "🔴"
		if p.IsActive {
			status = "🟢"
		}
		label := fmt.Sprintf("%s %s (%s)", status, p.Title, p.Language)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "manage_view_"+p.ID.String()),
		))
	}
	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", fmt.Sprintf("prodpage_%d", page-1)))
	}
	if page < totalPages-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", fmt.Sprintf("prodpage_%d", page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func productDetailKeyboard(id uuid.UUID, active bool) tgbotapi.InlineKeyboardMarkup {
	toggleLabel := "🟢 Activate"
	if active {
		toggleLabel = "🔴 Deactivate"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggleLabel, "toggle_prod_"+id.String()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", "confirm_del_"+id.String()),
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "prodpage_0"),
		),
	)
}

func deleteConfirmKeyboard(id uuid.UUID) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚠️ YES, DELETE IT", "force_del_"+id.String()),
			tgbotapi.NewInlineKeyboardButtonData("❌ CANCEL", "manage_view_"+id.String()),
		),
	)
}

func adminProductLangKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇸 EN", "set_lang_EN"),
			tgbotapi.NewInlineKeyboardButtonData("🇪🇹 AM", "set_lang_AM"),
		),
	)
}

func adminProductGenderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Male Only", "set_gen_MALE"),
			tgbotapi.NewInlineKeyboardButtonData("Female Only", "set_gen_FEMALE"),
		),
	)
}

func adminProductLevelKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 4)
	for _, lvl := range []string{"BEGINNER", "INTERMEDIATE", "GLUTE_FOCUSED", "ADVANCED"} {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lvl, "set_lvl_"+lvl),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminProductFreqKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("3 Training Days", "set_frq_3"),
			tgbotapi.NewInlineKeyboardButtonData("4 Training Days", "set_frq_4"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("5 Training Days", "set_frq_5"),
		),
	)
}

func broadcastConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 YES, LAUNCH NOW", "confirm_launch"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✍️ Edit Draft", "broadcast_edit"),
		),
	)
}

func rejectionConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm & Send", "reject_confirm"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Edit Reason", "reject_edit"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Abort", "reject_abort"),
		),
	)
}

func statsRefreshKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh Stats", "refresh_admin_stats"),
		),
	)
}
