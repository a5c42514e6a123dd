package bot

// Static EN/AM copy. Presentation strings are not business logic; handlers
// only ever reference the keys.

const (
	langEN = "EN"
	langAM = "AM"
)

var texts = map[string]map[string]string{
	langEN: {
		"welcome": "I’ve spent years coaching over *300,000 people* on social media, but today, it’s just you and me. 🤝\n\n" +
			"You’re here because you’re done with average results.\n" +
			"🏁 *Step 1:* Choose your language to begin your assessment.",
		"ask_gender":   "📍 *Step 1/5 — Bio Profile* 🧬\n`▰▱▱▱▱` 20%\n\nFirst, I need to know who I'm training. Identify your gender:",
		"ask_goal":     "📍 *Step 2/5 — Objective* 🎯\n`▰▰▱▱▱` 40%\n\nWhat is your primary goal?",
		"ask_level":    "📍 *Step 3/5 — Experience Baseline* ⚖️\n`▰▰▰▱▱` 60%\n\nBe real with me. Where are you actually at?",
		"ask_obstacle": "📍 *Step 4/5 — Obstacles* 🚧\n`▰▰▰▰▱` 80%\n\nWhat has been your biggest struggle?",
		"ask_freq":     "📍 *Step 5/5 — Commitment* ⏳\n`▰▰▰▰▰` 100%\n\nHow many days a week can you honestly give me?",

		"analysis_complete": "🎯 *STRATEGY ENGINEERED*",
		"no_product_found":  "🚧 *Hold on.* I'm still refining a plan that fits your needs. Check back soon.",

		"invoice":           "🏛 *OFFICIAL INVOICE*\n————————————————————\n📦 *Program:* %s\n💰 *Price:* `%s ETB`\n\n📥 *Transfer Details:*\n`%s`\n————————————————————\n📸 *Final Step:* Send the screenshot of your transfer below.",
		"receipt_logged":    "✅ *RECEIPT LOGGED*\n\nI've received your transfer. Stay ready. Your program will be delivered here the moment I verify it. 🔥",
		"payment_cancelled": "❌ Payment cancelled. Returning to Dashboard...",
		"awaiting_photo":    "📸 Please send the payment screenshot as a photo, or cancel below.",

		"delivery_caption": "🔥 *ACCESS GRANTED*\n\nYour payment is verified. Your personalized program is attached below. Let's work.",
		"declined":         "❌ *PAYMENT DECLINED*\n————————————————————\nI could not verify your transfer of `%s ETB`.\n\n🚩 *REASON:* %s\n————————————————————\n💡 *Next Step:* Please go to 'Unlock Plan' and upload a clear, valid receipt.",

		"plan_active":     "🏆 *%s*\n————————————————————\nYour transformation program is active. 🔥",
		"plan_pending":    "⏳ *PAYMENT VERIFICATION IN PROGRESS*\n\nI've received your receipt. You will receive your plan here the moment it is approved! 🙏",
		"plan_none":       "❌ *NO ACTIVE PLAN FOUND*\n\nYou haven't unlocked your program yet. Tap 'Unlock Plan' to start.",
		"offer":           "👤 *COACH'S REVIEW*\n\nI have engineered the *%s* specifically for your profile. 🏆\n\n💰 *Investment:* `%s ETB`",
		"already_pending": "⏳ *VERIFICATION IN PROGRESS*\n\nI have received your receipt. Estimated time: 1-3 hours.",
		"already_active":  "✅ *PROGRAM ACTIVE*\n\nI have already activated the *%s* for you. Check 'My Plan'.",

		"save_failed": "⚠️ I couldn't save your answers just now. Tap your choice again in a moment.",

		"help":      "❓ *SUPPORT CENTER*\n\nIf you have issues with payments or plan access, contact support.",
		"slow_down": "⚡️ Easy, Champion!",
		"menu":      "Choose an action:",

		"btn_my_plan":     "📦 My Plan",
		"btn_unlock":      "💳 Unlock Plan",
		"btn_help":        "❓ Help",
		"btn_cancel_pay":  "❌ Cancel Payment",
		"btn_pay":         "💳 Complete Payment",
		"btn_male":        "♂️ Male",
		"btn_female":      "♀️ Female",
		"btn_view_plan":   "📦 View My Plan",
		"btn_goal_fat":    "🔥 Shed Fat & Lean",
		"btn_goal_muscle": "💪 Build Muscle & Strength",
		"btn_goal_ath":    "🏃 Conditioning & Endurance",
		"btn_obs_diet":    "🥗 Nutrition & Diet",
		"btn_obs_consist": "⏳ Consistency",
		"btn_obs_noplan":  "📋 Lack of Plan",
		"days_suffix":     "Days",
	},
	langAM: {
		"welcome": "ዛሬ ትኩረቴ በእርስዎ ላይ ብቻ ነው። 🤝\n\n🏁 *ምዕራፍ 1፦* ግምገማውን ለመጀመር ቋንቋ ይምረጡ።",

		"ask_gender":   "📍 *ምዕራፍ 1/5 — የሰውነት ተፈጥሮ* 🧬\n`▰▱▱▱▱` 20%\n\nበመጀመሪያ የማሰለጥነውን ሰው ማወቅ አለብኝ። ጾታዎን ይግለጹ፦",
		"ask_goal":     "📍 *ምዕራፍ 2/5 — ግብ* 🎯\n`▰▰▱▱▱` 40%\n\nዋናው ግብዎ ምንድን ነው?",
		"ask_level":    "📍 *ምዕራፍ 3/5 — የልምምድ ዳራ* ⚖️\n`▰▰▰▱▱` 60%\n\nአሁን ያለዎት ብቃት የትኛው ነው?",
		"ask_obstacle": "📍 *ምዕራፍ 4/5 — እንቅፋቶች* 🚧\n`▰▰▰▰▱` 80%\n\nትልቁ እንቅፋት የሆነብዎት ምንድን ነው?",
		"ask_freq":     "📍 *ምዕራፍ 5/5 — የቁርጠኝነት ደረጃ* ⏳\n`▰▰▰▰▰` 100%\n\nበሳምንት ስንት ቀናትን መስራት ይችላሉ?",

		"analysis_complete": "🎯 *ትክክለኛውን እቅድ አውጥቼልሃለሁ*",
		"no_product_found":  "🚧 *ቆይ።* ለእርስዎ የሚሆን ትክክለኛ እቅድ ገና እያዘጋጀሁ ነው።",

		"invoice":           "🏛 *ይፋዊ የክፍያ መመሪያ*\n————————————————————\n📦 *እቅድ፦* %s\n💰 *ክፍያ፦* `%s ብር`\n\n📥 *የባንክ አካውንት ዝርዝር፦*\n`%s`\n————————————————————\n📸 *የመጨረሻ ደረጃ፦* የከፈሉበትን ደረሰኝ ይላኩ።",
		"receipt_logged":    "✅ *ደረሰኙ ተመዝግቧል*\n\nየላኩትን ደረሰኝ ተቀብያለሁ። ልክ እንደተረጋገጠ እቅድዎን እዚህ እልክልዎታለሁ። 🔥",
		"payment_cancelled": "❌ ክፍያ ተሰርዟል። ወደ ዋናው ገጽ በመመለስ ላይ...",
		"awaiting_photo":    "📸 እባክዎ ደረሰኙን በፎቶ መልክ ይላኩ፣ ወይም ከታች ይሰርዙ።",

		"delivery_caption": "🔥 *ፈቃድ ተሰጥቷል*\n\nክፍያዎ ተረጋግጧል። እቅድዎ ከታች ተያይዟል። ስራ እንጀምር።",
		"declined":         "❌ *ክፍያው አልተቀበለም*\n————————————————————\nየላኩትን የ`%s ብር` ክፍያ ማረጋገጥ አልቻልኩም።\n\n🚩 *ምክንያት፦* %s\n————————————————————\n💡 *መፍትሄ፦* እባክዎ ትክክለኛ ደረሰኝ ድጋሚ ይላኩ።",

		"plan_active":     "🏆 *%s*\n————————————————————\nየእርስዎ የለውጥ መመሪያ ዝግጁ ነው። 🔥",
		"plan_pending":    "⏳ *የክፍያ ማረጋገጫ በመከናወን ላይ*\n\nልክ እንደተረጋገጠ እቅድዎን እዚህ ይላክሎታል! 🙏",
		"plan_none":       "❌ *ምንም አይነት እቅድ አልተገኘም*\n\nለመጀመር 'እቅዴን ክፈት' የሚለውን ይጫኑ።",
		"offer":           "👤 *የአሰልጣኝ ግምገማ*\n\nለእርስዎ ተስማሚ የሆነውን *%s* አዘጋጅቻለሁ። 🏆\n\n💰 *ኢንቨስትመንት፦* `%s ብር`",
		"already_pending": "⏳ *ማረጋገጫ በመካሄድ ላይ*\n\nየላኩት ደረሰኝ ደርሶኛል። የሚፈጀው ጊዜ፦ ከ1-3 ሰዓታት።",
		"already_active":  "✅ *እቅድዎ ገቢር ሆኗል*\n\nየ*%s* ስልጠናዎ ቀድሞውኑ ተከፍቶልዎታል።",

		"save_failed": "⚠️ መልሶችዎን ማስቀመጥ አልተቻለም። እባክዎ ከጥቂት ቆይታ በኋላ ምርጫዎን ደግመው ይጫኑ።",

		"help":      "❓ *እርዳታ*\n\nችግር ካጋጠመዎት የእርዳታ መስመራችንን ያነጋግሩ።",
		"slow_down": "⚡️ ቀስ ይበሉ፣ ሻምፒዮን!",
		"menu":      "የሚፈልጉትን ይምረጡ፦",

		"btn_my_plan":     "📦 የእኔ እቅድ",
		"btn_unlock":      "💳 እቅዴን ክፈት",
		"btn_help":        "❓ እርዳታ",
		"btn_cancel_pay":  "❌ ክፍያውን ሰርዝ",
		"btn_pay":         "💳 ክፍያ ጀምር",
		"btn_male":        "♂️ ወንድ",
		"btn_female":      "♀️ ሴት",
		"btn_view_plan":   "📦 እቅዴን ተመልከት",
		"btn_goal_fat":    "🔥 ስብ መቀነስ/ማስተካከል",
		"btn_goal_muscle": "💪 ጡንቻ መገንባት",
		"btn_goal_ath":    "🏃 አጠቃላይ የአካል ብቃት",
		"btn_obs_diet":    "🥗 የአመጋገብ ስርዓት",
		"btn_obs_consist": "⏳ ተነሳሽነት ማጣት",
		"btn_obs_noplan":  "📋 የተዋቀረ እቅድ ማጣት",
		"days_suffix":     "ቀናት",
	},
}

// text resolves a key for a language, falling back to English.
func text(lang, key string) string {
	if m, ok := texts[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return texts[langEN][key]
}
