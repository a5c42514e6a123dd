package model

import "time"

// User is a funnel participant keyed by their Telegram id. The profile
// fields are filled in step by step as onboarding answers arrive; rows are
// never deleted by the bot itself.
type User struct {
	TelegramID          int64     `gorm:"primaryKey;autoIncrement:false" json:"telegram_id"`
	FullName            string    `gorm:"type:text" json:"full_name"`
	Username            string    `gorm:"type:text" json:"username"`
	Language            string    `gorm:"type:varchar(2);default:'EN'" json:"language"`
	Gender              string    `gorm:"type:varchar(10)" json:"gender"`
	Level               string    `gorm:"type:varchar(20)" json:"level"`
	Frequency           int       `json:"frequency"`
	Goal                string    `gorm:"type:text" json:"goal"`
	Obstacle            string    `gorm:"type:text" json:"obstacle"`
	OnboardingCompleted bool      `gorm:"default:false" json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
