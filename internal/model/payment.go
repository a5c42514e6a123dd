package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment attempt.
// Transitions are pending -> approved or pending -> rejected, nothing else.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// Payment records one evidence submission. Amount is snapshotted from the
// offer the buyer saw; it is never re-read from the catalog. Rows are the
// audit trail and are never deleted.
type Payment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      int64           `gorm:"not null;index" json:"user_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	EvidenceRef string          `gorm:"type:text;not null" json:"evidence_ref"`
	Status      PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// GenerateID assigns a new UUID if the payment has none yet.
func (p *Payment) GenerateID() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
}

// FulfillmentPayload is everything the dispatcher needs to deliver a
// purchased artifact, produced inside the approval transaction.
type FulfillmentPayload struct {
	PaymentID   uuid.UUID
	UserID      int64
	ArtifactRef string
	Language    string
	Title       string
}

// PaymentDetail is the read-only projection of a payment joined with its
// buyer and product, used by review cards and the audit queue.
type PaymentDetail struct {
	ID          uuid.UUID
	UserID      int64
	ProductID   uuid.UUID
	FullName    string
	Username    string
	Language    string
	Title       string
	Amount      decimal.Decimal
	EvidenceRef string
	Status      PaymentStatus
	CreatedAt   time.Time
}
