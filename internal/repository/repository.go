package repository

import (
	"context"
	"errors"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrAlreadyResolved is returned by Approve/Reject when no pending row
// matched the id: the payment was already decided, or the id is unknown.
// Callers treat both the same way, as a retry-safe no-op.
var ErrAlreadyResolved = errors.New("payment already resolved or unknown")

type UserRepository interface {
	// Upsert creates the user on first contact or merges the provided
	// profile fields into the existing row.
	Upsert(ctx context.Context, user *model.User) error
	Get(ctx context.Context, telegramID int64) (*model.User, error)
	// AllIDs snapshots every known user id, for broadcast fan-out.
	AllIDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// Match returns the first active product equal on all three fields,
	// in creation order, or nil when nothing matches.
	Match(ctx context.Context, language, level string, frequency int) (*model.Product, error)
	List(ctx context.Context, limit, offset int) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)
	ToggleActive(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerStats is the aggregate snapshot behind the admin dashboard.
type LedgerStats struct {
	Users        int64
	Sales        int64
	Revenue      decimal.Decimal
	PendingCount int64
}

// RevenuePoint is one day of approved revenue, for chart rendering.
type RevenuePoint struct {
	Day     string
	Revenue decimal.Decimal
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error

	// Approve flips a pending payment to approved and builds the
	// fulfillment payload within the same transaction. Returns
	// ErrAlreadyResolved when no pending row matched.
	Approve(ctx context.Context, id uuid.UUID) (*model.FulfillmentPayload, error)

	// Reject flips a pending payment to rejected; ErrAlreadyResolved on a
	// CAS miss, same as Approve.
	Reject(ctx context.Context, id uuid.UUID) error

	Detail(ctx context.Context, id uuid.UUID) (*model.PaymentDetail, error)
	Recent(ctx context.Context, limit int) ([]model.PaymentDetail, error)
	Pending(ctx context.Context, limit, offset int) ([]model.PaymentDetail, error)
	CountPending(ctx context.Context) (int64, error)
	// LatestForUser returns the user's most recent payment of any status,
	// or nil if they never submitted one.
	LatestForUser(ctx context.Context, userID int64) (*model.PaymentDetail, error)
	Stats(ctx context.Context) (*LedgerStats, error)
	RevenueByDay(ctx context.Context, days int) ([]RevenuePoint, error)
}
