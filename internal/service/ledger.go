package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrAlreadyResolved mirrors the repository sentinel so callers outside the
// persistence layer have a stable identity to test against.
var ErrAlreadyResolved = repository.ErrAlreadyResolved

// PaymentLedger is the state machine for payment attempts. All status
// transitions go through it; nothing else mutates payment rows.
type PaymentLedger struct {
	payments repository.PaymentRepository
	products repository.ProductRepository
	log      *zap.Logger
}

func NewPaymentLedger(payments repository.PaymentRepository, products repository.ProductRepository, log *zap.Logger) *PaymentLedger {
	return &PaymentLedger{payments: payments, products: products, log: log}
}

// Create inserts a new pending payment. The amount is the price the buyer
// was quoted, snapshotted here; later catalog edits do not touch it.
func (l *PaymentLedger) Create(ctx context.Context, userID int64, productID uuid.UUID, evidenceRef string, amount decimal.Decimal) (uuid.UUID, error) {
	if evidenceRef == "" {
		return uuid.Nil, fmt.Errorf("evidence reference is required")
	}
	payment := &model.Payment{
		UserID:      userID,
		ProductID:   productID,
		EvidenceRef: evidenceRef,
		Amount:      amount,
	}
	if err := l.payments.Create(ctx, payment); err != nil {
		return uuid.Nil, err
	}
	l.log.Info("payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.Int64("user_id", userID),
		zap.String("amount", amount.String()),
	)
	return payment.ID, nil
}

// Approve attempts the pending -> approved transition and returns the
// fulfillment payload on success. ErrAlreadyResolved signals a benign CAS
// miss: the payment was decided by someone else, or the id is unknown.
func (l *PaymentLedger) Approve(ctx context.Context, id uuid.UUID) (*model.FulfillmentPayload, error) {
	payload, err := l.payments.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyResolved) {
			l.log.Info("approve was a no-op", zap.String("payment_id", id.String()))
			return nil, ErrAlreadyResolved
		}
		return nil, err
	}
	l.log.Info("payment approved",
		zap.String("payment_id", id.String()),
		zap.Int64("user_id", payload.UserID),
	)
	return payload, nil
}

// Reject attempts the pending -> rejected transition.
func (l *PaymentLedger) Reject(ctx context.Context, id uuid.UUID) error {
	if err := l.payments.Reject(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAlreadyResolved) {
			l.log.Info("reject was a no-op", zap.String("payment_id", id.String()))
			return ErrAlreadyResolved
		}
		return err
	}
	l.log.Info("payment rejected", zap.String("payment_id", id.String()))
	return nil
}

func (l *PaymentLedger) Detail(ctx context.Context, id uuid.UUID) (*model.PaymentDetail, error) {
	return l.payments.Detail(ctx, id)
}

func (l *PaymentLedger) Recent(ctx context.Context, limit int) ([]model.PaymentDetail, error) {
	return l.payments.Recent(ctx, limit)
}

func (l *PaymentLedger) PendingQueue(ctx context.Context, limit, offset int) ([]model.PaymentDetail, int64, error) {
	count, err := l.payments.CountPending(ctx)
	if err != nil {
		return nil, 0, err
	}
	details, err := l.payments.Pending(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return details, count, nil
}

func (l *PaymentLedger) LatestForUser(ctx context.Context, userID int64) (*model.PaymentDetail, error) {
	return l.payments.LatestForUser(ctx, userID)
}
