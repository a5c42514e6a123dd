package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Upsert(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "username", "language", "gender", "level",
			"frequency", "goal", "obstacle", "onboarding_completed",
		}),
	}).Create(user).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", user.TelegramID, err)
	}
	return nil
}

func (r *GormUserRepository) Get(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "telegram_id = ?", telegramID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) AllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Pluck("telegram_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *model.Product) error {
	product.GenerateID()
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *GormProductRepository) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Match selects the first active product equal on all fields. Ordering by
// created_at makes the duplicate tie-break deterministic: the oldest row
// wins. That ordering is an implementation detail, not a business rule.
func (r *GormProductRepository) Match(ctx context.Context, language, level string, frequency int) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("language = ? AND level = ? AND frequency = ? AND is_active = ?", language, level, frequency, true).
		Order("created_at ASC").
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *GormProductRepository) ToggleActive(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("is_active", gorm.Expr("NOT is_active"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
}

// GormPaymentRepository implements PaymentRepository using GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	payment.GenerateID()
	payment.Status = model.PaymentPending
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// Approve performs the compare-and-swap: the row moves to approved only if
// it is still pending. The conditional UPDATE and the payload join share
// one transaction so a concurrent reject cannot interleave. A zero
// RowsAffected means the payment was already decided (or never existed);
// both surface as ErrAlreadyResolved.
func (r *GormPaymentRepository) Approve(ctx context.Context, id uuid.UUID) (*model.FulfillmentPayload, error) {
	var payload model.FulfillmentPayload
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Payment{}).
			Where("id = ? AND status = ?", id, model.PaymentPending).
			Update("status", model.PaymentApproved)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyResolved
		}

		var payment model.Payment
		if err := tx.First(&payment, "id = ?", id).Error; err != nil {
			return err
		}
		var product model.Product
		if err := tx.First(&product, "id = ?", payment.ProductID).Error; err != nil {
			return err
		}
		var user model.User
		if err := tx.First(&user, "telegram_id = ?", payment.UserID).Error; err != nil {
			return err
		}

		payload = model.FulfillmentPayload{
			PaymentID:   payment.ID,
			UserID:      user.TelegramID,
			ArtifactRef: product.ArtifactRef,
			Language:    user.Language,
			Title:       product.Title,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyResolved) {
			return nil, ErrAlreadyResolved
		}
		return nil, fmt.Errorf("failed to approve payment %s: %w", id, err)
	}
	return &payload, nil
}

// Reject is the symmetric CAS from pending to rejected.
func (r *GormPaymentRepository) Reject(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.PaymentPending).
		Update("status", model.PaymentRejected)
	if result.Error != nil {
		return fmt.Errorf("failed to reject payment %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyResolved
	}
	return nil
}

const paymentDetailSelect = `payments.id, payments.user_id, payments.product_id, payments.amount,
payments.evidence_ref, payments.status, payments.created_at,
users.full_name, users.username, users.language, products.title`

func (r *GormPaymentRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Payment{}).
		Select(paymentDetailSelect).
		Joins("JOIN users ON users.telegram_id = payments.user_id").
		Joins("JOIN products ON products.id = payments.product_id")
}

func (r *GormPaymentRepository) Detail(ctx context.Context, id uuid.UUID) (*model.PaymentDetail, error) {
	var detail model.PaymentDetail
	result := r.detailQuery(ctx).Where("payments.id = ?", id).Limit(1).Scan(&detail)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &detail, nil
}

func (r *GormPaymentRepository) Recent(ctx context.Context, limit int) ([]model.PaymentDetail, error) {
	var details []model.PaymentDetail
	err := r.detailQuery(ctx).
		Order("payments.created_at DESC").
		Limit(limit).
		Scan(&details).Error
	return details, err
}

func (r *GormPaymentRepository) Pending(ctx context.Context, limit, offset int) ([]model.PaymentDetail, error) {
	var details []model.PaymentDetail
	err := r.detailQuery(ctx).
		Where("payments.status = ?", model.PaymentPending).
		Order("payments.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&details).Error
	return details, err
}

func (r *GormPaymentRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("status = ?", model.PaymentPending).
		Count(&count).Error
	return count, err
}

func (r *GormPaymentRepository) LatestForUser(ctx context.Context, userID int64) (*model.PaymentDetail, error) {
	var detail model.PaymentDetail
	result := r.detailQuery(ctx).
		Where("payments.user_id = ?", userID).
		Order("payments.created_at DESC").
		Limit(1).
		Scan(&detail)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &detail, nil
}

func (r *GormPaymentRepository) Stats(ctx context.Context) (*LedgerStats, error) {
	var stats LedgerStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT count(*) FROM users) AS users,
			(SELECT count(*) FROM payments WHERE status = 'approved') AS sales,
			(SELECT COALESCE(sum(amount), 0) FROM payments WHERE status = 'approved') AS revenue,
			(SELECT count(*) FROM payments WHERE status = 'pending') AS pending_count
	`).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger stats: %w", err)
	}
	return &stats, nil
}

// RevenueByDay buckets approved revenue by calendar day over the trailing
// window. Bucketing happens in Go to stay portable across the postgres and
// sqlite dialects.
func (r *GormPaymentRepository) RevenueByDay(ctx context.Context, days int) ([]RevenuePoint, error) {
	since := time.Now().AddDate(0, 0, -days)
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at >= ?", model.PaymentApproved, since).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	points := make([]RevenuePoint, 0, days)
	byDay := make(map[string]int)
	for _, p := range payments {
		day := p.CreatedAt.Format("2006-01-02")
		if idx, ok := byDay[day]; ok {
			points[idx].Revenue = points[idx].Revenue.Add(p.Amount)
			continue
		}
		byDay[day] = len(points)
		points = append(points, RevenuePoint{Day: day, Revenue: p.Amount})
	}
	return points, nil
}
