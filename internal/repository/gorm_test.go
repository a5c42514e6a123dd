package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the shared in-memory database alive and
	// serializes concurrent access the way tests expect.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id int64) *model.User {
	t.Helper()
	user := &model.User{
		TelegramID:          id,
		FullName:            "Test Buyer",
		Username:            "buyer",
		Language:            "EN",
		Gender:              "FEMALE",
		Level:               "BEGINNER",
		Frequency:           3,
		OnboardingCompleted: true,
	}
	require.NoError(t, NewGormUserRepository(db).Upsert(context.Background(), user))
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, title string, price decimal.Decimal) *model.Product {
	t.Helper()
	product := &model.Product{
		Title:       title,
		Language:    "EN",
		Gender:      "FEMALE",
		Level:       "BEGINNER",
		Frequency:   3,
		Price:       price,
		ArtifactRef: "file-id-123",
		IsActive:    true,
	}
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), product))
	return product
}

func seedPayment(t *testing.T, db *gorm.DB, userID int64, productID uuid.UUID, amount decimal.Decimal) *model.Payment {
	t.Helper()
	payment := &model.Payment{
		UserID:      userID,
		ProductID:   productID,
		Amount:      amount,
		EvidenceRef: "photo-file-id",
	}
	require.NoError(t, NewGormPaymentRepository(db).Create(context.Background(), payment))
	return payment
}

func TestUserUpsertMergesProfile(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.User{TelegramID: 7, FullName: "First Contact"}))
	require.NoError(t, repo.Upsert(ctx, &model.User{
		TelegramID:          7,
		FullName:            "First Contact",
		Language:            "AM",
		Level:               "ADVANCED",
		Frequency:           5,
		OnboardingCompleted: true,
	}))

	got, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "AM", got.Language)
	assert.Equal(t, "ADVANCED", got.Level)
	assert.Equal(t, 5, got.Frequency)
	assert.True(t, got.OnboardingCompleted)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserGetUnknownReturnsNil(t *testing.T) {
	db := newTestDB(t)
	got, err := NewGormUserRepository(db).Get(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserAllIDs(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1)
	seedUser(t, db, 2)
	seedUser(t, db, 3)

	ids, err := NewGormUserRepository(db).AllIDs(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3}, ids)
}

func TestProductMatchExactOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Beginner EN 3d", decimal.NewFromInt(1500))

	got, err := repo.Match(ctx, "EN", "BEGINNER", 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Beginner EN 3d", got.Title)

	for _, tc := range []struct {
		lang  string
		level string
		freq  int
	}{
		{"AM", "BEGINNER", 3},
		{"EN", "ADVANCED", 3},
		{"EN", "BEGINNER", 4},
	} {
		got, err := repo.Match(ctx, tc.lang, tc.level, tc.freq)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestProductMatchSkipsInactiveAndPrefersOldest(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	first := seedProduct(t, db, "Oldest", decimal.NewFromInt(1000))
	seedProduct(t, db, "Newest", decimal.NewFromInt(2000))

	got, err := repo.Match(ctx, "EN", "BEGINNER", 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Oldest", got.Title)

	require.NoError(t, repo.ToggleActive(ctx, first.ID))
	got, err = repo.Match(ctx, "EN", "BEGINNER", 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Newest", got.Title)
}

func TestProductToggleAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Plan", decimal.NewFromInt(500))

	require.NoError(t, repo.ToggleActive(ctx, product.ID))
	got, err := repo.Get(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)

	require.NoError(t, repo.Delete(ctx, product.ID))
	got, err = repo.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPaymentApproveBuildsPayload(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, 10)
	product := seedProduct(t, db, "Plan", decimal.NewFromInt(1500))
	payment := seedPayment(t, db, user.TelegramID, product.ID, product.Price)

	payload, err := repo.Approve(ctx, payment.ID)
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, payment.ID, payload.PaymentID)
	assert.Equal(t, user.TelegramID, payload.UserID)
	assert.Equal(t, "file-id-123", payload.ArtifactRef)
	assert.Equal(t, "EN", payload.Language)
	assert.Equal(t, "Plan", payload.Title)

	detail, err := repo.Detail(ctx, payment.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, model.PaymentApproved, detail.Status)
}

func TestPaymentApproveIsSingleWinner(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, 11)
	product := seedProduct(t, db, "Plan", decimal.NewFromInt(1500))
	payment := seedPayment(t, db, user.TelegramID, product.ID, product.Price)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Approve(ctx, payment.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, misses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, ErrAlreadyResolved):
			misses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, misses)
}

func TestPaymentRejectAfterApproveIsNoOp(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, 12)
	product := seedProduct(t, db, "Plan", decimal.NewFromInt(900))
	payment := seedPayment(t, db, user.TelegramID, product.ID, product.Price)

	_, err := repo.Approve(ctx, payment.ID)
	require.NoError(t, err)

	err = repo.Reject(ctx, payment.ID)
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	detail, err := repo.Detail(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentApproved, detail.Status)
}

func TestPaymentResolveUnknownID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	_, err := repo.Approve(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	err = repo.Reject(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestPaymentAmountSurvivesCatalogEdits(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, 13)
	product := seedProduct(t, db, "Plan", decimal.NewFromInt(1000))
	payment := seedPayment(t, db, user.TelegramID, product.ID, product.Price)

	// Reprice the catalog entry after the claim was booked.
	require.NoError(t, db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimal.NewFromInt(9999)).Error)

	detail, err := repo.Detail(ctx, payment.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.True(t, detail.Amount.Equal(decimal.NewFromInt(1000)),
		"amount %s should be the quoted price", detail.Amount)
}

func TestPendingQueuePagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, 14)
	product := seedProduct(t, db, "Plan", decimal.NewFromInt(100))
	for i := 0; i < 7; i++ {
		seedPayment(t, db, user.TelegramID, product.ID, product.Price)
	}

	count, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	page1, err := repo.Pending(ctx, 5, 0)
	require.NoError(t, err)
	assert.Len(t, page1, 5)

	page2, err := repo.Pending(ctx, 5, 5)
	require.NoError(t, err)
	assert.Len(t, page2, 2)
}

func TestLatestForUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, 15)
	product := seedProduct(t, db, "Plan", decimal.NewFromInt(100))

	got, err := repo.LatestForUser(ctx, user.TelegramID)
	require.NoError(t, err)
	assert.Nil(t, got)

	seedPayment(t, db, user.TelegramID, product.ID, product.Price)
	got, err = repo.LatestForUser(ctx, user.TelegramID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.PaymentPending, got.Status)
	assert.Equal(t, product.ID, got.ProductID)
}

func TestStatsSnapshot(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, 16)
	product := seedProduct(t, db, "Plan", decimal.NewFromInt(250))

	approved := seedPayment(t, db, user.TelegramID, product.ID, product.Price)
	seedPayment(t, db, user.TelegramID, product.ID, product.Price)
	_, err := repo.Approve(ctx, approved.ID)
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(1), stats.Sales)
	assert.Equal(t, int64(1), stats.PendingCount)
	assert.True(t, stats.Revenue.Equal(decimal.NewFromInt(250)), "revenue %s", stats.Revenue)
}

func TestRevenueByDayBucketsApprovedOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, 17)
	product := seedProduct(t, db, "Plan", decimal.NewFromInt(300))

	first := seedPayment(t, db, user.TelegramID, product.ID, product.Price)
	second := seedPayment(t, db, user.TelegramID, product.ID, product.Price)
	seedPayment(t, db, user.TelegramID, product.ID, product.Price) // stays pending

	_, err := repo.Approve(ctx, first.ID)
	require.NoError(t, err)
	_, err = repo.Approve(ctx, second.ID)
	require.NoError(t, err)

	points, err := repo.RevenueByDay(ctx, 30)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.True(t, points[0].Revenue.Equal(decimal.NewFromInt(600)), "revenue %s", points[0].Revenue)
}
