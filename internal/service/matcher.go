package service

import (
	"context"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/repository"
)

// ProductMatcher maps a completed profile to at most one active catalog
// entry by exact equality on (language, level, frequency). No fuzzing, no
// ranking. When duplicates exist the oldest active row wins; that
// tie-break is deterministic but implementation-defined and must not be
// relied on for business logic.
type ProductMatcher struct {
	products repository.ProductRepository
}

func NewProductMatcher(products repository.ProductRepository) *ProductMatcher {
	return &ProductMatcher{products: products}
}

// MatchForUser returns the product for the user's answers, or nil when no
// active entry matches.
func (m *ProductMatcher) MatchForUser(ctx context.Context, user *model.User) (*model.Product, error) {
	return m.products.Match(ctx, user.Language, user.Level, user.Frequency)
}

// Match is the raw form used mid-flow before the profile is persisted.
func (m *ProductMatcher) Match(ctx context.Context, language, level string, frequency int) (*model.Product, error) {
	return m.products.Match(ctx, language, level, frequency)
}
