package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/repository"
)

type stubProducts struct {
	repository.ProductRepository
	gotLanguage string
	gotLevel    string
	gotFreq     int
	result      *model.Product
}

func (s *stubProducts) Match(ctx context.Context, language, level string, frequency int) (*model.Product, error) {
	s.gotLanguage = language
	s.gotLevel = level
	s.gotFreq = frequency
	return s.result, nil
}

func TestMatcherUsesProfileFields(t *testing.T) {
	stub := &stubProducts{result: &model.Product{Title: "Plan"}}
	matcher := NewProductMatcher(stub)

	got, err := matcher.MatchForUser(context.Background(), &model.User{
		Language:  "AM",
		Level:     "GLUTE_FOCUSED",
		Frequency: 4,
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "AM", stub.gotLanguage)
	assert.Equal(t, "GLUTE_FOCUSED", stub.gotLevel)
	assert.Equal(t, 4, stub.gotFreq)
}

func TestMatcherNoMatchIsNotAnError(t *testing.T) {
	matcher := NewProductMatcher(&stubProducts{})
	got, err := matcher.Match(context.Background(), "EN", "BEGINNER", 3)
	require.NoError(t, err)
	assert.Nil(t, got)
}
