package bot

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/model"
)

func TestDispatcherSendsLocalizedDocument(t *testing.T) {
	fake := &fakeSender{}
	d := NewDispatcher(fake, zap.NewNop())

	err := d.Deliver(&model.FulfillmentPayload{
		PaymentID:   uuid.New(),
		UserID:      55,
		ArtifactRef: "artifact-doc-id",
		Language:    "AM",
		Title:       "Plan",
	})
	require.NoError(t, err)

	sent := fake.sentMessages()
	require.Len(t, sent, 1)
	doc, ok := sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, int64(55), doc.ChatID)
	assert.Equal(t, tgbotapi.FileID("artifact-doc-id"), doc.File)
	assert.Equal(t, texts[langAM]["delivery_caption"], doc.Caption)
}

func TestDispatcherSurfacesSendFailure(t *testing.T) {
	fake := &fakeSender{}
	fake.fail = func(c tgbotapi.Chattable) error {
		return errors.New("Forbidden: bot was blocked by the user")
	}
	d := NewDispatcher(fake, zap.NewNop())

	err := d.Deliver(&model.FulfillmentPayload{
		PaymentID:   uuid.New(),
		UserID:      56,
		ArtifactRef: "artifact-doc-id",
		Language:    "EN",
	})
	assert.Error(t, err)
}
