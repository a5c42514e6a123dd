package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestConversationStoreDefaultsToNoFlow(t *testing.T) {
	s := NewConversationStore(0, zap.NewNop())
	defer s.Stop()

	state := s.Get(1)
	assert.Equal(t, FlowNone, state.Flow)
}

func TestConversationStoreSetAndClear(t *testing.T) {
	s := NewConversationStore(0, zap.NewNop())
	defer s.Stop()

	s.Set(1, State{Flow: FlowOnboarding, Onboarding: StepGoal})
	got := s.Get(1)
	assert.Equal(t, FlowOnboarding, got.Flow)
	assert.Equal(t, StepGoal, got.Onboarding)
	assert.Equal(t, 1, s.Len())

	s.Clear(1)
	assert.Equal(t, FlowNone, s.Get(1).Flow)
	assert.Equal(t, 0, s.Len())
}

func TestConversationStoreReturnsCopies(t *testing.T) {
	s := NewConversationStore(0, zap.NewNop())
	defer s.Stop()

	s.Set(1, State{Flow: FlowOnboarding, Answers: Answers{Language: "EN"}})

	got := s.Get(1)
	got.Answers.Language = "AM"

	assert.Equal(t, "EN", s.Get(1).Answers.Language)
}

func TestConversationStoreSweepExpiresStalledState(t *testing.T) {
	s := NewConversationStore(20*time.Millisecond, zap.NewNop())
	defer s.Stop()

	s.Set(1, State{Flow: FlowPayment})
	assert.Eventually(t, func() bool {
		return s.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestConversationStoreStopClearsEverything(t *testing.T) {
	s := NewConversationStore(0, zap.NewNop())
	s.Set(1, State{Flow: FlowBroadcast})
	s.Set(2, State{Flow: FlowRejection})

	s.Stop()
	assert.Equal(t, 0, s.Len())
}
