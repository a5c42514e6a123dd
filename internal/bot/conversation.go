package bot

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Flow identifies which conversational sequence a user is inside. Events
// tagged for one flow are invisible to the others, which is what lets the
// onboarding intake, the payment sub-flow and the admin flows share one
// transport without cross-talk.
type Flow int

const (
	FlowNone Flow = iota
	FlowOnboarding
	FlowPayment
	FlowProductCreate
	FlowRejection
	FlowBroadcast
)

// Onboarding steps, in order. Each accepts exactly one event prefix.
type OnboardingStep int

const (
	StepLanguage OnboardingStep = iota
	StepGender
	StepGoal
	StepLevel
	StepObstacle
	StepFrequency
)

// Answers accumulates the onboarding intake. Fields are only written by
// the step that owns them.
type Answers struct {
	Language  string
	Gender    string
	Goal      string
	Level     string
	Obstacle  string
	Frequency int
}

// PaymentDraft snapshots the offer the buyer accepted. Amount is carried
// into the ledger at evidence time; the catalog is not consulted again.
type PaymentDraft struct {
	ProductID uuid.UUID
	Title     string
	Amount    decimal.Decimal
}

// ProductDraft accumulates the admin product-creation flow.
type ProductDraft struct {
	Step      int
	Title     string
	Language  string
	Gender    string
	Level     string
	Frequency int
	Price     decimal.Decimal
}

// RejectionDraft is the nested awaiting_reason -> confirm_reason machine.
type RejectionDraft struct {
	PaymentID  uuid.UUID
	Reason     string
	Confirming bool
}

// BroadcastDraft references the operator's message to be copied out.
type BroadcastDraft struct {
	FromChatID int64
	MessageID  int
	Confirming bool
}

// State is the tagged union of per-flow progress. Only the section named
// by Flow is meaningful.
type State struct {
	Flow       Flow
	Onboarding OnboardingStep
	Answers    Answers
	Payment    PaymentDraft
	Product    ProductDraft
	Rejection  RejectionDraft
	Broadcast  BroadcastDraft
	UpdatedAt  time.Time
}

// ConversationStore tracks in-flight conversation state per user. Inbound
// events for one user are processed sequentially, so there is exactly one
// writer per key; the mutex covers the map itself and the optional sweep.
type ConversationStore struct {
	mu     sync.Mutex
	states map[int64]*State
	ttl    time.Duration
	log    *zap.Logger
	done   chan struct{}
	once   sync.Once
}

// NewConversationStore creates the store. ttl of zero disables expiry of
// stalled mid-flow state, which matches production behavior.
func NewConversationStore(ttl time.Duration, log *zap.Logger) *ConversationStore {
	s := &ConversationStore{
		states: make(map[int64]*State),
		ttl:    ttl,
		log:    log,
		done:   make(chan struct{}),
	}
	if ttl > 0 {
		go s.sweep()
	}
	return s
}

// Get returns the user's state, or a zero FlowNone state if they have none.
func (s *ConversationStore) Get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[userID]; ok {
		return *st
	}
	return State{}
}

// Set replaces the user's state wholesale.
func (s *ConversationStore) Set(userID int64, state State) {
	state.UpdatedAt = time.Now()
	s.mu.Lock()
	s.states[userID] = &state
	s.mu.Unlock()
}

// Clear drops the user's state unconditionally. Cancellation is immediate
// and total; partial answers do not survive it.
func (s *ConversationStore) Clear(userID int64) {
	s.mu.Lock()
	delete(s.states, userID)
	s.mu.Unlock()
}

// Len reports how many users are mid-flow.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// Stop halts the TTL sweeper and clears all state.
func (s *ConversationStore) Stop() {
	s.once.Do(func() { close(s.done) })
	s.mu.Lock()
	s.states = make(map[int64]*State)
	s.mu.Unlock()
}

func (s *ConversationStore) sweep() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, st := range s.states {
				if now.Sub(st.UpdatedAt) > s.ttl {
					delete(s.states, id)
					s.log.Debug("expired stalled conversation", zap.Int64("user_id", id))
				}
			}
			s.mu.Unlock()
		}
	}
}
