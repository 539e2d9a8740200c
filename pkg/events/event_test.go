package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewBaseEvent("loan.payment_applied", "loan-123", "Loan")
	after := time.Now().UTC()

	require.NotEmpty(t, event.EventID())
	assert.Equal(t, "loan.payment_applied", event.EventType())
	assert.Equal(t, "loan-123", event.AggregateID())
	assert.Equal(t, "Loan", event.AggregateType())
	assert.False(t, event.OccurredAt().Before(before))
	assert.False(t, event.OccurredAt().After(after))
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := NewBaseEvent("loan.created", "loan-1", "Loan")
	b := NewBaseEvent("loan.created", "loan-1", "Loan")
	assert.NotEqual(t, a.EventID(), b.EventID())
}
