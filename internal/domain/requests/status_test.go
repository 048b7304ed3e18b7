package requests

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"draft to submitted", StatusDraft, StatusSubmitted, true},
		{"draft to quoting skips submission", StatusDraft, StatusQuoting, false},
		{"submitted to quoting", StatusSubmitted, StatusQuoting, true},
		{"quoting to evaluating", StatusQuoting, StatusEvaluating, true},
		{"evaluating to approved", StatusEvaluating, StatusApproved, true},
		{"evaluating to rejected", StatusEvaluating, StatusRejected, true},
		{"evaluating to standby", StatusEvaluating, StatusStandby, true},
		{"evaluating to revision", StatusEvaluating, StatusRevisionRequested, true},
		{"standby back to evaluating", StatusStandby, StatusEvaluating, true},
		{"standby cannot approve directly", StatusStandby, StatusApproved, false},
		{"revision back to submitted", StatusRevisionRequested, StatusSubmitted, true},
		{"revision cannot approve directly", StatusRevisionRequested, StatusApproved, false},
		{"approved is terminal", StatusApproved, StatusEvaluating, false},
		{"rejected is terminal", StatusRejected, StatusSubmitted, false},
		{"cancel from draft", StatusDraft, StatusCancelled, true},
		{"cancel from evaluating", StatusEvaluating, StatusCancelled, true},
		{"cancel from approved", StatusApproved, StatusCancelled, false},
		{"cancel from cancelled", StatusCancelled, StatusCancelled, false},
		{"backwards to draft", StatusSubmitted, StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusDraft.IsTerminal())
	assert.False(t, StatusStandby.IsTerminal())
}

func TestStatusEditable(t *testing.T) {
	assert.True(t, StatusDraft.Editable())
	assert.True(t, StatusRevisionRequested.Editable())
	assert.False(t, StatusSubmitted.Editable())
	assert.False(t, StatusApproved.Editable())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusQuoting.IsValid())
	assert.False(t, Status("pending").IsValid())
	assert.False(t, Status("").IsValid())
}
