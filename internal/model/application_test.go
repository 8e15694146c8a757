package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultTypeTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    ResultType
		to      ResultType
		allowed bool
	}{
		{"pending to accepted", ResultPending, ResultAccepted, true},
		{"pending to rejected", ResultPending, ResultRejected, true},
		{"accepted overwritten with rejected", ResultAccepted, ResultRejected, true},
		{"rejected overwritten with accepted", ResultRejected, ResultAccepted, true},
		{"repeated terminal value", ResultAccepted, ResultAccepted, true},
		{"no re-entry to pending", ResultAccepted, ResultPending, false},
		{"pending cannot restate pending", ResultPending, ResultPending, false},
		{"unknown target", ResultPending, ResultType("MAYBE"), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.allowed, c.from.CanTransition(c.to))
		})
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusOpen))
	assert.True(t, ValidStatus(StatusTimeSet))
	assert.True(t, ValidStatus(StatusClosed))
	assert.False(t, ValidStatus(RecruitmentStatus("PAUSED")))
}
