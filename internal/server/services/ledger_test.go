package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		prior, requested int
		want             Action
	}{
		{0, 0, Action{Kind: ActionNone, Value: 0, Delta: 0}},
		{0, 1, Action{Kind: ActionInsert, Value: 1, Delta: 1}},
		{0, -1, Action{Kind: ActionInsert, Value: -1, Delta: -1}},
		{1, 0, Action{Kind: ActionDelete, Value: 0, Delta: -1}},
		{-1, 0, Action{Kind: ActionDelete, Value: 0, Delta: 1}},
		{1, 1, Action{Kind: ActionNone, Value: 1, Delta: 0}},
		{-1, -1, Action{Kind: ActionNone, Value: -1, Delta: 0}},
		{1, -1, Action{Kind: ActionUpdate, Value: -1, Delta: -2}},
		{-1, 1, Action{Kind: ActionUpdate, Value: 1, Delta: 2}},
	}

	for _, tt := range tests {
		got := Reconcile(tt.prior, tt.requested)
		assert.Equal(t, tt.want, got, "prior=%d requested=%d", tt.prior, tt.requested)
	}
}

func TestReconcile_DeltaMatchesCountChange(t *testing.T) {
	for _, prior := range []int{-1, 0, 1} {
		for _, req := range []int{-1, 0, 1} {
			a := Reconcile(prior, req)

			countChange := 0
			switch a.Kind {
			case ActionInsert:
				countChange = 1
			case ActionDelete:
				countChange = -1
			}

			had, has := 0, 0
			if prior != 0 {
				had = 1
			}
			if a.Value != 0 {
				has = 1
			}
			assert.Equal(t, has-had, countChange, "prior=%d requested=%d", prior, req)
			assert.Equal(t, req, prior+a.Delta)
		}
	}
}
