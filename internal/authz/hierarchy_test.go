package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanActOnRole(t *testing.T) {
	testCases := []struct {
		name            string
		actorRank       uint
		targetRank      uint
		isDirectManager bool
		expected        bool
	}{
		{
			name:       "rank zero acts on anyone",
			actorRank:  0,
			targetRank: 0,
			expected:   true,
		},
		{
			name:       "rank zero acts on lower ranks",
			actorRank:  0,
			targetRank: 7,
			expected:   true,
		},
		{
			name:       "strictly lower target rank is allowed",
			actorRank:  3,
			targetRank: 4,
			expected:   true,
		},
		{
			name:       "much lower target rank is allowed",
			actorRank:  3,
			targetRank: 100,
			expected:   true,
		},
		{
			name:       "equal rank without manager link is blocked",
			actorRank:  3,
			targetRank: 3,
			expected:   false,
		},
		{
			name:            "equal rank with manager link is allowed",
			actorRank:       3,
			targetRank:      3,
			isDirectManager: true,
			expected:        true,
		},
		{
			name:       "higher target rank is blocked",
			actorRank:  3,
			targetRank: 2,
			expected:   false,
		},
		{
			name:            "higher target rank stays blocked even for the manager",
			actorRank:       3,
			targetRank:      2,
			isDirectManager: true,
			expected:        false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanActOnRole(tc.actorRank, tc.targetRank, tc.isDirectManager)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCanAssignRole(t *testing.T) {
	testCases := []struct {
		name        string
		actorRank   uint
		newRoleRank uint
		expected    bool
	}{
		{
			name:        "rank zero assigns anything",
			actorRank:   0,
			newRoleRank: 0,
			expected:    true,
		},
		{
			name:        "lower new role rank is allowed",
			actorRank:   3,
			newRoleRank: 4,
			expected:    true,
		},
		{
			name:        "equal new role rank is blocked",
			actorRank:   3,
			newRoleRank: 3,
			expected:    false,
		},
		{
			name:        "higher new role rank is blocked",
			actorRank:   3,
			newRoleRank: 1,
			expected:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanAssignRole(tc.actorRank, tc.newRoleRank)
			assert.Equal(t, tc.expected, got)
		})
	}
}
