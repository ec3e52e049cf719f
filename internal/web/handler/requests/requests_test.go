package requests

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/workflow"
)

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "RFC3339 timestamp",
			value:    "2025-12-10T09:30:00Z",
			expected: time.Date(2025, time.December, 10, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "bare date",
			value:    "2025-12-10",
			expected: time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			value:   "next tuesday",
			wantErr: true,
		},
		{
			name:    "empty",
			value:   "",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.value)

			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got))
		})
	}
}

func TestRender(t *testing.T) {
	t.Run("open visit omits the end", func(t *testing.T) {
		out := Render(&workflow.Request{
			ID:      1,
			Kind:    workflow.KindOnDuty,
			OwnerID: 3,
			Start:   time.Date(2025, time.December, 10, 9, 0, 0, 0, time.UTC),
			Open:    true,
			Status:  models.StatusPending,
		})

		assert.True(t, out.Open)
		assert.Nil(t, out.End)
		assert.Nil(t, out.Date)
	})

	t.Run("closed request carries the end", func(t *testing.T) {
		end := time.Date(2025, time.December, 12, 0, 0, 0, 0, time.UTC)

		out := Render(&workflow.Request{
			ID:      1,
			Kind:    workflow.KindLeave,
			OwnerID: 3,
			Start:   time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC),
			End:     end,
			Status:  models.StatusApproved,
		})

		require.NotNil(t, out.End)
		assert.Equal(t, end, *out.End)
		assert.Equal(t, "approved", out.Status)
	})

	t.Run("time-off carries the date", func(t *testing.T) {
		out := Render(&workflow.Request{
			ID:     1,
			Kind:   workflow.KindTimeOff,
			Date:   time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC),
			Start:  time.Date(2025, time.December, 10, 9, 0, 0, 0, time.UTC),
			End:    time.Date(2025, time.December, 10, 11, 0, 0, 0, time.UTC),
			Status: models.StatusPending,
		})

		require.NotNil(t, out.Date)
	})
}

func TestRenderListNeverNull(t *testing.T) {
	raw, err := json.Marshal(RenderList(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
