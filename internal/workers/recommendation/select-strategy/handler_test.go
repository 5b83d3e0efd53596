// internal/workers/recommendation/select-strategy/handler_test.go
package selectstrategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotrader-workers/internal/common/logger"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func floatPtr(f float64) *float64 { return &f }

func TestExecute_DecisionOrder(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  string
	}{
		{
			name:  "new launch campaign wins",
			input: Input{Campaign: "New Launch Event", CustomerTier: "vip"},
			want:  "new_launch",
		},
		{
			name:  "sale campaign",
			input: Input{Campaign: "Summer Sale 2025"},
			want:  "sales_boost",
		},
		{
			name:  "clearance campaign",
			input: Input{Campaign: "year-end clearance"},
			want:  "sales_boost",
		},
		{
			name:  "boost campaign",
			input: Input{Campaign: "inventory boost week"},
			want:  "sales_boost",
		},
		{
			name:  "vip tier",
			input: Input{CustomerTier: "vip"},
			want:  "loyalty",
		},
		{
			name:  "loyal tier",
			input: Input{CustomerTier: "Loyal"},
			want:  "loyalty",
		},
		{
			name:  "stale inventory",
			input: Input{CustomerTier: "regular", AvgInventoryDays: floatPtr(40)},
			want:  "sales_boost",
		},
		{
			name:  "inventory at threshold stays default",
			input: Input{AvgInventoryDays: floatPtr(35)},
			want:  "default",
		},
		{
			name:  "empty context",
			input: Input{},
			want:  "default",
		},
		{
			name:  "missing inventory days defaults under threshold",
			input: Input{CustomerTier: "regular"},
			want:  "default",
		},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Strategy)
		})
	}
}

func TestExecute_CampaignBeatsInventory(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		Campaign:         "new_launch_q3",
		AvgInventoryDays: floatPtr(90),
	})

	require.NoError(t, err)
	assert.Equal(t, "new_launch", out.Strategy)
}
