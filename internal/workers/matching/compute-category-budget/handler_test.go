// internal/workers/matching/compute-category-budget/handler_test.go
package computecategorybudget

import (
	"context"
	"testing"
	"time"

	apperrors "vendor-matching-workers/internal/common/errors"
	"vendor-matching-workers/internal/common/logger"
	"vendor-matching-workers/internal/matching"
	"vendor-matching-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func newTestHandler(t *testing.T) *Handler {
	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	engine := matching.NewEngine(nil, nil, nil, nil, matching.DefaultOptions(), log)
	return NewHandler(createTestConfig(), engine, log)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name             string
		input            *Input
		expectedCategory models.Category
		expectedPriority models.Priority
		expectedBudget   float64
	}{
		{
			name: "high priority venue",
			input: &Input{
				TotalBudget: 100000000,
				Category:    "venue",
				Priorities:  map[models.Category]models.Priority{models.CategoryVenue: models.PriorityHigh},
			},
			expectedCategory: models.CategoryVenue,
			expectedPriority: models.PriorityHigh,
			expectedBudget:   45000000,
		},
		{
			name:             "unset priority is medium",
			input:            &Input{TotalBudget: 1000000, Category: "caterer"},
			expectedCategory: models.CategoryCaterer,
			expectedPriority: models.PriorityMedium,
			expectedBudget:   250000,
		},
		{
			name: "low priority photographer",
			input: &Input{
				TotalBudget: 1000000,
				Category:    "Photographer",
				Priorities:  map[models.Category]models.Priority{models.CategoryPhotographer: models.PriorityLow},
			},
			expectedCategory: models.CategoryPhotographer,
			expectedPriority: models.PriorityLow,
			expectedBudget:   70000,
		},
		{
			name:             "zero budget",
			input:            &Input{TotalBudget: 0, Category: "music"},
			expectedCategory: models.CategoryMusic,
			expectedPriority: models.PriorityMedium,
			expectedBudget:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := newTestHandler(t).Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedCategory, output.Category)
			assert.Equal(t, tt.expectedPriority, output.Priority)
			assert.Equal(t, tt.expectedBudget, output.CategoryBudget)
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_InvalidCategory(t *testing.T) {
	_, err := newTestHandler(t).Execute(context.Background(), &Input{TotalBudget: 1000, Category: "astrologer"})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidCategory))
	assert.False(t, apperrors.IsRetryable(err))
}

func TestHandler_Execute_NilInput(t *testing.T) {
	_, err := newTestHandler(t).Execute(context.Background(), nil)

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
}

func TestParseInput(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		input, err := ParseInput(`{"totalBudget": 500000, "category": "florist", "priorities": {"florist": "high"}}`)

		require.NoError(t, err)
		assert.Equal(t, 500000.0, input.TotalBudget)
		assert.Equal(t, models.PriorityHigh, input.Priorities[models.CategoryFlorist])
	})

	tests := []struct {
		name      string
		variables string
	}{
		{"missing category", `{"totalBudget": 500000}`},
		{"budget as string", `{"totalBudget": "lots", "category": "venue"}`},
		{"unknown priority", `{"totalBudget": 1, "category": "venue", "priorities": {"venue": "urgent"}}`},
		{"malformed json", `{"totalBudget":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInput(tt.variables)

			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
		})
	}
}
