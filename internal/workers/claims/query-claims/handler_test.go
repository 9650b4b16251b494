// internal/workers/claims/query-claims/handler_test.go
package queryclaims

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"claims-registry/internal/claims/registry"
	"claims-registry/internal/claims/seed"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"
	"claims-registry/internal/models"
	activity "claims-registry/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	set, err := seed.Default()
	require.NoError(t, err)
	activities, err := activity.Default()
	require.NoError(t, err)

	sessions := registry.NewManager(registry.ManagerConfig{PageSize: 10, Seed: set, Logger: logger.NewTestLogger(t)})
	return NewHandler(&Config{Timeout: 5 * time.Second, MaxPageSize: 12}, sessions, activities, logger.NewTestLogger(t))
}

func ptr[T any](v T) *T {
	return &v
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_DefaultView(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.execute(context.Background(), &Input{SessionID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Page)
	assert.Equal(t, 2, output.TotalPages)
	assert.Equal(t, 15, output.TotalCount)
	assert.Len(t, output.Rows, 10)
	assert.Equal(t, "VCL-1001", output.Rows[0].ID)
	assert.Equal(t, models.SortSpec{Key: models.SortByDate, Direction: models.Descending}, output.Query.Sort)
}

func TestHandler_Execute_Patches(t *testing.T) {
	tests := []struct {
		name         string
		input        Input
		wantFiltered int
		wantPage     int
		wantFirstID  string
		wantPageSize int
	}{
		{
			name:         "flagged tab",
			input:        Input{Query: models.QueryPatch{Category: ptr(models.CategoryFlagged)}},
			wantFiltered: 7,
			wantPage:     1,
			wantFirstID:  "VCL-1001",
			wantPageSize: 10,
		},
		{
			name:         "vehicle kind past the last page clamps",
			input:        Input{Query: models.QueryPatch{Kind: ptr(models.KindFilterVehicle), Page: ptr(3)}},
			wantFiltered: 5,
			wantPage:     1,
			wantFirstID:  "VCL-1001",
			wantPageSize: 10,
		},
		{
			name:         "text search",
			input:        Input{Query: models.QueryPatch{Text: ptr("memorial")}},
			wantFiltered: 2,
			wantPage:     1,
			wantFirstID:  "CLM-2023456",
			wantPageSize: 10,
		},
		{
			name:         "sort header click",
			input:        Input{SortKey: models.SortByAmount},
			wantFiltered: 15,
			wantPage:     1,
			wantFirstID:  "CLM-2023461",
			wantPageSize: 10,
		},
		{
			name:         "page size capped",
			input:        Input{Query: models.QueryPatch{PageSize: ptr(500)}},
			wantFiltered: 15,
			wantPage:     1,
			wantFirstID:  "VCL-1001",
			wantPageSize: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t)
			input := tt.input
			input.SessionID = "alice"

			output, err := handler.execute(context.Background(), &input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFiltered, output.FilteredCount)
			assert.Equal(t, tt.wantPage, output.Page)
			assert.Equal(t, tt.wantPageSize, output.PageSize)
			require.NotEmpty(t, output.Rows)
			assert.Equal(t, tt.wantFirstID, output.Rows[0].ID)
		})
	}
}

func TestHandler_Execute_SortKeepsPage(t *testing.T) {
	handler := createTestHandler(t)
	ctx := context.Background()

	_, err := handler.execute(ctx, &Input{SessionID: "alice", Query: models.QueryPatch{Page: ptr(2)}})
	require.NoError(t, err)

	output, err := handler.execute(ctx, &Input{SessionID: "alice", SortKey: models.SortByID})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Page)
	assert.Len(t, output.Rows, 5)
}

func TestHandler_Execute_InvalidQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		wantCode apperrors.ErrorCode
	}{
		{"unknown category", Input{Query: models.QueryPatch{Category: ptr(models.Category("archived"))}}, apperrors.ErrCodeInvalidQuery},
		{"zero page size", Input{Query: models.QueryPatch{PageSize: ptr(0)}}, apperrors.ErrCodeInvalidQuery},
		{"unknown sort key", Input{SortKey: "owner"}, apperrors.ErrCodeInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t)
			input := tt.input
			input.SessionID = "alice"

			output, err := handler.execute(context.Background(), &input)
			assert.Nil(t, output)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestOutput_JSONIsFlat(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.execute(context.Background(), &Input{SessionID: "alice"})
	require.NoError(t, err)

	data, err := json.Marshal(output)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "rows")
	assert.Contains(t, decoded, "totalPages")
	assert.NotContains(t, decoded, "View")
}
