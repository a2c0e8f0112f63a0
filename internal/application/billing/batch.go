package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/langbridge/billing/internal/domain/shared"
)

// DefaultMaxBatchSize caps batch operations when no limit is configured
const DefaultMaxBatchSize = 100

// BatchItemResult records the outcome for a single batch member. Code carries
// the domain error code so clients can tell a missing order from a denied
// transition without parsing the message.
type BatchItemResult struct {
	ID      uuid.UUID `json:"id"`
	Success bool      `json:"success"`
	Code    string    `json:"code,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// BatchResult aggregates per-item outcomes. A batch call only fails as a
// whole on empty or oversized input; item failures are reported here.
type BatchResult struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []BatchItemResult `json:"results"`
}

// runBatch applies op to every ID independently. One item's failure never
// stops the rest.
func runBatch(ctx context.Context, ids []uuid.UUID, maxSize int, op func(context.Context, uuid.UUID) error) (*BatchResult, error) {
	if len(ids) == 0 {
		return nil, shared.NewDomainError("EMPTY_BATCH", "Batch request contains no IDs")
	}
	if len(ids) > maxSize {
		return nil, shared.NewDomainError("BATCH_TOO_LARGE", fmt.Sprintf("Batch size %d exceeds the limit of %d", len(ids), maxSize))
	}

	result := &BatchResult{
		Total:   len(ids),
		Results: make([]BatchItemResult, 0, len(ids)),
	}
	for _, id := range ids {
		item := BatchItemResult{ID: id}
		if err := op(ctx, id); err != nil {
			item.Code = batchErrorCode(err)
			item.Error = err.Error()
			result.Failed++
		} else {
			item.Success = true
			result.Succeeded++
		}
		result.Results = append(result.Results, item)
	}
	return result, nil
}

// batchErrorCode maps an item failure onto the domain error taxonomy
func batchErrorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	var transitionErr *billing.InvalidStatusTransitionError
	if errors.As(err, &transitionErr) {
		return "INVALID_STATUS_TRANSITION"
	}
	return "INTERNAL_ERROR"
}
