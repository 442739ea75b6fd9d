// internal/workers/matching/find-vendor-matches/handler.go
package findvendormatches

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "vendor-matching-workers/internal/common/errors"
	"vendor-matching-workers/internal/common/logger"
	"vendor-matching-workers/internal/common/validation"
	"vendor-matching-workers/internal/matching"
	"vendor-matching-workers/internal/models"
)

const (
	TaskType = "find-vendor-matches"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["category"],
	"anyOf": [
		{"required": ["weddingRequestId"]},
		{"required": ["weddingRequest"]}
	],
	"properties": {
		"weddingRequestId": {"type": "string", "minLength": 1},
		"weddingRequest": {
			"type": "object",
			"required": ["totalBudget", "guestCount"],
			"properties": {
				"totalBudget": {"type": "number", "minimum": 0},
				"guestCount": {"type": "integer", "minimum": 1},
				"weddingDate": {"type": "string", "format": "date-time"},
				"styles": {"type": "array", "items": {"type": "string"}},
				"location": {"type": "string"},
				"priorities": {
					"type": "object",
					"additionalProperties": {"type": "string", "enum": ["high", "medium", "low"]}
				}
			}
		},
		"category": {"type": "string", "minLength": 1},
		"preferences": {"type": "object"},
		"vendorIds": {"type": "array", "items": {"type": "string"}},
		"limit": {"type": "integer", "minimum": 0},
		"minScore": {"type": "integer", "minimum": 0, "maximum": 100},
		"budgetFlexibility": {"type": "number", "minimum": 0},
		"includeExcluded": {"type": "boolean"},
		"skipCache": {"type": "boolean"}
	}
}`)

type Handler struct {
	config *Config
	engine *matching.Engine
	logger logger.Logger
}

func NewHandler(config *Config, engine *matching.Engine, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.run(ctx, job.Variables)
	if err != nil {
		apperrors.NewErrorHandler(h.logger).HandleJobError(context.Background(), client, job, err)
		return err
	}

	return h.completeJob(client, job, output)
}

func (h *Handler) run(ctx context.Context, variables string) (*Output, error) {
	input, err := ParseInput(variables)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}

// ParseInput validates raw job variables and decodes them.
func ParseInput(variables string) (*Input, error) {
	if result := inputSchema.ValidateJSON(variables); !result.Valid {
		return nil, apperrors.NewValidationFailedError(result.Summary())
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewValidationFailedError("input cannot be nil")
	}

	category, err := models.ParseCategory(input.Category)
	if err != nil {
		return nil, apperrors.NewInvalidCategoryError(input.Category)
	}

	req, err := h.weddingRequest(ctx, input)
	if err != nil {
		return nil, err
	}

	filters := models.CategoryFilters{
		Category:    category,
		Preferences: input.Preferences,
		VendorIDs:   input.VendorIDs,
	}
	opts := models.MatchOptions{
		Limit:             input.Limit,
		MinScore:          input.MinScore,
		BudgetFlexibility: input.BudgetFlexibility,
		IncludeExcluded:   input.IncludeExcluded,
		SkipCache:         input.SkipCache,
	}

	matches, err := h.engine.FindMatches(ctx, req, filters, opts)
	if err != nil {
		return nil, err
	}

	output := &Output{
		Category:   category,
		Matches:    matches,
		MatchCount: len(matches),
	}
	if len(matches) > 0 && !matches[0].Excluded {
		top := matches[0]
		output.TopMatch = &top
	}
	return output, nil
}

func (h *Handler) weddingRequest(ctx context.Context, input *Input) (*models.WeddingRequest, error) {
	if input.WeddingRequest != nil {
		req := *input.WeddingRequest
		if input.WeddingRequestID != "" {
			req.ID = input.WeddingRequestID
		}
		return &req, nil
	}
	if input.WeddingRequestID == "" {
		return nil, apperrors.NewValidationFailedError("weddingRequest or weddingRequestId is required")
	}
	return h.engine.WeddingRequest(ctx, input.WeddingRequestID)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"category":   output.Category,
		"matchCount": output.MatchCount,
	})
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
