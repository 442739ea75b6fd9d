// internal/workers/matching/compute-category-budget/handler.go
package computecategorybudget

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
	TaskType = "compute-category-budget"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["totalBudget", "category"],
	"properties": {
		"totalBudget": {"type": "number"},
		"category": {"type": "string", "minLength": 1},
		"priorities": {
			"type": "object",
			"additionalProperties": {"type": "string", "enum": ["high", "medium", "low"]}
		}
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
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewRequestCancelledError(TaskType, err)
	}

	category, err := models.ParseCategory(input.Category)
	if err != nil {
		return nil, apperrors.NewInvalidCategoryError(input.Category)
	}

	priority := models.PriorityMedium
	if p, ok := input.Priorities[category]; ok && p != "" {
		priority = p
	}

	return &Output{
		Category:       category,
		Priority:       priority,
		CategoryBudget: h.engine.ComputeCategoryBudget(input.TotalBudget, category, input.Priorities),
	}, nil
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
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
