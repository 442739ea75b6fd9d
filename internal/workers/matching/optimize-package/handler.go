// internal/workers/matching/optimize-package/handler.go
package optimizepackage

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
	TaskType = "optimize-package"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["requiredCategories", "maxBudget", "requirements"],
	"properties": {
		"requiredCategories": {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"optionalCategories": {"type": "array", "items": {"type": "string"}},
		"maxBudget": {"type": "number", "minimum": 0},
		"minMatchScore": {"type": "integer", "minimum": 0, "maximum": 100},
		"optimizationMode": {"type": "string", "enum": ["cost", "balanced", "quality"]},
		"requirements": {
			"type": "object",
			"required": ["guestCount"],
			"properties": {
				"guestCount": {"type": "integer", "minimum": 1},
				"weddingDate": {"type": "string", "format": "date-time"},
				"styles": {"type": "array", "items": {"type": "string"}},
				"location": {"type": "string"}
			}
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

	required, err := parseCategories(input.RequiredCategories)
	if err != nil {
		return nil, err
	}
	optional, err := parseCategories(input.OptionalCategories)
	if err != nil {
		return nil, err
	}

	result, err := h.engine.OptimizePackage(ctx, models.PackageConfig{
		RequiredCategories: required,
		OptionalCategories: optional,
		MaxBudget:          input.MaxBudget,
		MinMatchScore:      input.MinMatchScore,
		OptimizationMode:   models.OptimizationMode(input.OptimizationMode),
		Requirements:       input.Requirements,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		Package:         result,
		PackageComplete: result.Success,
	}, nil
}

func parseCategories(names []string) ([]models.Category, error) {
	out := make([]models.Category, 0, len(names))
	for _, name := range names {
		c, err := models.ParseCategory(name)
		if err != nil {
			return nil, apperrors.NewInvalidCategoryError(name)
		}
		out = append(out, c)
	}
	return out, nil
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
		"packageId":  output.Package.ID,
		"complete":   output.PackageComplete,
		"totalPrice": output.Package.TotalPrice,
	})
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
