// internal/workers/matching/find-all-category-matches/handler.go
package findallcategorymatches

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "vendor-matching-workers/internal/common/errors"
	"vendor-matching-workers/internal/common/logger"
	"vendor-matching-workers/internal/common/validation"
	"vendor-matching-workers/internal/matching"
	"vendor-matching-workers/internal/models"
)

const (
	TaskType = "find-all-category-matches"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["weddingRequestId"],
	"properties": {
		"weddingRequestId": {"type": "string", "minLength": 1}
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

	matches, err := h.engine.FindAllCategoryMatches(ctx, input.WeddingRequestID)
	if err != nil {
		return nil, err
	}

	output := &Output{
		WeddingRequestID: input.WeddingRequestID,
		Matches:          matches,
		Categories:       make([]models.Category, 0, len(matches)),
		EmptyCategories:  []models.Category{},
	}
	for category, results := range matches {
		output.Categories = append(output.Categories, category)
		output.TotalMatches += len(results)
		if len(results) == 0 {
			output.EmptyCategories = append(output.EmptyCategories, category)
		}
	}
	sortByDeclaration(output.Categories)
	sortByDeclaration(output.EmptyCategories)

	return output, nil
}

// sortByDeclaration orders categories as models.AllCategories lists them.
func sortByDeclaration(categories []models.Category) {
	index := make(map[models.Category]int, len(models.AllCategories))
	for i, c := range models.AllCategories {
		index[c] = i
	}
	sort.Slice(categories, func(i, j int) bool {
		return index[categories[i]] < index[categories[j]]
	})
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
		"jobKey":       job.Key,
		"weddingId":    output.WeddingRequestID,
		"categories":   len(output.Categories),
		"totalMatches": output.TotalMatches,
	})
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
