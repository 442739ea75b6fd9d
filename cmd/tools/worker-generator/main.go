// cmd/tools/worker-generator/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"vendor-matching-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name        string
	PackageName string
	TaskType    string
	Description string
	Timeout     string
	InputSchema string
	InputFields string
	ErrorCodes  []string
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(details map[string]interface{}) string {
	jt, _ := details["type"].(string)
	switch jt {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		if items, ok := details["items"].(map[string]interface{}); ok {
			return "[]" + goTypeFromJSONType(items)
		}
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// generateStructFields renders Input fields in a stable order.
func generateStructFields(schema map[string]interface{}) string {
	properties, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]string, 0, len(names))
	for _, name := range names {
		details, ok := properties[name].(map[string]interface{})
		if !ok {
			continue
		}
		fields = append(fields, fmt.Sprintf("\t%s %s `json:\"%s\"`", upperFirst(name), goTypeFromJSONType(details), name))
	}
	return strings.Join(fields, "\n")
}

// upperFirst makes the first character uppercase
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const handlerTemplate = `package {{ .PackageName }}

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
)

const (
	TaskType = "{{ .TaskType }}"
)

var inputSchema = validation.MustCompile(` + "`{{ .InputSchema }}`" + `)

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
	return h.Execute(ctx, input)
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewValidationFailedError("input cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewRequestCancelledError(TaskType, err)
	}

	// TODO: call h.engine
	return &Output{}, nil
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
`

const configTemplate = `package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: {{ .Timeout }},
	}
}
`

const modelsTemplate = `package {{ .PackageName }}

type Input struct {
{{ .InputFields }}
}

type Output struct {
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"
	"time"

	apperrors "vendor-matching-workers/internal/common/errors"
	"vendor-matching-workers/internal/common/logger"
	"vendor-matching-workers/internal/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestHandler(t *testing.T) *Handler {
	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	engine := matching.NewEngine(nil, nil, nil, nil, matching.DefaultOptions(), log)
	return NewHandler(&Config{Timeout: 5 * time.Second}, engine, log)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_NilInput(t *testing.T) {
	_, err := newTestHandler(t).Execute(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
}

func TestParseInput_Malformed(t *testing.T) {
	_, err := ParseInput(` + "`{`" + `)

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
}
`

func main() {
	activity := flag.String("activity", "", "Activity ID from registry (e.g., find-vendor-matches)")
	outputDir := flag.String("output", "./internal/workers/", "Output directory for the generated worker")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	force := flag.Bool("force", false, "Overwrite files that already exist")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator --activity <id> --output <dir> [--registry <path>] [--force]")
		fmt.Println("\nExample:")
		fmt.Println("  go run cmd/tools/worker-generator/main.go --activity find-vendor-matches")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	var found *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == *activity {
			found = &reg.Activities[i]
			break
		}
	}
	if found == nil {
		fmt.Printf("Activity '%s' not found in registry %s\n", *activity, *registryPath)
		os.Exit(1)
	}

	data, err := workerData(found)
	if err != nil {
		fmt.Printf("Error preparing templates: %v\n", err)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, strings.ToLower(found.Category), found.ID)
	if err := os.MkdirAll(workerDir, 0755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	templates := map[string]string{
		"handler.go":      handlerTemplate,
		"config.go":       configTemplate,
		"models.go":       modelsTemplate,
		"handler_test.go": testTemplate,
	}

	for filename, tmplStr := range templates {
		filePath := filepath.Join(workerDir, filename)
		if _, err := os.Stat(filePath); err == nil && !*force {
			fmt.Printf("- Skipped %s (exists)\n", filePath)
			continue
		}
		if err := render(filePath, filename, tmplStr, data); err != nil {
			fmt.Printf("Error generating %s: %v\n", filePath, err)
			continue
		}
		fmt.Printf("✓ Generated %s\n", filePath)
	}

	fmt.Printf("\n✅ Worker scaffold generated successfully at: %s\n", workerDir)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Call the matching engine from Execute in handler.go\n")
	fmt.Printf("  2. Fill in the Output fields in models.go\n")
	fmt.Printf("  3. Register the handler in cmd/worker-manager/main.go\n")
	fmt.Printf("  4. Add the worker to configs/config.yaml\n")
}

func workerData(a *registry.Activity) (*WorkerData, error) {
	schema := a.InputSchema
	if len(schema) == 0 {
		schema = map[string]interface{}{"type": "object"}
	}
	raw, err := json.MarshalIndent(schema, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("marshal input schema: %w", err)
	}

	timeout, err := a.TimeoutDuration(30 * time.Second)
	if err != nil {
		fmt.Printf("Warning: %v, using %s\n", err, timeout)
	}

	return &WorkerData{
		Name:        a.DisplayName,
		PackageName: strings.ReplaceAll(a.ID, "-", ""),
		TaskType:    a.TaskType,
		Description: a.Description,
		Timeout:     goDuration(timeout),
		InputSchema: string(raw),
		InputFields: generateStructFields(schema),
		ErrorCodes:  a.ErrorCodes,
	}, nil
}

// goDuration renders a duration as a Go expression, e.g. 30 * time.Second.
func goDuration(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf("%d * time.Minute", d/time.Minute)
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	}
	return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
}

func render(path, name, tmplStr string, data *WorkerData) error {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return tmpl.Execute(file, data)
}
