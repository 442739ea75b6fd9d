// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"vendor-matching-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "check-input":
		err = runCheckInput(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	default:
		help()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runList(args []string) error {
	cmd := flag.NewFlagSet("list", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	cmd.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TASK TYPE\tSTATUS\tTIMEOUT\tRETRIES\tVERSION")
	for _, a := range reg.Activities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", a.TaskType, a.ImplementationStatus, a.Timeout, a.Retries, a.Version)
	}
	return w.Flush()
}

func runValidate(args []string) error {
	cmd := flag.NewFlagSet("validate", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	cmd.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}

	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

// runCheckInput validates a sample job variables document against the
// registered input schema of a task type.
func runCheckInput(args []string) error {
	cmd := flag.NewFlagSet("check-input", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	taskType := cmd.String("taskType", "", "Task type to check against")
	input := cmd.String("input", "", "Path to a JSON file with job variables")
	cmd.Parse(args)

	if *taskType == "" || *input == "" {
		cmd.Usage()
		return fmt.Errorf("taskType and input are required")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	activity, ok := reg.Find(*taskType)
	if !ok {
		return fmt.Errorf("task type %s is not registered", *taskType)
	}
	schema, err := activity.CompileInputSchema()
	if err != nil {
		return err
	}

	doc, err := os.ReadFile(*input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	result := schema.ValidateJSON(string(doc))
	if !result.Valid {
		return fmt.Errorf("input rejected: %s", result.Summary())
	}
	fmt.Printf("Input accepted by %s.\n", *taskType)
	return nil
}

func runUpdate(args []string) error {
	cmd := flag.NewFlagSet("update", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	id := cmd.String("id", "", "Activity ID to update")
	field := cmd.String("field", "", "Field to update (status, version, etc.)")
	value := cmd.String("value", "", "New value for the field")
	cmd.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		cmd.Usage()
		return fmt.Errorf("id, field, and value are required for update")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == *id {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", *id)
	}

	switch *field {
	case "status":
		activity.ImplementationStatus = *value
	case "version":
		activity.Version = *value
	case "displayName":
		activity.DisplayName = *value
	case "description":
		activity.Description = *value
	case "timeout":
		activity.Timeout = *value
	case "retries":
		retries, err := strconv.Atoi(*value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", *field)
	}

	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := saveRegistry(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

// saveRegistry handles saving the registry to file
func saveRegistry(reg *registry.ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  list         List the registered task types
  validate     Validate the registry file and compile every input schema
  check-input  Validate sample job variables against a task type's input schema
  update       Update an existing activity's field
  help         Show this help message

Examples:
  registry-updater list
  registry-updater validate -path configs/activity-registry.json
  registry-updater check-input -taskType find-vendor-matches -input testdata/find-venue.json
  registry-updater update -id optimize-package -field timeout -value 90s

Use 'registry-updater <command> -h' for more information about a command.

`)
}
