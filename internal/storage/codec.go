package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/adanyl0v/todo-assistant/internal/models"
)

const schemaURL = "tasks.schema.json"

//go:embed tasks.schema.json
var schemaSource []byte

var tasksSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource))
	if err != nil {
		panic(fmt.Errorf("failed to add schema resource: %w", err))
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		panic(fmt.Errorf("failed to compile schema: %w", err))
	}
	return schema
}

// Encode serializes tasks as a JSON array. A nil slice encodes as [].
func Encode(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}
	return data, nil
}

// Decode parses and validates a blob written by Encode. Any violation of the
// task invariants yields an error wrapping ErrMalformed.
func Decode(data []byte) ([]models.Task, error) {
	var doc any
	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	err = tasksSchema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var tasks []models.Task
	err = json.Unmarshal(data, &tasks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		// The schema pattern only knows ASCII whitespace.
		if strings.TrimSpace(t.Text) == "" {
			return nil, fmt.Errorf("%w: task %q has blank text", ErrMalformed, t.ID)
		}
		if _, ok := seen[t.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformed, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return tasks, nil
}
