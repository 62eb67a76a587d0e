package taskstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/runoshun/todo/internal/domain"
)

//go:embed tasks.schema.json
var schemaJSON string

const schemaURL = "mem:///tasks.schema.json"

// compileSchema compiles the embedded blob schema.
func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load task schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile task schema: %w", err)
	}
	return schema, nil
}

// checkBlob validates raw against schema and reports every problem found,
// including duplicate ids, which the schema cannot express.
func checkBlob(schema *jsonschema.Schema, raw string) []domain.SchemaProblem {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return []domain.SchemaProblem{{Message: fmt.Sprintf("invalid JSON: %v", err)}}
	}
	if dec.More() {
		return []domain.SchemaProblem{{Message: "invalid JSON: trailing data after array"}}
	}

	var problems []domain.SchemaProblem
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return []domain.SchemaProblem{{Message: err.Error()}}
		}
		problems = collectSchemaProblems(problems, ve)
	}

	return append(problems, duplicateIDs(doc)...)
}

func collectSchemaProblems(result []domain.SchemaProblem, err *jsonschema.ValidationError) []domain.SchemaProblem {
	if len(err.Causes) == 0 {
		return append(result, domain.SchemaProblem{
			Path:    jsonPointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
	}

	for _, cause := range err.Causes {
		result = collectSchemaProblems(result, cause)
	}
	return result
}

func duplicateIDs(doc any) []domain.SchemaProblem {
	items, ok := doc.([]any)
	if !ok {
		return nil
	}

	var problems []domain.SchemaProblem
	seen := make(map[string]int, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, ok := obj["id"].(string)
		if !ok {
			continue
		}
		if first, dup := seen[id]; dup {
			problems = append(problems, domain.SchemaProblem{
				Path:    fmt.Sprintf("[%d].id", i),
				Message: fmt.Sprintf("duplicate id %q (first used at [%d])", id, first),
			})
			continue
		}
		seen[id] = i
	}
	return problems
}

// jsonPointerToPath converts "/0/title" to "[0].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var path strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&path, "[%d]", idx)
			continue
		}
		if path.Len() > 0 {
			path.WriteByte('.')
		}
		path.WriteString(part)
	}
	return path.String()
}

// encodeTasks serializes tasks as a compact JSON array without HTML escaping.
func encodeTasks(tasks []domain.Task) (string, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tasks); err != nil {
		return "", fmt.Errorf("marshal tasks: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
