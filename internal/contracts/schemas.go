package contracts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strings"

	"showcase-service/internal/core/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed schemas
var SchemasFS embed.FS

var (
	stepSchemas  = make(map[domain.FormStep]*jsonschema.Schema)
	eventSchemas = make(map[string]*jsonschema.Schema)
)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(SchemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := SchemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and adding schema resources: %v", err)
	}

	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			log.Fatalf("could not compile schema %s: %v", path, err)
		}
		switch {
		case strings.HasPrefix(path, "schemas/steps/"):
			stepSchemas[stepFromPath(path)] = schema
		case strings.HasPrefix(path, "schemas/events/"):
			eventSchemas[generateKeyFromPath(path)] = schema
		}
	}
}

// stepFromPath: "schemas/steps/basic-info/v1.json" -> "basic-info"
func stepFromPath(path string) domain.FormStep {
	parts := strings.Split(strings.TrimPrefix(path, "schemas/steps/"), "/")
	return domain.FormStep(parts[0])
}

// generateKeyFromPath преобразует путь вида "schemas/events/property-viewed/v1.json"
// в ключ вида "PropertyViewedEvent/1.0.0".
func generateKeyFromPath(path string) string {
	trimmedPath := strings.TrimPrefix(path, "schemas/events/")
	trimmedPath = strings.TrimSuffix(trimmedPath, ".json")

	parts := strings.Split(trimmedPath, "/")
	if len(parts) != 2 {
		return ""
	}

	caser := cases.Title(language.English)

	var eventNameBuilder strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		eventNameBuilder.WriteString(caser.String(p))
	}
	eventNameBuilder.WriteString("Event")

	version := strings.Replace(parts[1], "v", "", 1) + ".0.0"
	return fmt.Sprintf("%s/%s", eventNameBuilder.String(), version)
}

// ValidateEvent проверяет тело сообщения брокера по схеме события
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	key := fmt.Sprintf("%s/%s", eventType, eventVersion)
	schema, ok := eventSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// StepValidator проверяет данные шага мастера по его JSON-схеме
type StepValidator struct{}

func NewStepValidator() *StepValidator {
	return &StepValidator{}
}

// ValidateStep возвращает *domain.ValidationError с ошибками по полям
func (v *StepValidator) ValidateStep(step domain.FormStep, payload []byte) error {
	schema, ok := stepSchemas[step]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownStep, step)
	}

	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return &domain.ValidationError{Step: step, Fields: map[string]string{"": "payload is not a valid JSON"}}
	}

	err := schema.Validate(doc)
	if err == nil {
		return nil
	}
	var schemaErr *jsonschema.ValidationError
	if !errors.As(err, &schemaErr) {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}

	vErr := &domain.ValidationError{Step: step}
	for _, leaf := range leaves(schemaErr) {
		vErr.Add(fieldFromPointer(leaf.InstanceLocation), leaf.Message)
	}
	return vErr.OrNil()
}

// leaves собирает конечные причины ошибки в стабильном порядке
func leaves(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		out = append(out, leaves(cause)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].InstanceLocation < out[j].InstanceLocation })
	return out
}

// fieldFromPointer: "/images/0/url" -> "images[0].url"
func fieldFromPointer(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	var b strings.Builder
	for i, part := range strings.Split(pointer, "/") {
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
