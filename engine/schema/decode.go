package schema

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
)

// decodeDocument parses a raw fragment document. Both JSON and YAML stores
// are supported; the extension decides the parser.
func decodeDocument(path string, data []byte) (map[string]any, error) {
	doc := make(map[string]any)
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML document %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON document %s: %w", path, err)
		}
	}
	return doc, nil
}

// decodeFragment decodes a validated raw document into the typed fragment
// for its layer. out must be a pointer to the fragment struct.
func decodeFragment(doc map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			singletonToSliceHook,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to build fragment decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return fmt.Errorf("failed to decode fragment: %w", err)
	}
	return nil
}

// singletonToSliceHook lets intent_map entries be written as a bare string
// when the intent targets a single category.
func singletonToSliceHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to.Kind() == reflect.Slice && to.Elem().Kind() == reflect.String {
		return []string{data.(string)}, nil
	}
	return data, nil
}

var structValidator = validator.New()

// validateSchema runs struct-tag validation over the fully decoded and
// defaulted schema.
func validateSchema(s *BusinessCategorySchema) error {
	if err := structValidator.Struct(s); err != nil {
		return fmt.Errorf("schema for %q failed validation: %w", s.ID, err)
	}
	return nil
}
