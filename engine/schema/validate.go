package schema

import (
	"embed"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

//go:embed schemas/*.json
var layerSchemaFS embed.FS

// Layer names one of the three fragment documents of a category.
type Layer string

const (
	LayerClassification Layer = "classification"
	LayerBehavior       Layer = "behavior"
	LayerLabels         Layer = "labels"
)

var Layers = []Layer{LayerClassification, LayerBehavior, LayerLabels}

var (
	layerSchemasOnce sync.Once
	layerSchemas     map[Layer]*jsonschema.Schema
	layerSchemasErr  error
)

func compiledLayerSchema(layer Layer) (*jsonschema.Schema, error) {
	layerSchemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		layerSchemas = make(map[Layer]*jsonschema.Schema, len(Layers))
		for _, l := range Layers {
			bytes, err := layerSchemaFS.ReadFile(fmt.Sprintf("schemas/%s.json", l))
			if err != nil {
				layerSchemasErr = fmt.Errorf("failed to read %s layer schema: %w", l, err)
				return
			}
			compiled, err := compiler.Compile(bytes)
			if err != nil {
				layerSchemasErr = fmt.Errorf("failed to compile %s layer schema: %w", l, err)
				return
			}
			layerSchemas[l] = compiled
		}
	})
	if layerSchemasErr != nil {
		return nil, layerSchemasErr
	}
	return layerSchemas[layer], nil
}

// validateLayer checks a raw fragment document against the embedded JSON
// schema for its layer before any decoding happens.
func validateLayer(layer Layer, doc map[string]any) error {
	compiled, err := compiledLayerSchema(layer)
	if err != nil {
		return err
	}
	result := compiled.Validate(doc)
	if !result.Valid {
		return fmt.Errorf("%s fragment failed schema validation: %v", layer, result.Errors)
	}
	return nil
}
