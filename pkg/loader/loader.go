// Package loader reads form definitions from YAML or JSON files.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Definition is the content of a form file.
type Definition struct {
	Name       string                       `mapstructure:"name"`
	ValueHosts []domain.ValueHostDescriptor `mapstructure:"valueHosts"`
}

// LoadFile reads a .yaml, .yml or .json form file.
func LoadFile(path string) (*Definition, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("unsupported form file extension: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a form definition. JSON is accepted as a subset of YAML.
func Parse(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	var def Definition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &def,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if err := Check(def.ValueHosts); err != nil {
		return nil, err
	}
	return &def, nil
}

// Check validates the structure of descriptors: unique non-empty names and a condition
// type on every validator. Condition parameters are checked when the form is built.
func Check(descriptors []domain.ValueHostDescriptor) error {
	seen := make(map[string]struct{}, len(descriptors))
	for i, d := range descriptors {
		if d.Name == "" {
			return fmt.Errorf("%w: value host %d has no name", domain.ErrInvalidConfig, i)
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateValueHost, d.Name)
		}
		seen[d.Name] = struct{}{}

		switch d.Kind {
		case "", domain.KindStatic, domain.KindInput:
		default:
			return fmt.Errorf("%w: value host %s has unknown kind %q", domain.ErrInvalidConfig, d.Name, d.Kind)
		}
		for j, v := range d.Validators {
			if v.Condition.Type() == "" {
				return fmt.Errorf("%w: value host %s validator %d has no conditionType", domain.ErrInvalidConfig, d.Name, j)
			}
		}
	}
	return nil
}

// LoadValues reads a flat name to value map, used to feed a form from a file.
func LoadValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values file: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse values file: %w", err)
	}
	return values, nil
}
