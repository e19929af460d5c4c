package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ShapeConfig describes a scenario shape. Each shape package embeds one as
// shape.yaml next to its source.
type ShapeConfig struct {
	Name        string      `yaml:"name"`
	Tag         string      `yaml:"tag"`
	Description string      `yaml:"description"`
	Version     string      `yaml:"version"`
	Category    string      `yaml:"category"`
	Parameters  []Parameter `yaml:"parameters"`
}

// Parameter defines a configurable parameter for a shape
type Parameter struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"` // integer, float, string, boolean
	Description string      `yaml:"description"`
	Default     interface{} `yaml:"default"`
	Required    bool        `yaml:"required"`
	Min         interface{} `yaml:"min,omitempty"`
	Max         interface{} `yaml:"max,omitempty"`
	Options     []string    `yaml:"options,omitempty"` // For string enums
}

// ParseShapeConfig decodes a shape.yaml document.
func ParseShapeConfig(data []byte) (ShapeConfig, error) {
	var cfg ShapeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ShapeConfig{}, fmt.Errorf("failed to parse shape config: %w", err)
	}
	if cfg.Name == "" || cfg.Tag == "" {
		return ShapeConfig{}, fmt.Errorf("shape config requires name and tag")
	}
	return cfg, nil
}

// MustParseShapeConfig is ParseShapeConfig for embedded documents; it panics on error.
func MustParseShapeConfig(data []byte) ShapeConfig {
	cfg, err := ParseShapeConfig(data)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Defaults returns the default value of every parameter that declares one.
func (c ShapeConfig) Defaults() map[string]interface{} {
	out := make(map[string]interface{}, len(c.Parameters))
	for _, p := range c.Parameters {
		if p.Default != nil {
			out[p.Name] = p.Default
		}
	}
	return out
}

// Descriptor implements the descriptive half of Generator from a ShapeConfig.
type Descriptor struct {
	Shape ShapeConfig
}

func (d Descriptor) Name() string            { return d.Shape.Name }
func (d Descriptor) Tag() string             { return d.Shape.Tag }
func (d Descriptor) Description() string     { return d.Shape.Description }
func (d Descriptor) Parameters() []Parameter { return d.Shape.Parameters }

// Config returns the full shape document, including version and category.
func (d Descriptor) Config() ShapeConfig { return d.Shape }

// WithDefaults layers params over the shape defaults without mutating either map.
func (d Descriptor) WithDefaults(params map[string]interface{}) map[string]interface{} {
	merged := d.Shape.Defaults()
	for k, v := range params {
		merged[k] = v
	}
	return merged
}
