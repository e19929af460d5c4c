package utils

import (
	"fmt"
	"strings"

	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// ShapeInfo contains information about a registered shape
type ShapeInfo struct {
	Name        string
	Tag         string
	Description string
	Version     string
	Category    string
	Parameters  []scenario.Parameter
}

type configured interface {
	Config() scenario.ShapeConfig
}

// DiscoverShapes lists the shapes in reg, ordered by tag.
func DiscoverShapes(reg *scenario.Registry) []ShapeInfo {
	gens := reg.Generators()
	shapes := make([]ShapeInfo, 0, len(gens))
	for _, g := range gens {
		info := ShapeInfo{
			Name:        g.Name(),
			Tag:         g.Tag(),
			Description: g.Description(),
			Parameters:  g.Parameters(),
		}
		if c, ok := g.(configured); ok {
			cfg := c.Config()
			info.Version = cfg.Version
			info.Category = cfg.Category
		}
		shapes = append(shapes, info)
	}
	return shapes
}

// FormatParameter renders a parameter as "name (type, default D, min..max)".
func FormatParameter(p scenario.Parameter) string {
	details := []string{p.Type}
	if p.Default != nil {
		details = append(details, fmt.Sprintf("default %v", p.Default))
	}
	switch {
	case p.Min != nil && p.Max != nil:
		details = append(details, fmt.Sprintf("%v..%v", p.Min, p.Max))
	case p.Min != nil:
		details = append(details, fmt.Sprintf(">= %v", p.Min))
	case p.Max != nil:
		details = append(details, fmt.Sprintf("<= %v", p.Max))
	}
	if len(p.Options) > 0 {
		details = append(details, "one of "+strings.Join(p.Options, "|"))
	}
	return fmt.Sprintf("%s (%s)", p.Name, strings.Join(details, ", "))
}
