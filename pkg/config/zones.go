package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
)

// ErrInvalidZone is returned for catalogs that fail schema or bound checks.
var ErrInvalidZone = errors.New("invalid zone catalog")

const (
	configDirName = ".scengen"
	zonesFileName = "zones.yaml"
)

// Zones is the on-disk form of the zone catalog.
type Zones struct {
	Zones geo.Catalog `yaml:"zones"`
}

// Validate runs the semantic checks the schema cannot express.
func (z *Zones) Validate() error {
	if len(z.Zones) == 0 {
		return fmt.Errorf("%w: no zones defined", ErrInvalidZone)
	}
	seen := make(map[string]bool, len(z.Zones))
	for _, zone := range z.Zones {
		if err := zone.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidZone, err)
		}
		if seen[zone.Name] {
			return fmt.Errorf("%w: duplicate zone %q", ErrInvalidZone, zone.Name)
		}
		seen[zone.Name] = true
	}
	return nil
}

// Add appends a zone, rejecting duplicate names and bad bounds.
func (z *Zones) Add(zone geo.Zone) error {
	if err := zone.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidZone, err)
	}
	if _, exists := z.Zones.Lookup(zone.Name); exists {
		return fmt.Errorf("zone %q already exists", zone.Name)
	}
	z.Zones = append(z.Zones, zone)
	return nil
}

// Remove deletes the named zone, keeping the order of the rest.
func (z *Zones) Remove(name string) error {
	for i, zone := range z.Zones {
		if zone.Name == name {
			z.Zones = append(z.Zones[:i:i], z.Zones[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("zone %q not found", name)
}

// DefaultZonesPath is $HOME/.scengen/zones.yaml.
func DefaultZonesPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName, zonesFileName), nil
}

// LoadZones loads the zone catalog from the default location
func LoadZones() (*Zones, error) {
	path, err := DefaultZonesPath()
	if err != nil {
		return nil, err
	}
	return LoadZonesFromFile(path)
}

// LoadZonesFromFile loads a zone catalog from a specific file. A missing file
// yields the built-in catalog.
func LoadZonesFromFile(path string) (*Zones, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return getDefaultZones(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zone catalog: %w", err)
	}

	return ParseZones(data)
}

// ParseZones decodes and validates a zone catalog document.
func ParseZones(data []byte) (*Zones, error) {
	if err := validateZonesDocument(data); err != nil {
		return nil, err
	}

	var zones Zones
	if err := yaml.Unmarshal(data, &zones); err != nil {
		return nil, fmt.Errorf("failed to parse zone catalog: %w", err)
	}
	if err := zones.Validate(); err != nil {
		return nil, err
	}

	return &zones, nil
}

// SaveZones saves the zone catalog to the default location
func SaveZones(zones *Zones) error {
	path, err := DefaultZonesPath()
	if err != nil {
		return err
	}
	return SaveZonesToFile(zones, path)
}

// SaveZonesToFile validates and writes a zone catalog
func SaveZonesToFile(zones *Zones, path string) error {
	if err := zones.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(zones)
	if err != nil {
		return fmt.Errorf("failed to marshal zone catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write zone catalog: %w", err)
	}

	return nil
}

// getDefaultZones returns the built-in training areas
func getDefaultZones() *Zones {
	return &Zones{
		Zones: geo.Catalog{
			{Name: "baltic", LatMin: 54.0, LatMax: 59.0, LonMin: 14.0, LonMax: 24.0},
			{Name: "black_sea", LatMin: 41.5, LatMax: 46.0, LonMin: 28.0, LonMax: 41.0},
			{Name: "persian_gulf", LatMin: 24.0, LatMax: 29.5, LonMin: 48.0, LonMax: 56.0},
			{Name: "south_china_sea", LatMin: 8.0, LatMax: 20.0, LonMin: 110.0, LonMax: 118.0},
			{Name: "korean_peninsula", LatMin: 34.5, LatMax: 40.0, LonMin: 125.0, LonMax: 130.0},
		},
	}
}
