package provider

import (
	"bytes"
	"fmt"
	"os"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout of a hotspot seed file:
//
//	hotspots:
//	  - id: 1
//	    location: ITO Crossing
//	    ward: Ward 12
//	    zone: Central Delhi
//	    severity: critical
//	    water_level: 85
//	    updated_at: 2025-01-04T10:25:00Z
//	    coordinates: {lat: 28.6289, lng: 77.2416}
type seedFile struct {
	Hotspots []domain.Hotspot `yaml:"hotspots"`
}

// LoadFile reads and validates a YAML seed file.
func LoadFile(path string) ([]domain.Hotspot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates seed YAML.
func ParseSeed(data []byte) ([]domain.Hotspot, error) {
	hs, err := DecodeSeed(data)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateCollection(hs); err != nil {
		return nil, fmt.Errorf("validate seed file: %w", err)
	}
	return hs, nil
}

// DecodeSeed decodes seed YAML without validating the records. Unknown keys
// are rejected. Known severities are normalized to lower case.
func DecodeSeed(data []byte) ([]domain.Hotspot, error) {
	var f seedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i := range f.Hotspots {
		if sev, err := domain.ParseSeverity(string(f.Hotspots[i].Severity)); err == nil {
			f.Hotspots[i].Severity = sev
		}
	}
	return f.Hotspots, nil
}

// NewFile loads a seed file into a static provider.
func NewFile(path string) (*Static, error) {
	hs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewStatic(hs), nil
}
