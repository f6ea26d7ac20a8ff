// Package config implements a small typed property bag modeled on the
// "<prefix>.Key" lookup style the pool's construction code depends on
// (spec §6): properties are read by string key, once, at construction time.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Properties is a flat string-keyed property bag with typed accessors.
// Unlike a struct-of-fields config, new "<prefix>.Key" entries don't require
// a schema change — the same shape the pool's configuration keys expect.
type Properties struct {
	values map[string]string
}

// New returns an empty property bag.
func New() *Properties {
	return &Properties{values: make(map[string]string)}
}

// Load reads a YAML document of string/scalar pairs from path. Missing
// files are not an error: an empty (default-backed) property bag is
// returned, matching the teacher-adjacent "load file, fall back to
// defaults" pattern.
func Load(path string) (*Properties, error) {
	p := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, err
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		p.values[k] = toString(v)
	}
	return p, nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Set assigns a raw string value, mainly for tests and programmatic setup.
func (p *Properties) Set(key, value string) {
	p.values[key] = value
}

// SetInt assigns an integer value.
func (p *Properties) SetInt(key string, value int) {
	p.values[key] = strconv.Itoa(value)
}

// GetInt returns the integer value of key, or def if unset or unparsable.
func (p *Properties) GetInt(key string, def int) int {
	v, ok := p.values[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetString returns the string value of key, or def if unset.
func (p *Properties) GetString(key, def string) string {
	v, ok := p.values[key]
	if !ok {
		return def
	}
	return v
}
