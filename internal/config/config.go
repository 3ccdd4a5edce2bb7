// Package config loads host configuration files for linedsl tools.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"nickandperla.net/linedsl/internal/eval"
	"nickandperla.net/linedsl/internal/token"
)

//go:embed schema.json
var Schema string

const schemaURL = "linedsl://config.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Delimiters mirrors token.Delimiters with file keys. Empty symbols take the defaults.
type Delimiters struct {
	Assign         string `yaml:"assign"`
	BracketStart   string `yaml:"bracket_start"`
	BracketEnd     string `yaml:"bracket_end"`
	SubscriptStart string `yaml:"subscript_start"`
	SubscriptEnd   string `yaml:"subscript_end"`
	Reference      string `yaml:"reference"`
	Comment        string `yaml:"comment"`
}

// Config describes a grammar and the vocabulary a host registers.
type Config struct {
	Delimiters Delimiters `yaml:"delimiters"`
	Strict     bool       `yaml:"strict"`
	Persist    string     `yaml:"persist"`
	Database   string     `yaml:"database"`
	Variables  []string   `yaml:"variables"`
	Functions  []string   `yaml:"functions"`
	Subscripts []string   `yaml:"subscripts"`
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates a YAML document against Schema and decodes it.
// An empty document yields the zero configuration.
func Parse(data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &Config{}
	if doc == nil {
		return cfg, nil
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func validate(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	// The validator only understands values produced by a JSON decoder.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	var v any
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&v); err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Symbols returns the configured delimiters with defaults filled in.
func (c *Config) Symbols() token.Delimiters {
	return token.Delimiters{
		Assign:         c.Delimiters.Assign,
		BracketStart:   c.Delimiters.BracketStart,
		BracketEnd:     c.Delimiters.BracketEnd,
		SubscriptStart: c.Delimiters.SubscriptStart,
		SubscriptEnd:   c.Delimiters.SubscriptEnd,
		Reference:      c.Delimiters.Reference,
		Comment:        c.Delimiters.Comment,
	}.WithDefaults()
}

// PersistMode returns the configured persistence mode.
func (c *Config) PersistMode() (eval.PersistMode, error) {
	mode, ok := eval.ParsePersistMode(c.Persist)
	if !ok {
		return mode, fmt.Errorf("unknown persist mode %q", c.Persist)
	}
	return mode, nil
}
