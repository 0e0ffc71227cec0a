// Package config loads sapling settings from YAML or CUE files.
//
// Every source is unified with the embedded #Config schema, which supplies
// defaults and rejects unknown fields, then decoded into Config. The
// position strategy named in the file is resolved once, by Allocator, into
// the allocator the tree uses.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sapling/internal/position"
)

//go:embed schema.cue
var schemaSource string

// Config holds the resolved settings.
type Config struct {
	Strategy position.Strategy `json:"strategy" yaml:"strategy"`
	Database string            `json:"database" yaml:"database"`
	LogLevel string            `json:"log_level" yaml:"log_level"`
}

// Error reports a config value rejected by the schema or the decoder.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrUnsupportedFormat is returned by Load for files that are neither YAML
// nor CUE.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Default returns the schema defaults.
func Default() Config {
	cfg, err := resolve(cuecontext.New(), func(ctx *cue.Context) cue.Value {
		return ctx.CompileString("{}")
	})
	if err != nil {
		// The embedded schema is part of the binary.
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	return cfg
}

// Load reads a config file. The format is chosen by extension: .yaml and
// .yml are YAML, .cue is CUE.
func Load(path string) (Config, error) {
	ext := filepath.Ext(path)
	switch ext {
	case ".yaml", ".yml", ".cue":
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if ext == ".cue" {
		return ParseCUE(filepath.Base(path), data)
	}
	return ParseYAML(data)
}

// ParseYAML decodes YAML settings. Unknown keys are rejected.
func ParseYAML(data []byte) (Config, error) {
	var raw Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse YAML config: %w", err)
	}

	return resolve(cuecontext.New(), func(ctx *cue.Context) cue.Value {
		return ctx.Encode(raw.setFields())
	})
}

// ParseCUE evaluates CUE settings. filename is used in error positions.
func ParseCUE(filename string, data []byte) (Config, error) {
	return resolve(cuecontext.New(), func(ctx *cue.Context) cue.Value {
		return ctx.CompileBytes(data, cue.Filename(filename))
	})
}

// setFields returns only the fields that were given, so that the schema
// defaults apply to the rest.
func (c Config) setFields() map[string]any {
	fields := map[string]any{}
	if c.Strategy != "" {
		fields["strategy"] = string(c.Strategy)
	}
	if c.Database != "" {
		fields["database"] = c.Database
	}
	if c.LogLevel != "" {
		fields["log_level"] = c.LogLevel
	}
	return fields
}

func resolve(ctx *cue.Context, build func(*cue.Context) cue.Value) (Config, error) {
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := build(ctx)
	if err := v.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(err)
	}
	return cfg, nil
}

// Allocator resolves the configured strategy.
func (c Config) Allocator() (position.Allocator, error) {
	return position.New(c.Strategy)
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// formatCUEError keeps the first error and its source position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := "config"
	if path := first.Path(); len(path) > 0 {
		field = strings.Join(path, ".")
	}
	e := &Error{Field: field, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}
