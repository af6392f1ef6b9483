// Package schemafile reads schema documents written in TOML or YAML and
// converts them to a schema.Schema.
//
// A document lists tables, views, triggers and table populations:
//
//	[[tables]]
//	name = "Client_tbl"
//	primary_key = { auto_increment = "Id_PK" }
//
//	[[tables.columns]]
//	name = "Name"
//	type = "varchar"
//	length = 100
//	required = true
package schemafile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"mdtsql/internal/schema"
)

type Parser interface {
	Parse(r io.Reader) (*schema.Schema, error)
}

// TOMLParser reads TOML schema documents.
type TOMLParser struct{}

func NewTOMLParser() *TOMLParser {
	return &TOMLParser{}
}

func (p *TOMLParser) Parse(r io.Reader) (*schema.Schema, error) {
	var doc document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("toml: decode error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("toml: unknown key %q", undecoded[0].String())
	}
	s, err := newConverter(&doc).convert()
	if err != nil {
		return nil, fmt.Errorf("toml: %w", err)
	}
	return s, nil
}

// YAMLParser reads YAML schema documents.
type YAMLParser struct{}

func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

func (p *YAMLParser) Parse(r io.Reader) (*schema.Schema, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml: decode error: %w", err)
	}
	s, err := newConverter(&doc).convert()
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return s, nil
}

// ParserFor returns the parser matching the extension of path.
func ParserFor(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTOMLParser(), nil
	case ".yaml", ".yml":
		return NewYAMLParser(), nil
	}
	return nil, &UnsupportedFormatError{Path: path}
}

// ParseFile parses the schema document at path, choosing the format from its extension.
func ParseFile(path string) (*schema.Schema, error) {
	p, err := ParserFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %q: %w", path, err)
	}
	defer f.Close()

	return p.Parse(f)
}

type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return "unsupported file format: " + e.Path
}
