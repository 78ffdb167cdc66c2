package depgraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the document syntax of a graph file.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf guesses the format from the file extension, defaulting to JSON.
func FormatOf(file string) Format {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return YAML
	case ".toml":
		return TOML
	}
	return JSON
}

// Parse reads and validates a graph from either provided data or a file
// path. If data is non-nil, it is used directly and file only selects the
// format.
func Parse(file string, data []byte) (*Graph, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewReader(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		reader = f
	}

	g, err := Decode(reader, FormatOf(file))
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Decode decodes a graph document without validating it.
func Decode(r io.Reader, format Format) (*Graph, error) {
	var g Graph
	var err error
	switch format {
	case JSON:
		err = json.NewDecoder(r).Decode(&g)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&g)
	case TOML:
		err = toml.NewDecoder(r).Decode(&g)
	default:
		return nil, fmt.Errorf("unknown graph format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s graph: %w", format, err)
	}
	return &g, nil
}
