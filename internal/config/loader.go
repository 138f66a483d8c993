package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// loadFromFile reads a YAML or TOML file into flat dotted keys.
func loadFromFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".toml":
		return parseTOML(data)
	default:
		return nil, fmt.Errorf("unsupported config extension: '%s'", ext)
	}
}

func parseYAML(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return flatten(doc), nil
}

func parseTOML(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	return flatten(doc), nil
}

// flatten turns nested tables into dotted keys. Lists become comma-separated values.
func flatten(doc map[string]any) map[string]string {
	out := make(map[string]string)
	for k, v := range doc {
		flattenInto(out, k, v)
	}
	return out
}

func flattenInto(out map[string]string, key string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for k, child := range v {
			flattenInto(out, key+"."+k, child)
		}
	case map[any]any:
		for k, child := range v {
			flattenInto(out, key+"."+fmt.Sprint(k), child)
		}
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, scalarString(item))
		}
		out[key] = strings.Join(parts, ",")
	default:
		out[key] = scalarString(v)
	}
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
