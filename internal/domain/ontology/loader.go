package ontology

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

var ErrInvalidDefinition = errors.New("ontology: invalid definition")

const definitionSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "skills": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "category": {"type": "string"},
          "level": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]},
          "related": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "jobs": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "required_skills": {"type": "array", "items": {"type": "string"}},
          "preferred_skills": {"type": "array", "items": {"type": "string"}},
          "experience_level": {"type": "string"},
          "related_roles": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(definitionSchema)

func Merge(base, override Definition) Definition {
	out := cloneDefinition(base)
	for k, v := range override.Skills {
		out.Skills[k] = v
	}
	for k, v := range override.Jobs {
		out.Jobs[k] = v
	}
	return out
}

func Load(path string) (*Graph, error) {
	def := Seed()
	path = strings.TrimSpace(path)
	if path != "" {
		override, err := ReadDefinitionFile(path)
		if err != nil {
			return nil, err
		}
		def = Merge(normalizeDefinition(def), normalizeDefinition(override))
	}
	return Build(def), nil
}

func ReadDefinitionFile(path string) (Definition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read ontology file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseDefinition(b, true)
	default:
		return ParseDefinition(b, false)
	}
}

func ParseDefinition(b []byte, isYAML bool) (Definition, error) {
	var raw any
	if isYAML {
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return Definition{}, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
		}
	} else {
		if err := json.Unmarshal(b, &raw); err != nil {
			return Definition{}, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
		}
	}
	if raw == nil {
		return Definition{}, nil
	}

	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return Definition{}, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return Definition{}, fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(msgs, "; "))
	}

	var def Definition
	if isYAML {
		err = yaml.Unmarshal(b, &def)
	} else {
		err = json.Unmarshal(b, &def)
	}
	if err != nil {
		return Definition{}, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return def, nil
}
