package common

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// JobProperties is the key/value bag a job is configured with.
type JobProperties map[string]string

func NewJobProperties() JobProperties {
	return make(JobProperties)
}

func (jobProperties JobProperties) Get(key string) (string, bool) {
	value, ok := jobProperties[key]
	return value, ok
}

func (jobProperties JobProperties) GetOrDefault(key string, defaultValue string) string {
	if value, ok := jobProperties[key]; ok {
		return value
	}
	return defaultValue
}

func (jobProperties JobProperties) Require(key string) (string, error) {
	value, ok := jobProperties[key]
	if !ok {
		return "", missingPropertyError(key)
	}
	return value, nil
}

func (jobProperties JobProperties) Set(key string, value string) JobProperties {
	jobProperties[key] = value
	return jobProperties
}

// SetPair parses "key=value". The value may itself contain "=".
func (jobProperties JobProperties) SetPair(pair string) error {
	key, value, found := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return fmt.Errorf("invalid property %q, expected key=value", pair)
	}
	jobProperties.Set(key, value)
	return nil
}

func (jobProperties JobProperties) Merge(other JobProperties) JobProperties {
	for key, value := range other {
		jobProperties[key] = value
	}
	return jobProperties
}

func (jobProperties JobProperties) Keys() []string {
	keys := make([]string, 0, len(jobProperties))
	for key := range jobProperties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParseJobPropertiesYaml reads a flat YAML mapping. Scalar values of any type are kept as their literal text.
func ParseJobPropertiesYaml(content []byte) (JobProperties, error) {
	var document yaml.Node
	err := yaml.Unmarshal(content, &document)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job properties: %w", err)
	}

	jobProperties := NewJobProperties()
	if len(document.Content) == 0 {
		return jobProperties, nil
	}

	mapping := document.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse job properties: expected a mapping, got line %d", mapping.Line)
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		valueNode := mapping.Content[i+1]
		if valueNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("failed to parse job properties: value of %q must be a scalar (line %d)", keyNode.Value, valueNode.Line)
		}
		if valueNode.Tag == "!!null" {
			continue
		}
		jobProperties[keyNode.Value] = valueNode.Value
	}

	return jobProperties, nil
}

func LoadJobPropertiesFile(filePath string) (JobProperties, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read job properties file: %w", err)
	}

	return ParseJobPropertiesYaml(content)
}
