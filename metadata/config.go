package metadata

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Keys recognized in a metadata configuration document.
const (
	// ClassKey is the discriminator element naming a metadata item's
	// variant.
	ClassKey = "__class__"

	// ConfigKeyMetadataMap is the configuration key listing the metadata
	// items to compile.
	ConfigKeyMetadataMap = "metadataMap"

	// ConfigKeyHal is the configuration section holding library settings.
	ConfigKeyHal = "mezzio-hal"

	// ConfigKeyMetadataFactories is the key under ConfigKeyHal mapping
	// metadata types to factory overrides.
	ConfigKeyMetadataFactories = "metadata-factories"
)

// ParseConfig decodes a metadata configuration document. JSON is tried
// first, then YAML, so both formats share one entry point. Key case is
// preserved; in particular the "metadataMap" key stays camelCase.
func ParseConfig(data []byte) (map[string]interface{}, error) {
	var config map[string]interface{}
	if err := json.Unmarshal(data, &config); err == nil {
		return config, nil
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse metadata configuration: %w", err)
	}
	return normalizeMap(config), nil
}

// LoadConfigFile reads and parses a metadata configuration document from
// disk.
func LoadConfigFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read metadata configuration: %w", err)
	}
	return ParseConfig(data)
}

// normalizeMap rewrites YAML's interface-keyed maps into string-keyed maps
// so the builder sees one canonical shape regardless of input format.
func normalizeMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return normalizeMap(val)
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
