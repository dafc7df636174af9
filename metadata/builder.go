package metadata

import (
	"go.uber.org/zap"
)

// Builder constructs a metadata map from the hosting container's
// configuration. MapBuilder is the standard implementation; applications
// with bespoke compilation needs may substitute their own.
type Builder interface {
	Build(ctn Container) (*Map, error)
}

// MapBuilder compiles the weakly typed "metadataMap" configuration into a
// Map of typed records. Validation is eager: the first malformed entry
// aborts the build with an *InvalidConfigError describing the problem, so
// misconfiguration surfaces at startup rather than at first render.
//
// A missing "config" service or a configuration without a "metadataMap"
// key is not an error; both produce an empty map.
type MapBuilder struct {
	registry *Registry
	logger   *zap.Logger
}

// MapBuilderOption configures a MapBuilder.
type MapBuilderOption func(*MapBuilder)

// WithRegistry sets the variant registry the build consults. Defaults to
// NewRegistry(). A nil registry is ignored.
func WithRegistry(registry *Registry) MapBuilderOption {
	return func(b *MapBuilder) {
		if registry != nil {
			b.registry = registry
		}
	}
}

// WithLogger sets the logger build events are reported to. Defaults to
// zap.NewNop(). A nil logger is ignored.
func WithLogger(logger *zap.Logger) MapBuilderOption {
	return func(b *MapBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewMapBuilder returns a builder using the built-in variant registry and a
// no-op logger unless options say otherwise.
func NewMapBuilder(opts ...MapBuilderOption) *MapBuilder {
	b := &MapBuilder{
		registry: NewRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build pulls the configuration from the container and compiles every
// metadata item into a typed record. Items are processed in configuration
// order; when two items name the same class the later one wins and the
// replacement is logged at warn level.
func (b *MapBuilder) Build(ctn Container) (*Map, error) {
	if ctn == nil {
		return nil, invalidConfigf("unable to build metadata map; no container provided")
	}

	result := NewMap()
	if !ctn.Has(ConfigService) {
		return result, nil
	}

	raw, err := ctn.Get(ConfigService)
	if err != nil {
		return nil, invalidConfigf("unable to retrieve %q service from container: %v", ConfigService, err)
	}
	config, ok := stringKeyedMap(raw)
	if !ok {
		return nil, invalidConfigf("config must be a map of configuration values; received %T", raw)
	}

	rawEntries, ok := config[ConfigKeyMetadataMap]
	if !ok {
		return result, nil
	}
	entries, err := metadataMapEntries(rawEntries)
	if err != nil {
		return nil, err
	}

	overrides, err := factoryOverrides(config)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("building metadata map", zap.Int("entries", len(entries)))

	for _, rawItem := range entries {
		item, ok := stringKeyedMap(rawItem)
		if !ok {
			return nil, invalidConfigf("invalid metadata item configuration; expected a map, received %T", rawItem)
		}

		rawName, ok := item[ClassKey]
		if !ok {
			return nil, invalidConfigf("unable to create metadata; missing %q element", ClassKey)
		}
		name, ok := rawName.(string)
		if !ok {
			return nil, invalidConfigf("unable to create metadata; %q element must be a string, received %T", ClassKey, rawName)
		}

		prototype, ok := b.registry.prototype(name)
		if !ok {
			return nil, invalidConfigf("Invalid metadata class provided: %q", name)
		}
		if _, ok := prototype.(Metadata); !ok {
			return nil, invalidConfigf("Invalid metadata class provided: %q; does not extend Metadata", name)
		}

		factory, err := b.registry.ResolveFactory(ctn, name, overrides)
		if err != nil {
			return nil, err
		}

		// Hand the factory a copy without the discriminator so item
		// configurations are never mutated.
		fields := make(map[string]interface{}, len(item)-1)
		for k, v := range item {
			if k == ClassKey {
				continue
			}
			fields[k] = v
		}

		record, err := factory.CreateMetadata(ctn, name, fields)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, invalidConfigf("factory for metadata of type %q returned no metadata", name)
		}

		if result.Has(record.Class()) {
			b.logger.Warn("replacing duplicate metadata map entry",
				zap.String("class", record.Class()),
				zap.String("type", name),
			)
		}
		result.Register(record)
		b.logger.Debug("compiled metadata map entry",
			zap.String("class", record.Class()),
			zap.String("type", name),
		)
	}

	b.logger.Debug("metadata map built", zap.Int("classes", result.Len()))
	return result, nil
}

// metadataMapEntries coerces the metadataMap configuration value into a
// list of items. Decoded documents produce []interface{}; configurations
// assembled in code often produce []map[string]interface{}. Anything else
// is a configuration error.
func metadataMapEntries(raw interface{}) ([]interface{}, error) {
	switch v := raw.(type) {
	case []interface{}:
		return v, nil
	case []map[string]interface{}:
		entries := make([]interface{}, len(v))
		for i, item := range v {
			entries[i] = item
		}
		return entries, nil
	default:
		return nil, invalidConfigf("invalid metadata map configuration; expected an array of metadata configurations, received %T", raw)
	}
}

// factoryOverrides reads the mezzio-hal.metadata-factories section. Both
// levels are optional; a present level with the wrong shape is a
// configuration error.
func factoryOverrides(config map[string]interface{}) (map[string]interface{}, error) {
	raw, ok := config[ConfigKeyHal]
	if !ok {
		return nil, nil
	}
	section, ok := stringKeyedMap(raw)
	if !ok {
		return nil, invalidConfigf("%q configuration must be a map, received %T", ConfigKeyHal, raw)
	}

	raw, ok = section[ConfigKeyMetadataFactories]
	if !ok {
		return nil, nil
	}
	overrides, ok := stringKeyedMap(raw)
	if !ok {
		return nil, invalidConfigf("%q configuration must be a map of metadata types to factories, received %T", ConfigKeyMetadataFactories, raw)
	}
	return overrides, nil
}

// stringKeyedMap asserts a decoded configuration value to its canonical
// map shape.
func stringKeyedMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}
