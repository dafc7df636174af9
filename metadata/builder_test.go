package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var _ Builder = (*MapBuilder)(nil)

func containerWithConfig(config interface{}) *ServiceContainer {
	ctn := NewServiceContainer()
	ctn.Set(ConfigService, config)
	return ctn
}

func TestMapBuilder_Build_NilContainer(t *testing.T) {
	_, err := NewMapBuilder().Build(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no container provided")

	var cfgErr *InvalidConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestMapBuilder_Build_EmptyConfigurations(t *testing.T) {
	t.Run("container without config service", func(t *testing.T) {
		m, err := NewMapBuilder().Build(NewServiceContainer())
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("config without metadataMap key", func(t *testing.T) {
		ctn := containerWithConfig(map[string]interface{}{"debug": true})
		m, err := NewMapBuilder().Build(ctn)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("empty metadataMap", func(t *testing.T) {
		ctn := containerWithConfig(map[string]interface{}{
			ConfigKeyMetadataMap: []interface{}{},
		})
		m, err := NewMapBuilder().Build(ctn)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	})
}

func TestMapBuilder_Build_ConfigNotAMap(t *testing.T) {
	ctn := containerWithConfig("bogus")

	_, err := NewMapBuilder().Build(ctn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config must be a map of configuration values")
}

func TestMapBuilder_Build_MetadataMapNotAnArray(t *testing.T) {
	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: map[string]interface{}{"__class__": TypeURLBasedResource},
	})

	_, err := NewMapBuilder().Build(ctn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected an array of metadata configurations")

	var cfgErr *InvalidConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestMapBuilder_Build_AcceptsTypedItemSlice(t *testing.T) {
	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []map[string]interface{}{
			{
				ClassKey:           TypeURLBasedResource,
				FieldResourceClass: "App\\Book",
				FieldURL:           "/books/42",
				FieldExtractor:     "BookExtractor",
			},
		},
	})

	m, err := NewMapBuilder().Build(ctn)
	require.NoError(t, err)
	assert.True(t, m.Has("App\\Book"))
}

func TestMapBuilder_Build_ItemNotAMap(t *testing.T) {
	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{"bogus"},
	})

	_, err := NewMapBuilder().Build(ctn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid metadata item configuration")
}

func TestMapBuilder_Build_MissingClassElement(t *testing.T) {
	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{
			map[string]interface{}{
				FieldResourceClass: "App\\Book",
			},
		},
	})

	_, err := NewMapBuilder().Build(ctn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "__class__" element`)
}

func TestMapBuilder_Build_ClassElementNotAString(t *testing.T) {
	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{
			map[string]interface{}{ClassKey: 42},
		},
	})

	_, err := NewMapBuilder().Build(ctn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"__class__" element must be a string`)
}

func TestMapBuilder_Build_UnknownMetadataClass(t *testing.T) {
	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{
			map[string]interface{}{ClassKey: "sitemap-entry"},
		},
	})

	_, err := NewMapBuilder().Build(ctn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Invalid metadata class provided: "sitemap-entry"`)
}

func TestMapBuilder_Build_PrototypeDoesNotImplementMetadata(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterType("plain-struct", struct{}{})
	registry.RegisterFactory("plain-struct", FactoryFunc(CreateURLBasedResourceMetadata))

	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{
			map[string]interface{}{ClassKey: "plain-struct"},
		},
	})

	_, err := NewMapBuilder(WithRegistry(registry)).Build(ctn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Invalid metadata class provided: "plain-struct"; does not extend Metadata`)
}

func TestMapBuilder_Build_NoFactoryForType(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterType("audit-log", &URLBasedResourceMetadata{})

	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{
			map[string]interface{}{ClassKey: "audit-log"},
		},
	})

	_, err := NewMapBuilder(WithRegistry(registry)).Build(ctn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please provide a factory in your configuration")
}

func TestMapBuilder_Build_CompilesAllBuiltinVariants(t *testing.T) {
	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{
			map[string]interface{}{
				ClassKey:           TypeURLBasedResource,
				FieldResourceClass: "App\\Book",
				FieldURL:           "/books/42",
				FieldExtractor:     "BookExtractor",
			},
			map[string]interface{}{
				ClassKey:                TypeURLBasedCollection,
				FieldCollectionClass:    "App\\BookCollection",
				FieldCollectionRelation: "books",
				FieldURL:                "/books",
				FieldPaginationParam:    "p",
			},
			map[string]interface{}{
				ClassKey:           TypeRouteBasedResource,
				FieldResourceClass: "App\\Author",
				FieldRoute:         "authors.show",
				FieldExtractor:     "AuthorExtractor",
			},
			map[string]interface{}{
				ClassKey:                 TypeRouteBasedCollection,
				FieldCollectionClass:     "App\\AuthorCollection",
				FieldCollectionRelation:  "authors",
				FieldRoute:               "authors.index",
				FieldPaginationParamType: "placeholder",
			},
		},
	})

	m, err := NewMapBuilder().Build(ctn)
	require.NoError(t, err)
	require.Equal(t, 4, m.Len())

	assert.Equal(t, []string{
		"App\\Author",
		"App\\AuthorCollection",
		"App\\Book",
		"App\\BookCollection",
	}, m.Classes())

	record, err := m.Get("App\\BookCollection")
	require.NoError(t, err)
	collection, ok := record.(*URLBasedCollectionMetadata)
	require.True(t, ok, "expected *URLBasedCollectionMetadata, got %T", record)
	assert.Equal(t, "p", collection.PaginationParam())

	record, err = m.Get("App\\AuthorCollection")
	require.NoError(t, err)
	routeCollection := record.(*RouteBasedCollectionMetadata)
	assert.Equal(t, PaginationTypePlaceholder, routeCollection.PaginationParamType())
}

func TestMapBuilder_Build_DuplicateClassLastWins(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{
			map[string]interface{}{
				ClassKey:           TypeURLBasedResource,
				FieldResourceClass: "App\\Book",
				FieldURL:           "/v1/books",
				FieldExtractor:     "V1Extractor",
			},
			map[string]interface{}{
				ClassKey:           TypeURLBasedResource,
				FieldResourceClass: "App\\Book",
				FieldURL:           "/v2/books",
				FieldExtractor:     "V2Extractor",
			},
		},
	})

	m, err := NewMapBuilder(WithLogger(zap.New(core))).Build(ctn)
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())

	record, err := m.Get("App\\Book")
	require.NoError(t, err)
	assert.Equal(t, "/v2/books", record.(*URLBasedResourceMetadata).URL())

	entries := logs.FilterMessage("replacing duplicate metadata map entry").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "App\\Book", entries[0].ContextMap()["class"])
}

func TestMapBuilder_Build_RepeatedBuildsEqual(t *testing.T) {
	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{
			map[string]interface{}{
				ClassKey:           TypeURLBasedResource,
				FieldResourceClass: "App\\Book",
				FieldURL:           "/books/42",
				FieldExtractor:     "BookExtractor",
			},
			map[string]interface{}{
				ClassKey:                       TypeRouteBasedResource,
				FieldResourceClass:             "App\\Author",
				FieldRoute:                     "authors.show",
				FieldExtractor:                 "AuthorExtractor",
				FieldRouteParams:               map[string]interface{}{"locale": "en"},
				FieldIdentifiersToPlaceholders: map[string]interface{}{"author_id": "id"},
			},
			map[string]interface{}{
				ClassKey:                  TypeRouteBasedCollection,
				FieldCollectionClass:      "App\\AuthorCollection",
				FieldCollectionRelation:   "authors",
				FieldRoute:                "authors.index",
				FieldPaginationParam:      "p",
				FieldQueryStringArguments: map[string]interface{}{"sort": "name"},
			},
		},
	})

	builder := NewMapBuilder()
	first, err := builder.Build(ctn)
	require.NoError(t, err)
	second, err := builder.Build(ctn)
	require.NoError(t, err)

	require.Equal(t, first.Classes(), second.Classes())
	for _, class := range first.Classes() {
		got, err := first.Get(class)
		require.NoError(t, err)
		again, err := second.Get(class)
		require.NoError(t, err)
		assert.Equal(t, got, again, "records for %q differ between builds", class)
	}
}

func TestMapBuilder_Build_FactoryOverrides(t *testing.T) {
	stub := FactoryFunc(func(_ Container, metadataType string, _ map[string]interface{}) (Metadata, error) {
		return NewURLBasedResourceMetadata("Stub\\"+metadataType, "/stub", "StubExtractor"), nil
	})

	t.Run("direct factory value", func(t *testing.T) {
		ctn := containerWithConfig(map[string]interface{}{
			ConfigKeyMetadataMap: []interface{}{
				map[string]interface{}{ClassKey: TypeURLBasedResource},
			},
			ConfigKeyHal: map[string]interface{}{
				ConfigKeyMetadataFactories: map[string]interface{}{
					TypeURLBasedResource: stub,
				},
			},
		})

		m, err := NewMapBuilder().Build(ctn)
		require.NoError(t, err)
		assert.True(t, m.Has("Stub\\"+TypeURLBasedResource))
	})

	t.Run("container service id", func(t *testing.T) {
		ctn := containerWithConfig(map[string]interface{}{
			ConfigKeyMetadataMap: []interface{}{
				map[string]interface{}{ClassKey: TypeURLBasedResource},
			},
			ConfigKeyHal: map[string]interface{}{
				ConfigKeyMetadataFactories: map[string]interface{}{
					TypeURLBasedResource: "factories.stub",
				},
			},
		})
		ctn.Set("factories.stub", stub)

		m, err := NewMapBuilder().Build(ctn)
		require.NoError(t, err)
		assert.True(t, m.Has("Stub\\"+TypeURLBasedResource))
	})

	t.Run("service id resolving to a non-factory", func(t *testing.T) {
		ctn := containerWithConfig(map[string]interface{}{
			ConfigKeyMetadataMap: []interface{}{
				map[string]interface{}{ClassKey: TypeURLBasedResource},
			},
			ConfigKeyHal: map[string]interface{}{
				ConfigKeyMetadataFactories: map[string]interface{}{
					TypeURLBasedResource: "factories.bogus",
				},
			},
		})
		ctn.Set("factories.bogus", "not a factory")

		_, err := NewMapBuilder().Build(ctn)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not a valid metadata factory class; does not implement Factory")
	})

	t.Run("malformed factories section", func(t *testing.T) {
		ctn := containerWithConfig(map[string]interface{}{
			ConfigKeyMetadataMap: []interface{}{
				map[string]interface{}{ClassKey: TypeURLBasedResource},
			},
			ConfigKeyHal: map[string]interface{}{
				ConfigKeyMetadataFactories: "bogus",
			},
		})

		_, err := NewMapBuilder().Build(ctn)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"metadata-factories" configuration must be a map`)
	})
}

type auditError struct {
	Stage string
}

func (e *auditError) Error() string {
	return "audit factory failed during " + e.Stage
}

func TestMapBuilder_Build_FactoryErrorsPropagateUnwrapped(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterType("audit-log", &URLBasedResourceMetadata{})
	registry.RegisterFactory("audit-log", FactoryFunc(func(_ Container, _ string, _ map[string]interface{}) (Metadata, error) {
		return nil, &auditError{Stage: "decode"}
	}))

	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{
			map[string]interface{}{ClassKey: "audit-log"},
		},
	})

	_, err := NewMapBuilder(WithRegistry(registry)).Build(ctn)
	require.Error(t, err)

	var auditErr *auditError
	require.True(t, errors.As(err, &auditErr))
	assert.Equal(t, "decode", auditErr.Stage)
}

func TestMapBuilder_Build_NilFactoryResult(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterType("audit-log", &URLBasedResourceMetadata{})
	registry.RegisterFactory("audit-log", FactoryFunc(func(_ Container, _ string, _ map[string]interface{}) (Metadata, error) {
		return nil, nil
	}))

	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{
			map[string]interface{}{ClassKey: "audit-log"},
		},
	})

	_, err := NewMapBuilder(WithRegistry(registry)).Build(ctn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned no metadata")
}

func TestMapBuilder_Build_DoesNotMutateItems(t *testing.T) {
	var seen map[string]interface{}
	registry := NewRegistry()
	registry.RegisterType("audit-log", &URLBasedResourceMetadata{})
	registry.RegisterFactory("audit-log", FactoryFunc(func(_ Container, _ string, fields map[string]interface{}) (Metadata, error) {
		seen = fields
		fields["injected"] = true
		return NewURLBasedResourceMetadata("App\\Audit", "/audit", "AuditExtractor"), nil
	}))

	item := map[string]interface{}{
		ClassKey: "audit-log",
		"note":   "keep me",
	}
	ctn := containerWithConfig(map[string]interface{}{
		ConfigKeyMetadataMap: []interface{}{item},
	})

	_, err := NewMapBuilder(WithRegistry(registry)).Build(ctn)
	require.NoError(t, err)

	// The factory sees the item without the discriminator.
	assert.NotContains(t, seen, ClassKey)
	assert.Equal(t, "keep me", seen["note"])

	// The original item is untouched even though the factory mutated its copy.
	assert.Equal(t, map[string]interface{}{ClassKey: "audit-log", "note": "keep me"}, item)
}

type staticBuilder struct {
	m *Map
}

func (b *staticBuilder) Build(_ Container) (*Map, error) {
	return b.m, nil
}

func TestBuilderContract_CustomImplementation(t *testing.T) {
	m := NewMap()
	m.Register(NewURLBasedResourceMetadata("App\\Book", "/books", "BookExtractor"))

	var b Builder = &staticBuilder{m: m}
	built, err := b.Build(NewServiceContainer())
	require.NoError(t, err)
	assert.True(t, built.Has("App\\Book"))
}
