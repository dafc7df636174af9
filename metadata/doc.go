// Package metadata compiles HAL metadata map configuration into typed,
// immutable records describing how domain classes are rendered as HAL
// resources and collections.
//
// # Overview
//
// Applications declare, per domain class, how instances of that class turn
// into HAL representations: where the self link comes from (a literal URL
// or a named route), which extractor converts the instance, and, for
// collections, how pagination is expressed. Those declarations live in
// weakly typed configuration (JSON, YAML, or maps assembled in code) and
// are compiled once at startup by a MapBuilder into a Map keyed by class
// name. Renderers and link generators consume the Map; this package never
// touches HTTP, routing, or JSON output itself.
//
// Validation is eager and strict. The first malformed entry aborts the
// build with an *InvalidConfigError naming the problem, so configuration
// mistakes surface at startup rather than mid-request.
//
// # Metadata Variants
//
// Four built-in variants cover the URL/route and resource/collection axes:
//
//   - url-based-resource: URLBasedResourceMetadata
//   - url-based-collection: URLBasedCollectionMetadata
//   - route-based-resource: RouteBasedResourceMetadata
//   - route-based-collection: RouteBasedCollectionMetadata
//
// Configuration items select their variant with the "__class__" element.
// Custom variants are added by registering a type and factory on a
// Registry and passing that registry to the builder.
//
// # Configuration
//
// A metadata configuration document has the shape:
//
//	{
//	  "metadataMap": [
//	    {
//	      "__class__": "route-based-resource",
//	      "resource_class": "App\\Domain\\Book",
//	      "route": "books.show",
//	      "extractor": "BookExtractor"
//	    },
//	    {
//	      "__class__": "route-based-collection",
//	      "collection_class": "App\\Domain\\BookCollection",
//	      "collection_relation": "books",
//	      "route": "books.index",
//	      "pagination_param": "p"
//	    }
//	  ],
//	  "mezzio-hal": {
//	    "metadata-factories": {
//	      "my-custom-type": "service.id.of.factory"
//	    }
//	  }
//	}
//
// Optional elements default when omitted: pagination_param to "page",
// pagination_param_type to "query", resource_identifier to "id". When two
// items name the same class the later one wins; the builder logs the
// replacement at warn level.
//
// # Building a Map
//
// The builder pulls configuration from a Container, the minimal boundary
// to the hosting application's service wiring:
//
//	ctn := metadata.NewServiceContainer()
//	ctn.Set(metadata.ConfigService, config)
//
//	builder := metadata.NewMapBuilder(
//		metadata.WithLogger(logger),
//	)
//	m, err := builder.Build(ctn)
//	if err != nil {
//		var cfgErr *metadata.InvalidConfigError
//		if errors.As(err, &cfgErr) {
//			log.Fatalf("metadata configuration: %v", cfgErr)
//		}
//		log.Fatal(err)
//	}
//
//	book, err := m.Get("App\\Domain\\Book")
//
// A missing "config" service, or configuration without a "metadataMap"
// key, builds an empty Map rather than failing; only malformed
// configuration is an error.
//
// # Factories
//
// Each variant is compiled by a Factory. The built-in variants have
// built-in factories; the "mezzio-hal"/"metadata-factories" configuration
// section overrides the factory per variant, either with a Factory value,
// a plain function with the FactoryFunc signature, or the id of a
// container service resolving to one. Custom variants register their
// factory on the Registry:
//
//	registry := metadata.NewRegistry()
//	registry.RegisterType("audit-log", &auditLogMetadata{})
//	registry.RegisterFactory("audit-log", metadata.FactoryFunc(createAuditLogMetadata))
//
//	builder := metadata.NewMapBuilder(metadata.WithRegistry(registry))
//
// # Errors
//
// Construction-time failures are *InvalidConfigError values and are
// matchable with errors.As. Map lookups for unmapped classes return
// *NotFoundError. Factories propagate their errors unwrapped, so a custom
// factory's error types survive the build.
//
// # Concurrency
//
// A built Map is safe for concurrent readers. Registry registration and
// Map.Register are mutex-guarded, so late programmatic additions do not
// race lookups. The build itself is synchronous and deterministic.
package metadata
