package metadata

// Variant names for the built-in metadata kinds. These are the values the
// "__class__" discriminator takes in a metadata map configuration.
const (
	TypeURLBasedResource     = "url-based-resource"
	TypeURLBasedCollection   = "url-based-collection"
	TypeRouteBasedResource   = "route-based-resource"
	TypeRouteBasedCollection = "route-based-collection"
)

// PaginationParamType describes how a collection's pagination parameter is
// rendered when generating links: as a query string argument or as a
// placeholder embedded in the URL or route.
type PaginationParamType string

// Supported pagination parameter types.
const (
	PaginationTypeQuery       PaginationParamType = "query"
	PaginationTypePlaceholder PaginationParamType = "placeholder"
)

// Defaults applied when a configuration omits the optional elements.
const (
	DefaultPaginationParam    = "page"
	DefaultResourceIdentifier = "id"
)

// Metadata describes how instances of a single domain class are rendered
// as HAL resources or collections. Implementations are immutable once
// constructed.
type Metadata interface {
	// Class returns the fully qualified name of the domain class this
	// metadata applies to.
	Class() string
}

// ResourceMetadata is implemented by metadata variants that render a single
// resource.
type ResourceMetadata interface {
	Metadata

	// Extractor returns the name of the extractor or hydrator service used
	// to convert instances of the class into a representation.
	Extractor() string
}

// CollectionMetadata is implemented by metadata variants that render a
// paginated collection.
type CollectionMetadata interface {
	Metadata

	// CollectionRelation returns the relation under which embedded resources
	// are grouped in the rendered collection.
	CollectionRelation() string

	// PaginationParam returns the name of the pagination parameter.
	PaginationParam() string

	// PaginationParamType reports whether the pagination parameter is a
	// query string argument or a URL placeholder.
	PaginationParamType() PaginationParamType
}

// metadataOptions collects the optional elements shared across the record
// variants. Each constructor reads only the fields that apply to it.
type metadataOptions struct {
	paginationParam           string
	paginationParamType       PaginationParamType
	resourceIdentifier        string
	routeParams               map[string]interface{}
	identifiersToPlaceholders map[string]string
	queryStringArguments      map[string]interface{}
}

// MetadataOption customizes the optional elements of a metadata record.
// Options that do not apply to the variant under construction are ignored.
type MetadataOption func(*metadataOptions)

// WithPaginationParam sets the pagination parameter name for collection
// variants. Defaults to DefaultPaginationParam.
func WithPaginationParam(name string) MetadataOption {
	return func(o *metadataOptions) {
		o.paginationParam = name
	}
}

// WithPaginationParamType sets how the pagination parameter is rendered for
// collection variants. Defaults to PaginationTypeQuery.
func WithPaginationParamType(t PaginationParamType) MetadataOption {
	return func(o *metadataOptions) {
		o.paginationParamType = t
	}
}

// WithResourceIdentifier sets the name of the identifier property used to
// fill the route placeholder for route-based resources. Defaults to
// DefaultResourceIdentifier.
func WithResourceIdentifier(name string) MetadataOption {
	return func(o *metadataOptions) {
		o.resourceIdentifier = name
	}
}

// WithRouteParams sets additional route substitutions for route-based
// variants.
func WithRouteParams(params map[string]interface{}) MetadataOption {
	return func(o *metadataOptions) {
		o.routeParams = params
	}
}

// WithIdentifiersToPlaceholdersMapping maps instance identifier names to
// route placeholder names for route-based resources.
func WithIdentifiersToPlaceholdersMapping(mapping map[string]string) MetadataOption {
	return func(o *metadataOptions) {
		o.identifiersToPlaceholders = mapping
	}
}

// WithQueryStringArguments sets fixed query string arguments appended to
// generated links for route-based collections.
func WithQueryStringArguments(args map[string]interface{}) MetadataOption {
	return func(o *metadataOptions) {
		o.queryStringArguments = args
	}
}

// applyOptions folds the option list into the defaults for a variant.
func applyOptions(opts []MetadataOption) metadataOptions {
	var o metadataOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.paginationParam == "" {
		o.paginationParam = DefaultPaginationParam
	}
	if o.paginationParamType == "" {
		o.paginationParamType = PaginationTypeQuery
	}
	if o.resourceIdentifier == "" {
		o.resourceIdentifier = DefaultResourceIdentifier
	}
	return o
}

// URLBasedResourceMetadata renders a single resource whose self link is a
// literal URL.
type URLBasedResourceMetadata struct {
	class     string
	url       string
	extractor string
}

// NewURLBasedResourceMetadata returns metadata mapping class to a resource
// rendered at url, using the named extractor. This variant has no optional
// elements.
func NewURLBasedResourceMetadata(class, url, extractor string) *URLBasedResourceMetadata {
	return &URLBasedResourceMetadata{
		class:     class,
		url:       url,
		extractor: extractor,
	}
}

// Class returns the mapped domain class.
func (m *URLBasedResourceMetadata) Class() string { return m.class }

// URL returns the literal URL used as the resource's self link.
func (m *URLBasedResourceMetadata) URL() string { return m.url }

// Extractor returns the extractor service name.
func (m *URLBasedResourceMetadata) Extractor() string { return m.extractor }

// URLBasedCollectionMetadata renders a paginated collection whose self link
// is a literal URL.
type URLBasedCollectionMetadata struct {
	class               string
	url                 string
	collectionRelation  string
	paginationParam     string
	paginationParamType PaginationParamType
}

// NewURLBasedCollectionMetadata returns metadata mapping class to a
// collection rendered at url, embedding members under collectionRelation.
// Honors WithPaginationParam and WithPaginationParamType.
func NewURLBasedCollectionMetadata(class, collectionRelation, url string, opts ...MetadataOption) *URLBasedCollectionMetadata {
	o := applyOptions(opts)
	return &URLBasedCollectionMetadata{
		class:               class,
		url:                 url,
		collectionRelation:  collectionRelation,
		paginationParam:     o.paginationParam,
		paginationParamType: o.paginationParamType,
	}
}

// Class returns the mapped domain class.
func (m *URLBasedCollectionMetadata) Class() string { return m.class }

// URL returns the literal URL used as the collection's self link.
func (m *URLBasedCollectionMetadata) URL() string { return m.url }

// CollectionRelation returns the relation embedded members are grouped under.
func (m *URLBasedCollectionMetadata) CollectionRelation() string { return m.collectionRelation }

// PaginationParam returns the pagination parameter name.
func (m *URLBasedCollectionMetadata) PaginationParam() string { return m.paginationParam }

// PaginationParamType reports how the pagination parameter is rendered.
func (m *URLBasedCollectionMetadata) PaginationParamType() PaginationParamType {
	return m.paginationParamType
}

// RouteBasedResourceMetadata renders a single resource whose self link is
// generated from a named route.
type RouteBasedResourceMetadata struct {
	class                     string
	route                     string
	extractor                 string
	resourceIdentifier        string
	routeParams               map[string]interface{}
	identifiersToPlaceholders map[string]string
}

// NewRouteBasedResourceMetadata returns metadata mapping class to a resource
// whose self link is generated from the named route, using the named
// extractor. Honors WithResourceIdentifier, WithRouteParams and
// WithIdentifiersToPlaceholdersMapping.
func NewRouteBasedResourceMetadata(class, route, extractor string, opts ...MetadataOption) *RouteBasedResourceMetadata {
	o := applyOptions(opts)
	return &RouteBasedResourceMetadata{
		class:                     class,
		route:                     route,
		extractor:                 extractor,
		resourceIdentifier:        o.resourceIdentifier,
		routeParams:               copyValueMap(o.routeParams),
		identifiersToPlaceholders: copyStringMap(o.identifiersToPlaceholders),
	}
}

// Class returns the mapped domain class.
func (m *RouteBasedResourceMetadata) Class() string { return m.class }

// Route returns the route name used to generate the resource's self link.
func (m *RouteBasedResourceMetadata) Route() string { return m.route }

// Extractor returns the extractor service name.
func (m *RouteBasedResourceMetadata) Extractor() string { return m.extractor }

// ResourceIdentifier returns the name of the identifier property that fills
// the route placeholder.
func (m *RouteBasedResourceMetadata) ResourceIdentifier() string { return m.resourceIdentifier }

// RouteParams returns additional route substitutions.
// Returns a copy to prevent external mutation.
func (m *RouteBasedResourceMetadata) RouteParams() map[string]interface{} {
	return copyValueMap(m.routeParams)
}

// IdentifiersToPlaceholdersMapping returns the mapping of instance
// identifier names to route placeholder names.
// Returns a copy to prevent external mutation.
func (m *RouteBasedResourceMetadata) IdentifiersToPlaceholdersMapping() map[string]string {
	return copyStringMap(m.identifiersToPlaceholders)
}

// RouteBasedCollectionMetadata renders a paginated collection whose self
// link is generated from a named route.
type RouteBasedCollectionMetadata struct {
	class                string
	route                string
	collectionRelation   string
	paginationParam      string
	paginationParamType  PaginationParamType
	routeParams          map[string]interface{}
	queryStringArguments map[string]interface{}
}

// NewRouteBasedCollectionMetadata returns metadata mapping class to a
// collection whose self link is generated from the named route, embedding
// members under collectionRelation. Honors WithPaginationParam,
// WithPaginationParamType, WithRouteParams and WithQueryStringArguments.
func NewRouteBasedCollectionMetadata(class, collectionRelation, route string, opts ...MetadataOption) *RouteBasedCollectionMetadata {
	o := applyOptions(opts)
	return &RouteBasedCollectionMetadata{
		class:                class,
		route:                route,
		collectionRelation:   collectionRelation,
		paginationParam:      o.paginationParam,
		paginationParamType:  o.paginationParamType,
		routeParams:          copyValueMap(o.routeParams),
		queryStringArguments: copyValueMap(o.queryStringArguments),
	}
}

// Class returns the mapped domain class.
func (m *RouteBasedCollectionMetadata) Class() string { return m.class }

// Route returns the route name used to generate the collection's self link.
func (m *RouteBasedCollectionMetadata) Route() string { return m.route }

// CollectionRelation returns the relation embedded members are grouped under.
func (m *RouteBasedCollectionMetadata) CollectionRelation() string { return m.collectionRelation }

// PaginationParam returns the pagination parameter name.
func (m *RouteBasedCollectionMetadata) PaginationParam() string { return m.paginationParam }

// PaginationParamType reports how the pagination parameter is rendered.
func (m *RouteBasedCollectionMetadata) PaginationParamType() PaginationParamType {
	return m.paginationParamType
}

// RouteParams returns additional route substitutions.
// Returns a copy to prevent external mutation.
func (m *RouteBasedCollectionMetadata) RouteParams() map[string]interface{} {
	return copyValueMap(m.routeParams)
}

// QueryStringArguments returns fixed query string arguments appended to
// generated links.
// Returns a copy to prevent external mutation.
func (m *RouteBasedCollectionMetadata) QueryStringArguments() map[string]interface{} {
	return copyValueMap(m.queryStringArguments)
}

// copyValueMap clones a string-keyed map. A nil or empty input yields an
// empty, non-nil map so accessors never hand out nil.
func copyValueMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// copyStringMap clones a string-to-string map. A nil or empty input yields
// an empty, non-nil map so accessors never hand out nil.
func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
