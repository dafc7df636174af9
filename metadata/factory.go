package metadata

// Configuration element names read by the built-in factories.
const (
	FieldResourceClass             = "resource_class"
	FieldCollectionClass           = "collection_class"
	FieldCollectionRelation        = "collection_relation"
	FieldURL                       = "url"
	FieldRoute                     = "route"
	FieldExtractor                 = "extractor"
	FieldResourceIdentifier        = "resource_identifier"
	FieldRouteParams               = "route_params"
	FieldIdentifiersToPlaceholders = "identifiers_to_placeholders_mapping"
	FieldPaginationParam           = "pagination_param"
	FieldPaginationParamType       = "pagination_param_type"
	FieldQueryStringArguments      = "query_string_arguments"
)

// Factory compiles one raw configuration item into a typed metadata record.
// The fields map is the item with the "__class__" discriminator already
// removed; metadataType carries the discriminator value for error messages.
// Factories must treat fields as read-only.
//
// The container gives custom factories access to collaborating services.
// The built-in factories do not use it.
type Factory interface {
	CreateMetadata(ctn Container, metadataType string, fields map[string]interface{}) (Metadata, error)
}

// FactoryFunc adapts a plain function to the Factory interface.
type FactoryFunc func(ctn Container, metadataType string, fields map[string]interface{}) (Metadata, error)

// CreateMetadata calls f(ctn, metadataType, fields).
func (f FactoryFunc) CreateMetadata(ctn Container, metadataType string, fields map[string]interface{}) (Metadata, error) {
	return f(ctn, metadataType, fields)
}

// CreateURLBasedResourceMetadata is the built-in factory for the
// url-based-resource variant. Required elements: resource_class, url,
// extractor.
func CreateURLBasedResourceMetadata(_ Container, metadataType string, fields map[string]interface{}) (Metadata, error) {
	class, err := requireString(metadataType, fields, FieldResourceClass)
	if err != nil {
		return nil, err
	}
	url, err := requireString(metadataType, fields, FieldURL)
	if err != nil {
		return nil, err
	}
	extractor, err := requireString(metadataType, fields, FieldExtractor)
	if err != nil {
		return nil, err
	}
	return NewURLBasedResourceMetadata(class, url, extractor), nil
}

// CreateURLBasedCollectionMetadata is the built-in factory for the
// url-based-collection variant. Required elements: collection_class,
// collection_relation, url. Optional: pagination_param,
// pagination_param_type.
func CreateURLBasedCollectionMetadata(_ Container, metadataType string, fields map[string]interface{}) (Metadata, error) {
	class, err := requireString(metadataType, fields, FieldCollectionClass)
	if err != nil {
		return nil, err
	}
	relation, err := requireString(metadataType, fields, FieldCollectionRelation)
	if err != nil {
		return nil, err
	}
	url, err := requireString(metadataType, fields, FieldURL)
	if err != nil {
		return nil, err
	}
	opts, err := paginationOptions(metadataType, fields)
	if err != nil {
		return nil, err
	}
	return NewURLBasedCollectionMetadata(class, relation, url, opts...), nil
}

// CreateRouteBasedResourceMetadata is the built-in factory for the
// route-based-resource variant. Required elements: resource_class, route,
// extractor. Optional: resource_identifier, route_params,
// identifiers_to_placeholders_mapping.
func CreateRouteBasedResourceMetadata(_ Container, metadataType string, fields map[string]interface{}) (Metadata, error) {
	class, err := requireString(metadataType, fields, FieldResourceClass)
	if err != nil {
		return nil, err
	}
	route, err := requireString(metadataType, fields, FieldRoute)
	if err != nil {
		return nil, err
	}
	extractor, err := requireString(metadataType, fields, FieldExtractor)
	if err != nil {
		return nil, err
	}

	var opts []MetadataOption
	identifier, ok, err := optionalString(metadataType, fields, FieldResourceIdentifier)
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, WithResourceIdentifier(identifier))
	}
	routeParams, err := optionalValueMap(metadataType, fields, FieldRouteParams)
	if err != nil {
		return nil, err
	}
	if routeParams != nil {
		opts = append(opts, WithRouteParams(routeParams))
	}
	mapping, err := optionalIdentifierMapping(metadataType, fields)
	if err != nil {
		return nil, err
	}
	if mapping != nil {
		opts = append(opts, WithIdentifiersToPlaceholdersMapping(mapping))
	}

	return NewRouteBasedResourceMetadata(class, route, extractor, opts...), nil
}

// CreateRouteBasedCollectionMetadata is the built-in factory for the
// route-based-collection variant. Required elements: collection_class,
// collection_relation, route. Optional: pagination_param,
// pagination_param_type, route_params, query_string_arguments.
func CreateRouteBasedCollectionMetadata(_ Container, metadataType string, fields map[string]interface{}) (Metadata, error) {
	class, err := requireString(metadataType, fields, FieldCollectionClass)
	if err != nil {
		return nil, err
	}
	relation, err := requireString(metadataType, fields, FieldCollectionRelation)
	if err != nil {
		return nil, err
	}
	route, err := requireString(metadataType, fields, FieldRoute)
	if err != nil {
		return nil, err
	}

	opts, err := paginationOptions(metadataType, fields)
	if err != nil {
		return nil, err
	}
	routeParams, err := optionalValueMap(metadataType, fields, FieldRouteParams)
	if err != nil {
		return nil, err
	}
	if routeParams != nil {
		opts = append(opts, WithRouteParams(routeParams))
	}
	queryArgs, err := optionalValueMap(metadataType, fields, FieldQueryStringArguments)
	if err != nil {
		return nil, err
	}
	if queryArgs != nil {
		opts = append(opts, WithQueryStringArguments(queryArgs))
	}

	return NewRouteBasedCollectionMetadata(class, relation, route, opts...), nil
}

// paginationOptions reads the optional pagination elements shared by the
// collection variants.
func paginationOptions(metadataType string, fields map[string]interface{}) ([]MetadataOption, error) {
	var opts []MetadataOption

	param, ok, err := optionalString(metadataType, fields, FieldPaginationParam)
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, WithPaginationParam(param))
	}

	rawType, ok, err := optionalString(metadataType, fields, FieldPaginationParamType)
	if err != nil {
		return nil, err
	}
	if ok {
		paramType := PaginationParamType(rawType)
		if paramType != PaginationTypeQuery && paramType != PaginationTypePlaceholder {
			return nil, invalidConfigf(
				"unable to create metadata of type %q; invalid %q element %q, expected %q or %q",
				metadataType, FieldPaginationParamType, rawType,
				string(PaginationTypeQuery), string(PaginationTypePlaceholder),
			)
		}
		opts = append(opts, WithPaginationParamType(paramType))
	}

	return opts, nil
}

// requireString reads a required string element from a configuration item.
func requireString(metadataType string, fields map[string]interface{}, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", invalidConfigf("unable to create metadata of type %q; missing %q element", metadataType, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalidConfigf("unable to create metadata of type %q; %q element must be a string, received %T", metadataType, key, raw)
	}
	return s, nil
}

// optionalString reads an optional string element. The second return value
// reports whether the element was present.
func optionalString(metadataType string, fields map[string]interface{}, key string) (string, bool, error) {
	raw, ok := fields[key]
	if !ok {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, invalidConfigf("unable to create metadata of type %q; %q element must be a string, received %T", metadataType, key, raw)
	}
	return s, true, nil
}

// optionalValueMap reads an optional string-keyed map element.
func optionalValueMap(metadataType string, fields map[string]interface{}, key string) (map[string]interface{}, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, invalidConfigf("unable to create metadata of type %q; %q element must be a map, received %T", metadataType, key, raw)
	}
	return m, nil
}

// optionalIdentifierMapping reads the identifiers_to_placeholders_mapping
// element, requiring every placeholder value to be a string.
func optionalIdentifierMapping(metadataType string, fields map[string]interface{}) (map[string]string, error) {
	raw, ok := fields[FieldIdentifiersToPlaceholders]
	if !ok {
		return nil, nil
	}

	switch m := raw.(type) {
	case map[string]string:
		return m, nil
	case map[string]interface{}:
		mapping := make(map[string]string, len(m))
		for identifier, placeholder := range m {
			s, ok := placeholder.(string)
			if !ok {
				return nil, invalidConfigf(
					"unable to create metadata of type %q; %q element must map identifiers to placeholder strings, received %T for %q",
					metadataType, FieldIdentifiersToPlaceholders, placeholder, identifier,
				)
			}
			mapping[identifier] = s
		}
		return mapping, nil
	default:
		return nil, invalidConfigf("unable to create metadata of type %q; %q element must be a map, received %T", metadataType, FieldIdentifiersToPlaceholders, raw)
	}
}
