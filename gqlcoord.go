// Package gqlcoord statically extracts schema coordinates (TypeName.fieldName
// strings) from GraphQL operation documents without executing them.
//
// A ParsedSchema is built once per schema, which is the expensive step, and
// then shared read-only across any number of ExtractSchemaCoordinates calls.
package gqlcoord

import (
	"context"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/vvakame/gqlcoord/internal/log"
)

// ParsedSchema is an immutable index over one GraphQL schema. It is safe for
// concurrent use; extraction calls allocate only per-call state.
type ParsedSchema struct {
	index *typeIndex
}

// NewParsedSchema parses SDL text and builds the type index.
// Syntax errors surface as *SchemaParseError, semantic construction failures
// as *SchemaError; no partial schema is ever returned.
func NewParsedSchema(ctx context.Context, schemaText string) (*ParsedSchema, error) {
	schemaDoc, gErr := parser.ParseSchema(&ast.Source{
		Name:  "schema.graphql",
		Input: schemaText,
	})
	if gErr != nil {
		return nil, &SchemaParseError{Err: gqlerror.WrapIfUnwrapped(gErr)}
	}

	index, err := buildTypeIndex(ctx, schemaDoc)
	if err != nil {
		return nil, err
	}

	return &ParsedSchema{index: index}, nil
}

// ExtractSchemaCoordinates parses documentText and reports every coordinate
// the document touches, deduplicated and sorted. Coordinates from all
// operations in the document are unioned. Extraction is all or nothing: any
// syntax error, unresolvable field, undefined fragment or fragment cycle
// fails the call without a partial result.
func (ps *ParsedSchema) ExtractSchemaCoordinates(ctx context.Context, documentText string) ([]string, error) {
	queryDoc, gErr := parser.ParseQuery(&ast.Source{
		Name:  "document.graphql",
		Input: documentText,
	})
	if gErr != nil {
		return nil, &DocumentParseError{Err: gqlerror.WrapIfUnwrapped(gErr)}
	}

	ex := &extractor{
		index:       ps.index,
		coordinates: make(map[string]struct{}),
	}
	for _, op := range queryDoc.Operations {
		err := ex.extractOperation(ctx, queryDoc, op)
		if err != nil {
			return nil, err
		}
	}

	coordinates := make([]string, 0, len(ex.coordinates))
	for coordinate := range ex.coordinates {
		coordinates = append(coordinates, coordinate)
	}
	sort.Strings(coordinates)

	log.FromContext(ctx).V(1).Info(
		"coordinates extracted",
		"operations", len(queryDoc.Operations),
		"coordinates", len(coordinates),
	)

	return coordinates, nil
}

// HasField reports whether coordinate names a field declared directly on the
// named type. The check is structural per that exact type; interface and
// union membership never widen it. Malformed input reports false rather
// than failing.
func (ps *ParsedSchema) HasField(coordinate string) bool {
	typeName, fieldName, ok := strings.Cut(coordinate, ".")
	if !ok {
		return false
	}

	typ := ps.index.typesByName[typeName]
	if typ == nil {
		return false
	}
	_, ok = typ.Fields[fieldName]
	return ok
}
