package gqlcoord

import (
	"context"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

// extractor accumulates coordinates for one ExtractSchemaCoordinates call.
// It holds no state beyond the shared read-only index and the per-call
// result set, so concurrent calls never interact.
type extractor struct {
	index       *typeIndex
	coordinates map[string]struct{}
}

func (ex *extractor) extractOperation(ctx context.Context, doc *ast.QueryDocument, op *ast.OperationDefinition) error {
	rootTypeName, ok := ex.index.rootTypeNames[op.Operation]
	if !ok {
		return &RootTypeMissingError{Operation: op.Operation}
	}

	// The visiting set tracks fragment names on the current resolution path.
	// It is threaded as a parameter rather than kept on the extractor so the
	// resolver stays reentrant.
	visiting := make(map[string]bool)

	return ex.resolveSelectionSet(ctx, doc, op.SelectionSet, rootTypeName, visiting)
}

func (ex *extractor) resolveSelectionSet(ctx context.Context, doc *ast.QueryDocument, selectionSet ast.SelectionSet, typeName string, visiting map[string]bool) error {
	for _, selection := range selectionSet {
		switch selection := selection.(type) {
		case *ast.Field:
			err := ex.resolveField(ctx, doc, selection, typeName, visiting)
			if err != nil {
				return err
			}
		case *ast.InlineFragment:
			// A type condition narrows the context; `... { ... }` keeps it.
			// Directives on either form are syntax only.
			nextTypeName := typeName
			if selection.TypeCondition != "" {
				nextTypeName = selection.TypeCondition
			}
			err := ex.resolveSelectionSet(ctx, doc, selection.SelectionSet, nextTypeName, visiting)
			if err != nil {
				return err
			}
		case *ast.FragmentSpread:
			err := ex.resolveFragmentSpread(ctx, doc, selection, visiting)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected selection type: %T", selection)
		}
	}

	return nil
}

func (ex *extractor) resolveField(ctx context.Context, doc *ast.QueryDocument, field *ast.Field, typeName string, visiting map[string]bool) error {
	switch field.Name {
	case typenameMetaField:
		// Valid on every type, never reported as a coordinate.
		return nil
	case schemaMetaField, typeMetaField:
		// Introspection entry points exist on the query root only. Their
		// selections describe introspection types and are not reported.
		if typeName == ex.index.rootTypeNames[ast.Query] {
			return nil
		}
		return &FieldNotFoundError{TypeName: typeName, FieldName: field.Name}
	}

	typ := ex.index.typesByName[typeName]
	var fieldDef *FieldDefinition
	if typ != nil {
		fieldDef = typ.Fields[field.Name]
	}
	if fieldDef == nil {
		// The document and schema have diverged; a partial report would
		// under-count usage, so the whole extraction fails.
		return &FieldNotFoundError{TypeName: typeName, FieldName: field.Name}
	}

	ex.coordinates[typeName+"."+field.Name] = struct{}{}

	if len(field.SelectionSet) > 0 {
		return ex.resolveSelectionSet(ctx, doc, field.SelectionSet, fieldDef.Type.Name(), visiting)
	}

	return nil
}

func (ex *extractor) resolveFragmentSpread(ctx context.Context, doc *ast.QueryDocument, spread *ast.FragmentSpread, visiting map[string]bool) error {
	fragment := doc.Fragments.ForName(spread.Name)
	if fragment == nil {
		return &UndefinedFragmentError{Name: spread.Name}
	}
	if visiting[spread.Name] {
		return &CyclicFragmentError{Name: spread.Name}
	}

	visiting[spread.Name] = true
	// Fragments always resolve against their own type condition, regardless
	// of the context at the spread site.
	err := ex.resolveSelectionSet(ctx, doc, fragment.SelectionSet, fragment.TypeCondition, visiting)
	delete(visiting, spread.Name)

	return err
}
