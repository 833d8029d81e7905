package gqlcoord

import (
	"context"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/vvakame/gqlcoord/internal/log"
)

// TypeKind is the closed set of type-system kinds a schema can declare.
type TypeKind string

const (
	KindScalar      TypeKind = "SCALAR"
	KindObject      TypeKind = "OBJECT"
	KindInterface   TypeKind = "INTERFACE"
	KindUnion       TypeKind = "UNION"
	KindEnum        TypeKind = "ENUM"
	KindInputObject TypeKind = "INPUT_OBJECT"
)

// TypeDefinition is one named type in the index. Which parts are populated
// depends on Kind: Fields for Object/Interface/InputObject, Interfaces for
// Object/Interface, Members for Union.
type TypeDefinition struct {
	Kind       TypeKind
	Name       string
	Fields     map[string]*FieldDefinition
	Interfaces []string
	Members    []string
}

// FieldDefinition is one field declared directly on a type. Type keeps the
// full List/NonNull-wrapped reference; coordinate extraction only ever needs
// the innermost named type via Type.Name().
type FieldDefinition struct {
	Name      string
	Type      *ast.Type
	Arguments ast.ArgumentDefinitionList
}

// typeIndex is the immutable lookup structure built once per schema.
// Every type name referenced by a field, interface list, union member list
// or root operation type is guaranteed to resolve in typesByName; violated
// references are rejected during construction, never at query time.
type typeIndex struct {
	typesByName           map[string]*TypeDefinition
	interfaceImplementers map[string][]string
	unionMembers          map[string][]string
	rootTypeNames         map[ast.Operation]string
}

var defaultRootTypeNames = map[ast.Operation]string{
	ast.Query:        "Query",
	ast.Mutation:     "Mutation",
	ast.Subscription: "Subscription",
}

type typeIndexBuilder struct {
	typesByName map[string]*TypeDefinition
}

func buildTypeIndex(ctx context.Context, doc *ast.SchemaDocument) (*typeIndex, error) {
	b := &typeIndexBuilder{
		typesByName: make(map[string]*TypeDefinition),
	}
	for _, typ := range specifiedScalarTypes {
		b.typesByName[typ.Name] = typ
	}

	// Directive declarations in doc.Directives carry no weight for
	// coordinate extraction and are dropped here.

	for _, def := range doc.Definitions {
		err := b.declareType(def)
		if err != nil {
			return nil, err
		}
	}
	for _, def := range doc.Extensions {
		err := b.extendType(def)
		if err != nil {
			return nil, err
		}
	}

	rootTypeNames, err := b.resolveRootTypes(doc)
	if err != nil {
		return nil, err
	}

	err = b.checkReferences()
	if err != nil {
		return nil, err
	}

	index := &typeIndex{
		typesByName:           b.typesByName,
		interfaceImplementers: make(map[string][]string),
		unionMembers:          make(map[string][]string),
		rootTypeNames:         rootTypeNames,
	}
	for _, name := range b.sortedTypeNames() {
		typ := b.typesByName[name]
		for _, intf := range typ.Interfaces {
			index.interfaceImplementers[intf] = append(index.interfaceImplementers[intf], name)
		}
		if typ.Kind == KindUnion {
			index.unionMembers[name] = typ.Members
		}
	}

	log.FromContext(ctx).V(1).Info(
		"type index built",
		"types", len(index.typesByName),
		"interfaces", len(index.interfaceImplementers),
		"unions", len(index.unionMembers),
	)

	return index, nil
}

func (b *typeIndexBuilder) declareType(def *ast.Definition) error {
	kind, err := lowerKind(def)
	if err != nil {
		return err
	}

	if existing := b.typesByName[def.Name]; existing != nil {
		if existing.Kind != kind {
			return schemaErrorf("type %s is declared as both %s and %s", def.Name, existing.Kind, kind)
		}
		// A same-kind redeclaration merges through the extension path, so
		// colliding fields still fail construction.
		return b.mergeDefinition(existing, def)
	}

	typ := &TypeDefinition{
		Kind: kind,
		Name: def.Name,
	}
	switch kind {
	case KindObject, KindInterface, KindInputObject:
		typ.Fields = make(map[string]*FieldDefinition)
	}
	b.typesByName[def.Name] = typ

	return b.mergeDefinition(typ, def)
}

func (b *typeIndexBuilder) extendType(def *ast.Definition) error {
	kind, err := lowerKind(def)
	if err != nil {
		return err
	}

	existing := b.typesByName[def.Name]
	if existing == nil {
		return schemaErrorf("cannot extend unknown type %s", def.Name)
	}
	if existing.Kind != kind {
		return schemaErrorf("cannot extend %s type %s as %s", existing.Kind, def.Name, kind)
	}

	return b.mergeDefinition(existing, def)
}

func (b *typeIndexBuilder) mergeDefinition(typ *TypeDefinition, def *ast.Definition) error {
	for _, field := range def.Fields {
		if _, ok := typ.Fields[field.Name]; ok {
			return schemaErrorf("field %s.%s is declared more than once", typ.Name, field.Name)
		}
		typ.Fields[field.Name] = &FieldDefinition{
			Name:      field.Name,
			Type:      field.Type,
			Arguments: field.Arguments,
		}
	}
	for _, intf := range def.Interfaces {
		if !containsString(typ.Interfaces, intf) {
			typ.Interfaces = append(typ.Interfaces, intf)
		}
	}
	for _, member := range def.Types {
		if !containsString(typ.Members, member) {
			typ.Members = append(typ.Members, member)
		}
	}

	return nil
}

// resolveRootTypes applies the schema { query: ... } block when present.
// The Query/Mutation/Subscription naming convention only kicks in for
// schemas without an explicit schema block.
func (b *typeIndexBuilder) resolveRootTypes(doc *ast.SchemaDocument) (map[ast.Operation]string, error) {
	rootTypeNames := make(map[ast.Operation]string)

	if len(doc.Schema) == 0 {
		for op, name := range defaultRootTypeNames {
			if _, ok := b.typesByName[name]; ok {
				rootTypeNames[op] = name
			}
		}
	}

	schemaDefs := append(ast.SchemaDefinitionList{}, doc.Schema...)
	schemaDefs = append(schemaDefs, doc.SchemaExtension...)
	for _, def := range schemaDefs {
		for _, opType := range def.OperationTypes {
			if _, ok := b.typesByName[opType.Type]; !ok {
				return nil, schemaErrorf("%s root type %s is not declared", opType.Operation, opType.Type)
			}
			rootTypeNames[opType.Operation] = opType.Type
		}
	}

	return rootTypeNames, nil
}

// checkReferences rejects dangling type names so extraction can trust every
// lookup. Field return types, implemented interfaces and union members are
// all required to resolve; argument types are not part of the contract.
func (b *typeIndexBuilder) checkReferences() error {
	for _, name := range b.sortedTypeNames() {
		typ := b.typesByName[name]

		fieldNames := make([]string, 0, len(typ.Fields))
		for fieldName := range typ.Fields {
			fieldNames = append(fieldNames, fieldName)
		}
		sort.Strings(fieldNames)
		for _, fieldName := range fieldNames {
			field := typ.Fields[fieldName]
			returnType := field.Type.Name()
			if _, ok := b.typesByName[returnType]; !ok {
				return schemaErrorf("field %s.%s references unknown type %s", name, fieldName, returnType)
			}
		}

		for _, intf := range typ.Interfaces {
			if _, ok := b.typesByName[intf]; !ok {
				return schemaErrorf("type %s implements unknown interface %s", name, intf)
			}
		}
		for _, member := range typ.Members {
			if _, ok := b.typesByName[member]; !ok {
				return schemaErrorf("union %s has unknown member type %s", name, member)
			}
		}
	}

	return nil
}

func (b *typeIndexBuilder) sortedTypeNames() []string {
	names := make([]string, 0, len(b.typesByName))
	for name := range b.typesByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lowerKind(def *ast.Definition) (TypeKind, error) {
	switch def.Kind {
	case ast.Scalar:
		return KindScalar, nil
	case ast.Object:
		return KindObject, nil
	case ast.Interface:
		return KindInterface, nil
	case ast.Union:
		return KindUnion, nil
	case ast.Enum:
		return KindEnum, nil
	case ast.InputObject:
		return KindInputObject, nil
	default:
		return "", schemaErrorf("type %s has unexpected kind %s", def.Name, def.Kind)
	}
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
