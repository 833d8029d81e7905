package gqlcoord

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// SchemaParseError reports a syntax error in SDL text.
// The wrapped *gqlerror.Error carries the source position.
type SchemaParseError struct {
	Err *gqlerror.Error
}

func (e *SchemaParseError) Error() string {
	return fmt.Sprintf("parse schema: %s", e.Err.Error())
}

func (e *SchemaParseError) Unwrap() error {
	return e.Err
}

// DocumentParseError reports a syntax error in operation-document text.
type DocumentParseError struct {
	Err *gqlerror.Error
}

func (e *DocumentParseError) Error() string {
	return fmt.Sprintf("parse document: %s", e.Err.Error())
}

func (e *DocumentParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a semantic problem found while indexing a
// syntactically valid schema: an undeclared type reference, a type declared
// with two different kinds, a field colliding between a type and its
// extension, or a root operation type with no matching definition.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string {
	return e.Message
}

func schemaErrorf(format string, args ...interface{}) *SchemaError {
	return &SchemaError{Message: fmt.Sprintf(format, args...)}
}

// RootTypeMissingError reports an operation whose kind has no root type
// configured in the schema.
type RootTypeMissingError struct {
	Operation ast.Operation
}

func (e *RootTypeMissingError) Error() string {
	return fmt.Sprintf("schema is not configured to execute %s operations", e.Operation)
}

// FieldNotFoundError reports a document selecting a field that the current
// type context does not declare.
type FieldNotFoundError struct {
	TypeName  string
	FieldName string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %s.%s is not declared in the schema", e.TypeName, e.FieldName)
}

// UndefinedFragmentError reports a fragment spread with no matching
// fragment definition in the document.
type UndefinedFragmentError struct {
	Name string
}

func (e *UndefinedFragmentError) Error() string {
	return fmt.Sprintf("fragment %s is spread but never defined", e.Name)
}

// CyclicFragmentError reports a fragment that spreads itself, directly or
// through other fragments.
type CyclicFragmentError struct {
	Name string
}

func (e *CyclicFragmentError) Error() string {
	return fmt.Sprintf("fragment %s spreads itself", e.Name)
}
