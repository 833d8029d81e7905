package gqlcoord

// The specified scalars are declared in every schema whether or not the SDL
// mentions them, matching the std-type table graphql-js keeps.
var specifiedScalarTypes = []*TypeDefinition{
	{Kind: KindScalar, Name: "String"},
	{Kind: KindScalar, Name: "Int"},
	{Kind: KindScalar, Name: "Float"},
	{Kind: KindScalar, Name: "Boolean"},
	{Kind: KindScalar, Name: "ID"},
}

const (
	typenameMetaField = "__typename"
	schemaMetaField   = "__schema"
	typeMetaField     = "__type"
)
