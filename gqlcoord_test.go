package gqlcoord

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-logr/logr/testr"

	"github.com/vvakame/gqlcoord/internal/log"
)

func testContext(t *testing.T) context.Context {
	ctx := context.Background()
	ctx = log.WithLogger(ctx, testr.New(t))
	return ctx
}

func TestExtractSchemaCoordinates(t *testing.T) {
	ctx := testContext(t)

	schemaText := heredoc.Doc(`
		schema {
			query: Root
		}
		type Root {
			animalOwner: Human
		}
		type Human {
			name: String
			contactDetails: ContactDetails
		}
		type ContactDetails {
			email: String
		}
	`)
	documentText := heredoc.Doc(`
		{
			animalOwner {
				name
				contactDetails {
					email
				}
			}
		}
	`)

	ps, err := NewParsedSchema(ctx, schemaText)
	if err != nil {
		t.Fatal(err)
	}

	coordinates, err := ps.ExtractSchemaCoordinates(ctx, documentText)
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{
		"ContactDetails.email",
		"Human.contactDetails",
		"Human.name",
		"Root.animalOwner",
	}
	if !reflect.DeepEqual(coordinates, expected) {
		t.Errorf("unexpected coordinates: %v", coordinates)
	}

	for _, coordinate := range coordinates {
		if !ps.HasField(coordinate) {
			t.Errorf("HasField(%q) = false for an extracted coordinate", coordinate)
		}
	}
}

func TestExtractSchemaCoordinates_idempotent(t *testing.T) {
	ctx := testContext(t)

	schemaText := heredoc.Doc(`
		type Query {
			human: Human
		}
		type Human {
			name: String
		}
	`)
	documentText := `{ human { name } }`

	ps, err := NewParsedSchema(ctx, schemaText)
	if err != nil {
		t.Fatal(err)
	}

	first, err := ps.ExtractSchemaCoordinates(ctx, documentText)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ps.ExtractSchemaCoordinates(ctx, documentText)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs: %v vs %v", first, second)
	}
}

func TestExtractSchemaCoordinates_fragmentInliningEquivalence(t *testing.T) {
	ctx := testContext(t)

	schemaText := heredoc.Doc(`
		type Query {
			human: Human
		}
		type Human {
			name: String
			age: Int
		}
	`)

	ps, err := NewParsedSchema(ctx, schemaText)
	if err != nil {
		t.Fatal(err)
	}

	spread := heredoc.Doc(`
		{
			human {
				...humanFields
			}
		}
		fragment humanFields on Human {
			name
			age
		}
	`)
	inlined := heredoc.Doc(`
		{
			human {
				name
				age
			}
		}
	`)

	fromSpread, err := ps.ExtractSchemaCoordinates(ctx, spread)
	if err != nil {
		t.Fatal(err)
	}
	fromInlined, err := ps.ExtractSchemaCoordinates(ctx, inlined)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(fromSpread, fromInlined) {
		t.Errorf("fragment spread and inlined forms differ: %v vs %v", fromSpread, fromInlined)
	}
}

func TestExtractSchemaCoordinates_abstractTypeNarrowing(t *testing.T) {
	ctx := testContext(t)

	schemaText := heredoc.Doc(`
		type Query {
			node: Node
		}
		interface Node {
			id: ID
		}
		type ConcreteA implements Node {
			id: ID
			alpha: String
		}
		type ConcreteB implements Node {
			id: ID
			beta: String
		}
	`)
	documentText := heredoc.Doc(`
		{
			node {
				id
				... on ConcreteA {
					alpha
				}
				... on ConcreteB {
					beta
				}
			}
		}
	`)

	ps, err := NewParsedSchema(ctx, schemaText)
	if err != nil {
		t.Fatal(err)
	}

	coordinates, err := ps.ExtractSchemaCoordinates(ctx, documentText)
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{
		"ConcreteA.alpha",
		"ConcreteB.beta",
		"Node.id",
		"Query.node",
	}
	if !reflect.DeepEqual(coordinates, expected) {
		t.Errorf("unexpected coordinates: %v", coordinates)
	}
}

func TestExtractSchemaCoordinates_unionNarrowing(t *testing.T) {
	ctx := testContext(t)

	schemaText := heredoc.Doc(`
		type Query {
			search: SearchResult
		}
		union SearchResult = Book | Movie
		type Book {
			title: String
		}
		type Movie {
			runtime: Int
		}
	`)

	ps, err := NewParsedSchema(ctx, schemaText)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("member fragments stay under their own type", func(t *testing.T) {
		coordinates, err := ps.ExtractSchemaCoordinates(ctx, heredoc.Doc(`
			{
				search {
					__typename
					... on Book {
						title
					}
					... on Movie {
						runtime
					}
				}
			}
		`))
		if err != nil {
			t.Fatal(err)
		}
		expected := []string{
			"Book.title",
			"Movie.runtime",
			"Query.search",
		}
		if !reflect.DeepEqual(coordinates, expected) {
			t.Errorf("unexpected coordinates: %v", coordinates)
		}
	})

	t.Run("direct field on the union context", func(t *testing.T) {
		// Unions declare no fields of their own, so only __typename and
		// member fragments are resolvable against them.
		_, err := ps.ExtractSchemaCoordinates(ctx, `{ search { title } }`)
		var fnfErr *FieldNotFoundError
		if !errors.As(err, &fnfErr) {
			t.Fatalf("unexpected error: %v", err)
		}
		if fnfErr.TypeName != "SearchResult" || fnfErr.FieldName != "title" {
			t.Errorf("unexpected error detail: %v", fnfErr)
		}
	})
}

func TestExtractSchemaCoordinates_metaFields(t *testing.T) {
	ctx := testContext(t)

	schemaText := heredoc.Doc(`
		type Query {
			human: Human
		}
		type Human {
			name: String
		}
	`)

	ps, err := NewParsedSchema(ctx, schemaText)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("typename is suppressed everywhere", func(t *testing.T) {
		coordinates, err := ps.ExtractSchemaCoordinates(ctx, heredoc.Doc(`
			{
				__typename
				human {
					__typename
					name
				}
			}
		`))
		if err != nil {
			t.Fatal(err)
		}
		expected := []string{"Human.name", "Query.human"}
		if !reflect.DeepEqual(coordinates, expected) {
			t.Errorf("unexpected coordinates: %v", coordinates)
		}
	})

	t.Run("introspection entry points on the query root", func(t *testing.T) {
		coordinates, err := ps.ExtractSchemaCoordinates(ctx, heredoc.Doc(`
			{
				__schema {
					queryType {
						name
					}
				}
				__type(name: "Human") {
					name
				}
				human {
					name
				}
			}
		`))
		if err != nil {
			t.Fatal(err)
		}
		expected := []string{"Human.name", "Query.human"}
		if !reflect.DeepEqual(coordinates, expected) {
			t.Errorf("unexpected coordinates: %v", coordinates)
		}
	})

	t.Run("introspection entry points off the query root", func(t *testing.T) {
		_, err := ps.ExtractSchemaCoordinates(ctx, `{ human { __schema } }`)
		var fnfErr *FieldNotFoundError
		if !errors.As(err, &fnfErr) {
			t.Fatalf("unexpected error: %v", err)
		}
		if fnfErr.TypeName != "Human" || fnfErr.FieldName != "__schema" {
			t.Errorf("unexpected error detail: %v", fnfErr)
		}
	})
}

func TestHasField(t *testing.T) {
	ctx := testContext(t)

	schemaText := heredoc.Doc(`
		interface Pet {
			name: String
		}
		type Cat implements Pet {
			name: String
			favoriteMilkBrand: String
		}
		type Dog implements Pet {
			bark: Boolean
		}
	`)

	ps, err := NewParsedSchema(ctx, schemaText)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		coordinate string
		want       bool
	}{
		{"Cat.name", true},
		{"Cat.favoriteMilkBrand", true},
		{"Pet.name", true},
		{"Yorg.dorg", false},
		// membership is structural per the named type, never widened
		// through interfaces
		{"Dog.name", false},
		{"Cat.__typename", false},
		// malformed coordinates resolve to false rather than failing
		{"", false},
		{"Cat", false},
		{"Cat.", false},
		{".name", false},
		{"Cat.name.extra", false},
	}
	for _, tt := range tests {
		if got := ps.HasField(tt.coordinate); got != tt.want {
			t.Errorf("HasField(%q) = %v, want %v", tt.coordinate, got, tt.want)
		}
	}
}
