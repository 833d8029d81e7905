package testutils

import (
	"regexp"
)

var schemaFileRe = regexp.MustCompile(`(?m)^# schema:\s*([^\s]+)$`)

// FindSchemaFileName resolves the `# schema: <file>` comment header that
// testdata documents use to name the schema they run against.
func FindSchemaFileName(t TestingT, source string) string {
	t.Helper()

	ss := schemaFileRe.FindStringSubmatch(source)
	if len(ss) != 2 {
		t.Fatal("schema file directive mismatch")
	}

	return ss[1]
}
