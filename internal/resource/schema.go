package resource

import (
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// bundleDocumentSchema enforces the backing resource contract: one JSON
// object per (locale, namespace) pair, arbitrarily nested, with string
// leaves only.
const bundleDocumentSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"additionalProperties": {"$ref": "#/$defs/node"},
	"$defs": {
		"node": {
			"anyOf": [
				{"type": "string"},
				{
					"type": "object",
					"additionalProperties": {"$ref": "#/$defs/node"}
				}
			]
		}
	}
}`

var documentSchema = jsonschema.MustCompileString("localize://bundle-document.json", bundleDocumentSchema)

// validateDocumentShape checks a decoded document against the bundle schema.
func validateDocumentShape(doc map[string]any) error {
	if doc == nil {
		return nil
	}
	return documentSchema.Validate(normalizeForSchema(doc))
}

// normalizeForSchema converts the decoded document into the plain
// interface{} tree the schema validator expects.
func normalizeForSchema(doc map[string]any) any {
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		if nested, ok := value.(map[string]any); ok {
			out[key] = normalizeForSchema(nested)
			continue
		}
		out[key] = value
	}
	return out
}
