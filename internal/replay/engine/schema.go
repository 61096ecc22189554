package engine

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateRequestSchema generates a JSON schema for ReplayRequest.
func GenerateRequestSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(&ReplayRequest{})

	schema.Title = "replay-request"
	schema.Description = "Request schema of a trade replay"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateRequestSchemaJSON generates the ReplayRequest JSON schema as an indented string.
func GenerateRequestSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(GenerateRequestSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
