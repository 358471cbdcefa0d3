package codec

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const payloadSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["last_speaker", "text"],
  "properties": {
    "last_speaker": {"type": "string"},
    "text": {"type": "string"},
    "is_summary": {"type": ["boolean", "null"]}
  }
}`

var payloadSchema = mustCompileSchema(payloadSchemaJSON)

func mustCompileSchema(src string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(src)))
	if err != nil {
		panic(fmt.Sprintf("codec: parse payload schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("payload.json", doc); err != nil {
		panic(fmt.Sprintf("codec: add payload schema: %v", err))
	}
	schema, err := c.Compile("payload.json")
	if err != nil {
		panic(fmt.Sprintf("codec: compile payload schema: %v", err))
	}
	return schema
}

// validatePayload checks that data is a JSON object with the fields the
// controller needs. Unknown fields are allowed.
func validatePayload(data []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if err := payloadSchema.Validate(inst); err != nil {
		return fmt.Errorf("unexpected payload shape: %w", err)
	}
	return nil
}
