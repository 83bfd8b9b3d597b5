package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// recordSchemaJSON describes one line of a JSONL record file. It checks shape
// only; field contents are judged by the validator.
const recordSchemaJSON = `{
	"type": "object",
	"required": ["firstName", "mobileNumber"],
	"properties": {
		"firstName": {"type": "string"},
		"lastName": {"type": "string"},
		"mobileNumber": {"type": "string"},
		"dateOfBirth": {"type": "string"},
		"highestEducation": {"type": "string"},
		"gender": {"type": "string"},
		"address": {"type": "string"},
		"profilePicLocation": {"type": "string"},
		"location": {
			"type": "object",
			"properties": {
				"lat": {"type": "number"},
				"long": {"type": "number"}
			},
			"additionalProperties": false
		}
	},
	"additionalProperties": false
}`

var recordSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", strings.NewReader(recordSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("record.json")
})

// checkLineShape reports whether line is a JSON object shaped like a record.
func checkLineShape(line []byte) error {
	schema, err := recordSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(line, &v); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("does not match record schema: %w", err)
	}
	return nil
}
