package client

import (
	stderrors "errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const taskSchemaJSON = `{
	"type": "object",
	"required": ["id", "title"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"title": {"type": "string"},
		"description": {"type": ["string", "null"]},
		"isCompleted": {"type": "boolean"},
		"isImportant": {"type": "boolean"},
		"createdAt": {"type": "string"}
	}
}`

var (
	taskSchema     = jsonschema.MustCompileString("task.schema.json", taskSchemaJSON)
	taskListSchema = jsonschema.MustCompileString("task-list.schema.json",
		`{"type": "array", "items": `+taskSchemaJSON+`}`)
)

// schemaError reduces a schema failure to its first leaf cause so the
// log line names the offending field.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !stderrors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	location := ve.InstanceLocation
	if location == "" {
		location = "/"
	}
	return fmt.Errorf("%s: %s", location, ve.Message)
}
