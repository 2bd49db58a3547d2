package backend

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const uploadSchema = `{
	"type": "object",
	"required": ["job_id"],
	"properties": {
		"job_id": {"type": ["string", "integer"], "minLength": 1},
		"message": {"type": ["string", "null"]}
	}
}`

const jobSchema = `{
	"type": "object",
	"required": ["id", "status"],
	"properties": {
		"id": {"type": ["string", "integer"]},
		"target_table": {"type": ["string", "null"]},
		"status": {"enum": ["pending", "processing", "completed", "failed"]},
		"total_rows": {"type": ["integer", "null"], "minimum": 0},
		"valid_rows": {"type": ["integer", "null"], "minimum": 0},
		"invalid_rows": {"type": ["integer", "null"], "minimum": 0},
		"error_message": {"type": ["string", "null"]},
		"has_rejections": {"type": ["boolean", "null"]},
		"created_at": {"type": ["string", "null"]},
		"started_at": {"type": ["string", "null"]},
		"completed_at": {"type": ["string", "null"]}
	}
}`

const answersSchema = `{
	"type": "object",
	"properties": {
		"answers": {
			"type": ["object", "null"],
			"additionalProperties": {"type": "string"}
		}
	}
}`

const gradeSchema = `{
	"type": "object",
	"properties": {
		"test_name": {"type": ["string", "null"]},
		"score": {"type": "number"},
		"traits": {
			"type": "object",
			"additionalProperties": {"type": "number"}
		}
	},
	"anyOf": [
		{"required": ["score"]},
		{"required": ["traits"]}
	]
}`

var (
	uploadValidator  = mustSchema(uploadSchema)
	jobValidator     = mustSchema(jobSchema)
	answersValidator = mustSchema(answersSchema)
	gradeValidator   = mustSchema(gradeSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid response schema: %v", err))
	}
	return schema
}

// validate checks a response body against the endpoint schema.
func validate(schema *gojsonschema.Schema, endpoint string, body []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, endpoint, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s: %s", ErrMalformedResponse, endpoint, strings.Join(msgs, "; "))
}
