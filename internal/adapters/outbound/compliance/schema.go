package compliance

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const validateSchema = `{
  "type": "object",
  "required": ["compliance_rate", "violations"],
  "properties": {
    "compliance_rate": {"type": "number", "minimum": 0, "maximum": 100},
    "total_files": {"type": "integer", "minimum": 0},
    "valid_files": {"type": "integer", "minimum": 0},
    "violations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["file", "rule_id"],
        "properties": {
          "file": {"type": "string"},
          "path": {"type": ["string", "null"]},
          "rule_id": {"type": "string"},
          "message": {"type": "string"},
          "severity": {"type": "string"}
        }
      }
    }
  }
}`

const fixSchema = `{
  "type": "object",
  "required": ["success"],
  "properties": {
    "success": {"type": "boolean"},
    "message": {"type": "string"},
    "diff": {"type": ["string", "null"]},
    "new_content": {"type": ["string", "null"]}
  }
}`

var (
	validateSchemaLoader = gojsonschema.NewStringLoader(validateSchema)
	fixSchemaLoader      = gojsonschema.NewStringLoader(fixSchema)
)

// checkSchema validates body against a JSON schema and joins every violation
// into one error.
func checkSchema(schema gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema mismatch: %s", strings.Join(msgs, "; "))
}
