package extraction

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed extracted_cv_schema.json
var extractedCVSchema []byte

// CollaboratorError is a fatal failure of the AI extraction collaborator:
// the call failed or its response did not match the expected shape.
type CollaboratorError struct {
	Message string
	Cause   error
}

func (e *CollaboratorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction collaborator failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction collaborator failed: %s", e.Message)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Cause
}

// ParseResponse validates the collaborator's raw JSON response against the
// extracted-CV schema and decodes it. Any shape failure is a fatal
// CollaboratorError; the core never retries.
func ParseResponse(raw []byte) (*ExtractedCV, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(extractedCVSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, &CollaboratorError{Message: "response is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		msg := "response does not match the extracted-CV schema"
		for _, desc := range result.Errors() {
			msg += fmt.Sprintf("; %s: %s", desc.Field(), desc.Description())
		}
		return nil, &CollaboratorError{Message: msg}
	}

	var cv ExtractedCV
	if err := json.Unmarshal(raw, &cv); err != nil {
		return nil, &CollaboratorError{Message: "failed to decode response", Cause: err}
	}
	return &cv, nil
}
