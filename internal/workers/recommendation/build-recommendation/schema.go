// internal/workers/recommendation/build-recommendation/schema.go
package buildrecommendation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	cerrors "autotrader-workers/internal/common/errors"
)

// recommendationSchema guards the response contract: a recommendation either
// carries every section fully populated or the job fails, never a partial
// document.
const recommendationSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["summary", "yourProfile", "financeInfo", "recommendedVehicles"],
  "properties": {
    "summary": {"type": "string", "minLength": 1},
    "yourProfile": {
      "type": "object",
      "required": ["location", "budget", "preferencesFromSemanticSearch"],
      "properties": {
        "location": {"type": "string", "minLength": 1},
        "budget": {
          "type": "object",
          "required": ["paymentMethod"],
          "properties": {
            "cashBudget": {"type": "number", "minimum": 0},
            "monthlyCapacity": {"type": "number", "minimum": 0},
            "paymentMethod": {"enum": ["cash", "loan", "lease", ""]}
          }
        },
        "preferencesFromSemanticSearch": {"type": "array"}
      }
    },
    "financeInfo": {
      "type": "object",
      "required": ["paymentCapacity"],
      "properties": {
        "paymentCapacity": {"type": "string", "minLength": 1}
      }
    },
    "recommendedVehicles": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["vehicle", "tcoTotal", "breakdown"],
        "properties": {
          "tcoTotal": {"type": "number", "minimum": 0},
          "breakdown": {"type": "object", "minProperties": 1}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(recommendationSchema)

func validateRecommendation(doc []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return cerrors.NewResponseValidationFailedError(strings.Join(msgs, "; "))
}
