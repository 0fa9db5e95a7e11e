package docs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
)

// Validate checks the description document by parsing it as Swagger 2.0,
// converting it to OpenAPI 3 and running the kin-openapi validator.
func Validate(ctx context.Context) error {
	raw, err := documentJSON()
	if err != nil {
		return fmt.Errorf("encode api description: %w", err)
	}
	return validateJSON(ctx, raw)
}

func validateJSON(ctx context.Context, raw []byte) error {
	var doc2 openapi2.T
	if err := json.Unmarshal(raw, &doc2); err != nil {
		return fmt.Errorf("parse swagger 2.0 document: %w", err)
	}
	doc3, err := openapi2conv.ToV3(&doc2)
	if err != nil {
		return fmt.Errorf("convert to openapi 3: %w", err)
	}
	if err := doc3.Validate(ctx); err != nil {
		return fmt.Errorf("validate api description: %w", err)
	}
	return nil
}
