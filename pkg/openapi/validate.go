package openapi

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"

	"github.com/blimu-dev/swagger-gen/pkg/doctree"
	"github.com/blimu-dev/swagger-gen/pkg/generrors"
)

// ValidateDocument runs the document through kin-openapi's structural validation.
// Swagger 2.0 documents are converted to OpenAPI 3, with refs resolved, first.
func ValidateDocument(ctx context.Context, doc *doctree.Map) error {
	version, err := DetectVersion(doc)
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return &generrors.DocumentError{Message: "cannot encode document", Cause: err}
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx

	var v3 *openapi3.T
	switch version {
	case VersionSwagger2:
		var v2 openapi2.T
		if err := json.Unmarshal(data, &v2); err != nil {
			return &generrors.DocumentError{Message: "invalid swagger 2.0 document", Cause: err}
		}
		v3, err = openapi2conv.ToV3WithLoader(&v2, loader, nil)
		if err != nil {
			return &generrors.DocumentError{Message: "cannot convert swagger 2.0 document", Cause: err}
		}
	default:
		v3, err = loader.LoadFromData(data)
		if err != nil {
			return &generrors.DocumentError{Message: "invalid openapi document", Cause: err}
		}
	}

	if err := v3.Validate(ctx); err != nil {
		return &generrors.DocumentError{Message: fmt.Sprintf("%s validation failed", version), Cause: err}
	}
	return nil
}

// ValidateFile loads and validates the document at input.
func ValidateFile(ctx context.Context, input string) error {
	doc, err := Load(ctx, input)
	if err != nil {
		return err
	}
	return ValidateDocument(ctx, doc)
}
