package mcp

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/mailtag/internal/errors"
)

// decode unmarshals tool arguments into a typed request. Unknown argument
// names are rejected so a misspelled "customer" does not silently fall
// back to classifying without a customer.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, errors.NewInvalidRequest(fmt.Sprintf("invalid arguments: %v", err))
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) {
			return result, errors.NewInvalidRequest(fmt.Sprintf("argument %q must be %s", typeErr.Field, typeErr.Type))
		}
		return result, errors.NewInvalidRequest(fmt.Sprintf("invalid arguments: %v", err))
	}
	return result, nil
}
