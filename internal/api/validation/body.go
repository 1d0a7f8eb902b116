package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/skybi/session-report/internal/api/schema"
)

var (
	errRequestBodyInvalidJSON = func(err string) *schema.Error {
		return &schema.Error{
			Type:    "validation.requestBody.invalidJSON",
			Message: "Request body is not a valid JSON input.",
			Details: map[string]any{
				"error": err,
			},
		}
	}
	errRequestBodyParameterInvalidType = func(name, expectedType string) *schema.Error {
		return &schema.Error{
			Type:    "validation.requestBody.parameter.invalidType",
			Message: fmt.Sprintf("The request body parameter '%s' could not be assigned to the required type (%s).", name, expectedType),
			Details: map[string]any{
				"parameter":     name,
				"expected_type": expectedType,
			},
		}
	}
	errRequestBodyParameterMissing = func(name string) *schema.Error {
		return &schema.Error{
			Type:    "validation.requestBody.parameter.missing",
			Message: fmt.Sprintf("The request body parameter '%s' is required but was not present in the request.", name),
			Details: map[string]any{
				"parameter": name,
			},
		}
	}
)

// UnmarshalBody parses and decodes a JSON request body and checks that all pointer fields tagged with
// `required:"true"` are present
func UnmarshalBody[T any](request *http.Request) (*T, []*schema.Error, error) {
	body, err := io.ReadAll(request.Body)
	if err != nil {
		return nil, nil, err
	}

	target := new(T)
	if err := json.Unmarshal(body, target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, []*schema.Error{errRequestBodyParameterInvalidType(typeErr.Field, typeErr.Type.String())}, nil
		}
		return nil, []*schema.Error{errRequestBodyInvalidJSON(err.Error())}, nil
	}

	errs, err := validateRequired(target)
	if err != nil {
		return nil, nil, err
	}
	return target, errs, nil
}

func validateRequired(val any) ([]*schema.Error, error) {
	ref := reflect.ValueOf(val)
	if ref.Kind() == reflect.Pointer {
		ref = ref.Elem()
	}
	if ref.Kind() != reflect.Struct {
		return nil, errors.New("illegal call to validateRequired with non-struct parameter")
	}
	typ := ref.Type()

	var errs []*schema.Error
	for i := 0; i < typ.NumField(); i++ {
		fieldDef := typ.Field(i)
		if !strings.EqualFold(fieldDef.Tag.Get("required"), "true") {
			continue
		}
		field := ref.Field(i)
		if field.Kind() == reflect.Pointer && field.IsNil() {
			errs = append(errs, errRequestBodyParameterMissing(getFieldName(fieldDef)))
		}
	}
	return errs, nil
}

func getFieldName(def reflect.StructField) string {
	jsonVal, ok := def.Tag.Lookup("json")
	if !ok || jsonVal == "-" {
		return def.Name
	}
	name, _, _ := strings.Cut(jsonVal, ",")
	return name
}
