package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is shared across requests; validator instances cache struct
// metadata, so one per process is the cheap way to use it.
var validate = validator.New()

// DecodeJSON decodes the request body into v. A body with trailing
// garbage after the JSON value is rejected.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: unexpected trailing data")
	}
	return nil
}

// ValidateRequest checks v against its validate tags. A type that
// carries its own Validate method is trusted over the tag rules.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	return validate.Struct(v)
}

// FieldViolation unpacks the first field-level violation from a
// ValidateRequest error so handlers can name the offending field in the
// response. Returns ok=false when the error carries no field detail.
func FieldViolation(err error) (field, rule string, ok bool) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fieldErrs[0].Field(), fieldErrs[0].Tag(), true
	}
	return "", "", false
}
