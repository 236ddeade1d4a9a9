// Package validation checks untrusted post input against the post schema.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"postboard/models"
)

// Issue codes reported in FieldError.Code.
const (
	CodeInvalidType = "invalid_type"
	CodeInvalidDate = "invalid_date"
	CodeInvalidJSON = "invalid_json"
	CodeTooSmall    = "too_small"
	CodeTooBig      = "too_big"
)

// FieldError describes one schema violation.
type FieldError struct {
	Path    []string `json:"path"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

// FieldErrors is the ordered list of violations for one input.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		if len(fe.Path) == 0 {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, strings.Join(fe.Path, ".")+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type textRule struct {
	field    string
	tag      string
	messages map[string]string
}

var validate = validator.New()

// Ordered as reported: message before name.
var textRules = []textRule{
	{
		field: "message",
		tag:   "required,max=500",
		messages: map[string]string{
			"required": "Message required",
			"max":      "Max 500 characters",
		},
	},
	{
		field: "name",
		tag:   "required,max=100",
		messages: map[string]string{
			"required": "name required",
			"max":      "Max 100 characters",
		},
	},
}

var tagCodes = map[string]string{
	"required": CodeTooSmall,
	"max":      CodeTooBig,
}

// ValidatePost checks a decoded JSON value against the post schema. Unknown
// fields are ignored. On failure every violation is returned.
func ValidatePost(input any) (models.PostBase, FieldErrors) {
	obj, ok := input.(map[string]any)
	if !ok {
		return models.PostBase{}, FieldErrors{{
			Path:    []string{},
			Code:    CodeInvalidType,
			Message: "Expected object, received " + typeName(input),
		}}
	}

	var (
		post models.PostBase
		errs FieldErrors
	)

	createdAt, fe := checkCreatedAt(obj)
	if fe != nil {
		errs = append(errs, *fe)
	}
	post.CreatedAt = createdAt

	for _, rule := range textRules {
		value, fe := checkText(obj, rule)
		if fe != nil {
			errs = append(errs, *fe)
			continue
		}
		switch rule.field {
		case "message":
			post.Message = value
		case "name":
			post.Name = value
		}
	}

	if len(errs) > 0 {
		return models.PostBase{}, errs
	}
	return post, nil
}

// InvalidBody reports a request body that could not be decoded at all.
func InvalidBody(err error) FieldErrors {
	msg := "Invalid JSON body"
	if err != nil {
		msg = fmt.Sprintf("Invalid JSON body: %v", err)
	}
	return FieldErrors{{Path: []string{}, Code: CodeInvalidJSON, Message: msg}}
}

func checkText(obj map[string]any, rule textRule) (string, *FieldError) {
	raw, present := obj[rule.field]
	var value string
	if present {
		s, ok := raw.(string)
		if !ok {
			return "", &FieldError{
				Path:    []string{rule.field},
				Code:    CodeInvalidType,
				Message: "Expected string, received " + typeName(raw),
			}
		}
		value = s
	}

	if err := validate.Var(value, rule.tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			tag := verrs[0].Tag()
			return "", &FieldError{
				Path:    []string{rule.field},
				Code:    tagCodes[tag],
				Message: rule.messages[tag],
			}
		}
		return "", &FieldError{Path: []string{rule.field}, Code: CodeInvalidType, Message: err.Error()}
	}
	return value, nil
}

func checkCreatedAt(obj map[string]any) (*time.Time, *FieldError) {
	raw, present := obj["createdAt"]
	if !present || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case time.Time:
		return &v, nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, &FieldError{Path: []string{"createdAt"}, Code: CodeInvalidDate, Message: "Invalid date"}
		}
		return &ts, nil
	default:
		return nil, &FieldError{
			Path:    []string{"createdAt"},
			Code:    CodeInvalidType,
			Message: "Expected date, received " + typeName(raw),
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
