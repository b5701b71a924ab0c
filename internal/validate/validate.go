// Package validate runs declarative field checks on request structs and
// reports failures in the shape the web console expects:
//
//	{"errors":[{"msg":"Name is required","param":"name","location":"body"}]}
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed check.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

// Error is returned when one or more field checks fail.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Param+": "+f.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messenger lets a request struct override messages. Keys are either
// "field" or "field.tag", the latter taking precedence.
type Messenger interface {
	ValidationMessages() map[string]string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts RFC 3339 and the zone-less forms the console sends.
// Zone-less values are read as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = val.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		_, err := ParseTimestamp(fl.Field().String())
		return err == nil
	})

	// an empty string means "clear" on partial updates
	_ = val.RegisterValidation("timestamp_or_empty", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if raw == "" {
			return true
		}
		_, err := ParseTimestamp(raw)
		return err == nil
	})

	return val
}

// Struct validates s. It returns nil, a *Error, or an error describing a
// programming mistake (for example passing a non-struct).
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := map[string]string{}
	if m, ok := s.(Messenger); ok {
		msgs = m.ValidationMessages()
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := msgs[field+"."+fe.Tag()]
		if !ok {
			msg, ok = msgs[field]
		}
		if !ok {
			msg = defaultMessage(fe)
		}
		out.Fields = append(out.Fields, FieldError{Msg: msg, Param: field, Location: "body"})
	}
	return out
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "timestamp", "timestamp_or_empty":
		return fmt.Sprintf("%s must be a valid date and time", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
