// Package forms decodes, sanitizes and validates the public form payloads.
package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	KindContact    = "contact"
	KindNewsletter = "newsletter"
)

// Contact is a demo, partnership or general enquiry.
type Contact struct {
	Name      string   `json:"name" binding:"required,min=2,max=100"`
	Email     string   `json:"email" binding:"required,email,max=255"`
	Company   string   `json:"company,omitempty" binding:"max=200"`
	Message   string   `json:"message" binding:"required,min=10,max=2000"`
	Type      string   `json:"type" binding:"required,oneof=demo partnership general"`
	Interests []string `json:"interests,omitempty"`
	FormType  string   `json:"formType" binding:"required,eq=contact"`
}

// Newsletter is a subscription request. FormType is only required when the
// payload arrives through the combined contact endpoint.
type Newsletter struct {
	Email     string   `json:"email" binding:"required,email,max=255"`
	Source    string   `json:"source,omitempty" binding:"max=100"`
	Interests []string `json:"interests,omitempty"`
	FormType  string   `json:"formType,omitempty" binding:"omitempty,eq=newsletter"`
}

// AnalyticsEvent is one tracking ping from the site.
type AnalyticsEvent struct {
	Event      string         `json:"event" binding:"required,oneof=form_submission product_view demo_request section_view web_vitals"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	UserID     string         `json:"user_id,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
}

// Submission is a payload of the combined contact endpoint; exactly one of
// Contact and Newsletter is set.
type Submission struct {
	Kind       string
	Contact    *Contact
	Newsletter *Newsletter
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of a payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "invalid payload: " + strings.Join(parts, "; ")
}

// ErrMalformed reports a body that is not a JSON object.
var ErrMalformed = errors.New("malformed JSON body")

var registerOnce sync.Once

// useJSONNames makes validation errors name fields by their JSON key.
func useJSONNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

func validate(v any) error {
	useJSONNames()
	err := binding.Validator.ValidateStruct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range ves {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "eq":
		return fmt.Sprintf("must be %q", fe.Param())
	case "datetime":
		return "must be an RFC 3339 timestamp"
	}
	return "is invalid"
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// ParseSubmission decodes a contact or newsletter payload, picking the schema
// from formType.
func ParseSubmission(body []byte) (Submission, error) {
	var probe struct {
		FormType string `json:"formType"`
	}
	if err := decode(body, &probe); err != nil {
		return Submission{}, err
	}
	switch probe.FormType {
	case KindContact:
		var c Contact
		if err := decode(body, &c); err != nil {
			return Submission{}, err
		}
		c.sanitize()
		if err := validate(&c); err != nil {
			return Submission{}, err
		}
		return Submission{Kind: KindContact, Contact: &c}, nil
	case KindNewsletter:
		n, err := ParseNewsletter(body)
		if err != nil {
			return Submission{}, err
		}
		return Submission{Kind: KindNewsletter, Newsletter: n}, nil
	}
	return Submission{}, &ValidationError{Fields: []FieldError{{Field: "formType", Message: `must be "contact" or "newsletter"`}}}
}

// ParseNewsletter decodes a subscription payload.
func ParseNewsletter(body []byte) (*Newsletter, error) {
	var n Newsletter
	if err := decode(body, &n); err != nil {
		return nil, err
	}
	n.sanitize()
	if err := validate(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ParseAnalytics decodes an analytics event.
func ParseAnalytics(body []byte) (*AnalyticsEvent, error) {
	var e AnalyticsEvent
	if err := decode(body, &e); err != nil {
		return nil, err
	}
	e.UserID = Sanitize(e.UserID)
	e.SessionID = Sanitize(e.SessionID)
	if err := validate(&e); err != nil {
		return nil, err
	}
	return &e, nil
}
