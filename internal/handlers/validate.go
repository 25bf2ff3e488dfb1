package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// submitRequest is the body of POST /api/products.
type submitRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Tagline     string   `json:"tagline" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	WebsiteURL  string   `json:"website_url" validate:"required,url,max=2048"`
	Tags        []string `json:"tags" validate:"max=10,dive,required,max=40"`
	TechStack   []string `json:"techstack" validate:"max=20,dive,required,max=40"`
}

// normalize trims every field and drops blank or repeated list entries,
// keeping the first spelling of each.
func (s *submitRequest) normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Tagline = strings.TrimSpace(s.Tagline)
	s.Description = strings.TrimSpace(s.Description)
	s.WebsiteURL = strings.TrimSpace(s.WebsiteURL)
	s.Tags = cleanList(s.Tags)
	s.TechStack = cleanList(s.TechStack)
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// requestValidator wraps go-playground/validator, reporting JSON field names.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &requestValidator{v: v}
}

// fieldErrors validates s and returns a message per failing field, or nil.
func (rv *requestValidator) fieldErrors(s any) (map[string]string, error) {
	err := rv.v.Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = friendlyMessage(e)
	}
	return fields, nil
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must not have more than %s entries", e.Param())
		}
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	}
	return "is invalid"
}
