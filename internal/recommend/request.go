package recommend

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
)

// MaxDays is the longest trip a request may ask for
const MaxDays = 14

// Request is a recommendation query
type Request struct {
	TravelStyles  []catalog.Style       `json:"travelStyles" validate:"required,min=1,dive,travelstyle"`
	Days          int                   `json:"days" validate:"min=1,max=14"`
	StartLocation catalog.StartLocation `json:"startLocation" validate:"required,startlocation"`
	Budget        int                   `json:"budget" validate:"gt=0"`
	Limit         int                   `json:"limit,omitempty" validate:"gte=0"`
}

// StyleSet returns the requested styles as a set. Duplicates collapse.
func (r *Request) StyleSet() catalog.StyleSet {
	return catalog.NewStyleSet(r.TravelStyles...)
}

// Key returns a canonical string for the request, independent of the order
// and repetition of styles.
func (r *Request) Key() string {
	return fmt.Sprintf("%s|%d|%s|%d|%d", r.StyleSet(), r.Days, r.StartLocation, r.Budget, r.Limit)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// Registration only fails on empty tags or nil funcs
		_ = validate.RegisterValidation("travelstyle", func(fl validator.FieldLevel) bool {
			return catalog.Style(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("startlocation", func(fl validator.FieldLevel) bool {
			return catalog.StartLocation(fl.Field().String()).Valid()
		})
	})
	return validate
}

// Validate checks the request against the field contract. It returns a
// *ValidationError listing every rejected field.
func (r *Request) Validate() error {
	err := getValidator().Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Problems = append(ve.Problems, FieldProblem{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "travelstyle":
		return fmt.Sprintf("has unknown travel style %q (valid: %s)", fe.Value(), styleNames())
	case "startlocation":
		return fmt.Sprintf("has unknown start location %q (valid: %s)", fe.Value(), startNames())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func styleNames() string {
	return catalog.NewStyleSet(catalog.AllStyles...).String()
}

func startNames() string {
	names := make([]string, len(catalog.AllStartLocations))
	for i, l := range catalog.AllStartLocations {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}
