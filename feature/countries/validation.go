package countries

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"country-api/feature/countries/store"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRequest is returned when query or path parameters are rejected.
var ErrInvalidRequest = errors.New("validation failed")

// maxNameLength matches the width of the name column.
const maxNameLength = 100

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report parameters by their query name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ListQuery holds the query parameters of GET /countries.
type ListQuery struct {
	Region   string `query:"region" validate:"omitempty,max=50"`
	Currency string `query:"currency" validate:"omitempty,alpha,len=3"`
	Sort     string `query:"sort" validate:"omitempty,oneof=gdp_desc"`
}

// Validate checks q, returning an error matching ErrInvalidRequest.
func (q ListQuery) Validate() error {
	if err := validate.Struct(q); err != nil {
		return invalid(err)
	}
	return nil
}

// Filter converts q to a store filter.
func (q ListQuery) Filter() store.Filter {
	return store.Filter{
		Region:       strings.TrimSpace(q.Region),
		CurrencyCode: strings.TrimSpace(q.Currency),
	}
}

// ValidateName checks a country name path parameter.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if strings.TrimSpace(name) == "" || n > maxNameLength {
		return fmt.Errorf("%w: name must be between 1 and %d characters", ErrInvalidRequest, maxNameLength)
	}
	return nil
}

func invalid(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "alpha":
		return fmt.Sprintf("%s must contain letters only", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
