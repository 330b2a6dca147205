package checkout

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/chrisdamba/freshmix/internal/models"
)

// Message keys reported per form field.
const (
	ErrKeyRequired      = "required"
	ErrKeyInvalidPhone  = "invalidPhone"
	ErrKeySelectCity    = "selectCity"
	ErrKeyInvalidOption = "invalidOption"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\s-]{10,}$`)

// ValidationError maps form fields to message keys.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field, key := range e.Fields {
		fields = append(fields, fmt.Sprintf("%s: %s", field, key))
	}
	sort.Strings(fields)
	return "invalid order details (" + strings.Join(fields, ", ") + ")"
}

// Validate checks the customer form and fills in the default payment method.
func Validate(details *models.CustomerDetails) error {
	fields := map[string]string{}

	if strings.TrimSpace(details.Name) == "" {
		fields["name"] = ErrKeyRequired
	}

	if strings.TrimSpace(details.Phone) == "" {
		fields["phone"] = ErrKeyRequired
	} else if !phonePattern.MatchString(details.Phone) {
		fields["phone"] = ErrKeyInvalidPhone
	}

	if details.City == "" {
		fields["city"] = ErrKeySelectCity
	} else if _, err := models.ParseCity(string(details.City)); err != nil {
		fields["city"] = ErrKeySelectCity
	}

	if strings.TrimSpace(details.Address) == "" {
		fields["address"] = ErrKeyRequired
	}

	switch details.PaymentMethod {
	case "":
		details.PaymentMethod = models.PaymentCashOnDelivery
	case models.PaymentCashOnDelivery, models.PaymentCard:
	default:
		fields["paymentMethod"] = ErrKeyInvalidOption
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
