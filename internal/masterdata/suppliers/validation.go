package suppliers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kasapos/kasapos/internal/shared"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-() ]+$`)

func validate(form SupplierForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: supplier name is required", shared.ErrValidation)
	}
	if !phonePattern.MatchString(form.PhoneNumber) {
		return fmt.Errorf("%w: invalid phone number", shared.ErrValidation)
	}
	return nil
}
