package suppliers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasapos/kasapos/internal/shared"
)

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"+62 21 555-0101", "(021) 5550101", "0812-3456-7890"}
	for _, phone := range valid {
		err := validate(SupplierForm{Name: "Supplier", PhoneNumber: phone})
		require.NoError(t, err, "phone %q", phone)
	}

	invalid := []string{"", "call me", "0812x345"}
	for _, phone := range invalid {
		err := validate(SupplierForm{Name: "Supplier", PhoneNumber: phone})
		require.ErrorIs(t, err, shared.ErrValidation, "phone %q", phone)
	}
}

func TestValidateRequiresName(t *testing.T) {
	err := validate(SupplierForm{Name: "  ", PhoneNumber: "0812345"})
	require.ErrorIs(t, err, shared.ErrValidation)
}
