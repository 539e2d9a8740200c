package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

func TestNewAmortizationMethod_ValidMethods(t *testing.T) {
	tests := []struct {
		input     string
		expected  valueobject.AmortizationMethod
		supported bool
	}{
		{"FIXED_PRINCIPAL", valueobject.AmortizationMethodFixedPrincipal, true},
		{"FRENCH", valueobject.AmortizationMethodFrench, false},
		{"GERMAN", valueobject.AmortizationMethodGerman, false},
		{"AMERICAN", valueobject.AmortizationMethodAmerican, false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			method, err := valueobject.NewAmortizationMethod(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, method)
			assert.Equal(t, tc.input, method.String())
			assert.Equal(t, tc.supported, method.Supported())
		})
	}
}

func TestNewAmortizationMethod_Invalid(t *testing.T) {
	for _, input := range []string{"", "fixed_principal", "ANNUITY"} {
		t.Run(input, func(t *testing.T) {
			_, err := valueobject.NewAmortizationMethod(input)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid amortization method")
		})
	}
}
