package valueobject

import "fmt"

// AmortizationMethod identifies how a loan's schedule is calculated. Only the
// fixed-principal method has calculation semantics today; the other values are
// accepted as configuration so existing records round-trip, but schedule
// generation for them is future work.
type AmortizationMethod struct {
	value string
}

const (
	methodFixedPrincipal = "FIXED_PRINCIPAL"
	methodFrench         = "FRENCH"
	methodGerman         = "GERMAN"
	methodAmerican       = "AMERICAN"
)

var (
	AmortizationMethodFixedPrincipal = AmortizationMethod{value: methodFixedPrincipal}
	AmortizationMethodFrench         = AmortizationMethod{value: methodFrench}
	AmortizationMethodGerman         = AmortizationMethod{value: methodGerman}
	AmortizationMethodAmerican       = AmortizationMethod{value: methodAmerican}
)

var validAmortizationMethods = map[string]AmortizationMethod{
	methodFixedPrincipal: AmortizationMethodFixedPrincipal,
	methodFrench:         AmortizationMethodFrench,
	methodGerman:         AmortizationMethodGerman,
	methodAmerican:       AmortizationMethodAmerican,
}

// NewAmortizationMethod creates an AmortizationMethod from a raw string.
func NewAmortizationMethod(s string) (AmortizationMethod, error) {
	v, ok := validAmortizationMethods[s]
	if !ok {
		return AmortizationMethod{}, fmt.Errorf("invalid amortization method: %q", s)
	}
	return v, nil
}

// String returns the string representation of the method.
func (m AmortizationMethod) String() string { return m.value }

// IsZero returns true if the method has not been initialised.
func (m AmortizationMethod) IsZero() bool { return m.value == "" }

// Equal returns true when both methods carry the same value.
func (m AmortizationMethod) Equal(other AmortizationMethod) bool { return m.value == other.value }

// Supported reports whether schedule generation is implemented for the method.
func (m AmortizationMethod) Supported() bool { return m.value == methodFixedPrincipal }
