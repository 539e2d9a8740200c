package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

// Customer is the borrower a loan belongs to. Monthly income feeds the
// debt-to-income calculation when a loan is activated.
type Customer struct {
	id            string
	firstName     string
	lastName      string
	email         string
	phone         string
	monthlyIncome decimal.Decimal
	active        bool
	createdAt     time.Time
	updatedAt     time.Time
}

func NewCustomer(firstName, lastName, email, phone string, monthlyIncome decimal.Decimal, now time.Time) (Customer, error) {
	if firstName == "" || lastName == "" {
		return Customer{}, fmt.Errorf("%w: customer name is required", valueobject.ErrInvalidLoanTerms)
	}
	if email == "" {
		return Customer{}, fmt.Errorf("%w: customer email is required", valueobject.ErrInvalidLoanTerms)
	}
	if monthlyIncome.IsNegative() {
		return Customer{}, fmt.Errorf("%w: monthly income must not be negative", valueobject.ErrInvalidLoanTerms)
	}
	return Customer{
		id:            uuid.New().String(),
		firstName:     firstName,
		lastName:      lastName,
		email:         email,
		phone:         phone,
		monthlyIncome: monthlyIncome,
		active:        true,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructCustomer rebuilds a Customer from persistence.
func ReconstructCustomer(
	id, firstName, lastName, email, phone string,
	monthlyIncome decimal.Decimal,
	active bool,
	createdAt, updatedAt time.Time,
) Customer {
	return Customer{
		id:            id,
		firstName:     firstName,
		lastName:      lastName,
		email:         email,
		phone:         phone,
		monthlyIncome: monthlyIncome,
		active:        active,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Deactivate soft-deletes the customer. Existing loans are unaffected.
func (c Customer) Deactivate(now time.Time) Customer {
	next := c
	next.active = false
	next.updatedAt = now
	return next
}

func (c Customer) ID() string                     { return c.id }
func (c Customer) FirstName() string              { return c.firstName }
func (c Customer) LastName() string               { return c.lastName }
func (c Customer) FullName() string               { return c.firstName + " " + c.lastName }
func (c Customer) Email() string                  { return c.email }
func (c Customer) Phone() string                  { return c.phone }
func (c Customer) MonthlyIncome() decimal.Decimal { return c.monthlyIncome }
func (c Customer) Active() bool                   { return c.active }
func (c Customer) CreatedAt() time.Time           { return c.createdAt }
func (c Customer) UpdatedAt() time.Time           { return c.updatedAt }
