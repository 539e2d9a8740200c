package port

import (
	"context"
	"errors"

	"github.com/prestasur/loan-service/internal/domain/event"
	"github.com/prestasur/loan-service/internal/domain/model"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned when an optimistic-lock save loses the race
// against a concurrent writer.
var ErrVersionConflict = errors.New("version conflict")

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// CustomerRepository persists and retrieves customers.
type CustomerRepository interface {
	Save(ctx context.Context, c model.Customer) error
	FindByID(ctx context.Context, id string) (model.Customer, error)
	FindByEmail(ctx context.Context, email string) (model.Customer, error)
}

// LoanRepository persists and retrieves loans together with their ordered
// installment schedules. Save enforces the aggregate's optimistic version
// check and returns ErrVersionConflict on a lost race.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	// SaveWithPayment persists the mutated loan (aggregate fields plus
	// touched installments) and the payment record in one transaction.
	SaveWithPayment(ctx context.Context, loan model.Loan, payment model.Payment) error
	FindByID(ctx context.Context, id string) (model.Loan, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]model.Loan, error)
}

// PaymentRepository persists and retrieves payment records.
type PaymentRepository interface {
	Save(ctx context.Context, p model.Payment) error
	FindByID(ctx context.Context, id string) (model.Payment, error)
	FindByLoanID(ctx context.Context, loanID string) ([]model.Payment, error)
	FindPending(ctx context.Context) ([]model.Payment, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
