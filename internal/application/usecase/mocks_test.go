package usecase_test

import (
	"context"
	"fmt"

	"github.com/prestasur/loan-service/internal/domain/event"
	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/port"
)

type mockCustomerRepository struct {
	saveFunc       func(ctx context.Context, c model.Customer) error
	findByIDFunc   func(ctx context.Context, id string) (model.Customer, error)
	savedCustomers []model.Customer
}

func (m *mockCustomerRepository) Save(ctx context.Context, c model.Customer) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, c)
	}
	m.savedCustomers = append(m.savedCustomers, c)
	return nil
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id string) (model.Customer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Customer{}, fmt.Errorf("customer not found: %w", port.ErrNotFound)
}

func (m *mockCustomerRepository) FindByEmail(_ context.Context, _ string) (model.Customer, error) {
	return model.Customer{}, port.ErrNotFound
}

type mockLoanRepository struct {
	saveFunc            func(ctx context.Context, loan model.Loan) error
	saveWithPaymentFunc func(ctx context.Context, loan model.Loan, payment model.Payment) error
	findByIDFunc        func(ctx context.Context, id string) (model.Loan, error)
	savedLoans          []model.Loan
	savedPayments       []model.Payment
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	m.savedLoans = append(m.savedLoans, loan)
	return nil
}

func (m *mockLoanRepository) SaveWithPayment(ctx context.Context, loan model.Loan, payment model.Payment) error {
	if m.saveWithPaymentFunc != nil {
		return m.saveWithPaymentFunc(ctx, loan, payment)
	}
	m.savedLoans = append(m.savedLoans, loan)
	m.savedPayments = append(m.savedPayments, payment)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, fmt.Errorf("loan not found: %w", port.ErrNotFound)
}

func (m *mockLoanRepository) FindByCustomerID(_ context.Context, _ string) ([]model.Loan, error) {
	return nil, nil
}

type mockPaymentRepository struct {
	saveFunc      func(ctx context.Context, p model.Payment) error
	findByIDFunc  func(ctx context.Context, id string) (model.Payment, error)
	savedPayments []model.Payment
}

func (m *mockPaymentRepository) Save(ctx context.Context, p model.Payment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, p)
	}
	m.savedPayments = append(m.savedPayments, p)
	return nil
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id string) (model.Payment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Payment{}, fmt.Errorf("payment not found: %w", port.ErrNotFound)
}

func (m *mockPaymentRepository) FindByLoanID(_ context.Context, _ string) ([]model.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepository) FindPending(_ context.Context) ([]model.Payment, error) {
	return nil, nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}
