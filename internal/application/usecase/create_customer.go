package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/port"
)

// CreateCustomerUseCase registers a new borrower.
type CreateCustomerUseCase struct {
	customerRepo port.CustomerRepository
}

// NewCreateCustomerUseCase wires dependencies.
func NewCreateCustomerUseCase(customerRepo port.CustomerRepository) *CreateCustomerUseCase {
	return &CreateCustomerUseCase{customerRepo: customerRepo}
}

// Execute creates and persists the customer.
func (uc *CreateCustomerUseCase) Execute(
	ctx context.Context,
	req dto.CreateCustomerRequest,
) (dto.CustomerResponse, error) {
	now := time.Now().UTC()

	customer, err := model.NewCustomer(req.FirstName, req.LastName, req.Email, req.Phone, req.MonthlyIncome, now)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("new customer: %w", err)
	}

	if err := uc.customerRepo.Save(ctx, customer); err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("save customer: %w", err)
	}

	return customerResponse(customer), nil
}
