package usecase

import (
	"context"
	"fmt"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/port"
)

// GetCustomerUseCase retrieves a customer by ID.
type GetCustomerUseCase struct {
	customerRepo port.CustomerRepository
}

// NewGetCustomerUseCase wires dependencies.
func NewGetCustomerUseCase(customerRepo port.CustomerRepository) *GetCustomerUseCase {
	return &GetCustomerUseCase{customerRepo: customerRepo}
}

// Execute looks up the customer.
func (uc *GetCustomerUseCase) Execute(
	ctx context.Context,
	req dto.GetCustomerRequest,
) (dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("find customer: %w", err)
	}
	return customerResponse(customer), nil
}
