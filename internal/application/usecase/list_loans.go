package usecase

import (
	"context"
	"fmt"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/port"
)

// ListLoansUseCase lists a customer's loans, schedules omitted.
type ListLoansUseCase struct {
	loanRepo port.LoanRepository
}

// NewListLoansUseCase wires dependencies.
func NewListLoansUseCase(loanRepo port.LoanRepository) *ListLoansUseCase {
	return &ListLoansUseCase{loanRepo: loanRepo}
}

// Execute lists the customer's loans.
func (uc *ListLoansUseCase) Execute(
	ctx context.Context,
	req dto.ListLoansRequest,
) ([]dto.LoanResponse, error) {
	loans, err := uc.loanRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("find loans: %w", err)
	}

	out := make([]dto.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		out = append(out, loanResponse(loan, false))
	}
	return out, nil
}
