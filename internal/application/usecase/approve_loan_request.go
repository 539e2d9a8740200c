package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/port"
)

// ApproveLoanRequestUseCase activates a pending loan request, generating its
// amortization schedule.
type ApproveLoanRequestUseCase struct {
	loanRepo     port.LoanRepository
	customerRepo port.CustomerRepository
	publisher    port.EventPublisher
}

// NewApproveLoanRequestUseCase wires dependencies.
func NewApproveLoanRequestUseCase(
	loanRepo port.LoanRepository,
	customerRepo port.CustomerRepository,
	publisher port.EventPublisher,
) *ApproveLoanRequestUseCase {
	return &ApproveLoanRequestUseCase{
		loanRepo:     loanRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
	}
}

// Execute transitions the loan from PENDING to ACTIVE.
func (uc *ApproveLoanRequestUseCase) Execute(
	ctx context.Context,
	req dto.ApproveLoanRequestRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	customer, err := uc.customerRepo.FindByID(ctx, loan.CustomerID())
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find customer: %w", err)
	}

	loan, err = loan.Activate(customer.MonthlyIncome(), now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("activate loan: %w", err)
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return loanResponse(loan, true), nil
}
