package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/port"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

// RequestLoanUseCase handles a customer-submitted loan request. The loan is
// created in PENDING status with no schedule; an administrator approves it
// later via ApproveLoanRequestUseCase.
type RequestLoanUseCase struct {
	loanRepo     port.LoanRepository
	customerRepo port.CustomerRepository
	publisher    port.EventPublisher
}

// NewRequestLoanUseCase wires dependencies.
func NewRequestLoanUseCase(
	loanRepo port.LoanRepository,
	customerRepo port.CustomerRepository,
	publisher port.EventPublisher,
) *RequestLoanUseCase {
	return &RequestLoanUseCase{
		loanRepo:     loanRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
	}
}

// Execute creates and persists the pending loan request.
func (uc *RequestLoanUseCase) Execute(
	ctx context.Context,
	req dto.RequestLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	customer, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find customer: %w", err)
	}

	loan, err := model.NewLoanRequest(customer.ID(), newLoanNumber(), model.LoanTerms{
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		TermMonths:        req.TermMonths,
		Method:            valueobject.AmortizationMethodFixedPrincipal,
		DisbursementDate:  now,
		FirstPaymentDate:  req.FirstPaymentDate,
		Notes:             req.Notes,
	}, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("new loan request: %w", err)
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return loanResponse(loan, false), nil
}
