package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/port"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

// CreateLoanUseCase creates an admin-originated loan: the loan is considered
// disbursed, its schedule generated and its status ACTIVE immediately.
type CreateLoanUseCase struct {
	loanRepo     port.LoanRepository
	customerRepo port.CustomerRepository
	publisher    port.EventPublisher
}

// NewCreateLoanUseCase wires dependencies.
func NewCreateLoanUseCase(
	loanRepo port.LoanRepository,
	customerRepo port.CustomerRepository,
	publisher port.EventPublisher,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		loanRepo:     loanRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
	}
}

// Execute creates, activates and persists the loan.
func (uc *CreateLoanUseCase) Execute(
	ctx context.Context,
	req dto.CreateLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. The customer must exist; their income feeds the DTI ratio.
	customer, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find customer: %w", err)
	}

	method, err := parseMethod(req.Method)
	if err != nil {
		return dto.LoanResponse{}, err
	}

	// 2. Create the aggregate with its generated schedule.
	loan, err := model.NewActiveLoan(customer.ID(), newLoanNumber(), model.LoanTerms{
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		TermMonths:        req.TermMonths,
		Method:            method,
		LateInterestRate:  req.LateInterestRate,
		LateFeeAmount:     req.LateFeeAmount,
		DisbursementDate:  req.DisbursementDate,
		FirstPaymentDate:  req.FirstPaymentDate,
		Notes:             req.Notes,
	}, customer.MonthlyIncome(), now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("new loan: %w", err)
	}

	// 3. Persist loan and schedule.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Publish events.
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return loanResponse(loan, true), nil
}

func parseMethod(s string) (valueobject.AmortizationMethod, error) {
	if s == "" {
		return valueobject.AmortizationMethodFixedPrincipal, nil
	}
	method, err := valueobject.NewAmortizationMethod(s)
	if err != nil {
		return valueobject.AmortizationMethod{}, fmt.Errorf("%w: %s", valueobject.ErrInvalidLoanTerms, s)
	}
	return method, nil
}

func newLoanNumber() string {
	return "LN-" + strings.ToUpper(uuid.New().String()[:8])
}
