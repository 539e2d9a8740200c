package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/port"
)

// RecordPaymentUseCase records an immediately-approved payment: the payment
// is created and allocated against the loan in a single step. Allocation
// runs through the same processor as the deferred-approval flow.
type RecordPaymentUseCase struct {
	processor paymentProcessor
}

// NewRecordPaymentUseCase wires dependencies.
func NewRecordPaymentUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	locker *LoanLocker,
) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{
		processor: paymentProcessor{loanRepo: loanRepo, publisher: publisher, locker: locker},
	}
}

// Execute creates the payment and applies it to the loan.
func (uc *RecordPaymentUseCase) Execute(
	ctx context.Context,
	req dto.RecordPaymentRequest,
) (dto.PaymentResponse, error) {
	now := time.Now().UTC()

	payment, err := model.NewPayment(
		req.LoanID, req.InstallmentID, req.Amount, req.PaymentDate,
		req.Method, req.Reference, req.Notes, req.CreatedBy, now,
	)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("new payment: %w", err)
	}

	loan, approved, err := uc.processor.approve(ctx, payment, now)
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	return paymentResponse(approved, loan), nil
}
