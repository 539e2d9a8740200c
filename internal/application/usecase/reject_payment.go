package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/event"
	"github.com/prestasur/loan-service/internal/domain/port"
)

// RejectPaymentUseCase rejects a pending payment. Nothing on the loan or
// its installments changes.
type RejectPaymentUseCase struct {
	loanRepo    port.LoanRepository
	paymentRepo port.PaymentRepository
	publisher   port.EventPublisher
}

// NewRejectPaymentUseCase wires dependencies.
func NewRejectPaymentUseCase(
	loanRepo port.LoanRepository,
	paymentRepo port.PaymentRepository,
	publisher port.EventPublisher,
) *RejectPaymentUseCase {
	return &RejectPaymentUseCase{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		publisher:   publisher,
	}
}

// Execute flips the payment to REJECTED.
func (uc *RejectPaymentUseCase) Execute(
	ctx context.Context,
	req dto.RejectPaymentRequest,
) (dto.PaymentResponse, error) {
	now := time.Now().UTC()

	payment, err := uc.paymentRepo.FindByID(ctx, req.PaymentID)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("find payment: %w", err)
	}

	rejected, err := payment.Reject(now)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("reject payment: %w", err)
	}

	if err := uc.paymentRepo.Save(ctx, rejected); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("save payment: %w", err)
	}

	loan, err := uc.loanRepo.FindByID(ctx, rejected.LoanID())
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("find loan: %w", err)
	}

	evt := event.NewPaymentRejected(rejected.LoanID(), rejected.ID())
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return paymentResponse(rejected, loan), nil
}
