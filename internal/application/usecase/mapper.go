package usecase

import (
	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/model"
)

func customerResponse(c model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:            c.ID(),
		FirstName:     c.FirstName(),
		LastName:      c.LastName(),
		Email:         c.Email(),
		Phone:         c.Phone(),
		MonthlyIncome: c.MonthlyIncome(),
		Active:        c.Active(),
		CreatedAt:     c.CreatedAt(),
		UpdatedAt:     c.UpdatedAt(),
	}
}

func loanResponse(l model.Loan, includeSchedule bool) dto.LoanResponse {
	terms := l.Terms()
	resp := dto.LoanResponse{
		ID:                 l.ID(),
		CustomerID:         l.CustomerID(),
		LoanNumber:         l.LoanNumber(),
		Principal:          terms.Principal,
		AnnualRatePercent:  terms.AnnualRatePercent,
		TermMonths:         terms.TermMonths,
		Method:             terms.Method.String(),
		DisbursementDate:   terms.DisbursementDate,
		FirstPaymentDate:   terms.FirstPaymentDate,
		MaturityDate:       l.MaturityDate(),
		Status:             l.Status().String(),
		TotalAmount:        l.TotalAmount(),
		TotalInterest:      l.TotalInterest(),
		PaidAmount:         l.PaidAmount(),
		OutstandingBalance: l.OutstandingBalance(),
		DTIRatio:           l.DTIRatio(),
		CreatedAt:          l.CreatedAt(),
		UpdatedAt:          l.UpdatedAt(),
	}
	if includeSchedule {
		for _, inst := range l.Schedule() {
			resp.Schedule = append(resp.Schedule, dto.InstallmentResponse{
				ID:               inst.ID,
				Number:           inst.Number,
				DueDate:          inst.DueDate,
				PrincipalAmount:  inst.PrincipalAmount,
				InterestAmount:   inst.InterestAmount,
				TotalAmount:      inst.TotalAmount,
				RemainingBalance: inst.RemainingBalance,
				PaidAmount:       inst.PaidAmount,
				PaidPrincipal:    inst.PaidPrincipal,
				PaidInterest:     inst.PaidInterest,
				Status:           inst.Status.String(),
				PaidDate:         inst.PaidDate,
			})
		}
	}
	return resp
}

func paymentResponse(p model.Payment, loan model.Loan) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:                 p.ID(),
		LoanID:             p.LoanID(),
		InstallmentID:      p.InstallmentID(),
		Amount:             p.Amount(),
		PaymentDate:        p.PaymentDate(),
		PrincipalPaid:      p.PrincipalPaid(),
		InterestPaid:       p.InterestPaid(),
		Status:             p.Status().String(),
		Method:             p.Method(),
		Reference:          p.Reference(),
		OutstandingBalance: loan.OutstandingBalance(),
		CreatedAt:          p.CreatedAt(),
	}
}
