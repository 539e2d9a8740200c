package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/prestasur/loan-service/internal/application/usecase"
	"github.com/prestasur/loan-service/internal/domain/event"
	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/port"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
	"github.com/prestasur/loan-service/pkg/auth"
)

// --- Mock implementations ---

type mockCustomerRepo struct {
	saveErr      error
	findByIDFunc func(ctx context.Context, id string) (model.Customer, error)
}

func (m *mockCustomerRepo) Save(_ context.Context, _ model.Customer) error {
	return m.saveErr
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id string) (model.Customer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Customer{}, fmt.Errorf("customer %s: %w", id, port.ErrNotFound)
}

func (m *mockCustomerRepo) FindByEmail(_ context.Context, _ string) (model.Customer, error) {
	return model.Customer{}, port.ErrNotFound
}

type mockLoanRepo struct {
	saveErr      error
	findByIDFunc func(ctx context.Context, id string) (model.Loan, error)
}

func (m *mockLoanRepo) Save(_ context.Context, _ model.Loan) error {
	return m.saveErr
}

func (m *mockLoanRepo) SaveWithPayment(_ context.Context, _ model.Loan, _ model.Payment) error {
	return m.saveErr
}

func (m *mockLoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, fmt.Errorf("loan %s: %w", id, port.ErrNotFound)
}

func (m *mockLoanRepo) FindByCustomerID(_ context.Context, _ string) ([]model.Loan, error) {
	return nil, nil
}

type mockPaymentRepo struct {
	saveErr      error
	findByIDFunc func(ctx context.Context, id string) (model.Payment, error)
}

func (m *mockPaymentRepo) Save(_ context.Context, _ model.Payment) error {
	return m.saveErr
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id string) (model.Payment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Payment{}, fmt.Errorf("payment %s: %w", id, port.ErrNotFound)
}

func (m *mockPaymentRepo) FindByLoanID(_ context.Context, _ string) ([]model.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) FindPending(_ context.Context) ([]model.Payment, error) {
	return nil, nil
}

type mockPublisher struct {
	publishErr error
}

func (m *mockPublisher) Publish(_ context.Context, _ ...event.DomainEvent) error {
	return m.publishErr
}

// --- Helpers ---

func adminContext() context.Context {
	claims := &auth.Claims{
		SubjectID: uuid.New(),
		Roles:     []string{auth.RoleAdmin},
	}
	return auth.ContextWithClaims(context.Background(), claims)
}

func customerContext(customerID uuid.UUID) context.Context {
	claims := &auth.Claims{
		SubjectID: customerID,
		Roles:     []string{auth.RoleCustomer},
	}
	return auth.ContextWithClaims(context.Background(), claims)
}

type testRepos struct {
	customers *mockCustomerRepo
	loans     *mockLoanRepo
	payments  *mockPaymentRepo
}

func buildTestHandler(repos testRepos) *LoanHandler {
	if repos.customers == nil {
		repos.customers = &mockCustomerRepo{}
	}
	if repos.loans == nil {
		repos.loans = &mockLoanRepo{}
	}
	if repos.payments == nil {
		repos.payments = &mockPaymentRepo{}
	}
	publisher := &mockPublisher{}
	locker := usecase.NewLoanLocker()

	return NewLoanHandler(Handlers{
		CreateCustomer:     usecase.NewCreateCustomerUseCase(repos.customers),
		GetCustomer:        usecase.NewGetCustomerUseCase(repos.customers),
		CreateLoan:         usecase.NewCreateLoanUseCase(repos.loans, repos.customers, publisher),
		RequestLoan:        usecase.NewRequestLoanUseCase(repos.loans, repos.customers, publisher),
		ApproveLoanRequest: usecase.NewApproveLoanRequestUseCase(repos.loans, repos.customers, publisher),
		GetLoan:            usecase.NewGetLoanUseCase(repos.loans),
		ListLoans:          usecase.NewListLoansUseCase(repos.loans),
		RecordPayment:      usecase.NewRecordPaymentUseCase(repos.loans, publisher, locker),
		SubmitPayment:      usecase.NewSubmitPaymentUseCase(repos.loans, repos.payments),
		ApprovePayment:     usecase.NewApprovePaymentUseCase(repos.loans, repos.payments, publisher, locker),
		RejectPayment:      usecase.NewRejectPaymentUseCase(repos.loans, repos.payments, publisher),
		ListPayments:       usecase.NewListPaymentsUseCase(repos.loans, repos.payments),
	}, slog.Default())
}

func makeActiveLoan(t *testing.T, customerID string) model.Loan {
	t.Helper()
	loan, err := model.NewActiveLoan(customerID, "LN-TEST01", model.LoanTerms{
		Principal:         decimal.NewFromInt(1200),
		AnnualRatePercent: decimal.NewFromInt(12),
		TermMonths:        12,
		Method:            valueobject.AmortizationMethodFixedPrincipal,
		DisbursementDate:  time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
		FirstPaymentDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, decimal.Zero, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return loan.ClearEvents()
}

func loanRepoWith(loan model.Loan) *mockLoanRepo {
	return &mockLoanRepo{
		findByIDFunc: func(_ context.Context, id string) (model.Loan, error) {
			if id == loan.ID() {
				return loan, nil
			}
			return model.Loan{}, fmt.Errorf("loan %s: %w", id, port.ErrNotFound)
		},
	}
}

// --- Tests ---

func TestCreateCustomer(t *testing.T) {
	t.Run("unauthenticated returns Unauthenticated", func(t *testing.T) {
		h := buildTestHandler(testRepos{})
		_, err := h.CreateCustomer(context.Background(), &CreateCustomerRequest{})
		requireGRPCCode(t, err, codes.Unauthenticated)
	})

	t.Run("customer role returns PermissionDenied", func(t *testing.T) {
		h := buildTestHandler(testRepos{})
		_, err := h.CreateCustomer(customerContext(uuid.New()), &CreateCustomerRequest{})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("invalid monthly_income returns InvalidArgument", func(t *testing.T) {
		h := buildTestHandler(testRepos{})
		_, err := h.CreateCustomer(adminContext(), &CreateCustomerRequest{
			FirstName:     "Ana",
			LastName:      "Reyes",
			Email:         "ana@example.com",
			MonthlyIncome: "not-a-number",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "monthly_income")
	})

	t.Run("happy path", func(t *testing.T) {
		h := buildTestHandler(testRepos{})
		resp, err := h.CreateCustomer(adminContext(), &CreateCustomerRequest{
			FirstName:     "Ana",
			LastName:      "Reyes",
			Email:         "ana@example.com",
			Phone:         "+1555000111",
			MonthlyIncome: "2500.00",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.CustomerID)
		assert.Equal(t, "ana@example.com", resp.Email)
		assert.Equal(t, "2500.00", resp.MonthlyIncome)
		assert.True(t, resp.Active)
	})
}

func TestGetCustomerOwnership(t *testing.T) {
	ownerID := uuid.New()
	customer, err := model.NewCustomer("Ana", "Reyes", "ana@example.com", "",
		decimal.NewFromInt(2500), time.Now().UTC())
	require.NoError(t, err)

	repo := &mockCustomerRepo{
		findByIDFunc: func(_ context.Context, _ string) (model.Customer, error) {
			return customer, nil
		},
	}

	t.Run("admin reads any customer", func(t *testing.T) {
		h := buildTestHandler(testRepos{customers: repo})
		resp, err := h.GetCustomer(adminContext(), &GetCustomerRequest{CustomerID: ownerID.String()})
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", resp.Email)
	})

	t.Run("customer reads own record", func(t *testing.T) {
		h := buildTestHandler(testRepos{customers: repo})
		_, err := h.GetCustomer(customerContext(ownerID), &GetCustomerRequest{CustomerID: ownerID.String()})
		require.NoError(t, err)
	})

	t.Run("customer reading another record returns PermissionDenied", func(t *testing.T) {
		h := buildTestHandler(testRepos{customers: repo})
		_, err := h.GetCustomer(customerContext(uuid.New()), &GetCustomerRequest{CustomerID: ownerID.String()})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("unknown customer returns NotFound", func(t *testing.T) {
		h := buildTestHandler(testRepos{})
		_, err := h.GetCustomer(adminContext(), &GetCustomerRequest{CustomerID: uuid.New().String()})
		requireGRPCCode(t, err, codes.NotFound)
	})
}

func TestGetLoanOwnership(t *testing.T) {
	ownerID := uuid.New()
	loan := makeActiveLoan(t, ownerID.String())
	repo := loanRepoWith(loan)

	t.Run("owner reads own loan with schedule", func(t *testing.T) {
		h := buildTestHandler(testRepos{loans: repo})
		resp, err := h.GetLoan(customerContext(ownerID), &GetLoanRequest{LoanID: loan.ID()})
		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.Len(t, resp.Schedule, 12)
		assert.Equal(t, "1278.00", resp.TotalAmount)
	})

	t.Run("stranger returns PermissionDenied", func(t *testing.T) {
		h := buildTestHandler(testRepos{loans: repo})
		_, err := h.GetLoan(customerContext(uuid.New()), &GetLoanRequest{LoanID: loan.ID()})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("unknown loan returns NotFound", func(t *testing.T) {
		h := buildTestHandler(testRepos{loans: repo})
		_, err := h.GetLoan(adminContext(), &GetLoanRequest{LoanID: uuid.New().String()})
		requireGRPCCode(t, err, codes.NotFound)
	})
}

func TestRecordPayment(t *testing.T) {
	ownerID := uuid.New()
	loan := makeActiveLoan(t, ownerID.String())

	t.Run("stranger paying another loan returns PermissionDenied", func(t *testing.T) {
		h := buildTestHandler(testRepos{loans: loanRepoWith(loan)})
		_, err := h.RecordPayment(customerContext(uuid.New()), &RecordPaymentRequest{
			LoanID:      loan.ID(),
			Amount:      "112.00",
			PaymentDate: "2024-03-15",
		})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("owner pays own loan", func(t *testing.T) {
		h := buildTestHandler(testRepos{loans: loanRepoWith(loan)})
		resp, err := h.RecordPayment(customerContext(ownerID), &RecordPaymentRequest{
			LoanID:      loan.ID(),
			Amount:      "112.00",
			PaymentDate: "2024-03-15",
			Method:      "TRANSFER",
		})
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
	})

	t.Run("invalid amount returns InvalidArgument", func(t *testing.T) {
		h := buildTestHandler(testRepos{})
		_, err := h.RecordPayment(adminContext(), &RecordPaymentRequest{
			LoanID:      loan.ID(),
			Amount:      "abc",
			PaymentDate: "2024-03-15",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("unknown loan returns NotFound", func(t *testing.T) {
		h := buildTestHandler(testRepos{})
		_, err := h.RecordPayment(adminContext(), &RecordPaymentRequest{
			LoanID:      uuid.New().String(),
			Amount:      "100.00",
			PaymentDate: "2024-03-15",
		})
		requireGRPCCode(t, err, codes.NotFound)
	})

	t.Run("targeted amount mismatch returns FailedPrecondition", func(t *testing.T) {
		h := buildTestHandler(testRepos{loans: loanRepoWith(loan)})
		_, err := h.RecordPayment(adminContext(), &RecordPaymentRequest{
			LoanID:        loan.ID(),
			InstallmentID: loan.Schedule()[0].ID,
			Amount:        "50.00",
			PaymentDate:   "2024-03-15",
			Method:        "TRANSFER",
		})
		requireGRPCCode(t, err, codes.FailedPrecondition)
	})

	t.Run("happy path free allocation", func(t *testing.T) {
		h := buildTestHandler(testRepos{loans: loanRepoWith(loan)})
		resp, err := h.RecordPayment(adminContext(), &RecordPaymentRequest{
			LoanID:      loan.ID(),
			Amount:      "112.00",
			PaymentDate: "2024-03-15T00:00:00Z",
			Method:      "TRANSFER",
			Reference:   "OP-1001",
		})
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, "112.00", resp.Amount)
		assert.Equal(t, "1166.00", resp.OutstandingBalance)
	})
}

func TestSubmitAndReviewPayment(t *testing.T) {
	ownerID := uuid.New()
	loan := makeActiveLoan(t, ownerID.String())

	t.Run("customer submits pending payment", func(t *testing.T) {
		h := buildTestHandler(testRepos{loans: loanRepoWith(loan)})
		resp, err := h.SubmitPayment(customerContext(ownerID), &SubmitPaymentRequest{
			LoanID:      loan.ID(),
			Amount:      "112.00",
			PaymentDate: "2024-03-15",
			Method:      "TRANSFER",
		})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
	})

	t.Run("customer cannot approve", func(t *testing.T) {
		h := buildTestHandler(testRepos{})
		_, err := h.ApprovePayment(customerContext(ownerID), &ApprovePaymentRequest{PaymentID: uuid.New().String()})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("approve allocates against the loan", func(t *testing.T) {
		pending, err := model.NewPayment(loan.ID(), "", decimal.NewFromInt(112),
			time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			"TRANSFER", "OP-1002", "", ownerID.String(), time.Now().UTC())
		require.NoError(t, err)

		paymentRepo := &mockPaymentRepo{
			findByIDFunc: func(_ context.Context, _ string) (model.Payment, error) {
				return pending, nil
			},
		}
		h := buildTestHandler(testRepos{loans: loanRepoWith(loan), payments: paymentRepo})

		resp, err := h.ApprovePayment(adminContext(), &ApprovePaymentRequest{PaymentID: pending.ID()})
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, "1166.00", resp.OutstandingBalance)
	})

	t.Run("unknown payment returns NotFound", func(t *testing.T) {
		h := buildTestHandler(testRepos{})
		_, err := h.ApprovePayment(adminContext(), &ApprovePaymentRequest{PaymentID: uuid.New().String()})
		requireGRPCCode(t, err, codes.NotFound)
	})
}

func TestListPendingPayments(t *testing.T) {
	t.Run("admin only", func(t *testing.T) {
		h := buildTestHandler(testRepos{})
		_, err := h.ListPendingPayments(customerContext(uuid.New()), &ListPendingPaymentsRequest{})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("empty list", func(t *testing.T) {
		h := buildTestHandler(testRepos{})
		resp, err := h.ListPendingPayments(adminContext(), &ListPendingPaymentsRequest{})
		require.NoError(t, err)
		assert.Empty(t, resp.Payments)
	})
}

// requireGRPCCode asserts that an error is a gRPC status error with the given code.
func requireGRPCCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %T: %v", err, err)
	assert.Equal(t, code, st.Code(), "expected gRPC code %s, got %s: %s", code, st.Code(), st.Message())
}
