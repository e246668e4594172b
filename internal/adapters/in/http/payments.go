package http

import (
	"fmt"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

const driverAccountPath = "/api/v1/payments/driver/account"

// SettleJob handles POST /api/v1/jobs/{jobId}/settle: deduct when needed, then transfer.
func (s *Server) SettleJob(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewSettleJobCommand(jobID, caller.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.commands.SettleJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	message := "Job settled"
	if result.Transfer == nil {
		message = "Payment pending, transfer will follow confirmation"
	}
	return respond(ctx, http.StatusOK, message, viewSettlement(result))
}

// DeductPayment handles POST /api/v1/payments/jobs/{jobId}/deduct.
func (s *Server) DeductPayment(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.DeductRequest
	if ctx.Request().ContentLength != 0 {
		if err = bindBody(ctx, &body); err != nil {
			return s.fail(ctx, err)
		}
	}
	var amount *kernel.Money
	if body.AmountCents != nil {
		m, moneyErr := kernel.NewMoney(*body.AmountCents)
		if moneyErr != nil {
			return s.fail(ctx, moneyErr)
		}
		amount = &m
	}

	cmd, err := commands.NewDeductFromCustomerCommand(jobID, caller.ID, amount)
	if err != nil {
		return s.fail(ctx, err)
	}
	outcome, err := s.commands.DeductFromCustomer.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	message := "Payment deducted"
	if outcome.IsPending() {
		message = "Payment pending confirmation"
	}
	return respond(ctx, http.StatusOK, message, viewDeduction(outcome))
}

// TransferPayment handles POST /api/v1/payments/jobs/{jobId}/transfer.
func (s *Server) TransferPayment(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.TransferRequest
	if ctx.Request().ContentLength != 0 {
		if err = bindBody(ctx, &body); err != nil {
			return s.fail(ctx, err)
		}
	}
	var amount *kernel.Money
	if body.AmountCents != nil {
		m, moneyErr := kernel.NewMoney(*body.AmountCents)
		if moneyErr != nil {
			return s.fail(ctx, moneyErr)
		}
		amount = &m
	}

	cmd, err := commands.NewTransferToDriverCommand(jobID, caller.ID, amount)
	if err != nil {
		return s.fail(ctx, err)
	}
	outcome, err := s.commands.TransferToDriver.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Payment transferred", viewTransfer(outcome))
}

// GiveTip handles POST /api/v1/payments/jobs/{jobId}/tip.
func (s *Server) GiveTip(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.TipRequest
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}
	amount, err := kernel.NewMoney(body.AmountCents)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewGiveTipCommand(kernel.NewUUID(), jobID, caller.ID, amount)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.commands.GiveTip.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	message := "Tip sent"
	if result.Transfer == nil {
		message = "Tip pending confirmation"
	}
	return respond(ctx, http.StatusOK, message, viewSettlement(result))
}

// GetReceipt handles GET /api/v1/payments/jobs/{jobId}/receipt and streams a PDF.
func (s *Server) GetReceipt(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetSettlementReceiptQuery(jobID, caller.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	receipt, err := s.queries.GetReceipt.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", receipt.FileName))
	return ctx.Blob(http.StatusOK, "application/pdf", receipt.Document)
}

// ListTransactions handles GET /api/v1/payments/transactions.
func (s *Server) ListTransactions(ctx echo.Context) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetTransactionsQuery(caller.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	items, err := s.queries.GetTransactions.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Transactions retrieved", viewTransactions(items))
}

// GetBalance handles GET /api/v1/payments/balance.
func (s *Server) GetBalance(ctx echo.Context) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetBalanceQuery(caller.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	balance, err := s.queries.GetBalance.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Balance retrieved", viewBalance(balance))
}

// Withdraw handles POST /api/v1/payments/withdraw.
func (s *Server) Withdraw(ctx echo.Context) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.WithdrawRequest
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}
	amount, err := kernel.NewMoney(body.AmountCents)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewWithdrawCommand(kernel.NewUUID(), caller.ID, amount, body.Destination)
	if err != nil {
		return s.fail(ctx, err)
	}
	withdraw, err := s.commands.Withdraw.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusCreated, "Withdraw requested", viewWithdraw(withdraw))
}

// AddCustomerCard handles POST /api/v1/payments/customer/cards.
func (s *Server) AddCustomerCard(ctx echo.Context) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.AddCardRequest
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewAddCustomerCardCommand(caller.ID, body.PaymentMethodId, deref(body.MakeDefault))
	if err != nil {
		return s.fail(ctx, err)
	}
	customerRef, err := s.commands.AddCustomerCard.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusCreated, "Card added", map[string]string{"customerId": customerRef})
}

// ProvisionDriverAccount handles POST /api/v1/payments/driver/account.
func (s *Server) ProvisionDriverAccount(ctx echo.Context) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewProvisionDriverAccountCommand(caller.ID,
		s.backendURL+driverAccountPath, s.backendURL+driverAccountPath+"/success")
	if err != nil {
		return s.fail(ctx, err)
	}
	link, err := s.commands.ProvisionDriverAccount.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	message := "Continue onboarding at the returned link"
	if link.Ready {
		message = "Payment account is ready"
	}
	return respond(ctx, http.StatusOK, message, onboardingView{
		AccountID: link.AccountID,
		URL:       link.URL,
		Ready:     link.Ready,
	})
}

// ConfirmDriverAccount handles GET /api/v1/payments/driver/account/success.
func (s *Server) ConfirmDriverAccount(ctx echo.Context) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewConfirmDriverAccountCommand(caller.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	ready, err := s.commands.ConfirmDriverAccount.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	message := "Payment account is ready"
	if !ready {
		message = "Payment account onboarding is not finished"
	}
	return respond(ctx, http.StatusOK, message, map[string]bool{"ready": ready})
}
