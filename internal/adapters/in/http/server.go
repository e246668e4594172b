package http

import (
	"context"
	"log/slog"
	"strings"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/model/review"
	"marketplace/internal/core/ports"
	"marketplace/internal/generated/servers"

	"github.com/google/uuid"
)

// Handler runs one use case and returns its result.
type Handler[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// ActionHandler runs one use case that only reports failure.
type ActionHandler[In any] interface {
	Handle(ctx context.Context, in In) error
}

// CommandHandlers are the write side use cases served over HTTP.
type CommandHandlers struct {
	RegisterUser           ActionHandler[commands.RegisterUserCommand]
	CreateJob              Handler[commands.CreateJobCommand, *job.Job]
	ApplyForJob            ActionHandler[commands.ApplyForJobCommand]
	SelectDriver           ActionHandler[commands.SelectDriverCommand]
	AdvanceDropOff         Handler[commands.AdvanceDropOffCommand, string]
	CompleteDelivery       ActionHandler[commands.CompleteDeliveryCommand]
	QuitJob                ActionHandler[commands.QuitJobCommand]
	LeaveReview            Handler[commands.LeaveReviewCommand, *review.Review]
	VerifyDriverImage      ActionHandler[commands.VerifyDriverImageCommand]
	SettleJob              Handler[commands.SettleJobCommand, commands.SettlementResult]
	DeductFromCustomer     Handler[commands.DeductFromCustomerCommand, commands.DeductionOutcome]
	TransferToDriver       Handler[commands.TransferToDriverCommand, commands.TransferOutcome]
	GiveTip                Handler[commands.GiveTipCommand, commands.SettlementResult]
	Withdraw               Handler[commands.WithdrawCommand, *payment.Withdraw]
	AddCustomerCard        Handler[commands.AddCustomerCardCommand, string]
	ProvisionDriverAccount Handler[commands.ProvisionDriverAccountCommand, commands.OnboardingLink]
	ConfirmDriverAccount   Handler[commands.ConfirmDriverAccountCommand, bool]
	ReconcileWebhook       Handler[commands.ReconcileWebhookCommand, commands.WebhookResult]
}

// QueryHandlers are the read side use cases served over HTTP.
type QueryHandlers struct {
	GetUser          Handler[queries.GetUserQuery, queries.GetUserQueryResponse]
	GetJob           Handler[queries.GetJobQuery, queries.GetJobQueryResponse]
	GetJobs          Handler[queries.GetJobsQuery, queries.GetJobsQueryResponse]
	GetAvailableJobs Handler[queries.GetAvailableJobsQuery, []queries.JobSummary]
	GetTransactions  Handler[queries.GetTransactionsQuery, []queries.TransactionView]
	GetBalance       Handler[queries.GetBalanceQuery, queries.GetBalanceQueryResponse]
	GetReceipt       Handler[queries.GetSettlementReceiptQuery, queries.GetSettlementReceiptQueryResponse]
	GetNotifications Handler[queries.GetNotificationsQuery, []ports.Notification]
}

// Server implements servers.ServerInterface on top of the application use cases.
type Server struct {
	logger     *slog.Logger
	tokens     *TokenIssuer
	webhooks   ports.WebhookParser
	backendURL string

	commands CommandHandlers
	queries  QueryHandlers
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
// backendURL is the public base address used for onboarding redirects.
func NewServer(
	logger *slog.Logger,
	tokens *TokenIssuer,
	webhooks ports.WebhookParser,
	backendURL string,
	commandHandlers CommandHandlers,
	queryHandlers QueryHandlers,
) *Server {
	return &Server{
		logger:     logger.With("component", "http"),
		tokens:     tokens,
		webhooks:   webhooks,
		backendURL: strings.TrimRight(backendURL, "/"),
		commands:   commandHandlers,
		queries:    queryHandlers,
	}
}

func toKernelUUID(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}
