package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/facematch"
	"marketplace/internal/adapters/out/notify"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/receipt"
	"marketplace/internal/adapters/out/s3evidence"
	"marketplace/internal/adapters/out/stripe"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const receiptIssuer = "Delivery Marketplace"

type CompositionRoot struct {
	config Config
	logger *slog.Logger
	gormDB *gorm.DB

	uowFactory *postgres.GormUnitOfWorkFactory
	processor  ports.PaymentProcessor
	webhooks   ports.WebhookParser
	verifier   ports.EvidenceVerifier
	matcher    ports.FaceMatcher
	renderer   ports.ReceiptRenderer
	inbox      ports.NotificationInbox
	hub        *notify.Hub
	tokens     *httpadapter.TokenIssuer

	settlement    commands.SettlementOptions
	defaultAmount kernel.Money

	closers []func(context.Context) error
}

// NewCompositionRoot connects the optional infrastructure named in the config.
// Missing MongoDB falls back to an in-memory inbox, a missing broker disables
// fan-out and a missing bucket disables proof image checks.
func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	commission, err := services.NewCommissionPolicy(config.CommissionBps)
	if err != nil {
		return nil, fmt.Errorf("commission: %w", err)
	}
	defaultAmount, err := kernel.NewMoney(config.DefaultJobAmountCents)
	if err != nil {
		return nil, fmt.Errorf("default job amount: %w", err)
	}

	root := &CompositionRoot{
		config: config,
		logger: logger,
		gormDB: gormDB,
		processor: stripe.NewProcessor(stripe.Config{
			SecretKey: config.StripeSecretKey,
			Currency:  config.PaymentCurrency,
		}),
		webhooks: stripe.NewWebhookParser(config.StripeWebhookSecret),
		matcher:  facematch.AcceptAll{},
		renderer: receipt.NewPDFRenderer(receiptIssuer, config.PaymentCurrency),
		hub:      notify.NewHub(logger),
		tokens:   httpadapter.NewTokenIssuer(config.JWTSecret, config.JWTTokenTTL),
		settlement: commands.SettlementOptions{
			Commission:       commission,
			ProcessorTimeout: config.ProcessorTimeout,
			Logger:           logger,
		},
		defaultAmount: defaultAmount,
	}

	sinks := []notify.Sink{root.hub}

	if config.MongoURI != "" {
		inbox, mongoErr := notify.ConnectMongoInbox(ctx, config.MongoURI, config.MongoDB)
		if mongoErr != nil {
			return nil, fmt.Errorf("mongo inbox: %w", mongoErr)
		}
		root.inbox = inbox
		root.closers = append(root.closers, inbox.Close)
		sinks = append(sinks, inbox)
	} else {
		inbox := notify.NewMemoryInbox()
		root.inbox = inbox
		sinks = append(sinks, inbox)
		logger.Warn("MONGO_URI is not set, notifications are kept in memory")
	}

	if config.RabbitMQURL != "" {
		broker, brokerErr := notify.DialBroker(config.RabbitMQURL, config.RabbitMQExchange)
		if brokerErr != nil {
			return nil, errors.Join(fmt.Errorf("rabbitmq: %w", brokerErr), root.Close(ctx))
		}
		root.closers = append(root.closers, func(context.Context) error { return broker.Close() })
		sinks = append(sinks, broker)
	}

	if config.S3Bucket != "" {
		verifier, s3Err := s3evidence.NewVerifier(ctx, s3evidence.Config{
			Bucket:          config.S3Bucket,
			Region:          config.S3Region,
			AccessKeyID:     config.S3AccessKeyID,
			SecretAccessKey: config.S3SecretAccessKey,
		})
		if s3Err != nil {
			return nil, errors.Join(fmt.Errorf("s3 evidence: %w", s3Err), root.Close(ctx))
		}
		root.verifier = verifier
		root.matcher = facematch.NewUploadedPhoto(verifier)
	}

	dispatcher := notify.NewDispatcher(logger, sinks...)
	root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, dispatcher, job.OrderNumber(config.OrderNumberStart))

	return root, nil
}

// Close releases the connections opened by NewCompositionRoot.
func (c *CompositionRoot) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i](ctx))
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) userUoWFactory() commands.UserUoWFactory {
	return FuncUserUoWFactory(func() commands.UserUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) jobUoWFactory() commands.JobUoWFactory {
	return FuncJobUoWFactory(func() commands.JobUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) reviewUoWFactory() commands.ReviewUoWFactory {
	return FuncReviewUoWFactory(func() commands.ReviewUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) settlementUoWFactory() commands.SettlementUoWFactory {
	return FuncSettlementUoWFactory(func() commands.SettlementUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) withdrawUoWFactory() commands.WithdrawUoWFactory {
	return FuncWithdrawUoWFactory(func() commands.WithdrawUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	return commands.NewRegisterUserCommandHandler(c.userUoWFactory())
}

func (c *CompositionRoot) CreateCreateJobCommandHandler() commands.CreateJobCommandHandler {
	return commands.NewCreateJobCommandHandler(c.jobUoWFactory(), c.defaultAmount)
}

func (c *CompositionRoot) CreateApplyForJobCommandHandler() commands.ApplyForJobCommandHandler {
	return commands.NewApplyForJobCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateSelectDriverCommandHandler() commands.SelectDriverCommandHandler {
	return commands.NewSelectDriverCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceDropOffCommandHandler() commands.AdvanceDropOffCommandHandler {
	return commands.NewAdvanceDropOffCommandHandler(c.jobUoWFactory(), c.verifier, c.config.RequireDriverImageVerification)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateQuitJobCommandHandler() commands.QuitJobCommandHandler {
	return commands.NewQuitJobCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateLeaveReviewCommandHandler() commands.LeaveReviewCommandHandler {
	return commands.NewLeaveReviewCommandHandler(c.reviewUoWFactory())
}

func (c *CompositionRoot) CreateVerifyDriverImageCommandHandler() commands.VerifyDriverImageCommandHandler {
	return commands.NewVerifyDriverImageCommandHandler(c.jobUoWFactory(), c.matcher)
}

func (c *CompositionRoot) CreateSettleJobCommandHandler() commands.SettleJobCommandHandler {
	return commands.NewSettleJobCommandHandler(c.settlementUoWFactory(), c.processor, c.settlement)
}

func (c *CompositionRoot) CreateDeductFromCustomerCommandHandler() commands.DeductFromCustomerCommandHandler {
	return commands.NewDeductFromCustomerCommandHandler(c.settlementUoWFactory(), c.processor, c.settlement)
}

func (c *CompositionRoot) CreateTransferToDriverCommandHandler() commands.TransferToDriverCommandHandler {
	return commands.NewTransferToDriverCommandHandler(c.settlementUoWFactory(), c.processor, c.settlement)
}

func (c *CompositionRoot) CreateGiveTipCommandHandler() commands.GiveTipCommandHandler {
	return commands.NewGiveTipCommandHandler(c.settlementUoWFactory(), c.processor, c.settlement)
}

func (c *CompositionRoot) CreateReconcileWebhookCommandHandler() commands.ReconcileWebhookCommandHandler {
	return commands.NewReconcileWebhookCommandHandler(c.settlementUoWFactory(), c.processor, c.settlement)
}

func (c *CompositionRoot) CreateReconcileSettlementsCommandHandler() commands.ReconcileSettlementsCommandHandler {
	return commands.NewReconcileSettlementsCommandHandler(c.settlementUoWFactory(), c.processor, c.settlement)
}

func (c *CompositionRoot) CreateWithdrawCommandHandler() commands.WithdrawCommandHandler {
	return commands.NewWithdrawCommandHandler(c.withdrawUoWFactory(), c.processor, c.config.ProcessorTimeout, c.logger)
}

func (c *CompositionRoot) CreateAddCustomerCardCommandHandler() commands.AddCustomerCardCommandHandler {
	return commands.NewAddCustomerCardCommandHandler(c.userUoWFactory(), c.processor, c.config.ProcessorTimeout)
}

func (c *CompositionRoot) CreateProvisionDriverAccountCommandHandler() commands.ProvisionDriverAccountCommandHandler {
	return commands.NewProvisionDriverAccountCommandHandler(c.userUoWFactory(), c.processor, c.config.ProcessorTimeout)
}

func (c *CompositionRoot) CreateConfirmDriverAccountCommandHandler() commands.ConfirmDriverAccountCommandHandler {
	return commands.NewConfirmDriverAccountCommandHandler(c.userUoWFactory(), c.processor, c.config.ProcessorTimeout)
}

func (c *CompositionRoot) CreateGetUserQueryHandler() queries.GetUserQueryHandler {
	return queries.NewGetUserQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetJobQueryHandler() queries.GetJobQueryHandler {
	return queries.NewGetJobQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetJobsQueryHandler() queries.GetJobsQueryHandler {
	return queries.NewGetJobsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableJobsQueryHandler() queries.GetAvailableJobsQueryHandler {
	return queries.NewGetAvailableJobsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTransactionsQueryHandler() queries.GetTransactionsQueryHandler {
	return queries.NewGetTransactionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetBalanceQueryHandler() queries.GetBalanceQueryHandler {
	return queries.NewGetBalanceQueryHandler(c.gormDB, c.processor, c.config.ProcessorTimeout)
}

func (c *CompositionRoot) CreateGetSettlementReceiptQueryHandler() queries.GetSettlementReceiptQueryHandler {
	return queries.NewGetSettlementReceiptQueryHandler(c.gormDB, c.renderer)
}

func (c *CompositionRoot) CreateGetNotificationsQueryHandler() queries.GetNotificationsQueryHandler {
	return queries.NewGetNotificationsQueryHandler(c.inbox)
}

// NewHTTPServer wires every use case into the echo router.
func (c *CompositionRoot) NewHTTPServer() *echo.Echo {
	server := httpadapter.NewServer(c.logger, c.tokens, c.webhooks, c.config.BackendURL,
		httpadapter.CommandHandlers{
			RegisterUser:           c.CreateRegisterUserCommandHandler(),
			CreateJob:              c.CreateCreateJobCommandHandler(),
			ApplyForJob:            c.CreateApplyForJobCommandHandler(),
			SelectDriver:           c.CreateSelectDriverCommandHandler(),
			AdvanceDropOff:         c.CreateAdvanceDropOffCommandHandler(),
			CompleteDelivery:       c.CreateCompleteDeliveryCommandHandler(),
			QuitJob:                c.CreateQuitJobCommandHandler(),
			LeaveReview:            c.CreateLeaveReviewCommandHandler(),
			VerifyDriverImage:      c.CreateVerifyDriverImageCommandHandler(),
			SettleJob:              c.CreateSettleJobCommandHandler(),
			DeductFromCustomer:     c.CreateDeductFromCustomerCommandHandler(),
			TransferToDriver:       c.CreateTransferToDriverCommandHandler(),
			GiveTip:                c.CreateGiveTipCommandHandler(),
			Withdraw:               c.CreateWithdrawCommandHandler(),
			AddCustomerCard:        c.CreateAddCustomerCardCommandHandler(),
			ProvisionDriverAccount: c.CreateProvisionDriverAccountCommandHandler(),
			ConfirmDriverAccount:   c.CreateConfirmDriverAccountCommandHandler(),
			ReconcileWebhook:       c.CreateReconcileWebhookCommandHandler(),
		},
		httpadapter.QueryHandlers{
			GetUser:          c.CreateGetUserQueryHandler(),
			GetJob:           c.CreateGetJobQueryHandler(),
			GetJobs:          c.CreateGetJobsQueryHandler(),
			GetAvailableJobs: c.CreateGetAvailableJobsQueryHandler(),
			GetTransactions:  c.CreateGetTransactionsQueryHandler(),
			GetBalance:       c.CreateGetBalanceQueryHandler(),
			GetReceipt:       c.CreateGetSettlementReceiptQueryHandler(),
			GetNotifications: c.CreateGetNotificationsQueryHandler(),
		},
	)
	return httpadapter.NewRouter(c.logger, server, c.tokens, c.hub)
}

// NewJobManager schedules the background jobs.
func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	reconcile := jobs.NewSettlementReconciliationJob(
		c.CreateReconcileSettlementsCommandHandler(),
		c.config.ReconcileSchedule,
		c.config.ReconcileMinAge,
		c.config.ProcessorTimeout*4,
		c.logger,
	)
	return jobs.NewJobManager(reconcile)
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}

type FuncReviewUoWFactory func() commands.ReviewUoW

func (f FuncReviewUoWFactory) Create() commands.ReviewUoW {
	return f()
}

type FuncSettlementUoWFactory func() commands.SettlementUoW

func (f FuncSettlementUoWFactory) Create() commands.SettlementUoW {
	return f()
}

type FuncWithdrawUoWFactory func() commands.WithdrawUoW

func (f FuncWithdrawUoWFactory) Create() commands.WithdrawUoW {
	return f()
}
