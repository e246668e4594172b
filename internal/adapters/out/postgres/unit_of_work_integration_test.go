package postgres_test

import (
	"context"
	"sync"
	"testing"

	postgres_adapter "marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/model/review"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []kernel.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...kernel.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.EventName())
	}
	return names
}

// UnitOfWorkIntegrationTestSuite provides comprehensive integration testing
// for the GORM-based Unit of Work implementation with real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database  *pgtest.Database
	publisher *recordingPublisher
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Reset(context.Background()))
	suite.publisher = &recordingPublisher{}
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(suite.database.DB, suite.publisher, 0)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Stop(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.JobRepository())
	suite.NotNil(uow1.UserRepository())
	suite.NotNil(uow1.PaymentRepository())
	suite.NotNil(uow1.WithdrawRepository())
	suite.NotNil(uow1.ReviewRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().Error(uow.Commit(ctx), "Should error when committing without active transaction")
	suite.Require().Error(uow.Rollback(ctx), "Should error when rolling back without active transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PublishesRecordedEvents() {
	ctx := context.Background()
	customer := suite.registerUser(user.Customer, "carol")
	driver := suite.registerUser(user.Driver, "dave")
	created := suite.postJob(customer.ID())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.JobRepository().Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Apply(driver.ID()))
	suite.Require().NoError(uow.JobRepository().Update(ctx, loaded))

	suite.Empty(suite.publisher.names(), "nothing is published before commit")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal([]string{job.EventDriverApplied}, suite.publisher.names())
	suite.Empty(loaded.DomainEvents())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsChangesAndEvents() {
	ctx := context.Background()
	customer := suite.registerUser(user.Customer, "erin")
	driver := suite.registerUser(user.Driver, "frank")
	created := suite.postJob(customer.ID())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.JobRepository().Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Apply(driver.ID()))
	suite.Require().NoError(uow.JobRepository().Update(ctx, loaded))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Empty(suite.publisher.names())

	stored, err := suite.factory.Create().JobRepository().Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Empty(stored.Applicants())
	suite.Equal(0, stored.Version())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestMultiRepositoryTransaction() {
	ctx := context.Background()
	customer := suite.registerUser(user.Customer, "gina")
	driver := suite.registerUser(user.Driver, "hank")
	created := suite.postJob(customer.ID())

	amount, err := kernel.NewMoney(4000)
	suite.Require().NoError(err)
	entry, err := payment.NewDeduction(customer.ID(), created.ID(), amount, payment.Completed, false,
		payment.Refs{PaymentIntentRef: "pi_multi", CardRef: "card_multi"})
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.PaymentRepository().Add(ctx, entry))
	flipped, err := uow.JobRepository().MarkAmountDeducted(ctx, created.ID())
	suite.Require().NoError(err)
	suite.True(flipped)

	rv, err := review.NewReview(kernel.NewUUID(), created.ID(), driver.ID(), customer.ID(), 5, "great")
	suite.Require().NoError(err)
	suite.Require().NoError(uow.ReviewRepository().Add(ctx, rv))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Contains(suite.publisher.names(), payment.EventPaymentDeducted)

	stored, err := suite.factory.Create().JobRepository().Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.True(stored.IsAmountDeducted())

	duplicate, err := review.NewReview(kernel.NewUUID(), created.ID(), driver.ID(), customer.ID(), 4, "again")
	suite.Require().NoError(err)
	err = suite.factory.Create().ReviewRepository().Add(ctx, duplicate)
	suite.Require().ErrorIs(err, errs.ErrIllegalTransition)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUserRepository_PaymentAccountLookup() {
	ctx := context.Background()
	driver := suite.registerUser(user.Driver, "ivan")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.UserRepository().Get(ctx, driver.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.LinkPaymentAccount("acct_ivan"))
	suite.Require().NoError(loaded.MarkPaymentAccountReady())
	suite.Require().NoError(uow.UserRepository().Update(ctx, loaded))
	suite.Require().NoError(uow.Commit(ctx))

	found, err := suite.factory.Create().UserRepository().GetByPaymentAccount(ctx, "acct_ivan")
	suite.Require().NoError(err)
	suite.True(found.ID().IsEqual(driver.ID()))
	suite.True(found.PaymentAccountReady())

	_, err = suite.factory.Create().UserRepository().GetByPaymentAccount(ctx, "acct_nobody")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	duplicate, err := user.NewUser(kernel.NewUUID(), user.Customer, "Ivan Two", "ivan@example.com", "")
	suite.Require().NoError(err)
	err = suite.factory.Create().UserRepository().Add(ctx, duplicate)
	suite.Require().ErrorIs(err, errs.ErrIllegalTransition)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWithdrawRepository_Add() {
	ctx := context.Background()
	driver := suite.registerUser(user.Driver, "judy")

	amount, err := kernel.NewMoney(1500)
	suite.Require().NoError(err)
	w, err := payment.NewWithdraw(kernel.NewUUID(), driver.ID(), amount, "ba_judy", "po_1", payment.WithdrawPending)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.WithdrawRepository().Add(ctx, w))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal([]string{payment.EventWithdrawRequested}, suite.publisher.names())
}

func (suite *UnitOfWorkIntegrationTestSuite) registerUser(role user.Role, name string) *user.User {
	ctx := context.Background()
	u, err := user.NewUser(kernel.NewUUID(), role, name, name+"@example.com", "")
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.UserRepository().Add(ctx, u))
	suite.Require().NoError(uow.Commit(ctx))
	return u
}

func (suite *UnitOfWorkIntegrationTestSuite) postJob(customerID kernel.UUID) *job.Job {
	ctx := context.Background()
	pickup, err := kernel.NewAddressLocation("1 Warehouse Way")
	suite.Require().NoError(err)
	dest, err := kernel.NewAddressLocation("221B Baker St")
	suite.Require().NoError(err)
	leg, err := job.NewDropOff(kernel.NewUUID(), dest, job.Items{Count: 1}, "")
	suite.Require().NoError(err)
	amount, err := kernel.NewMoney(4000)
	suite.Require().NoError(err)

	j, err := job.NewJob(kernel.NewUUID(), customerID, "Sofa", pickup,
		job.Schedule{PickupDate: "2026-10-20"}, job.SingleDropOff, amount, []*job.DropOff{leg})
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.JobRepository().Add(ctx, j))
	suite.Require().NoError(uow.Commit(ctx))

	suite.publisher.mu.Lock()
	suite.publisher.events = nil
	suite.publisher.mu.Unlock()
	return j
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
