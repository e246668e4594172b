package jobrepo_test

import (
	"context"
	"sync"
	"testing"

	"marketplace/internal/adapters/out/postgres/jobrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type JobRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *jobrepo.GormJobRepository
	tracker    *MockAggregateTracker
}

func (suite *JobRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *JobRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Reset(context.Background()))

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = jobrepo.NewGormJobRepository(suite.database.DB, suite.tracker, 0)
}

func (suite *JobRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Stop(context.Background()))
}

func (suite *JobRepositoryIntegrationTestSuite) TestAdd_AssignsSequentialOrderNumbers() {
	ctx := context.Background()
	customerID := kernel.NewUUID()

	first := newJob(suite.T(), customerID, 1)
	second := newJob(suite.T(), customerID, 2)

	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))

	suite.Equal(job.DefaultFirstOrderNumber, first.OrderNumber())
	suite.Equal(job.DefaultFirstOrderNumber.Next(), second.OrderNumber())
	suite.Equal("#1001", second.OrderNumber().String())
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", first.ID(), first)
}

func (suite *JobRepositoryIntegrationTestSuite) TestAdd_ConfiguredFirstOrderNumber() {
	repository := jobrepo.NewGormJobRepository(suite.database.DB, suite.tracker, 5000)

	created := newJob(suite.T(), kernel.NewUUID(), 1)
	suite.Require().NoError(repository.Add(context.Background(), created))

	suite.Equal(job.OrderNumber(5000), created.OrderNumber())
}

func (suite *JobRepositoryIntegrationTestSuite) TestAdd_ConcurrentJobsGetDistinctNumbers() {
	ctx := context.Background()
	const workers = 8

	jobs := make([]*job.Job, workers)
	for i := range jobs {
		jobs[i] = newJob(suite.T(), kernel.NewUUID(), 1)
	}

	var wg sync.WaitGroup
	errList := make([]error, workers)
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errList[i] = suite.repository.Add(ctx, jobs[i])
		}(i)
	}
	wg.Wait()

	seen := make(map[job.OrderNumber]bool, workers)
	for i, j := range jobs {
		suite.Require().NoError(errList[i])
		suite.False(seen[j.OrderNumber()], "order number %s handed out twice", j.OrderNumber())
		seen[j.OrderNumber()] = true
	}
}

func (suite *JobRepositoryIntegrationTestSuite) TestGet_RestoresDropOffsInRouteOrder() {
	ctx := context.Background()
	created := newJob(suite.T(), kernel.NewUUID(), 3)
	suite.Require().NoError(suite.repository.Add(ctx, created))

	loaded, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)

	suite.Equal(created.OrderNumber(), loaded.OrderNumber())
	suite.Equal(job.MultipleDropOff, loaded.Type())
	suite.Equal(job.Open, loaded.DeliveryStatus())
	suite.Require().Len(loaded.DropOffs(), 3)
	for i, d := range loaded.DropOffs() {
		suite.Equal(i, d.Position())
		suite.True(created.DropOffs()[i].ID().IsEqual(d.ID()))
		suite.Equal(job.OnTheWayToPickup, d.Status())
		suite.False(d.IsStarted())
	}
	lat, lon, ok := loaded.Pickup().Coordinates()
	suite.True(ok)
	suite.InDelta(40.7, lat, 1e-9)
	suite.InDelta(-74.0, lon, 1e-9)
}

func (suite *JobRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdate_PersistsApplicantsAndQuits() {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	driverID := kernel.NewUUID()

	created := newJob(suite.T(), customerID, 1)
	suite.Require().NoError(suite.repository.Add(ctx, created))

	suite.Require().NoError(created.Apply(driverID))
	suite.Require().NoError(suite.repository.Update(ctx, created))
	suite.Equal(1, created.Version())

	suite.Require().NoError(created.SelectDriver(customerID, driverID))
	suite.Require().NoError(suite.repository.UpdateAssignment(ctx, created))

	suite.Require().NoError(created.Quit(driverID, "flat tyre"))
	suite.Require().NoError(suite.repository.Update(ctx, created))

	loaded, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Nil(loaded.DeliveryPartner())
	suite.Equal(job.Canceled, loaded.DeliveryStatus())
	suite.Require().Len(loaded.Quits(), 1)
	suite.Equal("flat tyre", loaded.Quits()[0].Reason)
	suite.True(loaded.Quits()[0].DriverID.IsEqual(driverID))
	suite.Equal(3, loaded.Version())
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdate_PersistsStartedLeg() {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	driverID := kernel.NewUUID()

	created := newJob(suite.T(), customerID, 2)
	suite.Require().NoError(suite.repository.Add(ctx, created))
	suite.Require().NoError(created.Apply(driverID))
	suite.Require().NoError(created.SelectDriver(customerID, driverID))
	suite.Require().NoError(suite.repository.UpdateAssignment(ctx, created))

	_, err := created.AdvanceDropOff(driverID, created.DropOffs()[0].ID(), job.OnTheWayToPickup, job.Evidence{})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, created))

	loaded, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Equal(job.OnTheWayToPickup, loaded.DropOffs()[0].Status())
	suite.True(loaded.DropOffs()[0].IsStarted())
	suite.False(loaded.DropOffs()[1].IsStarted())
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdate_StaleVersionIsRejected() {
	ctx := context.Background()
	created := newJob(suite.T(), kernel.NewUUID(), 1)
	suite.Require().NoError(suite.repository.Add(ctx, created))

	stale, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(created.Apply(kernel.NewUUID()))
	suite.Require().NoError(suite.repository.Update(ctx, created))

	suite.Require().NoError(stale.Apply(kernel.NewUUID()))
	err = suite.repository.Update(ctx, stale)
	suite.Require().ErrorIs(err, errs.ErrIllegalTransition)

	loaded, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Len(loaded.Applicants(), 1)
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdateAssignment_OnlyOneSelectionWins() {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	first, second := kernel.NewUUID(), kernel.NewUUID()

	created := newJob(suite.T(), customerID, 1)
	suite.Require().NoError(suite.repository.Add(ctx, created))
	suite.Require().NoError(created.Apply(first))
	suite.Require().NoError(created.Apply(second))
	suite.Require().NoError(suite.repository.Update(ctx, created))

	a, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)
	b, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(a.SelectDriver(customerID, first))
	suite.Require().NoError(b.SelectDriver(customerID, second))

	suite.Require().NoError(suite.repository.UpdateAssignment(ctx, a))
	err = suite.repository.UpdateAssignment(ctx, b)
	suite.Require().ErrorIs(err, errs.ErrIllegalTransition)

	loaded, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(loaded.DeliveryPartner())
	suite.True(loaded.DeliveryPartner().IsEqual(first))
}

func (suite *JobRepositoryIntegrationTestSuite) TestMarkAmountDeducted_FlipsOnce() {
	ctx := context.Background()
	created := newJob(suite.T(), kernel.NewUUID(), 1)
	suite.Require().NoError(suite.repository.Add(ctx, created))

	flipped, err := suite.repository.MarkAmountDeducted(ctx, created.ID())
	suite.Require().NoError(err)
	suite.True(flipped)

	flipped, err = suite.repository.MarkAmountDeducted(ctx, created.ID())
	suite.Require().NoError(err)
	suite.False(flipped)

	_, err = suite.repository.MarkAmountDeducted(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	loaded, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.True(loaded.IsAmountDeducted())
}

func newJob(t *testing.T, customerID kernel.UUID, dropOffs int) *job.Job {
	t.Helper()

	pickup, err := kernel.NewLocation("1 Warehouse Way", 40.7, -74.0)
	if err != nil {
		t.Fatal(err)
	}
	amount, err := kernel.NewMoney(4000)
	if err != nil {
		t.Fatal(err)
	}

	jobType := job.SingleDropOff
	if dropOffs > 1 {
		jobType = job.MultipleDropOff
	}
	legs := make([]*job.DropOff, 0, dropOffs)
	for range dropOffs {
		loc, locErr := kernel.NewAddressLocation("221B Baker St")
		if locErr != nil {
			t.Fatal(locErr)
		}
		leg, legErr := job.NewDropOff(kernel.NewUUID(), loc, job.Items{Count: 2, WeightKg: 1.5}, "ring twice")
		if legErr != nil {
			t.Fatal(legErr)
		}
		legs = append(legs, leg)
	}

	j, err := job.NewJob(kernel.NewUUID(), customerID, "Move boxes", pickup,
		job.Schedule{PickupDate: "2026-10-20", PickupTime: "09:30"}, jobType, amount, legs)
	if err != nil {
		t.Fatal(err)
	}
	return j
}

func TestJobRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(JobRepositoryIntegrationTestSuite))
}
