package commands_test

import (
	"context"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/review"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockJobRepository) UpdateAssignment(ctx context.Context, aggregate *job.Job) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockJobRepository) MarkAmountDeducted(ctx context.Context, jobID kernel.UUID) (bool, error) {
	args := m.Called(ctx, jobID)
	return args.Bool(0), args.Error(1)
}

func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if j, ok := args.Get(0).(*job.Job); ok {
		return j, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, aggregate *user.User) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, aggregate *user.User) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByPaymentAccount(ctx context.Context, accountID string) (*user.User, error) {
	args := m.Called(ctx, accountID)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Add(ctx context.Context, aggregate *review.Review) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

// MockUoW serves every composite unit of work the handlers ask for.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) JobRepository() ports.JobRepository {
	args := m.Called()
	return args.Get(0).(ports.JobRepository)
}

func (m *MockUoW) UserRepository() ports.UserRepository {
	args := m.Called()
	return args.Get(0).(ports.UserRepository)
}

func (m *MockUoW) PaymentRepository() ports.PaymentRepository {
	args := m.Called()
	return args.Get(0).(ports.PaymentRepository)
}

func (m *MockUoW) WithdrawRepository() ports.WithdrawRepository {
	args := m.Called()
	return args.Get(0).(ports.WithdrawRepository)
}

func (m *MockUoW) ReviewRepository() ports.ReviewRepository {
	args := m.Called()
	return args.Get(0).(ports.ReviewRepository)
}

// MockUoWFactory hands out a MockUoW as whichever composite T the handler wants.
type MockUoWFactory[T any] struct{ mock.Mock }

func (m *MockUoWFactory[T]) Create() T {
	args := m.Called()
	return args.Get(0).(T)
}

type MockFaceMatcher struct{ mock.Mock }

func (m *MockFaceMatcher) Match(ctx context.Context, referenceRef, candidateRef string) (bool, error) {
	args := m.Called(ctx, referenceRef, candidateRef)
	return args.Bool(0), args.Error(1)
}

type MockEvidenceVerifier struct{ mock.Mock }

func (m *MockEvidenceVerifier) Verify(ctx context.Context, imageRefs []string) error {
	args := m.Called(ctx, imageRefs)
	return args.Error(0)
}

var (
	_ commands.JobUoWFactory    = (*MockUoWFactory[commands.JobUoW])(nil)
	_ commands.UserUoWFactory   = (*MockUoWFactory[commands.UserUoW])(nil)
	_ commands.ReviewUoWFactory = (*MockUoWFactory[commands.ReviewUoW])(nil)
)

func mustCustomer(name string) *user.User {
	u, err := user.NewUser(kernel.NewUUID(), user.Customer, name, name+"@example.com", "")
	if err != nil {
		panic(err)
	}
	return u
}

func mustDriver(name string) *user.User {
	u, err := user.NewUser(kernel.NewUUID(), user.Driver, name, name+"@example.com", "")
	if err != nil {
		panic(err)
	}
	return u
}

func mustMoney(cents int64) kernel.Money {
	m, err := kernel.NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

func mustJob(customerID kernel.UUID, dropOffs int) *job.Job {
	pickup, err := kernel.NewLocation("1 Warehouse Way", 40.7, -74.0)
	if err != nil {
		panic(err)
	}
	jobType := job.SingleDropOff
	if dropOffs > 1 {
		jobType = job.MultipleDropOff
	}
	legs := make([]*job.DropOff, 0, dropOffs)
	for range dropOffs {
		loc, _ := kernel.NewAddressLocation("221B Baker St")
		leg, legErr := job.NewDropOff(kernel.NewUUID(), loc, job.Items{Count: 1}, "")
		if legErr != nil {
			panic(legErr)
		}
		legs = append(legs, leg)
	}
	j, err := job.NewJob(kernel.NewUUID(), customerID, "Move a sofa", pickup,
		job.Schedule{PickupDate: time.Now().Format(time.DateOnly)}, jobType, mustMoney(4000), legs)
	if err != nil {
		panic(err)
	}
	return j
}

func ptr[T any](v T) *T { return &v }

