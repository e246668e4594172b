package commands_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/model/review"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// memStore is an in-memory database with the conditional writes of the
// postgres adapters. Writes apply at once and are undone on rollback.
type memStore struct {
	mu        sync.Mutex
	users     map[kernel.UUID]*user.User
	jobs      map[kernel.UUID]job.Snapshot
	entries   []payment.EntrySnapshot
	withdraws []*payment.Withdraw
	reviews   []*review.Review
	nextOrder job.OrderNumber
	published []kernel.DomainEvent
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[kernel.UUID]*user.User),
		jobs:      make(map[kernel.UUID]job.Snapshot),
		nextOrder: job.DefaultFirstOrderNumber,
	}
}

func (s *memStore) Create() *memUoW { return &memUoW{store: s} }

func (s *memStore) settlementFactory() commands.SettlementUoWFactory { return settlementFactory{s} }
func (s *memStore) jobFactory() commands.JobUoWFactory               { return jobFactory{s} }
func (s *memStore) userFactory() commands.UserUoWFactory             { return userFactory{s} }
func (s *memStore) reviewFactory() commands.ReviewUoWFactory         { return reviewFactory{s} }
func (s *memStore) withdrawFactory() commands.WithdrawUoWFactory     { return withdrawFactory{s} }

type (
	settlementFactory struct{ s *memStore }
	jobFactory        struct{ s *memStore }
	userFactory       struct{ s *memStore }
	reviewFactory     struct{ s *memStore }
	withdrawFactory   struct{ s *memStore }
)

func (f settlementFactory) Create() commands.SettlementUoW { return f.s.Create() }
func (f jobFactory) Create() commands.JobUoW               { return f.s.Create() }
func (f userFactory) Create() commands.UserUoW             { return f.s.Create() }
func (f reviewFactory) Create() commands.ReviewUoW         { return f.s.Create() }
func (f withdrawFactory) Create() commands.WithdrawUoW     { return f.s.Create() }

func (s *memStore) putUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID()] = cloneUser(u)
}

func (s *memStore) user(id kernel.UUID) *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.users[id])
}

func (s *memStore) job(id kernel.UUID) *job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneJob(s.jobs[id])
}

func (s *memStore) ledger() []*payment.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*payment.Entry, 0, len(s.entries))
	for _, snap := range s.entries {
		out = append(out, cloneEntry(snap))
	}
	return out
}

func (s *memStore) ledgerOf(t payment.TransactionType) []*payment.Entry {
	var out []*payment.Entry
	for _, e := range s.ledger() {
		if e.TransactionType() == t {
			out = append(out, e)
		}
	}
	return out
}

func (s *memStore) eventNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.published))
	for _, e := range s.published {
		names = append(names, e.EventName())
	}
	return names
}

func cloneUser(u *user.User) *user.User {
	if u == nil {
		return nil
	}
	accountID, _ := u.PaymentAccountID()
	out, err := user.RestoreUser(u.ID(), u.Role(), u.Name(), u.Email(), u.Phone(), u.PhotoRef(),
		accountID, u.PaymentAccountReady())
	if err != nil {
		panic(err)
	}
	return out
}

func cloneJob(s job.Snapshot) *job.Job {
	shared, err := job.RestoreJob(s)
	if err != nil {
		panic(err)
	}
	out, err := job.RestoreJob(shared.Snapshot())
	if err != nil {
		panic(err)
	}
	return out
}

func cloneEntry(s payment.EntrySnapshot) *payment.Entry {
	out, err := payment.RestoreEntry(s)
	if err != nil {
		panic(err)
	}
	return out
}

type eventSource interface {
	DomainEvents() []kernel.DomainEvent
	ClearDomainEvents()
}

// memUoW implements every composite unit of work.
type memUoW struct {
	store   *memStore
	undo    []func()
	tracked []eventSource
	open    bool
}

func (u *memUoW) Begin(context.Context) error {
	u.open = true
	return nil
}

func (u *memUoW) Commit(ctx context.Context) error {
	if !u.open {
		return fmt.Errorf("no transaction")
	}
	u.open = false
	u.undo = nil

	u.store.mu.Lock()
	for _, t := range u.tracked {
		u.store.published = append(u.store.published, t.DomainEvents()...)
		t.ClearDomainEvents()
	}
	u.store.mu.Unlock()
	u.tracked = nil
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	if !u.open {
		return fmt.Errorf("no transaction")
	}
	u.open = false

	u.store.mu.Lock()
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.store.mu.Unlock()
	u.undo = nil
	u.tracked = nil
	return nil
}

func (u *memUoW) JobRepository() ports.JobRepository           { return memJobRepo{u} }
func (u *memUoW) UserRepository() ports.UserRepository         { return memUserRepo{u} }
func (u *memUoW) PaymentRepository() ports.PaymentRepository   { return memPaymentRepo{u} }
func (u *memUoW) WithdrawRepository() ports.WithdrawRepository { return memWithdrawRepo{u} }
func (u *memUoW) ReviewRepository() ports.ReviewRepository     { return memReviewRepo{u} }

type memJobRepo struct{ u *memUoW }

func (r memJobRepo) Add(_ context.Context, aggregate *job.Job) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[aggregate.ID()]; ok {
		return errs.NewIllegalTransitionError("add job", "job already exists")
	}
	if err := aggregate.AssignOrderNumber(s.nextOrder); err != nil {
		return err
	}
	previous := s.nextOrder
	s.nextOrder = s.nextOrder.Next()
	s.jobs[aggregate.ID()] = aggregate.Snapshot()

	id := aggregate.ID()
	r.u.undo = append(r.u.undo, func() {
		delete(s.jobs, id)
		s.nextOrder = previous
	})
	r.u.tracked = append(r.u.tracked, aggregate)
	return nil
}

func (r memJobRepo) Update(_ context.Context, aggregate *job.Job) error {
	return r.write(aggregate, false)
}

func (r memJobRepo) UpdateAssignment(_ context.Context, aggregate *job.Job) error {
	return r.write(aggregate, true)
}

func (r memJobRepo) write(aggregate *job.Job, assignment bool) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.jobs[aggregate.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("job", aggregate.ID())
	}
	if stored.Version != aggregate.Version() {
		return errs.NewIllegalTransitionError("update job", "job was changed concurrently")
	}
	if assignment && stored.DeliveryPartner != nil {
		return errs.NewIllegalTransitionError("select driver", "a driver is already selected")
	}

	aggregate.AdvanceVersion()
	s.jobs[aggregate.ID()] = aggregate.Snapshot()
	r.u.undo = append(r.u.undo, func() { s.jobs[stored.ID] = stored })
	r.u.tracked = append(r.u.tracked, aggregate)
	return nil
}

func (r memJobRepo) MarkAmountDeducted(_ context.Context, jobID kernel.UUID) (bool, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.jobs[jobID]
	if !ok {
		return false, errs.NewObjectNotFoundError("job", jobID)
	}
	if stored.IsAmountDeducted {
		return false, nil
	}
	updated := stored
	updated.IsAmountDeducted = true
	s.jobs[jobID] = updated
	r.u.undo = append(r.u.undo, func() { s.jobs[jobID] = stored })
	return true, nil
}

func (r memJobRepo) Get(_ context.Context, id kernel.UUID) (*job.Job, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.jobs[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("job", id)
	}
	return cloneJob(stored), nil
}

type memUserRepo struct{ u *memUoW }

func (r memUserRepo) Add(_ context.Context, aggregate *user.User) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[aggregate.ID()]; ok {
		return errs.NewIllegalTransitionError("register user", "user already exists")
	}
	s.users[aggregate.ID()] = cloneUser(aggregate)
	id := aggregate.ID()
	r.u.undo = append(r.u.undo, func() { delete(s.users, id) })
	return nil
}

func (r memUserRepo) Update(_ context.Context, aggregate *user.User) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[aggregate.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("user", aggregate.ID())
	}
	s.users[aggregate.ID()] = cloneUser(aggregate)
	r.u.undo = append(r.u.undo, func() { s.users[stored.ID()] = stored })
	return nil
}

func (r memUserRepo) Get(_ context.Context, id kernel.UUID) (*user.User, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("user", id)
	}
	return cloneUser(stored), nil
}

func (r memUserRepo) GetByPaymentAccount(_ context.Context, accountID string) (*user.User, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stored := range s.users {
		if ref, ok := stored.PaymentAccountID(); ok && ref == accountID {
			return cloneUser(stored), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("payment account", accountID)
}

type memPaymentRepo struct{ u *memUoW }

func (r memPaymentRepo) Add(_ context.Context, entry *payment.Entry) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := entry.Refs().PaymentIntentRef
	for _, stored := range s.entries {
		if ref != "" && stored.TransactionType == payment.CustomerDeduction &&
			entry.TransactionType() == payment.CustomerDeduction && stored.Refs.PaymentIntentRef == ref {
			return errs.NewIllegalTransitionError("record payment", "payment intent is already recorded")
		}
	}
	s.entries = append(s.entries, entry.Snapshot())
	n := len(s.entries) - 1
	r.u.undo = append(r.u.undo, func() { s.entries = s.entries[:n] })
	r.u.tracked = append(r.u.tracked, entry)
	return nil
}

func (r memPaymentRepo) Get(_ context.Context, id kernel.UUID) (*payment.Entry, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stored := range s.entries {
		if stored.ID.IsEqual(id) {
			return cloneEntry(stored), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("payment", id)
}

func (r memPaymentRepo) find(match func(payment.EntrySnapshot) bool) []*payment.Entry {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*payment.Entry
	for _, stored := range s.entries {
		if match(stored) {
			out = append(out, cloneEntry(stored))
		}
	}
	return out
}

func (r memPaymentRepo) FindDeductions(_ context.Context, jobID kernel.UUID) ([]*payment.Entry, error) {
	return r.find(func(e payment.EntrySnapshot) bool {
		return e.TransactionType == payment.CustomerDeduction && e.JobID.IsEqual(jobID)
	}), nil
}

func (r memPaymentRepo) FindByPaymentIntent(_ context.Context, ref string) (*payment.Entry, error) {
	found := r.find(func(e payment.EntrySnapshot) bool {
		return e.TransactionType == payment.CustomerDeduction && e.Refs.PaymentIntentRef == ref
	})
	if len(found) == 0 {
		return nil, errs.NewObjectNotFoundError("payment intent", ref)
	}
	return found[0], nil
}

func (r memPaymentRepo) FindByCard(_ context.Context, cardRef string) (*payment.Entry, error) {
	found := r.find(func(e payment.EntrySnapshot) bool {
		return e.TransactionType == payment.CustomerDeduction && e.Refs.CardRef == cardRef
	})
	if len(found) == 0 {
		return nil, errs.NewObjectNotFoundError("card", cardRef)
	}
	return found[len(found)-1], nil
}

func (r memPaymentRepo) swap(id kernel.UUID, change func(*payment.EntrySnapshot) bool) (bool, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, stored := range s.entries {
		if !stored.ID.IsEqual(id) {
			continue
		}
		updated := stored
		if !change(&updated) {
			return false, nil
		}
		s.entries[i] = updated
		r.u.undo = append(r.u.undo, func() { s.entries[i] = stored })
		return true, nil
	}
	return false, errs.NewObjectNotFoundError("payment", id)
}

func (r memPaymentRepo) ClaimTransfer(_ context.Context, id kernel.UUID) (bool, error) {
	return r.swap(id, func(e *payment.EntrySnapshot) bool {
		if e.Transferred {
			return false
		}
		e.Transferred = true
		return true
	})
}

func (r memPaymentRepo) ReleaseTransfer(_ context.Context, id kernel.UUID) error {
	_, err := r.swap(id, func(e *payment.EntrySnapshot) bool {
		e.Transferred = false
		return true
	})
	return err
}

func (r memPaymentRepo) Resolve(_ context.Context, entry *payment.Entry) (bool, error) {
	ok, err := r.swap(entry.ID(), func(e *payment.EntrySnapshot) bool {
		if e.Status != payment.Pending {
			return false
		}
		e.Status = entry.Status()
		e.Refs = entry.Refs()
		return true
	})
	if ok {
		r.u.tracked = append(r.u.tracked, entry)
	}
	return ok, err
}

func (r memPaymentRepo) FindPendingDeductions(_ context.Context, olderThan time.Time, limit int) ([]*payment.Entry, error) {
	found := r.find(func(e payment.EntrySnapshot) bool {
		return e.TransactionType == payment.CustomerDeduction && e.Status == payment.Pending &&
			!e.CreatedAt.After(olderThan)
	})
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (r memPaymentRepo) FindUntransferredDeductions(_ context.Context, limit int) ([]*payment.Entry, error) {
	found := r.find(func(e payment.EntrySnapshot) bool {
		return e.TransactionType == payment.CustomerDeduction && e.Status == payment.Completed && !e.Transferred
	})
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

type memWithdrawRepo struct{ u *memUoW }

func (r memWithdrawRepo) Add(_ context.Context, withdraw *payment.Withdraw) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.withdraws = append(s.withdraws, withdraw)
	n := len(s.withdraws) - 1
	r.u.undo = append(r.u.undo, func() { s.withdraws = s.withdraws[:n] })
	r.u.tracked = append(r.u.tracked, withdraw)
	return nil
}

type memReviewRepo struct{ u *memUoW }

func (r memReviewRepo) Add(_ context.Context, aggregate *review.Review) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stored := range s.reviews {
		if stored.JobID().IsEqual(aggregate.JobID()) && stored.DriverID().IsEqual(aggregate.DriverID()) {
			return errs.NewIllegalTransitionError("review", "job is already reviewed")
		}
	}
	s.reviews = append(s.reviews, aggregate)
	n := len(s.reviews) - 1
	r.u.undo = append(r.u.undo, func() { s.reviews = s.reviews[:n] })
	return nil
}

// fakeProcessor mimics the processor's idempotency: a repeated key returns
// the first result without charging or transferring again.
type fakeProcessor struct {
	mu sync.Mutex

	// chargeOutcome decides each new charge; nil means it succeeds
	chargeOutcome func(req ports.ChargeRequest) (ports.ChargeResult, error)
	// transferErr, when set, fails every transfer
	transferErr error
	// retrieve overrides the status reported for a payment intent
	retrieve map[string]ports.ChargeStatus

	payoutStatus string
	payoutErr    error
	accountReady bool

	charges   map[string]ports.ChargeResult
	transfers map[string]ports.TransferRequest
	payouts   []ports.PayoutRequest
	cards     map[string][]string
	seq       int
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		retrieve:     make(map[string]ports.ChargeStatus),
		charges:      make(map[string]ports.ChargeResult),
		transfers:    make(map[string]ports.TransferRequest),
		cards:        make(map[string][]string),
		payoutStatus: "pending",
	}
}

func (p *fakeProcessor) next(prefix string) string {
	p.seq++
	return fmt.Sprintf("%s_%d", prefix, p.seq)
}

func (p *fakeProcessor) DefaultPaymentMethod(_ context.Context, customerRef string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cards := p.cards[customerRef]
	if len(cards) == 0 {
		return "", ports.ErrNoPaymentMethod
	}
	return cards[0], nil
}

func (p *fakeProcessor) Charge(ctx context.Context, req ports.ChargeRequest) (ports.ChargeResult, error) {
	p.mu.Lock()
	if result, ok := p.charges[req.IdempotencyKey]; ok {
		p.mu.Unlock()
		return result, nil
	}
	outcome := p.chargeOutcome
	p.mu.Unlock()

	result := ports.ChargeResult{Status: ports.ChargeSucceeded}
	if outcome != nil {
		var err error
		if result, err = outcome(req); err != nil {
			return ports.ChargeResult{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return ports.ChargeResult{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if first, ok := p.charges[req.IdempotencyKey]; ok {
		return first, nil
	}
	if result.PaymentIntentRef == "" {
		result.PaymentIntentRef = p.next("pi")
	}
	if result.ChargeRef == "" && result.Status == ports.ChargeSucceeded {
		result.ChargeRef = p.next("ch")
	}
	p.charges[req.IdempotencyKey] = result
	return result, nil
}

func (p *fakeProcessor) RetrieveCharge(_ context.Context, ref string) (ports.ChargeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if status, ok := p.retrieve[ref]; ok {
		return ports.ChargeResult{PaymentIntentRef: ref, ChargeRef: "ch_" + ref, Status: status}, nil
	}
	for _, result := range p.charges {
		if result.PaymentIntentRef == ref {
			return result, nil
		}
	}
	return ports.ChargeResult{}, errs.NewObjectNotFoundError("payment intent", ref)
}

func (p *fakeProcessor) Transfer(_ context.Context, req ports.TransferRequest) (ports.TransferResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.transferErr != nil {
		return ports.TransferResult{}, p.transferErr
	}
	if _, ok := p.transfers[req.IdempotencyKey]; !ok {
		p.transfers[req.IdempotencyKey] = req
	}
	return ports.TransferResult{TransferRef: "tr_" + req.IdempotencyKey}, nil
}

func (p *fakeProcessor) Payout(_ context.Context, req ports.PayoutRequest) (ports.PayoutResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payouts = append(p.payouts, req)
	if p.payoutErr != nil {
		return ports.PayoutResult{}, p.payoutErr
	}
	return ports.PayoutResult{PayoutRef: p.next("po"), Status: p.payoutStatus}, nil
}

func (p *fakeProcessor) Balance(context.Context, string) (ports.Balance, error) {
	return ports.Balance{}, nil
}

func (p *fakeProcessor) CreateCustomer(context.Context, ports.CustomerRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next("cus"), nil
}

func (p *fakeProcessor) AttachCard(_ context.Context, customerRef, paymentMethodRef string, makeDefault bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if makeDefault {
		p.cards[customerRef] = append([]string{paymentMethodRef}, p.cards[customerRef]...)
		return nil
	}
	p.cards[customerRef] = append(p.cards[customerRef], paymentMethodRef)
	return nil
}

func (p *fakeProcessor) CreateConnectedAccount(context.Context, string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next("acct"), nil
}

func (p *fakeProcessor) CreateOnboardingLink(_ context.Context, accountRef, _, _ string) (string, error) {
	return "https://connect.example.com/setup/" + accountRef, nil
}

func (p *fakeProcessor) AccountReady(context.Context, string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accountReady, nil
}

func (p *fakeProcessor) chargeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.charges)
}

func (p *fakeProcessor) transferRequests() []ports.TransferRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.TransferRequest, 0, len(p.transfers))
	for _, req := range p.transfers {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IdempotencyKey < out[j].IdempotencyKey })
	return out
}

func (p *fakeProcessor) chargeKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.charges))
	for key := range p.charges {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
