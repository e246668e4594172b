package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
)

// accountLinker loads a user and stores the processor account the user is
// linked to. Processor calls happen between the two transactions.
type accountLinker struct {
	uowFactory UserUoWFactory
	processor  ports.PaymentProcessor
	timeout    time.Duration
}

func newAccountLinker(uowFactory UserUoWFactory, processor ports.PaymentProcessor, timeout time.Duration) accountLinker {
	if timeout <= 0 {
		timeout = DefaultProcessorTimeout
	}
	return accountLinker{
		uowFactory: uowFactory,
		processor:  processor,
		timeout:    timeout,
	}
}

func (l accountLinker) withUser(
	ctx context.Context,
	id kernel.UUID,
	role user.Role,
	action string,
	fn func(repo ports.UserRepository, u *user.User) error,
) error {
	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.UserRepository()
	u, err := loadActor(ctx, repo, id, role, action)
	if err != nil {
		return err
	}
	if err = fn(repo, u); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// ensureAccount returns the user's processor account, creating and linking
// one through create when none exists yet.
func (l accountLinker) ensureAccount(
	ctx context.Context,
	id kernel.UUID,
	role user.Role,
	action string,
	create func(ctx context.Context, u *user.User) (string, error),
) (*user.User, string, error) {
	var current *user.User
	err := l.withUser(ctx, id, role, action, func(_ ports.UserRepository, u *user.User) error {
		current = u
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if ref, ok := current.PaymentAccountID(); ok {
		return current, ref, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ref, err := create(callCtx, current)
	if err != nil {
		return nil, "", err
	}

	err = l.withUser(ctx, id, role, action, func(repo ports.UserRepository, u *user.User) error {
		if err := u.LinkPaymentAccount(ref); err != nil {
			return err
		}
		current = u
		return repo.Update(ctx, u)
	})
	if err != nil {
		return nil, "", err
	}
	return current, ref, nil
}
