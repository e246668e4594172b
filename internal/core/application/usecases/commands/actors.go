package commands

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// loadActor fetches the caller and checks it holds the role the action needs.
func loadActor(
	ctx context.Context,
	repo ports.UserRepository,
	id kernel.UUID,
	role user.Role,
	action string,
) (*user.User, error) {
	actor, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role() != role {
		return nil, errs.NewAuthorizationError(action, id.String())
	}
	return actor, nil
}
