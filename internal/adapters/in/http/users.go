package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// RegisterUser handles POST /api/v1/users and returns a bearer token for the new account.
func (s *Server) RegisterUser(ctx echo.Context) error {
	var body servers.RegisterUserRequest
	if err := bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	role, err := user.ParseRole(string(body.Role))
	if err != nil {
		return s.fail(ctx, err)
	}

	userID := kernel.NewUUID()
	cmd, err := commands.NewRegisterUserCommand(userID, role, body.Name, body.Email,
		deref(body.Phone), deref(body.PhotoRef))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.commands.RegisterUser.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	token, err := s.tokens.Issue(userID, role)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusCreated, "User registered", registeredUserView{
		ID:    userID.String(),
		Role:  role.String(),
		Token: token,
	})
}

// GetCurrentUser handles GET /api/v1/users/me.
func (s *Server) GetCurrentUser(ctx echo.Context) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetUserQuery(caller.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	profile, err := s.queries.GetUser.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "User retrieved", viewUser(profile))
}

// ListNotifications handles GET /api/v1/notifications.
func (s *Server) ListNotifications(ctx echo.Context, params servers.ListNotificationsParams) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetNotificationsQuery(caller.ID, deref(params.Limit))
	if err != nil {
		return s.fail(ctx, err)
	}
	items, err := s.queries.GetNotifications.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Notifications retrieved", viewNotifications(items))
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
