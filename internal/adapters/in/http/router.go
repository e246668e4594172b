package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// ConnectionServer takes over an upgraded websocket for a user.
type ConnectionServer interface {
	Serve(userID kernel.UUID, conn *websocket.Conn)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// openapiDoc exposes the embedded API description to the swagger UI.
type openapiDoc struct {
	once sync.Once
	spec *openapi3.T
	raw  string
	err  error
}

func (d *openapiDoc) load() {
	d.once.Do(func() {
		d.spec, d.err = servers.GetSwagger()
		if d.err != nil {
			return
		}
		var raw []byte
		raw, d.err = json.Marshal(d.spec)
		d.raw = string(raw)
	})
}

func (d *openapiDoc) ReadDoc() string {
	d.load()
	return d.raw
}

var apiDoc = &openapiDoc{}

func init() {
	swag.Register(swag.Name, apiDoc)
}

// NewRouter builds the echo instance serving the API, the websocket feed and docs.
func NewRouter(logger *slog.Logger, server *Server, tokens *TokenIssuer, hub ConnectionServer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}
		if writeErr := respondError(ctx, err); writeErr != nil {
			logger.Error("write error response", "error", writeErr)
		}
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				logger.LogAttrs(ctx.Request().Context(), slog.LevelWarn, "request", slog.Group("http", attrs...), slog.String("error", v.Error.Error()))
				return nil
			}
			logger.LogAttrs(ctx.Request().Context(), slog.LevelInfo, "request", slog.Group("http", attrs...))
			return nil
		},
	}))
	e.Use(Authenticate(tokens))

	servers.RegisterHandlers(e, server)

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.json", func(ctx echo.Context) error {
		apiDoc.load()
		if apiDoc.err != nil {
			return apiDoc.err
		}
		return ctx.JSON(http.StatusOK, apiDoc.spec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/ws", func(ctx echo.Context) error {
		return serveWebsocket(ctx, tokens, hub)
	})

	return e
}

// serveWebsocket accepts the token as a query parameter because browsers
// cannot set headers on the upgrade request.
func serveWebsocket(ctx echo.Context, tokens *TokenIssuer, hub ConnectionServer) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		raw := ctx.QueryParam("token")
		if raw == "" {
			return respondError(ctx, err)
		}
		if caller, err = tokens.Verify(raw); err != nil {
			return respondError(ctx, err)
		}
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}
	hub.Serve(caller.ID, conn)
	return nil
}
