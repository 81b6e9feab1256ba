package backend

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jo-hoe/emodi/internal/backend/database"
	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/core"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type APIService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
	tracer      trace.Tracer
}

type TransformRequest struct {
	Team    string `json:"team" validate:"required"`
	Command string `json:"command" validate:"required"`
}

type EmojiRequest struct {
	URL string `json:"url" validate:"required"`
}

type PublishResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
		config:      config,
		tracer:      otel.Tracer("github.com/jo-hoe/emodi/backend"),
	}
}

func (service *APIService) SetRoutes(e *echo.Echo) {
	e.Use(service.metricsMiddleware, service.tracingMiddleware)

	// Set probe route
	e.GET("/probe", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "API Service is running")
	})
	e.GET("/metrics", echo.WrapHandler(service.coreService.Metrics().Handler()))

	e.POST("/api/messages", service.messageHandler)
	e.POST("/api/transform", service.transformHandler)
	e.GET("/api/filters", service.listFiltersHandler)

	e.GET("/api/emojis/:team", service.listEmojisHandler)
	e.PUT("/api/emojis/:team/:name", service.putEmojiHandler)
	e.DELETE("/api/emojis/:team/:name", service.deleteEmojiHandler)

	e.GET("/published/:id", service.publishedHandler)
}

func (service *APIService) metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)

		status := ctx.Response().Status
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
		} else if err != nil {
			status = http.StatusInternalServerError
		}
		route := ctx.Path()
		if route == "" {
			route = "unmatched"
		}
		service.coreService.Metrics().ObserveRequest(ctx.Request().Method, route, status, time.Since(start))
		return err
	}
}

func (service *APIService) tracingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := ctx.Request()
		spanName := req.Method + " " + ctx.Path()
		spanCtx, span := service.tracer.Start(req.Context(), spanName, trace.WithSpanKind(trace.SpanKindServer))
		span.SetAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.route", ctx.Path()),
			attribute.String("http.target", req.URL.Path),
		)
		defer span.End()

		ctx.SetRequest(req.WithContext(spanCtx))
		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
}

func (service *APIService) messageHandler(ctx echo.Context) error {
	var msg core.Message
	if err := ctx.Bind(&msg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "received malformed request body")
	}
	if err := ctx.Validate(&msg); err != nil {
		return err
	}

	reply, err := service.coreService.HandleMessage(ctx.Request().Context(), msg)
	if err != nil {
		slog.Error("messageHandler: failed to handle message", "team", msg.Team, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to handle message")
	}
	if reply == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusOK, reply)
}

// transformHandler answers with the encoded result, or with its public URL
// when the publish query parameter is true.
func (service *APIService) transformHandler(ctx echo.Context) error {
	var request TransformRequest
	if err := ctx.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "received malformed request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	result, err := service.coreService.Transform(reqCtx, request.Team, request.Command)
	if err != nil {
		return transformError(ctx, err)
	}

	publish, _ := strconv.ParseBool(ctx.QueryParam("publish"))
	if publish {
		url, err := service.coreService.Publish(reqCtx, result)
		if err != nil {
			slog.Error("transformHandler: failed to publish result", "team", request.Team, "error", err)
			return transformError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, PublishResponse{URL: url})
	}

	data, contentType, err := emoji.Encode(result)
	if err != nil {
		return transformError(ctx, err)
	}
	return ctx.Blob(http.StatusOK, contentType, data)
}

func transformError(ctx echo.Context, err error) error {
	e := filterstructure.AsError(err)
	status := http.StatusBadRequest
	switch e.Kind {
	case filterstructure.KindRuntime:
		status = http.StatusUnprocessableEntity
	case filterstructure.KindInternal:
		status = http.StatusInternalServerError
	}
	return ctx.JSON(status, ErrorResponse{Error: e.Kind.String(), Message: e.Message})
}

func (service *APIService) listFiltersHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, service.coreService.ListFilters())
}

func (service *APIService) listEmojisHandler(ctx echo.Context) error {
	team := ctx.Param("team")
	entries, err := service.coreService.ListEmojis(ctx.Request().Context(), team)
	if err != nil {
		slog.Error("listEmojisHandler: failed to list emojis", "team", team, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list emojis")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (service *APIService) putEmojiHandler(ctx echo.Context) error {
	team, name := ctx.Param("team"), ctx.Param("name")

	var request EmojiRequest
	if err := ctx.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "received malformed request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	err := service.coreService.PutEmoji(ctx.Request().Context(), team, name, request.URL)
	if errors.Is(err, core.ErrInvalidEmoji) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		slog.Error("putEmojiHandler: failed to store emoji", "team", team, "emoji", name, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store emoji")
	}
	return ctx.JSON(http.StatusOK, database.CatalogEntry{Team: team, Name: name, URL: request.URL})
}

func (service *APIService) deleteEmojiHandler(ctx echo.Context) error {
	team, name := ctx.Param("team"), ctx.Param("name")

	err := service.coreService.DeleteEmoji(ctx.Request().Context(), team, name)
	if errors.Is(err, database.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "emoji not found")
	}
	if err != nil {
		slog.Error("deleteEmojiHandler: failed to delete emoji", "team", team, "emoji", name, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete emoji")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (service *APIService) publishedHandler(ctx echo.Context) error {
	id := ctx.Param("id")

	published, err := service.coreService.GetPublished(ctx.Request().Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}
	if err != nil {
		slog.Error("publishedHandler: failed to load image", "image_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load image")
	}

	// Published results never change
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, published.ContentType, published.Data)
}
