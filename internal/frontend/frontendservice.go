package frontend

import (
	"encoding/base64"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"text/template"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName = "index.html"
	mimeSVG      = "image/svg+xml"
)

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

type indexData struct {
	Team      string
	TeamQuery string
	Filters   []core.FilterInfo
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	// Create template renderer
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.rootRedirectHandler) // Redirect root to index.html
	e.GET("/"+MainPageName, service.indexHandler)
	e.POST("/htmx/transform", service.htmxTransformHandler)

	// Routes for listing and deleting custom emoji of a team
	e.GET("/htmx/emojis", service.htmxListEmojisHandler)
	e.DELETE("/htmx/emojis/:team/:name", service.htmxDeleteEmojiHandler)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	team := ctx.QueryParam("team")
	data := indexData{
		Team:      html.EscapeString(team),
		TeamQuery: url.QueryEscape(team),
		Filters:   service.coreService.ListFilters(),
	}
	return ctx.Render(http.StatusOK, MainPageName, data)
}

func (service *FrontendService) htmxTransformHandler(ctx echo.Context) error {
	team := strings.TrimSpace(ctx.FormValue("team"))
	command := ctx.FormValue("command")
	if team == "" || strings.TrimSpace(command) == "" {
		return ctx.HTML(http.StatusOK, `<p>Team and command are required.</p>`)
	}

	result, err := service.coreService.Transform(ctx.Request().Context(), team, command)
	if err != nil {
		slog.Info("htmxTransformHandler: transformation failed", "team", team, "error", err)
		return ctx.HTML(http.StatusOK, errorHTML(err))
	}

	data, contentType, err := emoji.Encode(result)
	if err != nil {
		slog.Error("htmxTransformHandler: failed to encode result", "team", team, "error", err)
		return ctx.HTML(http.StatusOK, errorHTML(err))
	}

	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, fmt.Sprintf(`<figure>
	<img src="data:%s;base64,%s" alt="%s">
	<figcaption>%s, %d frame(s), %d bytes</figcaption>
</figure>`, contentType, base64.StdEncoding.EncodeToString(data), html.EscapeString(command),
		result.Kind(), result.FrameCount(), len(data)))
}

func errorHTML(err error) string {
	e := filterstructure.AsError(err)
	return fmt.Sprintf(`<p class="error"><strong>%s</strong>: %s</p>`, e.Kind, html.EscapeString(e.Message))
}

func (service *FrontendService) htmxListEmojisHandler(ctx echo.Context) error {
	team := strings.TrimSpace(ctx.QueryParam("team"))
	listHTML, err := service.buildEmojiListHTML(ctx, team)
	if err != nil {
		slog.Error("htmxListEmojisHandler: failed to list emojis",
			"status", http.StatusInternalServerError, "team", team, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list emojis")
	}

	// Prevent caching so the latest catalog is always shown
	service.setNoCache(ctx)

	return ctx.HTML(http.StatusOK, listHTML)
}

func (service *FrontendService) htmxDeleteEmojiHandler(ctx echo.Context) error {
	team, name := ctx.Param("team"), ctx.Param("name")

	if err := service.coreService.DeleteEmoji(ctx.Request().Context(), team, name); err != nil {
		slog.Error("htmxDeleteEmojiHandler: failed to delete emoji",
			"status", http.StatusInternalServerError, "team", team, "emoji", name, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to delete emoji")
	}

	listHTML, err := service.buildEmojiListHTML(ctx, team)
	if err != nil {
		slog.Error("htmxDeleteEmojiHandler: failed to list emojis after delete",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list emojis")
	}

	service.setNoCache(ctx)

	return ctx.HTML(http.StatusOK, listHTML)
}

func (service *FrontendService) buildEmojiListHTML(ctx echo.Context, team string) (string, error) {
	if team == "" {
		return `<p>Enter a team to see its custom emoji.</p>`, nil
	}
	entries, err := service.coreService.ListEmojis(ctx.Request().Context(), team)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString(`<p>No custom emoji registered yet.</p>`)
		return b.String(), nil
	}

	b.WriteString(`<ul id="emoji-items">`)
	for _, entry := range entries {
		b.WriteString(fmt.Sprintf(`<li><code>:%s:</code> %s
	<button hx-delete="/htmx/emojis/%s/%s" hx-target="#emoji-list" hx-swap="innerHTML" class="secondary">Delete</button>
</li>`, html.EscapeString(entry.Name), html.EscapeString(entry.URL),
			url.PathEscape(team), url.PathEscape(entry.Name)))
	}
	b.WriteString(`</ul>`)
	return b.String(), nil
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimeSVG, data)
}
