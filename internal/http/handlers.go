package http

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/presenter"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/service"
)

const pageTitle = "Electricity Carbon Intensity and Power Breakdown Analysis"

//go:embed templates/*.html
var templateFS embed.FS

// Looker runs one lookup per submission.
type Looker interface {
	Lookup(ctx context.Context, creds service.Credentials) domain.Report
}

type pageData struct {
	Title string
	Zone  string
	View  presenter.View
}

type handlers struct {
	svcs Looker
	tmpl *template.Template
}

// NewApp builds the dashboard server with its middleware and routes.
func NewApp(svcs Looker) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "grid-carbon-dashboard",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestLogger())
	Register(app, svcs)
	return app
}

func Register(app *fiber.App, svcs Looker) {
	funcMap := template.FuncMap{
		"toJSON": toJSON,
		"dict":   dict,
	}
	h := &handlers{
		svcs: svcs,
		tmpl: template.Must(template.New("base").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")),
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/", h.dashboard)
	app.Get("/dashboard", h.dashboard)
	app.Post("/dashboard", h.lookup)
}

// dashboard shows the empty form with the input prompt.
func (h *handlers) dashboard(c *fiber.Ctx) error {
	return h.render(c, pageData{
		Title: pageTitle,
		View:  presenter.View{Prompt: service.PromptMissingInput},
	})
}

// lookup handles one form submission. The API key only arrives in the POST
// body and is never written back to the page.
func (h *handlers) lookup(c *fiber.Ctx) error {
	creds := service.Credentials{
		APIKey: c.FormValue("api_key"),
		Zone:   c.FormValue("zone"),
	}
	report := h.svcs.Lookup(c.UserContext(), creds)

	return h.render(c, pageData{
		Title: pageTitle,
		Zone:  report.Zone,
		View:  presenter.Present(report),
	})
}

func (h *handlers) render(c *fiber.Ctx, data pageData) error {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		log.Error().Err(err).Msg("render error")
		return c.Status(fiber.StatusInternalServerError).SendString("template error")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}

// dict pairs up alternating keys and values for sub-template arguments.
func dict(kv ...interface{}) (map[string]interface{}, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func toJSON(v interface{}) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("chart encode failed")
		return template.JS("null")
	}
	return template.JS(b)
}
