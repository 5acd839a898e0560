package httpapi

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/i474232898/weather-panel/internal/render"
	"github.com/i474232898/weather-panel/internal/store"
	"github.com/i474232898/weather-panel/internal/weather"
)

var validate = validator.New()

// SessionCookie names the cookie that carries the panel session id.
const SessionCookie = "wp_session"

// Sessions is the session store the routes read panels from.
type Sessions interface {
	Create() (uuid.UUID, *weather.Panel)
	Get(id uuid.UUID) (*weather.Panel, error)
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Sessions    Sessions
	Renderer    *render.Renderer
	NewPanel    store.PanelFactory
	DefaultCity string
	Logger      *slog.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, s *Server) {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	app.Get("/", func(c *fiber.Ctx) error {
		panel, err := s.panel(c)
		if err != nil {
			return err
		}
		return s.html(c, panel.View())
	})

	app.Post("/search", func(c *fiber.Ctx) error {
		panel, err := s.panel(c)
		if err != nil {
			return err
		}
		// fiber reuses request buffers; the query outlives this handler.
		panel.SetQuery(utils.CopyString(c.FormValue("q")))
		s.logResult("search", panel.Submit(c.UserContext()))
		return s.html(c, panel.View())
	})

	app.Post("/units/toggle", func(c *fiber.Ctx) error {
		panel, err := s.panel(c)
		if err != nil {
			return err
		}
		s.logResult("toggle units", panel.ToggleUnits(c.UserContext()))
		return s.html(c, panel.View())
	})

	v1 := app.Group("/api/v1")

	v1.Get("/panel", func(c *fiber.Ctx) error {
		panel, err := s.panel(c)
		if err != nil {
			return err
		}
		return c.JSON(newViewResponse(panel.View()))
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q := lookupQuery{
			City:  utils.CopyString(c.Query("city")),
			Units: utils.CopyString(c.Query("units", string(weather.Metric))),
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		units, err := weather.ParseUnits(q.Units)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		panel := s.NewPanel()
		if err := panel.Search(c.UserContext(), q.City, units); err != nil {
			return lookupError(err)
		}
		return c.JSON(newViewResponse(panel.View()))
	})
}

// lookupQuery holds query parameters for the stateless lookup endpoint.
type lookupQuery struct {
	City  string `validate:"required,max=100"`
	Units string `validate:"oneof=metric imperial"`
}

// panel returns the caller's panel, creating a session (and firing the
// startup search) when the request carries no known session id.
func (s *Server) panel(c *fiber.Ctx) (*weather.Panel, error) {
	if id, err := uuid.Parse(c.Cookies(SessionCookie)); err == nil {
		p, err := s.Sessions.Get(id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load session")
		}
	}

	id, p := s.Sessions.Create()
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    id.String(),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	s.Logger.Debug("session created", "session", id.String())

	if s.DefaultCity != "" {
		s.logResult("startup search", p.Start(c.UserContext(), s.DefaultCity))
	}
	return p, nil
}

func (s *Server) html(c *fiber.Ctx, v weather.View) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return s.Renderer.Render(c.Response().BodyWriter(), v)
}

// logResult logs search outcomes; failures are already part of the view.
func (s *Server) logResult(op string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, weather.ErrSuperseded):
		s.Logger.Debug(op+" superseded")
	default:
		s.Logger.Info(op+" failed", "error", err)
	}
}

func lookupError(err error) error {
	// Only statuses caused by the caller's query pass through; the rest (a bad
	// API key, provider outages) are upstream failures.
	var pe *weather.ProviderError
	if errors.As(err, &pe) && (pe.Status == fiber.StatusBadRequest || pe.Status == fiber.StatusNotFound) {
		return fiber.NewError(pe.Status, pe.Message)
	}
	if errors.Is(err, weather.ErrSuperseded) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return fiber.NewError(fiber.StatusBadGateway, weather.TransportMessage)
}

// viewResponse is the JSON form of a panel view.
type viewResponse struct {
	State     weather.Phase           `json:"state"`
	Loading   bool                    `json:"loading"`
	Query     string                  `json:"query"`
	Units     weather.Units           `json:"units"`
	TempUnit  string                  `json:"tempUnit"`
	SpeedUnit string                  `json:"speedUnit"`
	Location  string                  `json:"location,omitempty"`
	Theme     string                  `json:"theme"`
	Message   string                  `json:"message,omitempty"`
	Date      string                  `json:"date,omitempty"`
	Snapshot  *weather.Snapshot       `json:"snapshot,omitempty"`
	Forecast  []weather.ForecastEntry `json:"forecast,omitempty"`
}

func newViewResponse(v weather.View) viewResponse {
	page := render.Project(v)
	return viewResponse{
		State:     v.State.Phase(),
		Loading:   page.Loading,
		Query:     page.Query,
		Units:     page.Units,
		TempUnit:  render.TempLabel(page.Units),
		SpeedUnit: render.SpeedLabel(page.Units),
		Location:  v.Location,
		Theme:     page.Theme,
		Message:   page.Error,
		Date:      page.Date,
		Snapshot:  page.Snapshot,
		Forecast:  page.Forecast,
	}
}

// ErrorHandler is the centralized fiber error response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
