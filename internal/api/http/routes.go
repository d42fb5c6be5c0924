package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/i474232898/weatherlink-live/internal/station"
	"github.com/i474232898/weatherlink-live/internal/store"
)

var validate = validator.New()

// refreshTimeout bounds a manual refresh, retries included.
const refreshTimeout = 30 * time.Second

// RegisterRoutes wires the HTTP handlers into the Fiber app. limiter throttles
// manual refreshes; nil disables throttling.
func RegisterRoutes(app *fiber.App, service *station.Service, limiter *rate.Limiter) {
	v1 := app.Group("/api/v1")

	v1.Get("/stations", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"stations": service.ListStations(),
		})
	})

	v1.Get("/stations/:name", func(c *fiber.Ctx) error {
		state, err := lookupStation(c, service)
		if err != nil {
			return err
		}
		return c.JSON(state)
	})

	v1.Get("/stations/:name/entities", func(c *fiber.Ctx) error {
		state, err := lookupStation(c, service)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"station":   state.Station,
			"available": state.Available,
			"entities":  state.Entities,
		})
	})

	v1.Post("/stations/:name/refresh", func(c *fiber.Ctx) error {
		var req stationParams
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if limiter != nil && !limiter.Allow() {
			return fiber.NewError(fiber.StatusTooManyRequests, "refresh rate limit exceeded")
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), refreshTimeout)
		defer cancel()

		if err := service.Refresh(ctx, req.Name); err != nil {
			if errors.Is(err, station.ErrUnknownStation) {
				return fiber.NewError(fiber.StatusNotFound, "unknown station")
			}
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		state, err := service.GetStation(req.Name)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read station state")
		}
		return c.JSON(state)
	})

	v1.Get("/entities/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return fiber.NewError(fiber.StatusBadRequest, "entity id is required")
		}
		entity, err := service.GetEntity(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no entity with requested id")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch entity")
		}
		return c.JSON(entity)
	})

	v1.Get("/settings/units", func(c *fiber.Ctx) error {
		return c.JSON(unitSettings{UnitSystem: service.Units().System()})
	})

	v1.Put("/settings/units", func(c *fiber.Ctx) error {
		var req unitSettings
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		metric, err := station.ParseUnitSystem(req.UnitSystem)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		service.Units().Set(metric)
		return c.JSON(unitSettings{UnitSystem: service.Units().System()})
	})
}

// stationParams holds path parameters identifying a station.
type stationParams struct {
	Name string `validate:"required"`
}

func (p *stationParams) bind(c *fiber.Ctx) error {
	p.Name = c.Params("name")
	return validate.Struct(p)
}

type unitSettings struct {
	UnitSystem string `json:"unit_system" validate:"required,oneof=metric imperial"`
}

func lookupStation(c *fiber.Ctx, service *station.Service) (station.State, error) {
	var req stationParams
	if err := req.bind(c); err != nil {
		return station.State{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	state, err := service.GetStation(req.Name)
	if err != nil {
		if errors.Is(err, station.ErrUnknownStation) {
			return station.State{}, fiber.NewError(fiber.StatusNotFound, "unknown station")
		}
		if errors.Is(err, store.ErrNotFound) {
			return station.State{}, fiber.NewError(fiber.StatusNotFound, "no data for requested station yet")
		}
		return station.State{}, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch station")
	}
	return state, nil
}
