package game

import (
	"log/slog"
	"net/http"

	gamesvc "boardcamp/service/game"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc gamesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /games
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("game list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /games
func (h *Controller) Create(c echo.Context) error {
	var req CreateGameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	row, err := h.Svc.Create(c.Request().Context(), req.Name, req.Image, req.StockTotal, req.PricePerDay)
	if err != nil {
		switch gamesvc.Code(err) {
		case gamesvc.ErrInvalidInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid game data"})
		case gamesvc.ErrNameTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "game already exists"})
		default:
			h.Log.Error("game create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, row)
}
