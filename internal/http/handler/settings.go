package handler

import (
	"net/http"

	"erp-portal/internal/remote"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Validatable is a settings record that can check its own fields
type Validatable interface {
	remote.Record
	Validate() error
}

// SettingsHandler serves the standard CRUD routes for one settings resource
type SettingsHandler[T Validatable] struct {
	store SettingsStore[T]
	log   *zap.Logger
}

func NewSettingsHandler[T Validatable](store SettingsStore[T], log *zap.Logger) *SettingsHandler[T] {
	return &SettingsHandler[T]{store: store, log: nopIfNil(log)}
}

// Name is the resource name, also the module part of its permission keys
func (h *SettingsHandler[T]) Name() string {
	return h.store.Name()
}

func (h *SettingsHandler[T]) List(c echo.Context) error {
	items, err := h.store.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return RespondWithMappedError(c, h.log, err)
	}
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SettingsHandler[T]) Get(c echo.Context) error {
	id := c.Param(paramID)
	if id == "" {
		return respondError(c, http.StatusBadRequest, msgIDRequired)
	}

	item, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		return RespondWithMappedError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *SettingsHandler[T]) Create(c echo.Context) error {
	item, err := h.bind(c)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}

	created, err := h.store.Create(c.Request().Context(), *item)
	if err != nil {
		return RespondWithMappedError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *SettingsHandler[T]) Update(c echo.Context) error {
	id := c.Param(paramID)
	if id == "" {
		return respondError(c, http.StatusBadRequest, msgIDRequired)
	}
	item, err := h.bind(c)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}

	updated, err := h.store.Update(c.Request().Context(), id, *item)
	if err != nil {
		return RespondWithMappedError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *SettingsHandler[T]) Delete(c echo.Context) error {
	id := c.Param(paramID)
	if id == "" {
		return respondError(c, http.StatusBadRequest, msgIDRequired)
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return RespondWithMappedError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// bind decodes and validates the body. A nil item with a nil error means the
// error response has already been written.
func (h *SettingsHandler[T]) bind(c echo.Context) (*T, error) {
	var item T
	if err := bindStrictJSON(c, &item); err != nil {
		return nil, handleHTTPError(c, err)
	}
	if err := item.Validate(); err != nil {
		return nil, respondError(c, http.StatusBadRequest, err.Error())
	}
	return &item, nil
}
