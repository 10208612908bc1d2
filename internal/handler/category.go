package handler

import (
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kakao-ledger/internal/model"
	"github.com/iliyamo/kakao-ledger/internal/queue"
	"github.com/iliyamo/kakao-ledger/internal/repository"
	"github.com/iliyamo/kakao-ledger/internal/service"
)

const categoryNotFound = "Category not found or unauthorized"

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// CategoryHandler serves /api/categories.
type CategoryHandler struct {
	Store  repository.CategoryStore
	Events *service.Events
	Errors Errors
}

func NewCategoryHandler(store repository.CategoryStore, events *service.Events, errs Errors) *CategoryHandler {
	if store == nil {
		panic("nil category store passed to NewCategoryHandler")
	}
	return &CategoryHandler{Store: store, Events: events, Errors: errs}
}

type categoryReq struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// normalize trims and validates name and color.
func (r *categoryReq) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Color = strings.TrimSpace(r.Color)
	if r.Name == "" {
		return invalid("name is required")
	}
	if utf8.RuneCountInString(r.Name) > 100 {
		return invalid("name must be at most 100 characters")
	}
	if !colorPattern.MatchString(r.Color) {
		return invalid("color must be a hex value like #FF6B6B")
	}
	return nil
}

// List handles GET /api/categories: the user's active categories by name.
func (h *CategoryHandler) List(c echo.Context) error {
	s, err := getSession(c)
	if err != nil {
		return h.Errors.respond(c, "fetch categories", categoryNotFound, err)
	}
	cats, err := h.Store.ListActive(c.Request().Context(), s.UserID)
	if err != nil {
		return h.Errors.respond(c, "fetch categories", categoryNotFound, err)
	}
	return c.JSON(http.StatusOK, cats)
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(c echo.Context) error {
	s, err := getSession(c)
	if err != nil {
		return h.Errors.respond(c, "create category", categoryNotFound, err)
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := req.normalize(); err != nil {
		return h.Errors.respond(c, "create category", categoryNotFound, err)
	}

	cat := &model.Category{UserID: s.UserID, Name: req.Name, Color: req.Color}
	if err := h.Store.Create(c.Request().Context(), cat); err != nil {
		return h.Errors.respond(c, "create category", categoryNotFound, err)
	}
	h.Events.Emit(c.Request().Context(), queue.LedgerEvent{
		Type: queue.EventCategoryCreated, UserID: s.UserID, CategoryID: cat.ID,
	})
	return c.JSON(http.StatusCreated, cat)
}

// Update handles PUT /api/categories[/:id] and changes name and color.
func (h *CategoryHandler) Update(c echo.Context) error {
	s, err := getSession(c)
	if err != nil {
		return h.Errors.respond(c, "update category", categoryNotFound, err)
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	id := resourceID(c, req.ID)
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Category ID is required"})
	}
	if err := req.normalize(); err != nil {
		return h.Errors.respond(c, "update category", categoryNotFound, err)
	}

	cat, err := h.Store.Update(c.Request().Context(), s.UserID, id, req.Name, req.Color)
	if err != nil {
		return h.Errors.respond(c, "update category", categoryNotFound, err)
	}
	h.Events.Emit(c.Request().Context(), queue.LedgerEvent{
		Type: queue.EventCategoryUpdated, UserID: s.UserID, CategoryID: cat.ID,
	})
	return c.JSON(http.StatusOK, cat)
}

// Deactivate handles PATCH /api/categories[/:id].  The row stays so past
// transactions keep their category.
func (h *CategoryHandler) Deactivate(c echo.Context) error {
	s, err := getSession(c)
	if err != nil {
		return h.Errors.respond(c, "deactivate category", categoryNotFound, err)
	}
	var req categoryReq
	// An empty body is fine when the id is in the path or query.
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	id := resourceID(c, req.ID)
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Category ID is required"})
	}

	if err := h.Store.Deactivate(c.Request().Context(), s.UserID, id); err != nil {
		return h.Errors.respond(c, "deactivate category", categoryNotFound, err)
	}
	h.Events.Emit(c.Request().Context(), queue.LedgerEvent{
		Type: queue.EventCategoryDisabled, UserID: s.UserID, CategoryID: id,
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": id})
}
