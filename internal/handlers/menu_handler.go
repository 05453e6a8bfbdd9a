package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/catering-booking/internal/infra/repository"
	"github.com/BruksfildServices01/catering-booking/internal/models"
	ucAppointment "github.com/BruksfildServices01/catering-booking/internal/usecase/appointment"
)

// MenuHandler manages the catalog the pricing calculator resolves selections against.
type MenuHandler struct {
	catalog  *infraRepo.CatalogGormRepository
	priceUC  *ucAppointment.UpdateCategoryPrice
	recalcUC *ucAppointment.RecalculatePricing
}

func NewMenuHandler(
	catalog *infraRepo.CatalogGormRepository,
	priceUC *ucAppointment.UpdateCategoryPrice,
	recalcUC *ucAppointment.RecalculatePricing,
) *MenuHandler {
	return &MenuHandler{
		catalog:  catalog,
		priceUC:  priceUC,
		recalcUC: recalcUC,
	}
}

// --------- Requests ---------

type CreateMenuItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
}

type UpdateMenuItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type CreateCategoryRequest struct {
	Name          string  `json:"name" binding:"required"`
	Kind          string  `json:"kind" binding:"required,oneof=main_course flat"`
	PerGuestPrice float64 `json:"per_guest_price" binding:"gte=0"`
}

type CategoryPriceRequest struct {
	PerGuestPrice *float64 `json:"per_guest_price" binding:"required"`
}

// --------- Items ---------

func (h *MenuHandler) ListItems(c *gin.Context) {
	f := infraRepo.ItemFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Query:    strings.TrimSpace(c.Query("query")),
	}

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		v := true
		f.Active = &v
	case "false":
		v := false
		f.Active = &v
	}

	items, err := h.catalog.ListItems(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_menu_items"})
		return
	}

	httpresp.List(c, items)
}

func (h *MenuHandler) CreateItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	item := models.MenuItem{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Active:      true,
	}

	if err := h.catalog.SaveItem(c.Request.Context(), &item); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, item)
}

func (h *MenuHandler) UpdateItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return
	}

	item, err := h.catalog.GetItem(c.Request.Context(), uint(id))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := h.catalog.SaveItem(c.Request.Context(), item); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, item)
}

// --------- Categories ---------

func (h *MenuHandler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_categories"})
		return
	}

	httpresp.List(c, cats)
}

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	cat := models.MenuCategory{
		Name:          req.Name,
		Kind:          req.Kind,
		PerGuestPrice: req.PerGuestPrice,
	}

	if err := h.catalog.SaveCategory(c.Request.Context(), &cat); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, cat)
}

// SetCategoryPrice changes the rate and reprices every open booking that uses the category.
func (h *MenuHandler) SetCategoryPrice(c *gin.Context) {
	var req CategoryPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	report, err := h.priceUC.Execute(c.Request.Context(), actorFrom(c), c.Param("name"), *req.PerGuestPrice)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, report)
}

// Recalculate reprices open bookings against the current catalog. ?category= narrows it.
func (h *MenuHandler) Recalculate(c *gin.Context) {
	report, err := h.recalcUC.Execute(c.Request.Context(), actorFrom(c), strings.TrimSpace(c.Query("category")))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, report)
}
