package handler

import (
	"net/http"

	"lebay/internal/delivery/api/middleware"
	"lebay/internal/delivery/api/response"
	"lebay/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type CategoryHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
}

// CategoryHandler serves the category tree and category pages.
type CategoryHandler struct {
	catalogUC usecase.CatalogUsecase
}

func NewCategoryHandler(params CategoryHandlerParams) *CategoryHandler {
	return &CategoryHandler{catalogUC: params.CatalogUC}
}

type CreateCategoryRequest struct {
	Title       string     `json:"title" validate:"required,max=100"`
	Description string     `json:"description" validate:"max=1000"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// BrowseRequest holds the paging query shared by auction listings.
type BrowseRequest struct {
	Query string `query:"q" validate:"max=200"`
	Sort  string `query:"sort"`
	Page  int    `query:"page" validate:"gte=0"`
	Limit int    `query:"limit" validate:"gte=0"`
}

func (r *BrowseRequest) toInput(viewerID *uuid.UUID) *usecase.BrowseInput {
	return &usecase.BrowseInput{
		Search:   r.Query,
		Sort:     r.Sort,
		Page:     r.Page,
		Limit:    r.Limit,
		ViewerID: viewerID,
	}
}

type CategoryPageResponse struct {
	Category *CategoryView    `json:"category"`
	Auctions *AuctionPageView `json:"auctions"`
}

func (h *CategoryHandler) GetTree(c echo.Context) error {
	tree, err := h.catalogUC.GetCategoryTree(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newCategoryTreeView(tree))
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.catalogUC.CreateCategory(c.Request().Context(), &usecase.CreateCategoryInput{
		Title:       req.Title,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newCategoryView(category))
}

// GetCategoryPage lists the current auctions of one category.
func (h *CategoryHandler) GetCategoryPage(c echo.Context) error {
	categoryID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid category ID")
	}

	var req BrowseRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var viewerID *uuid.UUID
	if userID, ok := middleware.GetUserID(c); ok {
		viewerID = &userID
	}

	page, err := h.catalogUC.GetCategoryPage(c.Request().Context(), categoryID, req.toInput(viewerID))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, &CategoryPageResponse{
		Category: newCategoryView(page.Category),
		Auctions: newAuctionPageView(page.Auctions),
	})
}
