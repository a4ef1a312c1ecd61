package item

import (
	"net/http"
	"strconv"

	"orderservice/api/ctxutil"
	"orderservice/api/middleware"
	"orderservice/api/response"
	catalogapp "orderservice/application/catalog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller 商品控制器，写操作仅管理员可用
type Controller struct {
	itemService *catalogapp.ApplicationService
}

func NewController(itemService *catalogapp.ApplicationService) *Controller {
	return &Controller{itemService: itemService}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/items", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleUser))
	{
		items.GET("", c.ListItems)
		items.GET("/:id", c.GetItem)

		admin := items.Group("", middleware.RequireRole(middleware.RoleAdmin))
		admin.POST("", c.CreateItem)
		admin.PATCH("/:id", c.UpdateItem)
		admin.DELETE("/:id", c.DeleteItem)
	}
}

// CreateItem POST /api/v1/items
func (c *Controller) CreateItem(ctx *gin.Context) {
	var req catalogapp.ItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	item, err := c.itemService.Create(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, item, "item created successfully")
}

// GetItem GET /api/v1/items/:id
func (c *Controller) GetItem(ctx *gin.Context) {
	id, ok := itemIDParam(ctx)
	if !ok {
		return
	}

	item, err := c.itemService.GetByID(ctxutil.WithRequestID(ctx), id)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, item, "item retrieved successfully")
}

// ListItems GET /api/v1/items?page=1&page_size=20
func (c *Controller) ListItems(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("page_size", strconv.Itoa(catalogapp.DefaultPageSize)))

	result, err := c.itemService.List(ctxutil.WithRequestID(ctx), page, size)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandlePaginated(ctx, result.Items, response.Pagination{
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages(),
	}, "items retrieved successfully")
}

// UpdateItem PATCH /api/v1/items/:id
func (c *Controller) UpdateItem(ctx *gin.Context) {
	id, ok := itemIDParam(ctx)
	if !ok {
		return
	}
	var req catalogapp.ItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	item, err := c.itemService.Update(ctxutil.WithRequestID(ctx), id, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, item, "item updated successfully")
}

// DeleteItem DELETE /api/v1/items/:id
func (c *Controller) DeleteItem(ctx *gin.Context) {
	id, ok := itemIDParam(ctx)
	if !ok {
		return
	}
	if err := c.itemService.Delete(ctxutil.WithRequestID(ctx), id); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}

func itemIDParam(ctx *gin.Context) (string, bool) {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.HandleError(ctx, err, "invalid item id", http.StatusBadRequest)
		return "", false
	}
	return id, true
}
