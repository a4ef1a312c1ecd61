/*
Package order - 订单 API 控制器

职责:
1. 接收 HTTP 请求，解析并校验参数（订单 ID 必须是 UUID）
2. 管理员直接放行，其他调用方先经过 order.AccessPolicy 校验
3. 调用应用服务处理业务逻辑
4. 使用 response 包统一处理响应和错误

错误处理原则:
1. 参数绑定错误: 使用 response.HandleError 直接返回 400
2. 业务错误: 使用 response.HandleAppError 自动映射状态码
*/
package order

import (
	"context"
	"net/http"
	"strings"

	"orderservice/api/ctxutil"
	"orderservice/api/middleware"
	"orderservice/api/response"
	orderapp "orderservice/application/order"
	"orderservice/domain/order"
	"orderservice/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.ApplicationService
	policy       *order.AccessPolicy
}

// NewController 创建订单控制器
func NewController(orderService *orderapp.ApplicationService, policy *order.AccessPolicy) *Controller {
	return &Controller{
		orderService: orderService,
		policy:       policy,
	}
}

// RegisterRoutes 注册订单路由，所有路由都要求已认证
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders", middleware.RequireAuthenticated())
	{
		orderGroup.POST("", c.CreateOrder)
		orderGroup.GET("", c.ListOrders)
		orderGroup.GET("/:id", c.GetOrder)
		orderGroup.PATCH("/:id", c.UpdateOrder)
		orderGroup.PATCH("/:id/status", middleware.RequireRole(middleware.RoleAdmin), c.ChangeStatus)
		orderGroup.DELETE("/:id", c.DeleteOrder)
	}
}

// CreateOrder 创建订单
// POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	p, _ := middleware.PrincipalFrom(ctx)
	if !p.IsAdmin() {
		if _, err := c.policy.CanCreate(p.ID, req.UserID); err != nil {
			response.HandleAppError(ctx, err)
			return
		}
	}

	resp, err := c.orderService.Create(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, resp, "order created successfully")
}

// GetOrder 获取订单信息
// GET /api/v1/orders/:id
func (c *Controller) GetOrder(ctx *gin.Context) {
	orderID, ok := orderIDParam(ctx)
	if !ok {
		return
	}
	reqCtx := ctxutil.WithRequestID(ctx)

	if !c.authorize(ctx, reqCtx, orderID, c.policy.CanAccess) {
		return
	}

	resp, err := c.orderService.GetByID(reqCtx, orderID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, resp, "order retrieved successfully")
}

// ListOrders 按 ID 列表或状态列表查询
// GET /api/v1/orders?ids=a,b 或 /api/v1/orders?statuses=PAID,CREATED（仅管理员）
func (c *Controller) ListOrders(ctx *gin.Context) {
	ids := queryList(ctx, "ids")
	statuses := queryList(ctx, "statuses")
	p, _ := middleware.PrincipalFrom(ctx)
	reqCtx := ctxutil.WithRequestID(ctx)

	switch {
	case ids != nil:
		for _, id := range ids {
			if _, err := uuid.Parse(id); err != nil {
				response.HandleError(ctx, err, "invalid order id: "+id, http.StatusBadRequest)
				return
			}
		}
		if !p.IsAdmin() {
			allowed, err := c.policy.CanAccessBatch(reqCtx, p.ID, ids)
			if err != nil {
				response.HandleAppError(ctx, err)
				return
			}
			if !allowed {
				response.HandleAppError(ctx, order.NewBatchAccessDeniedError())
				return
			}
		}
		resp, err := c.orderService.GetAllByIDs(reqCtx, ids)
		if err != nil {
			response.HandleAppError(ctx, err)
			return
		}
		response.HandleSuccess(ctx, resp, "orders retrieved successfully")

	case statuses != nil:
		if !p.IsAdmin() {
			response.HandleAppError(ctx, errors.Forbidden("only administrators may list orders by status"))
			return
		}
		resp, err := c.orderService.GetAllByStatuses(reqCtx, statuses)
		if err != nil {
			response.HandleAppError(ctx, err)
			return
		}
		response.HandleSuccess(ctx, resp, "orders retrieved successfully")

	default:
		response.HandleError(ctx, errors.BadRequest("ids or statuses is required"), "ids or statuses is required", http.StatusBadRequest)
	}
}

// UpdateOrder 整体替换订单项
// PATCH /api/v1/orders/:id
func (c *Controller) UpdateOrder(ctx *gin.Context) {
	orderID, ok := orderIDParam(ctx)
	if !ok {
		return
	}

	var req orderapp.UpdateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	reqCtx := ctxutil.WithRequestID(ctx)
	if !c.authorize(ctx, reqCtx, orderID, c.policy.CanManage) {
		return
	}

	resp, err := c.orderService.Update(reqCtx, orderID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, resp, "order updated successfully")
}

// ChangeStatus 修改订单状态（仅管理员），不校验状态流转
// PATCH /api/v1/orders/:id/status
func (c *Controller) ChangeStatus(ctx *gin.Context) {
	orderID, ok := orderIDParam(ctx)
	if !ok {
		return
	}

	var req orderapp.ChangeStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	status, ok := order.ParseStatus(req.Status)
	if !ok {
		response.HandleError(ctx, errors.BadRequest("unknown status"), "unknown status: "+req.Status, http.StatusBadRequest)
		return
	}

	resp, err := c.orderService.ChangeStatus(ctxutil.WithRequestID(ctx), orderID, status)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, resp, "order status updated successfully")
}

// DeleteOrder 删除订单及其订单项
// DELETE /api/v1/orders/:id
func (c *Controller) DeleteOrder(ctx *gin.Context) {
	orderID, ok := orderIDParam(ctx)
	if !ok {
		return
	}
	reqCtx := ctxutil.WithRequestID(ctx)

	if !c.authorize(ctx, reqCtx, orderID, c.policy.CanManage) {
		return
	}

	if err := c.orderService.Delete(reqCtx, orderID); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleNoContent(ctx)
}

type ownershipCheck func(ctx context.Context, principalID, orderID string) (bool, error)

// authorize 管理员直接放行；否则执行 check，失败时写入错误响应并返回 false
func (c *Controller) authorize(ctx *gin.Context, reqCtx context.Context, orderID string, check ownershipCheck) bool {
	p, _ := middleware.PrincipalFrom(ctx)
	if p.IsAdmin() {
		return true
	}
	if _, err := check(reqCtx, p.ID, orderID); err != nil {
		response.HandleAppError(ctx, err)
		return false
	}
	return true
}

func orderIDParam(ctx *gin.Context) (string, bool) {
	orderID := ctx.Param("id")
	if _, err := uuid.Parse(orderID); err != nil {
		response.HandleError(ctx, err, "invalid order id", http.StatusBadRequest)
		return "", false
	}
	return orderID, true
}

// queryList 支持 ?k=a,b 与 ?k=a&k=b 两种写法；参数缺失时返回 nil
func queryList(ctx *gin.Context, key string) []string {
	raw, ok := ctx.GetQueryArray(key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
