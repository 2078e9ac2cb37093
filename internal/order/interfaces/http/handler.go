package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aurorajewels/storefront/internal/order/application"
	"github.com/aurorajewels/storefront/internal/order/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/middleware"
	"github.com/aurorajewels/storefront/pkg/response"
	"github.com/aurorajewels/storefront/pkg/utils"
	"github.com/gin-gonic/gin"
)

// OrderHandler HTTP 处理器
// 负责处理用户侧订单查询请求
type OrderHandler struct {
	query *application.OrderQueryService
}

// NewOrderHandler 创建 HTTP 处理器实例
func NewOrderHandler(query *application.OrderQueryService) *OrderHandler {
	return &OrderHandler{query: query}
}

// RegisterRoutes 注册路由，需要登录态
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/orders", h.ListOrders)
	router.GET("/orders/:id", h.GetOrder)
}

// ListOrders 获取当前用户的订单列表
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	offset, limit := utils.NormalizePage(page, size)

	userID := c.GetString(middleware.UserIDKey)
	orders, total, err := h.query.ListUserOrders(c.Request.Context(), userID, offset, limit)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list orders", "user_id", userID, "error", err)
		response.Error(c, "failed to list orders")
		return
	}

	response.Success(c, gin.H{"orders": orders, "total": total, "page": page, "size": limit})
}

// GetOrder 获取订单详情，归属校验失败返回 403
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "")
		return
	}

	order, err := h.query.GetOrder(c.Request.Context(), uint(id),
		c.GetString(middleware.UserIDKey), c.GetBool(middleware.IsAdminKey))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "order not found", "")
		case errors.Is(err, domain.ErrNotOwner):
			response.ErrorWithStatus(c, http.StatusForbidden, "order does not belong to you", "")
		default:
			logger.Error(c.Request.Context(), "Failed to get order", "order_id", id, "error", err)
			response.Error(c, "failed to get order")
		}
		return
	}

	response.Success(c, order)
}
