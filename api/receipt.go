package api

import (
	"strconv"
	"time"

	"accounting/costing"
	"accounting/database"
	"accounting/models"

	"github.com/gin-gonic/gin"
)

// ReceiptHandler 收款单处理器
type ReceiptHandler struct{}

// NewReceiptHandler 创建收款单处理器
func NewReceiptHandler() *ReceiptHandler {
	return &ReceiptHandler{}
}

// CreateReceiptRequest 创建收款单请求
type CreateReceiptRequest struct {
	ClientID          uint    `json:"client_id" binding:"required" example:"1"`
	Amount            float64 `json:"amount" binding:"required,gt=0" example:"36000"`
	ServiceMonth      string  `json:"service_month" example:"2024-06"`
	ServiceStartMonth string  `json:"service_start_month" example:"2024-01"`
	ServiceEndMonth   string  `json:"service_end_month" example:"2024-12"`
	Description       string  `json:"description" example:"年度记帐服务"`
	ReceivedAt        string  `json:"received_at" example:"2024-06-05"`
}

// UpdateReceiptRequest 更新收款单请求
type UpdateReceiptRequest struct {
	Amount      float64 `json:"amount" binding:"omitempty,gt=0"`
	Status      string  `json:"status" binding:"omitempty,oneof=pending paid cancelled"`
	Description string  `json:"description"`
}

// validateServicePeriod 校验服务期间：单月认列与跨月认列二选一
func validateServicePeriod(req *CreateReceiptRequest) string {
	hasMonth := req.ServiceMonth != ""
	hasSpan := req.ServiceStartMonth != "" || req.ServiceEndMonth != ""

	if hasMonth == hasSpan {
		return "服务期间需择一填写：单月认列或跨月认列起讫"
	}
	if hasMonth {
		if _, _, err := costing.ParseYearMonth(req.ServiceMonth); err != nil {
			return "单月认列格式错误，应为 2006-01"
		}
		return ""
	}
	if req.ServiceStartMonth == "" || req.ServiceEndMonth == "" {
		return "跨月认列需同时填写起始月与结束月"
	}
	if _, err := costing.MonthCount(req.ServiceStartMonth, req.ServiceEndMonth); err != nil {
		return "跨月认列起讫错误：" + err.Error()
	}
	return ""
}

// Create 创建收款单
// @Summary 创建收款单
// @Description 创建一笔客户收款，服务期间可为单月或跨月
// @Tags 收款单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReceiptRequest true "收款单信息"
// @Success 200 {object} Response{data=models.Receipt} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/receipts [post]
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if msg := validateServicePeriod(&req); msg != "" {
		BadRequest(c, msg)
		return
	}

	var client models.Client
	if err := database.DB.First(&client, req.ClientID).Error; err != nil {
		BadRequest(c, "客户不存在")
		return
	}

	receipt := models.Receipt{
		ClientID:    req.ClientID,
		Amount:      req.Amount,
		Description: req.Description,
		Status:      models.ReceiptStatusPending,
	}
	if req.ServiceMonth != "" {
		receipt.ServiceMonth = &req.ServiceMonth
	} else {
		receipt.ServiceStartMonth = &req.ServiceStartMonth
		receipt.ServiceEndMonth = &req.ServiceEndMonth
	}
	if req.ReceivedAt != "" {
		t, err := time.ParseInLocation("2006-01-02", req.ReceivedAt, time.Local)
		if err != nil {
			BadRequest(c, "收款日格式错误，应为: 2006-01-02")
			return
		}
		receipt.ReceivedAt = &t
		receipt.Status = models.ReceiptStatusPaid
	}

	if err := database.DB.Create(&receipt).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建收款单失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", receipt)
}

// List 获取收款单列表
// @Summary 获取收款单列表
// @Description 分页获取收款单，支持按客户、状态、服务月份筛选
// @Tags 收款单
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param client_id query int false "客户ID"
// @Param status query string false "状态筛选"
// @Param service_month query string false "服务月份 (2024-06)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Receipt}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/receipts [get]
func (h *ReceiptHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	query := database.DB.Model(&models.Receipt{})
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if ym := c.Query("service_month"); ym != "" {
		query = query.Where("service_month = ?", ym)
	}

	var total int64
	query.Count(&total)

	var receipts []models.Receipt
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&receipts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询收款单失败"))
		return
	}

	Success(c, PageResponse{Total: total, Page: page, PageSize: pageSize, List: receipts})
}

// Update 更新收款单
// @Summary 更新收款单
// @Description 更新收款单金额、状态或描述；作废请将状态改为 cancelled
// @Tags 收款单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "收款单ID"
// @Param request body UpdateReceiptRequest true "更新信息"
// @Success 200 {object} Response{data=models.Receipt} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "收款单不存在"
// @Router /api/v1/receipts/{id} [put]
func (h *ReceiptHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var receipt models.Receipt
	if err := database.DB.First(&receipt, id).Error; err != nil {
		NotFound(c, "收款单不存在")
		return
	}

	var req UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Amount > 0 {
		receipt.Amount = req.Amount
	}
	if req.Status != "" {
		receipt.Status = req.Status
	}
	if req.Description != "" {
		receipt.Description = req.Description
	}

	if err := database.DB.Save(&receipt).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新收款单失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", receipt)
}

// Delete 删除收款单（软删除）
// @Summary 删除收款单
// @Description 软删除收款单，历史报表不再包含该笔
// @Tags 收款单
// @Produce json
// @Security BearerAuth
// @Param id path int true "收款单ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "收款单不存在"
// @Router /api/v1/receipts/{id} [delete]
func (h *ReceiptHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var receipt models.Receipt
	if err := database.DB.First(&receipt, id).Error; err != nil {
		NotFound(c, "收款单不存在")
		return
	}

	if err := database.DB.Delete(&receipt).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除收款单失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
