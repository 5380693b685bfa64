package api

import (
	"accounting/database"
	"accounting/models"

	"github.com/gin-gonic/gin"
)

// OverheadHandler 间接成本处理器
type OverheadHandler struct{}

// NewOverheadHandler 创建间接成本处理器
func NewOverheadHandler() *OverheadHandler {
	return &OverheadHandler{}
}

// CreateOverheadTypeRequest 创建间接成本类型请求
type CreateOverheadTypeRequest struct {
	Name             string `json:"name" binding:"required,max=50" example:"办公室房租"`
	AllocationMethod string `json:"allocation_method" binding:"required,oneof=per_employee per_hour per_revenue" example:"per_employee"`
}

// UpdateOverheadTypeRequest 更新间接成本类型请求
type UpdateOverheadTypeRequest struct {
	Name             string `json:"name" binding:"omitempty,max=50"`
	AllocationMethod string `json:"allocation_method" binding:"omitempty,oneof=per_employee per_hour per_revenue"`
	IsActive         *bool  `json:"is_active"`
}

// CreateOverheadCostRequest 创建月度间接成本请求
type CreateOverheadCostRequest struct {
	CostTypeID uint    `json:"cost_type_id" binding:"required" example:"1"`
	Year       int     `json:"year" binding:"required,min=2000,max=2100" example:"2024"`
	Month      int     `json:"month" binding:"required,min=1,max=12" example:"6"`
	Amount     float64 `json:"amount" binding:"required,gt=0" example:"50000"`
	Note       string  `json:"note" example:"六月房租"`
}

// CopyOverheadRequest 复制上月间接成本请求
type CopyOverheadRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100" example:"2024"`
	Month int `json:"month" binding:"required,min=1,max=12" example:"7"`
}

// ListTypes 获取间接成本类型列表
// @Summary 获取间接成本类型列表
// @Description 获取全部间接成本类型及其分摊方式
// @Tags 间接成本
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.OverheadCostType} "获取成功"
// @Router /api/v1/overheads/types [get]
func (h *OverheadHandler) ListTypes(c *gin.Context) {
	var types []models.OverheadCostType
	if err := database.DB.Order("id").Find(&types).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询间接成本类型失败"))
		return
	}
	Success(c, types)
}

// CreateType 创建间接成本类型
// @Summary 创建间接成本类型
// @Description 管理员新增间接成本类型并指定分摊方式
// @Tags 间接成本
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOverheadTypeRequest true "类型信息"
// @Success 200 {object} Response{data=models.OverheadCostType} "创建成功"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/overheads/types [post]
func (h *OverheadHandler) CreateType(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var req CreateOverheadTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	costType := models.OverheadCostType{
		Name:             req.Name,
		AllocationMethod: req.AllocationMethod,
		IsActive:         true,
	}
	if err := database.DB.Create(&costType).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建间接成本类型失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", costType)
}

// UpdateType 更新间接成本类型
// @Summary 更新间接成本类型
// @Description 管理员调整类型名称、分摊方式或停用类型
// @Tags 间接成本
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类型ID"
// @Param request body UpdateOverheadTypeRequest true "更新信息"
// @Success 200 {object} Response{data=models.OverheadCostType} "更新成功"
// @Failure 403 {object} Response "无权限"
// @Failure 404 {object} Response "类型不存在"
// @Router /api/v1/overheads/types/{id} [put]
func (h *OverheadHandler) UpdateType(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	id := c.Param("id")
	var costType models.OverheadCostType
	if err := database.DB.First(&costType, id).Error; err != nil {
		NotFound(c, "间接成本类型不存在")
		return
	}

	var req UpdateOverheadTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Name != "" {
		costType.Name = req.Name
	}
	if req.AllocationMethod != "" {
		costType.AllocationMethod = req.AllocationMethod
	}
	if req.IsActive != nil {
		costType.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&costType).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新间接成本类型失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", costType)
}

// CreateCost 创建月度间接成本
// @Summary 创建月度间接成本
// @Description 管理员登记某月某类型的间接成本金额
// @Tags 间接成本
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOverheadCostRequest true "成本信息"
// @Success 200 {object} Response{data=models.MonthlyOverheadCost} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/overheads/costs [post]
func (h *OverheadHandler) CreateCost(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var req CreateOverheadCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var costType models.OverheadCostType
	if err := database.DB.First(&costType, req.CostTypeID).Error; err != nil {
		BadRequest(c, "间接成本类型不存在")
		return
	}

	cost := models.MonthlyOverheadCost{
		CostTypeID: req.CostTypeID,
		Year:       req.Year,
		Month:      req.Month,
		Amount:     req.Amount,
		Note:       req.Note,
	}
	if err := database.DB.Create(&cost).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建月度间接成本失败"))
		return
	}
	database.DB.Preload("CostType").First(&cost, cost.ID)

	SuccessWithMessage(c, "创建成功", cost)
}

// ListCosts 获取月度间接成本列表
// @Summary 获取月度间接成本列表
// @Description 按年月获取间接成本明细
// @Tags 间接成本
// @Produce json
// @Security BearerAuth
// @Param year query int true "年份"
// @Param month query int true "月份"
// @Success 200 {object} Response{data=[]models.MonthlyOverheadCost} "获取成功"
// @Router /api/v1/overheads/costs [get]
func (h *OverheadHandler) ListCosts(c *gin.Context) {
	year, month, ok := parseYearMonthQuery(c)
	if !ok {
		return
	}

	var costs []models.MonthlyOverheadCost
	if err := database.DB.Preload("CostType").
		Where("year = ? AND month = ?", year, month).
		Order("cost_type_id").Find(&costs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询月度间接成本失败"))
		return
	}

	Success(c, costs)
}

// DeleteCost 删除月度间接成本（软删除）
// @Summary 删除月度间接成本
// @Description 管理员软删除某笔月度间接成本
// @Tags 间接成本
// @Produce json
// @Security BearerAuth
// @Param id path int true "成本ID"
// @Success 200 {object} Response "删除成功"
// @Failure 403 {object} Response "无权限"
// @Failure 404 {object} Response "成本记录不存在"
// @Router /api/v1/overheads/costs/{id} [delete]
func (h *OverheadHandler) DeleteCost(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	id := c.Param("id")
	var cost models.MonthlyOverheadCost
	if err := database.DB.First(&cost, id).Error; err != nil {
		NotFound(c, "成本记录不存在")
		return
	}

	if err := database.DB.Delete(&cost).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除月度间接成本失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// CopyFromPreviousMonth 复制上月间接成本
// @Summary 复制上月间接成本
// @Description 将上月全部间接成本复制到指定月份，目标月已有记录时拒绝
// @Tags 间接成本
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CopyOverheadRequest true "目标年月"
// @Success 200 {object} Response{data=[]models.MonthlyOverheadCost} "复制成功"
// @Failure 400 {object} Response "目标月已有成本记录"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/overheads/costs/copy [post]
func (h *OverheadHandler) CopyFromPreviousMonth(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var req CopyOverheadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var existing int64
	database.DB.Model(&models.MonthlyOverheadCost{}).
		Where("year = ? AND month = ?", req.Year, req.Month).
		Count(&existing)
	if existing > 0 {
		BadRequest(c, "目标月已有间接成本记录，不可重复复制")
		return
	}

	prevYear, prevMonth := req.Year, req.Month-1
	if prevMonth == 0 {
		prevYear, prevMonth = req.Year-1, 12
	}

	var prevCosts []models.MonthlyOverheadCost
	if err := database.DB.Where("year = ? AND month = ?", prevYear, prevMonth).
		Find(&prevCosts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询上月间接成本失败"))
		return
	}
	if len(prevCosts) == 0 {
		BadRequest(c, "上月无间接成本记录可复制")
		return
	}

	copied := make([]models.MonthlyOverheadCost, 0, len(prevCosts))
	for _, prev := range prevCosts {
		copied = append(copied, models.MonthlyOverheadCost{
			CostTypeID: prev.CostTypeID,
			Year:       req.Year,
			Month:      req.Month,
			Amount:     prev.Amount,
			Note:       prev.Note,
		})
	}
	if err := database.DB.Create(&copied).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "复制间接成本失败"))
		return
	}

	SuccessWithMessage(c, "复制成功", copied)
}
