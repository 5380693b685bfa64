package api

import (
	"sort"
	"strconv"

	"accounting/config"
	"accounting/costing"
	"accounting/database"
	"accounting/models"
	"accounting/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 成本报表处理器
type ReportHandler struct {
	cfg   *config.Config
	email *service.EmailService
}

// NewReportHandler 创建成本报表处理器
func NewReportHandler(cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		cfg:   cfg,
		email: service.NewEmailService(&cfg.Email),
	}
}

// EmployeeRateRow 员工实际时薪行
type EmployeeRateRow struct {
	UserID     uint    `json:"user_id"`
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"` // 元/小时
}

// newCalculator 以当前数据库连接与已探测的结构能力构建成本计算器
func newCalculator() *costing.Calculator {
	return costing.NewCalculator(database.DB, database.Caps)
}

// parseYearMonthQuery 解析 query 中的 year/month 或 month=2024-06，失败时写入 400 响应
func parseYearMonthQuery(c *gin.Context) (int, int, bool) {
	if ym := c.Query("month"); ym != "" && len(ym) == 7 {
		year, month, err := costing.ParseYearMonth(ym)
		if err != nil {
			BadRequest(c, err.Error())
			return 0, 0, false
		}
		return year, month, true
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		BadRequest(c, "年份错误")
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		BadRequest(c, "月份错误")
		return 0, 0, false
	}
	return year, month, true
}

// RevenueDistribution 月度营收归属报表
// @Summary 月度营收归属报表
// @Description 按工时比例将当月营收（含跨月合约按月分摊）归属到客户与员工
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param month query string true "月份 (2024-06)"
// @Success 200 {object} Response{data=costing.RevenueDistribution} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/reports/revenue-distribution [get]
func (h *ReportHandler) RevenueDistribution(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	year, month, ok := parseYearMonthQuery(c)
	if !ok {
		return
	}

	dist, err := newCalculator().MonthlyRevenueDistribution(costing.FormatYearMonth(year, month))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算营收归属失败"))
		return
	}

	Success(c, dist)
}

// LaborCost 员工月度人力成本明细
// @Summary 员工月度人力成本明细
// @Description 计算员工的月度人力成本，含底薪、薪资项目、逾期补休折现与请假扣款；普通员工仅能查询本人
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "员工ID（仅管理员可指定他人）"
// @Param month query string true "月份 (2024-06)"
// @Success 200 {object} Response{data=costing.LaborCost} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/reports/labor-cost [get]
func (h *ReportHandler) LaborCost(c *gin.Context) {
	currentUser, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "未登录")
		return
	}

	year, month, ok := parseYearMonthQuery(c)
	if !ok {
		return
	}

	targetUserID := currentUser.ID
	if currentUser.IsAdmin {
		if uid := c.Query("user_id"); uid != "" {
			parsed, err := strconv.ParseUint(uid, 10, 32)
			if err != nil {
				BadRequest(c, "员工ID错误")
				return
			}
			targetUserID = uint(parsed)
		}
	}

	cost, err := newCalculator().EmployeeLaborCost(targetUserID, year, month)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算人力成本失败"))
		return
	}

	Success(c, cost)
}

// OverheadAllocation 月度间接成本分摊报表
// @Summary 月度间接成本分摊报表
// @Description 按类型的分摊方式将当月间接成本分摊到员工与客户
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param month query string true "月份 (2024-06)"
// @Param method query string false "仅计算单一分摊方式 per_employee/per_hour/per_revenue"
// @Success 200 {object} Response{data=costing.OverheadAllocation} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/reports/overhead-allocation [get]
func (h *ReportHandler) OverheadAllocation(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	year, month, ok := parseYearMonthQuery(c)
	if !ok {
		return
	}

	alloc, err := newCalculator().MonthlyOverheadAllocation(year, month, c.Query("method"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	Success(c, alloc)
}

// HourlyRates 员工实际时薪报表
// @Summary 员工实际时薪报表
// @Description 计算每位在职员工的月度实际时薪（人力成本加间接成本分摊，除以当月工时）
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param month query string true "月份 (2024-06)"
// @Success 200 {object} Response{data=[]EmployeeRateRow} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/reports/hourly-rates [get]
func (h *ReportHandler) HourlyRates(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	year, month, ok := parseYearMonthQuery(c)
	if !ok {
		return
	}

	rates, err := newCalculator().AllEmployeesActualHourlyRate(year, month, costing.FormatYearMonth(year, month))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算实际时薪失败"))
		return
	}

	userIDs := make([]uint, 0, len(rates))
	for userID := range rates {
		userIDs = append(userIDs, userID)
	}
	nameByID := make(map[uint]string, len(userIDs))
	if len(userIDs) > 0 {
		var users []models.User
		database.DB.Where("id IN ?", userIDs).Find(&users)
		for _, u := range users {
			nameByID[u.ID] = u.Name
		}
	}

	rows := make([]EmployeeRateRow, 0, len(rates))
	for userID, rateCents := range rates {
		rows = append(rows, EmployeeRateRow{
			UserID:     userID,
			Name:       nameByID[userID],
			HourlyRate: costing.CentsToUnits(rateCents),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })

	Success(c, rows)
}

// ClientCosts 客户别成本汇总报表
// @Summary 客户别成本汇总报表
// @Description 汇总各客户的工时、成本、当月营收与毛利，含任务别明细
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param month query string true "月份 (2024-06)"
// @Param method query string false "间接成本仅计算单一分摊方式"
// @Success 200 {object} Response{data=[]costing.ClientCostRow} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/reports/client-costs [get]
func (h *ReportHandler) ClientCosts(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	year, month, ok := parseYearMonthQuery(c)
	if !ok {
		return
	}

	rows, err := newCalculator().ClientCostSummary(year, month, costing.FormatYearMonth(year, month), c.Query("method"))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算客户成本汇总失败"))
		return
	}

	Success(c, rows)
}

// EmailClientCosts 寄送客户成本汇总邮件
// @Summary 寄送客户成本汇总邮件
// @Description 将月度客户成本汇总寄给配置的报表收件人（通常为合伙人）
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param month query string true "月份 (2024-06)"
// @Success 200 {object} Response "寄送成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/reports/client-costs/email [post]
func (h *ReportHandler) EmailClientCosts(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	year, month, ok := parseYearMonthQuery(c)
	if !ok {
		return
	}
	yearMonth := costing.FormatYearMonth(year, month)

	rows, err := newCalculator().ClientCostSummary(year, month, yearMonth, "")
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算客户成本汇总失败"))
		return
	}

	if err := h.email.SendMonthlyCostSummary(h.cfg.Report.Recipients, yearMonth, rows); err != nil {
		InternalError(c, SafeErrorMessage(err, "寄送成本汇总邮件失败"))
		return
	}

	SuccessWithMessage(c, "寄送成功", nil)
}
