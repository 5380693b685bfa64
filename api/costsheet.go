package api

import (
	"fmt"
	"strconv"

	"accounting/costing"
	"accounting/database"
	"accounting/models"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// ExportCostSheet 导出员工成本单 PDF
// @Summary 导出员工成本单 PDF
// @Description 生成员工月度人力成本单 PDF 下载；普通员工仅能导出本人
// @Tags 报表
// @Produce application/pdf
// @Security BearerAuth
// @Param user_id query int false "员工ID（仅管理员可指定他人）"
// @Param month query string true "月份 (2024-06)"
// @Success 200 {file} binary "PDF 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/reports/cost-sheet [get]
func (h *ReportHandler) ExportCostSheet(c *gin.Context) {
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

	var user models.User
	if err := database.DB.First(&user, targetUserID).Error; err != nil {
		NotFound(c, "员工不存在")
		return
	}

	cost, err := newCalculator().EmployeeLaborCost(targetUserID, year, month)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算人力成本失败"))
		return
	}

	// gofpdf 内建字体不含中日韩字形，成本单内容使用英文
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Monthly Cost Sheet")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (#%d)", user.Username, user.ID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", costing.FormatYearMonth(year, month)))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Base salary: %.2f", costing.CentsToUnits(cost.BaseSalaryCents)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Salary items: %.2f", costing.CentsToUnits(cost.SalaryItemCents)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Expired comp time pay: %.2f", costing.CentsToUnits(cost.ExpiredCompPayCents)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Leave deduction: -%.2f", costing.CentsToUnits(cost.LeaveDeductionCents)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Comp hours generated/used: %.1f / %.1f", cost.CompHoursGenerated, cost.CompHoursUsed))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", costing.CentsToUnits(cost.TotalCents)))

	filename := fmt.Sprintf("cost_sheet_%d_%s.pdf", user.ID, costing.FormatYearMonth(year, month))
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := pdf.Output(c.Writer); err != nil {
		InternalError(c, "生成 PDF 失败")
		return
	}
}
