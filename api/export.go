package api

import (
	"fmt"

	"accounting/costing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportClientCosts 导出客户成本汇总 Excel
// @Summary 导出客户成本汇总 Excel
// @Description 将月度客户成本汇总导出为 Excel 文件下载
// @Tags 报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param month query string true "月份 (2024-06)"
// @Success 200 {file} binary "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/reports/client-costs/export [get]
func (h *ReportHandler) ExportClientCosts(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	year, month, ok := parseYearMonthQuery(c)
	if !ok {
		return
	}
	yearMonth := costing.FormatYearMonth(year, month)

	rows, err := newCalculator().ClientCostSummary(year, month, yearMonth, c.Query("method"))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算客户成本汇总失败"))
		return
	}

	// 创建 Excel 文件
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "客户成本汇总"
	f.SetSheetName("Sheet1", sheetName)

	// 设置表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 数据样式
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 14)
	f.SetColWidth(sheetName, "E", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 14)
	f.SetColWidth(sheetName, "G", "G", 14)
	f.SetColWidth(sheetName, "H", "H", 12)

	// 写入表头
	headers := []string{"客户ID", "客户名称", "工时", "平均时薪", "总成本", "营收", "毛利", "毛利率%"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// 写入数据
	var totalCost, totalRevenue float64
	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), row.ClientID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), row.ClientName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", r), row.Hours)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", r), row.AvgHourlyRate)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", r), row.TotalCost)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", r), row.Revenue)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", r), row.Profit)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", r), row.Margin)

		// 设置数据样式
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", r), fmt.Sprintf("H%d", r), dataStyle)
		totalCost += row.TotalCost
		totalRevenue += row.Revenue
	}

	// 添加汇总行
	summaryRow := len(rows) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("D%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), totalCost)
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", summaryRow), totalRevenue)
	f.SetCellValue(sheetName, fmt.Sprintf("G%d", summaryRow), totalRevenue-totalCost)
	f.SetCellValue(sheetName, fmt.Sprintf("H%d", summaryRow), fmt.Sprintf("共 %d 个客户", len(rows)))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("H%d", summaryRow), summaryStyle)

	// 设置响应头
	filename := fmt.Sprintf("客户成本汇总_%s.xlsx", yearMonth)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	// 写入响应
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}
