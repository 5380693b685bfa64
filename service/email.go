package service

import (
	"fmt"
	"strings"

	"accounting/config"
	"accounting/costing"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendMonthlyCostSummary 发送月度客户成本汇总邮件
func (s *EmailService) SendMonthlyCostSummary(recipients []string, yearMonth string, rows []costing.ClientCostRow) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 EMAIL_ENABLED=true")
	}
	if len(recipients) == 0 {
		return fmt.Errorf("未配置月度报表收件人")
	}

	subject := fmt.Sprintf("【成本管理系统】%s 客户成本汇总", yearMonth)
	body := s.generateCostSummaryBody(yearMonth, rows)

	return s.sendEmail(recipients, subject, body)
}

// generateCostSummaryBody 生成月度成本汇总邮件内容
func (s *EmailService) generateCostSummaryBody(yearMonth string, rows []costing.ClientCostRow) string {
	var sb strings.Builder
	var totalCost, totalRevenue float64
	for _, row := range rows {
		totalCost += row.TotalCost
		totalRevenue += row.Revenue
		sb.WriteString(fmt.Sprintf(`
            <tr>
                <td>%s</td>
                <td class="num">%.1f</td>
                <td class="num">%.2f</td>
                <td class="num">%.2f</td>
                <td class="num">%.2f</td>
                <td class="num">%.2f%%</td>
            </tr>`,
			row.ClientName, row.Hours, row.TotalCost, row.Revenue, row.Profit, row.Margin))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 700px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
        th { background: #eff6ff; color: #1d4ed8; padding: 10px; text-align: left; font-size: 13px; }
        td { padding: 10px; border-bottom: 1px solid #e5e7eb; font-size: 13px; color: #333; }
        td.num { text-align: right; font-family: 'Courier New', monospace; }
        .summary { background: #f0fdf4; border-left: 4px solid #10b981; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .summary p { margin: 0; color: #065f46; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>📊 %s 客户成本汇总</h1>
        </div>
        <div class="content">
            <p>各位合伙人好，以下为 %s 的客户别成本与毛利汇总：</p>
            <table>
                <tr>
                    <th>客户</th><th>工时</th><th>总成本</th><th>营收</th><th>毛利</th><th>毛利率</th>
                </tr>%s
            </table>
            <div class="summary">
                <p>合计：%d 个客户，总成本 %.2f，总营收 %.2f，毛利 %.2f</p>
            </div>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© 成本管理系统 - 事务所成本与营收归属平台</p>
        </div>
    </div>
</body>
</html>
`, yearMonth, yearMonth, sb.String(), len(rows), totalCost, totalRevenue, totalRevenue-totalCost)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to []string, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}

// SendTestEmail 发送测试邮件
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}

	subject := "【成本管理系统】邮件配置测试"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ 邮件配置成功</h2>
    <p>如果您收到这封邮件，说明邮件服务配置正确。</p>
    <p style="color: #666;">—— 成本管理系统</p>
</body>
</html>
`
	return s.sendEmail([]string{toEmail}, subject, body)
}
