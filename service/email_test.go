package service

import (
	"testing"

	"accounting/config"
	"accounting/costing"

	"github.com/stretchr/testify/assert"
)

func TestSendMonthlyCostSummary_Disabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	err := svc.SendMonthlyCostSummary([]string{"partner@example.com"}, "2024-06", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "邮件服务未启用")
}

func TestSendMonthlyCostSummary_NoRecipients(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true})
	err := svc.SendMonthlyCostSummary(nil, "2024-06", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "收件人")
}

func TestGenerateCostSummaryBody(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true})
	rows := []costing.ClientCostRow{
		{ClientName: "宏达贸易", Hours: 40, TotalCost: 12000, Revenue: 20000, Profit: 8000, Margin: 40},
		{ClientName: "大安食品", Hours: 10, TotalCost: 3000, Revenue: 2500, Profit: -500, Margin: -20},
	}

	body := svc.generateCostSummaryBody("2024-06", rows)

	assert.Contains(t, body, "2024-06 客户成本汇总")
	assert.Contains(t, body, "宏达贸易")
	assert.Contains(t, body, "大安食品")
	assert.Contains(t, body, "2 个客户")
	assert.Contains(t, body, "总成本 15000.00")
	assert.Contains(t, body, "总营收 22500.00")
}

func TestSendTestEmail_Disabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	assert.Error(t, svc.SendTestEmail("someone@example.com"))
}
