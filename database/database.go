package database

import (
	"fmt"
	"log"

	"accounting/config"
	"accounting/costing"
	"accounting/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Caps 数据库结构能力，连线建立后探测一次供成本计算使用
var Caps costing.Capabilities

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Task{},
		&models.Receipt{},
		&models.Timesheet{},
		&models.SalaryItemType{},
		&models.SalaryItem{},
		&models.LeaveRequest{},
		&models.OverheadCostType{},
		&models.MonthlyOverheadCost{},
	); err != nil {
		return err
	}

	// 兼容历史数据：老版本没有 status 字段，默认设置为 active，避免升级后无法登录
	_ = DB.Model(&models.User{}).
		Where("status IS NULL OR status = ''").
		Update("status", models.UserStatusActive).Error

	// 探测结构能力：接手旧版资料库时 receipts 可能没有跨月认列栏位，
	// 成本计算需按此退回单月查询，只在初始化时探测一次
	Caps = costing.DetectCapabilities(DB)
	if !Caps.ServiceSpan {
		log.Println("警告: receipts 表缺少跨月认列栏位，营收分摊将退回单月口径")
	}

	seedSalaryItemTypes()
	seedOverheadCostTypes()

	log.Println("数据库初始化成功")
	return nil
}

// seedSalaryItemTypes 初始化预置薪资项目类型（仅当表为空时）
func seedSalaryItemTypes() {
	var count int64
	DB.Model(&models.SalaryItemType{}).Count(&count)
	if count > 0 {
		return
	}
	defaults := []models.SalaryItemType{
		{Code: "FULL_ATTENDANCE", Name: "全勤奖金", Category: models.SalaryCategoryBonus},
		{Code: "MEAL", Name: "伙食津贴", Category: models.SalaryCategoryRegularAllowance},
		{Code: "TRANSPORT", Name: "交通津贴", Category: models.SalaryCategoryRegularAllowance},
		{Code: "DUTY", Name: "职务加给", Category: models.SalaryCategoryRegularAllowance},
		{Code: "PERFORMANCE", Name: "绩效奖金", Category: models.SalaryCategoryBonus},
		{Code: "FESTIVAL", Name: "三节奖金", Category: models.SalaryCategoryIrregularAllowance},
		{Code: "YEAR_END", Name: "年终奖金", Category: models.SalaryCategoryYearEndBonus},
		{Code: "LABOR_INSURANCE", Name: "劳保自付额", Category: models.SalaryCategoryDeduction},
		{Code: "HEALTH_INSURANCE", Name: "健保自付额", Category: models.SalaryCategoryDeduction},
	}
	if err := DB.Create(&defaults).Error; err != nil {
		log.Printf("警告: 初始化薪资项目类型失败: %v", err)
	}
}

// seedOverheadCostTypes 初始化预置间接成本类型（仅当表为空时）
func seedOverheadCostTypes() {
	var count int64
	DB.Model(&models.OverheadCostType{}).Count(&count)
	if count > 0 {
		return
	}
	defaults := []models.OverheadCostType{
		{Name: "办公室租金", AllocationMethod: models.AllocationPerEmployee, IsActive: true},
		{Name: "水电网络", AllocationMethod: models.AllocationPerEmployee, IsActive: true},
		{Name: "软件授权", AllocationMethod: models.AllocationPerHour, IsActive: true},
		{Name: "行政支援", AllocationMethod: models.AllocationPerRevenue, IsActive: true},
	}
	if err := DB.Create(&defaults).Error; err != nil {
		log.Printf("警告: 初始化间接成本类型失败: %v", err)
	}
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
