package router

import (
	"time"

	"accounting/api"
	"accounting/config"
	_ "accounting/docs"
	"accounting/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())
	// 请求ID中间件，便于日志追踪
	r.Use(middleware.RequestID())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(5, time.Minute), authHandler.Login)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 员工相关
			userHandler := api.NewUserHandler()
			authorized.GET("/users/profile", userHandler.Profile)
			users := authorized.Group("/users")
			{
				users.GET("", userHandler.List)
				users.PUT("/:id", userHandler.Update)
				users.DELETE("/:id", userHandler.Delete)
			}

			// 客户与任务
			clientHandler := api.NewClientHandler()
			clients := authorized.Group("/clients")
			{
				clients.POST("", clientHandler.Create)
				clients.GET("", clientHandler.List)
				clients.PUT("/:id", clientHandler.Update)
				clients.DELETE("/:id", clientHandler.Delete)
				clients.POST("/:id/tasks", clientHandler.CreateTask)
				clients.GET("/:id/tasks", clientHandler.ListTasks)
			}

			// 收款单
			receiptHandler := api.NewReceiptHandler()
			receipts := authorized.Group("/receipts")
			{
				receipts.POST("", receiptHandler.Create)
				receipts.GET("", receiptHandler.List)
				receipts.PUT("/:id", receiptHandler.Update)
				receipts.DELETE("/:id", receiptHandler.Delete)
			}

			// 工时记录
			timesheetHandler := api.NewTimesheetHandler()
			timesheets := authorized.Group("/timesheets")
			{
				timesheets.POST("", timesheetHandler.Create)
				timesheets.GET("", timesheetHandler.List)
				timesheets.PUT("/:id", timesheetHandler.Update)
				timesheets.DELETE("/:id", timesheetHandler.Delete)
			}

			// 请假单
			leaveHandler := api.NewLeaveHandler()
			leaves := authorized.Group("/leaves")
			{
				leaves.POST("", leaveHandler.Create)
				leaves.GET("", leaveHandler.List)
				leaves.PUT("/:id/approve", leaveHandler.Approve)
				leaves.DELETE("/:id", leaveHandler.Delete)
			}

			// 薪资项目
			salaryItemHandler := api.NewSalaryItemHandler()
			salaryItems := authorized.Group("/salary-items")
			{
				salaryItems.GET("/types", salaryItemHandler.ListTypes)
				salaryItems.POST("", salaryItemHandler.Create)
				salaryItems.GET("", salaryItemHandler.List)
				salaryItems.PUT("/:id", salaryItemHandler.Update)
				salaryItems.DELETE("/:id", salaryItemHandler.Delete)
			}

			// 间接成本
			overheadHandler := api.NewOverheadHandler()
			overheads := authorized.Group("/overheads")
			{
				overheads.GET("/types", overheadHandler.ListTypes)
				overheads.POST("/types", overheadHandler.CreateType)
				overheads.PUT("/types/:id", overheadHandler.UpdateType)
				overheads.POST("/costs", overheadHandler.CreateCost)
				overheads.GET("/costs", overheadHandler.ListCosts)
				overheads.DELETE("/costs/:id", overheadHandler.DeleteCost)
				overheads.POST("/costs/copy", overheadHandler.CopyFromPreviousMonth)
			}

			// 成本报表
			reportHandler := api.NewReportHandler(cfg)
			reports := authorized.Group("/reports")
			{
				reports.GET("/revenue-distribution", reportHandler.RevenueDistribution)
				reports.GET("/labor-cost", reportHandler.LaborCost)
				reports.GET("/overhead-allocation", reportHandler.OverheadAllocation)
				reports.GET("/hourly-rates", reportHandler.HourlyRates)
				reports.GET("/client-costs", reportHandler.ClientCosts)
				reports.GET("/client-costs/export", reportHandler.ExportClientCosts)
				reports.POST("/client-costs/email", reportHandler.EmailClientCosts)
				reports.GET("/cost-sheet", reportHandler.ExportCostSheet)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
