package router

import (
	"net/http"
	"time"

	"familyledger/api"
	"familyledger/config"
	"familyledger/database"
	_ "familyledger/docs"
	"familyledger/engine"
	"familyledger/logger"
	"familyledger/middleware"
	"familyledger/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Refresh and auto-renew recompute whole months, so they get a tighter budget.
const (
	recomputeLimit  = 10
	recomputeWindow = time.Minute
	testMailLimit   = 3
)

// SetupRouter wires every route onto a new gin engine.
func SetupRouter(cfg *config.Config, eng *engine.Engine, log *logger.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(CORSMiddleware())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth())
	{
		expenseHandler := api.NewExpenseHandler(eng)
		expenses := authorized.Group("/expenses")
		{
			expenses.POST("", expenseHandler.Create)
			expenses.GET("", expenseHandler.List)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		incomeHandler := api.NewIncomeHandler(eng)
		incomes := authorized.Group("/incomes")
		{
			incomes.POST("", incomeHandler.Create)
			incomes.GET("", incomeHandler.List)
			incomes.GET("/:id", incomeHandler.Get)
			incomes.PUT("/:id", incomeHandler.Update)
			incomes.DELETE("/:id", incomeHandler.Delete)
		}

		categoryHandler := api.NewCategoryHandler(eng)
		categories := authorized.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
			categories.GET("/:id/stats", categoryHandler.Stats)
		}

		budgetHandler := api.NewBudgetHandler(eng)
		recompute := middleware.RateLimit(recomputeLimit, recomputeWindow)
		budgets := authorized.Group("/budgets")
		{
			budgets.POST("", budgetHandler.Create)
			budgets.GET("", budgetHandler.List)
			budgets.POST("/refresh", recompute, budgetHandler.Refresh)
			budgets.POST("/auto-renew", recompute, budgetHandler.AutoRenew)
			budgets.GET("/:id", budgetHandler.Get)
			budgets.PUT("/:id", budgetHandler.UpdateAmount)
			budgets.PATCH("/:id/settings", budgetHandler.UpdateSettings)
			budgets.DELETE("/:id", budgetHandler.Delete)
			budgets.POST("/:id/reconcile", budgetHandler.Reconcile)
		}

		statsHandler := api.NewStatsHandler(eng)
		stats := authorized.Group("/stats")
		{
			stats.GET("/summary", statsHandler.Summary)
			stats.GET("/trend", statsHandler.Trend)
			stats.GET("/yearly", statsHandler.Yearly)
		}
		authorized.GET("/dashboard", statsHandler.Dashboard)

		recipients := service.FamilyRecipients{DB: database.GetDB()}
		alertHandler := api.NewAlertHandler(service.NewEmailService(&cfg.Email, recipients), recipients)
		authorized.POST("/alerts/test-email", middleware.RateLimit(testMailLimit, time.Minute), alertHandler.TestEmail)

		exportHandler := api.NewExportHandler(eng)
		export := authorized.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/excel", exportHandler.ExportExcel)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware allows browser clients from any origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
