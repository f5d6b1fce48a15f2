package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/finance-tracker-api/handlers"
	"github.com/fintrack/finance-tracker-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB, jwtSecret []byte) {
	authHandler := &handlers.AuthHandler{Auth: services.NewAuthService(db, jwtSecret)}

	rg.POST("/auth/register", authHandler.Register)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupCategoryRoutes sets up protected category routes.
func SetupCategoryRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := &handlers.CategoryHandler{Categories: services.NewCategoryService(db)}

	rg.GET("/categories", h.List)
	rg.GET("/categories/type/:type", h.ListByType)
	rg.GET("/categories/:id", h.Get)
	rg.POST("/categories", h.Create)
	rg.PUT("/categories/:id", h.Update)
	rg.DELETE("/categories/:id", h.Delete)
}

// SetupTransactionRoutes sets up protected transaction routes.
func SetupTransactionRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := &handlers.TransactionHandler{Transactions: services.NewTransactionService(db)}

	rg.GET("/transactions", h.List)
	rg.GET("/transactions/balance", h.Balance)
	rg.GET("/transactions/summary", h.Summary)
	rg.GET("/transactions/:id", h.Get)
	rg.POST("/transactions", h.Create)
	rg.PUT("/transactions/:id", h.Update)
	rg.DELETE("/transactions/:id", h.Delete)
}

// SetupBudgetRoutes sets up protected budget routes.
func SetupBudgetRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := &handlers.BudgetHandler{Budgets: services.NewBudgetService(db)}

	rg.GET("/budgets", h.List)
	rg.GET("/budgets/current", h.ListCurrent)
	rg.GET("/budgets/:id", h.Get)
	rg.POST("/budgets", h.Create)
	rg.PUT("/budgets/:id", h.Update)
	rg.DELETE("/budgets/:id", h.Delete)
}
