package v1

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/GFattehallah/cmhe-manager/internal/config"
	"github.com/GFattehallah/cmhe-manager/internal/domain"
	"github.com/GFattehallah/cmhe-manager/pkg/metrics"
)

// NewRouter wires the full HTTP surface: public health and login routes,
// the metrics endpoint, and the authenticated API gated per permission tag.
func NewRouter(cfg *config.Config, h *Handler, m *metrics.Collector) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Observe(h.log, m))
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: cfg.CORS.AllowedHeaders,
		MaxAge:       cfg.CORS.MaxAge,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api/v1")
	api.POST("/auth/login", h.login)

	authed := api.Group("")
	authed.Use(RequireAuth(h.jwtManager))

	authed.GET("/auth/me", h.currentUser)
	authed.GET("/sync/status", h.remoteStatus)

	patients := authed.Group("/patients", RequirePermission(domain.PermPatients))
	{
		patients.GET("", h.listPatients)
		patients.POST("", h.savePatient)
		patients.DELETE("/:id", h.deletePatient)
		patients.POST("/bulk-delete", h.deletePatientsBulk)
		patients.POST("/import", h.importPatients)
		patients.GET("/export", h.exportPatients)
	}

	appointments := authed.Group("/appointments", RequirePermission(domain.PermAppointments))
	{
		appointments.GET("", h.listAppointments)
		appointments.POST("", h.saveAppointment)
		appointments.DELETE("/:id", h.deleteAppointment)
	}

	consultations := authed.Group("/consultations", RequirePermission(domain.PermConsultations))
	{
		consultations.GET("", h.listConsultations)
		consultations.POST("", h.saveConsultation)
		consultations.DELETE("/:id", h.deleteConsultation)
		consultations.POST("/suggest", h.suggestPrescriptions)
	}

	billing := authed.Group("", RequirePermission(domain.PermBilling))
	{
		billing.GET("/invoices", h.listInvoices)
		billing.POST("/invoices", h.saveInvoice)
		billing.DELETE("/invoices/:id", h.deleteInvoice)
		billing.POST("/invoices/import", h.importRevenues)
		billing.GET("/invoices/export", h.exportInvoices)
	}

	expenses := authed.Group("/expenses", RequirePermission(domain.PermExpenses))
	{
		expenses.GET("", h.listExpenses)
		expenses.POST("", h.saveExpense)
		expenses.DELETE("/:id", h.deleteExpense)
		expenses.POST("/import", h.importExpenses)
		expenses.GET("/export", h.exportExpenses)
	}

	reports := authed.Group("/reports", RequirePermission(domain.PermReports))
	{
		reports.GET("/summary", h.monthlySummary)
	}

	users := authed.Group("/users", RequirePermission(domain.PermUsers))
	{
		users.GET("", h.listUsers)
		users.POST("", h.saveUser)
		users.DELETE("/:id", h.deleteUser)
	}

	settings := authed.Group("/settings", RequirePermission(domain.PermSettings))
	{
		settings.GET("/backup", h.exportBackup)
		settings.POST("/backup", h.importBackup)
	}

	return r
}
