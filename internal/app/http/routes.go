package routes

import (
	adminapi "web3builder/internal/api/admin"
	authapi "web3builder/internal/api/auth"
	billingapi "web3builder/internal/api/billing"
	builderapi "web3builder/internal/api/builder"
	catalogapi "web3builder/internal/api/catalog"
	plansapi "web3builder/internal/api/plans"
	referralsapi "web3builder/internal/api/referrals"
	sitesapi "web3builder/internal/api/sites"
	stripewebhooks "web3builder/internal/api/stripewebhook"
	usersapi "web3builder/internal/api/users"
	websitesapi "web3builder/internal/api/websites"
	"web3builder/internal/app/http/middleware"
	"web3builder/internal/domain/access"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.POST("/webhooks/stripe", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Published sites
	r.GET("/sites/:subdomain", sitesapi.ServeSite)

	// Catalog
	r.GET("/plans", plansapi.ListPlans)
	r.GET("/templates", catalogapi.ListTemplates)
	r.GET("/templates/categories", catalogapi.ListCategories)
	r.GET("/templates/:id", catalogapi.GetTemplate)
	r.GET("/content-blocks", catalogapi.ListContentBlocks)
	r.GET("/sections/catalog", catalogapi.GetSectionCatalog)
	r.GET("/subdomains/:subdomain/availability", catalogapi.CheckSubdomain)

	// Sign-in, with input sanitization
	public := r.Group("/auth")
	public.Use(middleware.SanitizeInput())
	public.POST("/otp/request", authapi.RequestCode)
	public.POST("/otp/verify", authapi.VerifyCode)

	r.GET("/auth/google", authapi.GoogleStart)
	r.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.LoadAccessPolicy())
	auth.POST("/auth/logout", authapi.Logout)
	auth.POST("/auth/logout-all", authapi.LogoutAll)

	auth.GET("/me", usersapi.GetCurrentUser)
	auth.PUT("/me/wallet", usersapi.UpdateWallet)
	auth.DELETE("/me/wallet", usersapi.DisconnectWallet)

	auth.GET("/payments", billingapi.GetPaymentHistory)
	auth.POST("/payments/crypto", billingapi.SubmitCryptoPayment)
	auth.POST("/billing/checkout", billingapi.CreateCheckoutSession)

	auth.GET("/referrals", referralsapi.ListReferrals)
	auth.GET("/referrals/link", referralsapi.GetReferralLink)

	auth.GET("/websites", websitesapi.ListWebsites)
	auth.GET("/websites/:id", websitesapi.GetWebsite)
	auth.DELETE("/websites/:id", websitesapi.DeleteWebsite)
	auth.POST("/websites/:id/publish", websitesapi.PublishWebsite)
	auth.POST("/websites/:id/unpublish", websitesapi.UnpublishWebsite)
	auth.GET("/websites/:id/preview", websitesapi.PreviewWebsite)
	auth.GET("/websites/:id/analytics", websitesapi.GetAnalytics)

	auth.GET("/builder/:id", builderapi.LoadBuilder)
	auth.PUT("/builder/:id", builderapi.SaveBuilder)
	auth.POST("/builder/sections/ops", builderapi.SectionOp)

	// Paid features
	pro := auth.Group("/")
	pro.Use(middleware.RequireCapability(access.CapAdvancedAnalytics))
	pro.GET("/websites/:id/analytics/daily", websitesapi.GetDailyAnalytics)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/stats", adminapi.GetAdminStats)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/users/:id", adminapi.GetUserDetails)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.POST("/payments/:id/confirm", adminapi.ConfirmPayment)
	admin.POST("/payments/:id/reject", adminapi.RejectPayment)
	admin.POST("/sync-plans", plansapi.SyncPlansFromStripe)
	admin.POST("/templates", catalogapi.CreateTemplate)
	admin.POST("/content-blocks", catalogapi.CreateContentBlock)
}
