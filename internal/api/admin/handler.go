package adminapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"web3builder/database"
	"web3builder/internal/cache"
	"web3builder/internal/domain/billing"
	"web3builder/internal/domain/referrals"
	"web3builder/internal/domain/users"
	"web3builder/internal/domain/website"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	IsVerified    bool      `json:"is_verified"`
	WalletAddress *string   `json:"wallet_address,omitempty"`
	Blockchain    *string   `json:"blockchain,omitempty"`
	ReferralCode  string    `json:"referral_code"`
	Websites      int       `json:"websites"`
	CreatedAt     time.Time `json:"created_at"`
}

type AdminPayment struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	PlanName        *string `json:"plan_name,omitempty"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Blockchain      string  `json:"blockchain"`
	Status          string  `json:"status"`
	TransactionHash *string `json:"transaction_hash,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers          int                `json:"total_users"`
	TotalWebsites       int                `json:"total_websites"`
	PublishedWebsites   int                `json:"published_websites"`
	ActiveSubscriptions int                `json:"active_subscriptions"`
	PendingPayments     int                `json:"pending_payments"`
	TotalRevenue        map[string]float64 `json:"total_revenue"`
	RecentRevenue       map[string]float64 `json:"recent_revenue"`
	CompletedReferrals  int                `json:"completed_referrals"`
}

// GET /admin/dashboard
func AdminDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the admin dashboard",
		"email":   c.GetString("email"),
	})
}

// GET /admin/users
func ListAllUsers(c *gin.Context) {
	var list []users.User
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	type siteCount struct {
		UserID string
		Count  int
	}
	var counts []siteCount
	if err := database.DB.Model(&website.Website{}).
		Select("user_id, COUNT(*) AS count").
		Group("user_id").
		Scan(&counts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count websites"})
		return
	}
	perUser := make(map[string]int, len(counts))
	for _, sc := range counts {
		perUser[sc.UserID] = sc.Count
	}

	adminUsers := make([]AdminUser, 0, len(list))
	for _, u := range list {
		adminUsers = append(adminUsers, AdminUser{
			ID:            u.ID,
			Email:         u.Email,
			Role:          u.Role,
			IsVerified:    u.IsVerified,
			WalletAddress: u.WalletAddress,
			Blockchain:    u.Blockchain,
			ReferralCode:  u.ReferralCode,
			Websites:      perUser[u.ID],
			CreatedAt:     u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

// GET /admin/payments?status=
func ListAllPayments(c *gin.Context) {
	q := database.DB.Table("payments").
		Select("payments.id, users.email, subscription_plans.name AS plan_name, payments.amount, payments.currency, payments.blockchain, payments.status, payments.transaction_hash, payments.created_at").
		Joins("JOIN users ON users.id = payments.user_id").
		Joins("LEFT JOIN subscription_plans ON subscription_plans.id = payments.plan_id").
		Order("payments.created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("payments.status = ?", status)
	}

	type row struct {
		ID              string
		Email           string
		PlanName        *string
		Amount          float64
		Currency        string
		Blockchain      string
		Status          string
		TransactionHash *string
		CreatedAt       time.Time
	}
	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		slog.Error("admin payments", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	result := make([]AdminPayment, 0, len(rows))
	for _, p := range rows {
		result = append(result, AdminPayment{
			ID:              p.ID,
			Email:           p.Email,
			PlanName:        p.PlanName,
			Amount:          p.Amount,
			Currency:        p.Currency,
			Blockchain:      p.Blockchain,
			Status:          p.Status,
			TransactionHash: p.TransactionHash,
			CreatedAt:       p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, result)
}

// GET /admin/stats
func GetAdminStats(c *gin.Context) {
	var (
		totalUsers, totalWebsites, published, pending, completedRefs int64
		stats                                                        AdminStats
	)
	now := time.Now()

	database.DB.Model(&users.User{}).Count(&totalUsers)
	database.DB.Model(&website.Website{}).Count(&totalWebsites)
	database.DB.Model(&website.Website{}).Where("published = ?", true).Count(&published)
	database.DB.Model(&billing.Payment{}).Where("status = ?", billing.PaymentPending).Count(&pending)
	database.DB.Model(&referrals.Referral{}).Where("status = ?", referrals.StatusCompleted).Count(&completedRefs)

	var subs []billing.UserSubscription
	database.DB.Where("status = ?", billing.SubscriptionActive).Find(&subs)
	for _, s := range subs {
		if s.ActiveAt(now) {
			stats.ActiveSubscriptions++
		}
	}

	stats.TotalUsers = int(totalUsers)
	stats.TotalWebsites = int(totalWebsites)
	stats.PublishedWebsites = int(published)
	stats.PendingPayments = int(pending)
	stats.CompletedReferrals = int(completedRefs)
	stats.TotalRevenue = revenueByCurrency(time.Time{})
	stats.RecentRevenue = revenueByCurrency(now.AddDate(0, 0, -30))

	c.JSON(http.StatusOK, stats)
}

// revenueByCurrency sums completed payments created at or after since.
func revenueByCurrency(since time.Time) map[string]float64 {
	type sum struct {
		Currency string
		Total    float64
	}
	var sums []sum

	q := database.DB.Model(&billing.Payment{}).
		Select("currency, COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", billing.PaymentCompleted)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	q.Group("currency").Scan(&sums)

	out := map[string]float64{}
	for _, s := range sums {
		out[s.Currency] = s.Total
	}
	return out
}

// GET /admin/users/:id
func GetUserDetails(c *gin.Context) {
	userID := c.Param("id")

	var user users.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var payments []billing.Payment
	if err := database.DB.Preload("Plan").Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	subs, err := billing.LoadSubscriptions(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
		return
	}

	var sites []website.Website
	if err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&sites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch websites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"payments":      payments,
		"subscriptions": subs,
		"websites":      sites,
	})
}

// POST /admin/payments/:id/confirm
// Confirms a pending payment after the transaction was checked on-chain and
// starts the subscription.
func ConfirmPayment(c *gin.Context) {
	id := c.Param("id")

	var sub *billing.UserSubscription
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = billing.Activate(tx, id, time.Now())
		return err
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	case errors.Is(err, billing.ErrPaymentNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": "Payment is not pending"})
		return
	case err != nil:
		slog.Error("confirm payment", "payment_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		return
	}

	cache.Sites.InvalidateOwner(c.Request.Context(), database.DB, sub.UserID)

	slog.Info("payment confirmed", "payment_id", id, "by", c.GetString("user_id"))
	c.JSON(http.StatusOK, gin.H{"message": "Payment confirmed", "subscription": sub})
}

// POST /admin/payments/:id/reject
func RejectPayment(c *gin.Context) {
	res := database.DB.Model(&billing.Payment{}).
		Where("id = ? AND status = ?", c.Param("id"), billing.PaymentPending).
		Updates(map[string]interface{}{"status": billing.PaymentFailed, "updated_at": time.Now()})
	if res.Error != nil {
		slog.Error("reject payment", "payment_id", c.Param("id"), "error", res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject payment"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Payment is not pending"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment rejected"})
}
