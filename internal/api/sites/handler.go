package sitesapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"web3builder/config"
	"web3builder/database"
	catalogapi "web3builder/internal/api/catalog"
	"web3builder/internal/api/respond"
	"web3builder/internal/cache"
	"web3builder/internal/domain/access"
	"web3builder/internal/domain/billing"
	"web3builder/internal/render"
	"web3builder/internal/services"

	"github.com/gin-gonic/gin"
)

const visitorCookie = "_wv"

// GET /sites/:subdomain
// Serves a published website, from the site cache when possible.
func ServeSite(c *gin.Context) {
	ctx := c.Request.Context()
	sub := strings.ToLower(strings.TrimSpace(c.Param("subdomain")))
	svc := services.NewTemplateService(database.DB)

	w, err := svc.FetchPublishedBySubdomain(ctx, sub)
	if err != nil {
		respond.Error(c, err, "Site not found")
		return
	}
	recordView(c, w.ID)

	if html, ok := cache.Sites.Get(ctx, sub); ok {
		c.Header("X-Cache", "HIT")
		c.Data(http.StatusOK, "text/html; charset=utf-8", html)
		return
	}

	items, err := svc.FetchWebsiteContent(ctx, w.ID)
	if err != nil {
		respond.Error(c, err, "Failed to load site")
		return
	}
	catalog, degraded := catalogapi.LoadCatalog(c)

	subs, err := billing.LoadSubscriptions(database.DB.WithContext(ctx), w.UserID)
	if err != nil {
		respond.Error(c, err, "Failed to load site")
		return
	}
	policy := access.ComputePolicy(time.Now(), subs)

	html, err := render.Page(*w, items, catalog, access.SiteRulesFor(policy.PublicMode))
	if err != nil {
		respond.Error(c, err, "Failed to render site")
		return
	}
	if !degraded {
		cache.Sites.Set(ctx, sub, html)
	}

	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// recordView counts the request in today's analytics. A visitor without the
// visitor cookie counts as new and gets one.
func recordView(c *gin.Context, websiteID string) {
	_, err := c.Cookie(visitorCookie)
	newVisitor := err != nil
	if newVisitor {
		c.SetCookie(visitorCookie, "1", int((365 * 24 * time.Hour).Seconds()), "/", "", config.IsProduction(), true)
	}

	if err := services.NewAnalyticsService(database.DB).RecordView(c.Request.Context(), websiteID, time.Now(), newVisitor); err != nil {
		slog.Warn("record view", "website_id", websiteID, "error", err)
	}
}
