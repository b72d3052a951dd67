package websitesapi

import (
	"net/http"
	"time"

	"web3builder/config"
	"web3builder/database"
	"web3builder/internal/api/respond"
	"web3builder/internal/app/http/middleware"
	"web3builder/internal/cache"
	"web3builder/internal/domain/access"
	"web3builder/internal/domain/sections"
	"web3builder/internal/domain/website"
	"web3builder/internal/render"
	"web3builder/internal/services"

	"github.com/gin-gonic/gin"
)

func toDTO(w website.Website) WebsiteDTO {
	return WebsiteDTO{Website: w, PublicURL: website.BuildPublicURL(w.Subdomain, config.PUBLIC_HOST)}
}

// GET /websites
func ListWebsites(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}

	list, err := services.NewTemplateService(database.DB).ListUserWebsites(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err, "Failed to load websites")
		return
	}

	out := ListWebsitesResponse{Websites: make([]WebsiteDTO, 0, len(list))}
	for _, w := range list {
		out.Websites = append(out.Websites, toDTO(w))
	}
	c.JSON(http.StatusOK, out)
}

// ownedWebsite loads a website and replies 404 unless the caller owns it.
// Foreign websites are reported as missing.
func ownedWebsite(c *gin.Context, svc services.TemplateService, userID string) (*website.Website, bool) {
	w, err := svc.FetchWebsite(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err, "Website not found")
		return nil, false
	}
	if w.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Website not found"})
		return nil, false
	}
	return w, true
}

// GET /websites/:id
func GetWebsite(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	w, ok := ownedWebsite(c, services.NewTemplateService(database.DB), userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toDTO(*w))
}

// DELETE /websites/:id
func DeleteWebsite(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	svc := services.NewTemplateService(database.DB)
	w, ok := ownedWebsite(c, svc, userID)
	if !ok {
		return
	}

	if err := svc.DeleteWebsite(c.Request.Context(), w.ID, userID); err != nil {
		respond.Error(c, err, "Failed to delete website")
		return
	}
	cache.Sites.Invalidate(c.Request.Context(), w.Subdomain)

	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": w.ID})
}

// POST /websites/:id/publish
func PublishWebsite(c *gin.Context) {
	setPublished(c, true)
}

// POST /websites/:id/unpublish
func UnpublishWebsite(c *gin.Context) {
	setPublished(c, false)
}

func setPublished(c *gin.Context, published bool) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}

	w, err := services.NewTemplateService(database.DB).SetPublished(c.Request.Context(), c.Param("id"), userID, published)
	if err != nil {
		respond.Error(c, err, "Failed to update website")
		return
	}
	cache.Sites.Invalidate(c.Request.Context(), w.Subdomain)

	c.JSON(http.StatusOK, toDTO(*w))
}

// GET /websites/:id/preview
// Renders the owner's draft with the same renderer as the public site.
func PreviewWebsite(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	svc := services.NewTemplateService(database.DB)
	w, ok := ownedWebsite(c, svc, userID)
	if !ok {
		return
	}

	items, err := svc.FetchWebsiteContent(c.Request.Context(), w.ID)
	if err != nil {
		respond.Error(c, err, "Failed to load content")
		return
	}
	blocks, err := svc.FetchContentBlocks(c.Request.Context())
	if err != nil {
		respond.Error(c, err, "Failed to load content blocks")
		return
	}

	rules := access.SiteRulesFor(middleware.Policy(c).PublicMode)
	rules.NoIndex = true

	html, err := render.Page(*w, items, sections.MergeCatalog(sections.DefaultCatalog(), blocks), rules)
	if err != nil {
		respond.Error(c, err, "Failed to render preview")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

const (
	basicAnalyticsDays    = 7
	advancedAnalyticsDays = 90
)

// GET /websites/:id/analytics
// Totals over the last week; advanced analytics widens the window.
func GetAnalytics(c *gin.Context) {
	analytics(c, false)
}

// GET /websites/:id/analytics/daily
func GetDailyAnalytics(c *gin.Context) {
	analytics(c, true)
}

func analytics(c *gin.Context, daily bool) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}
	w, ok := ownedWebsite(c, services.NewTemplateService(database.DB), userID)
	if !ok {
		return
	}

	days := basicAnalyticsDays
	if middleware.Policy(c).Can(access.CapAdvancedAnalytics) {
		days = advancedAnalyticsDays
	}
	since := services.Day(time.Now().AddDate(0, 0, -(days - 1)))

	rows, err := services.NewAnalyticsService(database.DB).Daily(c.Request.Context(), w.ID, since)
	if err != nil {
		respond.Error(c, err, "Failed to load analytics")
		return
	}

	resp := AnalyticsResponse{WebsiteID: w.ID, Since: since}
	for _, r := range rows {
		resp.Views += r.Views
		resp.UniqueVisitors += r.UniqueVisitors
		if daily {
			resp.Days = append(resp.Days, DayDTO{
				Date:           r.Date.Format("2006-01-02"),
				Views:          r.Views,
				UniqueVisitors: r.UniqueVisitors,
			})
		}
	}
	c.JSON(http.StatusOK, resp)
}
