package catalogapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"web3builder/database"
	"web3builder/internal/api/respond"
	"web3builder/internal/domain/sections"
	"web3builder/internal/domain/website"
	"web3builder/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	categoryAll           = "all"
	categoryUncategorized = "uncategorized"
)

func categoryOf(t website.Template) string {
	if t.Category == nil || strings.TrimSpace(*t.Category) == "" {
		return categoryUncategorized
	}
	return *t.Category
}

// GET /templates?category=
func ListTemplates(c *gin.Context) {
	templates, err := services.NewTemplateService(database.DB).FetchTemplates(c.Request.Context())
	if err != nil {
		respond.Error(c, err, "Failed to load templates")
		return
	}

	category := strings.TrimSpace(c.Query("category"))
	out := make([]website.Template, 0, len(templates))
	for _, t := range templates {
		if category == "" || category == categoryAll || categoryOf(t) == category {
			out = append(out, t)
		}
	}
	c.JSON(http.StatusOK, gin.H{"templates": out})
}

// GET /templates/categories
func ListCategories(c *gin.Context) {
	templates, err := services.NewTemplateService(database.DB).FetchTemplates(c.Request.Context())
	if err != nil {
		respond.Error(c, err, "Failed to load templates")
		return
	}

	seen := map[string]bool{}
	var cats []string
	for _, t := range templates {
		cat := categoryOf(t)
		if !seen[cat] {
			seen[cat] = true
			cats = append(cats, cat)
		}
	}
	sort.Strings(cats)

	c.JSON(http.StatusOK, gin.H{"categories": append([]string{categoryAll}, cats...)})
}

// GET /templates/:id
func GetTemplate(c *gin.Context) {
	t, err := services.NewTemplateService(database.DB).FetchTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err, "Template not found")
		return
	}
	c.JSON(http.StatusOK, t)
}

// GET /content-blocks
func ListContentBlocks(c *gin.Context) {
	blocks, err := services.NewTemplateService(database.DB).FetchContentBlocks(c.Request.Context())
	if err != nil {
		respond.Error(c, err, "Failed to load content blocks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"content_blocks": blocks})
}

// GET /sections/catalog
// The palette offered by the section editor: defaults merged with stored
// content blocks.
func GetSectionCatalog(c *gin.Context) {
	catalog, degraded := LoadCatalog(c)
	c.JSON(http.StatusOK, gin.H{"sections": catalog, "catalog_degraded": degraded})
}

// LoadCatalog builds the section palette for a request. When the stored
// content blocks cannot be read it falls back to the default palette and
// reports degraded, so clients can offer a retry.
func LoadCatalog(c *gin.Context) (catalog sections.Catalog, degraded bool) {
	blocks, err := services.NewTemplateService(database.DB).FetchContentBlocks(c.Request.Context())
	if err != nil {
		slog.Warn("content blocks unavailable, using default catalog", "path", c.FullPath(), "error", err)
		return sections.DefaultCatalog(), true
	}
	return sections.MergeCatalog(sections.DefaultCatalog(), blocks), false
}

// GET /subdomains/:subdomain/availability
func CheckSubdomain(c *gin.Context) {
	sub := strings.ToLower(strings.TrimSpace(c.Param("subdomain")))
	if !website.ValidSubdomain(sub) {
		c.JSON(http.StatusOK, gin.H{"subdomain": sub, "available": false, "valid": false})
		return
	}

	available, err := services.NewTemplateService(database.DB).CheckSubdomainAvailability(c.Request.Context(), sub)
	if err != nil {
		respond.Error(c, err, "Failed to check subdomain")
		return
	}
	c.JSON(http.StatusOK, gin.H{"subdomain": sub, "available": available, "valid": true})
}

type createTemplateInput struct {
	Name         string          `json:"name" binding:"required"`
	Description  *string         `json:"description"`
	Content      json.RawMessage `json:"content"`
	ThumbnailURL *string         `json:"thumbnail_url"`
	Category     *string         `json:"category"`
	IsPremium    bool            `json:"is_premium"`
}

// POST /admin/templates
func CreateTemplate(c *gin.Context) {
	var in createTemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t := website.Template{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Content:      in.Content,
		ThumbnailURL: in.ThumbnailURL,
		Category:     in.Category,
		IsPremium:    in.IsPremium,
	}
	if err := database.DB.WithContext(c.Request.Context()).Create(&t).Error; err != nil {
		respond.Error(c, err, "Failed to create template")
		return
	}
	c.JSON(http.StatusCreated, t)
}

type createBlockInput struct {
	Name        string          `json:"name" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Description *string         `json:"description"`
	Config      json.RawMessage `json:"config"`
	IsPremium   bool            `json:"is_premium"`
}

// POST /admin/content-blocks
func CreateContentBlock(c *gin.Context) {
	var in createBlockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b := website.ContentBlock{
		Name:        strings.TrimSpace(in.Name),
		Type:        strings.TrimSpace(in.Type),
		Description: in.Description,
		Config:      in.Config,
		IsPremium:   in.IsPremium,
	}
	if err := database.DB.WithContext(c.Request.Context()).Create(&b).Error; err != nil {
		respond.Error(c, err, "Failed to create content block")
		return
	}
	c.JSON(http.StatusCreated, b)
}
