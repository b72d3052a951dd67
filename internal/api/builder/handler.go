package builderapi

import (
	"errors"
	"net/http"
	"strings"

	"web3builder/database"
	catalogapi "web3builder/internal/api/catalog"
	"web3builder/internal/api/respond"
	"web3builder/internal/app/http/middleware"
	"web3builder/internal/builder"
	"web3builder/internal/cache"
	"web3builder/internal/domain/sections"
	"web3builder/internal/domain/website"
	"web3builder/internal/services"
	"web3builder/internal/session"

	"github.com/gin-gonic/gin"
)

// newBuilder returns a builder bound to the caller's session and loaded with
// the website in the :id param ("new" for an unsaved one). Whether the palette
// fell back to the defaults is kept on the context under catalogDegradedKey.
func newBuilder(c *gin.Context) (*builder.Builder, services.TemplateService, bool) {
	userID, ok := respond.UserID(c)
	if !ok {
		return nil, nil, false
	}

	catalog, degraded := catalogapi.LoadCatalog(c)
	c.Set(catalogDegradedKey, degraded)

	svc := services.NewTemplateService(database.DB)
	b := builder.New(svc, session.Default.Bind(c.GetString("session_id")), catalog)
	if err := b.Load(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err, "Website not found")
		return nil, nil, false
	}

	if b.ID() != builder.NewID && b.Website().UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Website not found"})
		return nil, nil, false
	}
	return b, svc, true
}

const catalogDegradedKey = "catalog_degraded"

func response(c *gin.Context, b *builder.Builder, withCatalog bool) BuilderResponse {
	resp := BuilderResponse{
		ID:              b.ID(),
		State:           b.State(),
		Website:         b.Website(),
		Sections:        b.Sections(),
		CatalogDegraded: c.GetBool(catalogDegradedKey),
	}
	if resp.Sections == nil {
		resp.Sections = []sections.Section{}
	}
	if withCatalog {
		resp.Catalog = b.Editor().Catalog()
	}
	return resp
}

// GET /builder/:id
func LoadBuilder(c *gin.Context) {
	b, _, ok := newBuilder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response(c, b, true))
}

// PUT /builder/:id
// Applies the editor form and section list, checks them against the caller's
// plan and saves website then content.
func SaveBuilder(c *gin.Context) {
	var in SaveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, svc, ok := newBuilder(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	previous := b.Website().Subdomain

	// A newly chosen template seeds the starter sections only when the request
	// carries no list of its own.
	if in.TemplateID != nil {
		tid := strings.TrimSpace(*in.TemplateID)
		if current := b.Website().TemplateID; tid != "" && (current == nil || *current != tid) {
			b.SelectTemplate(tid)
		}
	}
	if in.Sections != nil {
		b.SetSections(*in.Sections)
	}
	b.SetWebsite(in.Website)

	draft := b.Website()
	if draft.Subdomain != "" && !website.ValidSubdomain(draft.Subdomain) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subdomain"})
		return
	}

	var tmpl *website.Template
	if draft.TemplateID != nil {
		t, err := svc.FetchTemplate(ctx, *draft.TemplateID)
		if errors.Is(err, website.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown template"})
			return
		}
		if err != nil {
			respond.Error(c, err, "Failed to load template")
			return
		}
		tmpl = t
	}

	if err := middleware.Policy(c).CheckWebsite(draft, tmpl, b.Sections(), b.Editor().Catalog()); err != nil {
		respond.Error(c, err, "Upgrade required")
		return
	}

	saved, err := b.Save(ctx)
	if saved != nil {
		cache.Sites.Invalidate(ctx, previous, saved.Subdomain)
	}
	if err != nil {
		status := respond.StatusFor(err)
		if status >= http.StatusInternalServerError {
			respond.Error(c, err, "Failed to save website")
			return
		}
		c.JSON(status, gin.H{"error": "Failed to save website", "details": err.Error(), "id": b.ID()})
		return
	}

	c.JSON(http.StatusOK, response(c, b, false))
}

// POST /builder/sections/ops
// Applies one section editor operation to the list the client holds and
// returns the replacement list.
func SectionOp(c *gin.Context) {
	var in SectionOpInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catalog, degraded := catalogapi.LoadCatalog(c)
	ed := sections.NewEditor(catalog)
	for _, id := range in.Expanded {
		if !ed.IsExpanded(id) {
			ed.Toggle(id)
		}
	}

	list := in.Sections
	switch in.Op {
	case OpAdd:
		list = ed.Add(list, in.Type)
	case OpRemove:
		list = ed.Remove(list, in.ID)
	case OpDuplicate:
		var err error
		list, err = ed.Duplicate(list, in.Index)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	case OpReorder:
		list = ed.Reorder(list, in.Src, in.Dst)
	case OpToggle:
		ed.Toggle(in.ID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown operation"})
		return
	}

	if list == nil {
		list = []sections.Section{}
	}
	c.JSON(http.StatusOK, SectionOpResponse{
		Sections:        list,
		Expanded:        ed.Expanded(list),
		CatalogDegraded: degraded,
	})
}
