// Package sections holds the in-memory section list edited by the builder and
// the palette of section types that can be added to it.
package sections

import (
	"encoding/json"
	"sort"

	"web3builder/internal/domain/website"
)

// Section is one ordered content unit of a website while it is being edited.
// It maps to website.WebsiteContent on load and save.
type Section struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Name    string          `json:"name"`
	Content json.RawMessage `json:"content"`
}

func (s Section) clone() Section {
	out := s
	if s.Content != nil {
		out.Content = append(json.RawMessage(nil), s.Content...)
	}
	return out
}

type CatalogEntry struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	IsPremium bool   `json:"is_premium"`
}

// Catalog is the "available sections" palette, in display order.
type Catalog []CatalogEntry

func (c Catalog) Lookup(sectionType string) (CatalogEntry, bool) {
	for _, e := range c {
		if e.Type == sectionType {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// DisplayName returns the catalog name for a type, or the raw type when the
// catalog has no entry for it.
func (c Catalog) DisplayName(sectionType string) string {
	if e, ok := c.Lookup(sectionType); ok && e.Name != "" {
		return e.Name
	}
	return sectionType
}

func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "header", Type: "header", Name: "Header"},
		{ID: "hero", Type: "hero", Name: "Hero"},
		{ID: "features", Type: "features", Name: "Features"},
		{ID: "price-ticker", Type: "price-ticker", Name: "Price Ticker"},
		{ID: "about", Type: "about", Name: "About"},
		{ID: "roadmap", Type: "roadmap", Name: "Roadmap"},
		{ID: "footer", Type: "footer", Name: "Footer"},
	}
}

// MergeCatalog merges stored content blocks into the default palette.
// A block whose type is already present overrides its name and premium flag;
// other blocks are appended sorted by name.
func MergeCatalog(defaults Catalog, blocks []website.ContentBlock) Catalog {
	out := make(Catalog, len(defaults))
	copy(out, defaults)

	index := make(map[string]int, len(out))
	for i, e := range out {
		index[e.Type] = i
	}

	var extra Catalog
	for _, b := range blocks {
		entry := CatalogEntry{ID: b.ID, Type: b.Type, Name: b.Name, IsPremium: b.IsPremium}
		if i, ok := index[b.Type]; ok {
			out[i] = entry
			continue
		}
		index[b.Type] = -1
		extra = append(extra, entry)
	}

	sort.SliceStable(extra, func(i, j int) bool { return extra[i].Name < extra[j].Name })
	return append(out, extra...)
}

var seedTypes = []string{"header", "hero", "features", "footer"}

// DefaultSeed returns the starter sections used when a template is picked for
// a website that has no sections yet.
func DefaultSeed(catalog Catalog, newID func() string) []Section {
	out := make([]Section, 0, len(seedTypes))
	for _, t := range seedTypes {
		out = append(out, Section{
			ID:      newID(),
			Type:    t,
			Name:    catalog.DisplayName(t),
			Content: json.RawMessage(`{}`),
		})
	}
	return out
}

// FromContent maps persisted rows to sections. Rows are expected in
// order_index order.
func FromContent(items []website.WebsiteContent, catalog Catalog) []Section {
	out := make([]Section, 0, len(items))
	for _, it := range items {
		out = append(out, Section{
			ID:      it.ID,
			Type:    it.ContentType,
			Name:    catalog.DisplayName(it.ContentType),
			Content: it.Content,
		})
	}
	return out
}
