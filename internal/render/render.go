// Package render turns a website and its stored content into a read-only
// HTML page, used for both owner previews and published sites.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"

	"github.com/microcosm-cc/bluemonday"

	"web3builder/internal/domain/access"
	"web3builder/internal/domain/sections"
	"web3builder/internal/domain/website"
)

//go:embed templates/page.html.tmpl
var templatesFS embed.FS

var (
	pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/page.html.tmpl"))
	ugc      = bluemonday.UGCPolicy()
)

// Text fields rendered in this order when a section's content has them.
var textKeys = []string{"title", "subtitle", "heading", "description", "text", "body"}

type field struct {
	Key   string
	Value template.HTML
}

type section struct {
	ID     string
	Type   string
	Name   string
	Fields []field
	Items  []template.HTML
	Extra  []field
}

type page struct {
	Title    string
	NoIndex  bool
	Branding bool
	Sections []section
}

// Page renders w with items in order_index order. Every string taken from
// content is passed through the UGC sanitizer.
func Page(w website.Website, items []website.WebsiteContent, catalog sections.Catalog, rules access.SiteRules) ([]byte, error) {
	ordered := append([]website.WebsiteContent(nil), items...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].OrderIndex < ordered[j].OrderIndex })

	p := page{
		Title:    w.Name,
		NoIndex:  rules.NoIndex || !w.Published,
		Branding: rules.ShowPlatformBranding,
		Sections: make([]section, 0, len(ordered)),
	}

	for _, it := range ordered {
		s, err := buildSection(it, catalog)
		if err != nil {
			return nil, err
		}
		p.Sections = append(p.Sections, s)
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

func buildSection(it website.WebsiteContent, catalog sections.Catalog) (section, error) {
	s := section{ID: it.ID, Type: it.ContentType, Name: catalog.DisplayName(it.ContentType)}
	if len(it.Content) == 0 {
		return s, nil
	}

	var content map[string]interface{}
	if err := json.Unmarshal(it.Content, &content); err != nil {
		return s, fmt.Errorf("render section %s: %w", it.ID, err)
	}

	used := map[string]bool{}
	for _, k := range textKeys {
		if v, ok := content[k].(string); ok && v != "" {
			s.Fields = append(s.Fields, field{Key: k, Value: clean(v)})
			used[k] = true
		}
	}

	if list, ok := content["items"].([]interface{}); ok {
		used["items"] = true
		for _, v := range list {
			switch item := v.(type) {
			case string:
				s.Items = append(s.Items, clean(item))
			case map[string]interface{}:
				if t, ok := item["title"].(string); ok {
					s.Items = append(s.Items, clean(t))
				}
			}
		}
	}

	var rest []string
	for k, v := range content {
		if _, ok := v.(string); ok && !used[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		s.Extra = append(s.Extra, field{Key: k, Value: clean(content[k].(string))})
	}
	return s, nil
}

// clean sanitizes user HTML. The result is safe to emit unescaped.
func clean(s string) template.HTML {
	return template.HTML(ugc.Sanitize(s))
}
