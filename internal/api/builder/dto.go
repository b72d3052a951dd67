package builderapi

import (
	"web3builder/internal/builder"
	"web3builder/internal/domain/sections"
	"web3builder/internal/domain/website"
)

type BuilderResponse struct {
	ID       string             `json:"id"`
	State    builder.State      `json:"state"`
	Website  website.Website    `json:"website"`
	Sections []sections.Section `json:"sections"`
	Catalog  sections.Catalog   `json:"catalog,omitempty"`

	// CatalogDegraded is set when stored content blocks could not be read and
	// Catalog holds only the default sections.
	CatalogDegraded bool `json:"catalog_degraded"`
}

type SaveInput struct {
	Website    builder.Patch       `json:"website"`
	TemplateID *string             `json:"template_id"`
	Sections   *[]sections.Section `json:"sections"`
}

const (
	OpAdd       = "add"
	OpRemove    = "remove"
	OpDuplicate = "duplicate"
	OpReorder   = "reorder"
	OpToggle    = "toggle"
)

type SectionOpInput struct {
	Op       string             `json:"op" binding:"required"`
	Sections []sections.Section `json:"sections"`
	Expanded []string           `json:"expanded"`

	Type  string `json:"type"`
	ID    string `json:"id"`
	Index int    `json:"index"`
	Src   int    `json:"src"`
	Dst   int    `json:"dst"`
}

type SectionOpResponse struct {
	Sections        []sections.Section `json:"sections"`
	Expanded        []string           `json:"expanded"`
	CatalogDegraded bool               `json:"catalog_degraded"`
}
