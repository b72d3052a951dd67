package websitesapi

import (
	"time"

	"web3builder/internal/domain/website"
)

type WebsiteDTO struct {
	website.Website
	PublicURL string `json:"public_url"`
}

type ListWebsitesResponse struct {
	Websites []WebsiteDTO `json:"websites"`
}

type DayDTO struct {
	Date           string `json:"date"`
	Views          int    `json:"views"`
	UniqueVisitors int    `json:"unique_visitors"`
}

type AnalyticsResponse struct {
	WebsiteID      string    `json:"website_id"`
	Since          time.Time `json:"since"`
	Views          int       `json:"views"`
	UniqueVisitors int       `json:"unique_visitors"`
	Days           []DayDTO  `json:"days,omitempty"`
}
