package website

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var emptyObject = json.RawMessage(`{}`)

type Website struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	Name      string `gorm:"not null" json:"name"`
	Subdomain string `gorm:"not null;uniqueIndex:idx_websites_subdomain" json:"subdomain"`

	CustomDomain *string `gorm:"column:custom_domain" json:"custom_domain,omitempty"`
	EnsDomain    *string `gorm:"column:ens_domain" json:"ens_domain,omitempty"`
	SnsDomain    *string `gorm:"column:sns_domain" json:"sns_domain,omitempty"`

	TemplateID *string `gorm:"type:uuid;index" json:"template_id,omitempty"`
	Published  bool    `gorm:"not null;default:false" json:"published"`

	Settings json.RawMessage `gorm:"type:jsonb;not null;default:'{}'" json:"settings"`

	Content []WebsiteContent `gorm:"foreignKey:WebsiteID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Website) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if len(w.Settings) == 0 {
		w.Settings = emptyObject
	}
	return nil
}

// WebsiteContent is one persisted section. OrderIndex is the render position and
// is unique per website.
type WebsiteContent struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	WebsiteID   string `gorm:"type:uuid;not null;uniqueIndex:idx_website_content_order,priority:1" json:"website_id"`
	ContentType string `gorm:"column:content_type;not null;index" json:"content_type"`
	OrderIndex  int    `gorm:"column:order_index;not null;uniqueIndex:idx_website_content_order,priority:2" json:"order_index"`

	Content json.RawMessage `gorm:"type:jsonb;not null;default:'{}'" json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WebsiteContent) TableName() string {
	return "website_content"
}

func (c *WebsiteContent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if len(c.Content) == 0 {
		c.Content = emptyObject
	}
	return nil
}

type Template struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	Description  *string         `json:"description,omitempty"`
	Content      json.RawMessage `gorm:"type:jsonb;not null;default:'{}'" json:"content"`
	ThumbnailURL *string         `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	Category     *string         `gorm:"index" json:"category,omitempty"`
	IsPremium    bool            `gorm:"not null;default:false" json:"is_premium"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if len(t.Content) == 0 {
		t.Content = emptyObject
	}
	return nil
}

// ContentBlock is a catalog entry describing an addable section type.
type ContentBlock struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Type        string          `gorm:"not null;uniqueIndex:idx_content_blocks_type" json:"type"`
	Description *string         `json:"description,omitempty"`
	Config      json.RawMessage `gorm:"type:jsonb" json:"config,omitempty"`
	IsPremium   bool            `gorm:"not null;default:false" json:"is_premium"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *ContentBlock) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type Analytics struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	WebsiteID string    `gorm:"type:uuid;not null;uniqueIndex:idx_website_analytics_day,priority:1" json:"website_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_website_analytics_day,priority:2" json:"date"`

	Views              int      `gorm:"not null;default:0" json:"views"`
	UniqueVisitors     int      `gorm:"column:unique_visitors;not null;default:0" json:"unique_visitors"`
	BounceRate         *float64 `gorm:"column:bounce_rate" json:"bounce_rate,omitempty"`
	AvgSessionDuration *float64 `gorm:"column:avg_session_duration" json:"avg_session_duration,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Analytics) TableName() string {
	return "website_analytics"
}

func (a *Analytics) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
