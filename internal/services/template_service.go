package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"web3builder/internal/domain/sections"
	"web3builder/internal/domain/website"
)

// TemplateService is the persistence boundary for templates, content blocks,
// websites and their ordered content.
type TemplateService interface {
	FetchTemplates(ctx context.Context) ([]website.Template, error)
	FetchTemplate(ctx context.Context, id string) (*website.Template, error)
	FetchContentBlocks(ctx context.Context) ([]website.ContentBlock, error)
	CheckSubdomainAvailability(ctx context.Context, subdomain string) (bool, error)

	SaveWebsite(ctx context.Context, data website.Website, userID string, isNew bool) (*website.Website, error)
	FetchWebsite(ctx context.Context, id string) (*website.Website, error)
	FetchWebsiteContent(ctx context.Context, websiteID string) ([]website.WebsiteContent, error)
	SaveWebsiteContent(ctx context.Context, websiteID string, list []sections.Section) error

	ListUserWebsites(ctx context.Context, userID string) ([]website.Website, error)
	DeleteWebsite(ctx context.Context, id, userID string) error
	SetPublished(ctx context.Context, id, userID string, published bool) (*website.Website, error)
	FetchPublishedBySubdomain(ctx context.Context, subdomain string) (*website.Website, error)
}

type templateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) TemplateService {
	return &templateService{db: db}
}

func storeErr(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %v", op, kind, err)
}

// lookupErr maps a point lookup failure to ErrNotFound or ErrDataUnavailable.
func lookupErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, website.ErrNotFound)
	}
	return storeErr(op, website.ErrDataUnavailable, err)
}

func (s *templateService) FetchTemplates(ctx context.Context) ([]website.Template, error) {
	var out []website.Template
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, storeErr("fetch templates", website.ErrDataUnavailable, err)
	}
	return out, nil
}

func (s *templateService) FetchTemplate(ctx context.Context, id string) (*website.Template, error) {
	var t website.Template
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, lookupErr("fetch template", err)
	}
	return &t, nil
}

func (s *templateService) FetchContentBlocks(ctx context.Context) ([]website.ContentBlock, error) {
	var out []website.ContentBlock
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, storeErr("fetch content blocks", website.ErrDataUnavailable, err)
	}
	return out, nil
}

// CheckSubdomainAvailability matches the exact string; callers normalize.
func (s *templateService) CheckSubdomainAvailability(ctx context.Context, subdomain string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&website.Website{}).
		Where("subdomain = ?", subdomain).
		Count(&count).Error; err != nil {
		return false, storeErr("check subdomain", website.ErrDataUnavailable, err)
	}
	return count == 0, nil
}

// SaveWebsite inserts a website owned by userID, or updates the website with
// data.ID when it belongs to userID. The id itself is never written on update
// and the published flag is left to SetPublished.
func (s *templateService) SaveWebsite(ctx context.Context, data website.Website, userID string, isNew bool) (*website.Website, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("save website: owner required: %w", website.ErrValidation)
	}
	if len(data.Settings) == 0 {
		data.Settings = json.RawMessage(`{}`)
	}
	db := s.db.WithContext(ctx)

	if isNew {
		data.ID = ""
		data.UserID = userID
		data.Published = false
		data.Content = nil
		if err := db.Create(&data).Error; err != nil {
			return nil, saveErr("create website", err)
		}
		return &data, nil
	}

	id := data.ID
	if id == "" {
		return nil, fmt.Errorf("update website: id required: %w", website.ErrValidation)
	}

	patch := website.Website{
		Name:         data.Name,
		Subdomain:    data.Subdomain,
		CustomDomain: data.CustomDomain,
		EnsDomain:    data.EnsDomain,
		SnsDomain:    data.SnsDomain,
		TemplateID:   data.TemplateID,
		Settings:     data.Settings,
		UpdatedAt:    time.Now(),
	}
	res := db.Model(&website.Website{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select("name", "subdomain", "custom_domain", "ens_domain", "sns_domain", "template_id", "settings", "updated_at").
		Updates(&patch)
	if res.Error != nil {
		return nil, saveErr("update website", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update website %s: %w", id, website.ErrNotFound)
	}

	var out website.Website
	if err := db.First(&out, "id = ?", id).Error; err != nil {
		return nil, storeErr("reload website", website.ErrSaveFailure, err)
	}
	return &out, nil
}

func saveErr(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w: %w", op, website.ErrSaveFailure, website.ErrSubdomainTaken)
	}
	return storeErr(op, website.ErrSaveFailure, err)
}

func (s *templateService) FetchWebsite(ctx context.Context, id string) (*website.Website, error) {
	var w website.Website
	if err := s.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, lookupErr("fetch website", err)
	}
	return &w, nil
}

func (s *templateService) FetchWebsiteContent(ctx context.Context, websiteID string) ([]website.WebsiteContent, error) {
	var out []website.WebsiteContent
	if err := contentQuery(s.db.WithContext(ctx), websiteID).
		Order("order_index ASC").
		Find(&out).Error; err != nil {
		return nil, storeErr("fetch website content", website.ErrDataUnavailable, err)
	}
	return out, nil
}

// SaveWebsiteContent makes the stored content equal to list, in list order.
// Rows are upserted by position and rows past the end of list are pruned, all
// in one transaction: a failure leaves the previous content untouched.
func (s *templateService) SaveWebsiteContent(ctx context.Context, websiteID string, list []sections.Section) error {
	if websiteID == "" {
		return fmt.Errorf("save website content: website id required: %w", website.ErrValidation)
	}

	rows := make([]website.WebsiteContent, 0, len(list))
	for i, sec := range list {
		content := sec.Content
		if len(content) == 0 {
			content = json.RawMessage(`{}`)
		}
		rows = append(rows, website.WebsiteContent{
			WebsiteID:   websiteID,
			ContentType: sec.Type,
			OrderIndex:  i,
			Content:     content,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "website_id"}, {Name: "order_index"}},
				DoUpdates: clause.AssignmentColumns([]string{"content_type", "content", "updated_at"}),
			}).Create(&rows).Error; err != nil {
				return err
			}
		}

		return contentQuery(tx, websiteID).
			Where("order_index >= ?", len(rows)).
			Delete(&website.WebsiteContent{}).Error
	})
	if err != nil {
		return storeErr("save website content", website.ErrSaveFailure, err)
	}
	return nil
}

func (s *templateService) ListUserWebsites(ctx context.Context, userID string) ([]website.Website, error) {
	var out []website.Website
	if err := userWebsitesQuery(s.db.WithContext(ctx), userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, storeErr("list websites", website.ErrDataUnavailable, err)
	}
	return out, nil
}

func (s *templateService) DeleteWebsite(ctx context.Context, id, userID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w website.Website
		if err := userWebsitesQuery(tx, userID).First(&w, "id = ?", id).Error; err != nil {
			return err
		}
		if err := contentQuery(tx, id).Delete(&website.WebsiteContent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("website_id = ?", id).Delete(&website.Analytics{}).Error; err != nil {
			return err
		}
		return tx.Delete(&w).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("delete website %s: %w", id, website.ErrNotFound)
	}
	if err != nil {
		return storeErr("delete website", website.ErrSaveFailure, err)
	}
	return nil
}

func (s *templateService) SetPublished(ctx context.Context, id, userID string, published bool) (*website.Website, error) {
	db := s.db.WithContext(ctx)
	res := userWebsitesQuery(db, userID).
		Where("id = ?", id).
		Updates(map[string]interface{}{"published": published, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, storeErr("set published", website.ErrSaveFailure, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("set published %s: %w", id, website.ErrNotFound)
	}

	var out website.Website
	if err := db.First(&out, "id = ?", id).Error; err != nil {
		return nil, lookupErr("reload website", err)
	}
	return &out, nil
}

func (s *templateService) FetchPublishedBySubdomain(ctx context.Context, subdomain string) (*website.Website, error) {
	var w website.Website
	if err := s.db.WithContext(ctx).
		Where("subdomain = ? AND published = ?", subdomain, true).
		First(&w).Error; err != nil {
		return nil, lookupErr("fetch published website", err)
	}
	return &w, nil
}

func contentQuery(db *gorm.DB, websiteID string) *gorm.DB {
	return db.Model(&website.WebsiteContent{}).Where("website_id = ?", websiteID)
}

func userWebsitesQuery(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&website.Website{}).Where("user_id = ?", userID)
}
