package services

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"web3builder/internal/domain/website"
)

type AnalyticsService interface {
	RecordView(ctx context.Context, websiteID string, at time.Time, newVisitor bool) error
	Daily(ctx context.Context, websiteID string, since time.Time) ([]website.Analytics, error)
}

type analyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) AnalyticsService {
	return &analyticsService{db: db}
}

// Day truncates t to its UTC calendar day, the analytics bucket key.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RecordView counts one page view in the day bucket of at.
func (s *analyticsService) RecordView(ctx context.Context, websiteID string, at time.Time, newVisitor bool) error {
	row := website.Analytics{
		WebsiteID: websiteID,
		Date:      Day(at),
		Views:     1,
	}
	if newVisitor {
		row.UniqueVisitors = 1
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "website_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"views":           gorm.Expr("website_analytics.views + 1"),
			"unique_visitors": gorm.Expr("website_analytics.unique_visitors + excluded.unique_visitors"),
			"updated_at":      time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		return storeErr("record view", website.ErrSaveFailure, err)
	}
	return nil
}

func (s *analyticsService) Daily(ctx context.Context, websiteID string, since time.Time) ([]website.Analytics, error) {
	var out []website.Analytics
	if err := s.db.WithContext(ctx).
		Where("website_id = ? AND date >= ?", websiteID, Day(since)).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, storeErr("fetch analytics", website.ErrDataUnavailable, err)
	}
	return out, nil
}
