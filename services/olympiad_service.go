// services/olympiad_service.go - Olympiad catalogue
package services

import (
	"fmt"
	"strings"

	"teammatch/models"

	"github.com/apex/log"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OlympiadService struct {
	db *gorm.DB
}

func NewOlympiadService(db *gorm.DB) *OlympiadService {
	return &OlympiadService{db: db}
}

type OlympiadInput struct {
	Slug        string `json:"slug,omitempty"`
	ShortName   string `json:"short_name"`
	Name        string `json:"name"`
	Year        int    `json:"year"`
	Level       string `json:"level"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

type OlympiadFilter struct {
	Subject string
	Level   string
	Year    int
}

// CreateOlympiad stores a new olympiad. The slug comes from the short name
// (or the name) and the year, with a numeric suffix on collision.
func (s *OlympiadService) CreateOlympiad(in OlympiadInput) (*models.Olympiad, error) {
	o, err := olympiadFromInput(in)
	if err != nil {
		return nil, err
	}

	base := o.Slug
	for i := 2; ; i++ {
		var count int64
		if err := s.db.Model(&models.Olympiad{}).Where("slug = ?", o.Slug).Count(&count).Error; err != nil {
			return nil, errors.Wrap(err, "checking slug")
		}
		if count == 0 {
			break
		}
		o.Slug = fmt.Sprintf("%s-%d", base, i)
	}

	if err := s.db.Create(o).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Invalid("Olympiad %q already exists", o.Slug)
		}
		return nil, errors.Wrap(err, "creating olympiad")
	}

	log.WithFields(log.Fields{"olympiad_id": o.ID, "slug": o.Slug}).Info("olympiad created")
	return o, nil
}

// ListOlympiads returns olympiads matching the filter, newest year first.
func (s *OlympiadService) ListOlympiads(f OlympiadFilter) ([]models.Olympiad, error) {
	query := s.db.Model(&models.Olympiad{})
	if f.Subject != "" {
		query = query.Where("LOWER(subject) = ?", strings.ToLower(f.Subject))
	}
	if f.Level != "" {
		query = query.Where("LOWER(level) = ?", strings.ToLower(f.Level))
	}
	if f.Year != 0 {
		query = query.Where("year = ?", f.Year)
	}

	var olympiads []models.Olympiad
	err := query.Order("year DESC, name ASC").Find(&olympiads).Error
	return olympiads, errors.Wrap(err, "listing olympiads")
}

func (s *OlympiadService) GetOlympiadBySlug(slugValue string) (*models.Olympiad, error) {
	var o models.Olympiad
	if err := s.db.Where("slug = ?", slugValue).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOlympiadNotFound
		}
		return nil, errors.Wrap(err, "loading olympiad")
	}
	return &o, nil
}

// ImportOlympiads upserts a batch keyed on slug and returns how many rows
// were written.
func (s *OlympiadService) ImportOlympiads(items []OlympiadInput) (int, error) {
	rows := make([]*models.Olympiad, 0, len(items))
	for i, in := range items {
		o, err := olympiadFromInput(in)
		if err != nil {
			return 0, errors.Wrapf(err, "item %d", i)
		}
		rows = append(rows, o)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"short_name", "name", "year", "level", "subject", "description", "updated_at"}),
	}).CreateInBatches(rows, 100).Error
	if err != nil {
		return 0, errors.Wrap(err, "importing olympiads")
	}

	log.WithField("count", len(rows)).Info("olympiads imported")
	return len(rows), nil
}

func olympiadFromInput(in OlympiadInput) (*models.Olympiad, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Invalid("Olympiad name is required")
	}

	o := &models.Olympiad{
		ShortName:   strings.TrimSpace(in.ShortName),
		Name:        name,
		Year:        in.Year,
		Level:       strings.TrimSpace(in.Level),
		Subject:     strings.TrimSpace(in.Subject),
		Description: strings.TrimSpace(in.Description),
	}

	o.Slug = slug.Make(in.Slug)
	if o.Slug == "" {
		base := o.ShortName
		if base == "" {
			base = o.Name
		}
		if o.Year != 0 {
			base = fmt.Sprintf("%s %d", base, o.Year)
		}
		o.Slug = slug.Make(base)
	}
	if o.Slug == "" {
		return nil, Invalid("Cannot derive a slug from %q", name)
	}
	return o, nil
}
