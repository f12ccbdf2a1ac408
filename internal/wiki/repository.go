package wiki

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Repository defines persistence operations for wiki pages.
type Repository interface {
	GetByName(ctx context.Context, name string) (*Page, error)
	ListNames(ctx context.Context) ([]string, error)
	Create(ctx context.Context, page *Page) error
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}

// GormRepository persists pages using a Gorm database connection.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

// GetByName returns the page for the provided name or nil when not found.
// A lookup miss is not an error.
func (r *GormRepository) GetByName(ctx context.Context, name string) (*Page, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, eris.New("page name is required")
	}

	var page Page
	err := r.db.WithContext(ctx).First(&page, "name = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"name": trimmed}, err, "fetching page by name")
		return nil, eris.Wrapf(err, "fetching page by name: %s", trimmed)
	}

	return &page, nil
}

// ListNames returns every page name. Ordering is left to the caller; the index
// view sorts before display.
func (r *GormRepository) ListNames(ctx context.Context) ([]string, error) {
	var names []string

	if err := r.db.WithContext(ctx).Model(&Page{}).Pluck("name", &names).Error; err != nil {
		r.logError(nil, err, "listing page names")
		return nil, eris.Wrap(err, "listing page names")
	}

	return names, nil
}

// Create inserts a new page. A duplicate name violates the unique index and
// surfaces as a wrapped store error; there is no pre-check.
func (r *GormRepository) Create(ctx context.Context, page *Page) error {
	if page == nil {
		return eris.New("page is nil")
	}

	page.Name = strings.TrimSpace(page.Name)
	if page.Name == "" {
		return eris.New("page name is required")
	}

	if err := r.db.WithContext(ctx).Create(page).Error; err != nil {
		r.logError(logrus.Fields{"name": page.Name}, err, "creating page")
		return eris.Wrapf(err, "creating page: %s", page.Name)
	}

	return nil
}

// UpdateContent rewrites the content of the page with the given id. Updating a
// missing id affects zero rows and is a silent no-op.
func (r *GormRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	result := r.db.WithContext(ctx).Model(&Page{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		r.logError(logrus.Fields{"id": id}, result.Error, "updating page content")
		return eris.Wrapf(result.Error, "updating page content: %d", id)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"id": id, "rows": result.RowsAffected}).Debug("page content updated")
	}

	return nil
}

// Delete removes the page with the given id. Deleting a missing id affects
// zero rows and is a silent no-op.
func (r *GormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&Page{}, id)
	if result.Error != nil {
		r.logError(logrus.Fields{"id": id}, result.Error, "deleting page")
		return eris.Wrapf(result.Error, "deleting page: %d", id)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"id": id, "rows": result.RowsAffected}).Debug("page deleted")
	}

	return nil
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
