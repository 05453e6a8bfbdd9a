package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/catering-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// Snapshot loads categories and active items into an immutable pricing catalog.
func (r *CatalogGormRepository) Snapshot(ctx context.Context) (*pricing.StaticCatalog, error) {
	cats, err := r.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Where("active = ?", true).Find(&items).Error; err != nil {
		return nil, err
	}

	pItems := make([]pricing.MenuItem, 0, len(items))
	for _, it := range items {
		pItems = append(pItems, pricing.MenuItem{ID: it.ID, Name: it.Name, Category: it.Category})
	}

	pCats := make([]pricing.Category, 0, len(cats))
	for _, c := range cats {
		pCats = append(pCats, pricing.Category{
			Name:          c.Name,
			PerGuestPrice: c.PerGuestPrice,
		})
	}

	return pricing.NewStaticCatalog(pItems, pCats), nil
}

// --------------------------------------------------
// Categories
// --------------------------------------------------

func (r *CatalogGormRepository) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	var cats []models.MenuCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *CatalogGormRepository) SaveCategory(ctx context.Context, c *models.MenuCategory) error {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrConflict("category_exists", "A category with this name already exists.")
		}
		return err
	}
	return nil
}

func (r *CatalogGormRepository) SetCategoryPrice(ctx context.Context, name string, price float64) error {
	res := r.db.WithContext(ctx).
		Model(&models.MenuCategory{}).
		Where("name = ?", strings.ToLower(strings.TrimSpace(name))).
		Update("per_guest_price", price)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("category_not_found", "Menu category not found.")
	}
	return nil
}

// --------------------------------------------------
// Items
// --------------------------------------------------

type ItemFilter struct {
	Category string
	Active   *bool
	Query    string
}

func (r *CatalogGormRepository) ListItems(ctx context.Context, f ItemFilter) ([]models.MenuItem, error) {
	q := r.db.WithContext(ctx)

	if f.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var items []models.MenuItem
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CatalogGormRepository) GetItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var it models.MenuItem
	if err := r.db.WithContext(ctx).First(&it, id).Error; err != nil {
		return nil, notFound(err, "menu_item_not_found", "Menu item not found.")
	}
	return &it, nil
}

func (r *CatalogGormRepository) SaveItem(ctx context.Context, it *models.MenuItem) error {
	it.Category = strings.ToLower(strings.TrimSpace(it.Category))

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MenuCategory{}).
		Where("name = ?", it.Category).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return httperr.ErrValidation("unknown_menu_category", "Menu category not found: "+it.Category)
	}

	if err := r.db.WithContext(ctx).Save(it).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrConflict("menu_item_exists", "A menu item with this name already exists.")
		}
		return err
	}
	return nil
}
