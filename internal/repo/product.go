package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/transport"
)

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts returns products newest first. limit <= 0 returns everything.
func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	q := r.DB.WithContext(ctx).Order("created_at DESC").Order("id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	items := make([]models.Product, 0)
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

func (r *GormRepo) PatchProduct(ctx context.Context, req transport.UpdateProductRequest, id string) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&prod).Error; err != nil {
			return err
		}

		if req.Title != nil {
			prod.Title = *req.Title
		}
		if req.Description != nil {
			prod.Description = *req.Description
		}
		if req.PriceCents != nil {
			prod.PriceCents = *req.PriceCents
		}
		if req.ImageURL != nil {
			prod.ImageURL = *req.ImageURL
		}
		if req.Stock != nil {
			prod.Stock = *req.Stock
		}

		return tx.Save(&prod).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchProducts is a case-insensitive substring match over title and
// description, used when no search index is configured.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	where := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0)
	find := where.Session(&gorm.Session{}).Order("created_at DESC").Order("id ASC")
	if limit > 0 {
		find = find.Offset(offset).Limit(limit)
	}
	if err := find.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
