package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/models"
)

// OpenDB opens a migrated in-memory sqlite database that lives for the test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func CreateUser(t *testing.T, gdb *gorm.DB, name, email, password, role string) *models.User {
	t.Helper()
	h, err := hash.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Name: name, Email: email, PasswordHash: h, Role: role}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

// CreateProduct inserts p with CreatedAt shifted by age into the past so
// that ordering by creation time is deterministic.
func CreateProduct(t *testing.T, gdb *gorm.DB, title string, priceCents int64, age time.Duration) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:       title,
		Description: title + " description",
		PriceCents:  priceCents,
		Stock:       10,
		CreatedAt:   time.Now().UTC().Add(-age),
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}
