package coverage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
	"github.com/giftbloom/giftbloom-backend/pkg/enums"
)

func setupCoverageTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	cities := `
CREATE TABLE IF NOT EXISTS cities (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  state TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  is_coming_soon INTEGER NOT NULL DEFAULT 0,
  base_delivery_charge NUMERIC NOT NULL DEFAULT 0,
  free_delivery_above NUMERIC NOT NULL DEFAULT 0,
  lat REAL NOT NULL DEFAULT 0,
  lng REAL NOT NULL DEFAULT 0,
  pincode_prefixes TEXT,
  aliases TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	serviceAreas := `
CREATE TABLE IF NOT EXISTS service_areas (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  pincode TEXT NOT NULL,
  city_id TEXT NOT NULL,
  lat REAL,
  lng REAL,
  is_active INTEGER NOT NULL DEFAULT 1,
  alt_names TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	vendors := `
CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  city_id TEXT NOT NULL,
  lat REAL,
  lng REAL,
  service_radius_km REAL NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  is_online INTEGER NOT NULL DEFAULT 0,
  coverage_method TEXT NOT NULL DEFAULT 'pincode_list',
  created_at DATETIME,
  updated_at DATETIME
);`
	vendorServiceAreas := `
CREATE TABLE IF NOT EXISTS vendor_service_areas (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  service_area_id TEXT NOT NULL,
  surcharge NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  is_active INTEGER NOT NULL DEFAULT 0,
  requested_at DATETIME NOT NULL,
  activated_at DATETIME,
  activated_by TEXT,
  rejection_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (vendor_id, service_area_id)
);`
	vendorPincodes := `
CREATE TABLE IF NOT EXISTS vendor_pincodes (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  pincode TEXT NOT NULL,
  delivery_charge NUMERIC NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (vendor_id, pincode)
);`
	require.NoError(t, db.Exec(cities).Error)
	require.NoError(t, db.Exec(serviceAreas).Error)
	require.NoError(t, db.Exec(vendors).Error)
	require.NoError(t, db.Exec(vendorServiceAreas).Error)
	require.NoError(t, db.Exec(vendorPincodes).Error)
	return db
}

func newCity(t *testing.T, db *gorm.DB, name, slug string) *models.City {
	t.Helper()
	city := &models.City{ID: uuid.New(), Name: name, Slug: slug, IsActive: true}
	require.NoError(t, db.Create(city).Error)
	return city
}

func newArea(t *testing.T, db *gorm.DB, city *models.City, name, pincode string) *models.ServiceArea {
	t.Helper()
	area := &models.ServiceArea{ID: uuid.New(), Name: name, Pincode: pincode, CityID: city.ID, IsActive: true}
	require.NoError(t, db.Create(area).Error)
	return area
}

func newVendor(t *testing.T, db *gorm.DB, city *models.City, name string) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{ID: uuid.New(), Name: name, CityID: city.ID, Status: enums.VendorStatusApproved}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

func newCoverageRow(t *testing.T, db *gorm.DB, vendor *models.Vendor, area *models.ServiceArea, status enums.CoverageStatus) *models.VendorServiceArea {
	t.Helper()
	row := &models.VendorServiceArea{
		ID:            uuid.New(),
		VendorID:      vendor.ID,
		ServiceAreaID: area.ID,
		Surcharge:     decimal.NewFromInt(10),
		Status:        status,
		RequestedAt:   time.Now(),
	}
	row.SyncActive()
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestRepositoryListByVendorJoinsAreaAndCity(t *testing.T) {
	db := setupCoverageTestDB(t)
	repo := NewRepository(db)

	city := newCity(t, db, "Bengaluru", "bengaluru-"+uuid.NewString())
	vendor := newVendor(t, db, city, "Bloomcart")
	beta := newArea(t, db, city, "Indiranagar", "560038")
	alpha := newArea(t, db, city, "Basavanagudi", "560004")
	newCoverageRow(t, db, vendor, alpha, enums.CoverageStatusActive)
	newCoverageRow(t, db, vendor, beta, enums.CoverageStatusPending)

	rows, err := repo.ListByVendor(context.Background(), vendor.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by area name.
	assert.Equal(t, "Basavanagudi", rows[0].AreaName)
	assert.Equal(t, "Indiranagar", rows[1].AreaName)
	assert.Equal(t, city.ID, rows[0].CityID)
	assert.Equal(t, "Bengaluru", rows[0].CityName)
	assert.Equal(t, "560004", rows[0].Pincode)
	assert.Equal(t, enums.CoverageStatusActive, rows[0].Status)
	assert.True(t, rows[0].IsActive)
	assert.False(t, rows[1].IsActive)
}

func TestRepositoryListUnrequestedAreas(t *testing.T) {
	db := setupCoverageTestDB(t)
	repo := NewRepository(db)

	city := newCity(t, db, "Bengaluru", "bengaluru-"+uuid.NewString())
	otherCity := newCity(t, db, "Mysuru", "mysuru-"+uuid.NewString())
	vendor := newVendor(t, db, city, "Bloomcart")

	requested := newArea(t, db, city, "Basavanagudi", "560004")
	open := newArea(t, db, city, "Indiranagar", "560038")
	newArea(t, db, otherCity, "Kuvempunagar", "570023")

	inactive := newArea(t, db, city, "Old Pete", "560002")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	newCoverageRow(t, db, vendor, requested, enums.CoverageStatusPending)

	areas, err := repo.ListUnrequestedAreas(context.Background(), vendor.ID, city.ID)
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, open.ID, areas[0].ID)
}

func TestRepositoryFindByVendorAndAreaMissReturnsNil(t *testing.T) {
	db := setupCoverageTestDB(t)
	repo := NewRepository(db)

	row, err := repo.FindByVendorAndArea(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestRepositoryUpsertVendorPincode(t *testing.T) {
	db := setupCoverageTestDB(t)
	repo := NewRepository(db)

	city := newCity(t, db, "Bengaluru", "bengaluru-"+uuid.NewString())
	vendor := newVendor(t, db, city, "Bloomcart")

	require.NoError(t, repo.UpsertVendorPincodeTx(db, vendor.ID, "560001", decimal.NewFromInt(30)))
	require.NoError(t, repo.DeactivateVendorPincodeTx(db, vendor.ID, "560001"))

	// Re-upserting the same pair reactivates and updates the charge rather
	// than violating the unique index.
	require.NoError(t, repo.UpsertVendorPincodeTx(db, vendor.ID, "560001", decimal.NewFromInt(45)))

	var rows []models.VendorPincode
	require.NoError(t, db.Where("vendor_id = ?", vendor.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsActive)
	assert.True(t, rows[0].DeliveryCharge.Equal(decimal.NewFromInt(45)))
}

func TestRepositoryDeleteByVendorAndAreas(t *testing.T) {
	db := setupCoverageTestDB(t)
	repo := NewRepository(db)

	city := newCity(t, db, "Bengaluru", "bengaluru-"+uuid.NewString())
	vendor := newVendor(t, db, city, "Bloomcart")
	keep := newArea(t, db, city, "Basavanagudi", "560004")
	drop := newArea(t, db, city, "Indiranagar", "560038")
	newCoverageRow(t, db, vendor, keep, enums.CoverageStatusActive)
	newCoverageRow(t, db, vendor, drop, enums.CoverageStatusPending)

	require.NoError(t, repo.DeleteByVendorAndAreasTx(db, vendor.ID, []uuid.UUID{drop.ID}))

	remaining, err := repo.ListModelsByVendor(context.Background(), vendor.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].ServiceAreaID)
}

func TestRepositoryListPendingByVendorTx(t *testing.T) {
	db := setupCoverageTestDB(t)
	repo := NewRepository(db)

	city := newCity(t, db, "Bengaluru", "bengaluru-"+uuid.NewString())
	vendor := newVendor(t, db, city, "Bloomcart")
	pendingArea := newArea(t, db, city, "Basavanagudi", "560004")
	activeArea := newArea(t, db, city, "Indiranagar", "560038")
	newCoverageRow(t, db, vendor, pendingArea, enums.CoverageStatusPending)
	newCoverageRow(t, db, vendor, activeArea, enums.CoverageStatusActive)

	pending, err := repo.ListPendingByVendorTx(db, vendor.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, pendingArea.ID, pending[0].ServiceAreaID)

	_, err = repo.ListPendingByVendorTx(nil, vendor.ID)
	assert.ErrorIs(t, err, gorm.ErrInvalidTransaction)
}
