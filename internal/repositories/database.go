package repositories

import (
	"github.com/go-faster/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront/internal/models"
)

// Supported values for the database driver setting.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// OpenDatabase connects to the configured SQL store and migrates the schema.
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", driver)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the storefront tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.Order{}); err != nil {
		return errors.Wrap(err, "auto-migrate")
	}
	return nil
}

// Stores groups the three repositories the storefront needs.
type Stores struct {
	Products ProductRepository
	Orders   OrderRepository
	Users    UserRepository
}

// NewGORMStores builds SQL-backed repositories.
func NewGORMStores(db *gorm.DB) Stores {
	return Stores{
		Products: NewGORMProductRepository(db),
		Orders:   NewGORMOrderRepository(db),
		Users:    NewGORMUserRepository(db),
	}
}

// NewMemoryStores builds in-memory repositories.
func NewMemoryStores() Stores {
	products := NewMemoryProductRepository()
	return Stores{
		Products: products,
		Orders:   NewMemoryOrderRepository(products),
		Users:    NewMemoryUserRepository(),
	}
}
