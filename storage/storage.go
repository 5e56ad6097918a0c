package storage

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/filmlog/watchlist/storage/model"
)

// Storage is a GORM-based storage implementation
type Storage struct {
	db         *gorm.DB
	userParams Argon2idParams
}

var models = []any{
	&model.User{},
	&model.Movie{},
}

// NewStorage creates a new GORM-based storage
func NewStorage(config Config) (*Storage, error) {
	db, err := Connect(config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate the schemas
	if err = db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Fill user hash params with defaults if zero values
	params := config.UsersHash
	if params.Time == 0 {
		params = defaultArgon2idParams()
	}

	return &Storage{
		db:         db,
		userParams: params,
	}, nil
}

// MoviesStorage returns a MoviesStorage
func (s *Storage) MoviesStorage() *MoviesStorage {
	return &MoviesStorage{db: s.db}
}

// UsersStorage returns a UsersStorage
func (s *Storage) UsersStorage() *UsersStorage {
	return &UsersStorage{db: s.db, params: s.userParams}
}

// Migrate creates or updates the schema for all application tables
func (s *Storage) Migrate() error {
	return s.db.AutoMigrate(models...)
}

// DropAll drops all application tables
func (s *Storage) DropAll() error {
	return s.db.Migrator().DropTable(models...)
}

// Backends returns the grouped storage interfaces for this Storage
func (s *Storage) Backends() model.Backends {
	return model.Backends{
		Movies: s.MoviesStorage(),
		Users:  s.UsersStorage(),
	}
}

// LoadBackends initializes a Storage and returns grouped backends.
func LoadBackends(cfg Config) (model.Backends, error) {
	warehouse, err := NewStorage(cfg)
	if err != nil {
		return model.Backends{}, err
	}
	return warehouse.Backends(), nil
}
