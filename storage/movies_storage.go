package storage

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/filmlog/watchlist/storage/model"
)

// MoviesStorage provides CRUD access to Movie records using GORM.
type MoviesStorage struct {
	db *gorm.DB
}

// validateMovie enforces the catalog input rules: title 1-60 characters,
// year exactly 4 characters. Violations are reported before anything
// touches the database.
func validateMovie(title, year string) error {
	if title == "" || utf8.RuneCountInString(title) > 60 {
		return model.ValidationError("movie title must be 1-60 characters")
	}
	if utf8.RuneCountInString(year) != 4 {
		return model.ValidationError("movie year must be exactly 4 characters")
	}
	return nil
}

// List returns all movies. Order is whatever the database returns;
// consumers must not rely on it.
func (s *MoviesStorage) List() ([]model.Movie, error) {
	var items []model.Movie
	if err := s.db.Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "movies: list failed")
	}
	return items, nil
}

// Get returns the movie with the given id
func (s *MoviesStorage) Get(id uint) (*model.Movie, error) {
	var item model.Movie
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundErrorFmt("movie not found: %d", id)
		}
		return nil, errors.Wrap(err, "movies: get failed")
	}
	return &item, nil
}

// Create validates and persists a new movie
func (s *MoviesStorage) Create(title, year string) (*model.Movie, error) {
	if err := validateMovie(title, year); err != nil {
		return nil, err
	}
	item := &model.Movie{
		Title: title,
		Year:  year,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, errors.Wrap(err, "movies: create failed")
	}
	return item, nil
}

// Update validates the input and overwrites both fields of the movie with
// the given id
func (s *MoviesStorage) Update(id uint, title, year string) (*model.Movie, error) {
	if err := validateMovie(title, year); err != nil {
		return nil, err
	}
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	item.Title = title
	item.Year = year
	if err = s.db.Save(item).Error; err != nil {
		return nil, errors.Wrap(err, "movies: update failed")
	}
	return item, nil
}

// Delete removes the movie with the given id
func (s *MoviesStorage) Delete(id uint) error {
	res := s.db.Delete(&model.Movie{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "movies: delete failed")
	}
	if res.RowsAffected == 0 {
		return model.NotFoundErrorFmt("movie not found: %d", id)
	}
	return nil
}
