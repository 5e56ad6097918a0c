package model

// Movie is a single catalog entry. Year is kept as a 4-character string
// because the catalog only ever displays it; nothing sorts or computes on
// it.
type Movie struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:60;not null" json:"title"`
	Year  string `gorm:"size:4;not null" json:"year"`
}

// MoviesStore abstracts CRUD access to the movie catalog. List order is
// implementation-defined; consumers must not rely on it.
type MoviesStore interface {
	// List returns all movies
	List() ([]Movie, error)
	// Get returns a movie by id
	Get(id uint) (*Movie, error)
	// Create validates and persists a new movie
	Create(title, year string) (*Movie, error)
	// Update validates and overwrites both fields of an existing movie
	Update(id uint, title, year string) (*Movie, error)
	// Delete removes a movie by id
	Delete(id uint) error
}
