package model

// User represents the site owner. The application treats the first user
// row as the admin account; the schema permits more rows, but nothing in
// the request path ever creates one.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Name is the display name shown in the page header
	Name string `gorm:"size:20" json:"name"`
	// Username is the login identifier
	Username string `gorm:"uniqueIndex" json:"username"`
	// PasswordHash stores a PHC-formatted argon2id hash of the user's password
	PasswordHash string `json:"-"`
}

// UsersStore abstracts access to the single admin account.
type UsersStore interface {
	// Count returns the number of user rows present
	Count() (int64, error)
	// Admin returns the admin account (first row by insertion order)
	Admin() (*User, error)
	// Get returns a user by id
	Get(id uint) (*User, error)
	// SetAdmin creates the admin account or updates its credentials;
	// the implementation must hash the password
	SetAdmin(username, password string) (*User, error)
	// Authenticate checks a username/password combo against the admin
	// account and returns the user
	Authenticate(username, password string) (*User, error)
	// UpdateDisplayName changes a user's display name
	UpdateDisplayName(id uint, name string) (*User, error)
}
