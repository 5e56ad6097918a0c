package storage

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"

	"github.com/filmlog/watchlist/storage/model"
)

// UsersStorage implements UsersStore using GORM. The first user row is the
// admin account; SetAdmin maintains that convention.
type UsersStorage struct {
	db     *gorm.DB
	params Argon2idParams
}

// Count returns the number of user rows present
func (s *UsersStorage) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "users: count failed")
	}
	return count, nil
}

// Admin returns the admin account (first row by insertion order) without
// its password hash
func (s *UsersStorage) Admin() (*model.User, error) {
	u, err := s.admin()
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// admin returns the first user row including the password hash
func (s *UsersStorage) admin() (*model.User, error) {
	var u model.User
	if err := s.db.Order("id").First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundError("no admin account provisioned")
		}
		return nil, errors.Wrap(err, "users: admin lookup failed")
	}
	return &u, nil
}

// Get returns a user by id without the password hash
func (s *UsersStorage) Get(id uint) (*model.User, error) {
	var u model.User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundErrorFmt("user not found: %d", id)
		}
		return nil, errors.Wrap(err, "users: get failed")
	}
	u.PasswordHash = ""
	return &u, nil
}

// SetAdmin creates the admin account or, if one exists, updates its
// username and password. The password is stored as an Argon2id hash; the
// plaintext is never persisted.
func (s *UsersStorage) SetAdmin(username, password string) (*model.User, error) {
	if len(username) == 0 || len(password) == 0 {
		return nil, model.ValidationError("username and password are required")
	}
	hash, err := hashPasswordArgon2id(password, s.params)
	if err != nil {
		return nil, err
	}
	u, err := s.admin()
	if _, ok := err.(model.NotFoundError); ok {
		u = &model.User{Username: username, PasswordHash: hash, Name: "Admin"}
		if err = s.db.Create(u).Error; err != nil {
			return nil, errors.Wrap(err, "users: create admin failed")
		}
		u.PasswordHash = ""
		return u, nil
	}
	if err != nil {
		return nil, err
	}
	u.Username = username
	u.PasswordHash = hash
	if err = s.db.Save(u).Error; err != nil {
		return nil, errors.Wrap(err, "users: update admin failed")
	}
	u.PasswordHash = ""
	return u, nil
}

// EnsureOwner creates a credential-less owner row with the given display
// name if no user exists yet. Used by the seeding command; such a row
// cannot log in until SetAdmin provisions credentials.
func (s *UsersStorage) EnsureOwner(name string) error {
	count, err := s.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return errors.Wrap(s.db.Create(&model.User{Name: name}).Error, "users: seed owner failed")
}

// Authenticate validates a username/password combo against the admin
// account. Any mismatch, including an unprovisioned account, yields the
// same generic error so callers cannot tell which part was wrong. A
// matching hash under outdated parameters is transparently re-hashed.
func (s *UsersStorage) Authenticate(username, password string) (*model.User, error) {
	genericErr := errors.New("invalid username or password")
	u, err := s.admin()
	if err != nil {
		return nil, genericErr
	}
	// Fail closed when no hash was ever provisioned
	if u.Username != username || u.PasswordHash == "" {
		return nil, genericErr
	}
	ok, err := verifyPasswordArgon2id(u.PasswordHash, password)
	if err != nil || !ok {
		return nil, genericErr
	}
	if stored, err := extractArgon2idParams(u.PasswordHash); err == nil && !argon2idParamsEqual(stored, s.params) {
		if newHash, err := hashPasswordArgon2id(password, s.params); err == nil {
			_ = s.db.Model(&model.User{}).Where("id = ?", u.ID).Update("password_hash", newHash).Error
		}
	}
	u.PasswordHash = ""
	return u, nil
}

// UpdateDisplayName changes a user's display name (1-20 characters)
func (s *UsersStorage) UpdateDisplayName(id uint, name string) (*model.User, error) {
	if name == "" || utf8.RuneCountInString(name) > 20 {
		return nil, model.ValidationError("display name must be 1-20 characters")
	}
	var u model.User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundErrorFmt("user not found: %d", id)
		}
		return nil, errors.Wrap(err, "users: get failed")
	}
	u.Name = name
	if err := s.db.Save(&u).Error; err != nil {
		return nil, errors.Wrap(err, "users: update display name failed")
	}
	u.PasswordHash = ""
	return &u, nil
}

// hashPasswordArgon2id returns a PHC-formatted argon2id hash string
// Format: $argon2id$v=19$m=65536,t=1,p=4$<saltB64>$<hashB64>
func hashPasswordArgon2id(password string, p Argon2idParams) (string, error) {
	if p.Time == 0 {
		p = defaultArgon2idParams()
	}
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	dk := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Parallelism, p.KeyLen)
	saltB64 := base64.RawStdEncoding.EncodeToString(salt)
	hashB64 := base64.RawStdEncoding.EncodeToString(dk)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s", p.MemoryKiB, p.Time, p.Parallelism, saltB64, hashB64), nil
}

// verifyPasswordArgon2id verifies the given password against a PHC-formatted argon2id hash
func verifyPasswordArgon2id(encoded, password string) (bool, error) {
	params, salt, hash, err := parseArgon2id(encoded)
	if err != nil {
		return false, err
	}
	dk := argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKiB, params.Parallelism, uint32(len(hash)))
	if subtle.ConstantTimeCompare(dk, hash) == 1 {
		return true, nil
	}
	return false, nil
}

// extractArgon2idParams parses a PHC-formatted argon2id string and returns parameters
func extractArgon2idParams(encoded string) (Argon2idParams, error) {
	p, _, _, err := parseArgon2id(encoded)
	return p, err
}

// parseArgon2id parses a PHC-formatted argon2id hash and returns parameters, salt and hash bytes.
func parseArgon2id(encoded string) (Argon2idParams, []byte, []byte, error) {
	var out Argon2idParams
	if !strings.HasPrefix(encoded, "$argon2id$") {
		return out, nil, nil, errors.Errorf("unsupported password hash format")
	}
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return out, nil, nil, errors.Errorf("invalid argon2id hash format")
	}
	if parts[2] != "v=19" {
		return out, nil, nil, errors.Errorf("unsupported argon2 version")
	}
	for _, kv := range strings.Split(parts[3], ",") {
		if strings.HasPrefix(kv, "m=") {
			v, err := strconv.ParseUint(strings.TrimPrefix(kv, "m="), 10, 32)
			if err != nil {
				return out, nil, nil, err
			}
			out.MemoryKiB = uint32(v)
		} else if strings.HasPrefix(kv, "t=") {
			v, err := strconv.ParseUint(strings.TrimPrefix(kv, "t="), 10, 32)
			if err != nil {
				return out, nil, nil, err
			}
			out.Time = uint32(v)
		} else if strings.HasPrefix(kv, "p=") {
			v, err := strconv.ParseUint(strings.TrimPrefix(kv, "p="), 10, 8)
			if err != nil {
				return out, nil, nil, err
			}
			out.Parallelism = uint8(v)
		}
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return out, nil, nil, err
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return out, nil, nil, err
	}
	out.SaltLen = uint32(len(salt))
	out.KeyLen = uint32(len(hash))
	return out, salt, hash, nil
}

func argon2idParamsEqual(a, b Argon2idParams) bool {
	return a.Time == b.Time && a.MemoryKiB == b.MemoryKiB && a.Parallelism == b.Parallelism && a.KeyLen == b.KeyLen && a.SaltLen == b.SaltLen
}

func defaultArgon2idParams() Argon2idParams {
	return Argon2idParams{Time: 1, MemoryKiB: 64 * 1024, Parallelism: 4, KeyLen: 32, SaltLen: 16}
}
