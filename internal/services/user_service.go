package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plumeworks/plume-be/internal/credentials"
	"github.com/plumeworks/plume-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	CreateUser(name, email, password string) (models.User, error)
	UpdateUser(id string, name, email, password *string) (models.User, error)
	DeleteUser(id string) error
}

// UserCredential pairs a user identity with their stored credential value,
// as read during a maintenance scan. Password is empty for NULL columns.
type UserCredential struct {
	ID       string
	Email    string
	Password string
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID. The stored credential is
// never read on this path.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, email_verified_at, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.EmailVerifiedAt, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new user. The password runs through the shared
// classify-then-hash rule, so pre-hashed imports are stored as-is and
// plaintext never reaches the table.
func (s *UserService) CreateUser(name, email, password string) (models.User, error) {
	if name == "" || email == "" {
		return models.User{}, fmt.Errorf("name and email are required: %w", ErrValidation)
	}

	stored, err := credentials.EnsureHashed(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  stored,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, name, email, password, created_at) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Name, user.Email, user.Password, user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}

	user.Password = ""
	return user, nil
}

// UpdateUser applies a partial update. A provided password goes through the
// same classify-then-hash rule as creation.
func (s *UserService) UpdateUser(id string, name, email, password *string) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if name != nil {
		if *name == "" {
			return models.User{}, fmt.Errorf("name must be non-empty: %w", ErrValidation)
		}
		user.Name = *name
	}
	if email != nil {
		if *email == "" {
			return models.User{}, fmt.Errorf("email must be non-empty: %w", ErrValidation)
		}
		user.Email = *email
	}

	// Hash before touching the row so a hashing failure leaves the user
	// record exactly as it was.
	if password == nil {
		if _, err := s.db.Exec("UPDATE users SET name = ?, email = ? WHERE id = ?", user.Name, user.Email, id); err != nil {
			return models.User{}, err
		}
		return user, nil
	}

	stored, err := credentials.EnsureHashed(*password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := s.db.Exec("UPDATE users SET name = ?, email = ?, password = ? WHERE id = ?", user.Name, user.Email, stored, id); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes a user from the database.
func (s *UserService) DeleteUser(id string) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListCredentials reads every user's stored credential for a maintenance
// scan. Read-only and safe to run repeatedly.
func (s *UserService) ListCredentials() ([]UserCredential, error) {
	rows, err := s.db.Query("SELECT id, email, password FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creds []UserCredential
	for rows.Next() {
		var (
			uc UserCredential
			pw sql.NullString
		)
		if err := rows.Scan(&uc.ID, &uc.Email, &pw); err != nil {
			return nil, err
		}
		// NULL folds to empty; the classifier skips both.
		uc.Password = pw.String
		creds = append(creds, uc)
	}
	return creds, rows.Err()
}

// UpdateCredential overwrites a single user's stored credential.
func (s *UserService) UpdateCredential(id, stored string) error {
	res, err := s.db.Exec("UPDATE users SET password = ? WHERE id = ?", stored, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}
