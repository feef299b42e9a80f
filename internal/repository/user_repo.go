package repository

import (
	"database/sql"
	"errors"

	"spotshare/internal/db"

	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	GetByEmail(email string) (*db.User, error)
	GetByID(id int) (*db.User, error)
	CreateUser(name, email, phone, password string) (int, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) GetByEmail(email string) (*db.User, error) {
	var u db.User
	err := r.db.QueryRow(`SELECT id, name, email, phone, password_hash, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(id int) (*db.User, error) {
	var u db.User
	err := r.db.QueryRow(`SELECT id, name, email, phone, password_hash, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) CreateUser(name, email, phone, password string) (int, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	var id int
	query := `INSERT INTO users (name, email, phone, password_hash, created_at) VALUES ($1, $2, $3, $4, NOW()) RETURNING id`
	if err := r.db.QueryRow(query, name, email, phone, hashedPassword).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
