package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/user"
)

// pqUniqueViolation is the Postgres error code for unique constraint violations.
const pqUniqueViolation = "23505"

type userRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	Role           string    `db:"role"`
	EnrollmentNo   string    `db:"enrollment_no"`
	Division       string    `db:"division"`
	ClassTeacherID string    `db:"class_teacher_id"`
	Avatar         string    `db:"avatar"`
	PhoneNumber    string    `db:"phone_number"`
	PasswordHash   []byte    `db:"password_hash"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		Role:           user.Role(r.Role),
		EnrollmentNo:   r.EnrollmentNo,
		Division:       r.Division,
		ClassTeacherID: r.ClassTeacherID,
		Avatar:         r.Avatar,
		PhoneNumber:    r.PhoneNumber,
		PasswordHash:   r.PasswordHash,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toUserRow(u user.User) userRow {
	return userRow{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		EnrollmentNo:   u.EnrollmentNo,
		Division:       u.Division,
		ClassTeacherID: u.ClassTeacherID,
		Avatar:         u.Avatar,
		PhoneNumber:    u.PhoneNumber,
		PasswordHash:   u.PasswordHash,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUsers(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO users (id, name, email, role, enrollment_no, division, class_teacher_id,
		                   avatar, phone_number, password_hash, created_at, updated_at)
		VALUES (:id, :name, :email, :role, :enrollment_no, :division, :class_teacher_id,
		        :avatar, :phone_number, :password_hash, :created_at, :updated_at)
	`, toUserRow(usr))
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM users ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return toUsers(rows), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM users WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by id")
	}
	return row.toUser(), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM users WHERE email = $1`, email); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by email")
	}
	return row.toUser(), nil
}

func (repo *userRepository) FilterUsersByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM users WHERE role = $1 ORDER BY created_at`, string(role)); err != nil {
		return nil, errors.Wrap(err, "filtering users by role")
	}
	return toUsers(rows), nil
}

func (repo *userRepository) FilterUsersByDivision(ctx context.Context, division string) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM users WHERE division = $1 ORDER BY created_at`, division); err != nil {
		return nil, errors.Wrap(err, "filtering users by division")
	}
	return toUsers(rows), nil
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO users (id, name, email, role, enrollment_no, division, class_teacher_id,
		                   avatar, phone_number, password_hash, created_at, updated_at)
		VALUES (:id, :name, :email, :role, :enrollment_no, :division, :class_teacher_id,
		        :avatar, :phone_number, :password_hash, :created_at, :updated_at)
		ON CONFLICT (email) DO UPDATE SET
			name          = EXCLUDED.name,
			role          = EXCLUDED.role,
			password_hash = EXCLUDED.password_hash,
			updated_at    = EXCLUDED.updated_at
	`, toUserRow(usr))
	if err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return usr, nil
}
