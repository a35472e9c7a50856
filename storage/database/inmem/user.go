package inmemdb

import (
	"context"

	"github.com/trezcool/chuo/core/user"
)

type userRepository struct {
	db *userTable
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.users}
}

func (t *userTable) persist() error {
	if t.snap == nil {
		return nil
	}
	return t.snap.SaveUsers(t.rows)
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.rows {
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.rows {
		if existing.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	repo.db.rows = append(repo.db.rows, usr)
	if err := repo.db.persist(); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]user.User(nil), repo.db.rows...), nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.rows {
		if usr.ID == id {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.rows {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsersByRole(_ context.Context, role user.Role) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var res []user.User
	for _, usr := range repo.db.rows {
		if usr.Role == role {
			res = append(res, usr)
		}
	}
	return res, nil
}

func (repo *userRepository) FilterUsersByDivision(_ context.Context, division string) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var res []user.User
	for _, usr := range repo.db.rows {
		if usr.Division == division {
			res = append(res, usr)
		}
	}
	return res, nil
}

func (repo *userRepository) UpdateOrCreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, existing := range repo.db.rows {
		if existing.ID == usr.ID || existing.Email == usr.Email {
			repo.db.rows[i] = usr
			if err := repo.db.persist(); err != nil {
				return user.User{}, err
			}
			return usr, nil
		}
	}
	repo.db.rows = append(repo.db.rows, usr)
	if err := repo.db.persist(); err != nil {
		return user.User{}, err
	}
	return usr, nil
}
