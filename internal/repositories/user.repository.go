package repositories

import (
	"context"
	"inventory/internal/database"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/services"

	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByLogin(ctx context.Context, login string) (User, error)
	Create(ctx context.Context, user *User) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func New(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (User, error) {
	var user User
	if err := r.getDB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return User{}, translate(err)
	}
	return user, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (User, error) {
	var user User
	if err := r.getDB(ctx).First(&user, "login = ?", login).Error; err != nil {
		return User{}, translate(err)
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", translate(err), "login", user.Login)
	}
	return nil
}
