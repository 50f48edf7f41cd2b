package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/internal/domain/repository"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

// UserRepoImpl implements UserRepository using gorm.
type UserRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewUserRepository creates a new gorm-backed user repository instance.
func NewUserRepository(db *gorm.DB, log logger.Logger) repository.UserRepository {
	return &UserRepoImpl{
		db:     db,
		logger: log.WithComponent("user_repository"),
	}
}

// Save creates a new user record.
func (r *UserRepoImpl) Save(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Role == "" {
		user.Role = models.RoleIssuer
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug(ctx, "Username already taken", logger.String("username", user.Username))
			return errors.ErrDuplicateKey.WithCause(err)
		}
		r.logger.Error(ctx, "Failed to create user", err, logger.String("username", user.Username))
		return fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}

	r.logger.Info(ctx, "User created successfully",
		logger.String("user_id", user.ID.String()),
		logger.String("username", user.Username),
		logger.String("role", string(user.Role)),
		logger.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)
	return nil
}

// FindByUsername retrieves a user by login name.
func (r *UserRepoImpl) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debug(ctx, "User not found", logger.String("username", username))
			return nil, errors.ErrUserNotFound(username)
		}
		r.logger.Error(ctx, "Failed to retrieve user", err, logger.String("username", username))
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}

	return &user, nil
}

// Count returns the number of users.
func (r *UserRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		r.logger.Error(ctx, "Failed to count users", err)
		return 0, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}
	return count, nil
}
