package repository

import (
	"context"

	"blogapi/internal/cache"
	"blogapi/internal/database"
	"blogapi/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
	FindByNameOrEmail(ctx context.Context, name, email string) (*models.User, error)
	List(ctx context.Context, includeAdmins bool) ([]models.User, error)
	ListByType(ctx context.Context, t models.UserType) ([]models.User, error)
	CountByType(ctx context.Context, t models.UserType) (int64, error)
	Create(ctx context.Context, user *models.User) error
	SetType(ctx context.Context, id uint, t models.UserType) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
	instrumentation
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, instrumentation: newInstrumentation("users")}
}

// GetByID reads through the user cache. Cached users carry no PasswordHash,
// so callers that verify passwords must use GetByEmail or GetByName.
func (r *userRepository) GetByID(ctx context.Context, id uint) (user *models.User, err error) {
	ctx, end := r.begin(ctx, "get_by_id")
	defer func() { end(err) }()

	var u models.User
	err = cache.Aside(ctx, cache.UserKey(id), &u, cache.UserTTL, func() error {
		return mapError(r.db.WithContext(ctx).First(&u, id).Error, "User not found")
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) findOne(ctx context.Context, method string, query any, args ...any) (user *models.User, err error) {
	ctx, end := r.begin(ctx, method)
	defer func() { end(err) }()

	var u models.User
	if err = r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &u, nil
}

// GetByEmail returns nil, nil when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "get_by_email", "email = ?", email)
}

// GetByName returns nil, nil when no user has the name.
func (r *userRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	return r.findOne(ctx, "get_by_name", "name = ?", name)
}

// FindByNameOrEmail returns the first user matching either non-empty field,
// or nil, nil.
func (r *userRepository) FindByNameOrEmail(ctx context.Context, name, email string) (*models.User, error) {
	switch {
	case name != "" && email != "":
		return r.findOne(ctx, "find_by_name_or_email", "name = ? OR email = ?", name, email)
	case name != "":
		return r.GetByName(ctx, name)
	case email != "":
		return r.GetByEmail(ctx, email)
	default:
		return nil, nil
	}
}

// List returns all users ordered by id, leaving admins out unless includeAdmins.
func (r *userRepository) List(ctx context.Context, includeAdmins bool) (users []models.User, err error) {
	ctx, end := r.begin(ctx, "list")
	defer func() { end(err) }()

	q := r.db.WithContext(ctx).Order("id asc")
	if !includeAdmins {
		q = q.Where("type <> ?", models.UserTypeAdmin)
	}
	if err = q.Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) ListByType(ctx context.Context, t models.UserType) (users []models.User, err error) {
	ctx, end := r.begin(ctx, "list_by_type")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Where("type = ?", t).Order("id asc").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) CountByType(ctx context.Context, t models.UserType) (count int64, err error) {
	ctx, end := r.begin(ctx, "count_by_type")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Model(&models.User{}).Where("type = ?", t).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, end := r.begin(ctx, "create")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewValidationError("NAME_OR_EMAIL_ALREADY_USED")
		}
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"user_id": user.ID, "type": user.Type})
	return nil
}

func (r *userRepository) SetType(ctx context.Context, id uint, t models.UserType) (err error) {
	ctx, end := r.begin(ctx, "set_type")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("type", t)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User not found")
	}
	cache.InvalidateUser(ctx, id)
	r.log.LogUpdate(ctx, map[string]any{"user_id": id, "type": t})
	return nil
}

// Delete removes the user; posts and comments go with it via ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, end := r.begin(ctx, "delete")
	defer func() { end(err) }()

	var postIDs []uint
	if err = r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
		return models.NewInternalError(err)
	}

	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User not found")
	}
	cache.InvalidateUser(ctx, id)
	for _, postID := range postIDs {
		cache.InvalidatePost(ctx, postID)
	}
	r.log.LogDelete(ctx, map[string]any{"user_id": id})
	return nil
}
