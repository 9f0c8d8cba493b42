package repository

import (
	"context"

	"blogapi/internal/cache"
	"blogapi/internal/models"
	"blogapi/internal/policy"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter policy.ListFilter) ([]models.Post, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	ExistsByTitleForAuthor(ctx context.Context, title string, authorID, excludeID uint) (bool, error)
	Create(ctx context.Context, post *models.Post) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	SetHidden(ctx context.Context, id uint, hidden bool) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
	instrumentation
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, instrumentation: newInstrumentation("posts")}
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (post *models.Post, err error) {
	ctx, end := r.begin(ctx, "get_by_id")
	defer func() { end(err) }()

	var p models.Post
	err = cache.Aside(ctx, cache.PostKey(id), &p, cache.PostTTL, func() error {
		return mapError(r.db.WithContext(ctx).Preload("Author").First(&p, id).Error, "Post not found")
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns posts newest first, with authors loaded.
func (r *postRepository) List(ctx context.Context, filter policy.ListFilter) (posts []models.Post, err error) {
	ctx, end := r.begin(ctx, "list")
	defer func() { end(err) }()

	q := r.db.WithContext(ctx).Preload("Author")
	if filter.AuthorID != nil {
		q = q.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.PublicOnly {
		q = q.Where("is_hidden = ?", false)
	}
	if err = q.Order("created_at desc").Order("id desc").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ExistsByTitle reports whether any post has title.
func (r *postRepository) ExistsByTitle(ctx context.Context, title string) (exists bool, err error) {
	ctx, end := r.begin(ctx, "exists_by_title")
	defer func() { end(err) }()

	var count int64
	if err = r.db.WithContext(ctx).Model(&models.Post{}).Where("title = ?", title).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// ExistsByTitleForAuthor reports whether another post of authorID, other
// than excludeID, has title.
func (r *postRepository) ExistsByTitleForAuthor(ctx context.Context, title string, authorID, excludeID uint) (exists bool, err error) {
	ctx, end := r.begin(ctx, "exists_by_title_for_author")
	defer func() { end(err) }()

	var count int64
	err = r.db.WithContext(ctx).Model(&models.Post{}).
		Where("title = ? AND author_id = ? AND id <> ?", title, authorID, excludeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, end := r.begin(ctx, "create")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"post_id": post.ID, "author_id": post.AuthorID})
	return nil
}

// UpdateFields updates the given columns of post id.
func (r *postRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) (err error) {
	ctx, end := r.begin(ctx, "update")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Model(&models.Post{ID: id}).Updates(fields)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post not found")
	}
	cache.InvalidatePost(ctx, id)
	r.log.LogUpdate(ctx, map[string]any{"post_id": id, "fields": len(fields)})
	return nil
}

func (r *postRepository) SetHidden(ctx context.Context, id uint, hidden bool) (err error) {
	ctx, end := r.begin(ctx, "set_hidden")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Model(&models.Post{ID: id}).Update("is_hidden", hidden)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post not found")
	}
	cache.InvalidatePost(ctx, id)
	r.log.LogUpdate(ctx, map[string]any{"post_id": id, "is_hidden": hidden})
	return nil
}

// Delete removes the post and, via ON DELETE CASCADE, its comments.
func (r *postRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, end := r.begin(ctx, "delete")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post not found")
	}
	cache.InvalidatePost(ctx, id)
	r.log.LogDelete(ctx, map[string]any{"post_id": id})
	return nil
}
