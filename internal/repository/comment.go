package repository

import (
	"context"

	"blogapi/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
	instrumentation
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, instrumentation: newInstrumentation("comments")}
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (comment *models.Comment, err error) {
	ctx, end := r.begin(ctx, "get_by_id")
	defer func() { end(err) }()

	var c models.Comment
	if err = r.db.WithContext(ctx).Preload("Author").First(&c, id).Error; err != nil {
		return nil, mapError(err, "Comment not found")
	}
	return &c, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) (comments []models.Comment, err error) {
	ctx, end := r.begin(ctx, "list_by_post")
	defer func() { end(err) }()

	err = r.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at asc").Order("id asc").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) ListByAuthor(ctx context.Context, authorID uint) (comments []models.Comment, err error) {
	ctx, end := r.begin(ctx, "list_by_author")
	defer func() { end(err) }()

	err = r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc").Order("id desc").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) (err error) {
	ctx, end := r.begin(ctx, "create")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Omit("Author").Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"comment_id": comment.ID, "post_id": comment.PostID})
	return nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) (err error) {
	ctx, end := r.begin(ctx, "update")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Model(&models.Comment{ID: id}).Update("content", content)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment not found")
	}
	r.log.LogUpdate(ctx, map[string]any{"comment_id": id})
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, end := r.begin(ctx, "delete")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment not found")
	}
	r.log.LogDelete(ctx, map[string]any{"comment_id": id})
	return nil
}
