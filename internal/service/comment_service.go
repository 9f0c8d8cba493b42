package service

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/policy"
	"blogapi/internal/repository"
	"blogapi/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	Actor   *models.User
	PostID  uint
	Content string
}

type UpdateCommentInput struct {
	Actor     *models.User
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	Actor     *models.User
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *CommentService) visiblePost(ctx context.Context, actor *models.User, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewPost(actor, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListOwn returns the comments written by actor.
func (s *CommentService) ListOwn(ctx context.Context, actor *models.User) ([]models.Comment, error) {
	return s.commentRepo.ListByAuthor(ctx, actor.ID)
}

func (s *CommentService) ListForPost(ctx context.Context, actor *models.User, postID uint) ([]models.Comment, error) {
	if _, err := s.visiblePost(ctx, actor, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// Get returns a comment if the post it belongs to is visible to actor.
func (s *CommentService) Get(ctx context.Context, actor *models.User, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.visiblePost(ctx, actor, comment.PostID); err != nil {
		return nil, models.NewNotFoundError("Comment not found")
	}
	return comment, nil
}

func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateComment(in.Content); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanCommentOn(in.Actor, post); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: in.Actor.ID,
		Content:  in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = in.Actor
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, in UpdateCommentInput) error {
	if err := validation.ValidateComment(in.Content); err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if err := policy.CanModifyComment(in.Actor, comment); err != nil {
		return err
	}
	return s.commentRepo.UpdateContent(ctx, comment.ID, in.Content)
}

func (s *CommentService) Delete(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteComment(in.Actor, comment); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, comment.ID)
}
