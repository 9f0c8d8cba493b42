package service

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/policy"
	"blogapi/internal/repository"
	"blogapi/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	Actor   *models.User
	Title   string
	Content string
	Publish bool
}

// UpdatePostInput carries a partial update; nil fields are left unchanged.
type UpdatePostInput struct {
	Actor   *models.User
	PostID  uint
	Title   *string
	Content *string
}

type DeletePostInput struct {
	Actor  *models.User
	PostID uint
}

type SetVisibilityInput struct {
	Actor   *models.User
	PostID  uint
	Visible bool
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// ListOwn lists the posts in the actor's scope: their own, or all of them
// for viewers with CapViewAll.
func (s *PostService) ListOwn(ctx context.Context, actor *models.User) ([]models.Post, error) {
	filter, err := policy.PostScope(actor)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, models.NewNotFoundError(policy.ReasonNoPostsFound)
	}
	return posts, nil
}

// ListPublic lists every post that is not hidden.
func (s *PostService) ListPublic(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx, policy.ListFilter{PublicOnly: true})
}

func (s *PostService) Get(ctx context.Context, actor *models.User, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewPost(actor, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Create stores a new post. Titles are unique across all authors.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := policy.CanCreatePost(in.Actor); err != nil {
		return nil, err
	}
	if err := validation.ValidatePostCreate(in.Title, in.Content); err != nil {
		return nil, err
	}

	exists, err := s.postRepo.ExistsByTitle(ctx, in.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewValidationError("TITLE_ALREADY_EXISTS")
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		IsHidden: !in.Publish,
		AuthorID: in.Actor.ID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = in.Actor
	return post, nil
}

// Update changes the title and/or content. A new title must not collide with
// another post of the same author.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) error {
	post, err := s.Get(ctx, in.Actor, in.PostID)
	if err != nil {
		return err
	}
	if err := policy.CanModifyPost(in.Actor, post); err != nil {
		return err
	}
	if err := validation.ValidatePostUpdate(in.Title, in.Content); err != nil {
		return err
	}

	fields := make(map[string]any, 2)
	if in.Title != nil {
		title := *in.Title
		exists, err := s.postRepo.ExistsByTitleForAuthor(ctx, title, post.AuthorID, post.ID)
		if err != nil {
			return err
		}
		if exists {
			return models.NewValidationError("TITLE_ALREADY_EXISTS")
		}
		fields["title"] = title
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}

	return s.postRepo.UpdateFields(ctx, post.ID, fields)
}

func (s *PostService) Delete(ctx context.Context, in DeletePostInput) error {
	post, err := s.Get(ctx, in.Actor, in.PostID)
	if err != nil {
		return err
	}
	if err := policy.CanDeletePost(in.Actor, post); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, post.ID)
}

// SetVisibility publishes (Visible) or hides the post.
func (s *PostService) SetVisibility(ctx context.Context, in SetVisibilityInput) error {
	post, err := s.Get(ctx, in.Actor, in.PostID)
	if err != nil {
		return err
	}
	if err := policy.CanPublishPost(in.Actor, post); err != nil {
		return err
	}
	return s.postRepo.SetHidden(ctx, post.ID, !in.Visible)
}
