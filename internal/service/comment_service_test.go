package service

import (
	"context"
	"strings"
	"testing"

	"blogapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentRepoWith(comments ...*models.Comment) *commentRepoStub {
	repo := noopCommentRepo()
	byID := make(map[uint]*models.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		if c, ok := byID[id]; ok {
			cp := *c
			return &cp, nil
		}
		return nil, models.NewNotFoundError("Comment not found")
	}
	return repo
}

func TestCommentService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	posts := postRepoWith(
		&models.Post{ID: 1, AuthorID: blogger.ID},
		&models.Post{ID: 2, AuthorID: blogger.ID, IsHidden: true},
	)

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := NewCommentService(noopCommentRepo(), posts).Create(ctx, CreateCommentInput{Actor: other, PostID: 1})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := NewCommentService(noopCommentRepo(), posts).Create(ctx, CreateCommentInput{
			Actor:   other,
			PostID:  1,
			Content: strings.Repeat("x", 10001),
		})
		assertValidationError(t, err)
	})

	t.Run("hidden post", func(t *testing.T) {
		t.Parallel()
		_, err := NewCommentService(noopCommentRepo(), posts).Create(ctx, CreateCommentInput{Actor: other, PostID: 2, Content: "hi"})
		assertAppError(t, err, models.CodeNotFound, "Post not found")
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		_, err := NewCommentService(noopCommentRepo(), posts).Create(ctx, CreateCommentInput{Actor: other, PostID: 99, Content: "hi"})
		assertAppError(t, err, models.CodeNotFound, "Post not found")
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 7
			return nil
		}
		comment, err := NewCommentService(repo, posts).Create(ctx, CreateCommentInput{Actor: other, PostID: 1, Content: "hi"})
		require.NoError(t, err)
		assert.Equal(t, uint(7), comment.ID)
		assert.Equal(t, other.ID, comment.AuthorID)
		assert.Equal(t, "bob", comment.AuthorName())
	})
}

func TestCommentService_ListAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	posts := postRepoWith(&models.Post{ID: 2, AuthorID: blogger.ID, IsHidden: true})
	comments := commentRepoWith(&models.Comment{ID: 5, PostID: 2, AuthorID: blogger.ID, Content: "note"})
	comments.listByPostFn = func(_ context.Context, postID uint) ([]models.Comment, error) {
		return []models.Comment{{ID: 5, PostID: postID}}, nil
	}
	svc := NewCommentService(comments, posts)

	list, err := svc.ListForPost(ctx, admin, 2)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListForPost(ctx, other, 2)
	assertAppError(t, err, models.CodeNotFound, "Post not found")

	got, err := svc.Get(ctx, blogger, 5)
	require.NoError(t, err)
	assert.Equal(t, "note", got.Content)

	_, err = svc.Get(ctx, other, 5)
	assertAppError(t, err, models.CodeNotFound, "Comment not found")
}

func TestCommentService_ListOwn(t *testing.T) {
	t.Parallel()

	repo := noopCommentRepo()
	repo.listByAuthorFn = func(_ context.Context, authorID uint) ([]models.Comment, error) {
		return []models.Comment{{ID: 1, AuthorID: authorID}}, nil
	}
	list, err := NewCommentService(repo, noopPostRepo()).ListOwn(context.Background(), other)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].AuthorID)
}

func TestCommentService_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	comments := commentRepoWith(&models.Comment{ID: 5, PostID: 1, AuthorID: other.ID})
	var updated, deleted []uint
	comments.updateContentFn = func(_ context.Context, id uint, _ string) error {
		updated = append(updated, id)
		return nil
	}
	comments.deleteFn = func(_ context.Context, id uint) error {
		deleted = append(deleted, id)
		return nil
	}
	svc := NewCommentService(comments, noopPostRepo())

	assert.NoError(t, svc.Update(ctx, UpdateCommentInput{Actor: other, CommentID: 5, Content: "edit"}))
	assert.NoError(t, svc.Update(ctx, UpdateCommentInput{Actor: admin, CommentID: 5, Content: "moderated"}))
	assertAppError(t, svc.Update(ctx, UpdateCommentInput{Actor: blogger, CommentID: 5, Content: "x"}), models.CodeForbidden, "CANNOT_MODIFY_COMMENT")
	assertValidationError(t, svc.Update(ctx, UpdateCommentInput{Actor: other, CommentID: 5}))

	assertAppError(t, svc.Delete(ctx, DeleteCommentInput{Actor: blogger, CommentID: 5}), models.CodeForbidden, "CANNOT_DELETE_COMMENT")
	assert.NoError(t, svc.Delete(ctx, DeleteCommentInput{Actor: admin, CommentID: 5}))
	assertAppError(t, svc.Delete(ctx, DeleteCommentInput{Actor: admin, CommentID: 6}), models.CodeNotFound, "Comment not found")

	assert.Equal(t, []uint{5, 5}, updated)
	assert.Equal(t, []uint{5}, deleted)
}
