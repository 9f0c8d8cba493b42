package service

import (
	"context"
	"testing"

	"blogapi/internal/models"
	"blogapi/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByEmailFn        func(context.Context, string) (*models.User, error)
	getByNameFn         func(context.Context, string) (*models.User, error)
	findByNameOrEmailFn func(context.Context, string, string) (*models.User, error)
	listFn              func(context.Context, bool) ([]models.User, error)
	listByTypeFn        func(context.Context, models.UserType) ([]models.User, error)
	countByTypeFn       func(context.Context, models.UserType) (int64, error)
	createFn            func(context.Context, *models.User) error
	setTypeFn           func(context.Context, uint, models.UserType) error
	deleteFn            func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByName(ctx context.Context, name string) (*models.User, error) {
	return s.getByNameFn(ctx, name)
}
func (s *userRepoStub) FindByNameOrEmail(ctx context.Context, name, email string) (*models.User, error) {
	return s.findByNameOrEmailFn(ctx, name, email)
}
func (s *userRepoStub) List(ctx context.Context, includeAdmins bool) ([]models.User, error) {
	return s.listFn(ctx, includeAdmins)
}
func (s *userRepoStub) ListByType(ctx context.Context, t models.UserType) ([]models.User, error) {
	return s.listByTypeFn(ctx, t)
}
func (s *userRepoStub) CountByType(ctx context.Context, t models.UserType) (int64, error) {
	return s.countByTypeFn(ctx, t)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) SetType(ctx context.Context, id uint, t models.UserType) error {
	return s.setTypeFn(ctx, id, t)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:           func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:        func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByNameFn:         func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		findByNameOrEmailFn: func(_ context.Context, _, _ string) (*models.User, error) { return nil, nil },
		listFn:              func(_ context.Context, _ bool) ([]models.User, error) { return nil, nil },
		listByTypeFn:        func(_ context.Context, _ models.UserType) ([]models.User, error) { return nil, nil },
		countByTypeFn:       func(_ context.Context, _ models.UserType) (int64, error) { return 0, nil },
		createFn:            func(_ context.Context, _ *models.User) error { return nil },
		setTypeFn:           func(_ context.Context, _ uint, _ models.UserType) error { return nil },
		deleteFn:            func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	getByIDFn                func(context.Context, uint) (*models.Post, error)
	listFn                   func(context.Context, policy.ListFilter) ([]models.Post, error)
	existsByTitleFn          func(context.Context, string) (bool, error)
	existsByTitleForAuthorFn func(context.Context, string, uint, uint) (bool, error)
	createFn                 func(context.Context, *models.Post) error
	updateFieldsFn           func(context.Context, uint, map[string]any) error
	setHiddenFn              func(context.Context, uint, bool) error
	deleteFn                 func(context.Context, uint) error
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter policy.ListFilter) ([]models.Post, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return s.existsByTitleFn(ctx, title)
}
func (s *postRepoStub) ExistsByTitleForAuthor(ctx context.Context, title string, authorID, excludeID uint) (bool, error) {
	return s.existsByTitleForAuthorFn(ctx, title, authorID, excludeID)
}
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	return s.updateFieldsFn(ctx, id, fields)
}
func (s *postRepoStub) SetHidden(ctx context.Context, id uint, hidden bool) error {
	return s.setHiddenFn(ctx, id, hidden)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		getByIDFn:                func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:                   func(_ context.Context, _ policy.ListFilter) ([]models.Post, error) { return nil, nil },
		existsByTitleFn:          func(_ context.Context, _ string) (bool, error) { return false, nil },
		existsByTitleForAuthorFn: func(_ context.Context, _ string, _, _ uint) (bool, error) { return false, nil },
		createFn:                 func(_ context.Context, _ *models.Post) error { return nil },
		updateFieldsFn:           func(_ context.Context, _ uint, _ map[string]any) error { return nil },
		setHiddenFn:              func(_ context.Context, _ uint, _ bool) error { return nil },
		deleteFn:                 func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listByPostFn    func(context.Context, uint) ([]models.Comment, error)
	listByAuthorFn  func(context.Context, uint) ([]models.Comment, error)
	createFn        func(context.Context, *models.Comment) error
	updateContentFn func(context.Context, uint, string) error
	deleteFn        func(context.Context, uint) error
}

func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]models.Comment, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) UpdateContent(ctx context.Context, id uint, content string) error {
	return s.updateContentFn(ctx, id, content)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn:    func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		listByAuthorFn:  func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.Comment) error { return nil },
		updateContentFn: func(_ context.Context, _ uint, _ string) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

var (
	blogger = &models.User{ID: 1, Type: models.UserTypeBlogger, Name: "ann"}
	other   = &models.User{ID: 2, Type: models.UserTypeBlogger, Name: "bob"}
	admin   = &models.User{ID: 3, Type: models.UserTypeAdmin, Name: "root"}
)

func assertAppError(t *testing.T, err error, code, message string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation, "")
}
