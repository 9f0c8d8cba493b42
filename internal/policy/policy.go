// Package policy decides what a user may do with posts, comments and other
// users. Roles are expressed as capability sets; nothing else in the code
// branches on UserType.
package policy

import "blogapi/internal/models"

// Capability is a single permission granted by a user type.
type Capability uint8

const (
	// CapAuthor lets a user write posts and comments.
	CapAuthor Capability = 1 << iota
	// CapModerate lets a user edit other authors' posts and comments and
	// delete their public posts.
	CapModerate
	// CapManageUsers lets a user create users and admins and delete bloggers.
	CapManageUsers
	// CapViewAll lets a user see hidden posts of any author.
	CapViewAll
)

var capabilities = map[models.UserType]Capability{
	models.UserTypeBlogger: CapAuthor,
	models.UserTypeAdmin:   CapAuthor | CapModerate | CapManageUsers | CapViewAll,
}

// Rejection reasons.
const (
	ReasonNoPostsFound       = "No posts found"
	ReasonPostNotFound       = "Post not found"
	ReasonCannotCreatePost   = "CANNOT_CREATE_POST"
	ReasonCannotModifyPost   = "CANNOT_MODIFY_POST"
	ReasonCannotDeletePost   = "CANNOT_DELETE_POST"
	ReasonAdminsPublicOnly   = "ADMINS_CAN_ONLY_DELETE_PUBLIC_POSTS"
	ReasonCannotPublishPost  = "CANNOT_MODIFY_POST_VISIBILITY"
	ReasonCannotComment      = "CANNOT_CREATE_COMMENT"
	ReasonCannotModifyComm   = "CANNOT_MODIFY_COMMENT"
	ReasonCannotDeleteComm   = "CANNOT_DELETE_COMMENT"
	ReasonAdminRequired      = "ADMIN_PRIVILEGES_REQUIRED"
	ReasonCannotDeleteOfType = "Cannot delete user of this type"
)

// Has reports whether user holds c. A nil user holds nothing.
func Has(user *models.User, c Capability) bool {
	if user == nil {
		return false
	}
	return capabilities[user.Type]&c == c
}

// ListFilter narrows a post listing.
type ListFilter struct {
	AuthorID   *uint
	PublicOnly bool
}

// PostScope returns which posts user's own listing covers: a blogger sees
// their own posts, a user with CapViewAll sees every post.
func PostScope(user *models.User) (ListFilter, error) {
	switch {
	case Has(user, CapViewAll):
		return ListFilter{}, nil
	case Has(user, CapAuthor):
		id := user.ID
		return ListFilter{AuthorID: &id}, nil
	default:
		return ListFilter{}, models.NewNotFoundError(ReasonNoPostsFound)
	}
}

func isAuthor(user *models.User, authorID uint) bool {
	return user != nil && user.ID == authorID
}

// CanViewPost hides a hidden post from everyone but its author and viewers
// holding CapViewAll. Hidden posts are reported as missing.
func CanViewPost(user *models.User, post *models.Post) error {
	if post == nil {
		return models.NewNotFoundError(ReasonPostNotFound)
	}
	if !post.IsHidden || isAuthor(user, post.AuthorID) || Has(user, CapViewAll) {
		return nil
	}
	return models.NewNotFoundError(ReasonPostNotFound)
}

func CanCreatePost(user *models.User) error {
	if Has(user, CapAuthor) {
		return nil
	}
	return models.NewForbiddenError(ReasonCannotCreatePost)
}

// CanModifyPost allows the author and moderators to edit a post.
func CanModifyPost(user *models.User, post *models.Post) error {
	if isAuthor(user, post.AuthorID) || Has(user, CapModerate) {
		return nil
	}
	return models.NewForbiddenError(ReasonCannotModifyPost)
}

// CanDeletePost allows the author at any visibility and moderators on public
// posts only.
func CanDeletePost(user *models.User, post *models.Post) error {
	if isAuthor(user, post.AuthorID) {
		return nil
	}
	if !Has(user, CapModerate) {
		return models.NewForbiddenError(ReasonCannotDeletePost)
	}
	if post.IsHidden {
		return models.NewForbiddenError(ReasonAdminsPublicOnly)
	}
	return nil
}

// CanPublishPost allows only the author to change visibility.
func CanPublishPost(user *models.User, post *models.Post) error {
	if isAuthor(user, post.AuthorID) {
		return nil
	}
	return models.NewForbiddenError(ReasonCannotPublishPost)
}

// CanCommentOn requires a visible post and the author capability.
func CanCommentOn(user *models.User, post *models.Post) error {
	if err := CanViewPost(user, post); err != nil {
		return err
	}
	if !Has(user, CapAuthor) {
		return models.NewForbiddenError(ReasonCannotComment)
	}
	return nil
}

func CanModifyComment(user *models.User, comment *models.Comment) error {
	if isAuthor(user, comment.AuthorID) || Has(user, CapModerate) {
		return nil
	}
	return models.NewForbiddenError(ReasonCannotModifyComm)
}

func CanDeleteComment(user *models.User, comment *models.Comment) error {
	if isAuthor(user, comment.AuthorID) || Has(user, CapModerate) {
		return nil
	}
	return models.NewForbiddenError(ReasonCannotDeleteComm)
}

func CanManageUsers(user *models.User) error {
	if Has(user, CapManageUsers) {
		return nil
	}
	return models.NewForbiddenError(ReasonAdminRequired)
}

// CanDeleteUser allows user managers to delete bloggers only.
func CanDeleteUser(actor, target *models.User) error {
	if err := CanManageUsers(actor); err != nil {
		return err
	}
	if target == nil || target.Type != models.UserTypeBlogger {
		return models.NewForbiddenError(ReasonCannotDeleteOfType)
	}
	return nil
}
