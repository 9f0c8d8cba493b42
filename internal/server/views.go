package server

import (
	"time"

	"blogapi/internal/models"
)

// userView is a row of GET /users. ID is only filled for user managers.
type userView struct {
	ID    uint   `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type postView struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ownPostView adds visibility for listings of the caller's own scope.
type ownPostView struct {
	postView
	Visibility bool `json:"visibility"`
}

type commentView struct {
	ID         uint      `json:"id"`
	Content    string    `json:"content"`
	PostID     uint      `json:"postId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ownCommentView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	PostID    uint      `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

type postCommentView struct {
	ID         uint      `json:"id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newUserViews(users []models.User, showIDs bool) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		v := userView{Name: u.Name, Email: u.Email}
		if showIDs {
			v.ID = u.ID
		}
		out = append(out, v)
	}
	return out
}

func newPostView(p *models.Post) postView {
	return postView{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		AuthorName: p.AuthorName(),
		CreatedAt:  p.CreatedAt,
	}
}

func newOwnPostView(p *models.Post) ownPostView {
	return ownPostView{postView: newPostView(p), Visibility: !p.IsHidden}
}

func newCommentView(cm *models.Comment) commentView {
	return commentView{
		ID:         cm.ID,
		Content:    cm.Content,
		PostID:     cm.PostID,
		AuthorName: cm.AuthorName(),
		CreatedAt:  cm.CreatedAt,
	}
}
