package server

import (
	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content"`
}

// ListOwnComments handles GET /api/v1/comments
// @Summary List the caller's comments
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{comments=[]ownCommentView}
// @Failure 401 {object} models.ErrorResponse
// @Router /comments [get]
func (s *Server) ListOwnComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListOwn(c.UserContext(), actor(c))
	if err != nil {
		return s.respondError(c, err)
	}

	views := make([]ownCommentView, 0, len(comments))
	for _, cm := range comments {
		views = append(views, ownCommentView{
			ID:        cm.ID,
			Content:   cm.Content,
			PostID:    cm.PostID,
			CreatedAt: cm.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"comments": views})
}

// ListPostComments handles GET /api/v1/comments/post/:id
// @Summary List comments of a post
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{comments=[]postCommentView}
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/post/{id} [get]
func (s *Server) ListPostComments(c *fiber.Ctx) error {
	postID, err := parseID(c)
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListForPost(c.UserContext(), actor(c), postID)
	if err != nil {
		return s.respondError(c, err)
	}

	views := make([]postCommentView, 0, len(comments))
	for i := range comments {
		views = append(views, postCommentView{
			ID:         comments[i].ID,
			Content:    comments[i].Content,
			AuthorName: comments[i].AuthorName(),
			CreatedAt:  comments[i].CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"comments": views})
}

// GetComment handles GET /api/v1/comments/:id
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} object{comment=commentView}
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Get(c.UserContext(), actor(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"comment": newCommentView(comment)})
}

// CreateComment handles POST /api/v1/comments/:id where :id is the post.
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body commentRequest true "Comment"
// @Success 201 {object} object{message=string,comment=commentView}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /comments/{id} [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c)
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.Create(c.UserContext(), service.CreateCommentInput{
		Actor:   actor(c),
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment created successfully",
		"comment": newCommentView(comment),
	})
}

// UpdateComment handles PUT /api/v1/comments/:id
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body commentRequest true "Comment"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.commentService.Update(c.UserContext(), service.UpdateCommentInput{
		Actor:     actor(c),
		CommentID: id,
		Content:   req.Content,
	}); err != nil {
		return s.respondError(c, err)
	}
	return message(c, fiber.StatusOK, "Comment updated successfully")
}

// DeleteComment handles DELETE /api/v1/comments/:id
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.UserContext(), service.DeleteCommentInput{
		Actor:     actor(c),
		CommentID: id,
	}); err != nil {
		return s.respondError(c, err)
	}
	return message(c, fiber.StatusOK, "Comment deleted successfully")
}
