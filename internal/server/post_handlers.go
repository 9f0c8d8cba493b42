package server

import (
	"blogapi/internal/models"
	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListOwnPosts handles GET /api/v1/posts
// @Summary List posts in the caller's scope
// @Description Bloggers get their own posts, admins get every post, hidden ones included
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{posts=[]ownPostView}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) ListOwnPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListOwn(c.UserContext(), actor(c))
	if err != nil {
		return s.respondError(c, err)
	}

	views := make([]ownPostView, 0, len(posts))
	for i := range posts {
		views = append(views, newOwnPostView(&posts[i]))
	}
	return c.JSON(fiber.Map{"posts": views})
}

// ListPublicPosts handles GET /api/v1/posts/all
// @Summary List public posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{posts=[]postView}
// @Router /posts/all [get]
func (s *Server) ListPublicPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPublic(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}

	views := make([]postView, 0, len(posts))
	for i := range posts {
		views = append(views, newPostView(&posts[i]))
	}
	return c.JSON(fiber.Map{"posts": views})
}

// GetPost handles GET /api/v1/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{post=postView}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), actor(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"post": newPostView(post)})
}

// CreatePost handles POST /api/v1/posts
// @Summary Create a post
// @Description Titles are unique across all posts. Unpublished posts are hidden.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,content=string,publish=bool} true "Post"
// @Success 201 {object} object{message=string,post=ownPostView}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Publish bool   `json:"publish"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.Create(c.UserContext(), service.CreatePostInput{
		Actor:   actor(c),
		Title:   req.Title,
		Content: req.Content,
		Publish: req.Publish,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    newOwnPostView(post),
	})
}

// UpdatePost handles PUT /api/v1/posts/:id
// @Summary Edit a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{title=string,content=string} true "Fields to change"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.postService.Update(c.UserContext(), service.UpdatePostInput{
		Actor:   actor(c),
		PostID:  id,
		Title:   req.Title,
		Content: req.Content,
	}); err != nil {
		return s.respondError(c, err)
	}
	return message(c, fiber.StatusOK, "Post updated successfully")
}

// DeletePost handles DELETE /api/v1/posts/:id
// @Summary Delete a post
// @Description Admins may delete only public posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), service.DeletePostInput{
		Actor:  actor(c),
		PostID: id,
	}); err != nil {
		return s.respondError(c, err)
	}
	return message(c, fiber.StatusOK, "Post deleted successfully")
}

// PublishPost handles PATCH /api/v1/posts/:id/publish
// @Summary Change post visibility
// @Description Only the author may publish or hide a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{visible=bool} true "Visibility"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{id}/publish [patch]
func (s *Server) PublishPost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Visible *bool `json:"visible"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Visible == nil {
		return s.respondError(c, models.NewValidationError("Visible is required"))
	}

	if err := s.postService.SetVisibility(c.UserContext(), service.SetVisibilityInput{
		Actor:   actor(c),
		PostID:  id,
		Visible: *req.Visible,
	}); err != nil {
		return s.respondError(c, err)
	}
	return message(c, fiber.StatusOK, "Post status updated successfully")
}
