package server

import (
	"fmt"
	"net/http"
	"testing"

	"blogapi/internal/models"
	"blogapi/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postPath(id uint, suffix ...string) string {
	p := fmt.Sprintf("/api/v1/posts/%d", id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func postTitles(t *testing.T, r testResponse) []string {
	t.Helper()
	posts, ok := r.json(t)["posts"].([]any)
	require.True(t, ok, string(r.body))
	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		titles = append(titles, p.(map[string]any)["title"].(string))
	}
	return titles
}

func TestListPosts_Scope(t *testing.T) {
	env := newTestEnv(t)
	ann := env.seedUser(t, "ann", models.UserTypeBlogger)
	bob := env.seedUser(t, "bob", models.UserTypeBlogger)
	root := env.seedUser(t, "root", models.UserTypeAdmin)
	env.seedPost(t, ann, "ann public", false)
	env.seedPost(t, ann, "ann draft", true)
	env.seedPost(t, bob, "bob public", false)
	env.seedPost(t, bob, "bob draft", true)

	t.Run("blogger sees only own posts", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/v1/posts", env.token(t, ann), nil)
		require.Equal(t, http.StatusOK, resp.status)
		assert.ElementsMatch(t, []string{"ann public", "ann draft"}, postTitles(t, resp))

		for _, p := range resp.json(t)["posts"].([]any) {
			post := p.(map[string]any)
			assert.Equal(t, "ann", post["authorName"])
			assert.Equal(t, post["title"] == "ann public", post["visibility"])
		}
	})

	t.Run("admin sees every post", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/v1/posts", env.token(t, root), nil)
		require.Equal(t, http.StatusOK, resp.status)
		assert.ElementsMatch(t, []string{"ann public", "ann draft", "bob public", "bob draft"}, postTitles(t, resp))
	})

	t.Run("no posts", func(t *testing.T) {
		carl := env.seedUser(t, "carl", models.UserTypeBlogger)
		resp := env.do(t, http.MethodGet, "/api/v1/posts", env.token(t, carl), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, policy.ReasonNoPostsFound, resp.json(t)["error"])
	})

	t.Run("all lists public posts", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/v1/posts/all", env.token(t, ann), nil)
		require.Equal(t, http.StatusOK, resp.status)
		assert.ElementsMatch(t, []string{"ann public", "bob public"}, postTitles(t, resp))
		for _, p := range resp.json(t)["posts"].([]any) {
			assert.NotContains(t, p.(map[string]any), "visibility")
		}
	})
}

func TestGetPost_HiddenVisibility(t *testing.T) {
	env := newTestEnv(t)
	ann := env.seedUser(t, "ann", models.UserTypeBlogger)
	bob := env.seedUser(t, "bob", models.UserTypeBlogger)
	root := env.seedUser(t, "root", models.UserTypeAdmin)
	draft := env.seedPost(t, ann, "ann draft", true)

	resp := env.do(t, http.MethodGet, postPath(draft.ID), env.token(t, bob), nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, policy.ReasonPostNotFound, resp.json(t)["error"])

	for _, u := range []*models.User{ann, root} {
		resp = env.do(t, http.MethodGet, postPath(draft.ID), env.token(t, u), nil)
		require.Equal(t, http.StatusOK, resp.status, u.Name)
		post := resp.json(t)["post"].(map[string]any)
		assert.Equal(t, "ann draft", post["title"])
		assert.Equal(t, "ann", post["authorName"])
	}

	resp = env.do(t, http.MethodGet, postPath(9999), env.token(t, ann), nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	ann := env.seedUser(t, "ann", models.UserTypeBlogger)
	bob := env.seedUser(t, "bob", models.UserTypeBlogger)
	token := env.token(t, ann)

	resp := env.do(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
		"title": "First", "content": "hello there world", "publish": true,
	})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	body := resp.json(t)
	assert.Equal(t, "Post created successfully", body["message"])
	post := body["post"].(map[string]any)
	assert.Equal(t, "First", post["title"])
	assert.Equal(t, true, post["visibility"])

	resp = env.do(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
		"title": "Draft", "content": "not published yet",
	})
	require.Equal(t, http.StatusCreated, resp.status)
	var draft models.Post
	require.NoError(t, env.db.Where("title = ?", "Draft").First(&draft).Error)
	assert.True(t, draft.IsHidden)

	t.Run("title taken by another author", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/v1/posts", env.token(t, bob), map[string]any{
			"title": "First", "content": "a different body",
		})
		assert.Equal(t, http.StatusBadRequest, resp.status)
		assert.Equal(t, "TITLE_ALREADY_EXISTS", resp.json(t)["error"])
	})

	t.Run("validation", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
			"title": "", "content": "hello there world",
		})
		assert.Equal(t, http.StatusBadRequest, resp.status)
		assert.Equal(t, "Title is required", resp.json(t)["error"])

		resp = env.do(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
			"title": "Short", "content": "tiny",
		})
		assert.Equal(t, http.StatusBadRequest, resp.status)
	})
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	ann := env.seedUser(t, "ann", models.UserTypeBlogger)
	bob := env.seedUser(t, "bob", models.UserTypeBlogger)
	root := env.seedUser(t, "root", models.UserTypeAdmin)
	post := env.seedPost(t, ann, "Original", false)
	env.seedPost(t, ann, "Taken", false)
	env.seedPost(t, bob, "Bob's title", false)

	resp := env.do(t, http.MethodPut, postPath(post.ID), env.token(t, ann), map[string]any{
		"title": "Renamed",
	})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	assert.Equal(t, "Post updated successfully", resp.json(t)["message"])

	resp = env.do(t, http.MethodGet, postPath(post.ID), env.token(t, ann), nil)
	assert.Equal(t, "Renamed", resp.json(t)["post"].(map[string]any)["title"])

	resp = env.do(t, http.MethodPut, postPath(post.ID), env.token(t, ann), map[string]any{"title": "Taken"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "TITLE_ALREADY_EXISTS", resp.json(t)["error"])

	// Uniqueness on update is per author.
	resp = env.do(t, http.MethodPut, postPath(post.ID), env.token(t, ann), map[string]any{"title": "Bob's title"})
	assert.Equal(t, http.StatusOK, resp.status)

	resp = env.do(t, http.MethodPut, postPath(post.ID), env.token(t, ann), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "Nothing to update", resp.json(t)["error"])

	resp = env.do(t, http.MethodPut, postPath(post.ID), env.token(t, bob), map[string]any{"content": "bob was here, at length"})
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, policy.ReasonCannotModifyPost, resp.json(t)["error"])

	resp = env.do(t, http.MethodPut, postPath(post.ID), env.token(t, root), map[string]any{"content": "moderated content here"})
	assert.Equal(t, http.StatusOK, resp.status)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	ann := env.seedUser(t, "ann", models.UserTypeBlogger)
	bob := env.seedUser(t, "bob", models.UserTypeBlogger)
	root := env.seedUser(t, "root", models.UserTypeAdmin)

	t.Run("admin cannot delete hidden post", func(t *testing.T) {
		draft := env.seedPost(t, ann, "hidden one", true)
		resp := env.do(t, http.MethodDelete, postPath(draft.ID), env.token(t, root), nil)
		assert.Equal(t, http.StatusForbidden, resp.status)
		assert.Equal(t, policy.ReasonAdminsPublicOnly, resp.json(t)["error"])
	})

	t.Run("admin deletes public post", func(t *testing.T) {
		pub := env.seedPost(t, ann, "public one", false)
		resp := env.do(t, http.MethodDelete, postPath(pub.ID), env.token(t, root), nil)
		assert.Equal(t, http.StatusOK, resp.status)
		assert.Equal(t, "Post deleted successfully", resp.json(t)["message"])
	})

	t.Run("author deletes hidden post", func(t *testing.T) {
		draft := env.seedPost(t, ann, "own draft", true)
		resp := env.do(t, http.MethodDelete, postPath(draft.ID), env.token(t, ann), nil)
		assert.Equal(t, http.StatusOK, resp.status)

		resp = env.do(t, http.MethodGet, postPath(draft.ID), env.token(t, ann), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
	})

	t.Run("other blogger cannot delete", func(t *testing.T) {
		pub := env.seedPost(t, ann, "ann only", false)
		resp := env.do(t, http.MethodDelete, postPath(pub.ID), env.token(t, bob), nil)
		assert.Equal(t, http.StatusForbidden, resp.status)
		assert.Equal(t, policy.ReasonCannotDeletePost, resp.json(t)["error"])
	})
}

func TestPublishPost(t *testing.T) {
	env := newTestEnv(t)
	ann := env.seedUser(t, "ann", models.UserTypeBlogger)
	root := env.seedUser(t, "root", models.UserTypeAdmin)
	post := env.seedPost(t, ann, "toggle", false)
	token := env.token(t, ann)

	hidden := func() bool {
		var p models.Post
		require.NoError(t, env.db.First(&p, post.ID).Error)
		return p.IsHidden
	}

	resp := env.do(t, http.MethodPatch, postPath(post.ID, "publish"), token, map[string]any{"visible": false})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	assert.Equal(t, "Post status updated successfully", resp.json(t)["message"])
	assert.True(t, hidden())

	resp = env.do(t, http.MethodPatch, postPath(post.ID, "publish"), token, map[string]any{"visible": true})
	require.Equal(t, http.StatusOK, resp.status)
	assert.False(t, hidden())

	resp = env.do(t, http.MethodPatch, postPath(post.ID, "publish"), env.token(t, root), map[string]any{"visible": false})
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, policy.ReasonCannotPublishPost, resp.json(t)["error"])

	resp = env.do(t, http.MethodPatch, postPath(post.ID, "publish"), token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.status)
}
