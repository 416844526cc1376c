package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"Weblog/internal/auth"
	"Weblog/internal/dto"
	"Weblog/internal/facts"
	"Weblog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PostHandler handles the home feed, post creation, search and the JSON API.
type PostHandler struct {
	postSvc *service.PostService
	facts   *facts.Client
}

// NewPostHandler returns a new PostHandler.
func NewPostHandler(postSvc *service.PostService, facts *facts.Client) *PostHandler {
	return &PostHandler{postSvc: postSvc, facts: facts}
}

// Home renders the feed, newest posts first, decorated with a fun fact.
// Readable by anonymous and authenticated visitors alike.
func (h *PostHandler) Home(c *gin.Context) {
	posts, err := h.postSvc.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list posts failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}
	c.HTML(http.StatusOK, "home.tmpl", gin.H{
		"Title":   "Home",
		"Posts":   posts,
		"Fact":    h.facts.Random(c.Request.Context()),
		"Session": auth.SessionFromContext(c),
	})
}

// About renders the static about page.
func (h *PostHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.tmpl", gin.H{
		"Title":   "About",
		"Session": auth.SessionFromContext(c),
	})
}

// ShowAddPost renders the new-post form. Reached only through RequireLogin.
func (h *PostHandler) ShowAddPost(c *gin.Context) {
	c.HTML(http.StatusOK, "add-post.tmpl", gin.H{
		"Title":   "Add a New Post",
		"Session": auth.SessionFromContext(c),
	})
}

// AddPost creates a post authored by the logged-in user.
func (h *PostHandler) AddPost(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")
	sess := auth.SessionFromContext(c)

	_, err := h.postSvc.Create(c.Request.Context(), sess.UserID, title, content)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.String(http.StatusBadRequest, "Title and content are required.")
			return
		}
		log.Error().Err(err).Msg("create post failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Search renders posts whose title or content contains the query substring.
func (h *PostHandler) Search(c *gin.Context) {
	query := c.Query("query")
	results, err := h.postSvc.Search(c.Request.Context(), query)
	if err != nil {
		log.Error().Err(err).Msg("search posts failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}
	c.HTML(http.StatusOK, "search-results.tmpl", gin.H{
		"Title":   fmt.Sprintf("Search Results for %q", query),
		"Query":   query,
		"Results": results,
		"Session": auth.SessionFromContext(c),
	})
}

// ListPosts godoc
// @Summary      List posts
// @Description  All posts, newest first.
// @Tags         posts
// @Produce      json
// @Success      200  {array}   dto.PostResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.postSvc.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list posts failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}
	out := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, dto.PostResponse{
			ID:        p.ID,
			UserID:    p.UserID,
			Username:  p.Username,
			Title:     p.Title,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}
