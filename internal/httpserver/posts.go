package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkovac00/travelshare-backend/internal/domain"
	"github.com/mkovac00/travelshare-backend/internal/media"
)

func (s *Server) handleGetPost(c *gin.Context) {
	post, err := s.services.Posts.GetPost(c.Request.Context(), c.Param("pid"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": toPostResponse(post)})
}

func (s *Server) handlePostsForUser(c *gin.Context) {
	posts, user, err := s.services.Posts.PostsForUser(c.Request.Context(), c.Param("uid"))
	if err != nil {
		s.renderEmpty(c, err, "Could not find any posts for the provided user id.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": toPostResponses(posts),
		"user":  []userResponse{toUserResponse(user)},
	})
}

func (s *Server) handleTimeline(c *gin.Context) {
	timeline, err := s.services.Timeline.Timeline(c.Request.Context(), c.Param("uid"))
	if err != nil {
		message := "This user does not follow anyone."
		if errors.Is(err, domain.ErrNoFollowedPosts) {
			message = "None of the users followed have any posts."
		}
		s.renderEmpty(c, err, message)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"posts": toPostResponses(timeline.Posts),
		"users": toUserResponses(timeline.Creators),
	})
}

func (s *Server) handleIsHearted(c *gin.Context) {
	hearted, err := s.services.Engagement.IsHearted(c.Request.Context(), c.Param("pid"), c.Query("userId"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"isHearted": hearted})
}

func (s *Server) handleToggleHeart(c *gin.Context) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid input data, please try again."})
		return
	}

	hearts, err := s.services.Engagement.ToggleHeart(c.Request.Context(), c.Param("pid"), body.UserID)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"hearts": hearts})
}

func (s *Server) handleCreatePost(c *gin.Context) {
	description := c.PostForm("description")
	if description == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid input data, please try again."})
		return
	}

	imageRef, err := s.saveUpload(c)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if imageRef == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid input data, please try again."})
		return
	}

	post, err := s.services.Posts.CreatePost(c.Request.Context(), authUser(c), description, imageRef)
	if err != nil {
		s.releaseUpload(c, imageRef)
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": toPostResponse(post)})
}

func (s *Server) handleDeletePost(c *gin.Context) {
	if err := s.services.Posts.DeletePost(c.Request.Context(), authUser(c), c.Param("pid")); err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "The post has been deleted."})
}

// saveUpload stores the request's image file, if any, and returns its media
// reference. A request without an image form file returns an empty ref.
func (s *Server) saveUpload(c *gin.Context) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	if header.Size > media.MaxUploadBytes {
		return "", fmt.Errorf("image too large: %w", media.ErrUnsupportedType)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	return s.media.Save(c.Request.Context(), header.Header.Get("Content-Type"), file)
}

// releaseUpload drops a stored image after the record write failed.
func (s *Server) releaseUpload(c *gin.Context, ref string) {
	if err := s.media.Release(c.Request.Context(), ref); err != nil {
		s.logger.Warn("failed to release orphaned upload", "ref", ref, "error", err)
	}
}
