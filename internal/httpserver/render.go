package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkovac00/travelshare-backend/internal/domain"
	"github.com/mkovac00/travelshare-backend/internal/media"
)

// authUserKey holds the authenticated user id in the request context.
const authUserKey = "authUserID"

// requireAuth rejects requests without a valid bearer token and records the
// caller's identity for the handlers.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication failed."})
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication failed."})
			return
		}

		c.Set(authUserKey, claims.UserID)
		c.Next()
	}
}

func authUser(c *gin.Context) string {
	return c.GetString(authUserKey)
}

// renderEmpty maps ErrEmpty to the endpoint's own not-found text; every
// other error goes through renderError.
func (s *Server) renderEmpty(c *gin.Context, err error, message string) {
	if errors.Is(err, domain.ErrEmpty) {
		c.JSON(http.StatusNotFound, gin.H{"message": message})
		return
	}
	s.renderError(c, err)
}

// renderError maps a domain error to the client contract's status codes.
func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong, please try again."

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrEmpty):
		status = http.StatusNotFound
		message = "Could not find anything for the provided id."
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "Not authorized for this operation."
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
		message = "The operation raced a concurrent change, please retry."
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusUnprocessableEntity
		message = "User exists already, please login instead."
	case errors.Is(err, media.ErrUnsupportedType):
		status = http.StatusUnprocessableEntity
		message = "Invalid image type."
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}

	c.JSON(status, gin.H{"message": message})
}

type userResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	ProfilePicture string   `json:"profilePicture"`
	CoverPicture   string   `json:"coverPicture"`
	Description    string   `json:"description"`
	Posts          []string `json:"posts"`
}

type postResponse struct {
	ID          string   `json:"id"`
	Creator     string   `json:"creator"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Hearts      []string `json:"hearts"`
	CreatedAt   string   `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	posts := u.Posts
	if posts == nil {
		posts = []string{}
	}
	return userResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		CoverPicture:   u.CoverPicture,
		Description:    u.Description,
		Posts:          posts,
	}
}

func toUserResponses(users []domain.User) []userResponse {
	result := make([]userResponse, len(users))
	for i := range users {
		result[i] = toUserResponse(&users[i])
	}
	return result
}

func toPostResponse(p *domain.Post) postResponse {
	hearts := p.Hearts
	if hearts == nil {
		hearts = []string{}
	}
	return postResponse{
		ID:          p.ID,
		Creator:     p.Creator,
		Description: p.Description,
		Image:       p.Image,
		Hearts:      hearts,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toPostResponses(posts []domain.Post) []postResponse {
	result := make([]postResponse, len(posts))
	for i := range posts {
		result[i] = toPostResponse(&posts[i])
	}
	return result
}
