package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkovac00/travelshare-backend/internal/domain"
)

func (s *Server) handleSignup(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")
	description := c.PostForm("description")
	if name == "" || email == "" || len(password) < 6 || description == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid input data, please try again."})
		return
	}

	profilePicture, err := s.saveUpload(c)
	if err != nil {
		s.renderError(c, err)
		return
	}

	session, err := s.services.Accounts.Signup(c.Request.Context(), domain.SignupInput{
		Name:           name,
		Email:          email,
		Password:       password,
		Description:    description,
		ProfilePicture: profilePicture,
	})
	if err != nil {
		if profilePicture != "" {
			s.releaseUpload(c, profilePicture)
		}
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"userId": session.UserID,
		"email":  session.Email,
		"token":  session.Token,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid input data, please try again."})
		return
	}

	session, err := s.services.Accounts.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId": session.UserID,
		"email":  session.Email,
		"token":  session.Token,
	})
}

func (s *Server) handleListFollowing(c *gin.Context) {
	following, err := s.services.Graph.ListFollowing(c.Request.Context(), c.Param("uid"))
	if err != nil {
		s.renderEmpty(c, err, "This user does not follow anyone.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": toUserResponses(following)})
}

func (s *Server) handleSearchUsers(c *gin.Context) {
	users, err := s.services.Users.SearchUsers(c.Request.Context(), c.Query("name"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"users": toUserResponses(users)})
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.services.Users.GetUser(c.Request.Context(), c.Param("uid"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (s *Server) handleIsFollowed(c *gin.Context) {
	followed, err := s.services.Graph.IsFollowing(c.Request.Context(), c.Query("userId"), c.Param("uid"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"isFollowed": followed})
}

func (s *Server) handleToggleFollow(c *gin.Context) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid input data, please try again."})
		return
	}

	followers, err := s.services.Graph.ToggleFollow(c.Request.Context(), body.UserID, c.Param("uid"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"followers": followers})
}

func (s *Server) handleEditUser(c *gin.Context) {
	var body struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Description == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid input data, please try again."})
		return
	}

	user, err := s.services.Users.EditDescription(c.Request.Context(), authUser(c), c.Param("uid"), body.Description)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}
