package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/server/models"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=4,max=100"`
	Password string `json:"password" binding:"required,min=6,max=250"`
}

type userProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserProfile(u *models.User) userProfile {
	return userProfile{
		ID:        u.ID,
		Username:  u.UserName,
		Admin:     u.Admin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithStatus(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	if _, err := s.users.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			abortWithStatus(c, http.StatusConflict, "User already exists")
			return
		}
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, true)
}

func (s *Server) profile(c *gin.Context) {
	p, _ := principal(c)

	u, err := s.users.Profile(c.Request.Context(), p.ID)
	if err != nil {
		// the token outlived its account
		if errors.Is(err, common.ErrorNotFound) {
			err = common.ErrorUnauthorized
		}
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserProfile(u))
}

func (s *Server) listUsers(c *gin.Context) {
	list, err := s.users.List(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]userProfile, 0, len(list))
	for _, u := range list {
		out = append(out, newUserProfile(u))
	}
	c.JSON(http.StatusOK, out)
}
