package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/dmitrijs2005/audiovote/internal/server/models"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// voteRequest uses pointers so a missing field can be told apart from zero.
type voteRequest struct {
	AudiobookID *int64 `json:"audiobook_id"`
	Value       *int   `json:"value"`
}

type audiobookResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	CoverImage string `json:"cover_image"`
	Votes      int    `json:"votes"`
	TotalVotes int    `json:"total_votes"`
	UserVote   int    `json:"user_vote"`
}

type voteResponse struct {
	Msg        string `json:"msg"`
	Votes      int    `json:"votes"`
	TotalVotes int    `json:"total_votes"`
	UserVote   int    `json:"user_vote"`
}

func toAudiobookResponse(v models.AudiobookView) audiobookResponse {
	return audiobookResponse{
		ID:         v.ID,
		Title:      v.Title,
		Author:     v.Author,
		CoverImage: v.CoverImage,
		Votes:      v.Votes,
		TotalVotes: v.TotalVotes,
		UserVote:   v.UserVote,
	}
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
}

func (s *Server) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	u, err := s.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", u.ID)
	c.JSON(http.StatusCreated, gin.H{"msg": "User registered successfully"})
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	ctx := c.Request.Context()
	u, err := s.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	// a previous session on this client is replaced, not kept alive
	if old, ok := c.Get(ctxToken); ok {
		if err := s.sessions.Destroy(ctx, old.(string)); err != nil {
			s.logger.Warn(ctx, "failed to drop previous session", "error", err)
		}
	}

	token, _, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"msg": "Logged in successfully"})
}

func (s *Server) logout(c *gin.Context) {
	ctx := c.Request.Context()
	if token, err := c.Cookie(common.SessionCookieName); err == nil {
		if err := s.sessions.Destroy(ctx, token); err != nil {
			s.logger.Warn(ctx, "failed to destroy session", "error", err)
		}
	}

	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"msg": "Logged out successfully"})
}

func (s *Server) currentUser(c *gin.Context) {
	id, _ := userID(c)

	u, err := s.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrUnauthenticated) {
			s.clearSessionCookie(c)
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Not logged in"})
			return
		}
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": u.Username})
}

func (s *Server) listAudiobooks(c *gin.Context) {
	var viewer *int64
	if id, ok := userID(c); ok {
		viewer = &id
	}

	views, err := s.catalog.List(c.Request.Context(), viewer)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	out := make([]audiobookResponse, len(views))
	for i, v := range views {
		out[i] = toAudiobookResponse(v)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getAudiobook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Audiobook not found"})
		return
	}

	book, err := s.catalog.Get(c.Request.Context(), id)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	// user_vote is only meaningful in the list view
	c.JSON(http.StatusOK, toAudiobookResponse(models.AudiobookView{Audiobook: *book}))
}

func (s *Server) vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	if req.AudiobookID == nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Audiobook not found"})
		return
	}
	if req.Value == nil {
		s.writeServiceError(c, common.ErrInvalidVote)
		return
	}

	id, _ := userID(c)
	res, err := s.votes.SubmitVote(c.Request.Context(), id, *req.AudiobookID, *req.Value)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, voteResponse{
		Msg:        "Vote recorded",
		Votes:      res.Votes,
		TotalVotes: res.TotalVotes,
		UserVote:   res.UserVote,
	})
}

func (s *Server) health(c *gin.Context) {
	if s.store != nil {
		if err := s.store.PingContext(c.Request.Context()); err != nil {
			s.logger.Error(c.Request.Context(), "health check failed", "error", err)
			c.String(http.StatusServiceUnavailable, "Service Unavailable")
			return
		}
	}
	c.String(http.StatusOK, "OK")
}
