package web

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bobinette/inkwell"
	"github.com/bobinette/inkwell/errors"
	"github.com/bobinette/inkwell/services"
)

func (s *Server) error(c *gin.Context, err error) {
	s.logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(errors.Code(err), gin.H{"error": err.Error()})
}

type authRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleAuth(c *gin.Context) {
	var req authRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	var user inkwell.User
	var err error
	switch req.Action {
	case "register":
		user, err = s.authService.Register(c.Request.Context(), req.Username, req.Password)
	case "login":
		user, err = s.authService.Login(c.Request.Context(), req.Username, req.Password)
	default:
		err = errors.New("invalid action", errors.BadRequest())
	}
	if err != nil {
		s.error(c, err)
		return
	}

	token, err := s.encoder.Encode(user.ID)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (s *Server) handleData(c *gin.Context) {
	force := c.Query("nocache") == "1"
	if err := s.engine.BulkLoad(c.Request.Context(), force); err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, s.store.Dataset())
}

// handleSamples replaces one user's sample channel wholesale, the
// slice-write contract used by clients that keep their own replica.
func (s *Server) handleSamples(c *gin.Context) {
	session := s.session(c)
	userID := c.Param("userID")
	if !session.IsAdmin() && session.UserID() != userID {
		s.error(c, errors.New("permission denied", errors.Forbidden()))
		return
	}

	var samples []inkwell.Sample
	if err := c.BindJSON(&samples); err != nil {
		return
	}
	for i := range samples {
		samples[i].UserID = userID
	}

	snapshot := s.store.SamplesForUser(userID)
	s.store.RestoreSamples(userID, samples)
	s.engine.PushSamples(userID, snapshot)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleWorks(c *gin.Context) {
	session := s.session(c)
	userID := c.Param("userID")
	if !session.IsAdmin() && session.UserID() != userID {
		s.error(c, errors.New("permission denied", errors.Forbidden()))
		return
	}

	var works []inkwell.Work
	if err := c.BindJSON(&works); err != nil {
		return
	}
	for i := range works {
		works[i].UserID = userID
	}

	snapshot := s.store.WorksForUser(userID)
	s.store.RestoreWorks(userID, works)
	s.engine.PushWorks(userID, snapshot)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type systemRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

func (s *Server) handleSystem(c *gin.Context) {
	var req systemRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}
	session := s.session(c)

	switch req.Action {
	case "saveRating":
		var payload struct {
			TargetID   string             `json:"targetId"`
			TargetType inkwell.TargetType `json:"targetType"`
			Score      float64            `json:"score"`
		}
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			s.error(c, errors.New("invalid payload", errors.BadRequest(), errors.WithCause(err)))
			return
		}
		rating, err := s.ratingService.Save(session, payload.TargetID, payload.TargetType, payload.Score)
		if err != nil {
			s.error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rating": rating})

	case "saveSettings":
		var patch inkwell.SettingsPatch
		if err := json.Unmarshal(req.Payload, &patch); err != nil {
			s.error(c, errors.New("invalid payload", errors.BadRequest(), errors.WithCause(err)))
			return
		}
		settings, err := s.settingsService.Save(session, patch)
		if err != nil {
			s.error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"settings": settings})

	case "updateUser":
		var payload struct {
			UserID  string              `json:"userId"`
			Updates services.UserUpdate `json:"updates"`
		}
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			s.error(c, errors.New("invalid payload", errors.BadRequest(), errors.WithCause(err)))
			return
		}
		user, err := s.userService.Update(session, payload.UserID, payload.Updates)
		if err != nil {
			s.error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})

	case "resetPassword":
		var payload struct {
			UserID      string `json:"userId"`
			NewPassword string `json:"newPassword"`
		}
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			s.error(c, errors.New("invalid payload", errors.BadRequest(), errors.WithCause(err)))
			return
		}
		err := s.authService.ResetPassword(c.Request.Context(), session.User(), payload.UserID, payload.NewPassword)
		if err != nil {
			s.error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})

	default:
		s.error(c, errors.New("invalid action", errors.BadRequest()))
	}
}
