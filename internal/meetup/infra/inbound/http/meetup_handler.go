package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/meetup/application"
	"github.com/davicafu/meetups/internal/meetup/domain"
	"github.com/davicafu/meetups/internal/shared/application/mediator"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/internal/shared/platform/query"
	"github.com/davicafu/meetups/pkg/utils"
)

const dateLayout = "2006-01-02"

// MeetupHandler traduce HTTP a peticiones del mediador.
type MeetupHandler struct {
	sender mediator.Sender
	log    *zap.Logger
}

func NewMeetupHandler(sender mediator.Sender, log *zap.Logger) *MeetupHandler {
	return &MeetupHandler{sender: sender, log: log}
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.SendBadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func (h *MeetupHandler) send(c *gin.Context, req mediator.Request, status int) {
	res, err := h.sender.Send(c.Request.Context(), req)
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	switch v := res.(type) {
	case uuid.UUID:
		utils.SendSuccess(c, status, gin.H{"id": v})
	case struct{}:
		c.Status(status)
	default:
		utils.SendSuccess(c, status, v)
	}
}

// ---------------- Meetups ----------------

// CreateMeetup endpoint POST /meetups
func (h *MeetupHandler) CreateMeetup(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Address     string `json:"address" binding:"required"`
		City        string `json:"city" binding:"required"`
		Country     string `json:"country" binding:"required"`
		StartDate   string `json:"start_date" binding:"required"`  // YYYY-MM-DD
		FinishDate  string `json:"finish_date" binding:"required"` // YYYY-MM-DD
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		utils.SendBadRequest(c, "invalid start_date format, use YYYY-MM-DD")
		return
	}
	finish, err := time.Parse(dateLayout, req.FinishDate)
	if err != nil {
		utils.SendBadRequest(c, "invalid finish_date format, use YYYY-MM-DD")
		return
	}

	h.send(c, application.AddMeetup{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		StartDate:   start,
		FinishDate:  finish,
	}, http.StatusCreated)
}

// ListMeetups endpoint GET /meetups?limit=&offset=
func (h *MeetupHandler) ListMeetups(c *gin.Context) {
	var p query.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	h.send(c, application.GetMeetups{Pagination: p}, http.StatusOK)
}

// DeleteMeetup endpoint DELETE /meetups/:id
func (h *MeetupHandler) DeleteMeetup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.send(c, application.RemoveMeetup{MeetupID: id}, http.StatusNoContent)
}

// EditMeetupStatus endpoint PATCH /meetups/:id/status
func (h *MeetupHandler) EditMeetupStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	status, err := domain.ParseMeetupStatus(req.Status)
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	h.send(c, application.EditMeetupStatus{MeetupID: id, Status: status}, http.StatusNoContent)
}

type moderationRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}

// ModerateMeetup endpoint POST /meetups/:id/moderation
func (h *MeetupHandler) ModerateMeetup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	h.send(c, application.ModerateMeetup{MeetupID: id, Status: sharedDomain.ModerationStatus(req.Status)}, http.StatusNoContent)
}

// ---------------- Reviews ----------------

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// AddReview endpoint POST /meetups/:id/reviews
func (h *MeetupHandler) AddReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	h.send(c, application.AddReview{MeetupID: id, Rating: req.Rating, Comment: req.Comment}, http.StatusCreated)
}

// ListReviews endpoint GET /meetups/:id/reviews?limit=&offset=
func (h *MeetupHandler) ListReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p query.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	h.send(c, application.GetReviews{MeetupID: id, Pagination: p}, http.StatusOK)
}

// EditReview endpoint PUT /meetups/:id/reviews/:review_id
func (h *MeetupHandler) EditReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	h.send(c, application.EditReview{MeetupID: id, ReviewID: reviewID, Rating: req.Rating, Comment: req.Comment}, http.StatusNoContent)
}

// DropReview endpoint DELETE /meetups/:id/reviews/:review_id
func (h *MeetupHandler) DropReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	h.send(c, application.DropReview{MeetupID: id, ReviewID: reviewID}, http.StatusNoContent)
}

// ModerateReview endpoint POST /meetups/:id/reviews/:review_id/moderation
func (h *MeetupHandler) ModerateReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	h.send(c, application.ModerateReview{
		MeetupID: id,
		ReviewID: reviewID,
		Status:   sharedDomain.ModerationStatus(req.Status),
	}, http.StatusNoContent)
}
