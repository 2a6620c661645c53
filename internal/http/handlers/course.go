package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/domain/jobs"
	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/realtime"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type CourseHandler struct {
	log *logger.Logger
	gen services.CourseGenService
	hub *realtime.SSEHub
}

func NewCourseHandler(log *logger.Logger, gen services.CourseGenService, hub *realtime.SSEHub) *CourseHandler {
	return &CourseHandler{log: log.With("handler", "CourseHandler"), gen: gen, hub: hub}
}

// POST /api/courses/generate
func (h *CourseHandler) Generate(c *gin.Context) {
	var in course.CourseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	requestID, err := h.gen.Start(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"request_id": requestID,
		"progress":   "/api/courses/" + requestID + "/progress",
		"events":     "/api/courses/" + requestID + "/events",
	})
}

// GET /api/courses/:id/progress
func (h *CourseHandler) Progress(c *gin.Context) {
	rep, err := h.gen.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rep)
}

// GET /api/courses/:id/events streams progress for one request. The current
// snapshot is sent first; a finished request ends the stream right away.
func (h *CourseHandler) Events(c *gin.Context) {
	requestID := c.Param("id")
	rep, err := h.gen.Progress(c.Request.Context(), requestID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}

	subject := ""
	if p := ctxutil.GetPrincipal(c.Request.Context()); p != nil {
		subject = p.Subject
	}
	client := h.hub.NewSSEClient(subject)
	channel := realtime.CourseChannel(requestID)
	h.hub.AddChannel(client, channel)
	defer h.hub.CloseClient(client)

	client.Outbound <- realtime.SSEMessage{Channel: channel, Event: realtime.SSEEventCourseProgress, Data: rep}
	if done := terminalMessage(rep); done != nil {
		client.Outbound <- *done
	}
	h.log.Debug("SSE stream open", "request_id", requestID, "client_id", client.ID)
	h.hub.ServeHTTP(c.Writer, c.Request, client, realtime.Terminal)
}

func terminalMessage(rep *services.ProgressReport) *realtime.SSEMessage {
	channel := realtime.CourseChannel(rep.RequestID)
	switch rep.Status {
	case jobs.RequestStatusCompleted:
		return &realtime.SSEMessage{Channel: channel, Event: realtime.SSEEventCourseCompleted, Data: course.Completion{
			Status:     course.CompletionCompleted,
			RequestID:  rep.RequestID,
			ResultPath: rep.ResultPath,
		}}
	case jobs.RequestStatusFailed:
		return &realtime.SSEMessage{Channel: channel, Event: realtime.SSEEventCourseFailed, Data: course.Completion{
			Status:    course.CompletionError,
			RequestID: rep.RequestID,
			Step:      rep.FailedStep,
			Error:     rep.Error,
		}}
	}
	return nil
}
