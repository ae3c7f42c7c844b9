package handler

import (
	"errors"
	"net/http"
	"strconv"

	"innovision/model"
	"innovision/service"

	"github.com/gin-gonic/gin"
)

// GamificationHandler exposes the gamification engine over HTTP. Identity is
// the verified user email, forwarded by the gateway in the X-User-Email
// header; there is no session handling here.
type GamificationHandler struct {
	svc *service.GamificationService
}

func NewGamificationHandler(svc *service.GamificationService) *GamificationHandler {
	return &GamificationHandler{svc: svc}
}

// RegisterRoutes wires all endpoints onto the router.
func (h *GamificationHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.Use(RequireUser())
	{
		api.GET("/gamification/stats", h.GetStats)
		api.POST("/gamification/stats", h.AwardAction)
		api.POST("/tasks", h.SubmitTask)
		api.GET("/leaderboard", h.GetLeaderboard)
		api.GET("/leaderboard/rank", h.GetUserRank)
	}
}

// RequireUser rejects requests without a forwarded user identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader("X-User-Email")
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.GenericResponse{
				Success: false,
				Status:  http.StatusUnauthorized,
				Error: &model.ErrorInfo{
					ErrorType: string(service.ErrorTypeUnauthorized),
					Code:      http.StatusUnauthorized,
					Message:   "Unauthorized",
				},
			})
			return
		}
		c.Set("userEmail", email)
		c.Next()
	}
}

func userEmail(c *gin.Context) string {
	return c.GetString("userEmail")
}

func (h *GamificationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetStats handles GET /api/gamification/stats. First fetch for a user seeds
// the document; every fetch refreshes the streak.
func (h *GamificationHandler) GetStats(c *gin.Context) {
	stats, err := h.svc.GetOrInitStats(c.Request.Context(), userEmail(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, stats)
}

// AwardAction handles POST /api/gamification/stats.
func (h *GamificationHandler) AwardAction(c *gin.Context) {
	var req model.AwardActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid request body")
		return
	}
	result, err := h.svc.AwardAction(c.Request.Context(), userEmail(c), req.Action, req.Value)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, result)
}

// SubmitTask handles POST /api/tasks.
func (h *GamificationHandler) SubmitTask(c *gin.Context) {
	var req model.SubmitTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid request body")
		return
	}
	result, err := h.svc.SubmitTaskAnswer(c.Request.Context(), userEmail(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, result)
}

// GetLeaderboard handles GET /api/leaderboard?limit=N.
func (h *GamificationHandler) GetLeaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}
	entries, err := h.svc.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, gin.H{"leaderboard": entries, "total": len(entries)})
}

// GetUserRank handles GET /api/leaderboard/rank.
func (h *GamificationHandler) GetUserRank(c *gin.Context) {
	rank, err := h.svc.GetUserRank(c.Request.Context(), userEmail(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, rank)
}

func writeOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, model.GenericResponse{
		Success: true,
		Status:  http.StatusOK,
		Payload: payload,
	})
}

func writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, model.GenericResponse{
		Success: false,
		Status:  http.StatusBadRequest,
		Error: &model.ErrorInfo{
			ErrorType: string(service.ErrorTypeValidation),
			Code:      http.StatusBadRequest,
			Message:   message,
		},
	})
}

// writeError maps a service error to its HTTP status and response envelope.
func writeError(c *gin.Context, err error) {
	errType := service.TypeOf(err)
	status := statusFor(errType)
	message := "Internal server error"
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}
	c.JSON(status, model.GenericResponse{
		Success: false,
		Status:  status,
		Error: &model.ErrorInfo{
			ErrorType: string(errType),
			Code:      status,
			Message:   message,
		},
	})
}

func statusFor(t service.ErrorType) int {
	switch t {
	case service.ErrorTypeValidation:
		return http.StatusBadRequest
	case service.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case service.ErrorTypeNotFound:
		return http.StatusNotFound
	case service.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
