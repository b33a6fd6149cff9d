package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-generator/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
)

// APIHandler exposes the generator as JSON for scripted clients and the
// feature suite. It drives the same per-session QuoteGenerator as the pages.
type APIHandler struct {
	sessions  SessionService
	publicURL string
}

// NewAPIHandler creates an API handler.
func NewAPIHandler(sessions SessionService, publicURL string) *APIHandler {
	return &APIHandler{sessions: sessions, publicURL: strings.TrimRight(publicURL, "/")}
}

// Session handles GET /api/v1/session. It never fails: a visitor without a
// session is simply not signed in.
//
// @Summary Current session
// @Tags session
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /api/v1/session [get]
func (h *APIHandler) Session(c *gin.Context) {
	var resp dto.SessionResponse

	switch state := middleware.GetSessionState(c).(type) {
	case app.Ready:
		user := state.Capabilities.User()
		resp.SignedIn = true
		resp.User = &dto.UserResponse{ID: user.ID, Email: user.Email}

		if expires := state.Capabilities.ExpiresAt(); !expires.IsZero() {
			resp.ExpiresAt = &expires
		}
	case app.Failed:
		resp.Error = failureMessage(state.Err)
	}

	c.JSON(http.StatusOK, resp)
}

// State handles GET /api/v1/state.
//
// @Summary Generator snapshot
// @Tags quotes
// @Produce json
// @Success 200 {object} app.View
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/state [get]
func (h *APIHandler) State(c *gin.Context) {
	h.respondWithView(c)
}

// SetTopic handles PUT /api/v1/topic. Ignored while a generation runs, so
// the returned view shows the topic actually in effect.
//
// @Summary Set the topic
// @Tags quotes
// @Accept json
// @Produce json
// @Param body body dto.TopicRequest true "Topic"
// @Success 200 {object} app.View
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/topic [put]
func (h *APIHandler) SetTopic(c *gin.Context) {
	var req dto.TopicRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.AbortWithValidation(c, dto.BindingDetails(err))
		return
	}

	g, ok := h.workspace(c)
	if !ok {
		return
	}

	g.SetTopic(req.Topic)
	h.respondWithView(c)
}

// Generate handles POST /api/v1/quotes. A failed generation still answers
// 200: the failure is in the view's error field. 409 means nothing was
// attempted because the topic is blank or a generation is already running.
//
// @Summary Generate a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest false "Optional topic"
// @Success 200 {object} app.View
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *APIHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if c.Request.ContentLength != 0 {
		if err := dto.BindAndValidate(c, &req); err != nil {
			dto.AbortWithValidation(c, dto.BindingDetails(err))
			return
		}
	}

	g, ok := h.workspace(c)
	if !ok {
		return
	}

	if req.Topic != nil {
		g.SetTopic(*req.Topic)
	}

	if err := g.Generate(c.Request.Context()); errors.Is(err, app.ErrGenerateRejected) {
		dto.HandleError(c, err)
		return
	}

	h.respondWithView(c)
}

// KeyPress handles POST /api/v1/keypress. Only Enter does anything.
//
// @Summary Dispatch a key from the topic input
// @Tags quotes
// @Accept json
// @Produce json
// @Param body body dto.KeyPressRequest true "Key"
// @Success 200 {object} app.View
// @Router /api/v1/keypress [post]
func (h *APIHandler) KeyPress(c *gin.Context) {
	var req dto.KeyPressRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.AbortWithValidation(c, dto.BindingDetails(err))
		return
	}

	g, ok := h.workspace(c)
	if !ok {
		return
	}

	// Rejected presses return nil. Generation failures are already logged
	// and shown in the view.
	ctx := c.Request.Context()
	if err := g.KeyPress(ctx, req.Key); err != nil {
		logging.FromContext(ctx).DebugContext(ctx, "key press generation failed", slog.Any("error", err))
	}

	h.respondWithView(c)
}

// ListQuotes handles GET /api/v1/quotes, newest first.
//
// @Summary Quote history
// @Tags quotes
// @Produce json
// @Param limit query int false "Page size (1-100)"
// @Param cursor query string false "Cursor from a previous page"
// @Success 200 {object} dto.PaginatedResponse[dto.QuoteResponse]
// @Router /api/v1/quotes [get]
func (h *APIHandler) ListQuotes(c *gin.Context) {
	var req dto.PaginationRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.AbortWithValidation(c, dto.BindingDetails(err))
		return
	}

	g, ok := h.workspace(c)
	if !ok {
		return
	}

	history := g.History()
	items := make([]dto.QuoteResponse, len(history))
	for i, q := range history {
		items[i] = toQuoteResponse(q)
	}

	page, err := dto.NewestFirst(items, &req)
	if err != nil {
		dto.AbortWithValidation(c, map[string]string{"cursor": "is invalid"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// Plan handles GET /api/v1/plan.
//
// @Summary Plan management URL
// @Tags billing
// @Produce json
// @Success 200 {object} dto.PlanResponse
// @Router /api/v1/plan [get]
func (h *APIHandler) Plan(c *gin.Context) {
	target, err := h.sessions.ManagePlanURL(c.Request.Context(), middleware.GetCapabilities(c), h.publicURL+"/")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PlanResponse{URL: target})
}

func toQuoteResponse(q domain.Quote) dto.QuoteResponse {
	return dto.QuoteResponse{Text: q.Text, Author: q.Author}
}

func (h *APIHandler) workspace(c *gin.Context) (*app.QuoteGenerator, bool) {
	g, err := h.sessions.Workspace(c.Request.Context(), middleware.GetCapabilities(c))
	if err != nil {
		dto.HandleError(c, err)
		return nil, false
	}

	return g, true
}

func (h *APIHandler) respondWithView(c *gin.Context) {
	view, err := h.sessions.Snapshot(c.Request.Context(), middleware.GetCapabilities(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// RegisterAPIRoutes registers the JSON routes on rg (normally /api/v1).
// Everything except /session requires a signed-in session.
func (h *APIHandler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", h.Session)

	ready := rg.Group("", middleware.RequireReady())
	ready.GET("/state", h.State)
	ready.PUT("/topic", h.SetTopic)
	ready.POST("/quotes", h.Generate)
	ready.GET("/quotes", h.ListQuotes)
	ready.POST("/keypress", h.KeyPress)
	ready.GET("/plan", h.Plan)
}
