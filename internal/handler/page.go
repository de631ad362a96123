package handler

import (
	"context"
	"time"

	"studynote-ai/internal/domain"
	"studynote-ai/internal/dto"
	"studynote-ai/internal/web"

	"github.com/gofiber/fiber/v2"
)

// PageHandler serves the single page and the health check.
type PageHandler struct {
	cache    domain.Cache
	provider string
	store    string
	pdfReady bool
}

func NewPageHandler(cache domain.Cache, provider, store string, pdfReady bool) *PageHandler {
	return &PageHandler{cache: cache, provider: provider, store: store, pdfReady: pdfReady}
}

// Index serves the page.
func (h *PageHandler) Index(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(web.IndexHTML)
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *PageHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Provider:  h.provider,
		Store:     h.store,
		PDFReady:  h.pdfReady,
		StoreOK:   true,
		Timestamp: time.Now().Unix(),
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.StoreOK = false
			resp.StoreErr = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
		}
	}
	return c.JSON(resp)
}
