package handler

import (
	"studynote-ai/internal/domain"
	"studynote-ai/internal/dto"
	"studynote-ai/internal/export"
	"studynote-ai/internal/input"
	"studynote-ai/internal/logger"
	"studynote-ai/internal/middleware"
	"studynote-ai/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NotesHandler handles study-notes HTTP requests
type NotesHandler struct {
	service      service.NotesService
	collector    *input.Collector
	defaultLevel domain.Level
}

// NewNotesHandler creates a new NotesHandler instance
func NewNotesHandler(service service.NotesService, collector *input.Collector, defaultLevel domain.Level) *NotesHandler {
	return &NotesHandler{
		service:      service,
		collector:    collector,
		defaultLevel: defaultLevel,
	}
}

// GenerateNotes godoc
// @Summary Generate study notes
// @Description Generates notes, key terms and a quiz from an image, a URL or a topic (in that precedence)
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Param topic formData string false "Topic"
// @Param url formData string false "Source URL"
// @Param level formData string false "Academic level"
// @Param image formData file false "Image"
// @Success 200 {object} dto.NotesResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /notes [post]
func (h *NotesHandler) GenerateNotes(c *fiber.Ctx) error {
	var (
		in  input.Input
		err error
	)
	if form, formErr := c.MultipartForm(); formErr == nil {
		in, err = h.collector.FromMultipart(form)
	} else {
		in, err = input.Collect(c.FormValue(input.FieldTopic), c.FormValue(input.FieldURL), nil)
	}
	if err != nil {
		return err
	}

	level, ok := c.Locals(middleware.ValidatedLevelKey).(domain.Level)
	if !ok {
		level = h.defaultLevel
	}

	resp, err := h.service.Generate(c.UserContext(), middleware.SessionID(c), in, level)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetNotes godoc
// @Summary Get the current notes
// @Description Returns the session's last generated notes and their rendered fragment
// @Tags notes
// @Produce json
// @Success 200 {object} dto.NotesResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /notes [get]
func (h *NotesHandler) GetNotes(c *fiber.Ctx) error {
	resp, err := h.service.Current(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetNotesText godoc
// @Summary Get the notes as clipboard text
// @Tags notes
// @Produce plain
// @Success 200 {string} string
// @Failure 404 {object} middleware.ErrorResponse
// @Router /notes/text [get]
func (h *NotesHandler) GetNotesText(c *fiber.Ctx) error {
	text, err := h.service.Text(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(text)
}

// ExportNotes godoc
// @Summary Download the notes
// @Description Exports the current notes as txt, docx or pdf
// @Tags notes
// @Produce octet-stream
// @Param format path string true "txt, docx or pdf"
// @Success 200 {file} file
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /notes/export/{format} [get]
func (h *NotesHandler) ExportNotes(c *fiber.Ctx) error {
	format, ok := c.Locals(middleware.ValidatedFormatKey).(export.Format)
	if !ok {
		var err error
		if format, err = export.ParseFormat(c.Params("format")); err != nil {
			return err
		}
	}

	data, err := h.service.Export(c.UserContext(), middleware.SessionID(c), format)
	if err != nil {
		return err
	}

	logger.Get().Debug("Serving export",
		zap.String("format", string(format)),
		zap.Int("bytes", len(data)))

	c.Attachment(format.Filename())
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(data)
}

// GetLevels godoc
// @Summary List academic levels
// @Tags notes
// @Produce json
// @Success 200 {array} dto.LevelResponse
// @Router /levels [get]
func (h *NotesHandler) GetLevels(c *fiber.Ctx) error {
	levels := domain.Levels()
	resp := make([]dto.LevelResponse, 0, len(levels))
	for _, l := range levels {
		resp = append(resp, dto.LevelResponse{Value: string(l), Label: l.Label()})
	}
	return c.JSON(resp)
}
