package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/service"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// DocumentsHandler handles file attachments on tasks.
type DocumentsHandler struct {
	documents *service.DocumentService
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(documents *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documents: documents}
}

// Attach handles POST /documents/:taskId/attach with a multipart "file" part.
func (h *DocumentsHandler) Attach(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("invalid upload", "No file uploaded.")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.MapError(err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return apperrors.MapError(err)
	}

	document, err := h.documents.Attach(c.Context(), principal.User, c.Params("taskId"), fileHeader.Filename, content)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":        document.ID,
			"file_name": document.FileName,
			"task_id":   document.TaskID,
		},
	})
}

// Get handles GET /documents/:id and streams the stored bytes back.
func (h *DocumentsHandler) Get(c *fiber.Ctx) error {
	document, err := h.documents.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+document.FileName+`"`)
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(document.Content)
}
