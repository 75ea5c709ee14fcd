package handlers

import (
	"fmt"
	"inventory/internal/app"
	batchController "inventory/internal/controllers/batch"
	"inventory/internal/handlers/middleware"
	"inventory/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type BatchHandler struct {
	Handler
	controller *batchController.BatchController
}

func NewBatchHandler(app app.App, router fiber.Router) *BatchHandler {
	log := logger.New("handlers").File("batch_handler")
	return &BatchHandler{
		controller: app.BatchController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BatchHandler) Register() {
	batches := h.router.Group("/batches")
	batches.Get("/", h.listBatches)
	batches.Post("/", h.createBatch)
	batches.Post("/form", h.batchForm)
	batches.Get("/:id", h.getBatch)
	batches.Put("/:id", h.updateBatch)
	batches.Get("/:id/barcodes", h.listBarcodes)
	batches.Get("/:id/barcodes/export", h.exportBarcodes)
}

func (h *BatchHandler) batchForm(c *fiber.Ctx) error {
	log := h.log.Function("batchForm")

	data, err := formData(c)
	if err != nil {
		return respondError(c, log, "failed to parse form data", err)
	}

	form, err := h.controller.BuildForm(c.Context(), data, c.Query("batch_id"))
	if err != nil {
		return respondError(c, log, "failed to build batch form", err)
	}

	return c.JSON(fiber.Map{"message": "success", "form": form})
}

func (h *BatchHandler) createBatch(c *fiber.Ctx) error {
	log := h.log.Function("createBatch")

	data, err := formData(c)
	if err != nil {
		return respondError(c, log, "failed to parse batch request", err)
	}

	batch, err := h.controller.Create(c.Context(), middleware.UserID(c), data)
	if err != nil {
		return respondError(c, log, "failed to create batch", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "batch": batch})
}

func (h *BatchHandler) listBatches(c *fiber.Ctx) error {
	log := h.log.Function("listBatches")

	batches, err := h.controller.List(c.Context(), c.Query("sku_id"))
	if err != nil {
		return respondError(c, log, "failed to list batches", err)
	}

	return c.JSON(fiber.Map{"message": "success", "batches": batches})
}

func (h *BatchHandler) getBatch(c *fiber.Ctx) error {
	batch, err := h.controller.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log.Function("getBatch"), "batch not found", err)
	}

	return c.JSON(fiber.Map{"message": "success", "batch": batch})
}

func (h *BatchHandler) updateBatch(c *fiber.Ctx) error {
	log := h.log.Function("updateBatch")

	data, err := formData(c)
	if err != nil {
		return respondError(c, log, "failed to parse batch request", err)
	}

	batch, err := h.controller.Update(c.Context(), middleware.UserID(c), c.Params("id"), data)
	if err != nil {
		return respondError(c, log, "failed to update batch", err)
	}

	return c.JSON(fiber.Map{"message": "success", "batch": batch})
}

func (h *BatchHandler) listBarcodes(c *fiber.Ctx) error {
	barcodes, err := h.controller.Barcodes(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log.Function("listBarcodes"), "failed to list barcodes", err)
	}

	return c.JSON(fiber.Map{"message": "success", "barcodes": barcodes})
}

func (h *BatchHandler) exportBarcodes(c *fiber.Ctx) error {
	log := h.log.Function("exportBarcodes")

	file, err := h.controller.Export(c.Context(), c.Params("id"), c.Query("format"), c.Query("barcode_id"))
	if err != nil {
		return respondError(c, log, "failed to export barcodes", err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Send(file.Data)
}
