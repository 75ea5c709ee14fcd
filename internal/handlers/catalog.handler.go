package handlers

import (
	"inventory/internal/app"
	catalogController "inventory/internal/controllers/catalog"
	"inventory/internal/logger"
	. "inventory/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Handler
	controller *catalogController.CatalogController
}

func NewCatalogHandler(app app.App, router fiber.Router) *CatalogHandler {
	log := logger.New("handlers").File("catalog_handler")
	return &CatalogHandler{
		controller: app.CatalogController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CatalogHandler) Register() {
	skus := h.router.Group("/skus")
	skus.Get("/", h.listSKUs)
	skus.Post("/", h.middleware.RequireUser(), h.createSKU)

	h.router.Get("/spec-fields", h.specFields)

	specTemplates := h.router.Group("/spec-templates")
	specTemplates.Get("/", h.listSpecTemplates)
	specTemplates.Post("/", h.middleware.RequireUser(), h.createSpecTemplate)

	outputs := h.router.Group("/technical-outputs")
	outputs.Get("/", h.listTechnicalOutputs)
	outputs.Post("/", h.middleware.RequireUser(), h.createTechnicalOutput)

	testTemplates := h.router.Group("/test-templates")
	testTemplates.Get("/", h.listTestTemplates)
	testTemplates.Post("/", h.middleware.RequireUser(), h.createTestTemplate)
}

func (h *CatalogHandler) listSKUs(c *fiber.Ctx) error {
	skus, err := h.controller.ListSKUs(c.Context())
	if err != nil {
		return respondError(c, h.log.Function("listSKUs"), "failed to list skus", err)
	}
	return c.JSON(fiber.Map{"message": "success", "skus": skus})
}

func (h *CatalogHandler) createSKU(c *fiber.Ctx) error {
	log := h.log.Function("createSKU")

	var request CreateSKURequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse sku request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse sku request"})
	}

	sku, err := h.controller.CreateSKU(c.Context(), request)
	if err != nil {
		return respondError(c, log, "failed to create sku", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "sku": sku})
}

func (h *CatalogHandler) specFields(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success", "fields": h.controller.SpecFields()})
}

func (h *CatalogHandler) listSpecTemplates(c *fiber.Ctx) error {
	templates, err := h.controller.ListSpecTemplates(c.Context())
	if err != nil {
		return respondError(c, h.log.Function("listSpecTemplates"), "failed to list spec templates", err)
	}
	return c.JSON(fiber.Map{"message": "success", "specTemplates": templates})
}

func (h *CatalogHandler) createSpecTemplate(c *fiber.Ctx) error {
	log := h.log.Function("createSpecTemplate")

	var request CreateSpecTemplateRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse spec template request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse spec template request"})
	}

	template, err := h.controller.CreateSpecTemplate(c.Context(), request)
	if err != nil {
		return respondError(c, log, "failed to create spec template", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "specTemplate": template})
}

func (h *CatalogHandler) listTechnicalOutputs(c *fiber.Ctx) error {
	outputs, err := h.controller.ListTechnicalOutputs(c.Context())
	if err != nil {
		return respondError(c, h.log.Function("listTechnicalOutputs"), "failed to list technical outputs", err)
	}
	return c.JSON(fiber.Map{"message": "success", "technicalOutputs": outputs})
}

func (h *CatalogHandler) createTechnicalOutput(c *fiber.Ctx) error {
	log := h.log.Function("createTechnicalOutput")

	var request CreateTechnicalOutputRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse technical output request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse technical output request"})
	}

	output, err := h.controller.CreateTechnicalOutput(c.Context(), request)
	if err != nil {
		return respondError(c, log, "failed to create technical output", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "technicalOutput": output})
}

func (h *CatalogHandler) listTestTemplates(c *fiber.Ctx) error {
	templates, err := h.controller.ListTestTemplates(c.Context())
	if err != nil {
		return respondError(c, h.log.Function("listTestTemplates"), "failed to list test templates", err)
	}
	return c.JSON(fiber.Map{"message": "success", "testTemplates": templates})
}

func (h *CatalogHandler) createTestTemplate(c *fiber.Ctx) error {
	log := h.log.Function("createTestTemplate")

	var request CreateTestTemplateRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse test template request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse test template request"})
	}

	template, err := h.controller.CreateTestTemplate(c.Context(), request)
	if err != nil {
		return respondError(c, log, "failed to create test template", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "testTemplate": template})
}
