package handlers

import (
	"inventory/internal/app"
	testController "inventory/internal/controllers/test"
	"inventory/internal/handlers/middleware"
	"inventory/internal/logger"
	. "inventory/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TestHandler struct {
	Handler
	controller *testController.TestController
}

func NewTestHandler(app app.App, router fiber.Router) *TestHandler {
	log := logger.New("handlers").File("test_handler")
	return &TestHandler{
		controller: app.TestController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TestHandler) Register() {
	tests := h.router.Group("/tests")
	tests.Post("/form", h.testForm)
	tests.Post("/", h.middleware.RequireUser(), h.createTest)
	tests.Get("/:id", h.getTest)
	tests.Patch("/:id/status", h.middleware.RequireUser(), h.updateStatus)
}

func (h *TestHandler) testForm(c *fiber.Ctx) error {
	log := h.log.Function("testForm")

	data, err := formData(c)
	if err != nil {
		return respondError(c, log, "failed to parse form data", err)
	}

	form, err := h.controller.BuildForm(c.Context(), data)
	if err != nil {
		return respondError(c, log, "failed to build test form", err)
	}

	return c.JSON(fiber.Map{"message": "success", "form": form})
}

func (h *TestHandler) createTest(c *fiber.Ctx) error {
	log := h.log.Function("createTest")

	data, err := formData(c)
	if err != nil {
		return respondError(c, log, "failed to parse test request", err)
	}

	test, err := h.controller.Create(c.Context(), middleware.UserID(c), data)
	if err != nil {
		return respondError(c, log, "failed to record test", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "test": test})
}

func (h *TestHandler) getTest(c *fiber.Ctx) error {
	test, err := h.controller.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log.Function("getTest"), "test not found", err)
	}

	return c.JSON(fiber.Map{"message": "success", "test": test})
}

func (h *TestHandler) updateStatus(c *fiber.Ctx) error {
	log := h.log.Function("updateStatus")

	var request UpdateTestStatusRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse status request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse status request"})
	}

	test, err := h.controller.UpdateStatus(c.Context(), middleware.UserID(c), c.Params("id"), request.OverallStatus)
	if err != nil {
		return respondError(c, log, "failed to update test status", err)
	}

	return c.JSON(fiber.Map{"message": "success", "test": test})
}
