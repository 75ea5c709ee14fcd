package middleware

import (
	"inventory/config"
	"inventory/internal/apperrors"
	"inventory/internal/database"
	"inventory/internal/events"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

const UserHeader = "X-User-ID"

type Middleware struct {
	DB       database.DB
	EventBus *events.EventBus
	Config   config.Config
	userRepo repositories.UserRepository
	log      logger.Logger
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	userRepo repositories.UserRepository,
) Middleware {
	return Middleware{
		DB:       db,
		EventBus: eventBus,
		Config:   config,
		userRepo: userRepo,
		log:      logger.New("middleware"),
	}
}

// IdentifyUser resolves the caller named by the X-User-ID header and stores
// it in locals as "user" and "userID". Requests without the header pass
// through anonymously; an unknown id is rejected.
func (m Middleware) IdentifyUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.Function("IdentifyUser")

		userID := c.Get(UserHeader)
		if userID == "" {
			return c.Next()
		}

		user, err := m.userRepo.GetByID(c.Context(), userID)
		if apperrors.IsNotFound(err) {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "unknown user", "error": "unknown user"})
		}
		if err != nil {
			log.Er("failed to resolve user", err, "userID", userID)
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"message": "failed to resolve user"})
		}

		c.Locals("user", user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}

// RequireUser rejects requests IdentifyUser left anonymous.
func (m Middleware) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("user").(User); !ok {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "user required", "error": UserHeader + " header is required"})
		}
		return c.Next()
	}
}

// UserID returns the resolved caller id, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return ""
}
