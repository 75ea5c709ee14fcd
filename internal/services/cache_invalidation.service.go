package services

import (
	"context"
	"errors"
	"inventory/internal/database"
	"inventory/internal/events"
	"inventory/internal/logger"
)

const (
	SpecTemplateCachePattern    = "spec_template:%s"
	SpecTemplateListCacheKey    = "spec_templates:all"
	TechnicalOutputListCacheKey = "technical_outputs:active"
	TestTemplateListCacheKey    = "test_templates:all"
)

type CacheInvalidationService struct {
	catalog  database.CacheClient
	eventBus *events.EventBus
	log      logger.Logger
}

func NewCacheInvalidationService(
	catalog database.CacheClient,
	eventBus *events.EventBus,
) *CacheInvalidationService {
	return &CacheInvalidationService{
		catalog:  catalog,
		eventBus: eventBus,
		log:      logger.New("CacheInvalidationService"),
	}
}

// InvalidateCatalog drops the cached catalog keys and tells clients the
// catalog changed. Returns how many keys were deleted.
func (s *CacheInvalidationService) InvalidateCatalog(
	ctx context.Context,
	action string,
	keys ...string,
) (int, error) {
	log := s.log.Function("InvalidateCatalog")

	deleted := 0
	var errs []error
	for _, key := range keys {
		err := database.NewCacheBuilder(s.catalog, key).WithContext(ctx).Delete()
		switch {
		case errors.Is(err, database.ErrCacheUnavailable):
		case err != nil:
			errs = append(errs, err)
		default:
			deleted++
		}
	}

	if s.eventBus != nil {
		event := events.NewEvent(events.ChannelCatalog, action, "", map[string]any{"keys": keys})
		if err := s.eventBus.Publish(events.ChannelCatalog, event); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return deleted, log.Err("failed to invalidate catalog cache", err, "action", action)
	}
	return deleted, nil
}

func (s *CacheInvalidationService) InvalidateSpecTemplate(ctx context.Context, templateID string) (int, error) {
	return s.InvalidateCatalog(
		ctx,
		"spec_template_changed",
		database.NewCacheBuilder(nil, templateID).WithHashPattern(SpecTemplateCachePattern).Key(),
		SpecTemplateListCacheKey,
	)
}
