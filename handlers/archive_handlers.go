package handlers

import (
	"errors"
	"fmt"
	"strings"

	"content-archives/archives"
	"content-archives/render"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// ArchiveHandler serves the archive listing pages.
type ArchiveHandler struct {
	svc     *archives.Service
	chooser render.TemplateChooser
	log     *zap.Logger
}

// NewArchiveHandler returns a handler rendering listings from svc with the
// templates picked by chooser.
func NewArchiveHandler(svc *archives.Service, chooser render.TemplateChooser, log *zap.Logger) *ArchiveHandler {
	return &ArchiveHandler{svc: svc, chooser: chooser, log: log}
}

// ArchiveList renders the records of a content type published in a period.
// Bad input is answered with a plain message, not an error status.
func (h *ArchiveHandler) ArchiveList(c *fiber.Ctx) error {
	contentType := c.Params("contenttype")
	period := c.Params("period")
	locale := requestLocale(c.Get(fiber.HeaderAcceptLanguage), h.svc.Locale())

	listing, err := h.svc.Listing(c.UserContext(), contentType, period, locale)
	switch {
	case errors.Is(err, archives.ErrInvalidPeriod):
		countListing(outcomeInvalidPeriod)
		return c.SendString(archives.MsgWrongPeriod)
	case errors.Is(err, archives.ErrUnknownContentType):
		countListing(outcomeUnknownContentType)
		return c.SendString(archives.MsgInvalidContentType)
	case errors.Is(err, archives.ErrViewless):
		countListing(outcomeViewless)
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Page %s not found.", contentType))
	case err != nil:
		countListing(outcomeError)
		h.log.Error("Failed to build archive listing",
			zap.String("contenttype", contentType),
			zap.String("period", period),
			zap.Error(err))
		return err
	}

	template := h.chooser.Listing(listing.ContentType)
	if err := c.Render(template, fiber.Map(listing.Context())); err != nil {
		countListing(outcomeError)
		h.log.Error("Failed to render archive listing",
			zap.String("template", template),
			zap.String("contenttype", listing.ContentType.Slug),
			zap.Error(err))
		return err
	}
	countListing(outcomeOK)
	return nil
}

// requestLocale picks the first Accept-Language entry with known month
// names. A bare language that matches the fallback keeps the fallback's region.
func requestLocale(header string, fallback archives.Locale) archives.Locale {
	if header == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return fallback
	}
	for _, tag := range tags {
		base, conf := tag.Base()
		if conf == language.No {
			continue
		}
		if _, rc := tag.Region(); rc != language.Exact && strings.HasPrefix(string(fallback), base.String()+"_") {
			return fallback
		}
		if l, err := archives.ParseLocale(tag.String()); err == nil {
			return l
		}
	}
	return fallback
}

// Welcome describes the service on the root path.
func Welcome(prefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString(fmt.Sprintf("Content archives are served at /%s/{contenttype}/{period}.", prefix))
	}
}

// SetupRoutes configures the archive routes for the application
func SetupRoutes(app *fiber.App, h *ArchiveHandler) {
	prefix := h.svc.Prefix()

	app.Get("/", Welcome(prefix))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	archiveRoutes := app.Group("/" + prefix)
	archiveRoutes.Get("/:contenttype/:period", h.ArchiveList).Name("archiveList")
}
