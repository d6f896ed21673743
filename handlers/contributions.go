package handlers

import (
	"fmt"

	"event-lists-go/middleware"
	"event-lists-go/models"
	"event-lists-go/services"

	"github.com/gofiber/fiber/v2"
)

type ContributionListHandler struct {
	listService        *services.ContributionListService
	configService      *services.ListConfigService
	spreadsheetService *services.SpreadsheetService
	exportService      *services.ExportService
}

func NewContributionListHandler(listService *services.ContributionListService, configService *services.ListConfigService, spreadsheetService *services.SpreadsheetService, exportService *services.ExportService) *ContributionListHandler {
	return &ContributionListHandler{
		listService:        listService,
		configService:      configService,
		spreadsheetService: spreadsheetService,
		exportService:      exportService,
	}
}

func requestUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return "", middleware.NewAuthorizationError("User not authenticated")
	}
	return userID, nil
}

// resolveConfig picks the effective configuration: a config token in the
// query string resolves its immutable snapshot, otherwise the user's stored
// configuration applies. A token minted for another context is rejected.
func (h *ContributionListHandler) resolveConfig(c *fiber.Ctx, eventID string, known services.KnownItems) (models.ListConfigData, error) {
	if token := c.Query("config"); token != "" {
		data, listCtx, err := h.configService.ResolveStaticToken(token)
		if err != nil {
			return models.ListConfigData{}, err
		}
		if listCtx.EventID != eventID || listCtx.ListType != models.ListTypeContribution {
			return models.ListConfigData{}, middleware.NewNotFoundError("Unknown static list link", token)
		}
		return services.ApplyConfigDefaults(data, known), nil
	}

	userID, err := requestUserID(c)
	if err != nil {
		return models.ListConfigData{}, err
	}
	return h.configService.GetConfig(userID, h.listService.Context(eventID), known)
}

// GetList renders the event's contribution list with the effective filters.
func (h *ContributionListHandler) GetList(c *fiber.Ctx) error {
	eventID := c.Params("eventId")

	known, err := h.listService.KnownItems(eventID)
	if err != nil {
		return err
	}
	data, err := h.resolveConfig(c, eventID, known)
	if err != nil {
		return err
	}

	result, err := h.listService.RenderList(eventID, data, known, c.Query("target"))
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(known.Items))
	for _, item := range known.Items {
		items = append(items, fiber.Map{
			"key":     item.Key,
			"title":   item.Title,
			"choices": item.ChoiceLabels(),
		})
	}

	return c.JSON(fiber.Map{
		"list":            result,
		"filter_items":    items,
		"visible_columns": services.DisplayColumns(data, known),
		"selected":        data.Items,
	})
}

// StoreConfig validates and persists the user's filter/column selection, then
// re-renders the list under the new configuration.
func (h *ContributionListHandler) StoreConfig(c *fiber.Ctx) error {
	eventID := c.Params("eventId")

	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var dto models.ListConfigDto
	if err := c.BodyParser(&dto); err != nil {
		return middleware.NewValidationError("Invalid request body", err.Error())
	}
	if err := dto.Validate(); err != nil {
		return middleware.NewValidationError(err.Error())
	}

	known, err := h.listService.KnownItems(eventID)
	if err != nil {
		return err
	}

	listCtx := h.listService.Context(eventID)
	if err := h.configService.StoreConfig(userID, listCtx, dto, known); err != nil {
		return err
	}

	data, err := h.configService.GetConfig(userID, listCtx, known)
	if err != nil {
		return err
	}
	result, err := h.listService.RenderList(eventID, data, known, c.Query("target"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"list": result})
}

// StaticURL mints a shareable link carrying a snapshot of the caller's
// current configuration.
func (h *ContributionListHandler) StaticURL(c *fiber.Ctx) error {
	eventID := c.Params("eventId")

	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	known, err := h.listService.KnownItems(eventID)
	if err != nil {
		return err
	}
	url, err := h.listService.GenerateStaticURL(userID, eventID, known)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"url": url})
}

// Export streams the filtered list in the requested tabular format.
func (h *ContributionListHandler) Export(c *fiber.Ctx) error {
	eventID := c.Params("eventId")
	format := c.Params("format")

	exporter, err := h.exportService.TableExporterFor(format)
	if err != nil {
		return err
	}

	known, err := h.listService.KnownItems(eventID)
	if err != nil {
		return err
	}
	data, err := h.resolveConfig(c, eventID, known)
	if err != nil {
		return err
	}
	contributions, err := h.listService.FilteredContributions(eventID, data, known)
	if err != nil {
		return err
	}

	headers, rows := h.spreadsheetService.GenerateContributionSpreadsheet(contributions)

	c.Set(fiber.HeaderContentType, exporter.ContentType())
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="contributions.%s"`, exporter.FileExtension()))
	if err := exporter.Write(c.Response().BodyWriter(), headers, rows); err != nil {
		return middleware.NewInternalServerError("Error generating export", err.Error())
	}
	middleware.RecordListExport(string(models.ListTypeContribution), format)
	return nil
}

// ExportPDF renders the filtered list as a PDF in the requested style.
func (h *ContributionListHandler) ExportPDF(c *fiber.Ctx) error {
	eventID := c.Params("eventId")

	var dto models.PDFExportDto
	if err := c.BodyParser(&dto); err != nil && err != fiber.ErrUnprocessableEntity {
		return middleware.NewValidationError("Invalid request body", err.Error())
	}
	if err := dto.Validate(); err != nil {
		return middleware.NewValidationError(err.Error())
	}

	known, err := h.listService.KnownItems(eventID)
	if err != nil {
		return err
	}
	data, err := h.resolveConfig(c, eventID, known)
	if err != nil {
		return err
	}
	contributions, err := h.listService.FilteredContributions(eventID, data, known)
	if err != nil {
		return err
	}

	headers, rows := h.spreadsheetService.GenerateContributionSpreadsheet(contributions)
	pdf, err := h.exportService.GeneratePDF("Contributions", headers, rows, models.PDFStyle(dto.Style))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="contributions.pdf"`)
	middleware.RecordListExport(string(models.ListTypeContribution), "pdf")
	return c.Send(pdf)
}
