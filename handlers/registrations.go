package handlers

import (
	"fmt"

	"event-lists-go/middleware"
	"event-lists-go/models"
	"event-lists-go/services"

	"github.com/gofiber/fiber/v2"
)

type RegistrationListHandler struct {
	listService        *services.RegistrationListService
	configService      *services.ListConfigService
	spreadsheetService *services.SpreadsheetService
	exportService      *services.ExportService
	pendingIdentities  *services.PendingIdentityService
}

func NewRegistrationListHandler(listService *services.RegistrationListService, configService *services.ListConfigService, spreadsheetService *services.SpreadsheetService, exportService *services.ExportService, pendingIdentities *services.PendingIdentityService) *RegistrationListHandler {
	return &RegistrationListHandler{
		listService:        listService,
		configService:      configService,
		spreadsheetService: spreadsheetService,
		exportService:      exportService,
		pendingIdentities:  pendingIdentities,
	}
}

func (h *RegistrationListHandler) resolveConfig(c *fiber.Ctx, regform *models.RegistrationForm, known services.KnownItems) (models.ListConfigData, error) {
	if token := c.Query("config"); token != "" {
		data, listCtx, err := h.configService.ResolveStaticToken(token)
		if err != nil {
			return models.ListConfigData{}, err
		}
		if listCtx.EventID != regform.EventID || listCtx.ListType != models.ListTypeRegistration || listCtx.RegformID != regform.ID {
			return models.ListConfigData{}, middleware.NewNotFoundError("Unknown static list link", token)
		}
		return services.ApplyConfigDefaults(data, known), nil
	}

	userID, err := requestUserID(c)
	if err != nil {
		return models.ListConfigData{}, err
	}
	return h.configService.GetConfig(userID, h.listService.Context(regform.EventID, regform.ID), known)
}

// GetList renders the form's registration list with the effective filters.
func (h *RegistrationListHandler) GetList(c *fiber.Ctx) error {
	regform, err := h.listService.Regform(c.Params("eventId"), c.Params("regformId"))
	if err != nil {
		return err
	}

	known := h.listService.KnownItems(regform)
	data, err := h.resolveConfig(c, regform, known)
	if err != nil {
		return err
	}

	result, err := h.listService.RenderList(regform, data, known, c.Query("target"))
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
func (h *RegistrationListHandler) StoreConfig(c *fiber.Ctx) error {
	regform, err := h.listService.Regform(c.Params("eventId"), c.Params("regformId"))
	if err != nil {
		return err
	}

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

	known := h.listService.KnownItems(regform)
	listCtx := h.listService.Context(regform.EventID, regform.ID)
	if err := h.configService.StoreConfig(userID, listCtx, dto, known); err != nil {
		return err
	}

	data, err := h.configService.GetConfig(userID, listCtx, known)
	if err != nil {
		return err
	}
	result, err := h.listService.RenderList(regform, data, known, c.Query("target"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"list": result})
}

// StaticURL mints a shareable link carrying a snapshot of the caller's
// current configuration.
func (h *RegistrationListHandler) StaticURL(c *fiber.Ctx) error {
	regform, err := h.listService.Regform(c.Params("eventId"), c.Params("regformId"))
	if err != nil {
		return err
	}
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	known := h.listService.KnownItems(regform)
	url, err := h.listService.GenerateStaticURL(userID, regform, known)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"url": url})
}

// Export streams the filtered list in the requested tabular format with the
// selected static columns and custom fields.
func (h *RegistrationListHandler) Export(c *fiber.Ctx) error {
	format := c.Params("format")
	exporter, err := h.exportService.TableExporterFor(format)
	if err != nil {
		return err
	}

	regform, err := h.listService.Regform(c.Params("eventId"), c.Params("regformId"))
	if err != nil {
		return err
	}
	known := h.listService.KnownItems(regform)
	data, err := h.resolveConfig(c, regform, known)
	if err != nil {
		return err
	}
	registrations, err := h.listService.FilteredRegistrations(regform, data, known)
	if err != nil {
		return err
	}

	staticColumns, fieldIDs := h.listService.GetListExportConfig(regform, data)
	headers, rows := h.spreadsheetService.GenerateRegistrationSpreadsheet(
		registrations, staticColumns, fieldIDs, fieldsByID(regform))

	c.Set(fiber.HeaderContentType, exporter.ContentType())
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="registrations.%s"`, exporter.FileExtension()))
	if err := exporter.Write(c.Response().BodyWriter(), headers, rows); err != nil {
		return middleware.NewInternalServerError("Error generating export", err.Error())
	}
	middleware.RecordListExport(string(models.ListTypeRegistration), format)
	return nil
}

// ExportPDF renders the filtered list as a PDF in the requested style.
func (h *RegistrationListHandler) ExportPDF(c *fiber.Ctx) error {
	var dto models.PDFExportDto
	if err := c.BodyParser(&dto); err != nil && err != fiber.ErrUnprocessableEntity {
		return middleware.NewValidationError("Invalid request body", err.Error())
	}
	if err := dto.Validate(); err != nil {
		return middleware.NewValidationError(err.Error())
	}

	regform, err := h.listService.Regform(c.Params("eventId"), c.Params("regformId"))
	if err != nil {
		return err
	}
	known := h.listService.KnownItems(regform)
	data, err := h.resolveConfig(c, regform, known)
	if err != nil {
		return err
	}
	registrations, err := h.listService.FilteredRegistrations(regform, data, known)
	if err != nil {
		return err
	}

	staticColumns, fieldIDs := h.listService.GetListExportConfig(regform, data)
	headers, rows := h.spreadsheetService.GenerateRegistrationSpreadsheet(
		registrations, staticColumns, fieldIDs, fieldsByID(regform))
	pdf, err := h.exportService.GeneratePDF(regform.Title, headers, rows, models.PDFStyle(dto.Style))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="registrations.pdf"`)
	middleware.RecordListExport(string(models.ListTypeRegistration), "pdf")
	return c.Send(pdf)
}

// ExportAttachments bundles the uploaded files of the filtered registrations
// into a zip archive. Files missing from storage are skipped.
func (h *RegistrationListHandler) ExportAttachments(c *fiber.Ctx) error {
	regform, err := h.listService.Regform(c.Params("eventId"), c.Params("regformId"))
	if err != nil {
		return err
	}
	known := h.listService.KnownItems(regform)
	data, err := h.resolveConfig(c, regform, known)
	if err != nil {
		return err
	}
	registrations, err := h.listService.FilteredRegistrations(regform, data, known)
	if err != nil {
		return err
	}

	archive, err := h.exportService.GenerateAttachmentsZip(regform, registrations)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="attachments.zip"`)
	middleware.RecordListExport(string(models.ListTypeRegistration), "zip")
	return c.Send(archive)
}

// GetSchema returns the form's render schema: the static personal-data fields
// followed by the form's custom field definitions.
func (h *RegistrationListHandler) GetSchema(c *fiber.Ctx) error {
	regform, err := h.listService.Regform(c.Params("eventId"), c.Params("regformId"))
	if err != nil {
		return err
	}
	schema := services.AssembleSchema(services.BaseRegistrationSchema(), regform.Fields)
	return c.JSON(schema)
}

// GetPrefill returns cached prefill values for an invited registrant.
func (h *RegistrationListHandler) GetPrefill(c *fiber.Ctx) error {
	values, err := h.pendingIdentities.Get(c.Context(), c.Params("identityId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"values": values})
}

// StorePrefill caches prefill values for an invited registrant.
func (h *RegistrationListHandler) StorePrefill(c *fiber.Ctx) error {
	var body struct {
		Values map[string]string `json:"values"`
	}
	if err := c.BodyParser(&body); err != nil {
		return middleware.NewValidationError("Invalid request body", err.Error())
	}
	if err := h.pendingIdentities.Store(c.Context(), c.Params("identityId"), body.Values); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func fieldsByID(regform *models.RegistrationForm) map[string]models.RegistrationFormField {
	fields := make(map[string]models.RegistrationFormField, len(regform.Fields))
	for _, field := range regform.Fields {
		fields[field.ID] = field
	}
	return fields
}
