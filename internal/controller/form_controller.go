package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Formlet/internal/dto"
	"github.com/lshigami/Formlet/internal/middleware"
	"github.com/lshigami/Formlet/internal/service"
)

type FormController struct {
	formService   service.FormService
	editorService service.FormEditorService
	exportService service.ExportService
}

func NewFormController(formService service.FormService, editorService service.FormEditorService, exportService service.ExportService) *FormController {
	return &FormController{
		formService:   formService,
		editorService: editorService,
		exportService: exportService,
	}
}

// CreateForm godoc
// @Summary Create a new form with default content
// @Description Creates a form titled "Untitled form" with one radio question and one option, ready for editing.
// @Tags Forms
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.FormResponseDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /forms [post]
func (c *FormController) CreateForm(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	form, err := c.formService.CreateDefault(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, form)
}

// ListForms godoc
// @Summary List the caller's forms
// @Description Returns the caller's forms newest first, 10 per page, with response counts.
// @Tags Forms
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} dto.FormListDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /forms [get]
func (c *FormController) ListForms(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	forms, err := c.formService.ListForms(userID, pageQuery(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, forms)
}

// GetForm godoc
// @Summary Get a form with its questions, options and settings
// @Tags Forms
// @Produce json
// @Param form_id path int true "Form ID"
// @Success 200 {object} dto.FormResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /forms/{form_id} [get]
func (c *FormController) GetForm(ctx *gin.Context) {
	formID, ok := pathID(ctx, "form_id")
	if !ok {
		return
	}
	form, err := c.formService.GetForm(formID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, form)
}

// UpdateForm godoc
// @Summary Replace a form's definition
// @Description Reconciles the submitted questions and options against the stored form: items with ids are updated, items without ids are created, and stored items missing from the submission are deleted along with their answers.
// @Tags Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param form_id path int true "Form ID"
// @Param form body dto.FormUpdateDTO true "Full form definition"
// @Success 200 {object} dto.FormResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Validation failed or unknown question/option id"
// @Failure 403 {object} dto.ErrorResponse "Form belongs to another user"
// @Failure 404 {object} dto.ErrorResponse
// @Router /forms/{form_id} [put]
func (c *FormController) UpdateForm(ctx *gin.Context) {
	formID, ok := pathID(ctx, "form_id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)

	var req dto.FormUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	form, err := c.editorService.UpdateDefinition(formID, userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, form)
}

// DeleteForm godoc
// @Summary Delete a form and everything under it
// @Tags Forms
// @Produce json
// @Security BearerAuth
// @Param form_id path int true "Form ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse "Form belongs to another user"
// @Failure 404 {object} dto.ErrorResponse
// @Router /forms/{form_id} [delete]
func (c *FormController) DeleteForm(ctx *gin.Context) {
	formID, ok := pathID(ctx, "form_id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)
	if err := c.formService.DeleteForm(formID, userID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// UpdateSettings godoc
// @Summary Update a form's settings
// @Tags Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param form_id path int true "Form ID"
// @Param settings body dto.SettingsDTO true "Settings flags"
// @Success 200 {object} dto.SettingsResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Form belongs to another user"
// @Failure 404 {object} dto.ErrorResponse
// @Router /forms/{form_id}/settings [put]
func (c *FormController) UpdateSettings(ctx *gin.Context) {
	formID, ok := pathID(ctx, "form_id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)

	var req dto.SettingsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	settings, err := c.formService.UpdateSettings(formID, userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, settings)
}

// ExportResponses godoc
// @Summary Download a form's responses as CSV
// @Description Streams one row per response, newest first, with a User, Email, Timestamp header followed by the question texts.
// @Tags Forms
// @Produce text/csv
// @Security BearerAuth
// @Param form_id path int true "Form ID"
// @Success 200 {string} string "CSV document"
// @Failure 403 {object} dto.ErrorResponse "Form belongs to another user"
// @Failure 404 {object} dto.ErrorResponse
// @Router /forms/{form_id}/responses/download [get]
func (c *FormController) ExportResponses(ctx *gin.Context) {
	formID, ok := pathID(ctx, "form_id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)

	form, filename, err := c.exportService.PrepareExport(formID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := c.exportService.WriteCSV(form, ctx.Writer); err != nil {
		// Headers are already out; all we can do is drop the connection.
		ctx.Abort()
	}
}
