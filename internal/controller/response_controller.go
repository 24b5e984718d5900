package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Formlet/internal/dto"
	"github.com/lshigami/Formlet/internal/formdata"
	"github.com/lshigami/Formlet/internal/middleware"
	"github.com/lshigami/Formlet/internal/service"
)

type ResponseController struct {
	responseService service.ResponseService
}

func NewResponseController(responseService service.ResponseService) *ResponseController {
	return &ResponseController{responseService: responseService}
}

// SubmitResponse godoc
// @Summary Submit a response to a form
// @Description Accepts urlencoded form data with bracketed keys, e.g. answers[12]=text or answers[12][]=3&answers[12][]=5 for checkbox choices. Anonymous submissions are accepted unless the form requires authentication.
// @Tags Responses
// @Accept x-www-form-urlencoded
// @Produce json
// @Param form_id path int true "Form ID"
// @Success 201 {object} dto.ResponseDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed answers or missing required questions"
// @Failure 401 {object} dto.ErrorResponse "Form requires authentication"
// @Failure 403 {object} dto.ErrorResponse "Caller already responded"
// @Failure 404 {object} dto.ErrorResponse
// @Router /forms/{form_id}/responses [post]
func (c *ResponseController) SubmitResponse(ctx *gin.Context) {
	formID, ok := pathID(ctx, "form_id")
	if !ok {
		return
	}

	if err := ctx.Request.ParseForm(); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid form data", Details: []string{err.Error()}})
		return
	}
	answers, _ := formdata.Unflatten(ctx.Request.PostForm)["answers"].(map[string]any)
	if answers == nil {
		answers = map[string]any{}
	}

	var userID *uint
	if id, authed := middleware.CurrentUserID(ctx); authed {
		userID = &id
	}

	response, err := c.responseService.Submit(formID, answers, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, response)
}

// GetResponse godoc
// @Summary Get a single response with its answers
// @Description Visible to the form owner and, for authenticated submissions, the submitter.
// @Tags Responses
// @Produce json
// @Security BearerAuth
// @Param response_id path int true "Response ID"
// @Success 200 {object} dto.ResponseDetailDTO
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /responses/{response_id} [get]
func (c *ResponseController) GetResponse(ctx *gin.Context) {
	responseID, ok := pathID(ctx, "response_id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)

	response, err := c.responseService.GetResponse(responseID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// ListFormResponses godoc
// @Summary List a form's responses
// @Tags Responses
// @Produce json
// @Security BearerAuth
// @Param form_id path int true "Form ID"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} dto.ResponseListDTO
// @Failure 403 {object} dto.ErrorResponse "Form belongs to another user"
// @Failure 404 {object} dto.ErrorResponse
// @Router /forms/{form_id}/responses [get]
func (c *ResponseController) ListFormResponses(ctx *gin.Context) {
	formID, ok := pathID(ctx, "form_id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)

	responses, err := c.responseService.ListFormResponses(formID, userID, pageQuery(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, responses)
}

// ListMyResponses godoc
// @Summary List the caller's own submissions
// @Tags Responses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} dto.ResponseListDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /responses [get]
func (c *ResponseController) ListMyResponses(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	responses, err := c.responseService.ListUserResponses(userID, pageQuery(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, responses)
}

// DeleteResponse godoc
// @Summary Delete a response
// @Description Only the owner of the form the response belongs to may delete it.
// @Tags Responses
// @Produce json
// @Security BearerAuth
// @Param form_id path int true "Form ID"
// @Param response_id path int true "Response ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /forms/{form_id}/responses/{response_id} [delete]
func (c *ResponseController) DeleteResponse(ctx *gin.Context) {
	responseID, ok := pathID(ctx, "response_id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)

	if err := c.responseService.DeleteResponse(responseID, userID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
