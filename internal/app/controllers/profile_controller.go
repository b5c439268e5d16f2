package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/middleware"
)

// ProfileController serves the caller's own profile
type ProfileController struct {
	profileService *services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService *services.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// GetProfile returns the caller's account and linked profile
// @Summary View own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.OwnProfile}
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	principal, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	profile, err := c.profileService.ViewOwnProfile(ctx.Request.Context(), principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, ""))
}

// SaveStudentProfile creates or updates the caller's student profile
// @Summary Save own student profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StudentProfileRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=models.OwnProfile}
// @Failure 403 {object} dto.ErrorResponse "Role mismatch or profile owned by someone else"
// @Failure 409 {object} dto.ErrorResponse "Account was linked concurrently"
// @Router /profile/student [put]
func (c *ProfileController) SaveStudentProfile(ctx *gin.Context) {
	var req dto.StudentProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.save(ctx, models.RoleStudent, req.ToPayload())
}

// SaveTeacherProfile creates or updates the caller's teacher profile
// @Summary Save own teacher profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TeacherProfileRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=models.OwnProfile}
// @Failure 403 {object} dto.ErrorResponse "Role mismatch or profile owned by someone else"
// @Failure 409 {object} dto.ErrorResponse "Account was linked concurrently"
// @Router /profile/teacher [put]
func (c *ProfileController) SaveTeacherProfile(ctx *gin.Context) {
	var req dto.TeacherProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.save(ctx, models.RoleTeacher, req.ToPayload())
}

func (c *ProfileController) save(ctx *gin.Context, kind models.ProfileKind, payload models.ProfilePayload) {
	principal, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	profile, err := c.profileService.SaveOwnProfile(ctx.Request.Context(), principal, kind, payload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, "Profile saved"))
}
