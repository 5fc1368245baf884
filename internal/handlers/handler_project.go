package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/dto"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/buildledger/site_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// projectHandler handles HTTP requests related to projects and memberships.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
}

// newProjectHandler creates a new projectHandler.
func newProjectHandler(ps portssvc.ProjectSvcFacade) *projectHandler {
	return &projectHandler{projectService: ps}
}

// registerProjectRoutes registers routes related to projects and their
// members, and nests the ledger, budget and reporting routes under a
// specific project.
func registerProjectRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newProjectHandler(services.Project)

	projectsTopLevel := rg.Group("/projects")
	{
		projectsTopLevel.POST("", h.createProject)
		projectsTopLevel.GET("", h.listUserProjects)
	}

	projectSpecific := rg.Group("/projects/:project_id", requireProjectMember(services.ProjectAuth))
	{
		projectSpecific.GET("", h.getProject)
		projectSpecific.DELETE("", h.archiveProject)

		members := projectSpecific.Group("/members")
		{
			members.POST("", h.addMember)
			members.GET("", h.listMembers)
			members.DELETE("/:user_id", h.removeMember)
		}

		registerTransactionRoutes(projectSpecific, cfg, services.Transaction)
		registerBudgetRoutes(projectSpecific, cfg, services.Budget)
		registerReportingRoutes(projectSpecific, cfg, services.Reporting)
	}
}

// requireProjectMember gates every project-scoped route on a live membership
// of at least READONLY, so non-members cannot read another project's ledger,
// budgets or reports. Mutations still enforce their stricter roles in the
// service layer. Non-members get 404, hiding the project's existence.
func requireProjectMember(authorizer portssvc.ProjectAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		projectID := c.Param("project_id")
		if err := authorizer.AuthorizeMember(c.Request.Context(), userID, projectID, domain.RoleReadOnly); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			} else if errors.Is(err, apperrors.ErrForbidden) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			} else {
				middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to authorize project access",
					slog.String("error", err.Error()), slog.String("project_id", projectID))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authorize project access"})
			}
			return
		}

		c.Next()
	}
}

// createProject godoc
// @Summary Create a new project
// @Description Creates a new project and assigns the creator as owner.
// @Tags projects
// @Accept json
// @Produce json
// @Param project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create project"
// @Security BearerAuth
// @Router /projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("owner_user_id", ownerID))
	logger.Info("Received request to create project", slog.String("project_name", req.Name))

	project, err := h.projectService.CreateProject(c.Request.Context(), ownerID, req.Name, req.Address)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Owner user not found"})
			return
		}
		logger.Error("Failed to create project in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	logger.Info("Project created successfully", slog.String("project_id", project.ProjectID))
	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// listUserProjects godoc
// @Summary List projects for current user
// @Description Retrieves every project the authenticated user holds a live membership on, owned and shared alike.
// @Tags projects
// @Produce json
// @Success 200 {object} dto.ListProjectsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /projects [get]
func (h *projectHandler) listUserProjects(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	projects, err := h.projectService.ListProjectsForUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list projects from service", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projects"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListProjectsResponse(projects))
}

// getProject godoc
// @Summary Get a project by ID
// @Tags projects
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} map[string]string "Project not found"
// @Security BearerAuth
// @Router /projects/{project_id} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	project, err := h.projectService.GetProjectByID(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logger.Error("Failed to get project", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get project"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// archiveProject godoc
// @Summary Archive a project
// @Description Archives the project; its ledger remains readable but accepts no new entries.
// @Tags projects
// @Param project_id path string true "Project ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Forbidden (caller is not owner)"
// @Failure 404 {object} map[string]string "Project not found"
// @Security BearerAuth
// @Router /projects/{project_id} [delete]
func (h *projectHandler) archiveProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.projectService.ArchiveProject(c.Request.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only an owner can archive a project"})
		} else {
			logger.Error("Failed to archive project", slog.String("error", err.Error()), slog.String("project_id", projectID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive project"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// addMember godoc
// @Summary Add a user to a project
// @Description Adds a specified user to a project with a given role (requires owner permission).
// @Tags projects
// @Accept json
// @Produce json
// @Param project_id path string true "Project ID"
// @Param member body dto.AddMemberRequest true "User ID and role"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden (caller is not owner)"
// @Failure 404 {object} map[string]string "Project or user not found"
// @Security BearerAuth
// @Router /projects/{project_id}/members [post]
func (h *projectHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("acting_user_id", actingUserID), slog.String("project_id", projectID), slog.String("target_user_id", req.UserID))

	err := h.projectService.AddMember(c.Request.Context(), actingUserID, projectID, req.UserID, req.Role)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Add member failed: project or user not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Project or user not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("Add member failed: forbidden")
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to add member in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		}
		return
	}

	logger.Info("Member added successfully", slog.String("role", string(req.Role)))
	c.Status(http.StatusNoContent)
}

// listMembers godoc
// @Summary List a project's members
// @Tags projects
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {object} dto.ListMembersResponse
// @Security BearerAuth
// @Router /projects/{project_id}/members [get]
func (h *projectHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	members, err := h.projectService.ListMembers(c.Request.Context(), projectID)
	if err != nil {
		logger.Error("Failed to list members", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list members"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListMembersResponse(members))
}

// removeMember godoc
// @Summary Remove a user from a project
// @Description Revokes a membership (requires owner permission). The last owner cannot be removed.
// @Tags projects
// @Param project_id path string true "Project ID"
// @Param user_id path string true "User ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Forbidden (caller is not owner)"
// @Failure 404 {object} map[string]string "Project or membership not found"
// @Failure 409 {object} map[string]string "Cannot remove the last owner"
// @Security BearerAuth
// @Router /projects/{project_id}/members/{user_id} [delete]
func (h *projectHandler) removeMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")
	targetUserID := c.Param("user_id")

	actingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.projectService.RemoveMember(c.Request.Context(), actingUserID, projectID, targetUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project or membership not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot remove the last owner"})
		} else {
			logger.Error("Failed to remove member", slog.String("error", err.Error()), slog.String("project_id", projectID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
