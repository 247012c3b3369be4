package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursestore-backend/internal/domains/catalog/model"
	"coursestore-backend/internal/domains/catalog/service"
	"coursestore-backend/internal/shared/response"
	"coursestore-backend/internal/shared/utils"
)

type AdminHandler struct {
	catalog    service.ServiceInterface
	curriculum service.CurriculumServiceInterface
}

func NewAdminHandler(catalog service.ServiceInterface, curriculum service.CurriculumServiceInterface) *AdminHandler {
	return &AdminHandler{catalog: catalog, curriculum: curriculum}
}

func idParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// -------------------------------------------------------------------
// COURSES
// -------------------------------------------------------------------

// ListCourses GET /api/v1/admin/courses
func (h *AdminHandler) ListCourses(c *gin.Context) {
	p := utils.NewPagination(c.Query("page"), c.Query("limit"))
	courses, total, err := h.catalog.ListAllCourses(c.Request.Context(), &model.CourseFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, courses, &response.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// CreateCourse POST /api/v1/admin/courses
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req model.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	course, err := h.catalog.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, course)
}

// UpdateCourse PATCH /api/v1/admin/courses/:id
func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	course, err := h.catalog.UpdateCourse(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// SetCoursePublished PATCH /api/v1/admin/courses/:id/publish
func (h *AdminHandler) SetCoursePublished(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.SetPublishedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.catalog.SetCoursePublished(c.Request.Context(), id, *req.Published); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "published": *req.Published})
}

// LinkCourse POST /api/v1/admin/courses/:id/stripe
func (h *AdminHandler) LinkCourse(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	course, err := h.catalog.LinkCourseToStripe(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// -------------------------------------------------------------------
// BUNDLES
// -------------------------------------------------------------------

// ListBundles GET /api/v1/admin/bundles
func (h *AdminHandler) ListBundles(c *gin.Context) {
	bundles, err := h.catalog.ListAllBundles(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bundles)
}

// CreateBundle POST /api/v1/admin/bundles
func (h *AdminHandler) CreateBundle(c *gin.Context) {
	var req model.CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	bundle, err := h.catalog.CreateBundle(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, bundle)
}

// UpdateBundle PATCH /api/v1/admin/bundles/:id
func (h *AdminHandler) UpdateBundle(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	bundle, err := h.catalog.UpdateBundle(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bundle)
}

// SetBundlePublished PATCH /api/v1/admin/bundles/:id/publish
func (h *AdminHandler) SetBundlePublished(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.SetPublishedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.catalog.SetBundlePublished(c.Request.Context(), id, *req.Published); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "published": *req.Published})
}

// LinkBundle POST /api/v1/admin/bundles/:id/stripe
func (h *AdminHandler) LinkBundle(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	bundle, err := h.catalog.LinkBundleToStripe(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bundle)
}

// -------------------------------------------------------------------
// CURRICULUM
// -------------------------------------------------------------------

// GetCurriculum GET /api/v1/admin/courses/:id/modules
func (h *AdminHandler) GetCurriculum(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	modules, lessons, err := h.curriculum.ListCourseCurriculum(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"modules": modules, "lessons": lessons})
}

// CreateModule POST /api/v1/admin/courses/:id/modules
func (h *AdminHandler) CreateModule(c *gin.Context) {
	courseID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	m, err := h.curriculum.CreateModule(c.Request.Context(), courseID, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

// UpdateModule PUT /api/v1/admin/modules/:id
func (h *AdminHandler) UpdateModule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	m, err := h.curriculum.UpdateModule(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// DeleteModule DELETE /api/v1/admin/modules/:id
func (h *AdminHandler) DeleteModule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.curriculum.DeleteModule(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateLesson POST /api/v1/admin/modules/:id/lessons
func (h *AdminHandler) CreateLesson(c *gin.Context) {
	moduleID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	lesson, err := h.curriculum.CreateLesson(c.Request.Context(), moduleID, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, lesson)
}

// UpdateLesson PUT /api/v1/admin/lessons/:id
func (h *AdminHandler) UpdateLesson(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	lesson, err := h.curriculum.UpdateLesson(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lesson)
}

// DeleteLesson DELETE /api/v1/admin/lessons/:id
func (h *AdminHandler) DeleteLesson(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.curriculum.DeleteLesson(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
