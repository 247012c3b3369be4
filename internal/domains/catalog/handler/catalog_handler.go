package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursestore-backend/internal/domains/catalog/service"
	"coursestore-backend/internal/shared/middleware"
	"coursestore-backend/internal/shared/response"
)

// CatalogHandler serves the public storefront.
type CatalogHandler struct {
	catalog    service.ServiceInterface
	curriculum service.CurriculumServiceInterface
}

func NewCatalogHandler(catalog service.ServiceInterface, curriculum service.CurriculumServiceInterface) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, curriculum: curriculum}
}

// ListCourses GET /api/v1/courses?category=
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, courses)
}

// GetCourse GET /api/v1/courses/:slug
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.catalog.GetCourseBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// GetCurriculum GET /api/v1/courses/:slug/curriculum
func (h *CatalogHandler) GetCurriculum(c *gin.Context) {
	curriculum, err := h.curriculum.GetCurriculum(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, curriculum)
}

// GetLesson GET /api/v1/courses/:slug/lessons/:lesson_id
func (h *CatalogHandler) GetLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		response.BadRequest(c, "Invalid lesson id")
		return
	}

	lesson, err := h.curriculum.GetLesson(c.Request.Context(), c.Param("slug"), lessonID, middleware.OptionalUserID(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lesson)
}

// ListBundles GET /api/v1/bundles
func (h *CatalogHandler) ListBundles(c *gin.Context) {
	bundles, err := h.catalog.ListBundles(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bundles)
}

// GetBundle GET /api/v1/bundles/:id
func (h *CatalogHandler) GetBundle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bundle id")
		return
	}

	bundle, err := h.catalog.GetBundle(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bundle)
}
