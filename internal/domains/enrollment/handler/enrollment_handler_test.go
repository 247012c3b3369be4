package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"coursestore-backend/internal/domains/enrollment/model"
	"coursestore-backend/internal/shared/middleware"
	"coursestore-backend/pkg/database"
)

type stubAccess struct {
	result model.AccessResult
	err    error
	calls  int
}

func (s *stubAccess) HasAccess(context.Context, uuid.UUID, uuid.UUID) (model.AccessResult, error) {
	s.calls++
	return s.result, s.err
}
func (s *stubAccess) CanAccess(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return s.result.HasAccess, s.err
}
func (s *stubAccess) Enroll(context.Context, database.Querier, uuid.UUID, uuid.UUID, model.Origin) (bool, error) {
	return false, s.err
}
func (s *stubAccess) Grant(context.Context, *model.GrantRequest) (*model.GrantResponse, error) {
	return nil, s.err
}
func (s *stubAccess) ListForUser(context.Context, uuid.UUID) ([]*model.EnrollmentView, error) {
	return nil, s.err
}
func (s *stubAccess) MarkCompleted(context.Context, uuid.UUID, uuid.UUID) error { return s.err }

func newRouter(svc *stubAccess, userID *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserID, *userID)
			c.Next()
		})
	}
	h := NewEnrollmentHandler(svc)
	r.GET("/me/access/:course_id", h.CheckAccess)
	r.GET("/me/enrollments", h.ListMine)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestCheckAccess_Anonymous(t *testing.T) {
	svc := &stubAccess{}
	w := get(newRouter(svc, nil), "/me/access/"+uuid.NewString())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, svc.calls)
}

func TestCheckAccess_NoEnrollment(t *testing.T) {
	uid := uuid.New()
	svc := &stubAccess{result: model.NoAccess}
	w := get(newRouter(svc, &uid), "/me/access/"+uuid.NewString())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_access":false`)
	assert.Contains(t, w.Body.String(), `"source":"none"`)
}

func TestCheckAccess_Enrolled(t *testing.T) {
	uid := uuid.New()
	svc := &stubAccess{result: model.AccessResult{HasAccess: true, Source: model.SourceEnrollment}}
	w := get(newRouter(svc, &uid), "/me/access/"+uuid.NewString())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"enrollment"`)
	assert.Equal(t, 1, svc.calls)
}

func TestCheckAccess_InvalidID(t *testing.T) {
	uid := uuid.New()
	w := get(newRouter(&stubAccess{}, &uid), "/me/access/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAccess_ServiceError(t *testing.T) {
	uid := uuid.New()
	w := get(newRouter(&stubAccess{err: errors.New("db down")}, &uid), "/me/access/"+uuid.NewString())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListMine(t *testing.T) {
	t.Run("requires auth", func(t *testing.T) {
		w := get(newRouter(&stubAccess{}, nil), "/me/enrollments")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		uid := uuid.New()
		w := get(newRouter(&stubAccess{}, &uid), "/me/enrollments")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})
}
