package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anatole0000/book-store/internal/domain"
)

func TestHandleListFailedJobs(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := HandleListFailedJobs(&mockJobService{
			listFailedFn: func(ctx context.Context, limit int) ([]domain.Job, error) {
				assert.Equal(t, 50, limit)
				return []domain.Job{{Queue: domain.QueueEmail, Kind: domain.JobKindOrderConfirmation, Status: domain.JobStatusFailed}}, nil
			},
		})

		req := asPrivileged(httptest.NewRequest("GET", "/admin/jobs/failed", nil))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":1`)
		assert.Contains(t, w.Body.String(), string(domain.JobStatusFailed))
	})

	t.Run("Custom Limit", func(t *testing.T) {
		handler := HandleListFailedJobs(&mockJobService{
			listFailedFn: func(ctx context.Context, limit int) ([]domain.Job, error) {
				assert.Equal(t, 10, limit)
				return nil, nil
			},
		})

		req := asPrivileged(httptest.NewRequest("GET", "/admin/jobs/failed?limit=10", nil))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid Limit", func(t *testing.T) {
		handler := HandleListFailedJobs(&mockJobService{})

		req := asPrivileged(httptest.NewRequest("GET", "/admin/jobs/failed?limit=many", nil))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidLimit)
	})

	t.Run("Unprivileged", func(t *testing.T) {
		handler := HandleListFailedJobs(&mockJobService{})

		req := asUser(httptest.NewRequest("GET", "/admin/jobs/failed", nil), "reader-1")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgForbiddenHTTP)
	})

	t.Run("Service Error", func(t *testing.T) {
		handler := HandleListFailedJobs(&mockJobService{
			listFailedFn: func(ctx context.Context, limit int) ([]domain.Job, error) {
				return nil, errors.New("query failed")
			},
		})

		req := asPrivileged(httptest.NewRequest("GET", "/admin/jobs/failed", nil))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgListFailedJobsFail)
	})
}
