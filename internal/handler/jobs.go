package handler

import (
	"net/http"

	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/logger"
	"github.com/anatole0000/book-store/internal/queue"
)

// HandleListFailedJobs exposes permanently failed jobs for operator
// inspection (admin)
func HandleListFailedJobs(svc queue.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromRequest(r)
		if !caller.Privileged {
			respondServiceError(w, domain.ErrForbidden, ErrMsgListFailedJobsFail)
			return
		}

		limit, err := parseIntParam(r, "limit", 50)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
			return
		}

		jobs, err := svc.ListFailed(r.Context(), limit)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list failed jobs", "error", err)
			respondServiceError(w, err, ErrMsgListFailedJobsFail)
			return
		}
		respondJSON(w, http.StatusOK, ListResponse{Data: jobs, Total: len(jobs)})
	}
}
