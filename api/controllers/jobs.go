package controllers

import (
	"net/http"

	"github.com/printforge/fulfillment-backend/api/responses"
	"github.com/printforge/fulfillment-backend/internal/jobs"
	"github.com/printforge/fulfillment-backend/pkg/logger"
)

// JobTransition applies the next status edge to a job on behalf of the
// authenticated staff member, without going through a scan token.
func JobTransition(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithJobID(ctx, jobID.String())
		}

		result, err := svc.ApplyStatusTransition(ctx, actor, jobID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func JobDetail(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithJobID(ctx, jobID.String())
		}

		job, err := svc.GetJob(ctx, jobID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}
