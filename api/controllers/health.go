package controllers

import (
	"net/http"

	"github.com/rahulvarma/shopsphere-backend/api/responses"
	"github.com/rahulvarma/shopsphere-backend/pkg/db"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
	"github.com/rahulvarma/shopsphere-backend/pkg/logger"
	"github.com/rahulvarma/shopsphere-backend/pkg/redis"
)

// Health reports process liveness.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Ready reports readiness by pinging the datastores.
func Ready(database db.Pinger, cache redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
