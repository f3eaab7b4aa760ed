package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerRequestRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/requests", RequireAuth(verifier, http.HandlerFunc(handler.CreateRequest)))
	mux.Handle("GET /v1/requests", RequireAuth(verifier, http.HandlerFunc(handler.ListMyRequests)))
	mux.Handle("GET /v1/requests/{requestID}", RequireAuth(verifier, http.HandlerFunc(handler.GetRequest)))
	mux.Handle("POST /v1/requests/{requestID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelRequest)))
	mux.Handle("POST /v1/requests/{requestID}/assign", RequireAuth(verifier, http.HandlerFunc(handler.AssignRequest)))
	mux.Handle("POST /v1/requests/{requestID}/complete", RequireAuth(verifier, http.HandlerFunc(handler.CompleteRequest)))
}

func registerPointsRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/points/summary", RequireAuth(verifier, http.HandlerFunc(handler.GetMyPointsSummary)))
	mux.Handle("POST /v1/points/estimate", RequireAuth(verifier, http.HandlerFunc(handler.EstimatePoints)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireAdmin(h))
	}

	mux.Handle("GET /v1/admin/schedules", admin(handler.ListSchedules))
	mux.Handle("PUT /v1/admin/schedules", admin(handler.PutSchedule))
	mux.Handle("GET /v1/admin/points-configs", admin(handler.ListPointsConfigs))
	mux.Handle("POST /v1/admin/points-configs", admin(handler.CreatePointsConfig))
	mux.Handle("POST /v1/admin/points-configs/{configID}/activate", admin(handler.ActivatePointsConfig))
	mux.Handle("DELETE /v1/admin/points-configs/{configID}", admin(handler.DeletePointsConfig))
	mux.Handle("POST /v1/admin/points/bonus", admin(handler.GrantBonus))
	mux.Handle("POST /v1/admin/points/penalty", admin(handler.ApplyPenalty))
	mux.Handle("GET /v1/admin/events", admin(handler.ListEvents))
}
