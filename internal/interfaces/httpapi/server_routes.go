package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/dashboard", handler.GetDashboard)
	mux.HandleFunc("GET /v1/teams/{teamID}/matches", handler.ListTeamMatches)
}

func registerAuthorizedMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("POST /v1/matches/{matchID}/invite-response", RequireAuth(verifier, http.HandlerFunc(handler.RespondToInvite)))
	mux.Handle("POST /v1/matches/{matchID}/start", RequireAuth(verifier, http.HandlerFunc(handler.StartMatch)))
	mux.Handle("PATCH /v1/matches/{matchID}/finish", RequireAuth(verifier, http.HandlerFunc(handler.FinishMatch)))
	mux.Handle("POST /v1/matches/{matchID}/events", RequireAuth(verifier, http.HandlerFunc(handler.RecordEvent)))
}

func registerAuthorizedRosterRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	authed := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(cfg.Verifier, h)
	}
	// Manual side assignment is limited to assignment managers.
	managed := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(cfg.Verifier, RequireRole(cfg.Users, cfg.ManagerRoles, h))
	}

	mux.Handle("GET /v1/matches/{matchID}/roster", authed(handler.ListRoster))
	mux.Handle("POST /v1/matches/{matchID}/roster", authed(handler.AddRosterPlayer))
	mux.Handle("PATCH /v1/matches/{matchID}/roster", authed(handler.UpdateMyAttendance))
	mux.Handle("POST /v1/matches/{matchID}/roster/distribute", authed(handler.DistributeRoster))
	mux.Handle("POST /v1/matches/{matchID}/roster/sync-teams", authed(handler.SyncRosterFromTeams))
	mux.Handle("DELETE /v1/matches/{matchID}/roster/assignments", authed(handler.ClearRosterAssignments))
	mux.Handle("PUT /v1/matches/{matchID}/roster/assignments", managed(handler.AssignRosterManually))
	mux.Handle("PATCH /v1/matches/{matchID}/roster/{userID}/assign", managed(handler.AssignRosterPlayer))
}
