package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/leagues", handler.CreateLeague)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
}

func registerDraftRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/draft/state", RequireAuth(verifier, http.HandlerFunc(handler.GetDraftState)))
	mux.Handle("GET /v1/draft/upcoming", RequireAuth(verifier, http.HandlerFunc(handler.ListUpcomingPicks)))
	mux.Handle("POST /v1/draft/pick", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPick)))
	mux.Handle("POST /v1/draft/config", RequireAdmin(verifier, http.HandlerFunc(handler.UpdateDraftConfig)))
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/players/available", RequireAuth(verifier, http.HandlerFunc(handler.ListAvailablePlayers)))
	mux.Handle("GET /v1/players/drafted", RequireAuth(verifier, http.HandlerFunc(handler.ListDraftedPlayers)))
	mux.Handle("POST /v1/players/upload", RequireAdmin(verifier, http.HandlerFunc(handler.UploadPlayers)))
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyRoster)))
	mux.Handle("GET /v1/teams/by-name/{teamName}", RequireAuth(verifier, http.HandlerFunc(handler.GetRosterByName)))
	mux.Handle("GET /v1/teams", RequireAuth(verifier, http.HandlerFunc(handler.ListTeams)))
}
