package api

import "net/http"

// Health is an unauthenticated liveness check.
func (api *API) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: api.now().UTC(),
	})
}

func (api *API) Ping(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "pong"})
}
