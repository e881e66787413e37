package handler

import "net/http"

// Health handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
// Mounted outside the auth middleware — load balancers carry no credentials.
func Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
