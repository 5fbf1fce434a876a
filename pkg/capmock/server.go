package capmock

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avencia/stageline/pkg/graph"
)

// NewRouter serves both simulated service groups over HTTP, each mounted
// under its group name: POST /common/<op>, POST /atlas/<op>, plus a health
// endpoint per group.
func NewRouter() *mux.Router {
	r := mux.NewRouter()
	registerGroup(r, graph.GroupCommon, commonOps())
	registerGroup(r, graph.GroupAtlas, atlasOps())
	return r
}

func registerGroup(r *mux.Router, group string, ops map[string]opFunc) {
	sub := r.PathPrefix("/" + group).Subrouter()
	sub.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": group})
	}).Methods(http.MethodGet)
	sub.HandleFunc("/{operation}", handleOperation(group, ops)).Methods(http.MethodPost)
}

func handleOperation(group string, ops map[string]opFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		operation := mux.Vars(req)["operation"]

		var body map[string]any
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
			return
		}

		if fn, ok := ops[operation]; ok {
			writeJSON(w, http.StatusOK, fn(body))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "ability": operation, "server": group})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
