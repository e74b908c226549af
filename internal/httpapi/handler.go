// Package httpapi exposes the daemon's HTTP intake: activity dispatch,
// settings, and status. It is glue around the transport manager; all
// presence logic lives in the presencewire package.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/presencewire/presencewire-go/internal/configstore"
	"github.com/presencewire/presencewire-go/presencewire"
	"github.com/rs/zerolog"
)

type Handler struct {
	manager *presencewire.TransportManager
	store   *configstore.Store
	log     zerolog.Logger
}

func NewHandler(manager *presencewire.TransportManager, store *configstore.Store, log zerolog.Logger) *Handler {
	return &Handler{
		manager: manager,
		store:   store,
		log:     log,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) postActivity(w http.ResponseWriter, r *http.Request) {
	activity := presencewire.Activity{}
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid activity payload: " + err.Error()})
		return
	}
	h.dispatch(w, &activity)
}

func (h *Handler) postActivityTest(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, &presencewire.Activity{
		Details:        "Test activity",
		State:          "sent from presencewired",
		LargeImageKey:  "presencewire",
		StartTimestamp: time.Now().UnixMilli(),
	})
}

func (h *Handler) dispatch(w http.ResponseWriter, activity *presencewire.Activity) {
	if err := h.manager.Dispatch(activity); err != nil {
		status := http.StatusInternalServerError
		if presencewire.ErrCode(err) == presencewire.ErrCodeNotConnected {
			status = http.StatusConflict
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Load())
}

func (h *Handler) putSettings(w http.ResponseWriter, r *http.Request) {
	cfg := presencewire.Config{}
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid settings payload: " + err.Error()})
		return
	}
	h.store.Save(cfg)
	h.manager.Configure(cfg)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{State: h.manager.State().String()}
	if reason := h.manager.ErrorReason(); reason != nil {
		resp.Error = reason.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
