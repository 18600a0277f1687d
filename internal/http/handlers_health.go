package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/spf13/afero"
)

// DeploymentInfo is written to deploy-info.json by the deploy pipeline.
type DeploymentInfo struct {
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	Branch      string `json:"branch"`
	User        string `json:"user"`
	Package     string `json:"package"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string          `json:"status"`
	Service        string          `json:"service"`
	Timestamp      string          `json:"timestamp"`
	DeploymentInfo *DeploymentInfo `json:"deploymentInfo,omitempty"`
}

// HealthHandler answers readiness probes. It always returns 200, independent of
// locale redirects and authentication.
type HealthHandler struct {
	FS        afero.Fs
	PublicDir string
	Now       func() time.Time
	Logger    *slog.Logger
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	resp := HealthResponse{
		Status:    "healthy",
		Service:   "uploader",
		Timestamp: now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	if info, ok := h.deploymentInfo(); ok {
		resp.DeploymentInfo = info
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// deploymentInfo reads deploy-info.json; it is absent in local development.
func (h *HealthHandler) deploymentInfo() (*DeploymentInfo, bool) {
	if h.FS == nil {
		return nil, false
	}
	data, err := afero.ReadFile(h.FS, path.Join(h.PublicDir, "deploy-info.json"))
	if err != nil {
		return nil, false
	}
	var info DeploymentInfo
	if err := json.Unmarshal(data, &info); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("ignoring malformed deploy-info.json", "error", err)
		}
		return nil, false
	}
	return &info, true
}
