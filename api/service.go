package api

import (
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"text2phenotype.com/seqtag/pipeline"
)

const maxBodySize = 10 << 20

type Service struct {
	Pipeline pipeline.Pipeline
	// Names of the configurations the pipeline runs.
	Configs []string

	requests uint64
}

func NewRouter(service *Service) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/tag", service.Tag).Methods(http.MethodPost)
	router.HandleFunc("/tag/{config}", service.Tag).Methods(http.MethodPost)
	router.HandleFunc("/health", service.Health).Methods(http.MethodGet)
	return router
}

// Tag runs the pipeline over the request body, restricted to the
// configuration named in the path when there is one.
func (service *Service) Tag(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	reqLogger := makeRequestLogger(r)

	request := pipeline.Request{
		Tid: fmt.Sprintf("api-%d", atomic.AddUint64(&service.requests, 1)),
	}
	if name, ok := mux.Vars(r)["config"]; ok {
		if !service.hasConfig(name) {
			reqLogger.Warn().Str("config_name", name).Int("status", http.StatusNotFound).Msg("Unknown configuration")
			http.Error(w, fmt.Sprintf("unknown configuration %q", name), http.StatusNotFound)
			return
		}
		request.Configs = []string{name}
	}

	msg, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		reqLogger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}
	request.Text = string(msg)

	reqLogger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	resp, ok := <-service.Pipeline(request)
	if !ok {
		reqLogger.Error().Str("tid", request.Tid).Int("status", http.StatusInternalServerError).Msg("Pipeline returned no response")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(resp))
	reqLogger.Info().Str("tid", request.Tid).Int("status", http.StatusOK).Msg("Finished processing request")
}

func (service *Service) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (service *Service) hasConfig(name string) bool {
	for _, cfg := range service.Configs {
		if cfg == name {
			return true
		}
	}
	return false
}
