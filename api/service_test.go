package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"text2phenotype.com/seqtag/pipeline"
)

func echoPipeline(requests *[]pipeline.Request) pipeline.Pipeline {
	return func(request pipeline.Request) <-chan string {
		*requests = append(*requests, request)
		ch := make(chan string, 1)
		ch <- `{"configs":"` + strings.Join(request.Configs, ",") + `"}`
		close(ch)
		return ch
	}
}

func do(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestTag(t *testing.T) {
	var requests []pipeline.Request
	router := NewRouter(&Service{Pipeline: echoPipeline(&requests), Configs: []string{"a", "b"}})

	rec := do(t, router, http.MethodPost, "/tag", "The dog runs.")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"configs":""}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/tag/b", "The dog runs.")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"configs":"b"}`, rec.Body.String())

	require.Len(t, requests, 2)
	require.Equal(t, "The dog runs.", requests[0].Text)
	require.NotEqual(t, requests[0].Tid, requests[1].Tid)
}

func TestTagUnknownConfiguration(t *testing.T) {
	var requests []pipeline.Request
	router := NewRouter(&Service{Pipeline: echoPipeline(&requests), Configs: []string{"a"}})

	rec := do(t, router, http.MethodPost, "/tag/missing", "text")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, requests)
}

func TestTagMethodNotAllowed(t *testing.T) {
	var requests []pipeline.Request
	router := NewRouter(&Service{Pipeline: echoPipeline(&requests)})

	rec := do(t, router, http.MethodGet, "/tag", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTagPipelineWithoutResponse(t *testing.T) {
	router := NewRouter(&Service{Pipeline: func(pipeline.Request) <-chan string {
		ch := make(chan string)
		close(ch)
		return ch
	}})

	rec := do(t, router, http.MethodPost, "/tag", "text")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := do(t, NewRouter(&Service{}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"ok"}`, string(body))
}
