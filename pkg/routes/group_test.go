package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Infernos444/insurely/pkg/routes"
)

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	handler := func(status int) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}
	}

	routes.Register(mux, routes.Group{
		Prefix: "/estimates",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: handler(http.StatusOK)},
			{Method: "POST", Pattern: "", Handler: handler(http.StatusCreated)},
			{Method: "GET", Pattern: "/{correlationId}", Handler: handler(http.StatusAccepted)},
		},
		Children: []routes.Group{
			{
				Prefix: "/{correlationId}",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/file", Handler: handler(http.StatusPartialContent)},
				},
			},
		},
	})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/estimates", http.StatusOK},
		{"POST", "/estimates", http.StatusCreated},
		{"GET", "/estimates/abc", http.StatusAccepted},
		{"GET", "/estimates/abc/file", http.StatusPartialContent},
		{"DELETE", "/estimates", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			mux.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.path, nil))
			if recorder.Code != tt.want {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, recorder.Code, tt.want)
			}
		})
	}
}
