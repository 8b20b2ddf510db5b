package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"mediatrace/pkg/controller"
)

func TestPprofMux(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{path: "/debug/pprof/", want: http.StatusOK},
		{path: "/debug/pprof/cmdline", want: http.StatusOK},
		{path: "/elsewhere", want: http.StatusNotFound},
	}

	mux := controller.PprofMux()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.want, rec.Code)
		})
	}
}
