package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankedRequested(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"", false},
		{"ranked=1", true},
		{"ranked=true", true},
		{"ranked=TRUE", true},
		{"ranked=0", false},
		{"ranked=false", false},
		{"ranked=banana", false},
	}

	for _, tt := range tests {
		t.Run("?"+tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/needs?"+tt.query, nil)
			assert.Equal(t, tt.want, rankedRequested(req))
		})
	}
}
