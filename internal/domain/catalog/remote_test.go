package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteSourceFetch(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantIDs     []string
	}{
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"views":[{"id":"home"},{"id":"chat","subview":true}]}`,
			wantIDs:     []string{"chat", "home"},
		},
		{
			name:        "yaml",
			contentType: "application/yaml",
			body:        "views:\n  - id: profile\n",
			wantIDs:     []string{"profile"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			m := NewManager(nil)
			n, err := NewRemoteSource(m, server.URL, nil).Fetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, len(tt.wantIDs), n)

			var ids []string
			for _, v := range m.List() {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRemoteSourceHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	m := NewManager(nil)
	_, err := NewRemoteSource(m, server.URL, nil).Fetch(context.Background())

	assert.Error(t, err)
	assert.Empty(t, m.List())
}
