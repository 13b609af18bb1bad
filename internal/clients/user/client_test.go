package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/product-service/internal/app/product/domain"
)

func TestClient_GetUserInfo(t *testing.T) {
	t.Run("resolves hub and company", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/internal/v1/users/seller-1", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"hubId":"hub-1","companyId":"company-1"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, zap.NewNop())
		info, err := client.GetUserInfo(context.Background(), "seller-1")

		require.NoError(t, err)
		assert.Equal(t, "hub-1", info.HubID)
		assert.Equal(t, "company-1", info.CompanyID)
	})

	t.Run("unknown seller", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, zap.NewNop())
		_, err := client.GetUserInfo(context.Background(), "seller-x")

		assert.ErrorIs(t, err, domain.ErrHubInfoNotFound)
	})

	t.Run("seller without hub", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"hubId":"","companyId":"company-1"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, zap.NewNop())
		_, err := client.GetUserInfo(context.Background(), "seller-1")

		assert.ErrorIs(t, err, domain.ErrHubInfoNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, zap.NewNop())
		_, err := client.GetUserInfo(context.Background(), "seller-1")

		assert.ErrorIs(t, err, domain.ErrUserServiceUnavailable)
	})

	t.Run("unreachable service", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", zap.NewNop())
		_, err := client.GetUserInfo(context.Background(), "seller-1")

		assert.ErrorIs(t, err, domain.ErrUserServiceUnavailable)
	})
}
