package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dharmil18/betterbank-auth-service/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteJSON(rec, http.StatusCreated, map[string]bool{"success": true})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	decode := func(body string) (payload, error) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if body == "" {
			req = httptest.NewRequest(http.MethodPost, "/", nil)
		}
		err := httpx.DecodeJSON(httptest.NewRecorder(), req, &p)
		return p, err
	}

	t.Run("decodes a single object", func(t *testing.T) {
		p, err := decode(`{"email":"johndoe@test.com"}`)
		require.NoError(t, err)
		require.Equal(t, "johndoe@test.com", p.Email)
	})

	t.Run("rejects empty bodies", func(t *testing.T) {
		_, err := decode("")
		require.ErrorIs(t, err, httpx.ErrEmptyBody)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := decode(`{"email":"a@b.c","admin":true}`)
		require.Error(t, err)
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		_, err := decode(`{"email":"a@b.c"}{"email":"d@e.f"}`)
		require.Error(t, err)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}), httpx.Timeout(time.Second))

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
}
