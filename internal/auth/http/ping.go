package http

import (
	"net/http"

	"github.com/dharmil18/betterbank-auth-service/pkg/httpx"
)

// PingHandler godoc
//
//	@Summary	Smoke test
//	@Tags		Auth
//	@Produce	plain
//	@Success	200	{string}	string	"Auth service is working!"
//	@Router		/api/auth/test [get]
func PingHandler(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteText(w, http.StatusOK, "Auth service is working!")
}
