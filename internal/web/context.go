package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/PasteImport/internal/core"
)

// withRequestMeta attaches the client address and user agent so imports can
// record where they came from. TrustedRealIP has already resolved RemoteAddr.
func withRequestMeta(r *http.Request) context.Context {
	return core.ContextWithRequestMeta(r.Context(), core.RequestMeta{
		ClientIP:  r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
}
