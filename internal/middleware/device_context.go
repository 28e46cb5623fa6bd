package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const deviceIDKey ctxKey = "device_id"

// DeviceContext:
// - Si viene header X-Device-ID => lo setea en el contexto del request.
// - Si no viene, el request sigue igual; el coordinador de sync usa el
//   device id persistido en la base local.
// El request nunca se corta acá: la identidad de dispositivo es opcional.
func DeviceContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get("X-Device-ID")); id != "" {
			ctx := context.WithValue(r.Context(), deviceIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func GetDeviceID(ctx context.Context) (string, bool) {
	v := ctx.Value(deviceIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
