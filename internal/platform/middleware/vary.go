package middleware

import (
	"net/http"
	"strings"
)

// Vary adds Accept to the Vary header because donor and request bodies are
// negotiated between JSON and CBOR. CORS preflight answers carry no body and
// are left alone; CORS adds Origin itself.
func Vary() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if !preflight && !varies(w.Header(), "Accept") {
				w.Header().Add("Vary", "Accept")
			}
			next.ServeHTTP(w, r)
		})
	}
}

func varies(h http.Header, name string) bool {
	for _, v := range h.Values("Vary") {
		for part := range strings.SplitSeq(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), name) {
				return true
			}
		}
	}
	return false
}
