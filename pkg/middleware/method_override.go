package middleware

import (
	"net/http"
)

// MethodOverride lets HTML forms tunnel PUT and DELETE through POST using a
// "_method" field. It wraps the router rather than running as a route
// middleware: the method has to change before the mux matches the request.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			m := r.URL.Query().Get("_method")
			if m == "" {
				// ParseForm caches the body in r.PostForm, so handlers can
				// still read the remaining fields afterwards
				_ = r.ParseForm()
				m = r.PostFormValue("_method")
			}
			switch m {
			case http.MethodPut, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}
