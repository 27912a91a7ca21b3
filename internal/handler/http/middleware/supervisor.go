package middleware

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/storecrew/timeclock/internal/handler/http/response"
)

// RequireSupervisor gates journal and maintenance endpoints behind the
// device's supervisor PIN, sent per request so no supervisor session is
// ever left open on a shared kiosk.
func RequireSupervisor(pinHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			pin := r.Header.Get("X-Supervisor-PIN")
			if pin == "" {
				response.Forbidden(w, "Supervisor PIN required")
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(pin)); err != nil {
				response.Forbidden(w, "Invalid supervisor PIN")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
