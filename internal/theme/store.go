package theme

import (
	"net/http"
	"time"
)

// CookieName is the key under which the preference is persisted client-side.
const CookieName = "theme"

const cookieLifetime = 365 * 24 * time.Hour

// CookieStore persists the preference in a browser cookie.
type CookieStore struct {
	Secure bool
}

// Load returns the stored preference or Default when absent.
func (s CookieStore) Load(r *http.Request) Preference {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Default
	}
	return Parse(cookie.Value)
}

// Save writes the preference to the response.
func (s CookieStore) Save(w http.ResponseWriter, p Preference) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    Parse(string(p)).String(),
		Path:     "/",
		MaxAge:   int(cookieLifetime.Seconds()),
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Toggle flips the stored preference, persists it and returns the new value.
func (s CookieStore) Toggle(w http.ResponseWriter, r *http.Request) Preference {
	next := s.Load(r).Toggle()
	s.Save(w, next)
	return next
}
