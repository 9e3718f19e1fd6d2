package middleware

import (
	"encoding/base64"
	"net/http"
)

const (
	FlashCookieError   = "flash_error"
	FlashCookieSuccess = "flash_success"
)

// SetFlash stores a one-shot message for the next page render.
// Values are base64 encoded so any text survives the cookie.
func SetFlash(w http.ResponseWriter, name, message string, secureCookies bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    base64.StdEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads a flash message and expires its cookie.
func PopFlash(w http.ResponseWriter, r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}
	ClearCookie(w, name)

	decoded, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}

func ClearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// ForwardCookie re-issues a cookie set by the backend under this site's
// origin.
func ForwardCookie(w http.ResponseWriter, c *http.Cookie, secureCookies bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     "/",
		Expires:  c.Expires,
		MaxAge:   c.MaxAge,
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
