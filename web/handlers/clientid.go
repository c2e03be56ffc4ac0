package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

const clientIDCookieName = "livechart-client"

// getClientID returns a stable identifier for the client using a cookie.
// If the cookie is missing, it generates a new random identifier and sets it.
func getClientID(w http.ResponseWriter, r *http.Request) string {
	if identifier := clientID(r); identifier != "" {
		return identifier
	}

	identifier := newClientID(r)
	http.SetCookie(w, &http.Cookie{
		Name:     clientIDCookieName,
		Value:    identifier,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return identifier
}

// clientID returns the identifier the client already holds, or "" when it has none.
func clientID(r *http.Request) string {
	cookie, err := r.Cookie(clientIDCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func newClientID(r *http.Request) string {
	var randomBytes [16]byte
	if _, err := rand.Read(randomBytes[:]); err != nil {
		return r.RemoteAddr
	}
	return hex.EncodeToString(randomBytes[:])
}
