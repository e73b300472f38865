// Package flash carries one-shot messages across a redirect, cookie-based.
// The message survives exactly one read: Pop clears the cookie as it reads.
package flash

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const cookieName = "flash"

const (
	CategorySuccess = "success"
	CategoryDanger  = "danger"
)

type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Set stores a flash message for the next request.
func Set(w http.ResponseWriter, category, text string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(category + "|" + text))
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop reads and clears the pending flash message, if any.
func Pop(w http.ResponseWriter, r *http.Request) (*Message, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil, false
	}

	category, text, found := strings.Cut(string(raw), "|")
	if !found {
		return nil, false
	}

	return &Message{Category: category, Text: text}, true
}
