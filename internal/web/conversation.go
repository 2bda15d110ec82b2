package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ConversationCookie holds the id that scopes a browser's chat history.
const ConversationCookie = "mapchat_conversation"

const conversationMaxAge = 365 * 24 * time.Hour

// conversationID returns the caller's conversation id, issuing a new one
// when the cookie is missing or malformed.
func conversationID(c echo.Context) string {
	if cookie, err := c.Cookie(ConversationCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     ConversationCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(conversationMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
