package auth

import (
	"net/http"
)

// sessionCookie is the name of the HttpOnly cookie carrying the signed
// session token.
const sessionCookie = "session"

// SetSession issues a session token for userID and writes it to the
// response as an HttpOnly cookie. This is the session store's "set".
func SetSession(w http.ResponseWriter, tokens *TokenService, userID string) error {
	token, err := tokens.Generate(userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSession expires the session cookie. This is the session store's
// "clear" — logout is purely client-side state removal, since the token
// itself is stateless.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionUserID reads and validates the session cookie, returning the
// logged-in user id. This is the session store's "get".
func sessionUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		// http.ErrNoCookie — no session, the request is anonymous.
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
