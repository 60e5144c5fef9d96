package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/goji/httpauth"
	"github.com/gorilla/securecookie"
	"github.com/msteinert/pam"
)

const (
	sessionCookie = "microseg_auth"
	sessionOK     = "pam-ok"
)

// AuthMiddleware checks requests with basic auth against the local pam stack
// and issues a session cookie so credentials are only verified once.
type AuthMiddleware struct {
	sc   *securecookie.SecureCookie
	opts httpauth.AuthOptions
}

func NewAuthMiddleware() AuthMiddleware {
	return AuthMiddleware{
		sc:   securecookie.New(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32)),
		opts: httpauth.AuthOptions{Realm: "microseg viewer", AuthFunc: authPam},
	}
}

func (mw AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mw.haveSession(r) {
			next.ServeHTTP(w, r)
			return
		}
		httpauth.BasicAuth(mw.opts)(mw.startSession(next)).ServeHTTP(w, r)
	})
}

func (mw AuthMiddleware) haveSession(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return false
	}
	var value string
	return mw.sc.Decode(sessionCookie, cookie.Value, &value) == nil && value == sessionOK
}

func (mw AuthMiddleware) startSession(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if encoded, err := mw.sc.Encode(sessionCookie, sessionOK); err != nil {
			log.Println("session cookie:", err)
		} else {
			http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: encoded, Path: "/"})
		}
		h.ServeHTTP(w, r)
	})
}

func authPam(user, pass string, r *http.Request) bool {
	t, err := pam.StartFunc("", user, func(s pam.Style, msg string) (string, error) {
		switch s {
		case pam.PromptEchoOn:
			return user, nil
		case pam.PromptEchoOff:
			return pass, nil
		}
		return "", errors.New("unsupported message style")
	})
	if err != nil {
		log.Println("pam:", err)
		return false
	}
	if err = t.Authenticate(0); err != nil {
		log.Println("pam: login failed for", user)
		return false
	}
	return true
}
