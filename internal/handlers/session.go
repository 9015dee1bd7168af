package handlers

import (
	"net/http"

	"pharmacy-dashboard/internal/dashboard"
	"pharmacy-dashboard/internal/page"
)

// Session is the page and controller bound to one browser
type Session struct {
	ID         string
	Page       *page.Page
	Controller *dashboard.Controller
}

// SessionFinder resolves the browser session of a request, creating one
// when the request carries none. It may set a cookie on w.
type SessionFinder interface {
	Find(w http.ResponseWriter, r *http.Request) (*Session, error)
}
