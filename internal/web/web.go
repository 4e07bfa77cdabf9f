package web

import (
	"embed"
	"io/fs"
	"net/http"
)

// Relative navigation targets, resolved by the browser against the current page
const (
	AdminPage = "admin.html"
	UserPage  = "user.html"
)

//go:embed static
var staticFiles embed.FS

// Static serves the embedded pages
func Static() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// GoAdmin handles GET /go/admin
func GoAdmin(w http.ResponseWriter, r *http.Request) {
	navigate(w, AdminPage)
}

// GoUser handles GET /go/user
func GoUser(w http.ResponseWriter, r *http.Request) {
	navigate(w, UserPage)
}

// navigate writes a 302 whose Location is the relative target, unmodified
func navigate(w http.ResponseWriter, target string) {
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusFound)
}
