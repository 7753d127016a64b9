package handler

import "net/http"

// HomePageText is the body served at the root path
const HomePageText = "Model Service Home Page"

// Home handles GET / - liveness text
func Home(w http.ResponseWriter, r *http.Request) {
	WriteText(w, http.StatusOK, HomePageText)
}
