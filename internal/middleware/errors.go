package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody matches the error envelope written by the handler package.
type errorBody struct {
	Error    errorDetail `json:"error"`
	Redirect string      `json:"redirect,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message, redirect string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:    errorDetail{Code: code, Message: message},
		Redirect: redirect,
	})
}
