// Package httpapi serves one survey session as a JSON API routed with
// gorilla/mux. Handlers are serialised around the engine, engine errors map
// onto response codes, and every error body carries the status line shown
// to the person filling in the survey.
package httpapi
