package handlers

import (
	"html/template"
	"net/http"
)

// Renderer is a page served by the Server: its templates, the data the index template is executed with and the
// handlers it adds, keyed by ServeMux pattern.
type Renderer interface {
	Templates() *template.Template
	Handlers() map[string]http.HandlerFunc
	Data() map[string]interface{}
	// Close releases everything the renderer started for its clients.
	Close()
}
