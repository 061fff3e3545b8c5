package http

import (
	"embed"
	"html/template"
)

//go:embed templates/upload.html
var templateFS embed.FS

var uploadPage = template.Must(template.ParseFS(templateFS, "templates/upload.html"))

// pageData feeds templates/upload.html
type pageData struct {
	Message string
	Success bool
	File    *UploadResponse
}
