package handler

import "net/http"

// ServeStatic serves the till UI from dir. Without a dir a placeholder page
// points at the API.
func ServeStatic(dir string) http.Handler {
	if dir == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(placeholderHTML))
		})
	}
	return http.FileServer(http.Dir(dir))
}

const placeholderHTML = `<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <title>POS Panadería</title>
</head>
<body>
  <h1>POS Panadería</h1>
  <p>UI not installed. Set STATIC_DIR, or POST actions to <code>/api</code>.</p>
</body>
</html>`
