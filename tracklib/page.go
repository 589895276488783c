package tracklib

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>IP Address Tracker</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <style>
    body { margin: 0; font-family: sans-serif; }
    header { padding: 2rem 1rem 6rem; text-align: center; background: #3f4ac0; color: #fff; }
    form { display: flex; max-width: 32rem; margin: 1rem auto 0; }
    input { flex: 1; padding: 1rem; border: 0; border-radius: 1rem 0 0 1rem; font-size: 1rem; }
    button { padding: 0 1.5rem; border: 0; border-radius: 0 1rem 1rem 0; background: #000; color: #fff; }
    dl { display: grid; grid-template-columns: repeat(auto-fit, minmax(12rem, 1fr)); gap: 1rem;
         max-width: 64rem; margin: -4rem auto 0; padding: 2rem; background: #fff; border-radius: 1rem;
         position: relative; z-index: 1000; box-shadow: 0 1rem 2rem rgba(0, 0, 0, .1); }
    dt { font-size: .7rem; letter-spacing: .1rem; text-transform: uppercase; color: #969696; }
    dd { margin: .5rem 0 0; font-size: 1.4rem; font-weight: 500; }
    #error { max-width: 32rem; margin: 1rem auto 0; color: #ffd5d5; }
    #map { height: 60vh; margin-top: -6rem; }
  </style>
</head>
<body>
  <header>
    <h1>IP Address Tracker</h1>
    <form method="get" action="/">
      <input type="text" name="q" id="query" value="{{ .View.Query }}"
             placeholder="Search for any IP address or domain" autocomplete="off">
      <button type="submit" aria-label="Search">&gt;</button>
    </form>
    {{ if .View.Error }}<p id="error" role="alert">{{ .View.Error }}</p>{{ end }}
  </header>
  <dl>
    <div><dt>IP Address</dt><dd id="ip-address">{{ .View.IPAddress }}</dd></div>
    <div><dt>Location</dt><dd id="location">{{ .View.Location }}</dd></div>
    <div><dt>Timezone</dt><dd id="timezone">{{ .View.Timezone }}</dd></div>
    <div><dt>ISP</dt><dd id="isp">{{ .View.ISP }}</dd></div>
  </dl>
  <div id="map"
       data-lat="{{ .View.Map.Center.Latitude }}"
       data-lng="{{ .View.Map.Center.Longitude }}"
       data-zoom="{{ .View.Map.Zoom }}"
       data-marker="{{ .View.Map.Marker }}"></div>
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <script>
    (function () {
      var el = document.getElementById("map");
      var center = [parseFloat(el.dataset.lat), parseFloat(el.dataset.lng)];
      var map = L.map(el, {zoomControl: false}).setView(center, parseInt(el.dataset.zoom, 10));

      L.tileLayer("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", {
        attribution: "&copy; OpenStreetMap contributors"
      }).addTo(map);

      if (el.dataset.marker === "true") {
        L.marker(center).addTo(map);
      }
    })();
  </script>
</body>
</html>
`))

type pageData struct {
	View View
}

func (h httpHandler) handlePage(w http.ResponseWriter, req *http.Request) {
	var (
		result Result
		err    error
		view   View
	)

	query := strings.TrimSpace(req.URL.Query().Get("q"))

	if query == "" {
		result, err = h.tracker.LookupSelf(req.Context(), remoteIP(req))
	} else {
		result, err = h.tracker.Lookup(req.Context(), query)
	}

	statusCode := ErrorStatusCode(err)

	if err != nil {
		view = NewErrorView(query, err)
	} else {
		view = NewView(result)
		view.Query = query
	}

	buf := bytes.Buffer{}

	if err := pageTemplate.Execute(&buf, pageData{View: view}); err != nil {
		h.sendError(w, err, "Cannot render a page", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write(buf.Bytes()) // nolint: errcheck
}
