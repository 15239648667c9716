package main

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/maps"

	"github.com/ttd2089/ringdeque/internal/metrics"
)

func newStatsServer(
	addr string,
	stats *metrics.Count,
	h *handler,
	reg *prometheus.Registry,
	wwwDir string,
) *http.Server {
	srv := &http.Server{
		Addr:    addr,
		Handler: newStatsMux(stats, h, reg, wwwDir),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen and serve", "error", err)
		}
	}()

	return srv
}

func newStatsMux(
	stats *metrics.Count,
	h *handler,
	reg *prometheus.Registry,
	wwwDir string,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		data := stats.Data()
		accept := strings.Split(r.Header.Get("Accept"), ",")
		if slices.Contains(accept, "application/json") {
			serveJSON(data, w)
			return
		}
		serveHTML(wwwDir, data, w)
	})

	mux.HandleFunc("/recent", func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Query().Get("n"))
		if err != nil || n <= 0 {
			n = 10
		}
		if customerID := r.URL.Query().Get("customer"); customerID != "" {
			recent := h.RecentFor(customerID)
			serveJSON(recent[:min(n, len(recent))], w)
			return
		}
		serveJSON(h.Recent(n), w)
	})

	mux.HandleFunc("/keys", func(w http.ResponseWriter, r *http.Request) {
		serveJSON(stats.Keys(), w)
	})

	mux.HandleFunc("/series", func(w http.ResponseWriter, r *http.Request) {
		series := stats.Series(r.URL.Query().Get("key"))
		if series == nil {
			http.NotFound(w, r)
			return
		}
		serveJSON(series, w)
	})

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	staticDir := filepath.Join(wwwDir, "static")
	fileServer := http.FileServer(http.Dir(staticDir))
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))

	return mux
}

func serveJSON(data any, w http.ResponseWriter) {
	body, err := json.MarshalIndent(data, "", "   ")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

type panel struct {
	Points string
}

func serveHTML(wwwDir string, data map[string]metrics.TimeBuckets, w http.ResponseWriter) {
	params := make(map[string]panel, len(data))
	for element, buckets := range data {
		params[element] = panel{Points: polyline(buckets)}
	}

	t := template.New("t")
	t, err := t.ParseFiles(filepath.Join(wwwDir, "templates", "page.html"))
	if err != nil {
		slog.Error("parse HTML template", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "page.html", params); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// polyline renders buckets as SVG points on a 300x100 panel, right aligned and scaled so the
// largest count touches the top.
func polyline(buckets metrics.TimeBuckets) string {
	if len(buckets) == 0 {
		return ""
	}

	orderedBucketTimes := maps.Keys(buckets)
	slices.SortFunc(orderedBucketTimes, func(a, b time.Time) int {
		return a.Compare(b)
	})

	peak := max(1, slices.Max(maps.Values(buckets)))
	verticalScalingFactor := float64(100) / float64(peak)

	sb := strings.Builder{}
	for i, k := range orderedBucketTimes {
		x := (300 - len(buckets)) + i

		// SVG puts y=0 at the top of the figure.
		y := int(float64(peak-buckets[k]) * verticalScalingFactor)

		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(strconv.Itoa(x))
		sb.WriteString(",")
		sb.WriteString(strconv.Itoa(y))
	}
	return sb.String()
}
