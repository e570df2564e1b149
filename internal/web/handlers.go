package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/julienschmidt/httprouter"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/chart"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/dataset"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/logging"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/pipeline"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/render"
)

// statusClientClosed marks a pass abandoned by the client; nothing is written
const statusClientClosed = 499

type pageData struct {
	Title     string
	Dashboard *pipeline.Dashboard
	Options   pipeline.Options
	Specs     template.JS
	Error     string
}

// renderPass parses the query and runs the pipeline. The returned status is the
// HTTP status to use when err is non-nil.
func (s *Server) renderPass(r *http.Request) (*pipeline.Dashboard, int, error) {
	params, err := parseParams(r.URL.Query())
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	d, err := s.dashboards.Render(r.Context(), params)
	switch {
	case err == nil:
		return d, http.StatusOK, nil
	case r.Context().Err() != nil:
		return nil, statusClientClosed, err
	case dataset.IsLoadError(err):
		logging.LogError(logging.FromContext(r.Context()), "dataset unavailable", err,
			slog.String("component", "web"))
		return nil, http.StatusServiceUnavailable, err
	default:
		return nil, http.StatusBadRequest, err
	}
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: pipeline.PageTitle, Options: pipeline.SelectorOptions()}

	d, status, err := s.renderPass(r)
	if err == nil {
		doc := make(map[string]json.RawMessage)
		for _, c := range d.Charts() {
			raw, encErr := c.VegaLite(chart.WithContainerWidth())
			if encErr != nil {
				err, status = encErr, http.StatusInternalServerError
				break
			}
			doc[c.Name] = raw
		}
		if err == nil {
			specs, encErr := json.Marshal(doc)
			if encErr != nil {
				err, status = encErr, http.StatusInternalServerError
			} else {
				data.Dashboard = d
				data.Specs = template.JS(specs)
			}
		}
	}
	if err != nil {
		if status == statusClientClosed {
			return
		}
		data.Error = pageErrorText(status, err)
	}

	var buf bytes.Buffer
	if tmplErr := s.page.Execute(&buf, data); tmplErr != nil {
		logging.LogError(s.logger, "failed to render page", tmplErr)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func pageErrorText(status int, err error) string {
	if status == http.StatusServiceUnavailable {
		return "Data loading failed. Please check the GitHub repository details and file path."
	}
	return err.Error()
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	d, status, err := s.renderPass(r)
	if err != nil {
		s.apiError(w, r, status, err)
		return
	}
	doc, err := d.Document()
	if err != nil {
		s.apiError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, doc)
}

func (s *Server) chartHandler(w http.ResponseWriter, r *http.Request) {
	name := httprouter.ParamsFromContext(r.Context()).ByName("name")
	spec, ok := s.lookupChart(w, r, name)
	if !ok {
		return
	}
	raw, err := spec.VegaLite()
	if err != nil {
		s.apiError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (s *Server) chartPNGHandler(w http.ResponseWriter, r *http.Request) {
	file := httprouter.ParamsFromContext(r.Context()).ByName("file")
	name, ok := strings.CutSuffix(file, ".png")
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown chart "+file)
		return
	}
	spec, ok := s.lookupChart(w, r, name)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, spec); err != nil {
		s.apiError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = buf.WriteTo(w)
}

// lookupChart runs a render pass and finds the named chart, writing the error response on failure
func (s *Server) lookupChart(w http.ResponseWriter, r *http.Request, name string) (chart.Spec, bool) {
	if !contains(chart.Names(), name) {
		writeError(w, r, http.StatusNotFound, "unknown chart "+name)
		return chart.Spec{}, false
	}
	d, status, err := s.renderPass(r)
	if err != nil {
		s.apiError(w, r, status, err)
		return chart.Spec{}, false
	}
	spec, ok := d.Chart(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown chart "+name)
		return chart.Spec{}, false
	}
	return spec, true
}

func (s *Server) reloadHandler(w http.ResponseWriter, r *http.Request) {
	s.dashboards.Reload()
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "reloaded"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, status int, err error) {
	switch {
	case status == statusClientClosed:
		return
	case status == http.StatusServiceUnavailable:
		var le *dataset.LoadError
		if errors.As(err, &le) {
			writeError(w, r, status, "dataset unavailable: "+le.Op)
			return
		}
		writeError(w, r, status, "dataset unavailable")
	case status >= http.StatusInternalServerError:
		logging.LogError(logging.FromContext(r.Context()), "request failed", err)
		writeError(w, r, status, "internal server error")
	default:
		writeError(w, r, status, err.Error())
	}
}

type debugData struct {
	Title string
	Pre   string
}

func (s *Server) debugHandler(w http.ResponseWriter, r *http.Request) {
	var data any
	var title string

	d, _, err := s.renderPass(r)
	switch dataType := r.URL.Query().Get("dataType"); {
	case err != nil:
		data = map[string]string{"error": err.Error()}
		title = "Render error"
	case dataType == "params":
		data = d.Params
		title = "Normalized widget values"
	case dataType == "bounds":
		data = d.Bounds
		title = "Year bounds"
	case dataType == "charts":
		counts := make(map[string]int)
		for _, c := range d.Charts() {
			counts[c.Name] = len(c.Data)
		}
		data = counts
		title = "Rows per chart"
	default:
		data = map[string]string{
			"error": "Please use one of the following: params, bounds, charts.",
		}
		title = "Choose a data type"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.debug.Execute(w, debugData{Title: title, Pre: spew.Sdump(data)}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
