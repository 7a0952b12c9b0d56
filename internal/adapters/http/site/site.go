// Package site serves the dashboard pages: the record overview, the data
// entry form and a spreadsheet export, all rendered from one page.Document.
package site

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/aquaguard/internal/adapters/apiclient"
	"github.com/okian/aquaguard/internal/adapters/http/api"
	"github.com/okian/aquaguard/internal/adapters/page"
	"github.com/okian/aquaguard/internal/dashboard"
	"github.com/okian/aquaguard/internal/domain/view"
	"github.com/okian/aquaguard/pkg/logger"
	"github.com/okian/aquaguard/pkg/metrics"
)

// Error constants.
var (
	ErrRender = errors.New("page render failed")
	ErrExport = errors.New("export failed")
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server renders the dashboard surface over HTTP.
type Server struct {
	client    *dashboard.Client
	doc       *page.Document
	templates *template.Template
	apiURL    string
	logger    logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAPIURL shows the backend address in the page footer.
func WithAPIURL(url string) Option {
	return func(s *Server) {
		s.apiURL = url
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a site server driving client, which must render into doc.
func NewServer(client *dashboard.Client, doc *page.Document, opts ...Option) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, errors.Join(ErrRender, err)
	}
	s := &Server{client: client, doc: doc, templates: tmpl}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("site")
	}
	return s, nil
}

// Register attaches the page routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", api.MetricsMiddleware(s.handleDashboard, "dashboard"))
	mux.HandleFunc("GET /dashboard", api.MetricsMiddleware(s.handleDashboard, "dashboard"))
	mux.HandleFunc("GET /data-entry", api.MetricsMiddleware(s.handleEntryForm, "data_entry"))
	mux.HandleFunc("POST /data-entry", api.MetricsMiddleware(s.handleEntrySubmit, "data_entry"))
	mux.HandleFunc("GET /export.xlsx", api.MetricsMiddleware(s.handleExport, "export"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.Handle("GET /healthz", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

// pageData is what every template receives.
type pageData struct {
	Title  string
	Active string
	APIURL string
	El     map[string]page.Element
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name, title, active string) {
	data := pageData{Title: title, Active: active, APIURL: s.apiURL, El: s.doc.Snapshot()}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error(r.Context(), "failed to render page",
			logger.String("template", name),
			logger.Error(errors.Join(ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	// load failures are already rendered into the table area
	_ = s.client.Load(r.Context())
	s.render(w, r, "dashboard.html", "Health Dashboard", "dashboard")
}

func (s *Server) handleEntryForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "data-entry.html", "Data Entry", "data-entry")
}

func (s *Server) handleEntrySubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	f := dashboard.Form{
		Village:  r.PostForm.Get(page.IDVillage),
		Diarrhea: r.PostForm.Get(page.IDDiarrhea),
		Fever:    r.PostForm.Get(page.IDFever),
		Rainfall: r.PostForm.Get(page.IDRainfall),
	}
	// the posted values are submitted as parsed; the shared document only
	// echoes them back so a failed entry can be corrected
	if err := s.client.SubmitForm(r.Context(), f); err != nil {
		s.doc.FillForm(f)
	}
	http.Redirect(w, r, page.EntryPath, http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	records, err := s.client.Records(r.Context())
	if err != nil {
		s.logger.Warn(r.Context(), "export could not load records", logger.Error(errors.Join(ErrExport, err)))
		msg := view.BackendErrorMessage
		if errors.Is(err, apiclient.ErrUnreachable) {
			msg = view.UnreachableMessage
		}
		http.Error(w, msg, http.StatusBadGateway)
		return
	}
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, records); err != nil {
		s.logger.Error(r.Context(), "export failed", logger.Error(errors.Join(ErrExport, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	name := "health-data-" + time.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = buf.WriteTo(w)
}
