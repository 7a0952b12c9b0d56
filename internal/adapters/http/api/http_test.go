package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/aquaguard/internal/adapters/http/api"
	service "github.com/okian/aquaguard/internal/app"
	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

type failingDeps struct{}

func (failingDeps) Submit(context.Context, model.Submission) (model.Record, error) {
	return model.Record{}, errors.New("disk full")
}

func (failingDeps) Records(context.Context) ([]model.Record, error) {
	return nil, errors.New("disk full")
}

func (failingDeps) GetStats(context.Context) map[string]any { return map[string]any{} }

func newHandler(deps api.Dependencies, stats api.StatsProvider, opts ...api.Option) http.Handler {
	mux := http.NewServeMux()
	srv := api.NewServer(deps, stats, opts...)
	srv.Register(context.Background(), mux)
	return srv.Handler(mux)
}

func do(h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeSubmit(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestSubmitAndList(t *testing.T) {
	Convey("Given the API backed by an in-memory service", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)
		h := newHandler(svc, svc)

		Convey("When a valid observation is posted", func() {
			w := do(h, http.MethodPost, "/submit",
				`{"village":"Alpha","diarrhea":12,"fever":4,"rainfall":"High"}`,
				map[string]string{"Content-Type": "application/json"})

			Convey("Then it should answer 201 with the computed risk", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				body := decodeSubmit(w)
				So(body["success"], ShouldEqual, true)
				So(body["message"], ShouldEqual, "Data submitted successfully")
				So(body["risk"], ShouldEqual, model.RiskHigh)
				So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
			})

			Convey("And GET /data should list it with a date", func() {
				w := do(h, http.MethodGet, "/data", "", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				var records []model.Record
				So(json.Unmarshal(w.Body.Bytes(), &records), ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].Village, ShouldEqual, "Alpha")
				So(records[0].Date, ShouldHaveLength, len("2006-01-02"))
				So(records[0].ID, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When counts arrive as numeric strings", func() {
			w := do(h, http.MethodPost, "/submit",
				`{"village":"Beta","diarrhea":"7","fever":"1","rainfall":"Low"}`, nil)

			Convey("Then they should be accepted", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(decodeSubmit(w)["risk"], ShouldEqual, model.RiskMedium)
			})
		})

		Convey("When the payload is invalid", func() {
			bodies := []string{
				`not json`,
				`{"diarrhea":1,"fever":1,"rainfall":"Low"}`,
				`{"village":"A","fever":1,"rainfall":"Low"}`,
				`{"village":"A","diarrhea":"many","fever":1,"rainfall":"Low"}`,
				`{"village":"A","diarrhea":-2,"fever":1,"rainfall":"Low"}`,
				`{"village":"A","diarrhea":1,"fever":1}`,
			}

			Convey("Then each should answer 400 with the failure body", func() {
				for _, b := range bodies {
					w := do(h, http.MethodPost, "/submit", b, nil)
					So(w.Code, ShouldEqual, http.StatusBadRequest)
					body := decodeSubmit(w)
					So(body["success"], ShouldEqual, false)
					So(body["message"], ShouldEqual, "Error submitting data")
				}
			})

			Convey("And nothing should be stored", func() {
				w := do(h, http.MethodGet, "/data", "", nil)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})

		Convey("When the wrong method is used", func() {
			w := do(h, http.MethodGet, "/submit", "", nil)

			Convey("Then it should answer 405", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldContainSubstring, "POST")
			})
		})

		Convey("When the stats endpoint is queried", func() {
			do(h, http.MethodPost, "/submit", `{"village":"A","diarrhea":1,"fever":1,"rainfall":"Low"}`, nil)
			w := do(h, http.MethodGet, "/stats", "", nil)

			Convey("Then it should report the record count", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var stats map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
				So(stats["records"], ShouldEqual, float64(1))
			})
		})
	})
}

func TestStoreFailures(t *testing.T) {
	Convey("Given the API over failing dependencies", t, func() {
		h := newHandler(failingDeps{}, failingDeps{})

		Convey("Then POST /submit should answer 500", func() {
			w := do(h, http.MethodPost, "/submit", `{"village":"A","diarrhea":1,"fever":1,"rainfall":"Low"}`, nil)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeSubmit(w)["success"], ShouldEqual, false)
		})

		Convey("Then GET /data should answer 500 with an empty array", func() {
			w := do(h, http.MethodGet, "/data", "", nil)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
		})
	})
}

func TestCORS(t *testing.T) {
	Convey("Given the API with the default origin policy", t, func() {
		h := newHandler(failingDeps{}, failingDeps{})

		Convey("When a browser sends a preflight", func() {
			w := do(h, http.MethodOptions, "/submit", "", map[string]string{
				"Origin":                         "http://localhost:8080",
				"Access-Control-Request-Method":  "POST",
				"Access-Control-Request-Headers": "Content-Type",
			})

			Convey("Then it should be allowed with 204", func() {
				So(w.Code, ShouldEqual, http.StatusNoContent)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
				So(w.Header().Get("Access-Control-Allow-Methods"), ShouldContainSubstring, "POST")
			})
		})

		Convey("When a plain OPTIONS request arrives", func() {
			w := do(h, http.MethodOptions, "/data", "", nil)

			Convey("Then it should answer 204", func() {
				So(w.Code, ShouldEqual, http.StatusNoContent)
			})
		})

		Convey("When a cross-origin GET arrives", func() {
			w := do(h, http.MethodGet, "/data", "", map[string]string{"Origin": "http://example.org"})

			Convey("Then the response should carry the allow-origin header", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})
	})

	Convey("Given the API with an origin allow-list", t, func() {
		h := newHandler(failingDeps{}, failingDeps{}, api.WithAllowedOrigins([]string{"http://dash.local"}))

		Convey("Then other origins should not be echoed", func() {
			w := do(h, http.MethodGet, "/data", "", map[string]string{"Origin": "http://evil.local"})
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)

			ok := do(h, http.MethodGet, "/data", "", map[string]string{"Origin": "http://dash.local"})
			So(ok.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://dash.local")
		})
	})
}

func TestHealthz(t *testing.T) {
	Convey("Given the API", t, func() {
		h := newHandler(failingDeps{}, failingDeps{})
		do(h, http.MethodGet, "/data", "", nil)

		Convey("Then /healthz should expose the request counters", func() {
			w := do(h, http.MethodGet, "/healthz", "", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "aquaguard_http_requests_total")
		})
	})
}

func TestWrapKind(t *testing.T) {
	Convey("Given a wrapped error", t, func() {
		cause := errors.New("eof")
		err := api.WrapKind("api.submit", api.ErrBadRequest, cause)

		Convey("Then both kind and cause should be detectable", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldStartWith, "api.submit")
		})
	})
}
