package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/aquaguard/internal/adapters/apiclient"
	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func TestNew(t *testing.T) {
	Convey("Given base URLs", t, func() {
		Convey("An absolute URL should be accepted and trimmed", func() {
			c, err := apiclient.New("http://localhost:5000/")
			So(err, ShouldBeNil)
			So(c.BaseURL(), ShouldEqual, "http://localhost:5000")
		})

		Convey("A relative URL should be rejected", func() {
			_, err := apiclient.New("localhost")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSubmit(t *testing.T) {
	Convey("Given a backend that accepts submissions", t, func() {
		var got model.Submission
		var method, path, contentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			contentType = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"success":true,"message":"Data submitted successfully","risk":"High Risk"}`))
		}))
		defer srv.Close()

		c, err := apiclient.New(srv.URL)
		So(err, ShouldBeNil)

		Convey("When submitting an observation", func() {
			res, err := c.Submit(context.Background(), model.Submission{Village: "Alpha", Diarrhea: 12, Fever: 3, Rainfall: "High"})

			Convey("Then the payload should be JSON with integer counts", func() {
				So(err, ShouldBeNil)
				So(method, ShouldEqual, http.MethodPost)
				So(path, ShouldEqual, "/submit")
				So(contentType, ShouldEqual, "application/json")
				So(got, ShouldResemble, model.Submission{Village: "Alpha", Diarrhea: 12, Fever: 3, Rainfall: "High"})
			})

			Convey("And the risk should be returned", func() {
				So(res.Success, ShouldBeTrue)
				So(res.Risk, ShouldEqual, model.RiskHigh)
			})
		})
	})

	Convey("Given a backend that answers 500", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"message":"Error submitting data"}`))
		}))
		defer srv.Close()
		c, _ := apiclient.New(srv.URL)

		Convey("Then Submit should return a rejected status error", func() {
			_, err := c.Submit(context.Background(), model.Submission{Village: "A"})
			So(errors.Is(err, apiclient.ErrRejected), ShouldBeTrue)
			So(errors.Is(err, apiclient.ErrUnreachable), ShouldBeFalse)
			var se *apiclient.StatusError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.StatusCode, ShouldEqual, http.StatusInternalServerError)
			So(se.Message, ShouldEqual, "Error submitting data")
		})
	})

	Convey("Given a backend that is not listening", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		c, _ := apiclient.New(url)

		Convey("Then Submit should report the backend as unreachable", func() {
			_, err := c.Submit(context.Background(), model.Submission{Village: "A"})
			So(errors.Is(err, apiclient.ErrUnreachable), ShouldBeTrue)
			So(errors.Is(err, apiclient.ErrRejected), ShouldBeFalse)
		})
	})

	Convey("Given a backend answering 2xx with a non-JSON body", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		}))
		defer srv.Close()
		c, _ := apiclient.New(srv.URL)

		Convey("Then Submit should return a decode error", func() {
			_, err := c.Submit(context.Background(), model.Submission{Village: "A"})
			So(errors.Is(err, apiclient.ErrDecode), ShouldBeTrue)
		})
	})
}

func TestRecords(t *testing.T) {
	Convey("Given a backend serving records", t, func() {
		var method, path string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			_, _ = w.Write([]byte(`[{"id":2,"village":"B","diarrhea":12,"fever":1,"rainfall":"High","risk":"High Risk","date":"2026-10-18"},{"id":1,"village":"A","diarrhea":0,"fever":0,"rainfall":"Low","risk":"Safe"}]`))
		}))
		defer srv.Close()
		c, _ := apiclient.New(srv.URL)

		Convey("Then Records should decode every record", func() {
			recs, err := c.Records(context.Background())
			So(err, ShouldBeNil)
			So(method, ShouldEqual, http.MethodGet)
			So(path, ShouldEqual, "/data")
			So(recs, ShouldHaveLength, 2)
			So(recs[0].Risk, ShouldEqual, model.RiskHigh)
			So(recs[0].Date, ShouldEqual, "2026-10-18")
			So(recs[1].Date, ShouldEqual, "")
		})
	})

	Convey("Given a backend answering null", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`null`))
		}))
		defer srv.Close()
		c, _ := apiclient.New(srv.URL)

		Convey("Then Records should return an empty, non-nil slice", func() {
			recs, err := c.Records(context.Background())
			So(err, ShouldBeNil)
			So(recs, ShouldNotBeNil)
			So(recs, ShouldBeEmpty)
		})
	})

	Convey("Given a slow backend and a short timeout", t, func() {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)
		c, _ := apiclient.New(srv.URL, apiclient.WithTimeout(20*time.Millisecond))

		Convey("Then Records should fail as unreachable", func() {
			_, err := c.Records(context.Background())
			So(errors.Is(err, apiclient.ErrUnreachable), ShouldBeTrue)
		})
	})
}
