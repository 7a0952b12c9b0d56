package service_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/aquaguard/internal/adapters/repository"
	service "github.com/okian/aquaguard/internal/app"
	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func fixedClock() time.Time {
	return time.Date(2024, time.May, 7, 15, 4, 5, 0, time.UTC)
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("When it is used before Start", func() {
			_, err := svc.Records(ctx)

			Convey("Then it should report not started", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats(ctx)["started"], ShouldEqual, false)
			})
		})

		Convey("When started and stopped", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			started := svc.GetStats(ctx)
			svc.Stop()
			svc.Stop()

			Convey("Then stats should follow the lifecycle", func() {
				So(started["started"], ShouldEqual, true)
				So(started["records"], ShouldEqual, 0)
				So(svc.GetStats(ctx)["started"], ShouldEqual, false)
			})
		})
	})
}

func TestServiceSubmit(t *testing.T) {
	Convey("Given a started in-memory service with a fixed clock", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithClock(fixedClock))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		Convey("When observations are submitted", func() {
			high, err := svc.Submit(ctx, model.Submission{Village: " Alpha ", Diarrhea: 12, Fever: 3, Rainfall: "High"})
			So(err, ShouldBeNil)
			medium, err := svc.Submit(ctx, model.Submission{Village: "Beta", Diarrhea: 5, Fever: 0, Rainfall: "Low"})
			So(err, ShouldBeNil)
			safe, err := svc.Submit(ctx, model.Submission{Village: "Gamma", Diarrhea: 12, Fever: 0, Rainfall: "Medium"})
			So(err, ShouldBeNil)

			Convey("Then each should be classified and stamped", func() {
				So(high.Risk, ShouldEqual, model.RiskHigh)
				So(high.Village, ShouldEqual, "Alpha")
				So(high.Date, ShouldEqual, "2024-05-07")
				So(medium.Risk, ShouldEqual, model.RiskMedium)
				So(safe.Risk, ShouldEqual, model.RiskSafe)
			})

			Convey("Then Records should list them newest first", func() {
				records, err := svc.Records(ctx)
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 3)
				So(records[0].Village, ShouldEqual, "Gamma")
				So(records[2].ID, ShouldEqual, high.ID)
			})
		})

		Convey("When a submission is invalid", func() {
			cases := []model.Submission{
				{Village: "  ", Diarrhea: 1, Fever: 1, Rainfall: "Low"},
				{Village: "A", Diarrhea: -1, Fever: 1, Rainfall: "Low"},
				{Village: "A", Diarrhea: 1, Fever: -3, Rainfall: "Low"},
				{Village: "A", Diarrhea: 1, Fever: 1},
			}

			Convey("Then it should be rejected with ErrInvalidInput and not stored", func() {
				for _, c := range cases {
					_, err := svc.Submit(ctx, c)
					So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
				}
				records, err := svc.Records(ctx)
				So(err, ShouldBeNil)
				So(records, ShouldBeEmpty)
			})
		})
	})
}

func TestServiceWithSQLite(t *testing.T) {
	Convey("Given a service backed by a sqlite file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "database.db")
		svc := service.New(service.WithDatabasePath(path))
		So(svc.Start(ctx), ShouldBeNil)
		_, err := svc.Submit(ctx, model.Submission{Village: "Delta", Diarrhea: 8, Fever: 2, Rainfall: "Medium"})
		So(err, ShouldBeNil)
		svc.Stop()

		Convey("When a second service opens the same file", func() {
			again := service.New(service.WithDatabasePath(path))
			So(again.Start(ctx), ShouldBeNil)
			Reset(again.Stop)
			records, err := again.Records(ctx)

			Convey("Then the stored record should be returned", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].Risk, ShouldEqual, model.RiskMedium)
				So(again.GetStats(ctx)["database"], ShouldEqual, path)
			})
		})
	})
}

type failingStore struct{ repository.Store }

func (failingStore) Save(context.Context, model.Record) (model.Record, error) {
	return model.Record{}, repository.ErrStorage
}

func (failingStore) All(context.Context) ([]model.Record, error) {
	return nil, repository.ErrStorage
}

func (failingStore) Close() error { return nil }

func TestServiceStoreFailure(t *testing.T) {
	Convey("Given a service whose store fails", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithStore(failingStore{}))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		Convey("Then Submit and Records should report ErrStore", func() {
			_, err := svc.Submit(ctx, model.Submission{Village: "A", Diarrhea: 1, Fever: 1, Rainfall: "Low"})
			So(errors.Is(err, service.ErrStore), ShouldBeTrue)
			_, err = svc.Records(ctx)
			So(errors.Is(err, service.ErrStore), ShouldBeTrue)
		})
	})
}
