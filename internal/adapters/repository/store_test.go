package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/aquaguard/internal/domain/model"
)

func sample(village string, diarrhea int, risk string) model.Record {
	return model.Record{
		Village:  village,
		Diarrhea: diarrhea,
		Fever:    1,
		Rainfall: model.RainfallLow,
		Risk:     risk,
		Date:     "2024-03-01",
	}
}

func storeContract(t *testing.T, name string, open func() Store) {
	Convey("Given a "+name, t, func() {
		ctx := context.Background()
		s := open()
		Reset(func() { _ = s.Close() })

		Convey("When it is empty", func() {
			all, err := s.All(ctx)

			Convey("Then All should return an empty, non-nil slice", func() {
				So(err, ShouldBeNil)
				So(all, ShouldNotBeNil)
				So(all, ShouldHaveLength, 0)
			})
		})

		Convey("When three records are saved", func() {
			a, err := s.Save(ctx, sample("A", 1, model.RiskSafe))
			So(err, ShouldBeNil)
			_, err = s.Save(ctx, sample("B", 7, model.RiskMedium))
			So(err, ShouldBeNil)
			c, err := s.Save(ctx, sample("C", 12, model.RiskHigh))
			So(err, ShouldBeNil)

			Convey("Then IDs should increase", func() {
				So(a.ID, ShouldBeGreaterThan, 0)
				So(c.ID, ShouldBeGreaterThan, a.ID)
			})

			Convey("Then All should return them newest first", func() {
				all, err := s.All(ctx)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 3)
				So(all[0].Village, ShouldEqual, "C")
				So(all[2].Village, ShouldEqual, "A")
				So(all[0].Risk, ShouldEqual, model.RiskHigh)
				So(all[0].Date, ShouldEqual, "2024-03-01")
			})

			Convey("Then Count should report them", func() {
				n, err := s.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
			})
		})

		Convey("When an invalid record is saved", func() {
			bad := []model.Record{
				sample("", 1, model.RiskSafe),
				sample("A", -1, model.RiskSafe),
				{Village: "A", Rainfall: "Low", Risk: model.RiskSafe},
			}
			for _, r := range bad {
				_, err := s.Save(ctx, r)
				So(errors.Is(err, ErrInvalidRecord), ShouldBeTrue)
			}

			Convey("Then nothing should be stored", func() {
				n, err := s.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})

		Convey("When records are saved concurrently", func() {
			var wg sync.WaitGroup
			errs := make(chan error, 20)
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.Save(ctx, sample("V", 3, model.RiskSafe))
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			Convey("Then every save should succeed", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				n, _ := s.Count(ctx)
				So(n, ShouldEqual, 20)
			})
		})
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, "memory store", func() Store { return NewMemoryStore() })
}

func TestSQLiteStore(t *testing.T) {
	storeContract(t, "sqlite store", func() Store {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "health.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return s
	})
}

func TestSQLiteStorePersistence(t *testing.T) {
	Convey("Given a sqlite file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "health.db")

		s, err := NewSQLiteStore(path)
		So(err, ShouldBeNil)
		_, err = s.Save(ctx, sample("Alpha", 11, model.RiskHigh))
		So(err, ShouldBeNil)
		So(s.Close(), ShouldBeNil)

		Convey("When it is reopened", func() {
			s2, err := NewSQLiteStore(path)
			So(err, ShouldBeNil)
			Reset(func() { _ = s2.Close() })
			all, err := s2.All(ctx)

			Convey("Then earlier records should still be there", func() {
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 1)
				So(all[0].Village, ShouldEqual, "Alpha")
			})
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Given Open", t, func() {
		Convey("An empty path should yield a memory store", func() {
			s, err := Open("")
			So(err, ShouldBeNil)
			_, ok := s.(*MemoryStore)
			So(ok, ShouldBeTrue)
		})

		Convey("A path should yield a sqlite store", func() {
			s, err := Open(filepath.Join(t.TempDir(), "x.db"))
			So(err, ShouldBeNil)
			defer s.Close()
			_, ok := s.(*SQLiteStore)
			So(ok, ShouldBeTrue)
		})

		Convey("A busy timeout should reach the sqlite connection", func() {
			s, err := Open(filepath.Join(t.TempDir(), "busy.db"), WithBusyTimeout(1500*time.Millisecond))
			So(err, ShouldBeNil)
			defer s.Close()
			var ms int
			So(s.(*SQLiteStore).db.QueryRow("PRAGMA busy_timeout").Scan(&ms), ShouldBeNil)
			So(ms, ShouldEqual, 1500)
		})
	})
}

func TestClosedMemoryStore(t *testing.T) {
	Convey("Given a closed memory store", t, func() {
		s := NewMemoryStore()
		So(s.Close(), ShouldBeNil)

		Convey("Then operations should fail with ErrClosed", func() {
			_, err := s.Save(context.Background(), sample("A", 1, model.RiskSafe))
			So(errors.Is(err, ErrClosed), ShouldBeTrue)
			_, err = s.All(context.Background())
			So(errors.Is(err, ErrClosed), ShouldBeTrue)
		})
	})
}
