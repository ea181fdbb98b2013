package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	app "github.com/okian/detetive/internal/app"
	"github.com/okian/detetive/internal/config"
	"github.com/okian/detetive/pkg/logger"
	"github.com/okian/detetive/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("DETETIVE_ADDR", ":8080")
		t.Setenv("DETETIVE_MAX_SESSIONS", "5")
		t.Setenv("DETETIVE_DEFAULT_PLAYER_COUNT", "4")

		convey.Convey("When the configuration is loaded and mapped onto the service", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			svc := newService(cfg, logger.Get())

			convey.Convey("Then the service reflects it", func() {
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				stats := svc.GetStats()
				convey.So(stats["maxSessions"], convey.ShouldEqual, 5)
				convey.So(stats["defaultPlayers"], convey.ShouldEqual, 4)
			})
		})
	})

	convey.Convey("Given an invalid address", t, func() {
		t.Setenv("DETETIVE_ADDR", "")

		convey.Convey("Then configuration loading should fail", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestMainRoutes(t *testing.T) {
	convey.Convey("Given the full mux over a started service", t, func() {
		ctx := context.Background()
		svc := app.New()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		mux := newMux(ctx, svc)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", path, http.NoBody))
			return w
		}

		convey.Convey("Then docs, API and help page are all reachable", func() {
			convey.So(get("/").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/catalog").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/stats").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And a session can be played through the mux", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("POST", "/sessions", strings.NewReader(`{"player_count":3}`)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)

			var s struct {
				ID string `json:"id"`
			}
			convey.So(json.Unmarshal(w.Body.Bytes(), &s), convey.ShouldBeNil)
			convey.So(get("/sessions/"+s.ID).Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/sessions/"+s.ID+"/deduction").Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When a periodic updater runs under a short deadline", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			var ticks atomic.Int32
			every(ctx, 10*time.Millisecond, func() { ticks.Add(1) })

			convey.Convey("Then it ticks and returns once the context ends", func() {
				convey.So(ctx.Err(), convey.ShouldNotBeNil)
				convey.So(ticks.Load(), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When updating metrics directly", func() {
			svc := app.New()
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then nothing panics", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When creating a metrics manager on its own registry", func() {
			manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))

			convey.Convey("Then it is usable", func() {
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}
