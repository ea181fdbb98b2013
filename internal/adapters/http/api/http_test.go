package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/detetive/internal/adapters/http/api"
	service "github.com/okian/detetive/internal/app"
	"github.com/okian/detetive/internal/domain/catalog"
	"github.com/okian/detetive/internal/domain/mark"
	"github.com/okian/detetive/internal/domain/model"
	"github.com/okian/detetive/internal/domain/session"
	"github.com/okian/detetive/internal/domain/types"
	"github.com/okian/detetive/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// newMux wires a started service behind the API routes.
func newMux(t *testing.T) (*http.ServeMux, *service.Service) {
	t.Helper()
	svc := service.New(service.WithMaxSessions(3))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return mux, svc
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeSession(w *httptest.ResponseRecorder) types.Session {
	var s types.Session
	So(json.Unmarshal(w.Body.Bytes(), &s), ShouldBeNil)
	return s
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var e map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &e), ShouldBeNil)
	return e
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux(t)

		Convey("Then health should expose prometheus metrics", func() {
			w := do(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "detetive_companion")
		})

		Convey("And stats should report the service", func() {
			w := do(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("And catalog should list the card set", func() {
			w := do(mux, "GET", "/catalog", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var cat catalog.Catalog
			So(json.Unmarshal(w.Body.Bytes(), &cat), ShouldBeNil)
			So(cat.Suspects, ShouldHaveLength, 6)
			So(cat.Weapons, ShouldHaveLength, 8)
			So(cat.Locations, ShouldHaveLength, 11)
		})

		Convey("And the board page should be served", func() {
			w := do(mux, "GET", "/board?session=x", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "EventSource")
		})

		Convey("And wrong methods are refused", func() {
			w := do(mux, "PUT", "/catalog", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestSessionHandler(t *testing.T) {
	Convey("Given the session endpoints", t, func() {
		mux, _ := newMux(t)

		Convey("When creating a session with four players", func() {
			w := do(mux, "POST", "/sessions", `{"player_count":4}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			s := decodeSession(w)

			Convey("Then the snapshot is on GAME with a Location header", func() {
				So(s.Screen, ShouldEqual, session.ScreenGame)
				So(s.Players, ShouldHaveLength, 4)
				So(w.Header().Get("Location"), ShouldEqual, "/sessions/"+s.ID)
			})

			Convey("And it can be fetched and deleted", func() {
				So(do(mux, "GET", "/sessions/"+s.ID, "").Code, ShouldEqual, http.StatusOK)
				So(do(mux, "DELETE", "/sessions/"+s.ID, "").Code, ShouldEqual, http.StatusNoContent)
				So(do(mux, "GET", "/sessions/"+s.ID, "").Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And the screen flow walks HOME, SETUP, GAME", func() {
				home := do(mux, "POST", "/sessions/"+s.ID+"/home", "")
				So(home.Code, ShouldEqual, http.StatusOK)
				So(decodeSession(home).Screen, ShouldEqual, session.ScreenHome)

				So(do(mux, "POST", "/sessions/"+s.ID+"/start", "").Code, ShouldEqual, http.StatusConflict)
				So(do(mux, "POST", "/sessions/"+s.ID+"/setup", "").Code, ShouldEqual, http.StatusOK)

				bad := do(mux, "PUT", "/sessions/"+s.ID+"/player-count", `{"player_count":9}`)
				So(bad.Code, ShouldEqual, http.StatusBadRequest)

				So(do(mux, "PUT", "/sessions/"+s.ID+"/player-count", `{"player_count":6}`).Code, ShouldEqual, http.StatusOK)
				start := do(mux, "POST", "/sessions/"+s.ID+"/start", "")
				So(start.Code, ShouldEqual, http.StatusOK)
				So(decodeSession(start).Players, ShouldHaveLength, 6)
			})

			Convey("And new-game without a body uses the default count", func() {
				w := do(mux, "POST", "/sessions/"+s.ID+"/new-game", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeSession(w).PlayerCount, ShouldEqual, 3)
			})
		})

		Convey("When the body is malformed", func() {
			w := do(mux, "POST", "/sessions", `{"player_count":`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the body has unknown fields", func() {
			w := do(mux, "POST", "/sessions", `{"players":4}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the registry is full", func() {
			for i := 0; i < 3; i++ {
				So(do(mux, "POST", "/sessions", "").Code, ShouldEqual, http.StatusCreated)
			}
			w := do(mux, "POST", "/sessions", "")

			Convey("Then the server reports unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}

func TestCycleHandler(t *testing.T) {
	Convey("Given a three player session", t, func() {
		mux, _ := newMux(t)
		s := decodeSession(do(mux, "POST", "/sessions", `{"player_count":3}`))
		path := "/sessions/" + s.ID + "/cycle"

		Convey("When a cell is cycled twice", func() {
			So(do(mux, "POST", path, `{"item_id":"l7","player_id":"p2"}`).Code, ShouldEqual, http.StatusOK)
			w := do(mux, "POST", path, `{"item_id":"l7","player_id":"p2"}`)
			So(w.Code, ShouldEqual, http.StatusOK)

			var res types.CycleResult
			So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)

			Convey("Then it is confirmed and the others are excluded", func() {
				So(res.Outcome.Next, ShouldEqual, mark.Yes)
				So(res.Outcome.Exclusions, ShouldHaveLength, 2)
				So(res.Session.Deduction.Locations, ShouldNotContain, "Hotel")
			})

			Convey("And the deduction endpoint agrees", func() {
				d := do(mux, "GET", "/sessions/"+s.ID+"/deduction", "")
				So(d.Code, ShouldEqual, http.StatusOK)
				var got types.Deduction
				So(json.Unmarshal(d.Body.Bytes(), &got), ShouldBeNil)
				So(got.Locations, ShouldHaveLength, 10)
				So(got.Solved, ShouldBeFalse)
			})
		})

		Convey("When a request id is replayed", func() {
			body := `{"item_id":"s1","player_id":"p0","request_id":"r-1"}`
			So(do(mux, "POST", path, body).Code, ShouldEqual, http.StatusOK)
			w := do(mux, "POST", path, body)

			Convey("Then the reply is flagged duplicate", func() {
				var res types.CycleResult
				So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
				So(res.Duplicate, ShouldBeTrue)
				So(res.Outcome, ShouldBeNil)
			})
		})

		Convey("When required fields are missing", func() {
			w := do(mux, "POST", path, `{"item_id":"s1"}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "missing player_id")
			})
		})

		Convey("When the ids are unknown", func() {
			So(do(mux, "POST", path, `{"item_id":"x9","player_id":"p0"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, "POST", path, `{"item_id":"s1","player_id":"p4"}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the session is not in a game", func() {
			do(mux, "POST", "/sessions/"+s.ID+"/home", "")
			w := do(mux, "POST", path, `{"item_id":"s1","player_id":"p0"}`)

			Convey("Then it conflicts", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When the session does not exist", func() {
			w := do(mux, "POST", "/sessions/nope/cycle", `{"item_id":"s1","player_id":"p0"}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestEventsHandler(t *testing.T) {
	Convey("Given a live server with one session", t, func() {
		mux, svc := newMux(t)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		s := decodeSession(do(mux, "POST", "/sessions", ""))

		Convey("When a client follows the event stream", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/sessions/"+s.ID+"/events", http.NoBody)
			So(err, ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Type"), ShouldEqual, "text/event-stream")

			// The headers arrive after the subscription is registered.
			_, err = svc.Cycle(ctx, s.ID, "w3", "p1", "")
			So(err, ShouldBeNil)

			Convey("Then a cycle event carries the new snapshot", func() {
				reader := bufio.NewReader(resp.Body)
				var event, data string
				for data == "" {
					line, err := reader.ReadString('\n')
					So(err, ShouldBeNil)
					line = strings.TrimRight(line, "\n")
					switch {
					case strings.HasPrefix(line, "event: "):
						event = strings.TrimPrefix(line, "event: ")
					case strings.HasPrefix(line, "data: "):
						data = strings.TrimPrefix(line, "data: ")
					}
				}
				So(event, ShouldEqual, model.ChangeCycle)

				var c struct {
					Kind string        `json:"kind"`
					Data types.Session `json:"data"`
				}
				So(json.Unmarshal([]byte(data), &c), ShouldBeNil)
				So(c.Kind, ShouldEqual, model.ChangeCycle)
				So(c.Data.ID, ShouldEqual, s.ID)
			})
		})

		Convey("When the session does not exist", func() {
			w := do(mux, "GET", "/sessions/nope/events", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

type stoppedDeps struct{ api.Dependencies }

func (stoppedDeps) GetSession(context.Context, string) (types.Session, error) {
	return types.Session{}, service.ErrNotStarted
}

func (stoppedDeps) Deduction(context.Context, string) (types.Deduction, error) {
	return types.Deduction{}, errors.New("boom")
}

type staticStats map[string]interface{}

func (s staticStats) GetStats() map[string]interface{} { return s }

func TestErrorMapping(t *testing.T) {
	Convey("Given handlers whose dependencies fail", t, func() {
		mux := http.NewServeMux()
		api.NewServer(stoppedDeps{}, staticStats{"started": false}).Register(context.Background(), mux)

		Convey("Then a stopped service maps to 503", func() {
			So(do(mux, "GET", "/sessions/x", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("And an unknown error maps to 500", func() {
			w := do(mux, "GET", "/sessions/x/deduction", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w)["code"], ShouldEqual, "internal_error")
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given an error wrapped with a kind", t, func() {
		cause := errors.New("missing item_id")
		err := api.WrapKind("api.cycle", api.ErrBadRequest, cause)

		Convey("Then both kind and cause are matchable", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.cycle: bad request: missing item_id")
		})
	})
}
