// Package api serves a read-only RESTful API over the indexed entities. Every key is derived with package ids from
// the request path; clients never send raw keys except through /entities.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tarancss/jbx/lib/store"
)

const timeout = 15

// Server implements the query API.
type Server struct {
	log zerolog.Logger
	db  store.Loader

	mu sync.Mutex
	s  *http.Server
	sc chan struct{} // closed once the http server is shut down
}

// New instantiates a new API server over db.
func New(log zerolog.Logger, db store.Loader) *Server {
	return &Server{log: log.With().Str("component", "api").Logger(), db: db, sc: make(chan struct{})}
}

// Router returns the API routes.
func (a *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", a.homeHandler).Methods(http.MethodGet)
	r.HandleFunc("/protocol", a.protocolHandler).Methods(http.MethodGet)                 // cross-version totals
	r.HandleFunc("/protocol/{pv}", a.protocolLogHandler).Methods(http.MethodGet)         // per-version totals
	r.HandleFunc("/projects/{pv}/{id:[0-9]+}", a.projectHandler).Methods(http.MethodGet) // project aggregate
	r.HandleFunc("/projects/{pv}/{id:[0-9]+}/participants/{wallet}", a.participantHandler).Methods(http.MethodGet)
	r.HandleFunc("/collections/{address}", a.collectionHandler).Methods(http.MethodGet)
	r.HandleFunc("/collections/{address}/tiers/{tier:[0-9]+}", a.tierHandler).Methods(http.MethodGet)
	r.HandleFunc("/checkpoint", a.checkpointHandler).Methods(http.MethodGet)
	r.HandleFunc("/entities/{kind}/{key}", a.entityHandler).Methods(http.MethodGet) // any entity by kind and key

	return r
}

// Init starts the http server on endpoint:port and blocks until Stop is called.
func (a *Server) Init(endpoint, port string) error {
	s := &http.Server{
		Handler:      a.Router(),
		Addr:         endpoint + ":" + port,
		WriteTimeout: timeout * time.Second,
		ReadTimeout:  timeout * time.Second,
	}

	a.mu.Lock()
	a.s = s
	a.mu.Unlock()

	errCh := make(chan error, 1)

	go func() {
		errCh <- s.ListenAndServe()
	}()

	a.log.Info().Str("addr", s.Addr).Msg("listening to API http requests")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-a.sc:
		return nil
	}
}

// Stop shuts the http server down.
func (a *Server) Stop(ctx context.Context) error {
	defer close(a.sc)

	a.mu.Lock()
	s := a.s
	a.mu.Unlock()

	if s == nil {
		return nil
	}

	return s.Shutdown(ctx)
}
