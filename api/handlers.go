package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tarancss/jbx/lib/ids"
	"github.com/tarancss/jbx/lib/store"
	"github.com/tarancss/jbx/lib/util"
)

// Errors returned to client requests.
var (
	ErrBadPV   = errors.New("unknown protocol version")
	ErrBadID   = errors.New("invalid numeric id")
	ErrBadKind = errors.New("unknown entity kind")
)

// Response defines the data structure returned to the client making the http request.
type Response struct {
	Body  json.RawMessage `json:"body,omitempty"`
	Error string          `json:"error,omitempty"`
}

func (a *Server) reply(rw http.ResponseWriter, r *http.Request, body json.RawMessage, err error) {
	var res Response

	status := http.StatusOK

	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrBadPV), errors.Is(err, ErrBadID), errors.Is(err, ErrBadKind):
		status = http.StatusBadRequest
	case err != nil:
		status = http.StatusInternalServerError
	}

	if err != nil {
		res.Error = err.Error()
	} else {
		res.Body = body
	}

	a.log.Debug().Str("remote", r.RemoteAddr).Str("uri", r.RequestURI).Int("status", status).Err(err).
		Msg("httpreq")

	rw.Header().Set("Content-Type", "application/json;charset=utf8")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(&res)
}

// load replies the entity of kind under key.
func (a *Server) load(rw http.ResponseWriter, r *http.Request, kind store.Kind, key string) {
	var doc json.RawMessage

	err := a.db.Load(r.Context(), kind, key, &doc)
	a.reply(rw, r, doc, err)
}

// pv reads and validates the protocol version path variable.
func pv(v map[string]string) (ids.PV, error) {
	switch p := ids.PV(v["pv"]); p {
	case ids.PV1, ids.PV2:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBadPV, v["pv"])
	}
}

func uintVar(v map[string]string, name string) (uint64, error) {
	n, err := strconv.ParseUint(v[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadID, v[name])
	}

	return n, nil
}

// homeHandler just replies a welcome message to the client.
func (a *Server) homeHandler(rw http.ResponseWriter, r *http.Request) {
	a.reply(rw, r, json.RawMessage(`"jbx indexer query API"`), nil)
}

func (a *Server) protocolHandler(rw http.ResponseWriter, r *http.Request) {
	a.load(rw, r, store.KindProtocol, ids.ProtocolID)
}

func (a *Server) protocolLogHandler(rw http.ResponseWriter, r *http.Request) {
	p, err := pv(mux.Vars(r))
	if err != nil {
		a.reply(rw, r, nil, err)

		return
	}

	a.load(rw, r, store.KindProtocolLog, ids.ProtocolLog(p))
}

func (a *Server) projectHandler(rw http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)

	p, err := pv(v)
	if err != nil {
		a.reply(rw, r, nil, err)

		return
	}

	id, err := uintVar(v, "id")
	if err != nil {
		a.reply(rw, r, nil, err)

		return
	}

	a.load(rw, r, store.KindProject, ids.Project(p, id))
}

func (a *Server) participantHandler(rw http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)

	p, err := pv(v)
	if err != nil {
		a.reply(rw, r, nil, err)

		return
	}

	id, err := uintVar(v, "id")
	if err != nil {
		a.reply(rw, r, nil, err)

		return
	}

	a.load(rw, r, store.KindParticipant, ids.Participant(p, id, v["wallet"]))
}

func (a *Server) collectionHandler(rw http.ResponseWriter, r *http.Request) {
	a.load(rw, r, store.KindCollection, ids.Collection(mux.Vars(r)["address"]))
}

func (a *Server) tierHandler(rw http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)

	tier, err := uintVar(v, "tier")
	if err != nil {
		a.reply(rw, r, nil, err)

		return
	}

	a.load(rw, r, store.KindTier, ids.Tier(v["address"], tier))
}

func (a *Server) checkpointHandler(rw http.ResponseWriter, r *http.Request) {
	a.load(rw, r, store.KindCheckpoint, store.CheckpointKey)
}

// entityHandler replies any entity by kind and key, for records the other routes do not cover.
func (a *Server) entityHandler(rw http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)

	if !util.In(store.Kinds, store.Kind(v["kind"])) {
		a.reply(rw, r, nil, fmt.Errorf("%w: %s", ErrBadKind, v["kind"]))

		return
	}

	a.load(rw, r, store.Kind(v["kind"]), v["key"])
}
