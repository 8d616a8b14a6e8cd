package web

import (
	"net/http"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/freescape/engine"
	"github.com/mogaika/freescape/savestate"
	"github.com/mogaika/freescape/status"
	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/webutils"
)

var directions = map[string]mgl32.Vec3{
	"forward": {0, 0, 1},
	"back":    {0, 0, -1},
	"left":    {-1, 0, 0},
	"right":   {1, 0, 0},
	"up":      {0, 1, 0},
	"down":    {0, -1, 0},
}

// session is one play-through. Requests on a session are serialized.
type session struct {
	sync.Mutex
	id   string
	name string
	game *engine.Game
	rec  *engine.RecordingCollaborators
}

type sessions struct {
	sync.Mutex
	m     map[string]*session
	names utils.RandomNameGenerator
}

func newSessions() *sessions {
	return &sessions{m: make(map[string]*session)}
}

func (ss *sessions) get(id string) *session {
	ss.Lock()
	defer ss.Unlock()
	return ss.m[id]
}

func (ss *sessions) add(s *session) {
	ss.Lock()
	defer ss.Unlock()
	ss.m[s.id] = s
}

func (s *session) view(moved *bool) stateView {
	g := s.game
	v := stateView{
		Session: s.id,
		Name:    s.name,
		Area:    g.CurrentArea().ID,
		Moved:   moved,
		Clock:   g.Clock(),
		Player: playerView{
			Position: g.Player.Position,
			Rotation: g.Player.Rotation,
			Stance:   g.Player.Stance,
			Step:     g.Player.StepIndex,
			Flying:   g.Player.Flying,
		},
		Vars:   g.State.Clone().Vars,
		Bits:   g.State.Clone().Bits,
		Events: s.rec.Events,
	}
	if v.Events == nil {
		v.Events = []engine.Event{}
	}
	return v
}

// withSession locks the session named in the path and runs f. Events
// recorded by f are returned with the state.
func (srv *server) withSession(w http.ResponseWriter, r *http.Request, f func(s *session) (*bool, error)) {
	s := srv.sessions.get(mux.Vars(r)["sid"])
	if s == nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("Session %q does not exist", mux.Vars(r)["sid"]))
		return
	}
	s.Lock()
	defer s.Unlock()

	s.rec.Reset()
	moved, err := f(s)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, s.view(moved))
}

func (srv *server) HandlerNewSession(w http.ResponseWriter, r *http.Request) {
	wrld, err := srv.loaded.NewWorld()
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusInternalServerError, errors.Wrapf(err, "Failed to load world"))
		return
	}
	id := uuid.New().String()
	rec := &engine.RecordingCollaborators{Sink: status.Sink(id)}
	g, err := engine.NewGame(wrld, rec, srv.loaded.Options)
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusInternalServerError, err)
		return
	}
	s := &session{id: id, name: srv.sessions.names.RandomName(), game: g, rec: rec}
	srv.sessions.add(s)
	utils.Channel(utils.ChannelWeb).Infof("[web] New session %s (%s)", id, s.name)

	s.Lock()
	defer s.Unlock()
	webutils.WriteJson(w, s.view(nil))
}

func (srv *server) HandlerMove(w http.ResponseWriter, r *http.Request) {
	srv.withSession(w, r, func(s *session) (*bool, error) {
		dir, ok := directions[mux.Vars(r)["dir"]]
		if !ok {
			return nil, errors.Errorf("Unknown direction %q", mux.Vars(r)["dir"])
		}
		moved := s.game.Move(dir)
		return &moved, nil
	})
}

func (srv *server) HandlerShoot(w http.ResponseWriter, r *http.Request) {
	srv.withSession(w, r, func(s *session) (*bool, error) {
		id, err := webutils.IntVar(r, "obj", 16)
		if err != nil {
			return nil, err
		}
		if !s.game.CurrentArea().HasObject(uint16(id)) {
			return nil, errors.Errorf("Object %d is not in area %d", id, s.game.CurrentArea().ID)
		}
		s.game.Shoot(uint16(id))
		return nil, nil
	})
}

// MAX_TICKS bounds one tick request.
const MAX_TICKS = 1000

func (srv *server) HandlerTick(w http.ResponseWriter, r *http.Request) {
	srv.withSession(w, r, func(s *session) (*bool, error) {
		n, err := webutils.IntVar(r, "ticks", 16)
		if err != nil {
			return nil, err
		}
		if n < 1 || n > MAX_TICKS {
			return nil, errors.Errorf("Ticks %d out of range 1..%d", n, MAX_TICKS)
		}
		fired := 0
		for i := int64(0); i < n; i++ {
			fired += s.game.Tick(s.game.Clock() + 1)
		}
		utils.Channel(utils.ChannelWeb).Debugf("[web] Session %s: %d sensors fired over %d ticks", s.id, fired, n)
		return nil, nil
	})
}

func (srv *server) HandlerStance(w http.ResponseWriter, r *http.Request) {
	srv.withSession(w, r, func(s *session) (*bool, error) {
		delta, err := webutils.IntVar(r, "delta", 8)
		if err != nil {
			return nil, err
		}
		changed := s.game.ChangeStance(int(delta))
		return &changed, nil
	})
}

func (srv *server) HandlerStep(w http.ResponseWriter, r *http.Request) {
	srv.withSession(w, r, func(s *session) (*bool, error) {
		delta, err := webutils.IntVar(r, "delta", 8)
		if err != nil {
			return nil, err
		}
		changed := s.game.ChangeStep(int(delta))
		return &changed, nil
	})
}

func (srv *server) HandlerFly(w http.ResponseWriter, r *http.Request) {
	srv.withSession(w, r, func(s *session) (*bool, error) {
		s.game.ToggleFly()
		return nil, nil
	})
}

func (srv *server) HandlerState(w http.ResponseWriter, r *http.Request) {
	srv.withSession(w, r, func(s *session) (*bool, error) { return nil, nil })
}

func (srv *server) store() (*savestate.Store, error) {
	if srv.loaded.Store == nil {
		return nil, errors.New("Saving is disabled")
	}
	return srv.loaded.Store, nil
}

func (srv *server) HandlerSave(w http.ResponseWriter, r *http.Request) {
	srv.withSession(w, r, func(s *session) (*bool, error) {
		store, err := srv.store()
		if err != nil {
			return nil, err
		}
		return nil, store.Save(mux.Vars(r)["slot"], savestate.Capture(s.game))
	})
}

func (srv *server) HandlerLoad(w http.ResponseWriter, r *http.Request) {
	srv.withSession(w, r, func(s *session) (*bool, error) {
		store, err := srv.store()
		if err != nil {
			return nil, err
		}
		snap, err := store.Load(mux.Vars(r)["slot"])
		if err != nil {
			return nil, err
		}
		return nil, snap.Restore(s.game)
	})
}

func (srv *server) HandlerSaves(w http.ResponseWriter, r *http.Request) {
	store, err := srv.store()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	slots, err := store.List()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	if slots == nil {
		slots = []savestate.SlotInfo{}
	}
	webutils.WriteJson(w, slots)
}
