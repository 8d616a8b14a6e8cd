package web

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/freescape/engine"
	"github.com/mogaika/freescape/savestate"
	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/world"
)

// Loaded is what the inspector serves. World is shared read-only; every play
// session gets its own copy from NewWorld.
type Loaded struct {
	World    *world.World
	NewWorld func() (*world.World, error)
	Options  engine.Options
	Store    *savestate.Store
}

type server struct {
	loaded   *Loaded
	sessions *sessions
}

func NewRouter(l *Loaded) *mux.Router {
	s := &server{loaded: l, sessions: newSessions()}

	r := mux.NewRouter()
	r.HandleFunc("/json/world", s.HandlerWorld).Methods("GET")
	r.HandleFunc("/json/area/{id}", s.HandlerArea).Methods("GET")
	r.HandleFunc("/json/area/{id}/conditions", s.HandlerAreaConditions).Methods("GET")
	r.HandleFunc("/json/globals", s.HandlerGlobals).Methods("GET")
	r.HandleFunc("/json/validate", s.HandlerValidate).Methods("GET")
	r.HandleFunc("/dump/gltf", s.HandlerDumpGLTF).Methods("GET")

	r.HandleFunc("/session", s.HandlerNewSession).Methods("POST")
	r.HandleFunc("/session/{sid}/move/{dir}", s.HandlerMove).Methods("POST")
	r.HandleFunc("/session/{sid}/shoot/{obj}", s.HandlerShoot).Methods("POST")
	r.HandleFunc("/session/{sid}/tick/{ticks}", s.HandlerTick).Methods("POST")
	r.HandleFunc("/session/{sid}/stance/{delta}", s.HandlerStance).Methods("POST")
	r.HandleFunc("/session/{sid}/step/{delta}", s.HandlerStep).Methods("POST")
	r.HandleFunc("/session/{sid}/fly", s.HandlerFly).Methods("POST")
	r.HandleFunc("/session/{sid}/state", s.HandlerState).Methods("GET")
	r.HandleFunc("/session/{sid}/save/{slot}", s.HandlerSave).Methods("POST")
	r.HandleFunc("/session/{sid}/load/{slot}", s.HandlerLoad).Methods("POST")
	r.HandleFunc("/saves", s.HandlerSaves).Methods("GET")

	r.HandleFunc("/ws/status", HandlerStatus)
	return r
}

func StartServer(addr string, l *Loaded) error {
	r := NewRouter(l)

	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	utils.Channel(utils.ChannelWeb).Infof("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
