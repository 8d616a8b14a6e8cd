package web

import (
	"bytes"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/freescape/export"
	"github.com/mogaika/freescape/pack/loader"
	"github.com/mogaika/freescape/status"
	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/webutils"
	"github.com/mogaika/freescape/world"
)

func (srv *server) area(r *http.Request) (*world.Area, error) {
	id, err := webutils.IntVar(r, "id", 16)
	if err != nil {
		return nil, err
	}
	a := srv.loaded.World.Area(uint16(id))
	if a == nil {
		return nil, errors.Errorf("Area %d does not exist", id)
	}
	return a, nil
}

func (srv *server) HandlerWorld(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, newWorldView(srv.loaded.World))
}

func (srv *server) HandlerArea(w http.ResponseWriter, r *http.Request) {
	if a, err := srv.area(r); err != nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, err)
	} else {
		webutils.WriteJson(w, newAreaView(a))
	}
}

func (srv *server) HandlerAreaConditions(w http.ResponseWriter, r *http.Request) {
	if a, err := srv.area(r); err != nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, err)
	} else {
		webutils.WriteJson(w, a.ConditionSources)
	}
}

func (srv *server) HandlerGlobals(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, srv.loaded.World.GlobalConditionSources)
}

func (srv *server) HandlerValidate(w http.ResponseWriter, r *http.Request) {
	dangling := loader.Validate(srv.loaded.World)
	if dangling == nil {
		dangling = []loader.Dangling{}
	}
	webutils.WriteJson(w, dangling)
}

func (srv *server) HandlerDumpGLTF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteWorld(&buf, srv.loaded.World); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, srv.loaded.World.Release.Name+".glb")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func HandlerStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.Channel(utils.ChannelWeb).Warnf("[web] ws upgrade: %v", err)
		return
	}
	status.NewClient(conn)
}
