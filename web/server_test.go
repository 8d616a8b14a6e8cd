package web_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/engine"
	"github.com/mogaika/freescape/pack/loader"
	"github.com/mogaika/freescape/pack/loader/loadertest"
	"github.com/mogaika/freescape/savestate"
	"github.com/mogaika/freescape/web"
	"github.com/mogaika/freescape/world"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	rel, err := config.GetRelease("driller-dos-ega")
	if err != nil {
		t.Fatal(err)
	}
	exe := loadertest.Executable(*rel, loadertest.DrillerWorld().Encode(rel.Platform), loadertest.DrillerMessages())
	load := func() (*world.World, error) {
		return loader.LoadRelease(bytes.NewReader(exe), *rel)
	}
	w, err := load()
	if err != nil {
		t.Fatal(err)
	}
	store, err := savestate.Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(web.NewRouter(&web.Loaded{
		World:    w,
		NewWorld: load,
		Options:  engine.DefaultOptions(),
		Store:    store,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, code int, v interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != code {
		t.Fatalf("%s %s: status %d, want %d", method, path, resp.StatusCode, code)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
	}
}

type state struct {
	Session string `json:"session"`
	Name    string `json:"name"`
	Area    uint16 `json:"area"`
	Moved   *bool  `json:"moved"`
	Clock   uint64 `json:"clock"`
	Player  struct {
		Stance int  `json:"stance"`
		Step   int  `json:"step"`
		Flying bool `json:"flying"`
	} `json:"player"`
	Vars   map[string]int32 `json:"vars"`
	Events []engine.Event   `json:"events"`
}

func TestInspector(t *testing.T) {
	srv := newServer(t)

	var wv struct {
		Release   string   `json:"release"`
		Areas     []uint16 `json:"areas"`
		StartArea uint16   `json:"start_area"`
		Messages  []string `json:"messages"`
	}
	call(t, srv, "GET", "/json/world", 200, &wv)
	if wv.Release != "driller-dos-ega" || len(wv.Areas) != 3 || wv.StartArea != loadertest.DrillerStartArea {
		t.Errorf("World %+v", wv)
	}

	var av struct {
		Objects []struct {
			ID        uint16 `json:"id"`
			Type      string `json:"type"`
			Condition string `json:"condition"`
		} `json:"objects"`
		Entrances []struct{} `json:"entrances"`
	}
	call(t, srv, "GET", "/json/area/1", 200, &av)
	if len(av.Entrances) != 1 || len(av.Objects) == 0 || av.Objects[0].ID != loadertest.DrillerCube || av.Objects[0].Condition == "" {
		t.Errorf("Area %+v", av)
	}
	call(t, srv, "GET", "/json/area/99", 404, nil)

	var conds []string
	call(t, srv, "GET", "/json/area/1/conditions", 200, &conds)
	if len(conds) != 2 {
		t.Errorf("Conditions %v", conds)
	}
	call(t, srv, "GET", "/json/globals", 200, &conds)
	if len(conds) != 4 {
		t.Errorf("Globals %v", conds)
	}

	var dangling []loader.Dangling
	call(t, srv, "GET", "/json/validate", 200, &dangling)
	if len(dangling) != 0 {
		t.Errorf("Dangling %v", dangling)
	}
}

func TestSessions(t *testing.T) {
	srv := newServer(t)

	var s state
	call(t, srv, "POST", "/session", 200, &s)
	if s.Session == "" || s.Area != loadertest.DrillerStartArea {
		t.Fatalf("Session %+v", s)
	}
	base := "/session/" + s.Session

	call(t, srv, "POST", base+"/shoot/2", 200, &s)
	if s.Vars["61"] != 50 {
		t.Errorf("Score after shot: %v", s.Vars)
	}
	call(t, srv, "POST", base+"/shoot/77", 400, nil)

	call(t, srv, "POST", base+"/move/right", 200, &s)
	if s.Moved == nil || !*s.Moved {
		t.Errorf("Move: %+v", s)
	}
	call(t, srv, "POST", base+"/move/sideways", 400, nil)

	call(t, srv, "POST", base+"/save/one", 200, nil)
	var other state
	call(t, srv, "POST", "/session", 200, &other)
	if other.Name == "" || other.Name == s.Name {
		t.Errorf("Session names %q and %q", s.Name, other.Name)
	}
	call(t, srv, "POST", "/session/"+other.Session+"/load/one", 200, &other)
	if other.Vars["61"] != 50 {
		t.Errorf("Loaded session vars %v", other.Vars)
	}

	var slots []savestate.SlotInfo
	call(t, srv, "GET", "/saves", 200, &slots)
	if len(slots) != 1 || slots[0].Slot != "one" {
		t.Errorf("Slots %+v", slots)
	}

	call(t, srv, "GET", "/session/nope/state", 404, nil)
}

func TestSessionControls(t *testing.T) {
	srv := newServer(t)

	var s state
	call(t, srv, "POST", "/session", 200, &s)
	base := "/session/" + s.Session

	call(t, srv, "POST", base+"/tick/3", 200, &s)
	call(t, srv, "POST", base+"/tick/2", 200, &s)
	if s.Clock != 5 {
		t.Errorf("Clock %d, want 5", s.Clock)
	}
	call(t, srv, "POST", base+"/tick/0", 400, nil)
	call(t, srv, "POST", base+"/tick/soon", 400, nil)

	for _, test := range []struct {
		path    string
		changed bool
		stance  int
		step    int
	}{
		{"/stance/-1", true, engine.STANCE_CROUCH, 1},
		{"/stance/-1", false, engine.STANCE_CROUCH, 1},
		{"/stance/1", true, engine.STANCE_STAND, 1},
		{"/step/2", true, engine.STANCE_STAND, 3},
		{"/step/1", false, engine.STANCE_STAND, 3},
		{"/step/-3", true, engine.STANCE_STAND, 0},
	} {
		call(t, srv, "POST", base+test.path, 200, &s)
		if s.Moved == nil || *s.Moved != test.changed || s.Player.Stance != test.stance || s.Player.Step != test.step {
			t.Errorf("%s: changed %v, player %+v", test.path, s.Moved, s.Player)
		}
	}
	call(t, srv, "POST", base+"/stance/up", 400, nil)

	call(t, srv, "POST", base+"/fly", 200, &s)
	if !s.Player.Flying || s.Player.Stance != engine.STANCE_FLY {
		t.Errorf("Fly: %+v", s.Player)
	}
}
