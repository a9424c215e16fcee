package demoserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// DemoServer serves versioned upstream responses to compare against each
// other. /v{N}/{name} always serves version N; /api/{name} serves the
// version currently selected for that fixture.
type DemoServer struct {
	cfg      Config
	fixtures map[string]Fixture
	versions map[string]int // name -> current version
	mu       sync.RWMutex
	router   chi.Router
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	if cfg.InitialVersion <= 0 {
		cfg.InitialVersion = 1
	}
	fixtures := make(map[string]Fixture)
	versions := make(map[string]int)
	for _, f := range GetAllFixtures() {
		fixtures[f.Name] = f
		versions[f.Name] = cfg.InitialVersion
	}

	s := &DemoServer{
		cfg:      cfg,
		fixtures: fixtures,
		versions: versions,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *DemoServer) routes() {
	r := s.router
	r.Get("/v{version}/{name}", s.versionedHandler)
	r.Get("/api/{name}", s.currentHandler)
	r.HandleFunc("/echo", s.echoHandler)

	r.Get("/demo/versions", s.getVersionsHandler)
	r.Post("/demo/set-version", s.setVersionHandler)
	r.Post("/demo/reset", s.resetVersionsHandler)
}

// ServeHTTP implements http.Handler.
func (s *DemoServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the demo server.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo server starting on http://localhost%s\n", addr)
	fmt.Printf("Fixture versions at http://localhost%s/demo/versions\n", addr)
	return http.ListenAndServe(addr, s)
}

func (s *DemoServer) versionedHandler(w http.ResponseWriter, r *http.Request) {
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.serveFixture(w, r, chi.URLParam(r, "name"), version)
}

func (s *DemoServer) currentHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.RLock()
	version := s.versions[name]
	s.mu.RUnlock()
	s.serveFixture(w, r, name, version)
}

func (s *DemoServer) serveFixture(w http.ResponseWriter, r *http.Request, name string, version int) {
	s.mu.RLock()
	f, ok := s.fixtures[name]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	fv, ok := f.Versions[version]
	if !ok {
		// Find the closest available version
		found := false
		for v := version; v >= 1; v-- {
			if candidate, exists := f.Versions[v]; exists {
				fv, found = candidate, true
				break
			}
		}
		if !found {
			http.NotFound(w, r)
			return
		}
	}

	contentType := fv.ContentType
	if contentType == "" {
		contentType = "text/plain"
	}
	status := fv.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(fv.Body))
}

// echoHandler reflects the request back as JSON so bodies, query values and
// credentials sent by a comparison can be inspected.
func (s *DemoServer) echoHandler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"method":        r.Method,
		"query":         r.URL.Query(),
		"content_type":  r.Header.Get("Content-Type"),
		"authorization": r.Header.Get("Authorization"),
		"body":          string(body),
	})
}

// setVersionHandler sets the version served under /api/ for one fixture.
func (s *DemoServer) setVersionHandler(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	version, err := strconv.Atoi(r.FormValue("version"))
	if err != nil {
		http.Error(w, "Invalid version number", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	_, ok := s.fixtures[name]
	if ok {
		s.versions[name] = version
	}
	s.mu.Unlock()

	if !ok {
		http.Error(w, "Unknown fixture", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"name":    name,
		"version": version,
	})
}

// FixtureInfo describes one fixture for /demo/versions.
type FixtureInfo struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	CurrentVersion    int    `json:"current_version"`
	AvailableVersions []int  `json:"available_versions"`
}

// getVersionsHandler returns the current versions of all fixtures.
func (s *DemoServer) getVersionsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	infos := make([]FixtureInfo, 0, len(s.fixtures))
	for name, f := range s.fixtures {
		versions := make([]int, 0, len(f.Versions))
		for v := range f.Versions {
			versions = append(versions, v)
		}
		sort.Ints(versions)
		infos = append(infos, FixtureInfo{
			Name:              name,
			Description:       f.Description,
			CurrentVersion:    s.versions[name],
			AvailableVersions: versions,
		})
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(infos)
}

// resetVersionsHandler resets all fixtures to the initial version.
func (s *DemoServer) resetVersionsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	for name := range s.versions {
		s.versions[name] = s.cfg.InitialVersion
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("All versions reset to %d", s.cfg.InitialVersion),
	})
}
