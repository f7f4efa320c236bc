package cluster

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/chainrig/chainrig/pkg/chain"
	"github.com/chainrig/chainrig/pkg/docker"

	"github.com/docker/docker/api/types"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// fakeRuntime implements Runtime in memory. StartContainer can be wired to
// publish the port of a fake node server, so discovery finds real endpoints.
type fakeRuntime struct {
	mu sync.Mutex

	containers []types.Container
	started    []*docker.StartContainerOpts
	networks   []string
	removed    []string

	// hostPortFor, when set, overrides the host port recorded for a started
	// container (index -> port).
	hostPortFor func(index int) int

	removeErr error
}

func (f *fakeRuntime) ListRunning(_ context.Context, _ string) ([]types.Container, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.containers, nil
}

func (f *fakeRuntime) ListAll(_ context.Context, _ string) ([]types.Container, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.containers, nil
}

func (f *fakeRuntime) EnsureNetwork(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.networks = append(f.networks, name)
	return "net-" + name, nil
}

func (f *fakeRuntime) StartContainer(_ context.Context, opts *docker.StartContainerOpts) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	index := len(f.started)
	f.started = append(f.started, opts)

	hostPort := opts.HostPort
	if f.hostPortFor != nil {
		hostPort = f.hostPortFor(index)
	}

	id := strconv.Itoa(index)
	for len(id) < 16 {
		id += "f"
	}
	f.containers = append(f.containers, types.Container{
		ID:    id,
		Names: []string{"/" + opts.ContainerName},
		Ports: []types.Port{
			{IP: "0.0.0.0", PrivatePort: uint16(opts.InternalPort), PublicPort: uint16(hostPort), Type: "tcp"},
		},
	})
	return id, nil
}

func (f *fakeRuntime) StopAndRemove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.removeErr
}

// fakeNode emulates the blockchain service's REST surface for one node.
type fakeNode struct {
	mu     sync.Mutex
	length int

	// /nodes/resolve behavior.
	resolveMsg   string
	resolveDelta int

	// /nodes/register behavior: peers echoed back, or overridden.
	registerOverride []string

	mineCalls     int
	registerPeers []string

	srv *httptest.Server
}

func newFakeNode(t *testing.T, length int) *fakeNode {
	t.Helper()

	n := &fakeNode{
		length:       length,
		resolveMsg:   chain.ReplacedMessage,
		resolveDelta: 2,
	}

	r := mux.NewRouter()
	r.HandleFunc("/chain", n.handleChain).Methods(http.MethodGet)
	r.HandleFunc("/mine", n.handleMine).Methods(http.MethodGet)
	r.HandleFunc("/nodes/register", n.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/nodes/resolve", n.handleResolve).Methods(http.MethodGet)

	n.srv = httptest.NewServer(r)
	t.Cleanup(n.srv.Close)
	return n
}

func (n *fakeNode) port(t *testing.T) int {
	t.Helper()
	u, err := url.Parse(n.srv.URL)
	require.NoError(t, err)
	p, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return p
}

// writeJSON sets the content type explicitly; resty only decodes responses
// declared as json, as the real service does.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (n *fakeNode) handleChain(w http.ResponseWriter, _ *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"length": n.length})
}

func (n *fakeNode) handleMine(w http.ResponseWriter, _ *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mineCalls++
	n.length++
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "New Block Forged"})
}

func (n *fakeNode) handleRegister(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var body struct {
		Nodes []string `json:"nodes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n.registerPeers = body.Nodes

	total := body.Nodes
	if n.registerOverride != nil {
		total = n.registerOverride
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"total_nodes": total})
}

func (n *fakeNode) handleResolve(w http.ResponseWriter, _ *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.length += n.resolveDelta
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": n.resolveMsg})
}

func (n *fakeNode) chainLength() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.length
}

// runtimeWithNodes builds a fake runtime whose containers point at the given
// fake node servers.
func runtimeWithNodes(t *testing.T, servicePort int, nodes ...*fakeNode) *fakeRuntime {
	t.Helper()

	rt := &fakeRuntime{}
	for i, n := range nodes {
		id := strconv.Itoa(i)
		for len(id) < 16 {
			id += "f"
		}
		rt.containers = append(rt.containers, types.Container{
			ID:    id,
			Names: []string{"/blockchain-" + strconv.Itoa(i)},
			Ports: []types.Port{
				{IP: "0.0.0.0", PrivatePort: uint16(servicePort), PublicPort: uint16(n.port(t)), Type: "tcp"},
			},
		})
	}
	return rt
}
