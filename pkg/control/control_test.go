package control

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

type recordingHandler struct {
	name string
	args []string
	out  any
	err  error
}

func (h *recordingHandler) HandleCommand(name string, args []string) (any, error) {
	h.name = name
	h.args = args
	return h.out, h.err
}

func startTestServer(t *testing.T, h Handler) (*Server, string) {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "signpost.sock")
	srv := NewServer(sock, h)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv, sock
}

func TestServerRoundTrip(t *testing.T) {
	h := &recordingHandler{out: map[string]any{"index": 2}}
	_, sock := startTestServer(t, h)

	reply, err := NewClient(sock).Send("go-to-slide 2")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if h.name != "go-to-slide" {
		t.Errorf("handler saw command %q, want go-to-slide", h.name)
	}
	if len(h.args) != 1 || h.args[0] != "2" {
		t.Errorf("handler saw args %v, want [2]", h.args)
	}

	var resp struct {
		OK     bool           `json:"ok"`
		Result map[string]any `json:"result"`
	}
	if err := json.Unmarshal([]byte(reply), &resp); err != nil {
		t.Fatalf("bad reply %q: %v", reply, err)
	}
	if !resp.OK {
		t.Errorf("reply not ok: %s", reply)
	}
	if resp.Result["index"] != float64(2) {
		t.Errorf("result = %v", resp.Result)
	}
}

func TestServerCommandsAreCaseInsensitive(t *testing.T) {
	h := &recordingHandler{}
	_, sock := startTestServer(t, h)

	if _, err := NewClient(sock).Send("NEXT-SLIDE"); err != nil {
		t.Fatal(err)
	}
	if h.name != "next-slide" {
		t.Errorf("command normalized to %q, want next-slide", h.name)
	}
}

func TestServerReportsHandlerError(t *testing.T) {
	h := &recordingHandler{err: errors.New("slide index out of range")}
	_, sock := startTestServer(t, h)

	reply, err := NewClient(sock).Send("go-to-slide 99")
	if err != nil {
		t.Fatal(err)
	}
	var resp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(reply), &resp); err != nil {
		t.Fatalf("bad reply %q: %v", reply, err)
	}
	if resp.OK {
		t.Error("expected ok=false for handler error")
	}
	if resp.Error != "slide index out of range" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestServerReplacesStaleSocket(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "signpost.sock")
	if err := os.WriteFile(sock, []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}

	srv := NewServer(sock, &recordingHandler{})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start over stale socket: %v", err)
	}
	defer srv.Stop()

	if _, err := NewClient(sock).Send("get-current-slide"); err != nil {
		t.Fatalf("Send after stale replacement: %v", err)
	}
}

func TestServerStopRemovesSocket(t *testing.T) {
	srv, sock := startTestServer(t, &recordingHandler{})
	srv.Stop()
	if _, err := os.Stat(sock); !os.IsNotExist(err) {
		t.Errorf("socket still present after Stop: %v", err)
	}
	// Second Stop must be a no-op.
	srv.Stop()
}

func TestAcquireReleasePID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "signpost.pid")

	if err := AcquirePID(path); err != nil {
		t.Fatalf("AcquirePID: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != strconv.Itoa(os.Getpid()) {
		t.Errorf("PID file holds %q, want own PID", data)
	}

	// Our own process is alive, so a second acquire must refuse.
	if err := AcquirePID(path); err == nil {
		t.Error("second AcquirePID succeeded while holder is alive")
	}

	if err := ReleasePID(path); err != nil {
		t.Fatalf("ReleasePID: %v", err)
	}
	if err := ReleasePID(path); err != nil {
		t.Errorf("ReleasePID on missing file: %v", err)
	}
}

func TestAcquirePIDReplacesDeadHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signpost.pid")
	// PID 1 rejects signals from unprivileged tests on most systems, but a
	// guaranteed-dead PID is simpler: use an absurdly large value.
	if err := os.WriteFile(path, []byte("999999999"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := AcquirePID(path); err != nil {
		t.Fatalf("AcquirePID over dead holder: %v", err)
	}
	defer ReleasePID(path)

	data, _ := os.ReadFile(path)
	if string(data) != strconv.Itoa(os.Getpid()) {
		t.Errorf("PID file holds %q after takeover", data)
	}
}
