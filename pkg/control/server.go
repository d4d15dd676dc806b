// Package control exposes the kiosk's command surface on a Unix domain
// socket so scripts and remote tooling can drive the presentation layer:
// navigation, screensaver, modal bracketing, config reload/save, and the
// overlay data queries.
//
// Protocol: the client sends one line, "command [arg1] [arg2] ...", and
// the server replies with a single JSON line: {"ok":true,"result":...} or
// {"ok":false,"error":"..."}.
package control

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
)

// Handler dispatches a parsed command into the application. Handlers run
// on the connection goroutine; implementations forward into the event
// loop and wait for the reply.
type Handler interface {
	HandleCommand(name string, args []string) (any, error)
}

// response is the JSON envelope for every reply line.
type response struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Server listens on a Unix domain socket for line-based commands.
type Server struct {
	socketPath string
	handler    Handler
	listener   net.Listener
	wg         sync.WaitGroup
	done       chan struct{}
	stopOnce   sync.Once
}

// NewServer creates a control server for socketPath.
func NewServer(socketPath string, handler Handler) *Server {
	return &Server{socketPath: socketPath, handler: handler, done: make(chan struct{})}
}

// Start begins accepting connections. Any stale socket file is removed
// first and the new one is restricted to the owner.
func (s *Server) Start() error {
	os.Remove(s.socketPath)

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("control: listen on %s: %w", s.socketPath, err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		ln.Close()
		return fmt.Errorf("control: chmod socket: %w", err)
	}
	s.listener = ln

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener, waits for in-flight connections, and removes
// the socket file. Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.socketPath)
	})
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		return
	}
	fields := strings.Fields(strings.TrimSpace(scanner.Text()))
	if len(fields) == 0 {
		return
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	result, err := s.handler.HandleCommand(name, args)
	var resp response
	if err != nil {
		resp = response{OK: false, Error: err.Error()}
	} else {
		resp = response{OK: true, Result: result}
	}
	data, merr := json.Marshal(resp)
	if merr != nil {
		data, _ = json.Marshal(response{OK: false, Error: merr.Error()})
	}
	fmt.Fprintf(conn, "%s\n", data)
}

// Client sends commands to a running kiosk. Each call opens a fresh
// connection.
type Client struct {
	socketPath string
}

// NewClient creates a client for the kiosk socket at socketPath.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Send issues one command line and returns the raw JSON reply.
func (c *Client) Send(line string) (string, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return "", fmt.Errorf("control: connect: %w", err)
	}
	defer conn.Close()

	fmt.Fprintf(conn, "%s\n", line)
	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("control: read reply: %w", err)
		}
		return "", fmt.Errorf("control: empty reply")
	}
	return scanner.Text(), nil
}
