// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package watch streams live verification traces to browsers.
//
// A Server subscribes to an environment's analysis ports, zips the driver
// and monitor streams into per tick frames and broadcasts them as JSON
// over websockets. It is a pure observer: the run neither knows about it
// nor waits for it beyond the ports' buffering.
//
package watch

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dverif/ringtb"
)

// A Frame is one tick's worth of trace data: the signals the driver
// applied and the output the monitor sampled.
//
type Frame struct {
	Tick        uint64 `json:"tick"`
	WriteEnable bool   `json:"we"`
	ReadEnable  bool   `json:"re"`
	WriteData   byte   `json:"wdata"`
	ReadData    byte   `json:"rdata"`
}

// A Server broadcasts frames to connected websocket clients. It is an
// http.Handler for the websocket endpoint itself; Page serves a minimal
// live view connecting back to it.
//
type Server struct {
	// ErrorLog optionally specifies a logger for transport errors. If
	// nil, logging goes to the log package's standard logger.
	ErrorLog *log.Logger

	upgrader  websocket.Upgrader
	register  chan *websocket.Conn
	remove    chan *websocket.Conn
	broadcast chan []byte

	cmu     sync.Mutex
	clients map[*websocket.Conn]bool

	mu   sync.Mutex
	last []byte

	wg sync.WaitGroup
}

// NewServer returns a running server with no clients.
//
func NewServer() *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		register:  make(chan *websocket.Conn),
		remove:    make(chan *websocket.Conn),
		broadcast: make(chan []byte, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
	go s.run()
	return s
}

func (s *Server) logf(format string, v ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, v...)
		return
	}
	log.Printf(format, v...)
}

func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.cmu.Lock()
			s.clients[conn] = true
			s.cmu.Unlock()
		case conn := <-s.remove:
			s.cmu.Lock()
			if _, ok := s.clients[conn]; ok {
				delete(s.clients, conn)
				conn.Close()
			}
			s.cmu.Unlock()
		case msg := <-s.broadcast:
			s.cmu.Lock()
			for conn := range s.clients {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					s.logf("watch: send: %v", err)
					delete(s.clients, conn)
					conn.Close()
				}
			}
			s.cmu.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
//
func (s *Server) ClientCount() int {
	s.cmu.Lock()
	defer s.cmu.Unlock()
	return len(s.clients)
}

// Attach subscribes the server to env's analysis ports and starts the
// frame pump. It must be called before the run starts. Broadcasting is
// best effort: when clients cannot keep up, frames are dropped rather
// than slowing the run down.
//
func (s *Server) Attach(env *ringtb.Env) {
	ds := env.DriverPort().Subscribe(256)
	ms := env.MonitorPort().Subscribe(256)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for sig := range ds.C() {
			o, ok := <-ms.C()
			if !ok {
				return
			}
			data, err := json.Marshal(Frame{
				Tick:        o.Tick,
				WriteEnable: sig.WriteEnable,
				ReadEnable:  sig.ReadEnable,
				WriteData:   sig.WriteData,
				ReadData:    o.Data,
			})
			if err != nil {
				s.logf("watch: marshal: %v", err)
				continue
			}
			s.mu.Lock()
			s.last = data
			s.mu.Unlock()
			select {
			case s.broadcast <- data:
			default:
				// dropping beats stalling the run
			}
		}
	}()
}

// Wait blocks until the frame pump has drained both ports; the run closes
// them when it ends.
//
func (s *Server) Wait() {
	s.wg.Wait()
}

// ServeHTTP upgrades the connection to a websocket and feeds it frames,
// starting with the most recent one. Inbound messages are read and
// discarded; the trace is one way.
//
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logf("watch: upgrade: %v", err)
		return
	}

	// Send the latest frame before registering: from registration on, the
	// run loop is the connection's only writer.
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if last != nil {
		if err := conn.WriteMessage(websocket.TextMessage, last); err != nil {
			conn.Close()
			return
		}
	}
	s.register <- conn

	go func() {
		defer func() { s.remove <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					s.logf("watch: read: %v", err)
				}
				return
			}
		}
	}()
}
