// Package server is the relay two peers use to find each other. It never
// runs the simulation: it pairs the first two connections of a room, tells
// them who they are playing and then forwards every message from one to the
// other.
package server

import (
	"context"
	"duel/wire"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

const seatsPerRoom = 2

var ErrRoomFull = errors.New("room is full")

type subscriber struct {
	Messages chan []byte
	PeerID   string
	c        *websocket.Conn
	once     sync.Once
}

func (sub *subscriber) closeMessages() {
	sub.once.Do(func() { close(sub.Messages) })
}

type room struct {
	name  string
	match string
	seats []*subscriber
}

type Server struct {
	rooms    map[string]*room
	mu       sync.Mutex
	serveMux http.ServeMux
	accept   websocket.AcceptOptions
}

// NewServer returns a relay. originPatterns is passed to websocket.Accept;
// same-origin and non-browser clients are always allowed.
func NewServer(originPatterns []string) *Server {
	s := &Server{
		rooms:  make(map[string]*room),
		accept: websocket.AcceptOptions{OriginPatterns: originPatterns},
	}
	s.serveMux.HandleFunc("/", s.onConnection)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.serveMux.ServeHTTP(w, r)
}

func (s *Server) onConnection(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(r.URL.Path, "/")
	if name == "" {
		http.Error(w, "missing room", http.StatusNotFound)
		return
	}
	c, err := websocket.Accept(w, r, &s.accept)
	if err != nil {
		log.Println(err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "")

	err = s.handleConnection(r.Context(), name, c)
	switch {
	case errors.Is(err, ErrRoomFull):
		c.Close(websocket.StatusTryAgainLater, err.Error())
	case err != nil && websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled):
		log.Printf("room %s: %v", name, err)
	default:
		c.Close(websocket.StatusNormalClosure, "")
	}
}

func (s *Server) handleConnection(ctx context.Context, name string, c *websocket.Conn) error {
	hello, err := readHello(ctx, c)
	if err != nil {
		return err
	}
	sub := &subscriber{
		Messages: make(chan []byte, 1024),
		PeerID:   hello.Peer,
		c:        c,
	}
	rm, err := s.join(name, sub)
	if err != nil {
		return err
	}
	defer s.leave(rm, sub)

	readErr := make(chan error, 1)
	go func() {
		// The peer leaving ends the room for both seats.
		defer s.leave(rm, sub)
		for {
			_, data, err := c.Read(ctx)
			if err != nil {
				readErr <- err
				return
			}
			s.forward(rm, sub, data)
		}
	}()

	for {
		select {
		case msg, ok := <-sub.Messages:
			if !ok {
				return nil
			}
			if err := c.Write(ctx, websocket.MessageBinary, msg); err != nil {
				return err
			}
		case err := <-readErr:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func readHello(ctx context.Context, c *websocket.Conn) (*wire.Hello, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, data, err := c.Read(ctx)
	if err != nil {
		return nil, err
	}
	m, err := wire.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if m.Hello == nil {
		return nil, fmt.Errorf("expected hello, got %+v", m)
	}
	return m.Hello, nil
}

// join seats sub in the named room. The second arrival starts the match.
func (s *Server) join(name string, sub *subscriber) (*room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm := s.rooms[name]
	if rm == nil {
		rm = &room{name: name}
		s.rooms[name] = rm
	}
	if len(rm.seats) == seatsPerRoom {
		return nil, ErrRoomFull
	}
	rm.seats = append(rm.seats, sub)
	log.Printf("room %s: peer %s took seat %d", name, sub.PeerID, len(rm.seats)-1)
	if len(rm.seats) < seatsPerRoom {
		return rm, nil
	}

	rm.match = uuid.NewString()
	peers := make([]string, 0, seatsPerRoom)
	for _, seat := range rm.seats {
		peers = append(peers, seat.PeerID)
	}
	for handle, seat := range rm.seats {
		seat.Messages <- (&wire.Message{Start: &wire.Start{
			Match:  rm.match,
			Handle: uint32(handle),
			Peers:  peers,
		}}).Marshal()
	}
	log.Printf("room %s: match %s started", name, rm.match)
	return rm, nil
}

// leave closes the room. Seats still connected get their message channel
// closed, so whatever is already queued is written before they hang up.
func (s *Server) leave(rm *room, sub *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rooms[rm.name] == rm {
		delete(s.rooms, rm.name)
		log.Printf("room %s: closed by peer %s", rm.name, sub.PeerID)
	}
	for _, seat := range rm.seats {
		seat.closeMessages()
	}
}

func (s *Server) forward(rm *room, from *subscriber, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rooms[rm.name] != rm || len(rm.seats) < seatsPerRoom {
		return
	}
	for _, seat := range rm.seats {
		if seat == from {
			continue
		}
		select {
		case seat.Messages <- data:
		default:
			seat.c.Close(websocket.StatusPolicyViolation, "write would block")
		}
	}
}

func Run(args []string) error {
	log.SetFlags(log.LstdFlags | log.Llongfile)
	address := "localhost:4242"
	if len(args) > 1 {
		address = args[1]
	}
	return ListenAndServe(address, nil)
}

// ListenAndServe runs the relay on address until it fails or the process is
// interrupted.
func ListenAndServe(address string, originPatterns []string) error {
	l, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	log.Printf("Listening on ws://%v", l.Addr())
	s := &http.Server{
		Handler:           NewServer(originPatterns),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- s.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	select {
	case err := <-errc:
		log.Println(err)
	case sig := <-sigs:
		log.Printf("terminating: %v", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
