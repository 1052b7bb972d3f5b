// Package client drives the simulation between two peers through the relay:
// every frame each side sends its input, waits for the other's and steps the
// same world.
package client

import (
	"context"
	"duel/session"
	"duel/wire"
	"duel/world"
	"fmt"
	"log"

	"nhooyr.io/websocket"
)

// Peer is this end of a match: a relay connection past the hello/start
// handshake.
type Peer struct {
	ID     session.PeerID
	Match  string
	Handle world.Handle
	// Peers is indexed by handle and includes ID.
	Peers []session.PeerID

	c        *websocket.Conn
	messages chan *wire.Message
	err      error
	cancel   context.CancelFunc
	done     chan struct{}
}

// Dial joins the relay room at url and blocks until the room is full.
func Dial(ctx context.Context, url string, id session.PeerID) (*Peer, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	p, err := handshake(ctx, c, id)
	if err != nil {
		c.Close(websocket.StatusProtocolError, "handshake failed")
		return nil, err
	}

	readCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.readMessages(readCtx)
	return p, nil
}

func handshake(ctx context.Context, c *websocket.Conn, id session.PeerID) (*Peer, error) {
	hello := &wire.Message{Hello: &wire.Hello{Peer: id.String()}}
	if err := c.Write(ctx, websocket.MessageBinary, hello.Marshal()); err != nil {
		return nil, fmt.Errorf("send hello: %w", err)
	}
	_, data, err := c.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("await start: %w", err)
	}
	m, err := wire.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if m.Start == nil {
		return nil, fmt.Errorf("expected start, got %+v", m)
	}

	p := &Peer{
		ID:       id,
		Match:    m.Start.Match,
		Handle:   world.Handle(m.Start.Handle),
		c:        c,
		messages: make(chan *wire.Message, 1024),
		done:     make(chan struct{}),
	}
	if len(m.Start.Peers) != world.NumPlayers {
		return nil, fmt.Errorf("match %s has %d peers", p.Match, len(m.Start.Peers))
	}
	for _, s := range m.Start.Peers {
		peer, err := session.ParsePeerID(s)
		if err != nil {
			return nil, err
		}
		p.Peers = append(p.Peers, peer)
	}
	if int(p.Handle) >= len(p.Peers) || p.Peers[p.Handle] != id {
		return nil, fmt.Errorf("match %s: handle %d is not ours", p.Match, p.Handle)
	}
	log.Printf("match %s: playing as handle %d", p.Match, p.Handle)
	return p, nil
}

// SessionSeed is the seed every peer of the match derives from the same ids.
func (p *Peer) SessionSeed() uint64 {
	return session.Seed(p.Peers...)
}

func (p *Peer) Send(ctx context.Context, m *wire.Message) error {
	return p.c.Write(ctx, websocket.MessageBinary, m.Marshal())
}

// Next returns the next message from the other peer. Once the connection is
// gone it returns the error that ended it.
func (p *Peer) Next(ctx context.Context) (*wire.Message, error) {
	select {
	case m, ok := <-p.messages:
		if !ok {
			return nil, p.err
		}
		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Peer) Close() error {
	err := p.c.Close(websocket.StatusNormalClosure, "")
	p.cancel()
	<-p.done
	return err
}

// readMessages reads the relay's messages until the connection closes.
func (p *Peer) readMessages(ctx context.Context) {
	defer close(p.done)
	defer close(p.messages)
	for {
		messageType, data, err := p.c.Read(ctx)
		if err != nil {
			p.err = err
			return
		}
		if messageType != websocket.MessageBinary {
			continue
		}
		m, err := wire.Unmarshal(data)
		if err != nil {
			p.err = err
			return
		}
		select {
		case p.messages <- m:
		case <-ctx.Done():
			p.err = ctx.Err()
			return
		}
	}
}
