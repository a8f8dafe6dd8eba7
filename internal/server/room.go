package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	socketBufferSize  = 1024
	messageBufferSize = 10
)

var upgrader = &websocket.Upgrader{
	ReadBufferSize:  socketBufferSize,
	WriteBufferSize: socketBufferSize,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Room fans out JSON messages to the connected websocket clients.
type Room struct {
	forward chan []byte
	join    chan *client
	leave   chan *client
	clients map[*client]bool
	count   chan int
	done    chan struct{}
}

type client struct {
	socket *websocket.Conn
	send   chan []byte
}

func NewRoom() *Room {
	return &Room{
		forward: make(chan []byte),
		join:    make(chan *client),
		leave:   make(chan *client),
		clients: make(map[*client]bool),
		count:   make(chan int),
		done:    make(chan struct{}),
	}
}

func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			for c := range r.clients {
				close(c.send)
			}
			return
		case c := <-r.join:
			r.clients[c] = true
			log.Debugln("websocket client joined")
		case c := <-r.leave:
			if r.clients[c] {
				delete(r.clients, c)
				close(c.send)
				log.Debugln("websocket client left")
			}
		case msg := <-r.forward:
			for c := range r.clients {
				select {
				case c.send <- msg:
				default:
					log.Debugln("websocket client too slow, dropping message")
				}
			}
		case r.count <- len(r.clients):
		}
	}
}

// Broadcast sends v as JSON to all clients.
func (r *Room) Broadcast(ctx context.Context, v interface{}) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case r.forward <- bs:
		return nil
	case <-r.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Clients returns the number of connected clients.
func (r *Room) Clients() int {
	select {
	case n := <-r.count:
		return n
	case <-r.done:
		return 0
	}
}

func (r *Room) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	socket, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Warnln("websocket upgrade:", err)
		return
	}
	c := &client{
		socket: socket,
		send:   make(chan []byte, messageBufferSize),
	}
	select {
	case r.join <- c:
	case <-r.done:
		socket.Close()
		return
	}
	defer func() {
		select {
		case r.leave <- c:
		case <-r.done:
		}
	}()
	go c.write()
	c.read()
}

// read discards incoming messages until the connection fails.
func (c *client) read() {
	defer c.socket.Close()
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) write() {
	defer c.socket.Close()
	for msg := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
