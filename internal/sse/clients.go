// Package sse fans blog change events out to Server-Sent Events clients.
package sse

import (
	"sync"

	"github.com/debemdeboas/draftboard/internal/model"
)

// Client receives messages on Msg. A client with an empty BlogID hears
// about every blog.
type Client struct {
	Msg    chan string
	BlogID model.BlogID
}

func NewClient(id model.BlogID) *Client {
	return &Client{
		Msg:    make(chan string, 16),
		BlogID: id,
	}
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast delivers msg to every client interested in blogID. Slow
// clients drop messages instead of blocking the sender.
func (s *SSEClients) Broadcast(blogID model.BlogID, msg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		if client.BlogID == "" || client.BlogID == blogID {
			select {
			case client.Msg <- msg:
			default:
			}
		}
	}
}
