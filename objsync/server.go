/*
 * MIT License
 *
 * Copyright (c) 2026 sfnul-go contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package objsync

import (
	"sync"

	"github.com/binary1248/sfnul-go/link"
	"github.com/binary1248/sfnul-go/logger"
	"github.com/binary1248/sfnul-go/message"
)

// op is the Synchronizer wire opcode (spec §4.9): Create=100, Update=101,
// Destroy=102.
type op uint8

const (
	opCreate  op = 100
	opUpdate  op = 101
	opDestroy op = 102
)

// Server is the authoritative side of the Synchronizer protocol. The
// application creates, mutates and destroys Objects locally; Server queues
// the resulting deltas and broadcasts them to every attached client Link on
// each Update call.
type Server struct {
	log logger.Logger

	mu           sync.Mutex
	objects      map[ObjectID]*Object
	pending      map[ObjectID]op
	pendingOrder []ObjectID
	links        map[*link.Link]struct{}
}

// NewServer returns an empty Server.
func NewServer(log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard
	}
	return &Server{
		log:     log.WithFields(logger.Fields{"component": "objsync/server"}),
		objects: make(map[ObjectID]*Object),
		pending: make(map[ObjectID]op),
		links:   make(map[*link.Link]struct{}),
	}
}

// AddObject attaches object, assigning it a fresh ObjectID and queuing a
// Create for the next Update.
func (s *Server) AddObject(object *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := nextObjectID()
	object.mu.Lock()
	object.id = id
	object.server = s
	object.mu.Unlock()

	s.objects[id] = object
	s.markPendingLocked(id, opCreate)
}

// RemoveObject detaches object, collapsing its pending delta per the rules
// of spec §3: a still-pending Create is simply dropped (the peer never
// learned of the object), anything else becomes a Destroy.
func (s *Server) RemoveObject(object *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := object.ID()
	if kind, exists := s.pending[id]; exists && kind == opCreate {
		delete(s.pending, id)
	} else {
		s.markPendingLocked(id, opDestroy)
	}
	delete(s.objects, id)

	object.mu.Lock()
	object.server = nil
	object.mu.Unlock()
}

func (s *Server) notifyChanged(object *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := object.ID()
	if kind, exists := s.pending[id]; exists && kind == opCreate {
		return
	}
	s.markPendingLocked(id, opUpdate)
}

// markPendingLocked records kind for id, appending id to the flush order
// only the first time it is seen since the last flush, so pending deltas
// are emitted in first-change order.
func (s *Server) markPendingLocked(id ObjectID, kind op) {
	if _, exists := s.pending[id]; !exists {
		s.pendingOrder = append(s.pendingOrder, id)
	}
	s.pending[id] = kind
}

// AddClient attaches client_link, sending it an immediate Create for every
// currently live object as a catch-up snapshot (spec §4.9 step 5).
func (s *Server) AddClient(clientLink *link.Link) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.links[clientLink]; exists {
		return
	}
	s.links[clientLink] = struct{}{}

	for _, object := range s.objects {
		clientLink.SendMessage(link.SyncStreamID, encodeCreate(object))
	}
}

// RemoveClient detaches client_link. No protocol message is sent.
func (s *Server) RemoveClient(clientLink *link.Link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, clientLink)
}

// Update scans attached objects for Stream members whose period has
// elapsed, then flushes the pending delta map to every attached client
// Link in first-change order, dropping any Link whose underlying transport
// is no longer connected.
func (s *Server) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, object := range s.objects {
		if object.streamDue() {
			if kind, exists := s.pending[id]; !exists || kind != opCreate {
				s.markPendingLocked(id, opUpdate)
			}
		}
	}

	order := s.pendingOrder
	pending := s.pending
	s.pending = make(map[ObjectID]op)
	s.pendingOrder = nil

	for clientLink := range s.links {
		u := clientLink.Underlying()
		if u.RemoteHasShutdown() || u.LocalHasShutdown() {
			delete(s.links, clientLink)
		}
	}
	links := make([]*link.Link, 0, len(s.links))
	for clientLink := range s.links {
		links = append(links, clientLink)
	}
	objects := s.objects

	for _, id := range order {
		kind, ok := pending[id]
		if !ok {
			continue
		}

		var msg *message.Message
		switch kind {
		case opCreate:
			object, exists := objects[id]
			if !exists {
				continue
			}
			msg = encodeCreate(object)
		case opUpdate:
			object, exists := objects[id]
			if !exists {
				continue
			}
			msg = encodeUpdate(object)
			if msg == nil {
				continue
			}
		case opDestroy:
			msg = encodeDestroy(id)
		}

		for _, clientLink := range links {
			clientLink.SendMessage(link.SyncStreamID, msg)
		}
	}
}

func encodeCreate(o *Object) *message.Message {
	members := o.memberSnapshot()

	m := message.New()
	m.PutUint8(uint8(opCreate))
	putUint32(m, uint32(o.TypeID()))
	putUint32(m, uint32(o.ID()))

	for _, mem := range members {
		m.PutUint8(uint8(mem.class()))
		mem.encode(m)
		mem.clearModified()
	}

	if o.hasStream {
		o.markStreamEmitted()
	}
	return m
}

// encodeUpdate returns nil if there is nothing currently due to send: every
// Dynamic member is unmodified and no Stream member's period has elapsed.
func encodeUpdate(o *Object) *message.Message {
	members := o.memberSnapshot()
	streamDue := o.streamDue()

	present := make([]bool, len(members))
	any := false
	for i, mem := range members {
		switch mem.class() {
		case Dynamic:
			present[i] = mem.modified()
		case Stream:
			present[i] = streamDue
		}
		if present[i] {
			any = true
		}
	}
	if !any {
		return nil
	}

	m := message.New()
	m.PutUint8(uint8(opUpdate))
	putUint32(m, uint32(o.ID()))

	mask := make([]byte, (len(present)+7)/8)
	for i, p := range present {
		if p {
			mask[i/8] |= 1 << uint(i%8)
		}
	}
	m.Append(mask)

	for i, mem := range members {
		if !present[i] {
			continue
		}
		m.PutUint8(uint8(mem.class()))
		mem.encode(m)
		mem.clearModified()
	}

	if streamDue {
		o.markStreamEmitted()
	}
	return m
}

func encodeDestroy(id ObjectID) *message.Message {
	m := message.New()
	m.PutUint8(uint8(opDestroy))
	putUint32(m, uint32(id))
	return m
}
