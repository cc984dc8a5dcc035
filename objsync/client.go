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

// Factory produces a fresh, unattached Object of the type registered for a
// given TypeID, with its Fields already constructed via NewField in
// declaration order.
type Factory func() *Object

// Destructor releases an Object the client no longer replicates.
type Destructor func(*Object)

// Client is the replica side of the Synchronizer protocol. It only applies
// deltas decoded from stream 200 of every attached server Link; it never
// originates a delta itself.
type Client struct {
	log logger.Logger

	mu          sync.Mutex
	objects     map[ObjectID]*Object
	factories   map[TypeID]Factory
	destructors map[TypeID]Destructor
	links       map[*link.Link]struct{}
}

// NewClient returns an empty Client.
func NewClient(log logger.Logger) *Client {
	if log == nil {
		log = logger.Discard
	}
	return &Client{
		log:         log.WithFields(logger.Fields{"component": "objsync/client"}),
		objects:     make(map[ObjectID]*Object),
		factories:   make(map[TypeID]Factory),
		destructors: make(map[TypeID]Destructor),
		links:       make(map[*link.Link]struct{}),
	}
}

// SetLifetimeManagers registers the factory/destructor pair used whenever a
// Create or Destroy for typeID arrives.
func (c *Client) SetLifetimeManagers(typeID TypeID, factory Factory, destructor Destructor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[typeID] = factory
	c.destructors[typeID] = destructor
}

// AddServer attaches serverLink as a source of replication deltas.
func (c *Client) AddServer(serverLink *link.Link) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links[serverLink] = struct{}{}
}

// RemoveServer detaches serverLink. No protocol message is sent.
func (c *Client) RemoveServer(serverLink *link.Link) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.links, serverLink)
}

// Object looks up a locally known replica by id.
func (c *Client) Object(id ObjectID) (*Object, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.objects[id]
	return o, ok
}

// Update drains every attached server Link's stream 200 and applies each
// decoded delta in arrival order.
func (c *Client) Update() {
	c.mu.Lock()
	links := make([]*link.Link, 0, len(c.links))
	for serverLink := range c.links {
		links = append(links, serverLink)
	}
	c.mu.Unlock()

	for _, serverLink := range links {
		for {
			msg, ok := serverLink.ReceiveMessage(link.SyncStreamID)
			if !ok {
				break
			}
			c.applyDelta(msg)
		}
	}
}

func (c *Client) applyDelta(m *message.Message) {
	switch op(popUint8(m)) {
	case opCreate:
		c.applyCreate(m)
	case opUpdate:
		c.applyUpdate(m)
	case opDestroy:
		c.applyDestroy(m)
	default:
		c.log.Warning("unknown synchronizer opcode", nil)
	}
}

func (c *Client) applyCreate(m *message.Message) {
	typeID := TypeID(popUint32(m))
	id := ObjectID(popUint32(m))

	c.mu.Lock()
	factory, ok := c.factories[typeID]
	c.mu.Unlock()
	if !ok {
		c.log.Warning("unknown type_id in Create", logger.Fields{"type_id": uint32(typeID)})
		return
	}

	object := factory()
	object.mu.Lock()
	object.id = id
	object.typeID = typeID
	object.mu.Unlock()

	for _, mem := range object.memberSnapshot() {
		_ = popUint8(m)
		mem.decode(m)
	}

	c.mu.Lock()
	c.objects[id] = object
	c.mu.Unlock()
}

func (c *Client) applyUpdate(m *message.Message) {
	id := ObjectID(popUint32(m))

	c.mu.Lock()
	object, ok := c.objects[id]
	c.mu.Unlock()
	if !ok {
		c.log.Warning("object_id not found for Update", logger.Fields{"object_id": uint32(id)})
		return
	}

	members := object.memberSnapshot()
	maskLen := (len(members) + 7) / 8
	mask := m.GetFront(maskLen)
	m.PopFront(maskLen)

	for i, mem := range members {
		if mask[i/8]&(1<<uint(i%8)) == 0 {
			continue
		}
		_ = popUint8(m)
		mem.decode(m)
	}
}

func (c *Client) applyDestroy(m *message.Message) {
	id := ObjectID(popUint32(m))

	c.mu.Lock()
	object, ok := c.objects[id]
	delete(c.objects, id)
	c.mu.Unlock()
	if !ok {
		c.log.Warning("object_id not found for Destroy", logger.Fields{"object_id": uint32(id)})
		return
	}

	c.mu.Lock()
	destructor := c.destructors[object.TypeID()]
	c.mu.Unlock()
	if destructor != nil {
		destructor(object)
	}
}
