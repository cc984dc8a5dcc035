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

// Package objsync replicates a set of typed objects from an authoritative
// Server to many Clients over a dedicated link.Link stream (spec §4.9
// "Synchronizer"). Application code builds its own struct embedding or
// holding an *Object, registers typed Field members on it, and drives the
// replication with Server.Update / Client.Update on its own schedule.
package objsync

import (
	"sync"
	"time"
)

// TypeID identifies an application-defined object shape; factories and
// destructors on the client side are registered per TypeID.
type TypeID uint32

// ObjectID uniquely identifies one SyncedObject within a process, assigned
// by the server on creation and carried unchanged to every client replica.
type ObjectID uint32

var lastObjectID uint32
var lastObjectIDMu sync.Mutex

func nextObjectID() ObjectID {
	lastObjectIDMu.Lock()
	defer lastObjectIDMu.Unlock()
	lastObjectID++
	return ObjectID(lastObjectID)
}

// Object is one replicated instance (spec §3 "SyncedObject"). Application
// types hold one by value or pointer and register Fields on it via
// NewField; Object itself carries no application data.
type Object struct {
	mu sync.Mutex

	id     ObjectID
	typeID TypeID

	members []member

	hasStream      bool
	lastStreamEmit time.Time

	server *Server
}

// NewObject returns an unattached Object of the given type. Attach it to a
// Server with Server.AddObject to make it live and assign its ObjectID;
// client-side Objects are instead produced by a registered factory and
// never need NewObject directly.
func NewObject(typeID TypeID) *Object {
	return &Object{typeID: typeID}
}

// ID returns the object's id, valid once attached to a Server or decoded
// from a Create message on a Client.
func (o *Object) ID() ObjectID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.id
}

// TypeID returns the application-supplied type identifier.
func (o *Object) TypeID() TypeID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.typeID
}

func (o *Object) registerMember(m member) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.members = append(o.members, m)
	if m.class() == Stream && !o.hasStream {
		o.hasStream = true
		o.lastStreamEmit = time.Now()
	}
}

func (o *Object) notifyChanged() {
	o.mu.Lock()
	srv := o.server
	o.mu.Unlock()
	if srv != nil {
		srv.notifyChanged(o)
	}
}

func (o *Object) memberSnapshot() []member {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]member, len(o.members))
	copy(out, o.members)
	return out
}

func (o *Object) streamDue() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hasStream && time.Since(o.lastStreamEmit) >= StreamPeriod
}

func (o *Object) markStreamEmitted() {
	o.mu.Lock()
	o.lastStreamEmit = time.Now()
	o.mu.Unlock()
}
