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

// Package link multiplexes up to 256 independent in-order byte streams over
// a single transport.Transport (spec §4.8). Every segment on the wire is
// `stream_id(u8) | length(u32 LE) | payload[length]`, length at most
// MaxSegmentPayload; a larger application write is chunked into back-to-back
// segments all carrying the same stream id, so a single Send call never
// interleaves with itself on the wire (concurrent Sends on distinct streams
// may still interleave at segment granularity).
package link

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/bits-and-blooms/bitset"

	"github.com/binary1248/sfnul-go/internal/metrics"
	"github.com/binary1248/sfnul-go/logger"
	"github.com/binary1248/sfnul-go/message"
	"github.com/binary1248/sfnul-go/reactor"
	"github.com/binary1248/sfnul-go/transport"
)

// MaxSegmentPayload is the largest payload a single segment may carry;
// longer writes are split across consecutive segments on the same stream.
const MaxSegmentPayload = 65535

// SyncStreamID is the stream id reserved for the object-synchronization
// protocol (spec §3 "Stream id": "ids ≥ 200 are reserved for library
// subsystems. The synchronizer occupies id 200").
const SyncStreamID uint8 = 200

const segmentHeaderSize = 5 // 1 byte stream id + 4 byte LE length

// reservedStreamFloor separates application streams (< 200) from
// library-reserved ones (>= 200).
const reservedStreamFloor uint8 = 200

// IsApplicationStream reports whether id is available for application use
// rather than reserved for a library subsystem such as the synchronizer.
func IsApplicationStream(id uint8) bool { return id < reservedStreamFloor }

// Link wraps one transport.Transport and multiplexes byte streams over it.
// It owns a background pump that drains the underlying transport's receive
// queue and a reactor.Strand that serializes the segment parser's state
// mutation, mirroring the same strand+Guard completion shape every other
// resource in this module uses.
type Link struct {
	pool       *reactor.Pool
	strand     *reactor.Strand
	alive      *reactor.Alive
	log        logger.Logger
	underlying transport.Transport

	sendMu sync.Mutex

	mu         sync.Mutex
	assembly   *message.Message
	active     bool
	activeID   uint8
	remaining  uint32
	queues     map[uint8]*message.Message
	pendingSet *bitset.BitSet
	closed     bool
}

// New returns a Link over underlying and starts its background receive
// pump. The Link owns underlying: Close closes it.
func New(pool *reactor.Pool, log logger.Logger, underlying transport.Transport) *Link {
	if log == nil {
		log = logger.Discard
	}
	l := &Link{
		pool:       pool,
		alive:      reactor.NewAlive(),
		log:        log.WithFields(logger.Fields{"component": "link"}),
		underlying: underlying,
		assembly:   message.New(),
		queues:     make(map[uint8]*message.Message),
		pendingSet: bitset.New(256),
	}
	l.strand = pool.NewStrand()
	go l.pump()
	return l
}

// Send chunks data into MaxSegmentPayload-sized segments tagged streamID and
// writes them to the underlying transport back to back. It returns false
// (and sends nothing further) the moment the underlying transport rejects a
// chunk, which can leave an earlier chunk of the same call already on the
// wire; transport.Transport exposes no pre-flight check against its hard
// threshold, so a fully atomic multi-segment send is not possible to
// guarantee without such a reservation primitive.
func (l *Link) Send(streamID uint8, data []byte) bool {
	l.sendMu.Lock()
	defer l.sendMu.Unlock()

	for len(data) > 0 {
		n := len(data)
		if n > MaxSegmentPayload {
			n = MaxSegmentPayload
		}
		if !l.sendSegment(streamID, data[:n]) {
			return false
		}
		data = data[n:]
	}
	return true
}

// SendMessage frames m with a 4-byte LE length prefix (on top of Link's own
// segment header) and sends it as streamID, so ReceiveMessage on the peer
// can recover the original message boundary independent of segment
// chunking.
func (l *Link) SendMessage(streamID uint8, m *message.Message) bool {
	return l.Send(streamID, message.Frame(m.Bytes()))
}

func (l *Link) sendSegment(streamID uint8, payload []byte) bool {
	header := [segmentHeaderSize]byte{}
	header[0] = streamID
	binary.LittleEndian.PutUint32(header[1:], uint32(len(payload)))

	framed := make([]byte, 0, segmentHeaderSize+len(payload))
	framed = append(framed, header[:]...)
	framed = append(framed, payload...)

	if !l.underlying.Send(framed) {
		return false
	}
	metrics.LinkSegments.WithLabelValues("send").Inc()
	return true
}

// Receive drains at most len(buf) bytes currently queued for streamID,
// returning the number of bytes copied. Zero means either the stream has
// nothing queued yet or the parser has not reached a segment for this
// stream id; the caller polls.
func (l *Link) Receive(streamID uint8, buf []byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	q, ok := l.queues[streamID]
	if !ok || q.Size() == 0 {
		return 0
	}
	n := len(buf)
	if uint32(n) > q.Size() {
		n = int(q.Size())
	}
	copy(buf, q.GetFront(n))
	q.PopFront(n)
	if q.Size() == 0 {
		l.pendingSet.Clear(uint(streamID))
	}
	return n
}

// ReceiveMessage yields a complete framed message from streamID's queue, or
// ok=false if no full frame is buffered yet.
func (l *Link) ReceiveMessage(streamID uint8) (m *message.Message, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	q, exists := l.queues[streamID]
	if !exists {
		return nil, false
	}
	payload, framed := message.Unframe(q)
	if !framed {
		return nil, false
	}
	if q.Size() == 0 {
		l.pendingSet.Clear(uint(streamID))
	}
	return message.New(payload...), true
}

// PendingStreams returns the ids that currently have unread bytes queued.
func (l *Link) PendingStreams() []uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var ids []uint8
	for id, ok := l.pendingSet.NextSet(0); ok; id, ok = l.pendingSet.NextSet(id + 1) {
		ids = append(ids, uint8(id))
	}
	return ids
}

// Shutdown delegates to the underlying transport; half-closed streams
// cannot be reopened on the same Link, only on a new underlying transport.
func (l *Link) Shutdown() { l.underlying.Shutdown() }

// Close stops the receive pump and closes the underlying transport.
func (l *Link) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.alive.Clear()
	return l.underlying.Close()
}

// Underlying exposes the wrapped transport, e.g. so a caller can inspect
// LocalEndpoint/RemoteEndpoint or connection state.
func (l *Link) Underlying() transport.Transport { return l.underlying }

func (l *Link) pump() {
	buf := make([]byte, 64*1024)
	for {
		if !l.alive.Load() {
			return
		}
		n := l.underlying.Receive(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			l.strand.Post(reactor.Guard(l.alive, func() { l.onBytes(chunk) }))
			continue
		}
		if l.underlying.RemoteHasShutdown() {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func (l *Link) onBytes(chunk []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.assembly.Append(chunk)
	for {
		if !l.active {
			if l.assembly.Size() < segmentHeaderSize {
				return
			}
			header := l.assembly.GetFront(segmentHeaderSize)
			l.assembly.PopFront(segmentHeaderSize)
			l.activeID = header[0]
			l.remaining = binary.LittleEndian.Uint32(header[1:])
			l.active = true
			metrics.LinkSegments.WithLabelValues("receive").Inc()
		}

		if l.remaining == 0 {
			l.active = false
			continue
		}

		avail := l.assembly.Size()
		if avail == 0 {
			return
		}
		take := avail
		if take > l.remaining {
			take = l.remaining
		}
		payload := l.assembly.GetFront(int(take))
		l.assembly.PopFront(int(take))

		q, ok := l.queues[l.activeID]
		if !ok {
			q = message.New()
			l.queues[l.activeID] = q
		}
		q.Append(payload)
		l.pendingSet.Set(uint(l.activeID))

		l.remaining -= take
		if l.remaining == 0 {
			l.active = false
		}
	}
}

