package objsync_test

import (
	"testing"
	"time"

	"github.com/binary1248/sfnul-go/address"
	"github.com/binary1248/sfnul-go/link"
	"github.com/binary1248/sfnul-go/objsync"
	"github.com/binary1248/sfnul-go/reactor"
	"github.com/binary1248/sfnul-go/socket/config"
	"github.com/binary1248/sfnul-go/socket/tcp"
)

const playerTypeID objsync.TypeID = 1

type player struct {
	obj   *objsync.Object
	name  *objsync.Field[string]
	score *objsync.Field[uint32]
	tick  *objsync.Field[uint32]
}

func newPlayer() *player {
	obj := objsync.NewObject(playerTypeID)
	p := &player{obj: obj}
	p.name = objsync.NewField(obj, objsync.Dynamic, "", objsync.EncodeString, objsync.DecodeString)
	p.score = objsync.NewField(obj, objsync.Dynamic, uint32(0), objsync.EncodeUint32, objsync.DecodeUint32)
	p.tick = objsync.NewField(obj, objsync.Stream, uint32(0), objsync.EncodeUint32, objsync.DecodeUint32)
	return p
}

func newPool(t *testing.T) *reactor.Pool {
	t.Helper()
	p := reactor.New(nil)
	if err := p.Start(4); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = p.Stop() })
	return p
}

func loopback() address.IpAddress {
	a, err := address.FromString("127.0.0.1")
	if err != nil {
		panic(err)
	}
	return a
}

func connectedLinks(t *testing.T, pool *reactor.Pool) (*link.Link, *link.Link) {
	t.Helper()
	buffers := config.DefaultBuffers()

	ln := tcp.NewListener(pool, nil, buffers)
	t.Cleanup(func() { _ = ln.Close() })

	accepted := make(chan *tcp.Socket, 1)
	if err := ln.Listen(address.Endpoint{Address: loopback(), Port: 0}, 0, func(s *tcp.Socket) {
		accepted <- s
	}); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	clientT := tcp.New(pool, nil, buffers)
	connected := make(chan error, 1)
	clientT.Connect(ln.Endpoint(), func(err error) { connected <- err })
	if err := <-connected; err != nil {
		t.Fatalf("Connect: %v", err)
	}

	var serverT *tcp.Socket
	select {
	case serverT = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}

	return link.New(pool, nil, clientT), link.New(pool, nil, serverT)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestCreateReplicatesToClient(t *testing.T) {
	pool := newPool(t)
	clientSideLink, serverSideLink := connectedLinks(t, pool)
	defer clientSideLink.Close()
	defer serverSideLink.Close()

	server := objsync.NewServer(nil)
	server.AddClient(serverSideLink)

	client := objsync.NewClient(nil)
	client.AddServer(clientSideLink)

	var created *player
	client.SetLifetimeManagers(playerTypeID,
		func() *objsync.Object {
			p := newPlayer()
			created = p
			return p.obj
		},
		func(*objsync.Object) {},
	)

	p := newPlayer()
	p.name.Set("alice")
	p.score.Set(10)
	server.AddObject(p.obj)

	waitFor(t, 2*time.Second, func() bool {
		server.Update()
		client.Update()
		return created != nil
	})

	if created.name.Get() != "alice" {
		t.Fatalf("replicated name = %q, want alice", created.name.Get())
	}
	if created.score.Get() != 10 {
		t.Fatalf("replicated score = %d, want 10", created.score.Get())
	}
	if created.obj.ID() != p.obj.ID() {
		t.Fatalf("replicated id = %d, want %d", created.obj.ID(), p.obj.ID())
	}
}

func TestUpdateReplicatesOnlyModifiedDynamicFields(t *testing.T) {
	pool := newPool(t)
	clientSideLink, serverSideLink := connectedLinks(t, pool)
	defer clientSideLink.Close()
	defer serverSideLink.Close()

	server := objsync.NewServer(nil)
	client := objsync.NewClient(nil)

	var replica *player
	client.SetLifetimeManagers(playerTypeID,
		func() *objsync.Object {
			p := newPlayer()
			replica = p
			return p.obj
		},
		func(*objsync.Object) {},
	)

	p := newPlayer()
	p.name.Set("bob")
	p.score.Set(1)
	server.AddObject(p.obj)
	server.AddClient(serverSideLink)
	client.AddServer(clientSideLink)

	waitFor(t, 2*time.Second, func() bool {
		server.Update()
		client.Update()
		return replica != nil
	})

	p.score.Set(99)
	waitFor(t, 2*time.Second, func() bool {
		server.Update()
		client.Update()
		return replica.score.Get() == 99
	})
	if replica.name.Get() != "bob" {
		t.Fatalf("name should be untouched by a score-only update, got %q", replica.name.Get())
	}
}

func TestDestroyInvokesDestructor(t *testing.T) {
	pool := newPool(t)
	clientSideLink, serverSideLink := connectedLinks(t, pool)
	defer clientSideLink.Close()
	defer serverSideLink.Close()

	server := objsync.NewServer(nil)
	client := objsync.NewClient(nil)

	destroyed := make(chan objsync.ObjectID, 1)
	client.SetLifetimeManagers(playerTypeID,
		func() *objsync.Object { return newPlayer().obj },
		func(o *objsync.Object) { destroyed <- o.ID() },
	)

	p := newPlayer()
	server.AddObject(p.obj)
	server.AddClient(serverSideLink)
	client.AddServer(clientSideLink)

	waitFor(t, 2*time.Second, func() bool {
		server.Update()
		client.Update()
		_, ok := client.Object(p.obj.ID())
		return ok
	})

	server.RemoveObject(p.obj)

	waitFor(t, 2*time.Second, func() bool {
		server.Update()
		client.Update()
		select {
		case id := <-destroyed:
			return id == p.obj.ID()
		default:
			return false
		}
	})
}

func TestCreateThenImmediateRemoveNeverSendsDestroy(t *testing.T) {
	pool := newPool(t)
	clientSideLink, serverSideLink := connectedLinks(t, pool)
	defer clientSideLink.Close()
	defer serverSideLink.Close()

	server := objsync.NewServer(nil)
	client := objsync.NewClient(nil)

	destroyed := false
	client.SetLifetimeManagers(playerTypeID,
		func() *objsync.Object { return newPlayer().obj },
		func(*objsync.Object) { destroyed = true },
	)

	p := newPlayer()
	server.AddObject(p.obj)
	server.RemoveObject(p.obj)
	server.AddClient(serverSideLink)
	client.AddServer(clientSideLink)

	server.Update()
	time.Sleep(100 * time.Millisecond)
	client.Update()

	if destroyed {
		t.Fatal("a Create collapsed by an immediate RemoveObject must never reach the client as a Destroy")
	}
}

func TestStreamFieldReplicatesOnPeriod(t *testing.T) {
	original := objsync.StreamPeriod
	objsync.StreamPeriod = 20 * time.Millisecond
	defer func() { objsync.StreamPeriod = original }()

	pool := newPool(t)
	clientSideLink, serverSideLink := connectedLinks(t, pool)
	defer clientSideLink.Close()
	defer serverSideLink.Close()

	server := objsync.NewServer(nil)
	client := objsync.NewClient(nil)

	var replica *player
	client.SetLifetimeManagers(playerTypeID,
		func() *objsync.Object {
			p := newPlayer()
			replica = p
			return p.obj
		},
		func(*objsync.Object) {},
	)

	p := newPlayer()
	server.AddObject(p.obj)
	server.AddClient(serverSideLink)
	client.AddServer(clientSideLink)

	waitFor(t, 2*time.Second, func() bool {
		server.Update()
		client.Update()
		return replica != nil
	})

	p.tick.Set(7)
	time.Sleep(30 * time.Millisecond)

	waitFor(t, 2*time.Second, func() bool {
		server.Update()
		client.Update()
		return replica.tick.Get() == 7
	})
}
