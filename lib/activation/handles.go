// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package activation

// handleArena records the live token objects of every connected
// client. A handle stays live from RequestToken until the client
// destroys the object or disconnects; a denied request releases its
// handle immediately after the failed reply.
//
// Registry and store entries keep their Handle by value and ask the
// arena whether it is still live before using it.
type handleArena struct {
	clients map[ClientID]map[ObjectID]struct{}
}

func newHandleArena() *handleArena {
	return &handleArena{clients: make(map[ClientID]map[ObjectID]struct{})}
}

// bind records a new live handle. Returns false if the client already
// has a live object with that id.
func (a *handleArena) bind(handle Handle) bool {
	objects, ok := a.clients[handle.Client]
	if !ok {
		objects = make(map[ObjectID]struct{})
		a.clients[handle.Client] = objects
	}
	if _, exists := objects[handle.Object]; exists {
		return false
	}
	objects[handle.Object] = struct{}{}
	return true
}

// live reports whether the handle's object still exists.
func (a *handleArena) live(handle Handle) bool {
	_, ok := a.clients[handle.Client][handle.Object]
	return ok
}

// release forgets one handle. Returns false if it was not live.
func (a *handleArena) release(handle Handle) bool {
	objects, ok := a.clients[handle.Client]
	if !ok {
		return false
	}
	if _, exists := objects[handle.Object]; !exists {
		return false
	}
	delete(objects, handle.Object)
	if len(objects) == 0 {
		delete(a.clients, handle.Client)
	}
	return true
}

// dropClient forgets every handle of a client and returns how many
// there were.
func (a *handleArena) dropClient(client ClientID) int {
	count := len(a.clients[client])
	delete(a.clients, client)
	return count
}

func (a *handleArena) len() int {
	count := 0
	for _, objects := range a.clients {
		count += len(objects)
	}
	return count
}
