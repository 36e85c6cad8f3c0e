package devserver

import (
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// record is a site exactly as the client sent it, plus id and timestamps
type record map[string]any

// collection is an ordered in-memory store of records
type collection struct {
	name   string // display name used in error messages
	prefix string // id prefix
	lock   sync.RWMutex
	items  map[string]record
	order  []string
}

func newCollection(name, prefix string) *collection {
	return &collection{
		name:   name,
		prefix: prefix,
		items:  make(map[string]record),
	}
}

func (c *collection) list() []record {
	c.lock.RLock()
	defer c.lock.RUnlock()

	out := make([]record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, maps.Clone(c.items[id]))
	}
	return out
}

func (c *collection) get(id string) (record, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	rec, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return maps.Clone(rec), true
}

func (c *collection) create(rec record) record {
	c.lock.Lock()
	defer c.lock.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	stored := maps.Clone(rec)
	id := c.prefix + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
	stored["id"] = id
	stored["createdAt"] = now
	stored["updatedAt"] = now

	c.items[id] = stored
	c.order = append(c.order, id)
	return maps.Clone(stored)
}

// update merges rec into the stored record. id and createdAt cannot be changed.
func (c *collection) update(id string, rec record) (record, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	stored, ok := c.items[id]
	if !ok {
		return nil, false
	}
	for k, v := range rec {
		if k == "id" || k == "createdAt" {
			continue
		}
		stored[k] = v
	}
	stored["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	return maps.Clone(stored), true
}

func (c *collection) delete(id string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection) count() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.items)
}
