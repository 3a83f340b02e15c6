package client

import (
	"sync"

	"ittybitycity/game/internal/proto"
)

// Inbox stages inbound control commands between the network reader and the
// frame loop in a fixed-size ring. It is safe for concurrent producers and a
// single consumer.
type Inbox struct {
	mu    sync.Mutex
	data  []proto.Command
	head  int
	tail  int
	count int
}

// NewInbox constructs a ring with the provided capacity.
func NewInbox(capacity int) *Inbox {
	if capacity < 1 {
		capacity = 1
	}
	return &Inbox{data: make([]proto.Command, capacity)}
}

// Push stages a command. When the ring is full the oldest command is evicted
// so fresh controller intent always wins; Push reports whether that happened.
func (b *Inbox) Push(cmd proto.Command) bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	evicted := false
	if b.count == len(b.data) {
		b.head = (b.head + 1) % len(b.data)
		b.count--
		evicted = true
	}
	b.data[b.tail] = cmd
	b.tail = (b.tail + 1) % len(b.data)
	b.count++
	return evicted
}

// Drain returns all staged commands in arrival order and clears the ring.
func (b *Inbox) Drain() []proto.Command {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == 0 {
		return nil
	}
	commands := make([]proto.Command, b.count)
	for i := 0; i < b.count; i++ {
		idx := (b.head + i) % len(b.data)
		commands[i] = b.data[idx]
	}
	b.head = 0
	b.tail = 0
	b.count = 0
	return commands
}

// Len reports the number of staged commands.
func (b *Inbox) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
