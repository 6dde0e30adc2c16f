package transport

import (
	"sync"

	"github.com/mqttsn-go/gateway"
)

// Bus is an in-process Transport fabric used by client/gateway engine
// tests so the state machines can be driven deterministically without a
// real socket (SPEC_FULL.md §5: loop() takes a caller-supplied clock and
// nonblocking I/O, which this satisfies trivially).
type Bus struct {
	mu    sync.Mutex
	peers map[string]*Memory
}

func NewBus() *Bus {
	return &Bus{peers: make(map[string]*Memory)}
}

// NewPeer registers addr on the bus and returns its Transport handle.
func (b *Bus) NewPeer(addr mqttsn.Address) *Memory {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := &Memory{addr: addr, bus: b, inbox: make(chan inboundPacket, inboundQueueDepth)}
	b.peers[addr.String()] = m
	return m
}

// Memory is one endpoint on a Bus.
type Memory struct {
	addr  mqttsn.Address
	bus   *Bus
	inbox chan inboundPacket
}

func (m *Memory) ReadPacket() ([]byte, mqttsn.Address) {
	select {
	case pkt := <-m.inbox:
		return pkt.data, pkt.src
	default:
		return nil, nil
	}
}

func (m *Memory) WritePacket(data []byte, dest mqttsn.Address) (int, error) {
	m.bus.mu.Lock()
	peer, ok := m.bus.peers[dest.String()]
	m.bus.mu.Unlock()
	if !ok {
		return 0, nil // unreachable address: dropped, matches a failed send
	}
	cp := append([]byte(nil), data...)
	select {
	case peer.inbox <- inboundPacket{data: cp, src: m.addr}:
	default:
	}
	return len(data), nil
}

func (m *Memory) Broadcast(data []byte) (int, error) {
	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()
	for addrStr, peer := range m.bus.peers {
		if addrStr == m.addr.String() {
			continue
		}
		cp := append([]byte(nil), data...)
		select {
		case peer.inbox <- inboundPacket{data: cp, src: m.addr}:
		default:
		}
	}
	return len(data), nil
}

func (m *Memory) LocalAddr() mqttsn.Address {
	return m.addr
}
