package transport

import (
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/mqttsn-go/gateway"
)

const inboundQueueDepth = 256

// UDP is a concrete Transport over net.UDPConn. A background goroutine
// drains the socket and feeds a buffered channel so ReadPacket never
// blocks, the same split the teacher uses between its accept goroutine
// and the per-connection serve goroutine (server.go, conn.go).
type UDP struct {
	conn      *net.UDPConn
	broadcast *net.UDPAddr
	local     mqttsn.Address

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	inbox  chan inboundPacket
}

type inboundPacket struct {
	data []byte
	src  mqttsn.Address
}

// NewUDP binds a UDP socket at bindAddr (host:port) and resolves
// broadcastAddr for outgoing Broadcast calls.
func NewUDP(bindAddr, broadcastAddr string) (*UDP, error) {
	laddr, err := net.ResolveUDPAddr("udp", bindAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve bind addr: %w", err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen: %w", err)
	}
	baddr, err := net.ResolveUDPAddr("udp", broadcastAddr)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("transport: resolve broadcast addr: %w", err)
	}

	u := &UDP{
		conn:      conn,
		broadcast: baddr,
		local:     mqttsn.Address(conn.LocalAddr().String()),
		done:      make(chan struct{}),
		inbox:     make(chan inboundPacket, inboundQueueDepth),
	}
	go u.readLoop()
	return u, nil
}

func (u *UDP) readLoop() {
	buf := make([]byte, 512)
	for {
		n, raddr, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-u.done:
				return
			default:
				log.Printf("[TRANSPORT_READ_ERROR] %v", err)
				continue
			}
		}
		src := mqttsn.Address(raddr.String())
		if src.Equal(u.local) {
			continue // self-send suppression, SPEC_FULL.md §9
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		select {
		case u.inbox <- inboundPacket{data: data, src: src}:
		default:
			log.Printf("[TRANSPORT_INBOX_FULL] dropping packet from %s", src)
		}
	}
}

func (u *UDP) ReadPacket() ([]byte, mqttsn.Address) {
	select {
	case pkt := <-u.inbox:
		return pkt.data, pkt.src
	default:
		return nil, nil
	}
}

func (u *UDP) WritePacket(data []byte, dest mqttsn.Address) (int, error) {
	addr, err := net.ResolveUDPAddr("udp", dest.String())
	if err != nil {
		return 0, err
	}
	return u.conn.WriteToUDP(data, addr)
}

func (u *UDP) Broadcast(data []byte) (int, error) {
	return u.conn.WriteToUDP(data, u.broadcast)
}

func (u *UDP) LocalAddr() mqttsn.Address {
	return u.local
}

func (u *UDP) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return nil
	}
	u.closed = true
	close(u.done)
	return u.conn.Close()
}
