package input

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"sslcoach/internal/metrics"
	"sslcoach/internal/telemetry"
)

// RefereeDecoder turns a raw game-controller datagram into a decoded,
// ally-normalized packet.
type RefereeDecoder interface {
	DecodeReferee(payload []byte) (*RefereePacket, error)
}

// GameControllerReceiver subscribes to the referee multicast group.
type GameControllerReceiver struct {
	conn    *net.UDPConn
	decoder RefereeDecoder
	packets *packetQueue[RefereePacket]

	closeOnce sync.Once
	done      chan struct{}
}

// NewGameControllerReceiver binds the multicast socket and starts reading.
func NewGameControllerReceiver(addr string, port int, decoder RefereeDecoder) (*GameControllerReceiver, error) {
	group, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", addr, port))
	if err != nil {
		return nil, fmt.Errorf("gc: resolve %s:%d: %w", addr, port, err)
	}
	conn, err := net.ListenMulticastUDP("udp4", nil, group)
	if err != nil {
		return nil, fmt.Errorf("gc: bind %s: %w", group, err)
	}

	r := &GameControllerReceiver{
		conn:    conn,
		decoder: decoder,
		packets: newPacketQueue[RefereePacket](),
		done:    make(chan struct{}),
	}
	go r.run()
	telemetry.Infof("game controller receiver listening on %s", group)
	return r, nil
}

func (r *GameControllerReceiver) run() {
	buf := make([]byte, 1<<14)
	for {
		select {
		case <-r.done:
			return
		default:
		}
		_ = r.conn.SetReadDeadline(time.Now().Add(readTimeoutMillis * time.Millisecond))
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				continue
			}
			select {
			case <-r.done:
				return
			default:
				telemetry.Debugf("gc read: %v", err)
				continue
			}
		}
		packet, err := r.decoder.DecodeReferee(buf[:n])
		if err != nil {
			telemetry.Debugf("gc decode: %v", err)
			continue
		}
		r.packets.push(*packet)
		metrics.RecordRefereePacket()
	}
}

// Fetch moves buffered packets into the bundle.
func (r *GameControllerReceiver) Fetch(data *Data) {
	data.Referee = append(data.Referee, r.packets.drain()...)
}

// Close releases the socket. Safe to call more than once.
func (r *GameControllerReceiver) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		_ = r.conn.Close()
	})
}
