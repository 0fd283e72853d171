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

// VisionDecoder turns a raw vision datagram into decoded records. The wire
// format itself is a collaborator concern; see the JSON decoder in this
// package for the simulator bridge.
type VisionDecoder interface {
	DecodeDetection(payload []byte) (*CamFrame, *CamGeometry, error)
}

// VisionReceiver subscribes to the vision multicast group and buffers
// decoded camera frames for the main loop.
type VisionReceiver struct {
	conn     *net.UDPConn
	decoder  VisionDecoder
	frames   *packetQueue[CamFrame]
	geometry *packetQueue[CamGeometry]

	closeOnce sync.Once
	done      chan struct{}
}

// NewVisionReceiver binds the multicast socket and starts the read loop.
// A bind failure is fatal at startup.
func NewVisionReceiver(addr string, port int, decoder VisionDecoder) (*VisionReceiver, error) {
	group, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", addr, port))
	if err != nil {
		return nil, fmt.Errorf("vision: resolve %s:%d: %w", addr, port, err)
	}
	conn, err := net.ListenMulticastUDP("udp4", nil, group)
	if err != nil {
		return nil, fmt.Errorf("vision: bind %s: %w", group, err)
	}
	_ = conn.SetReadBuffer(1 << 20)

	r := &VisionReceiver{
		conn:     conn,
		decoder:  decoder,
		frames:   newPacketQueue[CamFrame](),
		geometry: newPacketQueue[CamGeometry](),
		done:     make(chan struct{}),
	}
	go r.run()
	telemetry.Infof("vision receiver listening on %s", group)
	return r, nil
}

func (r *VisionReceiver) run() {
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
				telemetry.Debugf("vision read: %v", err)
				continue
			}
		}
		frame, geo, err := r.decoder.DecodeDetection(buf[:n])
		if err != nil {
			telemetry.Debugf("vision decode: %v", err)
			continue
		}
		if frame != nil {
			r.frames.push(*frame)
			metrics.RecordVisionFrame()
		}
		if geo != nil {
			r.geometry.push(*geo)
		}
	}
}

// Fetch moves buffered frames into the bundle.
func (r *VisionReceiver) Fetch(data *Data) {
	data.Vision = append(data.Vision, r.frames.drain()...)
	data.Geometry = append(data.Geometry, r.geometry.drain()...)
}

// Close releases the socket. Safe to call more than once.
func (r *VisionReceiver) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		_ = r.conn.Close()
	})
}
