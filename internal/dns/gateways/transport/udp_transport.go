package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/haukened/ktdns/internal/dns/common/log"
	"github.com/haukened/ktdns/internal/dns/domain"
	"github.com/haukened/ktdns/internal/dns/gateways/wire"
	"github.com/haukened/ktdns/internal/dns/services/resolver"
)

// UDPTransport implements ServerTransport for standard DNS over UDP (RFC 1035).
// Each datagram is handled on its own goroutine.
type UDPTransport struct {
	addr   string
	conn   *net.UDPConn
	codec  wire.DNSCodec
	logger log.Logger

	// formErr is the RCODE sent for malformed queries; nil drops them silently.
	formErr *domain.RCode

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	inflight sync.WaitGroup
}

// Option customizes a UDPTransport.
type Option func(*UDPTransport)

// WithFormatErrors makes the transport answer malformed queries with a
// header-only reply carrying the policy's FormatError RCODE.
func WithFormatErrors(policy domain.RCodePolicy) Option {
	return func(t *UDPTransport) {
		rcode := policy.RCode(domain.OutcomeFormatError)
		t.formErr = &rcode
	}
}

// NewUDPTransport creates a new UDP transport instance.
func NewUDPTransport(addr string, codec wire.DNSCodec, logger log.Logger, opts ...Option) *UDPTransport {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	t := &UDPTransport{
		addr:   addr,
		codec:  codec,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start binds the UDP socket and starts the packet handling loop.
func (t *UDPTransport) Start(ctx context.Context, handler resolver.DNSResponder) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("UDP transport already running")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", t.addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to bind UDP socket on %s: %w", t.addr, err)
	}

	t.conn = conn
	t.running = true
	t.stopCh = make(chan struct{})

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   conn.LocalAddr().String(),
	}, "DNS transport started")

	t.inflight.Add(1)
	go t.listenLoop(ctx, conn, t.stopCh, handler)

	// A cancelled context shuts the socket so the blocked read returns.
	go func(stopCh <-chan struct{}) {
		select {
		case <-ctx.Done():
			_ = t.Stop()
		case <-stopCh:
		}
	}(t.stopCh)

	return nil
}

// Stop closes the socket and waits for in-flight queries to drain.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		// a concurrent Stop may still be draining
		t.inflight.Wait()
		return nil
	}
	t.running = false
	close(t.stopCh)

	var closeErr error
	if t.conn != nil {
		closeErr = t.conn.Close()
		if closeErr != nil {
			t.logger.Warn(map[string]any{
				"error": closeErr.Error(),
			}, "Error closing UDP connection")
		}
	}
	t.mu.Unlock()

	t.inflight.Wait()

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   t.addr,
	}, "DNS transport stopped")

	return closeErr
}

// Address returns the bound address while running, otherwise the configured one.
func (t *UDPTransport) Address() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running && t.conn != nil {
		return t.conn.LocalAddr().String()
	}
	return t.addr
}

// listenLoop reads datagrams until the socket is closed.
func (t *UDPTransport) listenLoop(ctx context.Context, conn *net.UDPConn, stopCh <-chan struct{}, handler resolver.DNSResponder) {
	defer t.inflight.Done()
	buffer := make([]byte, maxUDPMessageSize)

	for {
		n, clientAddr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			select {
			case <-stopCh:
				t.logger.Debug(nil, "UDP transport listen loop exiting")
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			t.logger.Warn(map[string]any{
				"error": err.Error(),
			}, "Failed to read UDP packet")
			continue
		}

		packet := make([]byte, n)
		copy(packet, buffer[:n])

		t.inflight.Add(1)
		go func() {
			defer t.inflight.Done()
			t.handlePacket(ctx, conn, packet, clientAddr, handler)
		}()
	}
}

// handlePacket runs one datagram through decode, resolve, encode and reply.
func (t *UDPTransport) handlePacket(ctx context.Context, conn *net.UDPConn, data []byte, clientAddr *net.UDPAddr, handler resolver.DNSResponder) {
	t.logger.Debug(map[string]any{
		"client": clientAddr.String(),
		"size":   len(data),
		"raw":    fmt.Sprintf("%x", data),
	}, "Received raw DNS query data")

	query, err := t.codec.DecodeQuery(data)
	if err != nil {
		t.logger.Warn(map[string]any{
			"client": clientAddr.String(),
			"error":  err.Error(),
			"size":   len(data),
		}, "Failed to decode DNS query")
		t.replyFormatError(conn, data, clientAddr)
		return
	}

	response, err := handler.HandleQuery(ctx, query, clientAddr)
	if err != nil {
		t.logger.Error(map[string]any{
			"client":   clientAddr.String(),
			"query_id": query.ID,
			"error":    err.Error(),
		}, "Failed to handle DNS query")
		return
	}

	responseData, err := t.codec.EncodeResponse(response)
	if err != nil {
		t.logger.Error(map[string]any{
			"client":   clientAddr.String(),
			"query_id": query.ID,
			"error":    err.Error(),
		}, "Failed to encode DNS response")
		return
	}

	if !t.send(conn, responseData, clientAddr, response.ID) {
		return
	}

	t.logger.Debug(map[string]any{
		"client":   clientAddr.String(),
		"query_id": response.ID,
		"name":     query.Name(),
		"rcode":    response.RCode.String(),
		"answers":  response.AnswerCount(),
		"size":     len(responseData),
	}, "Sent DNS response")
}

// replyFormatError answers a malformed query when the transport is configured to.
func (t *UDPTransport) replyFormatError(conn *net.UDPConn, data []byte, clientAddr *net.UDPAddr) {
	if t.formErr == nil {
		return
	}
	reply, err := t.codec.EncodeErrorResponse(data, *t.formErr)
	if err != nil {
		// nothing identifiable to answer
		t.logger.Debug(map[string]any{
			"client": clientAddr.String(),
			"error":  err.Error(),
		}, "Dropping malformed query")
		return
	}
	var id uint16
	if len(reply) >= 2 {
		id = binary.BigEndian.Uint16(reply[0:2])
	}
	t.send(conn, reply, clientAddr, id)
}

func (t *UDPTransport) send(conn *net.UDPConn, payload []byte, clientAddr *net.UDPAddr, id uint16) bool {
	if _, err := conn.WriteToUDP(payload, clientAddr); err != nil {
		t.logger.Error(map[string]any{
			"client":   clientAddr.String(),
			"query_id": id,
			"error":    err.Error(),
		}, "Failed to send DNS response")
		return false
	}
	return true
}

// Ensure UDPTransport implements ServerTransport at compile time
var _ ServerTransport = (*UDPTransport)(nil)
