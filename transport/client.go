package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"cpsim/internal"
	"cpsim/ocpp"
	"cpsim/types"
)

// Security profiles of the connection, per part 2 of the protocol
// specification.
const (
	ProfileBasicAuth    = 1
	ProfileTLSBasicAuth = 2
	ProfileMutualTLS    = 3
)

type Credentials struct {
	Password       string
	ClientCertFile string
	ClientKeyFile  string
	CACertFile     string
}

// Connection is one station's link to the management system. Exactly one per
// simulated station; reconnection is an explicit action of the owner.
type Connection struct {
	conn            *websocket.Conn
	stationId       string
	securityProfile int
	subprotocol     string
	logger          internal.LogHandler

	// writeMu serializes frames; the websocket allows one writer at a time
	writeMu sync.Mutex

	received chan []byte
	lost     chan error
}

// Connect opens the websocket under the requested security profile and
// negotiates the protocol subprotocol. There is no automatic retry; a failed
// attempt surfaces a TransportError and the caller decides.
func Connect(endpoint, stationId string, profile int, creds Credentials, logger internal.LogHandler) (*Connection, error) {
	dialer := websocket.Dialer{
		Subprotocols: []string{types.SubProtocol201},
	}
	header := http.Header{}

	switch profile {
	case ProfileBasicAuth:
		header.Set("Authorization", basicAuth(stationId, creds.Password))
	case ProfileTLSBasicAuth:
		header.Set("Authorization", basicAuth(stationId, creds.Password))
		tlsConfig, err := serverTrustConfig(creds)
		if err != nil {
			return nil, ocpp.NewTransportError("tls configuration", err)
		}
		dialer.TLSClientConfig = tlsConfig
	case ProfileMutualTLS:
		tlsConfig, err := serverTrustConfig(creds)
		if err != nil {
			return nil, ocpp.NewTransportError("tls configuration", err)
		}
		cert, err := tls.LoadX509KeyPair(creds.ClientCertFile, creds.ClientKeyFile)
		if err != nil {
			return nil, ocpp.NewTransportError("loading client certificate", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
		dialer.TLSClientConfig = tlsConfig
	default:
		return nil, ocpp.NewTransportError(fmt.Sprintf("unknown security profile %d", profile), nil)
	}

	url := strings.TrimRight(endpoint, "/") + "/" + stationId
	logger.Debug(fmt.Sprintf("connecting to %s with security profile %d", url, profile))

	conn, resp, err := dialer.Dial(url, header)
	if err != nil {
		return nil, ocpp.NewTransportError("connection refused", err)
	}
	negotiated := resp.Header.Get("Sec-WebSocket-Protocol")
	if negotiated != types.SubProtocol201 {
		_ = conn.Close()
		return nil, ocpp.NewTransportError(
			fmt.Sprintf("subprotocol mismatch: requested %s, got %q", types.SubProtocol201, negotiated), nil)
	}

	c := &Connection{
		conn:            conn,
		stationId:       stationId,
		securityProfile: profile,
		subprotocol:     negotiated,
		logger:          logger,
		received:        make(chan []byte, 32),
		lost:            make(chan error, 1),
	}
	go c.messageReader()
	return c, nil
}

func basicAuth(username, password string) string {
	req := http.Request{Header: http.Header{}}
	req.SetBasicAuth(username, password)
	return req.Header.Get("Authorization")
}

func serverTrustConfig(creds Credentials) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if creds.CACertFile != "" {
		pem, err := os.ReadFile(creds.CACertFile)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no usable certificates in %s", creds.CACertFile)
		}
		tlsConfig.RootCAs = pool
	}
	return tlsConfig, nil
}

func (c *Connection) StationId() string {
	return c.stationId
}

func (c *Connection) SecurityProfile() int {
	return c.securityProfile
}

func (c *Connection) Subprotocol() string {
	return c.subprotocol
}

func (c *Connection) Send(data []byte) error {
	c.logger.RawDataEvent("OUT", string(data))
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Received streams inbound text frames in arrival order. The channel closes
// when the connection is lost.
func (c *Connection) Received() <-chan []byte {
	return c.received
}

// Lost reports an abrupt close; a deliberate Close does not fire it.
func (c *Connection) Lost() <-chan error {
	return c.lost
}

func (c *Connection) Close() error {
	return c.conn.Close()
}

func (c *Connection) messageReader() {
	defer close(c.received)
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug(fmt.Sprintf("%s leaving session", c.stationId))
			} else {
				c.lost <- ocpp.NewTransportError("connection lost", err)
			}
			_ = c.conn.Close()
			return
		}
		c.logger.RawDataEvent("IN", string(message))
		c.received <- message
	}
}
