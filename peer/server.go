package peer

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"cpsim/internal"
	"cpsim/internal/config"
	"cpsim/ocpp"
	"cpsim/types"
	"cpsim/utility"
)

const wsEndpoint = "/ws/:id"

// Client is one connected station.
type Client struct {
	conn    *websocket.Conn
	id      string
	writeMu sync.Mutex
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type pendingCall struct {
	action     string
	resolution chan callOutcome
}

type callOutcome struct {
	response ocpp.Response
	err      error
}

// Server is the operator-side endpoint stations connect to. It accepts
// station connections on /ws/{id}, answers their calls through the attached
// SystemHandler and can originate calls of its own toward any connected
// station.
type Server struct {
	conf       *config.Config
	httpServer *http.Server
	upgrader   websocket.Upgrader
	logger     internal.LogHandler
	handler    *SystemHandler

	mu       sync.Mutex
	clients  map[string]*Client
	pending  map[string]*pendingCall
	listener net.Listener
}

func NewServer(conf *config.Config, logger internal.LogHandler) *Server {
	server := &Server{
		conf:     conf,
		logger:   logger,
		handler:  NewSystemHandler(logger),
		upgrader: websocket.Upgrader{Subprotocols: []string{types.SubProtocol201}},
		clients:  make(map[string]*Client),
		pending:  make(map[string]*pendingCall),
	}
	router := httprouter.New()
	router.GET(wsEndpoint, server.handleWsRequest)
	server.httpServer = &http.Server{Handler: router}
	return server
}

func (s *Server) Handler() *SystemHandler {
	return s.handler
}

// Start listens and serves until Stop. With TLS enabled and a CA file set,
// client certificates are required and verified, covering the mutual TLS
// connection profile.
func (s *Server) Start() error {
	if s.conf == nil {
		return utility.Err("configuration not loaded")
	}
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Peer.BindIP, s.conf.Peer.Port)
	s.logger.Debug(fmt.Sprintf("starting peer endpoint on %s", serverAddress))
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	if s.conf.Peer.TLS {
		tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
		if s.conf.Peer.CAFile != "" {
			caData, err := os.ReadFile(s.conf.Peer.CAFile)
			if err != nil {
				return err
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caData) {
				return utility.Err("no usable certificates in CA file")
			}
			tlsConfig.ClientCAs = pool
			tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
		}
		s.httpServer.TLSConfig = tlsConfig
		return s.httpServer.ServeTLS(listener, s.conf.Peer.CertFile, s.conf.Peer.KeyFile)
	}
	return s.httpServer.Serve(listener)
}

// Addr reports the bound address, useful when the port was chosen by the OS.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop() error {
	return s.httpServer.Close()
}

// Connected reports whether the station currently holds a connection.
func (s *Server) Connected(stationId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.clients[stationId]
	return ok
}

func (s *Server) handleWsRequest(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	id := params.ByName("id")
	s.logger.Debug(fmt.Sprintf("connection initiated for %s from %s", id, r.RemoteAddr))

	if !s.authorized(id, r) {
		w.Header().Set("WWW-Authenticate", `Basic realm="ocpp"`)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	requestedProto := ""
	for _, proto := range websocket.Subprotocols(r) {
		if utility.Contains(s.upgrader.Subprotocols, proto) {
			requestedProto = proto
			break
		}
	}
	if requestedProto == "" {
		http.Error(w, "unsupported subprotocol", http.StatusBadRequest)
		return
	}
	responseHeader := http.Header{}
	responseHeader.Add("Sec-WebSocket-Protocol", requestedProto)

	s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	conn, err := s.upgrader.Upgrade(w, r, responseHeader)
	if err != nil {
		s.logger.Error("upgrade failed", err)
		return
	}

	client := &Client{conn: conn, id: id}
	s.mu.Lock()
	if old, ok := s.clients[id]; ok {
		_ = old.conn.Close()
	}
	s.clients[id] = client
	s.mu.Unlock()

	s.logger.Debug(fmt.Sprintf("station %s connected", id))
	go s.messageReader(client)
}

// authorized validates basic auth credentials. When the endpoint verifies
// client certificates instead, the TLS layer already rejected strangers and
// the header check is skipped.
func (s *Server) authorized(id string, r *http.Request) bool {
	if s.conf.Peer.TLS && s.conf.Peer.CAFile != "" {
		return true
	}
	username, password, ok := r.BasicAuth()
	if !ok {
		return false
	}
	return username == id && password == s.conf.Peer.Password
}

func (s *Server) messageReader(client *Client) {
	conn := client.conn
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, 3001) {
				s.logger.Debug(fmt.Sprintf("station %s leaving session", client.id))
			} else {
				s.logger.Debug(fmt.Sprintf("station %s closing session %s", client.id, err))
			}
			_ = conn.Close()
			s.mu.Lock()
			if s.clients[client.id] == client {
				delete(s.clients, client.id)
			}
			s.mu.Unlock()
			return
		}
		s.logger.RawDataEvent("IN", string(message))
		s.handleFrame(client, message)
	}
}

func (s *Server) handleFrame(client *Client, data []byte) {
	fields, err := ocpp.ParseMessage(data)
	if err != nil {
		s.logger.Error("malformed frame from "+client.id, err)
		return
	}
	callType, err := ocpp.MessageType(fields)
	if err != nil {
		s.logger.Error("malformed frame from "+client.id, err)
		return
	}
	switch callType {
	case ocpp.CallTypeRequest:
		call, err := ocpp.ParseCall(fields)
		if err != nil {
			if uniqueId, idErr := ocpp.UniqueIdOf(fields); idErr == nil {
				s.sendError(client, ocpp.CreateCallError(uniqueId, ocpp.ErrorCodeFormationViolation, err.Error()))
			}
			s.logger.Error("invalid call from "+client.id, err)
			return
		}
		go s.dispatch(client, call)
	case ocpp.CallTypeResult:
		s.resolve(client, fields, nil)
	case ocpp.CallTypeError:
		callError, err := ocpp.ParseCallError(fields)
		if err != nil {
			s.logger.Error("invalid call error from "+client.id, err)
			return
		}
		s.resolve(client, fields, callError)
	}
}

func (s *Server) dispatch(client *Client, call *ocpp.Call) {
	s.logger.FeatureEvent(call.Action, client.id, "handling request")
	response, err := s.handler.Handle(client.id, call.Payload)
	if err != nil {
		s.sendError(client, ocpp.CreateCallError(call.UniqueId, ocpp.ErrorCodeInternalError, err.Error()))
		return
	}
	if response == nil {
		s.sendError(client, ocpp.CreateCallError(call.UniqueId, ocpp.ErrorCodeNotSupported, call.Action+" is not supported"))
		return
	}
	result := ocpp.CreateCallResult(response, call.UniqueId)
	data, err := result.MarshalJSON()
	if err != nil {
		s.logger.Error("encoding response for "+client.id, err)
		return
	}
	s.logger.RawDataEvent("OUT", string(data))
	if err = client.write(data); err != nil {
		s.logger.Error("sending response to "+client.id, err)
	}
}

func (s *Server) sendError(client *Client, callError *ocpp.CallError) {
	data, err := callError.MarshalJSON()
	if err != nil {
		s.logger.Error("encoding call error", err)
		return
	}
	s.logger.RawDataEvent("OUT", string(data))
	if err = client.write(data); err != nil {
		s.logger.Error("sending call error to "+client.id, err)
	}
}

// resolve completes a pending peer-originated call from a result or error
// frame. Frames answering nothing are logged and dropped.
func (s *Server) resolve(client *Client, fields []interface{}, callError *ocpp.CallError) {
	uniqueId, err := ocpp.UniqueIdOf(fields)
	if err != nil {
		s.logger.Error("frame without uniqueId from "+client.id, err)
		return
	}
	s.mu.Lock()
	pending, ok := s.pending[uniqueId]
	if ok {
		delete(s.pending, uniqueId)
	}
	s.mu.Unlock()
	if !ok {
		s.logger.Warn(fmt.Sprintf("unmatched frame %s from %s dropped", uniqueId, client.id))
		return
	}
	if callError != nil {
		pending.resolution <- callOutcome{err: callError}
		return
	}
	result, err := ocpp.ParseCallResult(fields, pending.action)
	if err != nil {
		pending.resolution <- callOutcome{err: err}
		return
	}
	pending.resolution <- callOutcome{response: result.Payload}
}

// Call sends a request to the named station and waits for its answer.
func (s *Server) Call(stationId string, request ocpp.Request, timeout time.Duration) (ocpp.Response, error) {
	s.mu.Lock()
	client, ok := s.clients[stationId]
	s.mu.Unlock()
	if !ok {
		return nil, ocpp.NewTransportError("station not connected: "+stationId, nil)
	}

	uniqueId := utility.NewUUID()
	pending := &pendingCall{action: request.GetFeatureName(), resolution: make(chan callOutcome, 1)}
	s.mu.Lock()
	s.pending[uniqueId] = pending
	s.mu.Unlock()

	frame := ocpp.CreateCall(request, uniqueId)
	data, err := frame.MarshalJSON()
	if err != nil {
		return nil, err
	}
	s.logger.RawDataEvent("OUT", string(data))
	if err = client.write(data); err != nil {
		s.mu.Lock()
		delete(s.pending, uniqueId)
		s.mu.Unlock()
		return nil, ocpp.NewTransportError("sending call to "+stationId, err)
	}

	select {
	case outcome := <-pending.resolution:
		return outcome.response, outcome.err
	case <-time.After(timeout):
		s.mu.Lock()
		delete(s.pending, uniqueId)
		s.mu.Unlock()
		return nil, &ocpp.TimeoutError{UniqueId: uniqueId, Action: request.GetFeatureName()}
	}
}
