package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ValentinKolb/lDDB/lib/backend"
	"github.com/ValentinKolb/lDDB/lib/ddb"
	"github.com/ValentinKolb/lDDB/lib/logger"
	"github.com/ValentinKolb/lDDB/rpc/common"
	"github.com/ValentinKolb/lDDB/rpc/wire"
	"github.com/VictoriaMetrics/metrics"
	"github.com/aws/smithy-go"
)

var Logger = logger.GetLogger("rpc")

const (
	// targetPrefix is the service/version part of the X-Amz-Target header
	targetPrefix = "DynamoDB_20120810."

	contentType = "application/x-amz-json-1.0"
)

// NewRPCServer creates a new RPC server exposing a single backend over the
// DynamoDB JSON protocol.
//
// Usage:
//
//	s := server.NewRPCServer(*config, memory.NewBackend())
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(config common.ServerConfig, backend backend.IBackend) *RPCServer {
	common.InitLoggers(config)

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	return &RPCServer{
		config:  config,
		backend: backend,
	}
}

type RPCServer struct {
	config   common.ServerConfig
	backend  backend.IBackend
	listener net.Listener

	serveDone chan struct{}
	serveErr  error
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Serve binds the configured endpoint and blocks until the listener fails
// or is closed.
func (s *RPCServer) Serve() error {
	addr, err := s.Bind()
	if err != nil {
		return err
	}
	Logger.Infof("Serving on %s", addr)

	// block until the listener goes away
	<-s.serveDone
	return s.serveErr
}

// Bind starts the HTTP listener in the background and returns the bound
// address. With an endpoint of ":0" the kernel picks a free port, so the
// returned address is the way to reach the server.
func (s *RPCServer) Bind() (string, error) {
	if s.listener != nil {
		return "", fmt.Errorf("server already bound to %s", s.listener.Addr())
	}

	ln, err := net.Listen("tcp", s.config.Endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to bind %q: %w", s.config.Endpoint, err)
	}
	s.listener = ln

	timeout := time.Duration(s.config.TimeoutSecond) * time.Second
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	s.serveDone = make(chan struct{})
	go func() {
		defer close(s.serveDone)
		if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.serveErr = err
		}
	}()

	Logger.Infof("Listening on %s", ln.Addr())
	return ln.Addr().String(), nil
}

// Close stops the listener. In-flight requests are aborted.
func (s *RPCServer) Close() error {
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	<-s.serveDone
	return err
}

// Handler returns the HTTP handler so the server can also be mounted into
// an existing mux or an httptest server.
func (s *RPCServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// Register handler
	if strings.EqualFold(s.config.LogLevel, "debug") {
		mux.HandleFunc("POST /", loggerMiddleware(s.handleRequest))
	} else {
		mux.HandleFunc("POST /", s.handleRequest)
	}

	// Prometheus endpoint
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	return mux
}

// --------------------------------------------------------------------------
// Request handling
// --------------------------------------------------------------------------

// handleRequest decodes one DynamoDB JSON request, dispatches it to the
// backend and writes the response envelope
func (s *RPCServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	op, ok := strings.CutPrefix(r.Header.Get("X-Amz-Target"), targetPrefix)
	if !ok {
		s.writeError(w, "unknown", &unknownOperationError{target: r.Header.Get("X-Amz-Target")})
		return
	}

	body, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		s.writeError(w, op, fmt.Errorf("failed to read request body: %w", err))
		return
	}

	start := time.Now()
	resp, err := s.dispatch(r.Context(), op, body)
	metrics.GetOrCreateSummary(fmt.Sprintf(`rpc_request_duration_seconds{op=%q}`, op)).UpdateDuration(start)

	if err != nil {
		s.writeError(w, op, err)
		return
	}

	metrics.GetOrCreateCounter(fmt.Sprintf(`rpc_requests_total{op=%q,result="ok"}`, op)).Inc()
	w.Header().Set("Content-Type", contentType)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		Logger.Errorf("failed to write response: %v", err)
	}
}

// dispatch routes one operation to its backend method. The returned value
// is the wire response shape, ready for JSON encoding.
func (s *RPCServer) dispatch(ctx context.Context, op string, body []byte) (any, error) {
	switch op {
	case "CreateTable":
		var req wire.CreateTableRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		input, err := req.Input()
		if err != nil {
			return nil, err
		}
		out, err := s.backend.CreateTable(ctx, input)
		if err != nil {
			return nil, err
		}
		return &wire.CreateTableResponse{TableDescription: wire.EncodeTableDescription(out.TableDescription)}, nil

	case "DescribeTable":
		var req wire.DescribeTableRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		input, err := req.Input()
		if err != nil {
			return nil, err
		}
		out, err := s.backend.DescribeTable(ctx, input)
		if err != nil {
			return nil, err
		}
		return &wire.DescribeTableResponse{Table: wire.EncodeTableDescription(out.Table)}, nil

	case "ListTables":
		var req wire.ListTablesRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		input, err := req.Input()
		if err != nil {
			return nil, err
		}
		out, err := s.backend.ListTables(ctx, input)
		if err != nil {
			return nil, err
		}
		return &wire.ListTablesResponse{
			TableNames:             out.TableNames,
			LastEvaluatedTableName: out.LastEvaluatedTableName,
		}, nil

	case "GetItem":
		var req wire.GetItemRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		input, err := req.Input()
		if err != nil {
			return nil, err
		}
		out, err := s.backend.GetItem(ctx, input)
		if err != nil {
			return nil, err
		}
		return &wire.GetItemResponse{Item: wire.EncodeItem(out.Item)}, nil

	case "PutItem":
		var req wire.PutItemRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		input, err := req.Input()
		if err != nil {
			return nil, err
		}
		out, err := s.backend.PutItem(ctx, input)
		if err != nil {
			return nil, err
		}
		return &wire.PutItemResponse{Attributes: wire.EncodeItem(out.Attributes)}, nil

	case "DeleteItem":
		var req wire.DeleteItemRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		input, err := req.Input()
		if err != nil {
			return nil, err
		}
		out, err := s.backend.DeleteItem(ctx, input)
		if err != nil {
			return nil, err
		}
		return &wire.DeleteItemResponse{Attributes: wire.EncodeItem(out.Attributes)}, nil

	default:
		return nil, &unknownOperationError{target: targetPrefix + op}
	}
}

// writeError maps err onto the wire error envelope and counts it
func (s *RPCServer) writeError(w http.ResponseWriter, op string, err error) {
	status, resp := wire.EncodeError(err)
	metrics.GetOrCreateCounter(fmt.Sprintf(`rpc_requests_total{op=%q,result="error"}`, op)).Inc()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		Logger.Errorf("failed to write error response: %v", err)
	}
}

// decode unmarshals a request body, turning malformed JSON into a
// validation error instead of an opaque 500
func decode(body []byte, target any) error {
	if err := json.Unmarshal(body, target); err != nil {
		return ddb.NewValidationException("invalid request body: %v", err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Unknown operation error
// --------------------------------------------------------------------------

// unknownOperationError is returned for targets outside the supported
// operation set. It carries the error code DynamoDB uses for the same case.
type unknownOperationError struct {
	target string
}

func (e *unknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation target %q", e.target)
}

func (e *unknownOperationError) ErrorCode() string            { return "UnknownOperationException" }
func (e *unknownOperationError) ErrorMessage() string         { return e.Error() }
func (e *unknownOperationError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create custom response writer to capture status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Process request
		next.ServeHTTP(rw, r)

		// Log the request
		duration := time.Since(start)
		Logger.Debugf("%s %s %s => %d took %s", r.Method, r.URL.Path, r.Header.Get("X-Amz-Target"), rw.statusCode, duration)
	}
}
