package oauth

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"
)

const callbackPath = "/callback"

// CallbackServer receives the authorization redirect for one installed-app
// flow. It listens on the loopback interface only and hands exactly one code
// (or one failure) to the waiting flow.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a callback server for a flow identified by the
// given state value. A port of 0 selects an ephemeral port at Start.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
	}
}

// Start binds the loopback listener and begins serving the callback endpoint.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.deliverErr(err)
		}
	}()

	return nil
}

// RedirectURL returns the redirect URI registered for this flow.
// Only valid after Start.
func (s *CallbackServer) RedirectURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://127.0.0.1:%d%s", s.port, callbackPath)
}

// Port returns the bound port. Only valid after Start.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// handleCallback processes the authorization redirect. Late or duplicate
// callbacks after the first delivery are answered but never block.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errCode := q.Get("error"); errCode != "" {
		s.deliverErr(&UserDeniedError{Code: errCode, Description: q.Get("error_description")})
		writeCallbackPage(w, "Authorization failed", fmt.Sprintf("The provider reported: %s.", errCode))
		return
	}

	if q.Get("state") != s.expectedState {
		s.deliverErr(&StateMismatchError{})
		writeCallbackPage(w, "Authorization failed", "The response did not match the pending request.")
		return
	}

	code := q.Get("code")
	if code == "" {
		s.deliverErr(fmt.Errorf("authorization callback carried no code"))
		writeCallbackPage(w, "Authorization failed", "No authorization code was received.")
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}

	writeCallbackPage(w, "Authorization complete", "You can close this window and return to the terminal.")
}

// WaitForCode blocks until a code or failure is delivered, the wait window
// elapses, or the context is cancelled.
func (s *CallbackServer) WaitForCode(ctx context.Context, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-timer.C:
		return "", &FlowTimeoutError{Timeout: timeout}
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Stop shuts the callback server down and releases the listener. It is safe
// to call on every exit path, including before Start.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		err = s.server.Close()
	}
	s.server = nil
	s.listener = nil
	return err
}

func (s *CallbackServer) deliverErr(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

func writeCallbackPage(w http.ResponseWriter, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>MailNet</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #fafafa;
        }
        .card {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 12px;
            border: 1px solid #d8d8dc;
        }
        h1 { margin: 0 0 8px 0; font-size: 22px; color: #333f50; }
        p  { margin: 0; font-size: 15px; color: #7b8088; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}
