package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// Relay keeps an outbound websocket open to a third-party gateway that pushes
// tools/call requests and expects the matching JSON-RPC replies. It runs
// entirely off the inbound request path.
type Relay struct {
	URL   string
	Delay time.Duration
	Ans   answerer
	Log   *slog.Logger
}

// Run dials the gateway and serves it until ctx is cancelled, reconnecting
// after a fixed delay whenever the connection drops.
func (r *Relay) Run(ctx context.Context) {
	for {
		if err := r.serve(ctx); err != nil {
			r.Log.Warn("relay connection lost", "url", r.URL, "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.Delay):
		}
	}
}

func (r *Relay) serve(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	r.Log.Info("relay connected", "url", r.URL)

	// Replies flow through a channel so the read loop never shares the
	// connection's write side.
	replies := make(chan rpcResponse, 16)
	writeDone := make(chan error, 1)

	go func() {
		// Closing the connection unblocks the read loop once writing stops.
		defer conn.Close()
		for {
			select {
			case <-ctx.Done():
				writeDone <- ctx.Err()
				return
			case resp, ok := <-replies:
				if !ok {
					writeDone <- nil
					return
				}
				if err := conn.WriteJSON(resp); err != nil {
					writeDone <- err
					return
				}
			}
		}
	}()

	readErr := r.readLoop(conn, replies)
	close(replies)
	if err := <-writeDone; err != nil && readErr == nil {
		return err
	}

	return readErr
}

func (r *Relay) readLoop(conn *websocket.Conn, replies chan<- rpcResponse) error {
	for {
		var req rpcRequest
		if err := conn.ReadJSON(&req); err != nil {
			return err
		}

		replies <- r.handle(req)
	}
}

func (r *Relay) handle(req rpcRequest) rpcResponse {
	if req.Method != "tools/call" {
		return jsonRPCError(req.ID, codeToolNotFound, "Method not supported by relay")
	}
	if req.Params.Name != toolName {
		return jsonRPCError(req.ID, codeToolNotFound, "Tool not found")
	}

	question, _ := req.Params.Arguments["question"].(string)

	return jsonRPCText(req.ID, r.Ans.Answer(question).Message())
}
