package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/gridnav/pkg/datastructure"
	"go.uber.org/zap"
)

/*
simulate. websocket endpoint streaming the relaxation as it runs.
the client sends one fieldRequest as a text frame, the server answers with one "iteration" message per sweep
followed by a single "result" (or "error") message and closes the connection.
*/
func (api *flowFieldAPI) simulate(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	conn, rw, hs, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err), zap.String("remote_addr", r.RemoteAddr))
		return
	}
	defer conn.Close()

	// the server's read/write timeouts do not apply to a long running stream, only the request frame is bounded
	_ = conn.SetDeadline(time.Time{})
	if api.wsRequestTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(api.wsRequestTimeout))
	}

	api.log.Info("established websocket connection", zap.String("remote_addr", r.RemoteAddr),
		zap.String("protocol", hs.Protocol))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// the hijacked reader may already hold the first frame
	var src io.Reader = conn
	if rw != nil && rw.Reader.Buffered() > 0 {
		src = rw.Reader
	}

	request, err := api.readSimulateRequest(struct {
		io.Reader
		io.Writer
	}{src, conn})
	if err != nil {
		api.writeMessage(conn, simulateMessage{Type: "error", Error: err.Error()})
		api.closeConn(conn)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	var writeErr error
	onIteration := func(iteration int, field *datastructure.Grid[float64]) {
		if writeErr != nil {
			return
		}
		writeErr = api.writeMessage(conn, simulateMessage{
			Type:      "iteration",
			Iteration: iteration,
			Distance:  field.Cells(),
		})
		if writeErr != nil {
			// client went away, stop relaxing
			cancel()
		}
	}

	sol, err := api.flowFieldService.Simulate(ctx, request.Width, request.Height, request.Terrain,
		request.seeds(), request.settings(), onIteration)
	if writeErr != nil {
		api.log.Info("websocket client disconnected", zap.Error(writeErr), zap.String("remote_addr", r.RemoteAddr))
		return
	}
	if err != nil {
		api.writeMessage(conn, simulateMessage{Type: "error", Error: err.Error()})
		api.closeConn(conn)
		return
	}

	result := NewFlowFieldResponse(sol, nil, "", false)
	api.writeMessage(conn, simulateMessage{Type: "result", Iteration: sol.Iterations, Result: &result})
	api.closeConn(conn)
}

func (api *flowFieldAPI) readSimulateRequest(conn io.ReadWriter) (*fieldRequest, error) {
	for {
		msg, op, err := wsutil.ReadClientData(conn)
		if err != nil {
			return nil, err
		}
		if op != ws.OpText {
			continue
		}

		req := &fieldRequest{}
		if err := json.Unmarshal(msg, req); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		if err := api.validateRequest(req); err != nil {
			return nil, err
		}
		return req, nil
	}
}

func (api *flowFieldAPI) writeMessage(conn net.Conn, msg simulateMessage) error {
	js, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return wsutil.WriteServerMessage(conn, ws.OpText, js)
}

func (api *flowFieldAPI) closeConn(conn net.Conn) {
	body := ws.NewCloseFrameBody(ws.StatusNormalClosure, "")
	_ = ws.WriteFrame(conn, ws.NewCloseFrame(body))
}
