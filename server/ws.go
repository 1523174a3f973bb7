package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dialup-inc/hexpic"
)

// wsRequest is one websocket message. Options persist for the rest of the
// session; a message with neither URL nor Data only updates them.
type wsRequest struct {
	ID      string        `json:"id"`
	URL     string        `json:"url,omitempty"`
	Data    string        `json:"data,omitempty"`
	Options hexpic.Update `json:"options"`
}

type wsResponse struct {
	ID     string         `json:"id"`
	Result *hexpic.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
	Status int            `json:"status,omitempty"`
}

type connID uint64

type conn struct {
	ID connID

	wsMu sync.Mutex
	ws   *websocket.Conn
}

func newConn(id connID, ws *websocket.Conn) *conn {
	return &conn{
		ID: id,
		ws: ws,
	}
}

func (c *conn) Close(code int, reason string) error {
	deadline := time.Now().Add(100 * time.Millisecond)
	msg := websocket.FormatCloseMessage(code, reason)

	c.ws.WriteControl(websocket.CloseMessage, msg, deadline)

	return c.ws.Close()
}

func (c *conn) Send(v interface{}) error {
	c.wsMu.Lock()
	defer c.wsMu.Unlock()

	return c.ws.WriteJSON(v)
}

// HandleWS runs a conversion session. Each session keeps one Converter, so
// repeated frames of the same size reuse its drawing surface.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket.Upgrader error")
		return
	}
	ws.SetReadLimit(s.wsReadLimit())

	c := newConn(s.nextConnID(), ws)
	defer c.Close(websocket.CloseNormalClosure, "")

	s.metrics.sessions.Inc()
	defer s.metrics.sessions.Dec()

	logger := log.With().Uint64("conn", uint64(c.ID)).Logger()
	logger.Debug().Msg("session opened")

	conv := s.converter(hexpic.Update{})
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("read failed")
			}
			return
		}

		var req wsRequest
		var resp wsResponse
		if err := json.Unmarshal(data, &req); err != nil {
			resp = errorResponse("", badRequest("decode message: %v", err))
		} else {
			resp = s.handleMessage(r.Context(), conv, req)
		}
		if resp.Error != "" {
			logger.Warn().Str("id", resp.ID).Int("status", resp.Status).Msg(resp.Error)
		}

		if err := c.Send(resp); err != nil {
			logger.Warn().Err(err).Msg("write failed")
			return
		}
	}
}

// wsReadLimit caps one message at the base64 form of a max_upload_bytes
// image plus room for the JSON around it.
func (s *Server) wsReadLimit() int64 {
	return s.maxUpload*4/3 + 4096
}

func (s *Server) handleMessage(ctx context.Context, conv *hexpic.Converter, req wsRequest) wsResponse {
	conv.SetOptions(req.Options)

	var (
		res    *hexpic.Result
		err    error
		source string
	)
	start := time.Now()

	switch {
	case req.URL != "" && req.Data != "":
		return errorResponse(req.ID, badRequest("url and data are exclusive"))
	case req.URL != "":
		source = sourceOf(req.URL)

		ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()

		res, err = conv.FromURL(ctx, req.URL)
	case req.Data != "":
		source = sourceUpload

		raw, derr := base64.StdEncoding.DecodeString(req.Data)
		if derr != nil {
			return errorResponse(req.ID, badRequest("data: %v", derr))
		}
		res, err = conv.FromReader(bytes.NewReader(raw))
	default:
		return wsResponse{ID: req.ID}
	}

	s.metrics.observe(source, start, err)
	if err != nil {
		return errorResponse(req.ID, err)
	}
	return wsResponse{ID: req.ID, Result: res}
}

func errorResponse(id string, err error) wsResponse {
	return wsResponse{ID: id, Error: err.Error(), Status: statusFor(err)}
}
