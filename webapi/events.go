package webapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/tos-network/redenvelope/toast"
	"github.com/tos-network/redenvelope/viewstate"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingInterval = 30 * time.Second
	eventBuffer    = 32
)

// Event is one message of the event stream. Exactly one of Toast and State is
// set, according to Type.
type Event struct {
	Type  string       `json:"type"`
	Toast *toast.Toast `json:"toast,omitempty"`
	State *StateView   `json:"state,omitempty"`
}

const (
	EventToast = "toast"
	EventState = "state"
)

// handleEvents streams toasts and state snapshots over a websocket. The first
// message is the current state.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("Websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	states := make(chan viewstate.State, eventBuffer)
	unsubscribeState := s.ctrl.Store().Subscribe(func(st viewstate.State) {
		select {
		case states <- st:
		default:
		}
	})
	defer unsubscribeState()

	var toasts <-chan toast.Toast
	if s.hub != nil {
		ch, unsubscribe := s.hub.Subscribe()
		defer unsubscribe()
		toasts = ch
	}

	// The reader only handles control frames and notices the client leaving.
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(ev Event) bool {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(ev) == nil
	}
	initial := s.view(s.ctrl.Store().Snapshot())
	if !send(Event{Type: EventState, State: &initial}) {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()
	for {
		select {
		case st := <-states:
			v := s.view(st)
			if !send(Event{Type: EventState, State: &v}) {
				return
			}
		case t, ok := <-toasts:
			if !ok {
				return
			}
			if !send(Event{Type: EventToast, Toast: &t}) {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(wsWriteWait))
			return
		}
	}
}
