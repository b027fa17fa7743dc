package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/tos-network/redenvelope/action"
	"github.com/tos-network/redenvelope/flow"
	"github.com/tos-network/redenvelope/toast"
	"github.com/tos-network/redenvelope/viewstate"
)

// StateView is a view state snapshot with the display strings the front end
// renders.
type StateView struct {
	viewstate.State
	AddressShort string `json:"addressShort,omitempty"`
	BalanceText  string `json:"balanceText,omitempty"`
	AccountURL   string `json:"accountUrl,omitempty"`
	SentShort    string `json:"sentShort,omitempty"`
	ClaimedShort string `json:"claimedShort,omitempty"`
}

// ActionResponse is the reply to an action request: the terminal toast and,
// on success, the outcome.
type ActionResponse struct {
	Toast   toast.Toast   `json:"toast"`
	Outcome *flow.Outcome `json:"outcome,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) view(st viewstate.State) StateView {
	return NewStateView(st, s.ctrl.AccountURL)
}

// NewStateView derives the display strings of st. accountURL links an address
// on the explorer.
func NewStateView(st viewstate.State, accountURL func(string) string) StateView {
	v := StateView{State: st}
	if st.LoggedIn() {
		v.AddressShort = viewstate.AbbreviateAddress(st.Session.Address)
		v.AccountURL = accountURL(st.Session.Address)
		if !st.Account.Loading {
			v.BalanceText = viewstate.FormatBalance(st.Account.Balance)
		}
	}
	if st.SentEnvelope.IsSet() {
		v.SentShort = st.SentEnvelope.Display()
	}
	if st.ClaimedObject.IsSet() {
		v.ClaimedShort = st.ClaimedObject.Display()
	}
	return v
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.view(s.ctrl.Store().Snapshot()))
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	kind, ok := action.ParseKind(ps.ByName("kind"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown action " + ps.ByName("kind")})
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	req := &action.Request{ID: uuid.New(), Kind: kind}
	if len(strings.TrimSpace(string(body))) > 0 {
		if !json.Valid(body) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: action.ErrInvalidRequest.Error()})
			return
		}
		req.Payload = body
	}
	s.writeResult(w, req, s.execute(r, req))
}

type result struct {
	out *flow.Outcome
	err error
}

// execute runs req detached from the client connection: once submitted, an
// action only ends by completing or by the controller's submission timeout.
func (s *Server) execute(r *http.Request, req *action.Request) result {
	out, err := s.ctrl.Execute(context.WithoutCancel(r.Context()), req)
	return result{out, err}
}

func (s *Server) writeResult(w http.ResponseWriter, req *action.Request, res result) {
	if errors.Is(res.err, flow.ErrActionInFlight) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: res.err.Error()})
		return
	}
	t := toast.Toast{RequestID: req.ID, Kind: req.Kind, Time: time.Now()}
	if res.err != nil {
		t.Level, t.Message = toast.LevelError, res.err.Error()
		writeJSON(w, statusOf(res.err), ActionResponse{Toast: t})
		return
	}
	t.Level, t.Message, t.Link = toast.LevelSuccess, res.out.Message, res.out.Link
	writeJSON(w, http.StatusOK, ActionResponse{Toast: t, Outcome: res.out})
}

// statusOf maps a failed action to an HTTP status.
func statusOf(err error) int {
	switch action.ClassOf(err) {
	case action.ClassValidation:
		return http.StatusBadRequest
	case action.ClassAuthorization:
		return http.StatusUnauthorized
	case action.ClassSubmission:
		return http.StatusUnprocessableEntity
	case action.ClassNetwork:
		return http.StatusBadGateway
	}
	if errors.Is(err, action.ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := s.ctrl.Logout(r.Context()); err != nil {
		s.log.Warn("Logout failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.view(s.ctrl.Store().Snapshot()))
}

// handleAuthCallback completes an OAuth login. The provider posts the id token
// as a form field and the browser is sent back to the app.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if msg := r.PostForm.Get("error"); msg != "" {
		http.Error(w, "login failed: "+msg, http.StatusUnauthorized)
		return
	}
	token := r.PostForm.Get("id_token")
	if token == "" {
		http.Error(w, "missing id_token", http.StatusBadRequest)
		return
	}
	req, err := action.NewRequest(action.KindLogin, action.LoginPayload{IDToken: token})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	res := s.execute(r, req)
	if res.err != nil {
		status := statusOf(res.err)
		if errors.Is(res.err, flow.ErrActionInFlight) {
			status = http.StatusConflict
		}
		http.Error(w, res.err.Error(), status)
		return
	}
	http.Redirect(w, r, s.cfg.AfterLogin, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
