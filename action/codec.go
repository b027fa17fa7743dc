package action

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidRequest is returned when a request cannot be decoded.
var ErrInvalidRequest = errors.New("invalid action request")

// Decode parses a Request from its JSON encoding. A missing id is filled in.
func Decode(data []byte) (*Request, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrInvalidRequest)
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.Kind == "" {
		return nil, fmt.Errorf("%w: missing kind field", ErrInvalidRequest)
	}
	kind, ok := ParseKind(string(req.Kind))
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, req.Kind)
	}
	req.Kind = kind
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	return &req, nil
}

// DecodePayload unmarshals req.Payload into dst. An empty payload leaves dst
// untouched.
func DecodePayload(req *Request, dst interface{}) error {
	if len(req.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Payload, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Encode serialises a Request to JSON.
func Encode(req *Request) ([]byte, error) {
	return json.Marshal(req)
}

// NewRequest creates a request with a fresh id and the encoded payload.
func NewRequest(kind Kind, payload interface{}) (*Request, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Request{ID: uuid.New(), Kind: kind, Payload: raw}, nil
}

// MustNewRequest is like NewRequest but panics on encoding failure. Payload
// types of this package always encode.
func MustNewRequest(kind Kind, payload interface{}) *Request {
	req, err := NewRequest(kind, payload)
	if err != nil {
		panic(err)
	}
	return req
}
