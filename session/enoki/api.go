package enoki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the public Enoki API.
const DefaultBaseURL = "https://api.enoki.mystenlabs.com"

type nonceRequest struct {
	Network            string `json:"network"`
	EphemeralPublicKey string `json:"ephemeralPublicKey"`
	AdditionalEpochs   int    `json:"additionalEpochs"`
}

type nonceResponse struct {
	Nonce               string `json:"nonce"`
	Randomness          string `json:"randomness"`
	Epoch               uint64 `json:"epoch"`
	MaxEpoch            uint64 `json:"maxEpoch"`
	EstimatedExpiration int64  `json:"estimatedExpiration"`
}

type addressResponse struct {
	Salt    string `json:"salt"`
	Address string `json:"address"`
}

type apiError struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// apiClient is a minimal client for the Enoki zkLogin endpoints.
type apiClient struct {
	base   string
	apiKey string
	http   *http.Client
}

func (c *apiClient) createNonce(ctx context.Context, req nonceRequest) (*nonceResponse, error) {
	var out nonceResponse
	if err := c.do(ctx, http.MethodPost, "/v1/zklogin/nonce", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) address(ctx context.Context, idToken string) (*addressResponse, error) {
	var out addressResponse
	hdr := http.Header{"zklogin-jwt": []string{idToken}}
	if err := c.do(ctx, http.MethodGet, "/v1/zklogin", nil, hdr, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, body interface{}, hdr http.Header, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.base, "/")+path, reader)
	if err != nil {
		return err
	}
	for k, v := range hdr {
		req.Header[k] = v
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("enoki %s: %s", apiErr.Errors[0].Code, apiErr.Errors[0].Message)
		}
		return fmt.Errorf("enoki status %d", resp.StatusCode)
	}
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode enoki response: %w", err)
	}
	return json.Unmarshal(envelope.Data, out)
}
