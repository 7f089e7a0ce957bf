package service

import (
	"context"
	"edulearn_backend/internal/util"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ExternalIdentity 外部身份服务返回的会话信息
type ExternalIdentity struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture"`
	SessionToken string  `json:"session_token"`
}

type SessionVerifier interface {
	Verify(ctx context.Context, sessionRef string) (*ExternalIdentity, error)
}

// HTTPSessionVerifier 通过 X-Session-ID 请求外部身份服务
type HTTPSessionVerifier struct {
	URL    string
	Client *http.Client
}

func NewHTTPSessionVerifier(url string) *HTTPSessionVerifier {
	return &HTTPSessionVerifier{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HTTPSessionVerifier) Verify(ctx context.Context, sessionRef string) (*ExternalIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Session-ID", sessionRef)

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, util.ErrInvalidCredential
	}

	var identity ExternalIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode session data: %w", err)
	}
	if identity.Email == "" || identity.SessionToken == "" {
		return nil, util.ErrInvalidCredential
	}
	return &identity, nil
}
