package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/pushlogin/internal/model"
)

var _ model.IdentityService = (*Client)(nil)

// Client talks to the remote identity service over HTTP/JSON.
// It is constructed once at startup and shared by every component.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a new identity service client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, apiKey, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP allows injecting the underlying http.Client (used in tests).
func NewClientWithHTTP(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

type createSessionRequest struct {
	Identifier string `json:"identifier"`
}

type createSessionResponse struct {
	SessionID string               `json:"session_id"`
	Device    *model.DeviceContext `json:"device,omitempty"`
}

type userPayload struct {
	UserID             string `json:"user_id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	VerificationStatus string `json:"verification_status"`
	ClientID           string `json:"client_id,omitempty"`
}

type clientPayload struct {
	ClientID string `json:"client_id"`
}

type sessionStatusResponse struct {
	Status string               `json:"status"`
	Token  string               `json:"token,omitempty"`
	User   *userPayload         `json:"user,omitempty"`
	Client *clientPayload       `json:"client,omitempty"`
	Device *model.DeviceContext `json:"device,omitempty"`
}

type verificationResponse struct {
	VerificationStatus string `json:"verification_status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateSession asks the identity service to start a push-approval session.
func (c *Client) CreateSession(ctx context.Context, identifier string) (model.SessionCreated, error) {
	var resp createSessionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/sessions", "", createSessionRequest{Identifier: identifier}, &resp); err != nil {
		return model.SessionCreated{}, fmt.Errorf("failed to create session: %w", err)
	}

	return model.SessionCreated{SessionID: resp.SessionID, Device: resp.Device}, nil
}

// GetSessionStatus returns the current remote status of a session.
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (model.SessionStatusReply, error) {
	var resp sessionStatusResponse
	if err := c.do(ctx, http.MethodGet, "/v1/sessions/"+url.PathEscape(sessionID), "", nil, &resp); err != nil {
		return model.SessionStatusReply{}, fmt.Errorf("failed to get session status: %w", err)
	}

	reply := model.SessionStatusReply{
		Status: strings.ToLower(resp.Status),
		Token:  resp.Token,
		Device: resp.Device,
	}
	if resp.Client != nil {
		reply.ClientID = resp.Client.ClientID
	}
	if resp.User != nil {
		u := resp.User.toModel()
		if u.ClientID == "" {
			u.ClientID = reply.ClientID
		}
		reply.User = &u
	}

	return reply, nil
}

// GetVerificationStatus returns the identity-verification status of the token owner.
func (c *Client) GetVerificationStatus(ctx context.Context, token string) (model.VerificationStatus, error) {
	var resp verificationResponse
	if err := c.do(ctx, http.MethodGet, "/v1/verification", token, nil, &resp); err != nil {
		return "", fmt.Errorf("failed to get verification status: %w", err)
	}

	return model.ParseVerificationStatus(resp.VerificationStatus), nil
}

func (u userPayload) toModel() model.User {
	return model.User{
		UserID:             u.UserID,
		Username:           u.Username,
		Email:              u.Email,
		Phone:              u.Phone,
		VerificationStatus: model.ParseVerificationStatus(u.VerificationStatus),
		ClientID:           u.ClientID,
	}
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e errorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
		if resp.StatusCode < http.StatusInternalServerError {
			return fmt.Errorf("%w: %d %s", model.ErrRemoteRejected, resp.StatusCode, e.Error)
		}
		return fmt.Errorf("remote service error: %d %s", resp.StatusCode, e.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
