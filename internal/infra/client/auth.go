package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
)

// genericLoginError is shown when the collaborator is unreachable or its
// response carries no message.
const genericLoginError = "Login failed. Please check your credentials."

// Login delegates credential verification to the upstream. It deliberately
// bypasses retry and the shared breaker: a credential rejection is a
// successful HTTP exchange, and retrying it would only re-send the password.
func (c *SalesAPIClient) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := tracer.Start(ctx, "SalesAPIClient.Login")
	defer span.End()

	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Transport failures still count as upstream errors even though the
		// login form only ever sees the generic message.
		c.metrics.IncrExternalError("/api/login")
		return nil, &domain.ErrUnauthorized{Message: genericLoginError}
	}
	defer resp.Body.Close()

	var loginResp domain.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, &domain.ErrUnauthorized{Message: genericLoginError}
	}

	if resp.StatusCode != http.StatusOK || !loginResp.Success {
		msg := loginResp.Message
		if msg == "" {
			msg = genericLoginError
		}
		return nil, &domain.ErrUnauthorized{Message: msg}
	}

	return &loginResp, nil
}
