package backend

import (
	"context"
	"net/http"
	"strings"

	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

// SendFeedback relays a contact-form submission upstream.
func (c *Client) SendFeedback(ctx context.Context, payload FeedbackCreate) (*FeedbackResult, error) {
	if strings.TrimSpace(payload.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feedback message is required")
	}

	var result FeedbackResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/feedback/", body: payload}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
