package vayd

import (
	"context"
	"net/http"
	"net/url"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/types"
)

// GetIntakeForm fetches an intake form definition.
func (c *Client) GetIntakeForm(ctx context.Context, formID string) (*types.IntakeForm, error) {
	var out types.IntakeForm
	if err := c.doJSON(ctx, http.MethodGet, "/intake/forms/"+url.PathEscape(formID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitIntakeForm uploads a filled-in intake form. Field validation is
// server-side.
func (c *Client) SubmitIntakeForm(ctx context.Context, submission types.IntakeSubmission) (*types.SubmissionReceipt, error) {
	var out types.SubmissionReceipt
	if err := c.doJSON(ctx, http.MethodPost, "/intake/submissions", submission, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
