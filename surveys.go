package vayd

import (
	"context"
	"net/http"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/types"
)

// ListSurveys returns the surveys available to the practice.
func (c *Client) ListSurveys(ctx context.Context) ([]types.Survey, error) {
	var out types.SurveyList
	if err := c.doJSON(ctx, http.MethodGet, "/surveys", nil, &out); err != nil {
		return nil, err
	}
	return out.Surveys, nil
}

// SubmitSurveyResponse uploads a client's survey answers.
func (c *Client) SubmitSurveyResponse(ctx context.Context, resp types.SurveyResponse) (*types.SubmissionReceipt, error) {
	var out types.SubmissionReceipt
	if err := c.doJSON(ctx, http.MethodPost, "/surveys/responses", resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
