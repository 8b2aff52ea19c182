package vayd

import (
	"context"
	"net/http"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/types"
)

// OptimizeRoute asks the platform to compute the visit order for a
// doctor's day. The optimization runs entirely server-side; the client
// only displays the result.
func (c *Client) OptimizeRoute(ctx context.Context, req types.RouteRequest) (*types.RouteResult, error) {
	var out types.RouteResult
	if err := c.doJSON(ctx, http.MethodPost, "/routing/optimize", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
