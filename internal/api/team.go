package api

import (
	"context"
	"net/http"

	"zask/internal/domain"
)

// FetchTeam loads the signed-in user's saved roster. A response without a
// team yields an empty one.
func (c *Client) FetchTeam(ctx context.Context) (*domain.Team, error) {
	var out struct {
		Team *domain.Team `json:"team"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/team", nil, &out); err != nil {
		return nil, err
	}
	if out.Team == nil {
		return domain.NewTeam(), nil
	}
	if out.Team.Players == nil {
		out.Team.Players = make(map[string]domain.PlayerRecord)
	}
	return out.Team, nil
}

// SaveTeam stores the roster for the signed-in user
func (c *Client) SaveTeam(ctx context.Context, team *domain.Team) error {
	return c.do(ctx, http.MethodPost, "/user/team", team, nil)
}
