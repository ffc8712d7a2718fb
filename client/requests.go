package client

import (
	"context"
	"net/url"

	"github.com/rentdesk/rentdesk/maintenance"
)

// RequestService handles maintenance request operations.
type RequestService struct {
	c *Client
}

type listRequestsResponse struct {
	Requests []maintenance.Request `json:"requests"`
	Count    int                   `json:"count"`
}

// List returns the requests of a property after the server applies q.
// A zero Query returns every request, newest first.
func (s *RequestService) List(ctx context.Context, propertyID string, q maintenance.Query) ([]maintenance.Request, error) {
	var resp listRequestsResponse
	if err := s.c.get(ctx, "/api/v1/properties/"+url.PathEscape(propertyID)+"/requests", queryParams(q), &resp); err != nil {
		return nil, err
	}
	return resp.Requests, nil
}

// Get fetches a single request.
func (s *RequestService) Get(ctx context.Context, id string) (*maintenance.Request, error) {
	var req maintenance.Request
	if err := s.c.get(ctx, requestPath(id), nil, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Create files a new request against a property. It always starts pending.
func (s *RequestService) Create(ctx context.Context, propertyID string, in *CreateRequest) (*maintenance.Request, error) {
	var req maintenance.Request
	if err := s.c.post(ctx, "/api/v1/properties/"+url.PathEscape(propertyID)+"/requests", in, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Patch edits the non-status fields of a request.
func (s *RequestService) Patch(ctx context.Context, id string, in *PatchRequest) (*maintenance.Request, error) {
	var req maintenance.Request
	if err := s.c.patch(ctx, requestPath(id), in, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Transition moves a request to another status.
func (s *RequestService) Transition(ctx context.Context, id string, to maintenance.Status) (*maintenance.Request, error) {
	var req maintenance.Request
	body := map[string]maintenance.Status{"status": to}
	if err := s.c.post(ctx, requestPath(id)+"/transition", body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Delete removes a request and its notes. Landlords only.
func (s *RequestService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, requestPath(id), nil, nil)
}

func requestPath(id string) string {
	return "/api/v1/requests/" + url.PathEscape(id)
}

func queryParams(q maintenance.Query) url.Values {
	params := url.Values{}
	set := func(k, v string) {
		if v != "" {
			params.Set(k, v)
		}
	}
	set("status", string(q.Status))
	set("priority", string(q.Priority))
	set("category", string(q.Category))
	set("date_range", string(q.DateRange))
	set("search", q.Search)
	set("sort_by", string(q.SortBy))
	return params
}
