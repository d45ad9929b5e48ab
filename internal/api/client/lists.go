package client

import (
	"context"
	"encoding/json"
	"net/url"

	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

// ListLists returns every saved list.
func (c *Client) ListLists(ctx context.Context) ([]domain.SavedList, error) {
	var resp struct {
		Lists []domain.SavedList `json:"lists"`
	}
	if err := c.get(ctx, "/api/v1/lists", &resp); err != nil {
		return nil, err
	}
	return resp.Lists, nil
}

// GetList returns a saved list by name.
func (c *Client) GetList(ctx context.Context, name string) (*domain.SavedList, error) {
	var sl domain.SavedList
	if err := c.get(ctx, "/api/v1/lists/"+url.PathEscape(name), &sl); err != nil {
		return nil, err
	}
	return &sl, nil
}

// SaveList stores listings under a name. Without replace an existing name
// is rejected by the server.
func (c *Client) SaveList(
	ctx context.Context,
	name string,
	listings []domain.Listing,
	replace bool,
) (*domain.SavedList, error) {
	path := "/api/v1/lists/" + url.PathEscape(name)
	if replace {
		path += "?replace=true"
	}

	body := map[string]any{"listings": listings}
	var sl domain.SavedList
	if err := c.put(ctx, path, body, &sl); err != nil {
		return nil, err
	}
	return &sl, nil
}

// DeleteList removes a saved list by name.
func (c *Client) DeleteList(ctx context.Context, name string) error {
	return c.del(ctx, "/api/v1/lists/"+url.PathEscape(name), nil)
}

// ImportLists submits an export document for merging, returning the names
// the lists were stored under.
func (c *Client) ImportLists(ctx context.Context, payload []byte) ([]string, error) {
	var resp struct {
		Imported []string `json:"imported"`
	}
	if err := c.post(ctx, "/api/v1/lists/import", json.RawMessage(payload), &resp); err != nil {
		return nil, err
	}
	return resp.Imported, nil
}

// ExportLists fetches every saved list in interchange form.
func (c *Client) ExportLists(ctx context.Context) ([]byte, error) {
	var doc json.RawMessage
	if err := c.get(ctx, "/api/v1/lists/export", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
