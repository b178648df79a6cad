package client

import (
	"context"
	"strconv"

	"github.com/talktrace/talktrace/model"
)

// TagPayload carries the fields for creating or updating a tag
type TagPayload struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Tags lists the tag vocabulary
func (c *Client) Tags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := c.get(ctx, "/tags/", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag adds a tag, reusing one with the same name
func (c *Client) CreateTag(ctx context.Context, payload TagPayload) (*model.Tag, error) {
	var tag model.Tag
	if err := c.post(ctx, "/tags/", payload, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpdateTag renames or recolors a tag
func (c *Client) UpdateTag(ctx context.Context, id uint, payload TagPayload) (*model.Tag, error) {
	var tag model.Tag
	if err := c.put(ctx, "/tags/"+strconv.FormatUint(uint64(id), 10), payload, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag
func (c *Client) DeleteTag(ctx context.Context, id uint) error {
	return c.delete(ctx, "/tags/"+strconv.FormatUint(uint64(id), 10), nil)
}
