// Package remote talks to the remote task service over REST.
package remote

import (
	"context"
	"net/url"
	"strconv"

	"github.com/hay-kot/todos/internal/core/task"
)

// Service is the remote task service as seen by the controller.
type Service interface {
	List(ctx context.Context, opts ListOptions) ([]task.Task, error)
	Create(ctx context.Context, req task.CreateRequest) error
	Update(ctx context.Context, id string, patch task.Patch) error
	Delete(ctx context.Context, id string) error
}

// ListOptions narrows the list call. Zero values are omitted from the query
// and the service applies its own defaults.
type ListOptions struct {
	Status task.Status
	Limit  int
	SortBy string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Status != "" {
		q.Set("status", string(o.Status))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.SortBy != "" {
		q.Set("sortBy", o.SortBy)
	}
	return q
}

// ListResponse is the body returned by GET /todos.
type ListResponse struct {
	Items []task.Task `json:"items"`
	Count int         `json:"count"`
}
