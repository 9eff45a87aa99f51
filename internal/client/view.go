package client

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/vversio/cinegrid/internal/query"
	"github.com/vversio/cinegrid/internal/watchlog"
)

// ErrNotInView is returned when an item id is not part of the loaded list.
var ErrNotInView = errors.New("item not in view")

// View is a locally held copy of the item list. Changes are applied to the
// copy immediately and rolled back if the server rejects them.
type View struct {
	client *Client

	mu     sync.Mutex
	filter query.FilterState
	items  []Item
}

// NewView creates an empty view backed by c.
func NewView(c *Client) *View {
	return &View{client: c, filter: query.DefaultFilterState()}
}

// Load fetches the items matching f and replaces the view.
func (v *View) Load(ctx context.Context, f query.FilterState) error {
	resp, err := v.client.List(ctx, f)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
	v.items = resp.Items
	return nil
}

// Reload fetches the list again with the last used filter.
func (v *View) Reload(ctx context.Context) error {
	v.mu.Lock()
	f := v.filter
	v.mu.Unlock()
	return v.Load(ctx, f)
}

// Items returns a copy of the current list.
func (v *View) Items() []Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Item, len(v.items))
	for i, it := range v.items {
		out[i] = it.clone()
	}
	return out
}

// Item returns a copy of the item with the given id.
func (v *View) Item(id string) (Item, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.indexOf(id); i >= 0 {
		return v.items[i].clone(), true
	}
	return Item{}, false
}

// Stats summarizes the current list locally.
func (v *View) Stats() query.Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := make([]*watchlog.Item, len(v.items))
	for i := range v.items {
		items[i] = v.items[i].Watchlog()
	}
	return query.QuickStats(items)
}

// UpdateRating shows the new rating immediately, then writes it. If the write
// fails the list reverts to the snapshot taken before the change.
func (v *View) UpdateRating(ctx context.Context, id string, rating *int) error {
	return v.optimistic(ctx, id,
		func(it *Item) {
			if rating == nil {
				it.UserRating = nil
				return
			}
			r := *rating
			it.UserRating = &r
		},
		func(ctx context.Context) (func(*Item), error) {
			updated, err := v.client.UpdateRating(ctx, id, rating)
			if err != nil {
				return nil, err
			}
			return func(it *Item) { *it = *updated }, nil
		},
	)
}

// ToggleFavorite flips the favorite flag locally, then on the server.
func (v *View) ToggleFavorite(ctx context.Context, id string) error {
	return v.optimistic(ctx, id,
		func(it *Item) { it.IsFavorite = !it.IsFavorite },
		func(ctx context.Context) (func(*Item), error) {
			fav, err := v.client.ToggleFavorite(ctx, id)
			if err != nil {
				return nil, err
			}
			return func(it *Item) { it.IsFavorite = fav }, nil
		},
	)
}

// optimistic applies change to the local item, then runs write. On failure
// the snapshot is restored; on success the server-confirmed fields are applied.
func (v *View) optimistic(ctx context.Context, id string, change func(*Item), write func(context.Context) (func(*Item), error)) error {
	v.mu.Lock()
	idx := v.indexOf(id)
	if idx < 0 {
		v.mu.Unlock()
		return ErrNotInView
	}
	snapshot := make([]Item, len(v.items))
	for i, it := range v.items {
		snapshot[i] = it.clone()
	}
	change(&v.items[idx])
	v.mu.Unlock()

	confirm, err := write(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.items = snapshot
		return err
	}
	if i := v.indexOf(id); i >= 0 {
		confirm(&v.items[i])
	}
	return nil
}

func (v *View) indexOf(id string) int {
	return slices.IndexFunc(v.items, func(it Item) bool { return it.ID == id })
}
