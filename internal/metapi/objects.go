package metapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
)

// Department is a curatorial department of the museum.
type Department struct {
	ID          int
	DisplayName string
}

// Search returns the IDs of objects with images that match f.
// Results are cached per filter for the configured TTL.
func (c *Client) Search(ctx context.Context, f artwork.Filter) ([]int64, error) {
	key := f.Key()
	if ids, ok := c.cached(key); ok {
		return ids, nil
	}

	body, err := c.get(ctx, "/search?"+c.searchQuery(f).Encode())
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("metapi: malformed search response: %w", artwork.ErrTransient)
	}

	result := gjson.ParseBytes(body)
	var ids []int64
	result.Get("objectIDs").ForEach(func(_, v gjson.Result) bool {
		ids = append(ids, v.Int())
		return true
	})
	if len(ids) == 0 {
		return nil, fmt.Errorf("metapi: search %s: %w", key, artwork.ErrNotFound)
	}

	c.logger.Debug("search", "filter", key, "results", len(ids))
	c.store(key, ids)
	return ids, nil
}

func (c *Client) searchQuery(f artwork.Filter) url.Values {
	q := url.Values{}
	q.Set("hasImages", "true")
	if f.Medium != "" {
		q.Set("medium", f.Medium)
	}
	if f.Country != "" {
		q.Set("geoLocation", f.Country)
	}
	if f.HasYearRange() {
		begin, end := c.yearMin, c.yearMax
		if f.YearStart != nil {
			begin = *f.YearStart
		}
		if f.YearEnd != nil {
			end = *f.YearEnd
		}
		q.Set("dateBegin", strconv.Itoa(begin))
		q.Set("dateEnd", strconv.Itoa(end))
	}
	q.Set("q", "*")
	return q
}

// Object fetches a single object by ID.
func (c *Client) Object(ctx context.Context, id int64) (artwork.Artwork, error) {
	body, err := c.get(ctx, "/objects/"+strconv.FormatInt(id, 10))
	if err != nil {
		return artwork.Artwork{}, err
	}
	return parseObject(body)
}

func parseObject(body []byte) (artwork.Artwork, error) {
	if !gjson.ValidBytes(body) {
		return artwork.Artwork{}, fmt.Errorf("metapi: malformed object response: %w", artwork.ErrTransient)
	}
	r := gjson.ParseBytes(body)
	id := r.Get("objectID")
	if !id.Exists() {
		return artwork.Artwork{}, fmt.Errorf("metapi: object response without objectID: %w", artwork.ErrTransient)
	}

	return artwork.Artwork{
		ID:             strconv.FormatInt(id.Int(), 10),
		Title:          r.Get("title").String(),
		ImageURL:       r.Get("primaryImage").String(),
		ThumbnailURL:   r.Get("primaryImageSmall").String(),
		Artist:         r.Get("artistDisplayName").String(),
		Date:           r.Get("objectDate").String(),
		BeginYear:      int(r.Get("objectBeginDate").Int()),
		EndYear:        int(r.Get("objectEndDate").Int()),
		Medium:         r.Get("medium").String(),
		Classification: r.Get("classification").String(),
		Department:     r.Get("department").String(),
		Country:        r.Get("country").String(),
		Culture:        r.Get("culture").String(),
		Period:         r.Get("period").String(),
		ObjectURL:      r.Get("objectURL").String(),
	}, nil
}

// Departments lists the museum departments.
func (c *Client) Departments(ctx context.Context) ([]Department, error) {
	body, err := c.get(ctx, "/departments")
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("metapi: malformed departments response: %w", artwork.ErrTransient)
	}

	var depts []Department
	gjson.GetBytes(body, "departments").ForEach(func(_, v gjson.Result) bool {
		depts = append(depts, Department{
			ID:          int(v.Get("departmentId").Int()),
			DisplayName: v.Get("displayName").String(),
		})
		return true
	})
	return depts, nil
}

func (c *Client) cached(key string) ([]int64, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *Client) store(key string, ids []int64) {
	if c.cache != nil {
		c.cache.Add(key, ids)
	}
}
