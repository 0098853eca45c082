package tecalendar

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// ResolveImportance fetches the calendar once per impact level and
// merges the visible event ids into an id -> level map. Levels are
// written 1, then 2, then 3, so an id visible under several filters
// keeps the highest level observed. The three fetches are independent
// and run concurrently.
func (c *Client) ResolveImportance(ctx context.Context) (map[string]int, error) {
	ctx, span := tracer.Start(ctx, "ResolveImportance")
	defer span.End()

	var (
		wg     sync.WaitGroup
		mutex  sync.Mutex
		errs   []error
		levels [4]map[string]bool
	)
	for level := 1; level <= 3; level++ {
		wg.Add(1)
		go func(level int) {
			defer wg.Done()

			ids, err := c.collectEventIDs(ctx, level)
			mutex.Lock()
			defer mutex.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			levels[level] = ids
		}(level)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	importance := map[string]int{}
	for level := 1; level <= 3; level++ {
		for id := range levels[level] {
			importance[id] = level
		}
	}
	return importance, nil
}

func (c *Client) collectEventIDs(ctx context.Context, level int) (map[string]bool, error) {
	doc, err := c.fetchFiltered(ctx, map[string]string{
		cookieImportance: strconv.Itoa(level),
	})
	if err != nil {
		return nil, err
	}

	ids := map[string]bool{}
	doc.Find(c.config.RowSelector).Each(func(_ int, row *goquery.Selection) {
		if id := row.AttrOr("data-id", ""); id != "" {
			ids[id] = true
		}
	})
	return ids, nil
}
