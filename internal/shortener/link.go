package shortener

import (
	"slices"
	"time"
)

// HistoryKey is the cache key the link history is stored under.
const HistoryKey = "ShortenedUrlHistory"

// Link is one shortened URL as kept in the history.
type Link struct {
	ID        string    `json:"id"`
	Original  string    `json:"original"`
	Shortened string    `json:"shortened"`
	CreatedAt time.Time `json:"date"`
}

type shortenPayload struct {
	URL string `json:"url"`
}

type aliasResponse struct {
	Alias string     `json:"alias"`
	Links aliasLinks `json:"_links"`
}

type aliasLinks struct {
	Self  string `json:"self"`
	Short string `json:"short"`
}

func (r aliasResponse) link(now time.Time) Link {
	return Link{
		ID:        r.Alias,
		Original:  r.Links.Self,
		Shortened: r.Links.Short,
		CreatedAt: now,
	}
}

// insertUnique 先移除同 ID 的旧记录，再把 link 放到最前。
func insertUnique(list []Link, link Link) []Link {
	out := make([]Link, 0, len(list)+1)
	out = append(out, link)
	for _, item := range list {
		if item.ID != link.ID {
			out = append(out, item)
		}
	}
	return out
}

func sortNewestFirst(list []Link) {
	slices.SortStableFunc(list, func(a, b Link) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func clip(list []Link, limit int) []Link {
	if limit >= 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
