package discovery

import "github.com/google/uuid"

type FeedItemType string

const (
	FeedItemPlace FeedItemType = "place"
	FeedItemVideo FeedItemType = "video"
)

// Places per video in a composed feed.
const placesPerVideo = 3

// Video is the feed view of a creator video.
type Video struct {
	ID              uuid.UUID `json:"id"`
	CreatorID       uuid.UUID `json:"creator_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	VideoURL        string    `json:"video_url"`
	VideoType       string    `json:"video_type"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	Location        string    `json:"location,omitempty"`
	Destinations    []string  `json:"destinations,omitempty"`
	Views           int64     `json:"views"`
	Likes           int64     `json:"likes"`
	IsFeatured      bool      `json:"is_featured"`
}

type FeedItem struct {
	Type  FeedItemType     `json:"type"`
	ID    string           `json:"id"`
	Place *DiscoveredPlace `json:"place,omitempty"`
	Video *Video           `json:"video,omitempty"`
}

// Compose interleaves places and videos as 3 places then 1 video until limit
// items are emitted or both inputs run out. A side that runs out is skipped;
// the result is never padded.
func Compose(places []DiscoveredPlace, videos []Video, limit int) []FeedItem {
	if limit <= 0 {
		return []FeedItem{}
	}

	capacity := len(places) + len(videos)
	if capacity > limit {
		capacity = limit
	}
	feed := make([]FeedItem, 0, capacity)

	pi, vi := 0, 0
	for len(feed) < limit && (pi < len(places) || vi < len(videos)) {
		for n := 0; n < placesPerVideo && pi < len(places) && len(feed) < limit; n++ {
			p := places[pi]
			feed = append(feed, FeedItem{Type: FeedItemPlace, ID: "place-" + p.ID.String(), Place: &p})
			pi++
		}
		if vi < len(videos) && len(feed) < limit {
			v := videos[vi]
			feed = append(feed, FeedItem{Type: FeedItemVideo, ID: "video-" + v.ID.String(), Video: &v})
			vi++
		}
	}
	return feed
}
