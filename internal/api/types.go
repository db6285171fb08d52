package api

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Wire shapes mirror the ClipStream service responses.

type Video struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	AuthorID       int64   `json:"authorId"`
	AuthorUsername string  `json:"authorUsername"`
	Tags           TagList `json:"tags"`
	ViewCount      int64   `json:"viewCount"`
	LikeCount      int64   `json:"likeCount"`
	CommentCount   int64   `json:"commentCount"`
	CreatedAt      string  `json:"createdAt"`
}

type Comment struct {
	ID             int64  `json:"id"`
	VideoID        int64  `json:"videoId"`
	AuthorID       int64  `json:"authorId"`
	AuthorUsername string `json:"authorUsername"`
	AuthorEmail    string `json:"authorEmail"`
	Content        string `json:"content"`
	CreatedAt      string `json:"createdAt"`
}

// CreatedTime parses the comment timestamp, tolerating the service's zoned
// and zoneless encodings. Unparseable values sort as the zero time.
func (c Comment) CreatedTime() time.Time {
	return parseTimestamp(c.CreatedAt)
}

// CommentPage is the service's page envelope. It is replaced wholesale on
// every fetch, never merged.
type CommentPage struct {
	Content       []Comment `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
	First         bool      `json:"first"`
	Last          bool      `json:"last"`
}

// LikeState is the like relation between the current user and one video.
type LikeState struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// TagList tolerates the tag encodings the service has shipped over time: a
// JSON array of strings, a JSON string holding an encoded array, or a
// comma-separated string. Anything unparseable decodes to an empty list
// rather than failing the whole video payload.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	*t = parseTags(string(data))
	return nil
}

func parseTags(raw string) []string {
	v := gjson.Parse(raw)
	switch {
	case v.IsArray():
		return collectTags(v)
	case v.Type == gjson.String:
		if inner := gjson.Parse(v.String()); inner.IsArray() {
			return collectTags(inner)
		}
		return splitTags(v.String())
	default:
		return []string{}
	}
}

func collectTags(v gjson.Result) []string {
	tags := []string{}
	for _, item := range v.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

func splitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
