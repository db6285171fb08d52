package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/clipstream/clipstream/internal/api"
	"github.com/clipstream/clipstream/internal/watch"
)

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "login required",
			err:  &watch.LoginRequiredError{ActionName: "comment", ReturnPath: "/video/7"},
			want: "Log in to comment",
		},
		{
			name: "empty comment",
			err:  watch.ErrEmptyComment,
			want: "Comment cannot be empty.",
		},
		{
			name: "rate limited",
			err:  api.NewError(429, "too many comments"),
			want: "Too many comments",
		},
		{
			name: "session expired",
			err:  api.NewError(401, "token expired"),
			want: "session has expired",
		},
		{
			name: "forbidden",
			err:  api.NewError(403, "not the author"),
			want: "your own comments",
		},
		{
			name: "not found",
			err:  api.NewError(404, "no such video"),
			want: "Not found.",
		},
		{
			name: "anything else",
			err:  fmt.Errorf("connection reset"),
			want: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describeError(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("describeError() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestDescribeErrorLoginIncludesReturnPath(t *testing.T) {
	err := &watch.LoginRequiredError{ActionName: "like", ReturnPath: "/video/42"}
	got := describeError(err)
	if !strings.Contains(got, "/video/42") {
		t.Errorf("describeError() = %q, want return path included", got)
	}
}

func TestFormatCounts(t *testing.T) {
	got := formatCounts(1200, 34, 5)
	want := "1200 views · 34 likes · 5 comments"
	if got != want {
		t.Errorf("formatCounts() = %q, want %q", got, want)
	}
}

func TestLikedWord(t *testing.T) {
	if got := likedWord(true); got != "Liked" {
		t.Errorf("likedWord(true) = %q", got)
	}
	if got := likedWord(false); got != "Like removed" {
		t.Errorf("likedWord(false) = %q", got)
	}
}
