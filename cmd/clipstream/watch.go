package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clipstream/clipstream/internal/api"
	"github.com/clipstream/clipstream/internal/watch"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <video-id>",
		Short: "Open a video view: detail, comments, and likes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid video id %q", args[0])
			}

			client, creds, cfg, err := setup()
			if err != nil {
				return err
			}

			ctrl := watch.NewController(client, creds, videoID, cfg.PageSize)
			if err := ctrl.Enter(cmd.Context()); err != nil {
				return err
			}

			snap := ctrl.Snapshot()
			if snap.NotFound {
				fmt.Fprintln(cmd.OutOrStdout(), "Video not found.")
				return nil
			}
			render(cmd, ctrl, snap)
			return interact(cmd.Context(), cmd, ctrl)
		},
	}
}

// interact runs the view's event loop: one command per line until quit.
func interact(ctx context.Context, cmd *cobra.Command, ctrl *watch.Controller) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, `Commands: n(ext) p(rev) l(ike) c <text> d <comment-id> r(efresh) q(uit)`)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for fmt.Fprint(out, "> "); scanner.Scan(); fmt.Fprint(out, "> ") {
		line := strings.TrimSpace(scanner.Text())
		verb, rest, _ := strings.Cut(line, " ")

		var err error
		switch verb {
		case "q", "quit":
			return nil
		case "", "r":
			// refresh only re-renders below
		case "n":
			err = ctrl.NextPage(ctx)
		case "p":
			err = ctrl.PrevPage(ctx)
		case "l":
			var state api.LikeState
			if state, err = ctrl.ToggleLike(ctx); err == nil {
				fmt.Fprintf(out, "%s (%d likes)\n", likedWord(state.Liked), state.LikeCount)
			}
		case "c":
			err = ctrl.AddComment(ctx, rest)
		case "d":
			var commentID int64
			if commentID, err = strconv.ParseInt(strings.TrimSpace(rest), 10, 64); err != nil {
				err = fmt.Errorf("invalid comment id %q", rest)
				break
			}
			err = ctrl.DeleteComment(ctx, commentID, confirmOnTerminal(cmd, scanner))
		default:
			fmt.Fprintf(out, "unknown command %q\n", verb)
		}

		if err != nil {
			fmt.Fprintln(out, describeError(err))
		} else {
			render(cmd, ctrl, ctrl.Snapshot())
		}
	}
	return scanner.Err()
}

func confirmOnTerminal(cmd *cobra.Command, scanner *bufio.Scanner) watch.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
		if !scanner.Scan() {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return answer == "y" || answer == "yes"
	}
}

func render(cmd *cobra.Command, ctrl *watch.Controller, snap watch.Snapshot) {
	out := cmd.OutOrStdout()

	if snap.Video != nil {
		v := snap.Video
		fmt.Fprintf(out, "\n%s\n", v.Title)
		fmt.Fprintf(out, "by %s · %s\n", v.AuthorUsername, formatCounts(v.ViewCount, snap.Like.LikeCount, v.CommentCount))
		if len(v.Tags) > 0 {
			fmt.Fprintf(out, "tags: %s\n", strings.Join(v.Tags, ", "))
		}
		if v.Description != "" {
			fmt.Fprintln(out, v.Description)
		}
		if snap.Session.Authenticated {
			fmt.Fprintf(out, "you: %s · liked: %v\n", snap.Session.IdentityLabel, snap.Like.Liked)
		}
	} else if snap.VideoErr != nil {
		fmt.Fprintln(out, "Video detail unavailable:", describeError(snap.VideoErr))
	}

	switch {
	case snap.CommentsErr != nil:
		fmt.Fprintln(out, "Comments unavailable:", describeError(snap.CommentsErr))
	case snap.Comments != nil:
		page := snap.Comments
		fmt.Fprintf(out, "\nComments (page %d/%d, %d total)\n", page.Number+1, max(page.TotalPages, 1), page.TotalElements)
		for _, c := range page.Content {
			marker := ""
			if ctrl.CanDelete(c) {
				marker = " [yours]"
			}
			fmt.Fprintf(out, "  #%d %s%s: %s\n", c.ID, c.AuthorUsername, marker, c.Content)
		}
	}

	if snap.LikeErr != nil {
		fmt.Fprintln(out, "Like status unavailable:", describeError(snap.LikeErr))
	}
}

func formatCounts(views, likes, comments int64) string {
	return fmt.Sprintf("%d views · %d likes · %d comments", views, likes, comments)
}

func likedWord(liked bool) string {
	if liked {
		return "Liked"
	}
	return "Like removed"
}

// describeError maps the failure taxonomy onto distinct user-facing messages.
func describeError(err error) string {
	var loginErr *watch.LoginRequiredError
	switch {
	case errors.As(err, &loginErr):
		return fmt.Sprintf("Log in to %s: clipstream login (you will return to %s)", loginErr.ActionName, loginErr.ReturnPath)
	case errors.Is(err, watch.ErrEmptyComment):
		return "Comment cannot be empty."
	case errors.Is(err, api.ErrRateLimited):
		return "Too many comments. Wait a moment before commenting again."
	case errors.Is(err, api.ErrUnauthenticated):
		return "Your session has expired. Log in again with: clipstream login"
	case errors.Is(err, api.ErrForbidden):
		return "You can only delete your own comments."
	case errors.Is(err, api.ErrNotFound):
		return "Not found."
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}
