package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newFeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "List the public video feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := setup()
			if err != nil {
				return err
			}

			videos, err := client.ListVideos(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(videos) == 0 {
				fmt.Fprintln(out, "No videos yet.")
				return nil
			}
			for _, v := range videos {
				fmt.Fprintf(out, "#%d  %s by %s (%s)\n", v.ID, v.Title, v.AuthorUsername,
					formatCounts(v.ViewCount, v.LikeCount, v.CommentCount))
				if len(v.Tags) > 0 {
					fmt.Fprintf(out, "     tags: %s\n", strings.Join(v.Tags, ", "))
				}
			}
			return nil
		},
	}
}
