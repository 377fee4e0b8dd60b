package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"studyhub/internal/service"
)

var recommendDocID string

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "List documents similar to one of the owner's documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withInsights(func(insights service.InsightsService) error {
			matches, err := insights.Recommend(cmd.Context(), service.RecommendRequest{
				OwnerID: ownerID,
				DocID:   recommendDocID,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				type match struct {
					DocID      string  `json:"doc_id"`
					Title      string  `json:"title"`
					Similarity float64 `json:"similarity"`
					Snippet    string  `json:"snippet"`
				}
				list := make([]match, 0, len(matches))
				for _, m := range matches {
					list = append(list, match{DocID: m.DocumentID, Title: m.Title, Similarity: m.Similarity, Snippet: m.Snippet})
				}
				return writeJSON(out, list)
			}

			if len(matches) == 0 {
				fmt.Fprintln(out, "No recommendations.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCORE\tTITLE\tID")
			for _, m := range matches {
				fmt.Fprintf(tw, "%.3f\t%s\t%s\n", m.Similarity, m.Title, m.DocumentID)
			}
			return tw.Flush()
		})
	},
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Show uploads per day for the current week",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withInsights(func(insights service.InsightsService) error {
			weekly, err := insights.WeeklyUploads(cmd.Context(), ownerID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, map[string]any{
					"labels": weekly.Labels,
					"data":   weekly.Data,
				})
			}
			for i, label := range weekly.Labels {
				fmt.Fprintf(out, "%s  %d\n", label, weekly.Data[i])
			}
			return nil
		})
	},
}

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Show document counts per folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withInsights(func(insights service.InsightsService) error {
			report, err := insights.FolderAnalytics(cmd.Context(), ownerID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				type folder struct {
					Name  string `json:"name"`
					Value int    `json:"value"`
				}
				folders := make([]folder, 0, len(report.Folders))
				for _, f := range report.Folders {
					folders = append(folders, folder{Name: f.Name, Value: f.Count})
				}
				return writeJSON(out, map[string]any{
					"folders":        folders,
					"biggest_folder": report.BiggestFolder,
					"biggest_count":  report.BiggestCount,
					"days_left":      report.DaysLeft,
				})
			}

			if len(report.Folders) == 0 {
				fmt.Fprintln(out, "No documents.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FOLDER\tDOCUMENTS")
			for _, f := range report.Folders {
				fmt.Fprintf(tw, "%s\t%d\n", f.Name, f.Count)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nBiggest: %s (%d), days left: %d\n", report.BiggestFolder, report.BiggestCount, report.DaysLeft)
			return nil
		})
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recommendDocID, "doc", "", "document id to find matches for")
	_ = recommendCmd.MarkFlagRequired("doc")

	rootCmd.AddCommand(recommendCmd, weeklyCmd, foldersCmd)
}
