package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"mizan/internal/render"
	"mizan/internal/search"
)

var flagWidth int

func parseNum(what string, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q", what, raw)
	}
	return n, nil
}

var readCmd = &cobra.Command{
	Use:   "read <volume> [chapter]",
	Short: "List a volume's chapters, or print one chapter",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		volumeNum, err := parseNum("volume", args[0])
		if err != nil {
			return err
		}

		if len(args) == 1 {
			res := a.store.LoadVolume(cmd.Context(), volumeNum)
			if !res.Ok() {
				return fmt.Errorf("volume %d: %w", volumeNum, res.Cause)
			}
			return render.Chapters(cmd.OutOrStdout(), volumeNum, res.Chapters)
		}

		chapterNum, err := parseNum("chapter", args[1])
		if err != nil {
			return err
		}
		chapter, ok := a.store.FindChapter(cmd.Context(), volumeNum, chapterNum)
		if !ok {
			return fmt.Errorf("chapter %d not found in volume %d", chapterNum, volumeNum)
		}
		return render.Chapter(cmd.OutOrStdout(), chapter, flagWidth)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search hadith text across every volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if len([]rune(args[0])) < search.MinHadithQueryLen {
			return fmt.Errorf("query must be at least %d characters", search.MinHadithQueryLen)
		}
		matches := search.NewEngine(a.store, a.logger).SearchHadiths(cmd.Context(), args[0])
		return render.HadithMatches(cmd.OutOrStdout(), matches, flagWidth)
	},
}

var headingsCmd = &cobra.Command{
	Use:   "headings <query>",
	Short: "Search chapter and section titles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if len([]rune(args[0])) < search.MinHeadingQueryLen {
			return fmt.Errorf("query must be at least %d characters", search.MinHeadingQueryLen)
		}
		matches := search.NewEngine(a.store, a.logger).SearchHeadings(cmd.Context(), args[0])
		return render.HeadingMatches(cmd.OutOrStdout(), matches)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", render.DefaultWidth, "output width in columns")
	rootCmd.AddCommand(readCmd, searchCmd, headingsCmd)
}
