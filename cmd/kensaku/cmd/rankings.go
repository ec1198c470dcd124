package cmd

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	flagRankKind  string
	flagRankLimit int
)

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Show the most popular search keywords",
	RunE:  runRankings,
}

func init() {
	rankingsCmd.Flags().StringVar(&flagRankKind, "kind", "keyword", "ranking kind: keyword or query")
	rankingsCmd.Flags().IntVar(&flagRankLimit, "limit", 10, "terms to show")
}

func runRankings(cmd *cobra.Command, args []string) error {
	params := url.Values{}
	params.Set("kind", flagRankKind)
	params.Set("limit", strconv.Itoa(flagRankLimit))

	var res struct {
		Kind  string `json:"kind"`
		Items []struct {
			Term  string `json:"term"`
			Count int64  `json:"count"`
		} `json:"items"`
	}
	if err := newClient().getJSON("/api/rankings", params, &res); err != nil {
		return err
	}

	for i, item := range res.Items {
		fmt.Printf("%2d. %-20s %d\n", i+1, item.Term, item.Count)
	}
	return nil
}
