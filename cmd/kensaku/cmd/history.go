package cmd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your recent searches",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 8, "entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(flagHistoryLimit))

	var res struct {
		Username string `json:"username"`
		Entries  []struct {
			Time        string   `json:"time"`
			Query       string   `json:"query"`
			Prefecture  string   `json:"prefecture"`
			Statuses    []string `json:"statuses"`
			ResultCount int      `json:"result_count"`
		} `json:"entries"`
	}
	if err := newClient().getJSON("/api/history", params, &res); err != nil {
		return err
	}

	for _, e := range res.Entries {
		scope := e.Prefecture
		if scope == "" {
			scope = "all"
		}
		line := fmt.Sprintf("%s  %-24q  [%s]  %d results", e.Time, e.Query, scope, e.ResultCount)
		if len(e.Statuses) > 0 {
			line += "  status=" + strings.Join(e.Statuses, "|")
		}
		fmt.Println(line)
	}
	if len(res.Entries) == 0 {
		fmt.Printf("no history for %s\n", res.Username)
	}
	return nil
}
