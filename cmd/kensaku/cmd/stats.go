package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	var res struct {
		Regions []struct {
			Prefecture string `json:"prefecture"`
			Documents  int    `json:"documents"`
		} `json:"regions"`
		Companies    int    `json:"companies"`
		CacheEntries int    `json:"cache_entries"`
		Version      string `json:"version"`
	}
	if err := newClient().getJSON("/api/stats", nil, &res); err != nil {
		return err
	}

	totalDocs := 0
	for _, r := range res.Regions {
		fmt.Printf("%-12s %8d documents\n", r.Prefecture, r.Documents)
		totalDocs += r.Documents
	}
	fmt.Printf("\n%d documents, %d companies, %d cached results (server %s)\n",
		totalDocs, res.Companies, res.CacheEntries, res.Version)
	return nil
}
