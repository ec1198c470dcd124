package cmd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagPrefecture string
	flagCity       string
	flagStatus     string
	flagMode       string
	flagType       string
	flagLimit      int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the company directory",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&flagPrefecture, "prefecture", "", "prefecture code, or empty for all")
	searchCmd.Flags().StringVar(&flagCity, "city", "", "city filter")
	searchCmd.Flags().StringVar(&flagStatus, "status", "", "customer statuses, pipe-delimited")
	searchCmd.Flags().StringVar(&flagMode, "mode", "", "search option: all or partial")
	searchCmd.Flags().StringVar(&flagType, "type", "", "field target: title or auto")
	searchCmd.Flags().IntVar(&flagLimit, "limit", 0, "max companies to return")
}

type searchResult struct {
	Companies []struct {
		CompanyID string `json:"company_id"`
		Company   struct {
			Name           string `json:"company_name"`
			Prefecture     string `json:"prefecture"`
			City           string `json:"city"`
			CustomerStatus string `json:"customer_status"`
		} `json:"company"`
		URLs []struct {
			URL          string   `json:"url"`
			URLLabel     string   `json:"url_label"`
			Score        float64  `json:"score"`
			MatchedTerms []string `json:"matched_terms"`
		} `json:"urls"`
		AggregateScore float64 `json:"aggregate_score"`
	} `json:"grouped_results"`
	TotalFound     int   `json:"total_found"`
	TotalCompanies int   `json:"total_companies"`
	CacheHit       bool  `json:"cache_hit"`
	ElapsedMS      int64 `json:"elapsed_ms"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	params := url.Values{}
	params.Set("q", strings.Join(args, " "))
	if flagPrefecture != "" {
		params.Set("prefecture", flagPrefecture)
	}
	if flagCity != "" {
		params.Set("city", flagCity)
	}
	if flagStatus != "" {
		params.Set("cust_status", flagStatus)
	}
	if flagMode != "" {
		params.Set("search_option", flagMode)
	}
	if flagType != "" {
		params.Set("type", flagType)
	}
	if flagLimit > 0 {
		params.Set("limit", strconv.Itoa(flagLimit))
	}

	var res searchResult
	if err := newClient().getJSON("/api/search", params, &res); err != nil {
		return err
	}

	for _, c := range res.Companies {
		fmt.Printf("%s  %s (%s %s) [%s]  score=%.3f\n",
			c.CompanyID, c.Company.Name, c.Company.Prefecture, c.Company.City,
			c.Company.CustomerStatus, c.AggregateScore)
		for _, u := range c.URLs {
			label := u.URLLabel
			if label == "" {
				label = u.URL
			}
			fmt.Printf("    %.3f  %s  (%s)\n", u.Score, label, strings.Join(u.MatchedTerms, ", "))
		}
	}

	cacheNote := ""
	if res.CacheHit {
		cacheNote = ", cached"
	}
	fmt.Printf("\n%d companies (%d URL hits) in %dms%s\n",
		res.TotalCompanies, res.TotalFound, res.ElapsedMS, cacheNote)
	return nil
}
