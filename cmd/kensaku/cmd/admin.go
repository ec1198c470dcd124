package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear <prefecture>",
	Short: "Clear a prefecture index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var res struct {
			Status string `json:"status"`
		}
		if err := newClient().postJSON("/api/indexes/"+args[0]+"/clear", nil, &res); err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", args[0], res.Status)
		return nil
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize <prefecture>",
	Short: "Compact a prefecture index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var res struct {
			Status string `json:"status"`
		}
		if err := newClient().postJSON("/api/indexes/"+args[0]+"/optimize", nil, &res); err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", args[0], res.Status)
		return nil
	},
}
