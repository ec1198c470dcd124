package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// loadBatchSize keeps request bodies comfortably under the server cap.
const loadBatchSize = 500

var flagLoadPrefecture string

var loadCmd = &cobra.Command{
	Use:   "load <file.jsonl>",
	Short: "Bulk-load documents from a JSONL file",
	Long:  "Each line is one JSON document. Documents are sent in batches to the target prefecture index.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&flagLoadPrefecture, "prefecture", "", "target prefecture code")
}

func runLoad(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	client := newClient()
	total := 0
	batch := make([]json.RawMessage, 0, loadBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		var res struct {
			Indexed int    `json:"indexed"`
			Error   string `json:"error"`
		}
		err := client.postJSON("/api/documents/batch", map[string]any{
			"prefecture": flagLoadPrefecture,
			"documents":  batch,
		}, &res)
		total += res.Indexed
		if err != nil {
			return err
		}
		if res.Error != "" {
			return fmt.Errorf("batch stopped after %d documents: %s", res.Indexed, res.Error)
		}
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		if !json.Valid(raw) {
			return fmt.Errorf("line %d: invalid JSON", line)
		}
		batch = append(batch, json.RawMessage(append([]byte(nil), raw...)))
		if len(batch) == loadBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	fmt.Printf("indexed %d documents\n", total)
	return nil
}
