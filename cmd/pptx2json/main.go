// Command pptx2json converts a PresentationML package into the
// resolved JSON slide description pptxjson.Process produces.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/VitaminC1989/pptxjson"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var outPath string
	var pretty bool

	root := &cobra.Command{
		Use:   "pptx2json <file.pptx>",
		Short: "Resolve a PresentationML package into renderer-agnostic JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			logger.Info("processing", zap.String("file", src))

			out, err := pptxjson.ProcessFile(src)
			if err != nil {
				logger.Error("process failed", zap.String("file", src), zap.Error(err))
				return err
			}

			var data []byte
			if pretty {
				data, err = json.MarshalIndent(out, "", "  ")
			} else {
				data, err = json.Marshal(out)
			}
			if err != nil {
				return fmt.Errorf("marshal output: %w", err)
			}

			if outPath == "" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			logger.Info("wrote output", zap.String("path", outPath), zap.Int("slides", len(out.Slides)))
			return nil
		},
	}

	root.Flags().StringVarP(&outPath, "out", "o", "", "write JSON to this file instead of stdout")
	root.Flags().BoolVar(&pretty, "pretty", false, "pretty-print the JSON output")

	if err := root.Execute(); err != nil {
		logger.Error("exit", zap.Error(err))
		os.Exit(1)
	}
}
