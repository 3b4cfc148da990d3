package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"espaform/internal/config"
	"espaform/internal/footprint"
	"espaform/internal/metadata"
)

func newFootprintCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:         "footprint <scene.xml>",
		Short:       "Render a scene's geographic extent as GeoJSON",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			xmlPath, err := resolveScenePath(args[0])
			if err != nil {
				return err
			}
			model, err := metadata.ParseFile(xmlPath)
			if err != nil {
				return err
			}
			collection, err := footprint.Build(metadata.ProductID(xmlPath), model)
			if err != nil {
				return err
			}

			document := collection.String()
			if outputPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), document)
				return nil
			}

			target, err := config.ExpandPath(outputPath)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if err := os.WriteFile(target, []byte(document+"\n"), 0o644); err != nil {
				return fmt.Errorf("write footprint: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write GeoJSON to a file instead of stdout")

	return cmd
}
