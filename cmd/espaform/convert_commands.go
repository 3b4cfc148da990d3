package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"espaform/internal/batch"
)

func newHDFCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hdf <scene.xml>",
		Short: "Convert a scene product to a legacy HDF container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSceneConversion(ctx, cmd, args[0], batch.FormatHDF)
		},
	}
}

func newGTifCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "gtif <scene.xml>",
		Short: "Convert a scene product's bands to GeoTIFF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSceneConversion(ctx, cmd, args[0], batch.FormatGTif)
		},
	}
}

func runSceneConversion(ctx *commandContext, cmd *cobra.Command, arg string, format batch.Format) error {
	xmlPath, err := resolveScenePath(arg)
	if err != nil {
		return err
	}
	runner, store, err := ctx.newRunner()
	if err != nil {
		return err
	}
	defer closeStore(store)

	out := cmd.OutOrStdout()
	for _, res := range runner.ConvertScene(cmd.Context(), xmlPath, []batch.Format{format}) {
		if res.Err != nil {
			return res.Err
		}
		for _, output := range res.Outputs {
			fmt.Fprintf(out, "Wrote %s\n", output)
		}
	}
	return nil
}
