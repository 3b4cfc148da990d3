package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"espaform/internal/metadata"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "inspect <scene.xml>",
		Short:       "Show scene and band metadata for a product",
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
			productID := metadata.ProductID(xmlPath)

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"product_id": productID,
					"scene":      model.Scene,
					"bands":      model.Bands,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPairs(scenePairs(productID, model)))
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(model.Bands))
			for _, band := range model.Bands {
				rows = append(rows, bandRow(band))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Band", "Product", "Type", "Size", "Pixel", "Fill", "File"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit metadata as JSON")

	return cmd
}

func scenePairs(productID string, model *metadata.Model) [][2]string {
	scene := model.Scene
	pairs := [][2]string{
		{"Product", productID},
		{"Satellite", scene.Satellite},
		{"Instrument", scene.Instrument},
		{"Acquired", scene.AcquisitionDate},
	}
	if scene.DataProvider != "" {
		pairs = append(pairs, [2]string{"Data provider", scene.DataProvider})
	}
	if scene.WRS != nil {
		pairs = append(pairs, [2]string{
			"WRS",
			fmt.Sprintf("%d %03d/%03d", scene.WRS.System, scene.WRS.Path, scene.WRS.Row),
		})
	}
	if scene.SolarZenith != nil && scene.SolarAzimuth != nil {
		pairs = append(pairs, [2]string{
			"Solar angles",
			fmt.Sprintf("zenith %.4f azimuth %.4f", *scene.SolarZenith, *scene.SolarAzimuth),
		})
	}
	pairs = append(pairs,
		[2]string{"Upper left", formatCorner(scene.UpperLeft)},
		[2]string{"Lower right", formatCorner(scene.LowerRight)},
		[2]string{"Bounds", fmt.Sprintf("%g W to %g E, %g S to %g N",
			scene.Bounds.West, scene.Bounds.East, scene.Bounds.South, scene.Bounds.North)},
		[2]string{"Bands", strconv.Itoa(len(model.Bands))},
	)
	return pairs
}

func formatCorner(corner metadata.Corner) string {
	return fmt.Sprintf("%.6f, %.6f", corner.Latitude, corner.Longitude)
}

func bandRow(band metadata.Band) []string {
	return []string{
		band.Name,
		band.Product,
		band.DataType.String(),
		fmt.Sprintf("%dx%d", band.Lines, band.Samples),
		fmt.Sprintf("%g %s", band.PixelSizeX, band.PixelUnits),
		strconv.FormatInt(band.Fill, 10),
		band.FileName,
	}
}
