package cmd

import (
	"cacheprofiler/cmd/util"
	"cacheprofiler/graph"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var visualizeCmd = &cobra.Command{
	Use:     "visualize",
	Short:   "Plot the most recent measurement file",
	Aliases: []string{"v"},
	Args:    cobra.NoArgs,
	RunE:    visualize,
}

func init() {
	RootCmd.AddCommand(visualizeCmd)
}

func visualize(cmd *cobra.Command, args []string) error {
	_, err := Visualize(measurementsDir, graphsDir)
	return err
}

// Visualize finds the latest file in measurementsDir, parses it and renders it into graphsDir.
// It returns the path of the new graph.
func Visualize(measurementsDir, graphsDir string) (string, error) {
	logger := log.WithField("run", uuid.NewString())

	csvPath, err := util.LatestFile(measurementsDir)
	if err != nil {
		return "", err
	}
	logger.WithField("file", csvPath).Info("Using most recent measurement file")

	data, err := util.ReadMeasurements(csvPath)
	if err != nil {
		return "", err
	}
	logger.WithField("rows", data.Len()).Debug("Parsed measurements")

	out, err := graph.Render(data, graphsDir)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", csvPath, err)
	}
	logger.WithField("graph", out).Info("Graph written")
	return out, nil
}
