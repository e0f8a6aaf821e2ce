package tool

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var RootCommand = &cobra.Command{
	Use:   "pngkit",
	Short: "Inspect, transform, and catalog PNG files",
}

func init() {
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Print the pngkit version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pngkit %s\n", version)
		},
	}
	RootCommand.AddCommand(versionCommand)
}
