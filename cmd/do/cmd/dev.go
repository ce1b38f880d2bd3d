package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

// airArgs configures air entirely from flags so the repo needs no .air.toml
var airArgs = []string{
	"-c", os.DevNull,
	"-root", ".",
	"-build.cmd", "go build -o ./tmp/server ./cmd/server",
	"-build.bin", "./tmp/server",
	"-build.delay", "100",
	"-build.exclude_dir", "bin,tmp,data,_examples",
	"-build.exclude_regex", "_test.go$",
	"-build.include_ext", "go,css,sql",
	"-build.kill_delay", "500ms",
	"-build.send_interrupt", "true",
}

func DevCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the server with live reload (requires air)",
		RunE: func(cmd *cobra.Command, args []string) error {
			air, err := exec.LookPath("air")
			if err != nil {
				return fmt.Errorf("air not found, install it with: go install github.com/air-verse/air@latest")
			}

			run := exec.CommandContext(cmd.Context(), air, airArgs...)
			run.Env = append(os.Environ(), "PORT="+port)
			run.Stdin, run.Stdout, run.Stderr = os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr()
			return run.Run()
		},
	}
	cmd.Flags().StringVar(&port, "port", "8090", "port the server listens on")
	return cmd
}
