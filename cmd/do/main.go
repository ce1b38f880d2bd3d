package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/userfiles/cmd/do/cmd"
)

func main() {
	rebuildIfStale()

	root := &cobra.Command{
		Use:          "do",
		Short:        "Development and admin tools for userfiles",
		SilenceUsage: true,
	}
	root.AddCommand(
		cmd.DevCmd(),
		cmd.MigrateCmd(),
		cmd.UsersCmd(),
		cmd.TokenCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// rebuildIfStale recompiles bin/do and re-executes it when any source
// under cmd/do is newer than the binary.
func rebuildIfStale() {
	exe, err := os.Executable()
	if err != nil || !strings.HasSuffix(exe, filepath.Join("bin", "do")) {
		return
	}
	info, err := os.Stat(exe)
	if err != nil || !newerSource("cmd/do", info.ModTime()) {
		return
	}

	fmt.Fprintln(os.Stderr, "Rebuilding bin/do...")
	build := exec.Command("go", "build", "-o", exe, "./cmd/do")
	build.Stdout, build.Stderr = os.Stdout, os.Stderr
	if err := build.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "rebuild failed:", err)
		return
	}
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		fmt.Fprintln(os.Stderr, "re-exec failed:", err)
	}
}

var errFound = errors.New("found")

func newerSource(dir string, than time.Time) bool {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".go" {
			return nil
		}
		if info, err := d.Info(); err == nil && info.ModTime().After(than) {
			return errFound
		}
		return nil
	})
	return errors.Is(err, errFound)
}
