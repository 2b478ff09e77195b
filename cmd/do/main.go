package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/templui/keystone/cmd/do/cmd"

	"github.com/spf13/cobra"
)

// rebuildRoots holds the sources compiled into bin/do. The migrate command
// embeds internal/db/migrations, so a new .sql file also makes the binary stale.
var rebuildRoots = []string{"cmd/do", "internal/db", "internal/config"}

func main() {
	maybeRebuild()

	rootCmd := &cobra.Command{
		Use:   "do",
		Short: "Keystone dev server and database migrations",
		Long: `Developer tooling for the keystone goals and habits API.

  do dev              run the API with live reload
  do migrate up       apply pending migrations
  do migrate down     roll back the latest migration
  do migrate status   print the current schema version`,
	}

	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// maybeRebuild recompiles bin/do and re-execs it when its sources or
// migrations are newer than the binary.
func maybeRebuild() {
	exe, err := os.Executable()
	if err != nil || !strings.HasSuffix(exe, "bin/do") {
		return
	}

	binInfo, err := os.Stat(exe)
	if err != nil {
		return
	}

	if !sourcesNewer(binInfo.ModTime(), rebuildRoots...) {
		return
	}

	fmt.Println("Sources or migrations changed, rebuilding bin/do...")
	build := exec.Command("go", "build", "-o", exe, "./cmd/do")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Println("Rebuild failed:", err)
		return
	}

	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		fmt.Println("Re-exec failed:", err)
	}
}

func sourcesNewer(since time.Time, roots ...string) bool {
	var newer bool
	for _, root := range roots {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			ext := filepath.Ext(path)
			if ext != ".go" && ext != ".sql" {
				return nil
			}
			if strings.HasSuffix(path, "_test.go") {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			if info.ModTime().After(since) {
				newer = true
				return filepath.SkipAll
			}
			return nil
		})
		if newer {
			return true
		}
	}
	return false
}
