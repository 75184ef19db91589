package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"llamad/internal/common/fsutil"
	"llamad/internal/config"
	"llamad/internal/supervisor"
)

// runCheck resolves the configured server section and prints the descriptor
// and launch command without spawning anything.
func runCheck(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	section := opts.section
	if len(section) == 0 {
		section = []string{config.DefaultSection}
	}
	desc, err := config.Resolve(cfg.Tree, section...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if desc == nil {
		fmt.Fprintf(out, "no llama server configured under %v\n", section)
		return nil
	}
	fmt.Fprintf(out, "executable:  %s", desc.ExecPath)
	if !fsutil.PathExists(desc.ExecPath) {
		fmt.Fprint(out, "  (missing)")
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "model:       %s", desc.ModelPath)
	if !fsutil.PathExists(desc.ModelPath) {
		fmt.Fprint(out, "  (missing)")
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "port:        %d\n", desc.Port)
	fmt.Fprintf(out, "gpu:         %v\n", desc.UseGPU)
	fmt.Fprintf(out, "command:     %s\n", strings.Join(supervisor.BuildCommand(*desc), " "))
	fmt.Fprintf(out, "health url:  %s\n", desc.HealthURL())
	return nil
}
