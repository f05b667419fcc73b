package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/fluxwl/internal/command"
	"github.com/bnema/fluxwl/internal/config"
	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/server"
	"github.com/bnema/fluxwl/internal/surface"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate command lines against the resolver",
	Long: `Reads command lines (one per line, '#' comments) from the given
file or stdin and reports any the resolver rejects. With --execute the
lines also run against a headless core with a few synthetic windows, so
foreach/if/togglecmd scripts can be smoke-tested offline.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var srv *server.Server
		if checkExecute {
			clock := event.NewManualClock()
			srv = server.New(server.Options{
				Outputs: []*geom.Output{
					{Name: "CHECK-1", Box: geom.Box{Width: 1280, Height: 720}, Enabled: true},
				},
				Clock:  clock,
				Config: config.Get(),
			})
			defer srv.Shutdown()
			for i := 0; i < 3; i++ {
				top := surface.NewHeadless(surface.KindNative, 400, 300)
				top.TitleText = fmt.Sprintf("check-%d", i+1)
				top.AppIDText = "check"
				v := srv.SurfaceCreated(top, nil, &surface.HeadlessForeign{})
				srv.SurfaceMapped(v)
			}
		}

		bad := 0
		scanner := bufio.NewScanner(in)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
				continue
			}
			if _, ok := command.ResolveLine(line); !ok {
				fmt.Fprintf(os.Stderr, "line %d: unrecognized command: %s\n", lineNo, line)
				bad++
				continue
			}
			if srv != nil {
				srv.RunCommandLine(line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		if bad > 0 {
			return fmt.Errorf("%d invalid command line(s)", bad)
		}
		fmt.Println("ok")
		return nil
	},
}

var checkExecute bool

func init() {
	checkCmd.Flags().BoolVar(&checkExecute, "execute", false, "execute lines against a headless core")
	rootCmd.AddCommand(checkCmd)
}
