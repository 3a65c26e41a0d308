package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/api"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/config"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/presenter"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/service"
)

// looker is satisfied by *service.Services.
type looker interface {
	Lookup(ctx context.Context, creds service.Credentials) domain.Report
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogging()

	cmd := &cli.Command{
		Name:  "snapshot",
		Usage: "Print the latest carbon intensity and power breakdown for a grid zone",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "zone",
				Aliases: []string{"z"},
				Usage:   "Electricity Maps zone code, e.g. FR",
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "API key; read from the terminal without echo when omitted",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			creds, err := credentials(c.String("zone"), c.String("api-key"), func() (string, error) {
				return readKey(os.Stdin, os.Stderr)
			})
			if err != nil {
				return err
			}
			svcs := service.New(api.New(config.APIURL(), config.HTTPTimeout()))
			return runSnapshot(ctx, os.Stdout, svcs, creds)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("snapshot failed")
	}
}

// runSnapshot performs one lookup and prints it. Upstream failures are part
// of the output, not errors.
func runSnapshot(ctx context.Context, out io.Writer, svcs looker, creds service.Credentials) error {
	report := svcs.Lookup(ctx, creds)
	if report.Attempted() {
		fmt.Fprintf(out, "Zone: %s\n", report.Zone)
	}
	return presenter.RenderText(out, presenter.Present(report))
}

// credentials asks for the key only when a zone was given and no key was
// passed on the command line.
func credentials(zone, key string, read func() (string, error)) (service.Credentials, error) {
	if strings.TrimSpace(zone) == "" || key != "" {
		return service.Credentials{APIKey: key, Zone: zone}, nil
	}
	key, err := read()
	if err != nil {
		return service.Credentials{}, fmt.Errorf("read api key: %w", err)
	}
	return service.Credentials{APIKey: key, Zone: zone}, nil
}

// readKey prompts on a terminal with echo disabled, or reads one line from a pipe.
func readKey(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(prompt, "ElectricityMap API Key: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readKeyLine(in)
}

// readKeyLine reads one line and drops only its line ending.
func readKeyLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
