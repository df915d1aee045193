package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/Neev4n/tinysh/internal/builtins"
	"github.com/Neev4n/tinysh/internal/config"
	"github.com/Neev4n/tinysh/pkg/shell"
)

const usageText = `usage: tinysh [options]

options:
  -c FILE  read settings from FILE
  -p TEXT  prompt text
  -n N     maximum arguments per line
  -v       trace parsing and dispatch on stderr
  -h       show this help
`

type flags struct {
	configFile string
	prompt     *string
	maxArgs    int
	verbose    bool
	help       bool
}

func parseFlags(args []string) (*flags, error) {
	opts, _, err := getopt.Getopts(args, "c:p:n:vh")
	if err != nil {
		return nil, err
	}

	f := &flags{}
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			f.configFile = opt.Value
		case 'p':
			prompt := opt.Value
			f.prompt = &prompt
		case 'n':
			n, err := strconv.Atoi(opt.Value)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("-n wants a positive number, got %q", opt.Value)
			}
			f.maxArgs = n
		case 'v':
			f.verbose = true
		case 'h':
			f.help = true
		}
	}

	return f, nil
}

// apply lays the command line over the loaded settings.
func (f *flags) apply(cfg *config.Config) {
	if f.prompt != nil {
		cfg.Prompt = *f.prompt
	}
	if f.maxArgs > 0 {
		cfg.MaxArgs = f.maxArgs
	}
	if f.verbose {
		cfg.Verbose = true
	}
}

func main() {

	f, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	if f.help {
		fmt.Print(usageText)
		return
	}

	cfg, err := config.Load(f.configFile)
	if err != nil {
		log.Fatal(err)
	}

	f.apply(cfg)

	table, err := builtins.NewTable(&builtins.DefaultFileOpener{}, cfg.Disabled...)
	if err != nil {
		log.Fatal(err)
	}

	reader, prompt := frontEnd(cfg,
		term.IsTerminal(int(os.Stdin.Fd())),
		term.IsTerminal(int(os.Stderr.Fd())))

	opts := []shell.Option{
		shell.WithPrompt(prompt),
		shell.WithParser(shell.NewDefaultParser(cfg.MaxArgs)),
		shell.WithMaxLine(cfg.MaxLine),
	}
	if cfg.Verbose {
		logger := log.New(os.Stderr, "tinysh: ", 0)
		logger.Printf("START | commands=%d max_args=%d max_line=%d", len(table.Names()), cfg.MaxArgs, cfg.MaxLine)
		opts = append(opts, shell.WithLogger(logger))
	}

	out := bufio.NewWriter(os.Stdout)
	s := shell.New(reader, out, os.Stderr, table, opts...)

	runErr := s.Run(context.Background())
	out.Flush()

	if err := reader.Close(); err != nil {
		log.Print(err)
	}

	if runErr != nil {
		log.Fatal(runErr)
	}

}

// frontEnd picks the line reader and the prompt it draws. liner cannot draw
// escape sequences, so a colored prompt goes through the plain reader on
// stderr instead.
func frontEnd(cfg *config.Config, stdinTTY, stderrTTY bool) (shell.LineReader, string) {
	switch {
	case stdinTTY && stderrTTY && cfg.Color:
		c := color.New(color.FgGreen, color.Bold)
		c.EnableColor()
		return shell.NewPromptReader(os.Stdin, os.Stderr), c.Sprint(cfg.Prompt)
	case stdinTTY:
		return shell.NewLinerReader(cfg.HistoryFile), cfg.Prompt
	default:
		return shell.NewPromptReader(os.Stdin, os.Stderr), cfg.Prompt
	}
}
