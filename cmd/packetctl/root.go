package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/packetctl/internal/config"
	"github.com/danmuck/packetctl/internal/logging"
	"github.com/danmuck/packetctl/internal/packet"
	"github.com/danmuck/packetctl/internal/solve"
	"github.com/danmuck/packetctl/internal/tree"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type app struct {
	configPath string
	input      string
	format     string
	maxDepth   int
	logLevel   string
	bitLength  bool

	cfg config.Config
}

type answerDoc struct {
	VersionSum  uint64 `yaml:"version_sum"`
	Value       string `yaml:"value"`
	PaddingBits int    `yaml:"padding_bits"`
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "packetctl",
		Short:         "Decode and evaluate hex-encoded packet transmissions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
		RunE: a.runSolve,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a packetctl TOML config")
	flags.StringVarP(&a.input, "input", "i", "", "transmission file (\"-\" for stdin)")
	flags.StringVarP(&a.format, "format", "f", "", "output format: text|yaml")
	flags.IntVar(&a.maxDepth, "max-depth", 0, "deepest operator nesting accepted (0 disables)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace|debug|info|warn|error|off")

	root.AddCommand(
		&cobra.Command{
			Use:   "solve",
			Short: "Print the version sum and the evaluated value",
			Args:  cobra.NoArgs,
			RunE:  a.runSolve,
		},
		&cobra.Command{
			Use:   "sum",
			Short: "Print the version sum of every packet",
			Args:  cobra.NoArgs,
			RunE:  a.runSum,
		},
		&cobra.Command{
			Use:   "eval",
			Short: "Print the evaluated value of the outermost packet",
			Args:  cobra.NoArgs,
			RunE:  a.runEval,
		},
		&cobra.Command{
			Use:   "tree",
			Short: "Print the decoded packet tree as YAML",
			Args:  cobra.NoArgs,
			RunE:  a.runTree,
		},
	)

	encode := &cobra.Command{
		Use:   "encode [tree.yaml]",
		Short: "Encode a YAML packet tree to hex",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runEncode,
	}
	encode.Flags().BoolVar(&a.bitLength, "bit-length", false, "delimit children by bit length instead of count")
	root.AddCommand(encode)

	return root
}

// loadConfig layers defaults, the config file, then explicitly set flags.
// The log level is only touched when the file or a flag names one, so the
// env-derived level survives otherwise.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = a.input
	}
	if flags.Changed("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(a.format))
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = a.maxDepth
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if cfg.LogLevel != "" {
		logging.SetLevel(cfg.LogLevel)
	}
	a.cfg = cfg
	log.Debug().
		Str("input", cfg.Input).
		Str("format", cfg.Format).
		Int("max_depth", cfg.MaxDepth).
		Msg("packetctl config loaded")
	return nil
}

func (a *app) readInput(cmd *cobra.Command) (string, error) {
	path, ok := a.cfg.InputPath()
	if !ok {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func (a *app) runSolve(cmd *cobra.Command, _ []string) error {
	input, err := a.readInput(cmd)
	if err != nil {
		return err
	}
	ans, err := solve.Run(input, a.cfg.DecodeOptions())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if a.cfg.Format == config.FormatYAML {
		return writeYAML(out, answerDoc{
			VersionSum:  ans.VersionSum,
			Value:       ans.Value.String(),
			PaddingBits: ans.Padding,
		})
	}
	_, err = fmt.Fprintf(out, "%d\n%s\n", ans.VersionSum, ans.Value)
	return err
}

func (a *app) runSum(cmd *cobra.Command, _ []string) error {
	input, err := a.readInput(cmd)
	if err != nil {
		return err
	}
	res, err := solve.Decode(input, a.cfg.DecodeOptions())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), packet.VersionSum(res.Root))
	return err
}

func (a *app) runEval(cmd *cobra.Command, _ []string) error {
	input, err := a.readInput(cmd)
	if err != nil {
		return err
	}
	res, err := solve.Decode(input, a.cfg.DecodeOptions())
	if err != nil {
		return err
	}
	v, err := packet.Evaluate(res.Root)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
	return err
}

func (a *app) runTree(cmd *cobra.Command, _ []string) error {
	input, err := a.readInput(cmd)
	if err != nil {
		return err
	}
	res, err := solve.Decode(input, a.cfg.DecodeOptions())
	if err != nil {
		return err
	}
	data, err := tree.Marshal(res.Root)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func (a *app) runEncode(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		a.cfg.Input = args[0]
	}
	doc, err := a.readInput(cmd)
	if err != nil {
		return err
	}
	n, err := tree.Unmarshal([]byte(doc))
	if err != nil {
		return err
	}
	bits, err := packet.EncodeWith(n, packet.EncodeOptions{BitLength: a.bitLength})
	if err != nil {
		return err
	}
	log.Debug().Int("bits", bits.Len()).Msg("packetctl encode ok")
	_, err = fmt.Fprintln(cmd.OutOrStdout(), bits.Hex())
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
