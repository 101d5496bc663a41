package main

import (
	"errors"
	"fmt"

	verr "github.com/nihei9/lrgen/error"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// traceKeys are the trace selectors of the packages the commands run.
var traceKeys = []string{
	"lrgen.lexical",
	"lrgen.grammar",
	"lrgen.driver",
	"lrgen.cli",
}

func tracer() tracing.Trace {
	return tracing.Select("lrgen.cli")
}

var rootCmd = &cobra.Command{
	Use:   "lrgen",
	Short: "Generate a canonical LR(1) parser and lexer from a grammar",
	Long: `lrgen provides three features:
- Compiles a grammar into a lexer automaton and packed LR(1) parsing tables.
- Prints a report of the compiled grammar in a readable format.
- Parses a text stream with a compiled grammar.
  This feature is primarily aimed at debugging the grammar.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupTracing(viper.GetString("trace_level"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file path")
	rootCmd.PersistentFlags().String("trace-level", "error", "trace level [debug|info|error]")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("trace_level", rootCmd.PersistentFlags().Lookup("trace-level"))
}

func initConfig() {
	viper.SetEnvPrefix("LRGEN")
	viper.AutomaticEnv()

	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			pterm.Warning.Println(fmt.Sprintf("Cannot read the config file %s: %v", path, err))
		}
	}
}

func setupTracing(level string) error {
	var l tracing.TraceLevel
	switch level {
	case "debug":
		l = tracing.LevelDebug
	case "info":
		l = tracing.LevelInfo
	case "error":
		l = tracing.LevelError
	default:
		return fmt.Errorf("unknown trace level: %v", level)
	}
	gtrace.SyntaxTracer = gologadapter.New()
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.New))
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
	return nil
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
		return err
	}
	return nil
}

func printError(err error) {
	var specErrs verr.SpecErrors
	if errors.As(err, &specErrs) {
		for _, e := range specErrs {
			pterm.Error.Println(e.Error())
		}
		return
	}
	pterm.Error.Println(err.Error())
}
