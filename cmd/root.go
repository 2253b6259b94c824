package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/watchsh/commands"
	"github.com/josephlewis42/watchsh/core/config"
	"github.com/josephlewis42/watchsh/core/logger"
	"github.com/josephlewis42/watchsh/core/shell"
	"github.com/josephlewis42/watchsh/core/vos"
	"github.com/spf13/cobra"
)

var (
	cfgPath string

	// exitCode is the status of the interactive shell.
	exitCode int
)

// configDir is where init writes and the events commands read.
func configDir() string {
	if cfgPath == "" {
		return "."
	}
	return cfgPath
}

// loadConfig reads the configuration named by --config, or the built-in
// defaults when the flag isn't set.
func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "watchsh",
	Short: "Interactive shell with a foreground watchdog",
	Long: `watchsh reads one command per line and runs it as a builtin, an external
program, or a two stage pipeline. Foreground programs that run longer than
the watchdog timeout are killed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		events := logger.NewNopLogger()
		if configuration.Log.Events {
			fd, err := configuration.OpenAppLog()
			if err != nil {
				return err
			}
			defer fd.Close()
			events = logger.NewJsonLinesLogRecorder(fd)
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt: commands.FallbackPrompt,
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		sh := commands.NewShell(commands.Options{
			Reader: rl,
			IO:     vos.NewOSIO(),
			Env:    vos.NewOSEnv(),
			Config: configuration.Shell,
			Events: events.NewSession(),
		})

		interrupts := shell.HandleInterrupts(sh.Interrupt)
		defer interrupts.Stop()

		exitCode = sh.Run()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory, built-in defaults are used if unset")
}
