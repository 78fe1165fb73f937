package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/config"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/features"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/linelist"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
)

var (
	verbose bool
	cfg     *config.Config
)

// Execute runs the exomaft command line.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "exomaft",
		Short:        "Combine transmission spectra and track molecular features",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			var err error
			cfg, err = config.Load()
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.Int("top-n", 30, "strongest lines kept per molecule (TOP_N)")
	pf.Float64("bin-width", 0.02, "cluster bin width in microns (BIN_WIDTH)")
	pf.String("molecules", "H2O,CO2,NH3,CO,CH4,HCN", "molecules as NAME or NAME:ID, comma separated (MOLECULES)")
	pf.Int("workers", 4, "molecules scored concurrently (WORKERS)")
	_ = viper.BindPFlag("TOP_N", pf.Lookup("top-n"))
	_ = viper.BindPFlag("BIN_WIDTH", pf.Lookup("bin-width"))
	_ = viper.BindPFlag("MOLECULES", pf.Lookup("molecules"))
	_ = viper.BindPFlag("WORKERS", pf.Lookup("workers"))

	root.AddCommand(combineCmd(), featuresCmd(), ccfCmd(), runCmd())
	return root
}

// clusterer builds the feature clusterer from the loaded configuration.
func clusterer() (*features.Clusterer, error) {
	return features.New(cfg.Pipeline.TopN, cfg.Pipeline.BinWidth)
}

func molecules() ([]models.Molecule, error) {
	return linelist.ParseMolecules(cfg.Pipeline.Molecules)
}
