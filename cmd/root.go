// file: cmd/root.go
// version: 1.2.0
// guid: 39b51fcc-5ad0-4cd7-8606-686d8b4b717d

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idea-foundation/reading-room/internal/api"
	"github.com/idea-foundation/reading-room/internal/catalog"
	"github.com/idea-foundation/reading-room/internal/config"
	"github.com/idea-foundation/reading-room/internal/server"
)

var cfgFile string
var apiBaseURL string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reading-room",
	Short: "Public reading room for the Idea Foundation digital library",
	Long: `Reading Room serves the public web front-end of the Idea Foundation
digital library: a browsable, searchable catalog over the remote library
API, with server-side rendering and direct book downloads.`,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the web server that renders the catalog views.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newCatalogService()

		srv, err := server.NewServer(svc)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}
		cfg := server.GetDefaultServerConfig()

		// Override with command line flags if provided
		if port := cmd.Flag("port").Value.String(); port != "" {
			cfg.Port = port
		}
		if host := cmd.Flag("host").Value.String(); host != "" {
			cfg.Host = host
		}
		if rt := cmd.Flag("read-timeout").Value.String(); rt != "" {
			if d, err := time.ParseDuration(rt); err == nil {
				cfg.ReadTimeout = d
			}
		}
		if wt := cmd.Flag("write-timeout").Value.String(); wt != "" {
			if d, err := time.ParseDuration(wt); err == nil {
				cfg.WriteTimeout = d
			}
		}
		if it := cmd.Flag("idle-timeout").Value.String(); it != "" {
			if d, err := time.ParseDuration(it); err == nil {
				cfg.IdleTimeout = d
			}
		}

		fmt.Printf("Upstream API: %s\n", svc.Client().BaseURL())
		return srv.Start(cfg)
	},
}

func newCatalogService() *catalog.Service {
	client := api.NewClientWithTimeout(
		config.AppConfig.APIBaseURL,
		config.AppConfig.UpstreamTimeout,
	)
	return catalog.NewService(client)
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.reading-room.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "base URL of the library API")

	viper.BindPFlag("api_base_url", rootCmd.PersistentFlags().Lookup("api"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(checkCmd)

	// Add serve command specific flags
	serveCmd.Flags().String("port", "8080", "port to run the web server on")
	serveCmd.Flags().String("host", "localhost", "host to bind the web server to")
	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("write-timeout", "15s", "write timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("idle-timeout", "60s", "idle timeout (e.g. 60s, 2m)")
	serveCmd.Flags().Bool("dev", false, "reload templates from disk on change")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".reading-room")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	if dev := serveCmd.Flags().Lookup("dev"); dev != nil && dev.Changed {
		viper.Set("dev", true)
	}

	config.InitConfig()
}
