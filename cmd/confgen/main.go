package main

import (
	"errors"
	"eyebench/internal/app/confgen"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errUsage = errors.New("usage")

// exactArgs mirrors cobra.ExactArgs but tags the error so main can exit
// with the conventional usage code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s accepts %d arg(s), received %d", errUsage, cmd.Name(), n, len(args))
		}
		return nil
	}
}

func rangeArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min || len(args) > max {
			return fmt.Errorf("%w: %s accepts between %d and %d arg(s), received %d", errUsage, cmd.Name(), min, max, len(args))
		}
		return nil
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rootCmd := &cobra.Command{
		Use:   "confgen",
		Short: "Generate deployment files from config.yaml",
	}
	rootCmd.AddCommand(
		newGenerateCmd(logger),
		newKeycloakCmd(logger),
	)
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newGenerateCmd(logger *logrus.Logger) *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "generate <config.yaml>",
		Short: "Generate docker-compose.yml and haproxy.cfg",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := confgen.LoadConfig(args[0])
			if err != nil {
				return err
			}

			httpPort, httpsPort := confgen.AutoDetectPorts(config.App.BaseURL)
			logger.WithFields(logrus.Fields{
				"base_url":   config.App.BaseURL,
				"http_port":  httpPort,
				"https_port": httpsPort,
				"tls":        config.Deploy.TLS.Enabled,
			}).Info("read configuration")

			compose := confgen.GenerateDockerCompose(config)
			if _, err := confgen.WriteYAMLWithBackup(filepath.Join(outputDir, "docker-compose.yml"), compose, logger); err != nil {
				return err
			}

			haproxyCfg := confgen.GenerateHAProxyConfig(config)
			if _, err := confgen.WriteFileWithBackup(filepath.Join(outputDir, "haproxy.cfg"), []byte(haproxyCfg), logger); err != nil {
				return err
			}

			logger.Info("generation complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "directory the generated files are written to")
	return cmd
}

func newKeycloakCmd(logger *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keycloak",
		Short: "Manage the optional Keycloak deployment",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "insert <root-dir>",
		Short: "Add the Keycloak service to docker-compose files",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return confgen.InsertKeycloak(args[0], logger)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <root-dir>",
		Short: "Remove the Keycloak service from docker-compose files",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return confgen.RemoveKeycloak(args[0], logger)
		},
	})

	patchCmd := &cobra.Command{
		Use:   "patch <application.yml> <true|false> <jwks-uri>",
		Short: "Toggle Keycloak security in the backend application.yml",
		Args:  rangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			useKeycloak := args[1] == "true" || args[1] == "1" || args[1] == "yes"
			jwksURI := ""
			if len(args) > 2 {
				jwksURI = args[2]
			}
			return confgen.PatchApplicationYML(args[0], useKeycloak, jwksURI, logger)
		},
	}
	cmd.AddCommand(patchCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "env <config.yaml>",
		Short: "Print the Keycloak section as shell variable assignments",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := confgen.LoadConfig(args[0])
			if err != nil {
				return err
			}
			confgen.WriteEnvExports(cmd.OutOrStdout(), config.Keycloak)
			return nil
		},
	})

	return cmd
}
