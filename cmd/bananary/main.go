package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rozo-ai/bananary-go/pkg/config"
	"github.com/rozo-ai/bananary-go/pkg/credential"
	"github.com/rozo-ai/bananary-go/pkg/imagedit"
	"github.com/rozo-ai/bananary-go/pkg/wallet"
	"github.com/rozo-ai/bananary-go/pkg/x402"
)

// keyringService scopes bypass tokens in the OS keychain.
const keyringService = "bananary"

var (
	flagEndpoint string
	flagStellar  string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "bananary",
	Short: "Payment-gated image transformations",
	Long: `bananary transforms photos through a remote multimodal model,
paying per request over the x402 protocol or bypassing payment with a
pre-shared token.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "model endpoint URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagStellar, "stellar", "", "bypass token (as if passed in the page URL)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

// newResolver builds the bypass-credential resolver, treating the
// --stellar flag and STELLAR_TOKEN env as the inbound URL parameter.
func newResolver(cfg *config.Config) *credential.Resolver {
	params := url.Values{}
	if flagStellar != "" {
		params.Set(credential.QueryParam, flagStellar)
	} else if cfg.BypassToken != "" {
		params.Set(credential.QueryParam, cfg.BypassToken)
	}
	return credential.NewResolver(credential.NewKeyringStore(keyringService), params)
}

// newService wires config, resolver, optional signer and the paid
// client into an image edit service.
func newService() (*imagedit.Service, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if flagEndpoint != "" {
		cfg.Endpoint = flagEndpoint
	}

	opts := []x402.Option{
		x402.WithCredentialResolver(newResolver(cfg)),
		x402.WithPreferredNetworks(cfg.PreferredNetworks...),
	}
	if cfg.EVMPrivateKey != "" {
		signer, err := wallet.NewLocalSigner(cfg.EVMPrivateKey)
		if err != nil {
			return nil, nil, fmt.Errorf("load signer: %w", err)
		}
		logrus.WithField("address", signer.Address().Hex()).Debug("payment signer loaded")
		opts = append(opts, x402.WithAuthorizationProvider(signer))
	}

	client := x402.NewClient(opts...)
	service := imagedit.NewService(cfg.Endpoint, client,
		imagedit.WithModel(cfg.Model),
		imagedit.WithAttribution("https://bananary.rozo.ai", "ROZO Bananary"),
	)
	return service, cfg, nil
}
