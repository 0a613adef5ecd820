package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/thrasher-corp/bfxprivate/config"
	"github.com/thrasher-corp/bfxprivate/encoding/json"
	"github.com/thrasher-corp/bfxprivate/exchanges/account"
	"github.com/thrasher-corp/bfxprivate/exchanges/bitfinex"
	"github.com/thrasher-corp/bfxprivate/exchanges/request"
	"github.com/thrasher-corp/bfxprivate/log"
	"github.com/thrasher-corp/bfxprivate/signaler"
	"github.com/urfave/cli/v2"
)

var (
	configPath    string
	envFile       string
	timeout       time.Duration
	exchangeCreds account.Credentials
	verbose       bool
	ignoreTimeout bool

	exch *bitfinex.Exchange
)

const defaultTimeout = time.Second * 30

var errExchangeNotLoaded = errors.New("exchange has not been set up")

func jsonOutput(w io.Writer, in any) error {
	j, err := json.MarshalIndent(in, "", " ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(j))
	return err
}

// setup loads the environment file and config, then builds the logger and
// the exchange handle every command shares
func setup(c *cli.Context) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to load %s: %w", envFile, err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := log.SetupGlobalLogger(&cfg.Logging, cfg.LogDir); err != nil {
		return err
	}
	if verbose {
		cfg.Verbose = true
	}
	if exch, err = bitfinex.New(cfg.ExchangeOptions()...); err != nil {
		return err
	}
	log.Debugf(log.Global, "%s client ready for %s", c.App.Name, cfg.APIURL)
	return nil
}

// requestContext applies the command timeout and any credential override
func requestContext(c *cli.Context) (context.Context, context.CancelFunc, error) {
	if exch == nil {
		return nil, nil, errExchangeNotLoaded
	}
	ctx := c.Context
	cancel := context.CancelFunc(func() {})
	if !ignoreTimeout {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	if !exchangeCreds.IsEmpty() {
		ctx = account.DeployCredentialsToContext(ctx, &exchangeCreds)
	}
	if verbose {
		ctx = request.WithVerbose(ctx)
	}
	return ctx, cancel, nil
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "bfxcli"
	app.EnableBashCompletion = true
	app.Usage = "command line interface for the Bitfinex private REST API"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "the JSON or YAML config file to load",
			EnvVars:     []string{"BFX_CONFIG"},
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "envfile",
			Value:       ".env",
			Usage:       "a dotenv file exporting BFX_ variables, skipped when absent",
			Destination: &envFile,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Value:       defaultTimeout,
			Usage:       "the default context timeout value for requests",
			Destination: &timeout,
		},
		&cli.StringFlag{
			Name:        "apikey",
			Usage:       "override config API key for request",
			Destination: &exchangeCreds.Key,
		},
		&cli.StringFlag{
			Name:        "apisecret",
			Usage:       "override config API Secret for request",
			Destination: &exchangeCreds.Secret,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "logs request and response bodies",
			Destination: &verbose,
		},
		&cli.BoolFlag{
			Name:        "ignoretimeout",
			Aliases:     []string{"it"},
			Usage:       "ignores the context timeout for requests",
			Destination: &ignoreTimeout,
		},
	}
	app.Commands = []*cli.Command{
		getWalletsCommand,
		getMarginBaseCommand,
		getMarginSymbolCommand,
		getFundingInfoCommand,
		generateDepositAddressCommand,
		generateInvoiceAddressCommand,
		generateInvoiceCommand,
		transferCommand,
		withdrawCommand,
		getMovementCommand,
		getMovementHistoryCommand,
		getActiveOrdersCommand,
		getOrderHistoryCommand,
		submitOrderCommand,
		cancelOrderCommand,
		encryptConfigCommand,
	}
	app.Before = func(c *cli.Context) error {
		if c.Args().First() == encryptConfigCommand.Name {
			return nil
		}
		return setup(c)
	}
	app.After = func(*cli.Context) error {
		return log.CloseLogger()
	}
	return app
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// Capture cancel for interrupt
		<-signaler.WaitForInterrupt()
		cancel()
		fmt.Println("bfxcli interrupted")
		os.Exit(1)
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
