package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/bfxprivate/config"
	"github.com/thrasher-corp/bfxprivate/exchanges/bitfinex"
	"github.com/urfave/cli/v2"
)

var (
	errAmountRequired = errors.New("amount is required")
	errIDRequired     = errors.New("a positive id is required")
)

var getWalletsCommand = &cli.Command{
	Name:   "getwallets",
	Usage:  "gets every wallet balance on the account",
	Action: getWallets,
}

func getWallets(c *cli.Context) error {
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.GetWallets(ctx)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var getMarginBaseCommand = &cli.Command{
	Name:   "getmarginbase",
	Usage:  "gets account wide margin information",
	Action: getMarginBase,
}

func getMarginBase(c *cli.Context) error {
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.GetMarginBase(ctx)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var getMarginSymbolCommand = &cli.Command{
	Name:      "getmarginsymbol",
	Usage:     "gets margin information for a trading pair",
	ArgsUsage: "<symbol>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "symbol",
			Usage: "the trading pair, e.g. BTCUSD",
		},
	},
	Action: getMarginSymbol,
}

func getMarginSymbol(c *cli.Context) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.GetMarginSymbol(ctx, flagOrArg(c, "symbol", 0))
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var getFundingInfoCommand = &cli.Command{
	Name:      "getfundinginfo",
	Usage:     "gets funding yields for a currency",
	ArgsUsage: "<symbol>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "symbol",
			Usage: "the funding currency, e.g. USD",
		},
	},
	Action: getFundingInfo,
}

func getFundingInfo(c *cli.Context) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.GetFundingInfo(ctx, flagOrArg(c, "symbol", 0))
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var generateDepositAddressCommand = &cli.Command{
	Name:      "generatedepositaddress",
	Usage:     "gets or renews a deposit address",
	ArgsUsage: "<method> <wallet>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "method",
			Usage: "the deposit method, e.g. bitcoin",
		},
		&cli.StringFlag{
			Name:  "wallet",
			Value: "exchange",
			Usage: "the wallet to deposit into: exchange, margin or funding",
		},
		&cli.BoolFlag{
			Name:  "renew",
			Usage: "generates a new address instead of returning the last one",
		},
	},
	Action: generateDepositAddress,
}

func generateDepositAddress(c *cli.Context) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	req := &bitfinex.DepositAddressRequest{
		Method: flagOrArg(c, "method", 0),
		Wallet: flagOrArg(c, "wallet", 1),
	}
	if c.Bool("renew") {
		req.OpRenew = 1
	}
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.GenerateDepositAddress(ctx, req)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var generateInvoiceAddressCommand = &cli.Command{
	Name:   "generateinvoiceaddress",
	Usage:  "creates the Lightning Network deposit address on the exchange wallet",
	Action: generateInvoiceAddress,
}

func generateInvoiceAddress(c *cli.Context) error {
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.GenerateInvoiceAddress(ctx)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var generateInvoiceCommand = &cli.Command{
	Name:      "generateinvoice",
	Usage:     "generates a Lightning Network invoice",
	ArgsUsage: "<amount>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "amount",
			Usage: "the invoice amount",
		},
		&cli.StringFlag{
			Name:  "currency",
			Value: "LNX",
			Usage: "the invoice currency",
		},
		&cli.StringFlag{
			Name:  "wallet",
			Value: "exchange",
			Usage: "the wallet credited when the invoice is paid",
		},
	},
	Action: generateInvoice,
}

func generateInvoice(c *cli.Context) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	amount, err := parseDecimal(flagOrArg(c, "amount", 0))
	if err != nil {
		return err
	}
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.GenerateInvoice(ctx, &bitfinex.InvoiceRequest{
		Wallet:   c.String("wallet"),
		Currency: c.String("currency"),
		Amount:   amount,
	})
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var transferCommand = &cli.Command{
	Name:  "transfer",
	Usage: "moves funds between wallets",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "from",
			Usage:    "the source wallet",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "to",
			Usage:    "the destination wallet",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "currency",
			Usage:    "the currency to move",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "currencyto",
			Usage: "the currency to convert into, when converting",
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to move",
			Required: true,
		},
	},
	Action: transfer,
}

func transfer(c *cli.Context) error {
	amount, err := parseDecimal(c.String("amount"))
	if err != nil {
		return err
	}
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.Transfer(ctx, &bitfinex.TransferRequest{
		From:       c.String("from"),
		To:         c.String("to"),
		Currency:   c.String("currency"),
		CurrencyTo: c.String("currencyto"),
		Amount:     amount,
	})
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var withdrawCommand = &cli.Command{
	Name:  "withdraw",
	Usage: "requests a withdrawal to an address or Lightning Network invoice",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "wallet",
			Value: "exchange",
			Usage: "the wallet to withdraw from",
		},
		&cli.StringFlag{
			Name:     "method",
			Usage:    "the withdrawal method, e.g. bitcoin or LNX",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "amount",
			Usage: "the amount to withdraw, omitted for invoices",
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "the destination address",
		},
		&cli.StringFlag{
			Name:  "invoice",
			Usage: "the Lightning Network invoice to pay",
		},
		&cli.StringFlag{
			Name:  "paymentid",
			Usage: "the destination tag or memo, where the chain needs one",
		},
		&cli.BoolFlag{
			Name:  "feededuct",
			Usage: "deducts the fee from the withdrawn amount",
		},
	},
	Action: withdraw,
}

func withdraw(c *cli.Context) error {
	req := &bitfinex.WithdrawRequest{
		Wallet:    c.String("wallet"),
		Method:    c.String("method"),
		Address:   c.String("address"),
		Invoice:   c.String("invoice"),
		PaymentID: c.String("paymentid"),
	}
	if c.IsSet("amount") {
		amount, err := parseDecimal(c.String("amount"))
		if err != nil {
			return err
		}
		req.Amount = &amount
	}
	if c.IsSet("feededuct") {
		var deduct int64
		if c.Bool("feededuct") {
			deduct = 1
		}
		req.FeeDeduct = &deduct
	}
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.Withdraw(ctx, req)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var getMovementCommand = &cli.Command{
	Name:      "getmovement",
	Usage:     "gets a single deposit or withdrawal",
	ArgsUsage: "<id>",
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:  "id",
			Usage: "the movement ID",
		},
	},
	Action: getMovement,
}

func getMovement(c *cli.Context) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	id, err := idFlagOrArg(c)
	if err != nil {
		return err
	}
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.GetMovementInfo(ctx, id)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var getMovementHistoryCommand = &cli.Command{
	Name:      "getmovementhistory",
	Usage:     "gets past deposits and withdrawals",
	ArgsUsage: "<currency>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "currency",
			Usage: "limits results to one currency, all currencies when empty",
		},
		&cli.StringFlag{
			Name:  "start",
			Usage: "the RFC3339 start of the period",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "the RFC3339 end of the period",
		},
		&cli.Int64Flag{
			Name:  "limit",
			Usage: "the maximum number of records returned",
		},
	},
	Action: getMovementHistory,
}

func getMovementHistory(c *cli.Context) error {
	start, err := parseTime(c.String("start"))
	if err != nil {
		return err
	}
	end, err := parseTime(c.String("end"))
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("end %s is before start %s", end, start)
	}
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.GetMovementHistory(ctx, flagOrArg(c, "currency", 0), start, end, c.Int64("limit"))
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var encryptConfigCommand = &cli.Command{
	Name:  "encryptconfig",
	Usage: "encrypts a config file with the key in BFX_CONFIG_KEY",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "in",
			Usage:    "the plain config file",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "out",
			Usage:    "the encrypted file to write",
			Required: true,
		},
	},
	Action: encryptConfig,
}

func encryptConfig(c *cli.Context) error {
	data, err := os.ReadFile(c.String("in"))
	if err != nil {
		return err
	}
	enc, err := config.EncryptConfigFile(data, []byte(os.Getenv("BFX_CONFIG_KEY")))
	if err != nil {
		return err
	}
	return os.WriteFile(c.String("out"), enc, 0o600)
}

func flagOrArg(c *cli.Context, name string, pos int) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	if v := c.Args().Get(pos); v != "" {
		return v
	}
	return c.String(name)
}

func idFlagOrArg(c *cli.Context) (int64, error) {
	id := c.Int64("id")
	if !c.IsSet("id") && c.Args().Present() {
		var err error
		if id, err = strconv.ParseInt(c.Args().First(), 10, 64); err != nil {
			return 0, fmt.Errorf("invalid id %q: %w", c.Args().First(), err)
		}
	}
	if id <= 0 {
		return 0, errIDRequired
	}
	return id, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, errAmountRequired
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t, nil
}
