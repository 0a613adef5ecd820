package main

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/bfxprivate/exchanges/bitfinex"
	"github.com/urfave/cli/v2"
)

var errPriceRequired = errors.New("price is required for limit orders")

var getActiveOrdersCommand = &cli.Command{
	Name:   "getactiveorders",
	Usage:  "gets the account's open orders",
	Action: getActiveOrders,
}

func getActiveOrders(c *cli.Context) error {
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.GetActiveOrders(ctx)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var getOrderHistoryCommand = &cli.Command{
	Name:      "getorderhistory",
	Usage:     "gets closed orders, for every pair when no symbol is given",
	ArgsUsage: "<symbol>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "symbol",
			Usage: "the trading pair, e.g. BTCUSD",
		},
	},
	Action: getOrderHistory,
}

func getOrderHistory(c *cli.Context) error {
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.GetOrderHistory(ctx, flagOrArg(c, "symbol", 0))
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

var submitOrderCommand = &cli.Command{
	Name:  "submitorder",
	Usage: "places an order",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "symbol",
			Usage:    "the trading pair, e.g. BTCUSD",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "type",
			Value: "EXCHANGE LIMIT",
			Usage: "the order type, e.g. EXCHANGE LIMIT or EXCHANGE MARKET",
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the order amount, negative to sell",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "price",
			Usage: "the order price",
		},
		&cli.Int64Flag{
			Name:  "gid",
			Usage: "the group ID",
		},
		&cli.Int64Flag{
			Name:  "cid",
			Usage: "the client order ID",
		},
		&cli.Int64Flag{
			Name:  "flags",
			Usage: "the order flags bitmask",
		},
		&cli.StringFlag{
			Name:  "tif",
			Usage: "the time in force as YYYY-MM-DD HH:MM:SS",
		},
	},
	Action: submitOrder,
}

func submitOrder(c *cli.Context) error {
	amount, err := parseDecimal(c.String("amount"))
	if err != nil {
		return err
	}
	req := &bitfinex.SubmitOrderRequest{
		Type:        c.String("type"),
		Symbol:      c.String("symbol"),
		Amount:      amount,
		GroupID:     c.Int64("gid"),
		ClientID:    c.Int64("cid"),
		Flags:       c.Int64("flags"),
		TimeInForce: c.String("tif"),
	}
	switch {
	case c.IsSet("price"):
		if req.Price, err = decimal.NewFromString(c.String("price")); err != nil {
			return err
		}
	case isLimitOrder(req.Type):
		return errPriceRequired
	}
	ctx, cancel, err := requestContext(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := exch.SubmitOrder(ctx, req)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}

func isLimitOrder(orderType string) bool {
	return orderType == "LIMIT" || orderType == "EXCHANGE LIMIT"
}

var cancelOrderCommand = &cli.Command{
	Name:      "cancelorder",
	Usage:     "cancels an open order",
	ArgsUsage: "<id>",
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:  "id",
			Usage: "the order ID",
		},
	},
	Action: cancelOrder,
}

func cancelOrder(c *cli.Context) error {
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
	result, err := exch.CancelOrder(ctx, id)
	if err != nil {
		return err
	}
	return jsonOutput(c.App.Writer, result)
}
