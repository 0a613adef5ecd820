package bitfinex

import (
	"context"
	"strings"
	"time"
)

const (
	lightningMethod = "LNX"
	exchangeWallet  = "exchange"
)

// GetWallets returns every wallet balance on the account
func (e *Exchange) GetWallets(ctx context.Context) ([]Wallet, error) {
	var resp []Wallet
	if err := e.sendAuthenticatedList(ctx, bitfinexWallets, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetMarginBase returns account wide margin information
func (e *Exchange) GetMarginBase(ctx context.Context) (*MarginBase, error) {
	var resp MarginBase
	if err := e.SendAuthenticatedQuery(ctx, bitfinexMarginBase, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMarginSymbol returns margin information for a trading pair such as
// BTCUSD
func (e *Exchange) GetMarginSymbol(ctx context.Context, symbol string) (*MarginSymbol, error) {
	if symbol == "" {
		return nil, ErrSymbolEmpty
	}
	var resp MarginSymbol
	if err := e.SendAuthenticatedQuery(ctx, bitfinexMarginInfo+prefixSymbol('t', symbol), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFundingInfo returns funding yields for a currency such as USD
func (e *Exchange) GetFundingInfo(ctx context.Context, symbol string) (*FundingInfo, error) {
	if symbol == "" {
		return nil, ErrSymbolEmpty
	}
	var resp FundingInfo
	if err := e.SendAuthenticatedQuery(ctx, bitfinexFundingInfo+prefixSymbol('f', symbol), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateDepositAddress returns a deposit address for the given method and
// wallet
func (e *Exchange) GenerateDepositAddress(ctx context.Context, req *DepositAddressRequest) (*DepositAddressResult, error) {
	if req == nil {
		return nil, errNilRequest
	}
	var resp DepositAddressResult
	if err := e.SendAuthenticatedCommand(ctx, bitfinexDepositAddress, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateInvoiceAddress creates the Lightning Network deposit address on
// the exchange wallet. It must exist before the first invoice is generated.
func (e *Exchange) GenerateInvoiceAddress(ctx context.Context) (*DepositAddressResult, error) {
	return e.GenerateDepositAddress(ctx, &DepositAddressRequest{Method: lightningMethod, Wallet: exchangeWallet})
}

// GenerateInvoice returns a Lightning Network invoice. The endpoint is write
// scoped but answers with a bare invoice record rather than a notification.
func (e *Exchange) GenerateInvoice(ctx context.Context, req *InvoiceRequest) (*InvoiceInfo, error) {
	if req == nil {
		return nil, errNilRequest
	}
	var resp InvoiceInfo
	if err := e.sendAuthenticatedDecode(ctx, writeCommand, bitfinexDepositInvoice, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transfer moves funds between the account's wallets
func (e *Exchange) Transfer(ctx context.Context, req *TransferRequest) (*TransferResult, error) {
	if req == nil {
		return nil, errNilRequest
	}
	var resp TransferResult
	if err := e.SendAuthenticatedCommand(ctx, bitfinexTransfer, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Withdraw requests a withdrawal
func (e *Exchange) Withdraw(ctx context.Context, req *WithdrawRequest) (*WithdrawResult, error) {
	if req == nil {
		return nil, errNilRequest
	}
	var resp WithdrawResult
	if err := e.SendAuthenticatedCommand(ctx, bitfinexWithdrawal, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMovementInfo returns a single deposit or withdrawal by ID
func (e *Exchange) GetMovementInfo(ctx context.Context, id int64) (*Movement, error) {
	var resp Movement
	if err := e.SendAuthenticatedQuery(ctx, bitfinexMovementInfo, &idRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMovementHistory returns past deposits and withdrawals, for every
// currency when currency is empty. Zero start, end or limit leave the
// exchange defaults in place.
func (e *Exchange) GetMovementHistory(ctx context.Context, currency string, start, end time.Time, limit int64) ([]Movement, error) {
	path := bitfinexMovementsHistory
	if currency != "" {
		path = strings.ToUpper(currency) + "/" + path
	}
	req := &movementHistoryRequest{Limit: limit}
	if !start.IsZero() {
		req.Start = start.UnixMilli()
	}
	if !end.IsZero() {
		req.End = end.UnixMilli()
	}
	var resp []Movement
	if err := e.sendAuthenticatedList(ctx, bitfinexMovements+path, req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
