package bitfinex

import (
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/bfxprivate/encoding/json"
	"github.com/thrasher-corp/bfxprivate/encoding/positional"
	"github.com/thrasher-corp/bfxprivate/types"
)

// Notification statuses
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
	StatusFailure = "FAILURE"
	StatusInfo    = "INFO"
)

// Notification is the envelope wrapping every write-scope response:
// [MTS, TYPE, MESSAGE_ID, _, PAYLOAD, CODE, STATUS, TEXT]
type Notification struct {
	MTS       types.Time `json:"mts"`
	Type      string     `json:"type"`
	MessageID *string    `json:"message_id"`
	Code      *int64     `json:"code"`
	Status    string     `json:"status"`
	Text      *string    `json:"text"`
}

func (n *Notification) decode(data []byte, record string, payload positional.Slot) error {
	return positional.Decode(data, record, []positional.Slot{
		positional.Time("mts", &n.MTS),
		positional.String("type", &n.Type),
		positional.OptLooseString("message_id", &n.MessageID),
		positional.Placeholder(),
		payload,
		positional.OptInt64("code", &n.Code),
		positional.String("status", &n.Status),
		positional.OptString("text", &n.Text),
	})
}

func (n *Notification) exchangeError(path string) *ExchangeError {
	e := &ExchangeError{Path: path, Type: n.Type, Status: n.Status}
	if n.Code != nil {
		e.Code = *n.Code
	}
	if n.Text != nil {
		e.Text = *n.Text
	}
	return e
}

// Wallet holds a single wallet balance
type Wallet struct {
	Type              string          `json:"wallet_type"`
	Currency          string          `json:"currency"`
	Balance           float64         `json:"balance"`
	UnsettledInterest float64         `json:"unsettled_interest"`
	AvailableBalance  *float64        `json:"balance_available"`
	LastChange        *string         `json:"last_change"`
	TradeDetails      json.RawMessage `json:"trade_details,omitempty"`
}

// UnmarshalJSON decodes [WALLET_TYPE, CURRENCY, BALANCE, UNSETTLED_INTEREST, AVAILABLE_BALANCE, LAST_CHANGE, TRADE_DETAILS]
func (w *Wallet) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "Wallet", []positional.Slot{
		positional.String("wallet_type", &w.Type),
		positional.String("currency", &w.Currency),
		positional.Float64("balance", &w.Balance),
		positional.Float64("unsettled_interest", &w.UnsettledInterest),
		positional.OptFloat64("balance_available", &w.AvailableBalance),
		positional.OptString("last_change", &w.LastChange),
		positional.Raw("trade_details", &w.TradeDetails),
	})
}

// MarginBase holds account wide margin figures
type MarginBase struct {
	Key    string         `json:"key"`
	Margin MarginBaseInfo `json:"margin"`
}

// UnmarshalJSON decodes [KEY, [...]]
func (m *MarginBase) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "MarginBase", []positional.Slot{
		positional.String("key", &m.Key),
		positional.Record("margin", &m.Margin),
	})
}

// MarginBaseInfo is the nested figure list of MarginBase
type MarginBaseInfo struct {
	UserProfitLoss float64  `json:"user_pl"`
	UserSwaps      float64  `json:"user_swaps"`
	MarginBalance  float64  `json:"margin_balance"`
	MarginNet      float64  `json:"margin_net"`
	MarginMin      *float64 `json:"margin_min"`
}

// UnmarshalJSON decodes [USER_PL, USER_SWAPS, MARGIN_BALANCE, MARGIN_NET, MARGIN_MIN]
func (m *MarginBaseInfo) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "MarginBaseInfo", []positional.Slot{
		positional.Float64("user_pl", &m.UserProfitLoss),
		positional.Float64("user_swaps", &m.UserSwaps),
		positional.Float64("margin_balance", &m.MarginBalance),
		positional.Float64("margin_net", &m.MarginNet),
		positional.OptFloat64("margin_min", &m.MarginMin),
	})
}

// MarginSymbol holds margin figures for one trading pair
type MarginSymbol struct {
	Key    string           `json:"key"`
	Symbol string           `json:"symbol"`
	Margin MarginSymbolInfo `json:"margin"`
}

// UnmarshalJSON decodes [KEY, SYMBOL, [...]]
func (m *MarginSymbol) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "MarginSymbol", []positional.Slot{
		positional.String("key", &m.Key),
		positional.String("symbol", &m.Symbol),
		positional.Record("margin", &m.Margin),
	})
}

// MarginSymbolInfo is the nested figure list of MarginSymbol
type MarginSymbolInfo struct {
	TradableBalance float64 `json:"tradable_balance"`
	GrossBalance    float64 `json:"gross_balance"`
	Buy             float64 `json:"buy"`
	Sell            float64 `json:"sell"`
}

// UnmarshalJSON decodes [TRADABLE_BALANCE, GROSS_BALANCE, BUY, SELL, _, _, _, _]
func (m *MarginSymbolInfo) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "MarginSymbolInfo", []positional.Slot{
		positional.Float64("tradable_balance", &m.TradableBalance),
		positional.Float64("gross_balance", &m.GrossBalance),
		positional.Float64("buy", &m.Buy),
		positional.Float64("sell", &m.Sell),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.Placeholder(),
	})
}

// FundingInfo holds funding yields and durations for one currency
type FundingInfo struct {
	Key     string       `json:"key"`
	Symbol  string       `json:"symbol"`
	Funding FundingRates `json:"funding"`
}

// UnmarshalJSON decodes [KEY, SYMBOL, [...]]
func (f *FundingInfo) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "FundingInfo", []positional.Slot{
		positional.String("key", &f.Key),
		positional.String("symbol", &f.Symbol),
		positional.Record("funding", &f.Funding),
	})
}

// FundingRates is the nested figure list of FundingInfo
type FundingRates struct {
	YieldLoan    float64 `json:"yield_loan"`
	YieldLend    float64 `json:"yield_lend"`
	DurationLoan float64 `json:"duration_loan"`
	DurationLend float64 `json:"duration_lend"`
}

// UnmarshalJSON decodes [YIELD_LOAN, YIELD_LEND, DURATION_LOAN, DURATION_LEND]
func (f *FundingRates) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "FundingRates", []positional.Slot{
		positional.Float64("yield_loan", &f.YieldLoan),
		positional.Float64("yield_lend", &f.YieldLend),
		positional.Float64("duration_loan", &f.DurationLoan),
		positional.Float64("duration_lend", &f.DurationLend),
	})
}

// Order is a single active or historical order
type Order struct {
	ID            int64           `json:"id"`
	GroupID       *int64          `json:"gid"`
	ClientID      *int64          `json:"cid"`
	Symbol        string          `json:"symbol"`
	Created       types.Time      `json:"mts_create"`
	Updated       types.Time      `json:"mts_update"`
	Amount        float64         `json:"amount"`
	AmountOrig    float64         `json:"amount_orig"`
	Type          string          `json:"type"`
	TypePrev      *string         `json:"type_prev"`
	TimeInForce   types.Time      `json:"mts_tif"`
	Flags         *int64          `json:"flags"`
	Status        *string         `json:"status"`
	Price         float64         `json:"price"`
	PriceAvg      float64         `json:"price_avg"`
	PriceTrailing *float64        `json:"price_trailing"`
	PriceAuxLimit *float64        `json:"price_aux_limit"`
	Notify        bool            `json:"notify"`
	Hidden        bool            `json:"hidden"`
	PlacedID      *int64          `json:"placed_id"`
	Routing       *string         `json:"routing"`
	Meta          json.RawMessage `json:"meta,omitempty"`
}

func (o *Order) slots() []positional.Slot {
	return []positional.Slot{
		positional.Int64("id", &o.ID),
		positional.OptInt64("gid", &o.GroupID),
		positional.OptInt64("cid", &o.ClientID),
		positional.String("symbol", &o.Symbol),
		positional.Time("mts_create", &o.Created),
		positional.Time("mts_update", &o.Updated),
		positional.Float64("amount", &o.Amount),
		positional.Float64("amount_orig", &o.AmountOrig),
		positional.String("type", &o.Type),
		positional.OptString("type_prev", &o.TypePrev),
		positional.OptTime("mts_tif", &o.TimeInForce),
		positional.Placeholder(),
		positional.OptInt64("flags", &o.Flags),
		positional.OptString("status", &o.Status),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.Float64("price", &o.Price),
		positional.Float64("price_avg", &o.PriceAvg),
		positional.OptFloat64("price_trailing", &o.PriceTrailing),
		positional.OptFloat64("price_aux_limit", &o.PriceAuxLimit),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.Bool("notify", &o.Notify),
		positional.Bool("hidden", &o.Hidden),
		positional.OptInt64("placed_id", &o.PlacedID),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.OptString("routing", &o.Routing),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.Raw("meta", &o.Meta),
	}
}

// UnmarshalJSON decodes the 32 position order array
func (o *Order) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "Order", o.slots())
}

// InvoiceInfo is a generated Lightning Network invoice
type InvoiceInfo struct {
	InvoiceHash string `json:"invoice_hash"`
	Invoice     string `json:"invoice"`
	Amount      string `json:"amount"`
}

// UnmarshalJSON decodes [INVOICE_HASH, INVOICE, _, _, AMOUNT]
func (i *InvoiceInfo) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "InvoiceInfo", []positional.Slot{
		positional.String("invoice_hash", &i.InvoiceHash),
		positional.String("invoice", &i.Invoice),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.String("amount", &i.Amount),
	})
}

// DepositAddressInfo is a generated deposit address
type DepositAddressInfo struct {
	Method       string  `json:"method"`
	CurrencyCode string  `json:"currency_code"`
	Address      string  `json:"address"`
	PoolAddress  *string `json:"pool_address"`
}

// UnmarshalJSON decodes [_, METHOD, CURRENCY_CODE, _, ADDRESS, POOL_ADDRESS]
func (d *DepositAddressInfo) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "DepositAddressInfo", []positional.Slot{
		positional.Placeholder(),
		positional.String("method", &d.Method),
		positional.String("currency_code", &d.CurrencyCode),
		positional.Placeholder(),
		positional.String("address", &d.Address),
		positional.OptString("pool_address", &d.PoolAddress),
	})
}

// TransferInfo describes a completed wallet transfer
type TransferInfo struct {
	Updated    types.Time `json:"mts_updated"`
	WalletFrom string     `json:"wallet_from"`
	WalletTo   string     `json:"wallet_to"`
	Currency   string     `json:"currency"`
	CurrencyTo string     `json:"currency_to"`
	Amount     float64    `json:"amount"`
}

// UnmarshalJSON decodes [MTS_UPDATED, WALLET_FROM, WALLET_TO, _, CURRENCY, CURRENCY_TO, _, AMOUNT]
func (t *TransferInfo) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "TransferInfo", []positional.Slot{
		positional.OptTime("mts_updated", &t.Updated),
		positional.String("wallet_from", &t.WalletFrom),
		positional.String("wallet_to", &t.WalletTo),
		positional.Placeholder(),
		positional.String("currency", &t.Currency),
		positional.String("currency_to", &t.CurrencyTo),
		positional.Placeholder(),
		positional.Float64("amount", &t.Amount),
	})
}

// WithdrawInfo describes a submitted withdrawal
type WithdrawInfo struct {
	WithdrawalID int64   `json:"withdrawal_id"`
	Method       string  `json:"method"`
	PaymentID    *string `json:"payment_id"`
	Wallet       string  `json:"wallet"`
	Amount       float64 `json:"amount"`
	WithdrawFee  float64 `json:"withdraw_fee"`
}

// UnmarshalJSON decodes [WITHDRAWAL_ID, _, METHOD, PAYMENT_ID, WALLET, AMOUNT, _, _, WITHDRAWAL_FEE]
func (w *WithdrawInfo) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "WithdrawInfo", []positional.Slot{
		positional.Int64("withdrawal_id", &w.WithdrawalID),
		positional.Placeholder(),
		positional.String("method", &w.Method),
		positional.OptString("payment_id", &w.PaymentID),
		positional.String("wallet", &w.Wallet),
		positional.Float64("amount", &w.Amount),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.Float64("withdraw_fee", &w.WithdrawFee),
	})
}

// Movement is a deposit or withdrawal on the account
type Movement struct {
	ID                         int64           `json:"id"`
	Currency                   string          `json:"currency"`
	CurrencyName               string          `json:"currency_name"`
	Remark                     *string         `json:"remark"`
	Started                    types.Time      `json:"mts_started"`
	Updated                    types.Time      `json:"mts_updated"`
	Status                     string          `json:"status"`
	Amount                     float64         `json:"amount"`
	Fees                       float64         `json:"fees"`
	DestinationAddress         *string         `json:"destination_address"`
	Memo                       *string         `json:"memo"`
	TransactionID              *string         `json:"transaction_id"`
	Note                       *string         `json:"note"`
	BankFees                   *float64        `json:"bank_fees"`
	BankRouterID               *int64          `json:"bank_router_id"`
	ExternalBankMovID          *string         `json:"external_bank_mov_id"`
	ExternalBankMovStatus      *string         `json:"external_bank_mov_status"`
	ExternalBankMovDescription *string         `json:"external_bank_mov_description"`
	ExternalBankAccInfo        json.RawMessage `json:"external_bank_acc_info,omitempty"`
}

func (m *Movement) slots() []positional.Slot {
	return []positional.Slot{
		positional.Int64("id", &m.ID),
		positional.String("currency", &m.Currency),
		positional.String("currency_name", &m.CurrencyName),
		positional.Placeholder(),
		positional.OptString("remark", &m.Remark),
		positional.Time("mts_started", &m.Started),
		positional.Time("mts_updated", &m.Updated),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.String("status", &m.Status),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.Float64("amount", &m.Amount),
		positional.Float64("fees", &m.Fees),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.OptString("destination_address", &m.DestinationAddress),
		positional.OptString("memo", &m.Memo),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.OptString("transaction_id", &m.TransactionID),
		positional.OptString("note", &m.Note),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.OptFloat64("bank_fees", &m.BankFees),
		positional.OptInt64("bank_router_id", &m.BankRouterID),
		positional.Placeholder(),
		positional.Placeholder(),
		positional.OptString("external_bank_mov_id", &m.ExternalBankMovID),
		positional.OptString("external_bank_mov_status", &m.ExternalBankMovStatus),
		positional.OptString("external_bank_mov_description", &m.ExternalBankMovDescription),
		positional.Raw("external_bank_acc_info", &m.ExternalBankAccInfo),
	}
}

// UnmarshalJSON decodes the 32 position movement array
func (m *Movement) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "Movement", m.slots())
}

// TransferResult is the notification returned by a transfer
type TransferResult struct {
	Notification
	Transfer TransferInfo `json:"info"`
}

// UnmarshalJSON decodes the notification envelope and its payload
func (r *TransferResult) UnmarshalJSON(data []byte) error {
	return r.Notification.decode(data, "TransferResult", positional.Record("info", &r.Transfer))
}

// WithdrawResult is the notification returned by a withdrawal
type WithdrawResult struct {
	Notification
	Withdrawal WithdrawInfo `json:"info"`
}

// UnmarshalJSON decodes the notification envelope and its payload
func (r *WithdrawResult) UnmarshalJSON(data []byte) error {
	return r.Notification.decode(data, "WithdrawResult", positional.Record("info", &r.Withdrawal))
}

// DepositAddressResult is the notification returned by deposit address
// generation
type DepositAddressResult struct {
	Notification
	Address DepositAddressInfo `json:"info"`
}

// UnmarshalJSON decodes the notification envelope and its payload
func (r *DepositAddressResult) UnmarshalJSON(data []byte) error {
	return r.Notification.decode(data, "DepositAddressResult", positional.Record("info", &r.Address))
}

// SubmitOrderResult is the notification returned by order submission. The
// payload is a list of orders; only the first is kept.
type SubmitOrderResult struct {
	Notification
	Order Order `json:"order"`
}

// UnmarshalJSON decodes the notification envelope and its payload
func (r *SubmitOrderResult) UnmarshalJSON(data []byte) error {
	return r.Notification.decode(data, "SubmitOrderResult", positional.First("order", &r.Order))
}

// CancelOrderResult is the notification returned by order cancellation
type CancelOrderResult struct {
	Notification
	Order Order `json:"order"`
}

// UnmarshalJSON decodes the notification envelope and its payload
func (r *CancelOrderResult) UnmarshalJSON(data []byte) error {
	return r.Notification.decode(data, "CancelOrderResult", positional.Record("order", &r.Order))
}

// TransferRequest moves funds between wallets, optionally converting
// currency
type TransferRequest struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Currency   string          `json:"currency"`
	CurrencyTo string          `json:"currency_to,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// WithdrawRequest withdraws funds to an address or invoice
type WithdrawRequest struct {
	Wallet        string           `json:"wallet"`
	Method        string           `json:"method"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Address       string           `json:"address,omitempty"`
	Invoice       string           `json:"invoice,omitempty"`
	PaymentID     string           `json:"payment_id,omitempty"`
	FeeDeduct     *int64           `json:"fee_deduct,omitempty"`
	TravelRuleTOS *bool            `json:"travel_rule_tos,omitempty"`
}

// InvoiceRequest asks for a Lightning Network invoice
type InvoiceRequest struct {
	Wallet   string          `json:"wallet"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// DepositAddressRequest asks for a deposit address. OpRenew set to 1
// generates a new address instead of returning the last one.
type DepositAddressRequest struct {
	Method  string `json:"method"`
	Wallet  string `json:"wallet"`
	OpRenew int64  `json:"op_renew,omitempty"`
}

// SubmitOrderRequest places a new order
type SubmitOrderRequest struct {
	Type          string           `json:"type"`
	Symbol        string           `json:"symbol"`
	Amount        decimal.Decimal  `json:"amount"`
	Price         decimal.Decimal  `json:"price"`
	GroupID       int64            `json:"gid,omitempty"`
	ClientID      int64            `json:"cid,omitempty"`
	Flags         int64            `json:"flags,omitempty"`
	PriceTrailing *decimal.Decimal `json:"price_trailing,omitempty"`
	PriceAuxLimit *decimal.Decimal `json:"price_aux_limit,omitempty"`
	TimeInForce   string           `json:"tif,omitempty"`
}

type idRequest struct {
	ID int64 `json:"id"`
}

type movementHistoryRequest struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
	Limit int64 `json:"limit,omitempty"`
}
