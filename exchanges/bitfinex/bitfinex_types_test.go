package bitfinex

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/bfxprivate/encoding/json"
	"github.com/thrasher-corp/bfxprivate/encoding/positional"
)

const (
	transferFixture   = `[1690901416558,"acc_tf",null,null,[1690901416558,"exchange","exchange",null,"LNX","BTC",null,0.00034774],null,"SUCCESS","0.00034774 Bitcoin (Lightning Network) transfered from Exchange to Exchange"]`
	withdrawalFixture = `[1568742390999,"acc_wd-req",null,null,[13080092,null,"ethereum",null,"exchange",0.01,null,null,0.00135],null,"SUCCESS","Your withdrawal request has been successfully submitted."]`
	movementFixture   = `[24,"EUR","WIRE",null,"remark related to bank details",1677086074000,1677086210000,null,null,"COMPLETED",null,null,-29.5,-0.5,null,null,null,null,null,null,null,"testing note",null,null,0,123,null,null,"abcd-1234","COMPLETED","finished withdrawal in platform",{"router":"my-router","meta":{"foo":"bar"}}]`
	submitFixture     = `[1690988463,"on-req",null,null,[[123836039427,null,1690988463421,"tBTCUST",1690988463421,1690988463421,-0.00034232,-0.00034232,"EXCHANGE LIMIT",null,null,null,0,"ACTIVE",null,null,29290,0,0,0,null,null,null,0,0,null,null,null,"API>BFX",null,null,{}]],null,"SUCCESS","Submitting 1 orders."]`
	orderFixture      = `[123836039427,null,1690988463421,"tBTCUST",1690988463421,1690988463421,-0.00034232,-0.00034232,"EXCHANGE LIMIT",null,null,null,0,"ACTIVE",null,null,29290,0,0,0,null,null,null,0,0,null,null,null,"API>BFX",null,null,{}]`
)

func TestTransferResult(t *testing.T) {
	t.Parallel()
	var r TransferResult
	require.NoError(t, json.Unmarshal([]byte(transferFixture), &r), "Unmarshal must not error")
	assert.Equal(t, time.UnixMilli(1690901416558), r.MTS.Time())
	assert.Equal(t, "acc_tf", r.Type)
	assert.Nil(t, r.MessageID)
	assert.Nil(t, r.Code)
	assert.Equal(t, StatusSuccess, r.Status)
	require.NotNil(t, r.Text)
	assert.Equal(t, "0.00034774 Bitcoin (Lightning Network) transfered from Exchange to Exchange", *r.Text)

	assert.Equal(t, time.UnixMilli(1690901416558), r.Transfer.Updated.Time())
	assert.Equal(t, "exchange", r.Transfer.WalletFrom)
	assert.Equal(t, "exchange", r.Transfer.WalletTo)
	assert.Equal(t, "LNX", r.Transfer.Currency)
	assert.Equal(t, "BTC", r.Transfer.CurrencyTo)
	assert.Equal(t, 0.00034774, r.Transfer.Amount)
}

func TestWithdrawResult(t *testing.T) {
	t.Parallel()
	var r WithdrawResult
	require.NoError(t, json.Unmarshal([]byte(withdrawalFixture), &r), "Unmarshal must not error")
	assert.Equal(t, "acc_wd-req", r.Type)
	assert.Equal(t, StatusSuccess, r.Status)
	assert.Equal(t, int64(13080092), r.Withdrawal.WithdrawalID)
	assert.Equal(t, "ethereum", r.Withdrawal.Method)
	assert.Nil(t, r.Withdrawal.PaymentID)
	assert.Equal(t, "exchange", r.Withdrawal.Wallet)
	assert.Equal(t, 0.01, r.Withdrawal.Amount)
	assert.Equal(t, 0.00135, r.Withdrawal.WithdrawFee)
}

func TestMovement(t *testing.T) {
	t.Parallel()
	var m Movement
	require.NoError(t, json.Unmarshal([]byte(movementFixture), &m), "Unmarshal must not error")
	assert.Equal(t, int64(24), m.ID)
	assert.Equal(t, "EUR", m.Currency)
	assert.Equal(t, "WIRE", m.CurrencyName)
	require.NotNil(t, m.Remark)
	assert.Equal(t, "remark related to bank details", *m.Remark)
	assert.Equal(t, time.UnixMilli(1677086074000), m.Started.Time())
	assert.Equal(t, time.UnixMilli(1677086210000), m.Updated.Time())
	assert.Equal(t, "COMPLETED", m.Status)
	assert.Equal(t, -29.5, m.Amount)
	assert.Equal(t, -0.5, m.Fees)
	assert.Nil(t, m.DestinationAddress)
	assert.Nil(t, m.TransactionID)
	require.NotNil(t, m.Note)
	assert.Equal(t, "testing note", *m.Note)
	require.NotNil(t, m.BankFees)
	assert.Zero(t, *m.BankFees)
	require.NotNil(t, m.BankRouterID)
	assert.Equal(t, int64(123), *m.BankRouterID)
	require.NotNil(t, m.ExternalBankMovID)
	assert.Equal(t, "abcd-1234", *m.ExternalBankMovID)
	assert.Equal(t, "COMPLETED", *m.ExternalBankMovStatus)
	assert.Equal(t, "finished withdrawal in platform", *m.ExternalBankMovDescription)
	assert.JSONEq(t, `{"router":"my-router","meta":{"foo":"bar"}}`, string(m.ExternalBankAccInfo))
}

func TestSubmitOrderResult(t *testing.T) {
	t.Parallel()
	var r SubmitOrderResult
	require.NoError(t, json.Unmarshal([]byte(submitFixture), &r), "Unmarshal must not error")
	assert.Equal(t, time.Unix(1690988463, 0), r.MTS.Time(), "second resolution MTS should decode")
	assert.Equal(t, "on-req", r.Type)
	assert.Equal(t, StatusSuccess, r.Status)

	o := r.Order
	assert.Equal(t, int64(123836039427), o.ID)
	assert.Nil(t, o.GroupID)
	require.NotNil(t, o.ClientID)
	assert.Equal(t, int64(1690988463421), *o.ClientID)
	assert.Equal(t, "tBTCUST", o.Symbol)
	assert.Equal(t, time.UnixMilli(1690988463421), o.Created.Time())
	assert.Equal(t, -0.00034232, o.Amount)
	assert.Equal(t, -0.00034232, o.AmountOrig)
	assert.Equal(t, "EXCHANGE LIMIT", o.Type)
	assert.Nil(t, o.TypePrev)
	assert.True(t, o.TimeInForce.IsZero())
	require.NotNil(t, o.Flags)
	assert.Zero(t, *o.Flags)
	require.NotNil(t, o.Status)
	assert.Equal(t, "ACTIVE", *o.Status)
	assert.Equal(t, 29290.0, o.Price)
	require.NotNil(t, o.PriceTrailing)
	assert.Zero(t, *o.PriceTrailing)
	assert.False(t, o.Notify)
	assert.False(t, o.Hidden)
	assert.Nil(t, o.PlacedID)
	require.NotNil(t, o.Routing)
	assert.Equal(t, "API>BFX", *o.Routing)
	assert.JSONEq(t, `{}`, string(o.Meta))
}

func TestCancelOrderResult(t *testing.T) {
	t.Parallel()
	var r CancelOrderResult
	data := `[1690988464000,"oc-req",null,null,` + orderFixture + `,null,"SUCCESS","Submitted for cancellation; waiting for confirmation (ID: 123836039427)."]`
	require.NoError(t, json.Unmarshal([]byte(data), &r), "Unmarshal must not error")
	assert.Equal(t, "oc-req", r.Type)
	assert.Equal(t, int64(123836039427), r.Order.ID)
}

func TestDepositAddressResult(t *testing.T) {
	t.Parallel()
	var r DepositAddressResult
	data := `[1568738594687,"acc_dep",null,null,[null,"BITCOIN","BTC",null,"1MN8XMLVmxCZcZXvGiY7zNdRbdbRdhKc8Q",null],null,"SUCCESS","success"]`
	require.NoError(t, json.Unmarshal([]byte(data), &r), "Unmarshal must not error")
	assert.Equal(t, "BITCOIN", r.Address.Method)
	assert.Equal(t, "BTC", r.Address.CurrencyCode)
	assert.Equal(t, "1MN8XMLVmxCZcZXvGiY7zNdRbdbRdhKc8Q", r.Address.Address)
	assert.Nil(t, r.Address.PoolAddress)
}

func TestInvoiceInfo(t *testing.T) {
	t.Parallel()
	var i InvoiceInfo
	require.NoError(t, json.Unmarshal([]byte(`["e7f4","lnbc10u1p",null,null,"0.001"]`), &i))
	assert.Equal(t, InvoiceInfo{InvoiceHash: "e7f4", Invoice: "lnbc10u1p", Amount: "0.001"}, i)
}

func TestAccountRecords(t *testing.T) {
	t.Parallel()
	var wallets []Wallet
	require.NoError(t, json.Unmarshal([]byte(`[["exchange","UST",19788.6529257,0,19788.6529257,null,null],["margin","BTC",0.5,0.1,null,"Trading fees for 0.05 BTC",{"reason":"TRADE"}]]`), &wallets))
	require.Len(t, wallets, 2)
	assert.Equal(t, "exchange", wallets[0].Type)
	require.NotNil(t, wallets[0].AvailableBalance)
	assert.Equal(t, 19788.6529257, *wallets[0].AvailableBalance)
	assert.Nil(t, wallets[0].TradeDetails)
	assert.Nil(t, wallets[1].AvailableBalance)
	require.NotNil(t, wallets[1].LastChange)
	assert.JSONEq(t, `{"reason":"TRADE"}`, string(wallets[1].TradeDetails))

	var base MarginBase
	require.NoError(t, json.Unmarshal([]byte(`["base",[-13.014640000000007,0,49331.70267297,49318.68803297,27]]`), &base))
	assert.Equal(t, "base", base.Key)
	assert.Equal(t, 49331.70267297, base.Margin.MarginBalance)
	require.NotNil(t, base.Margin.MarginMin)
	assert.Equal(t, 27.0, *base.Margin.MarginMin)

	var sym MarginSymbol
	require.NoError(t, json.Unmarshal([]byte(`["sym","tBTCUSD",[49331.70267297,49331.70267297,0.1,0.2,null,null,null,null]]`), &sym))
	assert.Equal(t, "tBTCUSD", sym.Symbol)
	assert.Equal(t, MarginSymbolInfo{TradableBalance: 49331.70267297, GrossBalance: 49331.70267297, Buy: 0.1, Sell: 0.2}, sym.Margin)

	var funding FundingInfo
	require.NoError(t, json.Unmarshal([]byte(`["sym","fUSD",[0,0.0001,0,2]]`), &funding))
	assert.Equal(t, "fUSD", funding.Symbol)
	assert.Equal(t, FundingRates{YieldLend: 0.0001, DurationLend: 2}, funding.Funding)
}

func TestForwardCompatibility(t *testing.T) {
	t.Parallel()
	var base, extended WithdrawResult
	require.NoError(t, json.Unmarshal([]byte(withdrawalFixture), &base))
	extra := `[1568742390999,"acc_wd-req",null,null,[13080092,null,"ethereum",null,"exchange",0.01,null,null,0.00135,"new",42],null,"SUCCESS","Your withdrawal request has been successfully submitted.",{"x":1},7]`
	require.NoError(t, json.Unmarshal([]byte(extra), &extended), "trailing positions must be ignored")
	assert.Equal(t, base, extended)
}

func TestInsufficientArity(t *testing.T) {
	t.Parallel()
	var o Order
	short := `[123836039427,null,1690988463421,"tBTCUST",1690988463421,1690988463421,-0.00034232,-0.00034232,"EXCHANGE LIMIT",null,null,null,0,"ACTIVE",null,null,29290,0,0,0,null,null,null,0]`
	err := json.Unmarshal([]byte(short), &o)
	require.ErrorIs(t, err, positional.ErrInsufficientArity)
	var de *positional.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Order", de.Record)
	assert.Equal(t, "hidden", de.Field)
	assert.Equal(t, 25, positional.MinArity(o.slots()))
	assert.Equal(t, 14, positional.MinArity(new(Movement).slots()))

	var r TransferResult
	err = json.Unmarshal([]byte(`[1690901416558,"acc_tf",null,null,[1690901416558,"exchange","exchange",null,"LNX","BTC",null],null,"SUCCESS"]`), &r)
	require.ErrorIs(t, err, positional.ErrInsufficientArity, "a short nested payload must fail")
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	for name, tc := range map[string]struct {
		fixture string
		fresh   func() any
	}{
		"transfer": {transferFixture, func() any { return new(TransferResult) }},
		"withdraw": {withdrawalFixture, func() any { return new(WithdrawResult) }},
		"movement": {movementFixture, func() any { return new(Movement) }},
		"submit":   {submitFixture, func() any { return new(SubmitOrderResult) }},
		"order":    {orderFixture, func() any { return new(Order) }},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			first := tc.fresh()
			require.NoError(t, json.Unmarshal([]byte(tc.fixture), first))
			named, err := json.Marshal(first)
			require.NoError(t, err, "Marshal must not error")
			assert.NotContains(t, string(named), `"_"`, "placeholders must not be encoded")

			second := tc.fresh()
			require.NoError(t, json.Unmarshal(named, second), "the named form must decode")
			again, err := json.Marshal(second)
			require.NoError(t, err)
			assert.JSONEq(t, string(named), string(again), "decode and encode must be stable")
		})
	}
}

func TestRequestEncoding(t *testing.T) {
	t.Parallel()
	b, err := json.Marshal(&WithdrawRequest{Wallet: "exchange", Method: "bitcoin", Address: "bc1q"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"wallet":"exchange","method":"bitcoin","address":"bc1q"}`, string(b), "absent optional fields must be omitted")

	amount := decimal.RequireFromString("0.0001")
	deduct := int64(1)
	tos := true
	b, err = json.Marshal(&WithdrawRequest{Wallet: "exchange", Method: "LNX", Amount: &amount, Invoice: "lnbc", FeeDeduct: &deduct, TravelRuleTOS: &tos})
	require.NoError(t, err)
	assert.JSONEq(t, `{"wallet":"exchange","method":"LNX","amount":"0.0001","invoice":"lnbc","fee_deduct":1,"travel_rule_tos":true}`, string(b))

	b, err = json.Marshal(&SubmitOrderRequest{Type: "EXCHANGE LIMIT", Symbol: "tBTCUSD", Amount: decimal.RequireFromString("-0.001"), Price: decimal.NewFromInt(29290)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"EXCHANGE LIMIT","symbol":"tBTCUSD","amount":"-0.001","price":"29290"}`, string(b))

	b, err = json.Marshal(&InvoiceRequest{Wallet: "exchange", Currency: "LNX", Amount: decimal.RequireFromString("0.001")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"wallet":"exchange","currency":"LNX","amount":"0.001"}`, string(b))
}
