package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/bfxprivate/config"
	"github.com/thrasher-corp/bfxprivate/encoding/json"
	"github.com/thrasher-corp/bfxprivate/exchanges/bitfinex"
)

type recorded struct {
	path string
	key  string
	body []byte
}

// run executes the CLI against a server answering every request with body
func run(t *testing.T, body string, args ...string) (string, []recorded, error) {
	t.Helper()
	var (
		mu  sync.Mutex
		got []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, recorded{path: r.URL.Path, key: r.Header.Get("bfx-apikey"), body: b})
		mu.Unlock()
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	cfg := `{"api_key":"cfg-key","api_secret":"cfg-secret","api_url":"` + srv.URL + `","logging":{"level":"ERROR","output":"stderr"}}`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600), "WriteFile must not error")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	full := append([]string{"bfxcli", "--config", cfgPath, "--envfile", filepath.Join(dir, "missing.env")}, args...)
	err := app.RunContext(t.Context(), full)
	mu.Lock()
	defer mu.Unlock()
	return out.String(), got, err
}

func TestGetWalletsCommand(t *testing.T) {
	out, reqs, err := run(t, `[["exchange","BTC",1.5,0,1.5,null,null]]`, "getwallets")
	require.NoError(t, err, "getwallets must not error")
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v2/auth/r/wallets", reqs[0].path)
	assert.Equal(t, "cfg-key", reqs[0].key)

	var wallets []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &wallets), "output must be JSON")
	require.Len(t, wallets, 1)
	assert.Equal(t, "BTC", wallets[0]["currency"])
}

func TestCredentialOverride(t *testing.T) {
	_, reqs, err := run(t, `[]`, "--apikey", "flag-key", "--apisecret", "flag-secret", "getactiveorders")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "flag-key", reqs[0].key, "flag credentials should override the config")
}

func TestSubmitOrderCommand(t *testing.T) {
	submit := `[1690988463,"on-req",null,null,[[123836039427,null,1690988463421,"tBTCUST",1690988463421,1690988463421,-0.00034232,-0.00034232,"EXCHANGE LIMIT",null,null,null,0,"ACTIVE",null,null,29290,0,0,0,null,null,null,0,0,null,null,null,"API>BFX",null,null,{}]],null,"SUCCESS","Submitting 1 orders."]`
	out, reqs, err := run(t, submit, "submitorder", "--symbol", "BTCUST", "--amount", "-0.00034232", "--price", "29290")
	require.NoError(t, err, "submitorder must not error")
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v2/auth/w/order/submit", reqs[0].path)
	assert.JSONEq(t, `{"type":"EXCHANGE LIMIT","symbol":"tBTCUST","amount":"-0.00034232","price":"29290"}`, string(reqs[0].body))

	var resp bitfinex.SubmitOrderResult
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output must decode back into the result")
	assert.Equal(t, int64(123836039427), resp.Order.ID)

	_, _, err = run(t, submit, "submitorder", "--symbol", "BTCUST", "--amount", "1")
	assert.ErrorIs(t, err, errPriceRequired)
}

func TestCommandRejection(t *testing.T) {
	_, _, err := run(t, `[1690988465000,"oc-req",null,null,null,null,"ERROR","Order not found."]`, "cancelorder", "1")
	require.Error(t, err)
	assert.True(t, bitfinex.IsExchangeRejection(err), "the exchange error should reach the caller")
}

func TestMovementHistoryCommand(t *testing.T) {
	_, reqs, err := run(t, `[]`, "getmovementhistory", "--start", "2023-02-21T00:00:00Z", "--end", "2023-03-05T00:00:00Z", "--limit", "5", "eur")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v2/auth/r/movements/EUR/hist", reqs[0].path)
	assert.JSONEq(t, `{"start":1676937600000,"end":1677974400000,"limit":5}`, string(reqs[0].body))

	_, _, err = run(t, `[]`, "getmovementhistory", "--start", "2023-03-05T00:00:00Z", "--end", "2023-02-21T00:00:00Z")
	assert.Error(t, err, "an end before start should error")
}

func TestEncryptConfigCommand(t *testing.T) {
	t.Setenv("BFX_CONFIG_KEY", "12345678901234567890123456789012")
	dir := t.TempDir()
	in := filepath.Join(dir, "plain.json")
	out := filepath.Join(dir, "sealed.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"api_key":"k","api_secret":"s"}`), 0o600))

	app := newApp()
	app.Writer = io.Discard
	require.NoError(t, app.RunContext(t.Context(), []string{"bfxcli", "encryptconfig", "--in", in, "--out", out}), "encryptconfig must not error")

	c, err := config.Load(out)
	require.NoError(t, err, "the encrypted config must load")
	assert.Equal(t, "k", c.APIKey)
}

func TestParseHelpers(t *testing.T) {
	t.Parallel()
	d, err := parseDecimal("0.00034774")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.00034774").Equal(d))
	_, err = parseDecimal("")
	assert.ErrorIs(t, err, errAmountRequired)
	_, err = parseDecimal("abc")
	assert.Error(t, err)

	tm, err := parseTime("")
	require.NoError(t, err)
	assert.True(t, tm.IsZero())
	tm, err = parseTime("2023-08-02T15:01:03Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 8, 2, 15, 1, 3, 0, time.UTC), tm)
	_, err = parseTime("yesterday")
	assert.Error(t, err)

	assert.True(t, isLimitOrder("EXCHANGE LIMIT"))
	assert.False(t, isLimitOrder("EXCHANGE MARKET"))
}
