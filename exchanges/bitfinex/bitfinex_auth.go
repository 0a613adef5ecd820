package bitfinex

import (
	"github.com/thrasher-corp/bfxprivate/common/crypto"
	"github.com/thrasher-corp/bfxprivate/exchanges/account"
	"github.com/thrasher-corp/bfxprivate/exchanges/nonce"
)

const (
	signaturePrefix = "/api" + bitfinexAPIVersion2 + bitfinexAuthPath

	headerAPIKey    = "bfx-apikey"
	headerNonce     = "bfx-nonce"
	headerSignature = "bfx-signature"
)

// operationKind separates read-scope queries from write-scope commands
type operationKind uint8

const (
	readQuery operationKind = iota
	writeCommand
)

func (k operationKind) scope() string {
	if k == writeCommand {
		return "w"
	}
	return "r"
}

func (k operationKind) String() string {
	if k == writeCommand {
		return "command"
	}
	return "query"
}

// signaturePayload returns the bytes Bitfinex expects to be signed:
// /api/v2/auth/<scope>/<path><nonce><body>
func signaturePayload(kind operationKind, path string, n nonce.Value, body []byte) []byte {
	ns := n.String()
	b := make([]byte, 0, len(signaturePrefix)+2+len(path)+len(ns)+len(body))
	b = append(b, signaturePrefix...)
	b = append(b, kind.scope()...)
	b = append(b, '/')
	b = append(b, path...)
	b = append(b, ns...)
	return append(b, body...)
}

// signRequest returns the authentication headers for a single request. The
// secret only ever keys the HMAC.
func signRequest(creds *account.Credentials, kind operationKind, path string, n nonce.Value, body []byte) (map[string]string, error) {
	hmac, err := crypto.GetHMAC(crypto.HashSHA512_384, signaturePayload(kind, path, n, body), []byte(creds.Secret))
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Content-Type":  "application/json",
		headerAPIKey:    creds.Key,
		headerNonce:     n.String(),
		headerSignature: crypto.HexEncodeToString(hmac),
	}, nil
}
