package bitfinex

import "context"

// GetActiveOrders returns the account's open orders
func (e *Exchange) GetActiveOrders(ctx context.Context) ([]Order, error) {
	var resp []Order
	if err := e.sendAuthenticatedList(ctx, bitfinexOrders, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetOrderHistory returns closed orders, for every pair when symbol is empty
func (e *Exchange) GetOrderHistory(ctx context.Context, symbol string) ([]Order, error) {
	path := bitfinexOrderHistory
	if symbol != "" {
		path = bitfinexOrders + "/" + prefixSymbol('t', symbol) + "/hist"
	}
	var resp []Order
	if err := e.sendAuthenticatedList(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SubmitOrder places an order. A bare symbol such as BTCUSD is sent as
// tBTCUSD.
func (e *Exchange) SubmitOrder(ctx context.Context, req *SubmitOrderRequest) (*SubmitOrderResult, error) {
	if req == nil || req.Symbol == "" {
		return nil, ErrSymbolEmpty
	}
	body := *req
	body.Symbol = prefixSymbol('t', req.Symbol)
	var resp SubmitOrderResult
	if err := e.SendAuthenticatedCommand(ctx, bitfinexOrderSubmit, &body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelOrder cancels an open order by ID
func (e *Exchange) CancelOrder(ctx context.Context, id int64) (*CancelOrderResult, error) {
	var resp CancelOrderResult
	if err := e.SendAuthenticatedCommand(ctx, bitfinexOrderCancel, &idRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
