package server

import (
	"context"

	"chaingateway/internal/dispatch"
	"chaingateway/internal/historian"
)

// RegisterResources wires the resource templates from spec §6.4, plus
// their unparameterized aliases that default to the primary sibling
// network (the same default resolveNetwork applies to tool calls).
func (s *Services) RegisterResources(d *dispatch.Dispatcher) {
	d.RegisterResource(dispatch.Schema{Name: "network-info"}, "chain://{network}/info", s.resourceInfo)
	d.RegisterResource(dispatch.Schema{Name: "network-info-default"}, "chain://info", s.resourceInfoDefault)

	d.RegisterResource(dispatch.Schema{Name: "latest-block"}, "chain://{network}/block/latest", s.resourceLatestBlock)
	d.RegisterResource(dispatch.Schema{Name: "latest-block-default"}, "chain://block/latest", s.resourceLatestBlockDefault)

	d.RegisterResource(dispatch.Schema{Name: "address-balance"}, "chain://{network}/address/{address}/balance", s.resourceAddressBalance)
	d.RegisterResource(dispatch.Schema{Name: "address-balance-default"}, "chain://address/{address}/balance", s.resourceAddressBalanceDefault)

	d.RegisterResource(dispatch.Schema{Name: "address-metrics"}, "chain://{network}/address/{address}/metrics", s.resourceAddressMetrics)
	d.RegisterResource(dispatch.Schema{Name: "address-metrics-default"}, "chain://address/{address}/metrics", s.resourceAddressMetricsDefault)

	d.RegisterResource(dispatch.Schema{Name: "transaction"}, "chain://{network}/tx/{txHash}", s.resourceTransaction)
	d.RegisterResource(dispatch.Schema{Name: "transaction-default"}, "chain://tx/{txHash}", s.resourceTransactionDefault)

	d.RegisterResource(dispatch.Schema{Name: "network-status"}, "chain://{network}/status", s.resourceStatus)
	d.RegisterResource(dispatch.Schema{Name: "network-status-default"}, "chain://status", s.resourceStatusDefault)
}

func (s *Services) resourceInfo(ctx context.Context, _ string, params map[string]string) (interface{}, error) {
	return s.handleNetworkInfo(ctx, map[string]interface{}{"network": params["network"]})
}

func (s *Services) resourceInfoDefault(ctx context.Context, _ string, _ map[string]string) (interface{}, error) {
	return s.handleNetworkInfo(ctx, map[string]interface{}{})
}

func (s *Services) resourceLatestBlock(ctx context.Context, _ string, params map[string]string) (interface{}, error) {
	client, _, err := s.clientFor(ctx, params["network"])
	if err != nil {
		return nil, err
	}
	return client.LatestBlock(ctx, false)
}

func (s *Services) resourceLatestBlockDefault(ctx context.Context, uri string, _ map[string]string) (interface{}, error) {
	return s.resourceLatestBlock(ctx, uri, map[string]string{"network": ""})
}

func (s *Services) resourceAddressBalance(ctx context.Context, _ string, params map[string]string) (interface{}, error) {
	return s.handleBalance(ctx, map[string]interface{}{
		"network": params["network"],
		"address": params["address"],
	})
}

func (s *Services) resourceAddressBalanceDefault(ctx context.Context, _ string, params map[string]string) (interface{}, error) {
	return s.handleBalance(ctx, map[string]interface{}{
		"network": "",
		"address": params["address"],
	})
}

func (s *Services) resourceAddressMetrics(ctx context.Context, _ string, params map[string]string) (interface{}, error) {
	client, _, err := s.clientFor(ctx, params["network"])
	if err != nil {
		return nil, err
	}
	return historian.AddressMetrics(ctx, client, params["address"])
}

func (s *Services) resourceAddressMetricsDefault(ctx context.Context, _ string, params map[string]string) (interface{}, error) {
	client, _, err := s.clientFor(ctx, "")
	if err != nil {
		return nil, err
	}
	return historian.AddressMetrics(ctx, client, params["address"])
}

func (s *Services) resourceTransaction(ctx context.Context, _ string, params map[string]string) (interface{}, error) {
	client, _, err := s.clientFor(ctx, params["network"])
	if err != nil {
		return nil, err
	}
	tx, err := client.GetTx(ctx, params["txHash"])
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"tx":    tx,
		"class": historian.ClassifyTx(tx),
	}

	if head, err := client.BlockNumber(ctx); err == nil {
		result["confirmations"] = historian.Confirmations(head, tx.BlockNumber)
	}
	if sender, err := historian.AddressMetrics(ctx, client, tx.From); err == nil {
		result["senderAge"] = historian.Age(sender.AccountAgeSecs)
	}

	receipt, err := client.GetReceipt(ctx, params["txHash"])
	if err != nil {
		return result, nil
	}
	result["receipt"] = receipt
	result["gasEfficiency"] = historian.GasEfficiencyLabel(historian.GasEfficiency(receipt, tx.Gas))
	return result, nil
}

func (s *Services) resourceTransactionDefault(ctx context.Context, _ string, params map[string]string) (interface{}, error) {
	return s.resourceTransaction(ctx, "", map[string]string{"network": "", "txHash": params["txHash"]})
}

func (s *Services) resourceStatus(ctx context.Context, _ string, params map[string]string) (interface{}, error) {
	return s.handleNetworkStatus(ctx, map[string]interface{}{"network": params["network"]})
}

func (s *Services) resourceStatusDefault(ctx context.Context, _ string, _ map[string]string) (interface{}, error) {
	return s.handleNetworkStatus(ctx, map[string]interface{}{})
}
