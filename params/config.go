package params

import (
	"fmt"
	"strings"
)

// Network identifies a Sui network the client can talk to.
type Network string

const (
	Mainnet  Network = "mainnet"
	Testnet  Network = "testnet"
	Devnet   Network = "devnet"
	Localnet Network = "localnet"
)

// NetworkConfig is the set of endpoints associated with one network.
type NetworkConfig struct {
	Name      Network
	RPCURL    string
	FaucetURL string // empty when the network has no faucet
	Explorer  string
}

var (
	// TestnetConfig is the default network of the client.
	TestnetConfig = &NetworkConfig{
		Name:      Testnet,
		RPCURL:    "https://fullnode.testnet.sui.io:443",
		FaucetURL: "https://faucet.testnet.sui.io",
		Explorer:  "https://suiscan.xyz/testnet",
	}

	DevnetConfig = &NetworkConfig{
		Name:      Devnet,
		RPCURL:    "https://fullnode.devnet.sui.io:443",
		FaucetURL: "https://faucet.devnet.sui.io",
		Explorer:  "https://suiscan.xyz/devnet",
	}

	LocalnetConfig = &NetworkConfig{
		Name:      Localnet,
		RPCURL:    "http://127.0.0.1:9000",
		FaucetURL: "http://127.0.0.1:9123",
		Explorer:  "https://suiscan.xyz/localnet",
	}

	MainnetConfig = &NetworkConfig{
		Name:     Mainnet,
		RPCURL:   "https://fullnode.mainnet.sui.io:443",
		Explorer: "https://suiscan.xyz/mainnet",
	}
)

// LookupNetwork returns the built-in configuration of the named network.
func LookupNetwork(name string) (*NetworkConfig, error) {
	switch Network(strings.ToLower(strings.TrimSpace(name))) {
	case Testnet, "":
		return TestnetConfig, nil
	case Devnet:
		return DevnetConfig, nil
	case Localnet:
		return LocalnetConfig, nil
	case Mainnet:
		return MainnetConfig, nil
	}
	return nil, fmt.Errorf("unknown network %q", name)
}

// TxURL returns the explorer page of a transaction digest.
func (c *NetworkConfig) TxURL(digest string) string {
	return strings.TrimRight(c.Explorer, "/") + "/tx/" + digest
}

// AccountURL returns the explorer page of an address.
func (c *NetworkConfig) AccountURL(address string) string {
	return strings.TrimRight(c.Explorer, "/") + "/account/" + address
}
