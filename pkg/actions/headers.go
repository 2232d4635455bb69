package actions

import (
	"net/http"
	"strings"
)

// Version is the action protocol version advertised by this service
const Version = "1"

// Header names of the action protocol
const (
	HeaderActionVersion = "X-Action-Version"
	HeaderBlockchainIDs = "X-Blockchain-Ids"
)

// blockchainIDs maps cluster names onto CAIP-2 chain ids
var blockchainIDs = map[string]string{
	"mainnet":      "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp",
	"mainnet-beta": "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp",
	"devnet":       "solana:EtWTRABZaYq6iMfeYKouRu166VU2xqa1",
	"testnet":      "solana:4uhcVJyU9pJkvQyS88uRDiswHXSCkY3z",
}

// BlockchainID resolves a cluster name (or an already qualified CAIP-2 id)
func BlockchainID(network string) string {
	network = strings.TrimSpace(network)
	if id, ok := blockchainIDs[strings.ToLower(network)]; ok {
		return id
	}
	if strings.HasPrefix(network, "solana:") {
		return network
	}
	return blockchainIDs["devnet"]
}

// Headers builds the CORS + protocol header set sent on every action response
func Headers(network, version string) http.Header {
	h := http.Header{}
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
	h.Set("Access-Control-Allow-Headers",
		"Content-Type, Authorization, Content-Encoding, Accept-Encoding, X-Accept-Action-Version, X-Accept-Blockchain-Ids")
	h.Set("Access-Control-Expose-Headers", HeaderActionVersion+", "+HeaderBlockchainIDs)
	h.Set("Content-Type", "application/json")
	h.Set(HeaderActionVersion, version)
	h.Set(HeaderBlockchainIDs, BlockchainID(network))
	return h
}

// Apply copies h into the response headers
func Apply(w http.ResponseWriter, h http.Header) {
	for k, vs := range h {
		w.Header()[k] = append([]string(nil), vs...)
	}
}
