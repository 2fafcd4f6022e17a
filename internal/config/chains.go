package config

import (
	"regexp"
	"strconv"
)

type Chain string

const (
	Chain_Ethereum  Chain = "ethereum"
	Chain_Sepolia   Chain = "sepolia"
	Chain_Holesky   Chain = "holesky"
	Chain_Hoodi     Chain = "hoodi"
	Chain_Arbitrum  Chain = "arbitrum"
	Chain_Optimism  Chain = "optimism"
	Chain_Polygon   Chain = "polygon"
	Chain_Avalanche Chain = "avalanche"
	Chain_Base      Chain = "base"
	Chain_Bsc       Chain = "bsc"
	Chain_Crono     Chain = "crono"
	Chain_Fantom    Chain = "fantom"
	Chain_Sonic     Chain = "sonic"
	Chain_Gnosis    Chain = "gnosis"
	Chain_Moonbeam  Chain = "moonbeam"
	Chain_Celo      Chain = "celo"
	Chain_Scroll    Chain = "scroll"
	Chain_Linea     Chain = "linea"
	Chain_Blast     Chain = "blast"
	Chain_Berachain Chain = "berachain"
	Chain_Zksync    Chain = "zksync"
)

const DefaultChainId = 1

var Chains = []Chain{
	Chain_Ethereum,
	Chain_Sepolia,
	Chain_Holesky,
	Chain_Hoodi,
	Chain_Arbitrum,
	Chain_Optimism,
	Chain_Polygon,
	Chain_Avalanche,
	Chain_Base,
	Chain_Bsc,
	Chain_Crono,
	Chain_Fantom,
	Chain_Sonic,
	Chain_Gnosis,
	Chain_Moonbeam,
	Chain_Celo,
	Chain_Scroll,
	Chain_Linea,
	Chain_Blast,
	Chain_Berachain,
	Chain_Zksync,
}

var ChainIds = map[Chain]int{
	Chain_Ethereum:  1,
	Chain_Sepolia:   11155111,
	Chain_Holesky:   17000,
	Chain_Hoodi:     560048,
	Chain_Arbitrum:  42161,
	Chain_Optimism:  10,
	Chain_Polygon:   137,
	Chain_Avalanche: 43114,
	Chain_Base:      8453,
	Chain_Bsc:       56,
	Chain_Crono:     25,
	Chain_Fantom:    250,
	Chain_Sonic:     146,
	Chain_Gnosis:    100,
	Chain_Moonbeam:  1284,
	Chain_Celo:      42220,
	Chain_Scroll:    534352,
	Chain_Linea:     59144,
	Chain_Blast:     81457,
	Chain_Berachain: 80094,
	Chain_Zksync:    324,
}

var integerRegex = regexp.MustCompile(`^-?(0|[1-9]\d*)$`)

// ParseChainId maps a network name to its chain id. Integer strings are passed through
// and unknown names fall back to Ethereum mainnet.
func ParseChainId(network string) int {
	if integerRegex.MatchString(network) {
		if id, err := strconv.Atoi(network); err == nil {
			return id
		}
	}
	if id, ok := ChainIds[Chain(network)]; ok {
		return id
	}
	return DefaultChainId
}
