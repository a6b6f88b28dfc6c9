package chains

// SolanaChainID is the network identifier the swap coordinator uses for Solana
const SolanaChainID = 501

// ChainList contains the list of supported chain IDs
var ChainList = []int{
	SolanaChainID, // Solana
	1,             // Ethereum
	137,           // Polygon
	42161,         // Arbitrum
	8453,          // Base
}

// chainNames maps chain IDs to their names
var chainNames = map[int]string{
	SolanaChainID: "SOLANA",
	1:             "ETHEREUM",
	137:           "POLYGON",
	42161:         "ARBITRUM",
	8453:          "BASE",
}

// GetChainName returns the name of the chain for a given chain ID
func GetChainName(chainID int) string {
	name, exists := chainNames[chainID]
	if !exists {
		return ""
	}
	return name
}

// IsEVM reports whether the chain ID belongs to an EVM network
func IsEVM(chainID int) bool {
	_, exists := chainNames[chainID]
	return exists && chainID != SolanaChainID
}
