package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Ledger    LedgerConfig
	Assistant AssistantConfig
	IPFS      IPFSConfig
	Server    ServerConfig
	Sync      SyncConfig
}

// LedgerConfig holds the fixed identifiers of the deployed on-chain protocol.
// The fallbacks match the testnet deployment the frontend is built against.
type LedgerConfig struct {
	RPCURL         string
	PackageID      string
	ModuleName     string
	GlobalConfigID string
	AdminCapID     string
	ClockID        string
}

// AssistantConfig holds LLM API settings
type AssistantConfig struct {
	APIKey string
	Model  string
}

// IPFSConfig holds content-addressed storage gateway settings
type IPFSConfig struct {
	GatewayURL   string
	FetchTimeout time.Duration
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port         string
	JWTSecret    string
	AdminAddress string
	FrontendURL  string
}

// SyncConfig holds per-resource polling intervals and view-model bounds
type SyncConfig struct {
	AuctionInterval  time.Duration
	CharityInterval  time.Duration
	ProposalInterval time.Duration
	BidHistoryLimit  int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Ledger: LedgerConfig{
			RPCURL:         getEnv("LEDGER_RPC_URL", "https://fullnode.testnet.sui.io:443"),
			PackageID:      getEnv("PACKAGE_ID", "0x1866265bdabf20bfab7f28f48f2c475ad4aba0f4eec379dc0f167192ca36dd5c"),
			ModuleName:     getEnv("MODULE_NAME", "charity_impact_protocol"),
			GlobalConfigID: getEnv("GLOBAL_CONFIG_ID", "0xac6ae706beabc8a79e1c5d1cdf536749f5a6452c4df6ddb9e600c1378578b95d"),
			AdminCapID:     getEnv("ADMIN_CAP_ID", "0x0024ff7e512ffea1b6ba88c19f601148b8c86f22adc88be9fbb0bcf9f9f8b864"),
			ClockID:        getEnv("CLOCK_ID", "0x6"),
		},
		Assistant: AssistantConfig{
			APIKey: getEnv("GROQ_API_KEY", ""),
			Model:  getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		},
		IPFS: IPFSConfig{
			GatewayURL:   getEnv("IPFS_GATEWAY_URL", "https://gateway.pinata.cloud/ipfs/"),
			FetchTimeout: getDuration("IPFS_FETCH_TIMEOUT", 20*time.Second),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			JWTSecret:    getEnv("JWT_SECRET", ""),
			AdminAddress: getEnv("ADMIN_WALLET_ADDRESS", ""),
			FrontendURL:  getEnv("FRONTEND_URL", ""),
		},
		Sync: SyncConfig{
			AuctionInterval:  getDuration("SYNC_AUCTION_INTERVAL", 15*time.Second),
			CharityInterval:  getDuration("SYNC_CHARITY_INTERVAL", 10*time.Second),
			ProposalInterval: getDuration("SYNC_PROPOSAL_INTERVAL", 10*time.Second),
			BidHistoryLimit:  getInt("BID_HISTORY_LIMIT", 20),
		},
	}

	// The assistant credential is the one intentionally fatal startup error:
	// running without it would leave the chat and audit surfaces silently broken.
	if config.Assistant.APIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is required")
	}

	return config, nil
}

// EventType returns the fully qualified event type for an event struct name,
// e.g. EventType("BidPlaced") -> "0x..::charity_impact_protocol::BidPlaced".
func (c *LedgerConfig) EventType(name string) string {
	return fmt.Sprintf("%s::%s::%s", c.PackageID, c.ModuleName, name)
}

// Target returns the fully qualified move-call target for a function name.
func (c *LedgerConfig) Target(fn string) string {
	return fmt.Sprintf("%s::%s::%s", c.PackageID, c.ModuleName, fn)
}

// StructType returns the fully qualified struct type for an object type name.
func (c *LedgerConfig) StructType(name string) string {
	return fmt.Sprintf("%s::%s::%s", c.PackageID, c.ModuleName, name)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration gets an environment variable parsed as a duration
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// getInt gets an environment variable parsed as an integer
func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
