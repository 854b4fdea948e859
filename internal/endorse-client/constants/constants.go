package constants

const (
	AppName          = "endorse-client"
	SessionCacheFile = "session.json"

	SchemaV1      = 1
	FilePerm      = 0o600
	DirectoryPerm = 0o700

	// DefaultContractAddress is the endorsement contract every session binds to.
	DefaultContractAddress = "0xAa8155FE44F791EAFd06933cA76119D9d62E9DE0"

	// BrowserFallbackURL is offered when the host environment cannot reach a wallet.
	BrowserFallbackURL = "https://nwr.vercel.app"

	// AAD for the session cache payload (must match on decrypt).
	SessionCacheAAD = "endorse-client:session:v1"

	PolygonChainID = 137
	BSCChainID     = 56
)

// User-facing action results. The view renders these verbatim.
const (
	MsgUserEndorsed      = "✅ User level endorsed!"
	MsgUserEndorseFailed = "❌ Error endorsing user level"
	MsgDaoEndorsed       = "✅ DAO level endorsed!"
	MsgDaoEndorseFailed  = "❌ Error endorsing DAO level"
	MsgStatsFailed       = "❌ Could not fetch stats"

	MsgConnectFailed      = "❌ Wallet connection failed"
	MsgNoProvider         = "❌ No wallet provider found"
	MsgEnvironmentBlocked = "🚫 Telegram WebView cannot connect wallets directly. Please open this dApp in your browser instead."
	MsgBusy               = "⏳ Another action is still pending"
	MsgNoSession          = "🔌 Connect a wallet first"
	MsgInvalidRequest     = "⚠️ Enter an address and pick a level"
	MsgHandoff            = "↗️ Continue in your wallet app"
)
