package openpayments

// Wire types for the Open Payments API. Grant and continuation shapes follow
// GNAP: snake_case token fields, camelCase resource fields.

// WalletAddress is the resolved metadata for a payment account.
type WalletAddress struct {
	ID             string `json:"id"`
	PublicName     string `json:"publicName,omitempty"`
	AuthServer     string `json:"authServer"`
	ResourceServer string `json:"resourceServer"`
	AssetCode      string `json:"assetCode"`
	AssetScale     int    `json:"assetScale"`
}

// Amount is a value in minor units of an asset.
type Amount struct {
	Value      string `json:"value"`
	AssetCode  string `json:"assetCode"`
	AssetScale int    `json:"assetScale"`
}

// Access resource types.
const (
	TypeIncomingPayment = "incoming-payment"
	TypeQuote           = "quote"
	TypeOutgoingPayment = "outgoing-payment"
)

// AccessItem scopes a grant to one resource type and a set of actions.
type AccessItem struct {
	Type       string        `json:"type"`
	Actions    []string      `json:"actions"`
	Identifier string        `json:"identifier,omitempty"`
	Limits     *AccessLimits `json:"limits,omitempty"`
}

// AccessLimits caps what an outgoing-payment grant may spend.
type AccessLimits struct {
	DebitAmount *Amount `json:"debitAmount,omitempty"`
}

// GrantRequest is the body posted to an authorization server.
type GrantRequest struct {
	AccessToken AccessTokenRequest `json:"access_token"`
	Client      string             `json:"client,omitempty"`
	Interact    *InteractRequest   `json:"interact,omitempty"`
}

// AccessTokenRequest lists the access a grant should carry.
type AccessTokenRequest struct {
	Access []AccessItem `json:"access"`
}

// InteractRequest asks for redirect-based user interaction on a grant.
type InteractRequest struct {
	Start  []string        `json:"start"`
	Finish *InteractFinish `json:"finish,omitempty"`
}

// InteractFinish tells the authorization server where to send the user after
// interaction, and the nonce the caller will use to correlate the callback.
type InteractFinish struct {
	Method string `json:"method"`
	URI    string `json:"uri"`
	Nonce  string `json:"nonce"`
}

// AccessToken is an issued capability token.
type AccessToken struct {
	Value     string `json:"value"`
	Manage    string `json:"manage,omitempty"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}

// Continuation is the handle for resuming a pending grant: the continue URI
// plus its own access token, and an optional wait hint in seconds.
type Continuation struct {
	URI         string      `json:"uri"`
	AccessToken AccessToken `json:"access_token"`
	Wait        int         `json:"wait,omitempty"`
}

// Interact carries the redirect the end user must visit to act on a grant.
type Interact struct {
	Redirect string `json:"redirect"`
	Finish   string `json:"finish,omitempty"`
}

// Grant is the authorization server's response to a grant request or a
// continuation. A non-interactive grant arrives finalized; an interactive one
// arrives pending, with Interact and Continue set and no usable access token.
type Grant struct {
	AccessToken *AccessToken  `json:"access_token,omitempty"`
	Continue    *Continuation `json:"continue,omitempty"`
	Interact    *Interact     `json:"interact,omitempty"`
}

// Finalized reports whether the grant carries a usable access token.
func (g *Grant) Finalized() bool {
	return g != nil && g.AccessToken != nil && g.AccessToken.Value != ""
}

// Interactive reports whether the grant requires user interaction.
func (g *Grant) Interactive() bool {
	return g != nil && g.Interact != nil && g.Interact.Redirect != ""
}

// IncomingPaymentRequest creates the receiving side of a transfer.
type IncomingPaymentRequest struct {
	WalletAddress  string         `json:"walletAddress"`
	IncomingAmount Amount         `json:"incomingAmount"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// IncomingPayment is where funds will be received.
type IncomingPayment struct {
	ID             string  `json:"id"`
	WalletAddress  string  `json:"walletAddress"`
	IncomingAmount Amount  `json:"incomingAmount"`
	ReceivedAmount *Amount `json:"receivedAmount,omitempty"`
	Completed      bool    `json:"completed"`
	CreatedAt      string  `json:"createdAt,omitempty"`
	ExpiresAt      string  `json:"expiresAt,omitempty"`
}

// QuoteRequest prices a payment into a receiver (an incoming payment id).
type QuoteRequest struct {
	WalletAddress string `json:"walletAddress"`
	Receiver      string `json:"receiver"`
	Method        string `json:"method"`
}

// Quote describes what funding a given incoming payment will cost the sender.
type Quote struct {
	ID            string `json:"id"`
	WalletAddress string `json:"walletAddress"`
	Receiver      string `json:"receiver"`
	DebitAmount   Amount `json:"debitAmount"`
	ReceiveAmount Amount `json:"receiveAmount"`
	CreatedAt     string `json:"createdAt,omitempty"`
	ExpiresAt     string `json:"expiresAt,omitempty"`
}

// OutgoingPaymentRequest executes a quoted transfer.
type OutgoingPaymentRequest struct {
	WalletAddress string         `json:"walletAddress"`
	QuoteID       string         `json:"quoteId"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// OutgoingPayment is the record of funds leaving the sending wallet.
type OutgoingPayment struct {
	ID            string  `json:"id"`
	WalletAddress string  `json:"walletAddress"`
	QuoteID       string  `json:"quoteId,omitempty"`
	Receiver      string  `json:"receiver,omitempty"`
	DebitAmount   *Amount `json:"debitAmount,omitempty"`
	SentAmount    *Amount `json:"sentAmount,omitempty"`
	Failed        bool    `json:"failed,omitempty"`
	CreatedAt     string  `json:"createdAt,omitempty"`
}
