package blog

// Level is the severity of a user-facing notification
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier surfaces transient messages to the user
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to a Notifier
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

type discardNotifier struct{}

func (discardNotifier) Notify(Level, string) {}

// User-facing messages
const (
	MsgNoProvider      = "No wallet found. Add a keystore account to connect your wallet"
	MsgConnectRejected = "Wallet connection rejected"
	MsgConnectFailed   = "Error connecting wallet. Please try again."
	MsgConnected       = "Wallet connected successfully"
	MsgDisconnected    = "Wallet disconnected"
	MsgLoadFailed      = "Error loading posts. Please try again."
	MsgConnectFirst    = "Please connect your wallet first"
	MsgRequiredFields  = "Please fill in all required fields"
	MsgUploading       = "Uploading image to IPFS..."
	MsgUploaded        = "Image uploaded successfully"
	MsgUploadFailed    = "Error uploading image. Post will be created without image."
	MsgCreatingPost    = "Creating post on blockchain..."
	MsgPostCreated     = "Post created successfully!"
	MsgPostRejected    = "Post creation rejected"
	MsgPostFailed      = "Error creating post. Please try again."
	MsgConnectToTip    = "Please connect your wallet to send a tip"
	MsgInvalidTip      = "Please enter a valid tip amount"
	MsgSendingTip      = "Sending tip..."
	MsgTipSent         = "Tip sent successfully!"
	MsgTipRejected     = "Tip transaction rejected"
	MsgTipFailed       = "Error sending tip. Please try again."
	MsgNetworkChanged  = "Network changed, reconnecting..."
	MsgAccountSwitched = "Switched to account %s"
)
