package types

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/google/uuid"
)

type (
	RequestID      string
	JobID          string
	ScanID         string
	NotificationID string

	// CredentialRef is a one-way reference to a Credential. It can be stored and
	// used as a lookup key without exposing the credential itself.
	CredentialRef string

	GoogleProjectID string
	BQDatasetID     string
	BQTableID       string
)

func NewRequestID() RequestID           { return RequestID(uuid.NewString()) }
func NewJobID() JobID                   { return JobID(uuid.NewString()) }
func NewScanID() ScanID                 { return ScanID(uuid.NewString()) }
func NewNotificationID() NotificationID { return NotificationID(uuid.NewString()) }

func (x JobID) String() string           { return string(x) }
func (x ScanID) String() string          { return string(x) }
func (x NotificationID) String() string  { return string(x) }
func (x CredentialRef) String() string   { return string(x) }
func (x GoogleProjectID) String() string { return string(x) }
func (x BQDatasetID) String() string     { return string(x) }
func (x BQTableID) String() string       { return string(x) }

const maskedValue = "***********"

// Credential is an opaque secret used only to authenticate the clone transport.
// Formatting and logging always yield a masked value; the raw secret is only
// reachable through an explicit string conversion.
type Credential string

func (x Credential) LogValue() slog.Value { return slog.StringValue(maskedValue) }
func (x Credential) String() string       { return maskedValue }
func (x Credential) GoString() string     { return maskedValue }

func (x Credential) MarshalJSON() ([]byte, error) {
	return []byte(`"` + maskedValue + `"`), nil
}

// Ref returns the hex encoded SHA-256 digest of the credential.
func (x Credential) Ref() CredentialRef {
	sum := sha256.Sum256([]byte(x))
	return CredentialRef(hex.EncodeToString(sum[:]))
}

// GitHubToken is a token used to clone repositories triggered by GitHub webhooks.
type GitHubToken string

func (x GitHubToken) LogValue() slog.Value { return slog.StringValue(maskedValue) }
func (x GitHubToken) String() string       { return maskedValue }

func (x GitHubToken) Credential() Credential { return Credential(x) }

type GitHubWebhookSecret string

func (x GitHubWebhookSecret) LogValue() slog.Value { return slog.StringValue(maskedValue) }
func (x GitHubWebhookSecret) String() string       { return maskedValue }
