package audit

import (
	"time"

	"github.com/google/uuid"

	id "selfid/pkg/domain"
)

// Action identifies the registry mutation an event records.
type Action string

const (
	ActionIdentityRegistered Action = "identity_registered"
	ActionDIDUpdated         Action = "did_updated"
	ActionCredentialLinked   Action = "credential_linked"
	ActionCredentialUnlinked Action = "credential_unlinked"
	ActionRegistryPaused     Action = "registry_paused"
	ActionRegistryResumed    Action = "registry_resumed"
	ActionAdminTransferred   Action = "admin_transferred"
)

// Event is emitted from domain logic after every successful mutation. Keep it
// transport-agnostic so sinks (memory, Kafka) can fan out.
type Event struct {
	ID         uuid.UUID    `json:"id"`
	Action     Action       `json:"action"`
	Actor      id.Principal `json:"actor"`
	DID        string       `json:"did,omitempty"`
	Credential string       `json:"credential,omitempty"`
	Sequence   uint64       `json:"sequence,omitempty"`
	RequestID  string       `json:"request_id,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}
