package identity

import "context"

// Mailer enqueues account emails. Dispatch is fire-and-forget after the
// owning transaction commits; delivery guarantees are the job runner's
// concern.
type Mailer interface {
	EnqueueConfirmation(ctx context.Context, email, token string)
	EnqueueInvitation(ctx context.Context, email, token string)
	EnqueuePasswordReset(ctx context.Context, email, token string)
}
