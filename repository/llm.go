package repository

import "context"

// ReplyGenerator produces the assistant's spoken reply text. Implementations
// are expected to degrade gracefully: when the provider is unreachable or
// misconfigured they return a static in-character string rather than an
// error, so the child always gets some reply.
type ReplyGenerator interface {
	// Reply answers the child's transcribed question.
	Reply(ctx context.Context, question string) (string, error)
	// FunFact produces a filler reply. When redirect is true the fact is
	// prefixed with an apology for not hearing the child.
	FunFact(ctx context.Context, redirect bool) (string, error)
}
