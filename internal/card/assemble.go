package card

import (
	"context"
	"strings"

	"github.com/youruser/cardapp/internal/avatar"
	"golang.org/x/sync/errgroup"
)

// AvatarResolver looks up a handle. Implementations never fail; an empty
// result means "use the fallback".
type AvatarResolver interface {
	Resolve(ctx context.Context, handle string) avatar.Result
}

// FallbackGenerator produces a deterministic placeholder URL for a seed.
type FallbackGenerator interface {
	URL(seed string) string
}

// Assembler turns a Request into Data.
type Assembler struct {
	resolver AvatarResolver
	fallback FallbackGenerator
}

func NewAssembler(resolver AvatarResolver, fallback FallbackGenerator) *Assembler {
	return &Assembler{resolver: resolver, fallback: fallback}
}

// Assemble validates req, resolves both avatars concurrently and returns the
// finished card data. Lookup problems never surface here: each party falls
// back to its generated avatar. The only error besides validation is ctx
// being done, in which case no Data is built.
func (a *Assembler) Assemble(ctx context.Context, req Request) (Data, error) {
	if err := req.Validate(); err != nil {
		return Data{}, err
	}

	senderName := strings.TrimSpace(req.SenderName)
	receiverName := strings.TrimSpace(req.ReceiverName)
	senderHandle := strings.TrimSpace(req.SenderHandle)
	receiverHandle := strings.TrimSpace(req.ReceiverHandle)

	var sender, receiver AvatarResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sender = a.resolve(gctx, senderHandle, senderName)
		return ctx.Err()
	})
	g.Go(func() error {
		receiver = a.resolve(gctx, receiverHandle, receiverName)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return Data{}, err
	}

	return Data{
		SenderName:             Capitalize(senderName),
		ReceiverName:           Capitalize(receiverName),
		SenderHandle:           senderHandle,
		ReceiverHandle:         receiverHandle,
		Message:                strings.TrimSpace(req.Message),
		SenderAvatarURL:        sender.ImageURL,
		ReceiverAvatarURL:      receiver.ImageURL,
		SenderAvatarFallback:   sender.IsFallback,
		ReceiverAvatarFallback: receiver.IsFallback,
		RawReceiverName:        receiverName,
	}, nil
}

func (a *Assembler) resolve(ctx context.Context, handle, name string) AvatarResult {
	if handle != "" && a.resolver != nil {
		if res := a.resolver.Resolve(ctx, handle); res.Found() {
			return AvatarResult{ImageURL: *res.AvatarURL}
		}
	}
	return AvatarResult{ImageURL: a.fallback.URL(avatar.Seed(handle, name)), IsFallback: true}
}
