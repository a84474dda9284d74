package avatar

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Result is the outcome of a handle lookup. Both fields are nil when nothing
// could be resolved; that is not an error.
type Result struct {
	AvatarURL   *string `json:"avatarUrl"`
	DisplayName *string `json:"displayName"`
}

// Found reports whether an avatar was resolved.
func (r Result) Found() bool {
	return r.AvatarURL != nil && *r.AvatarURL != ""
}

// Options tunes a Resolver.
type Options struct {
	GuildID  string
	Limit    int
	Timeout  time.Duration
	Strict   bool
	Cache    Cache
	CacheTTL time.Duration
}

// Resolver maps community handles to avatar URLs.
type Resolver struct {
	dir  Directory
	opts Options
	log  *zap.Logger
}

// NewResolver returns a resolver over dir. A nil dir or empty guild id puts the
// resolver in degraded mode where every lookup returns an empty Result.
func NewResolver(dir Directory, opts Options, log *zap.Logger) *Resolver {
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{dir: dir, opts: opts, log: log}
}

// Configured reports whether lookups reach the directory at all.
func (r *Resolver) Configured() bool {
	return r.dir != nil && r.opts.GuildID != ""
}

// Resolve looks handle up in the directory. It never fails: any error is
// logged and reported as an empty Result.
func (r *Resolver) Resolve(ctx context.Context, handle string) Result {
	handle = strings.TrimSpace(handle)
	if handle == "" || !r.Configured() {
		return Result{}
	}

	if r.opts.Cache != nil {
		res, ok, err := r.opts.Cache.Get(ctx, handle)
		if err != nil {
			r.log.Warn("avatar cache read failed", zap.String("handle", handle), zap.Error(err))
		} else if ok {
			return res
		}
	}

	res, err := r.lookup(ctx, handle)
	if err != nil {
		r.log.Warn("avatar lookup failed", zap.String("handle", handle), zap.Error(err))
		return Result{}
	}

	if r.opts.Cache != nil {
		if err := r.opts.Cache.Set(ctx, handle, res, r.opts.CacheTTL); err != nil {
			r.log.Warn("avatar cache write failed", zap.String("handle", handle), zap.Error(err))
		}
	}
	return res
}

func (r *Resolver) lookup(ctx context.Context, handle string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	members, err := r.dir.SearchMembers(ctx, r.opts.GuildID, handle, r.opts.Limit)
	if err != nil {
		return Result{}, err
	}
	m, ok := pickMember(members, handle, r.opts.Strict)
	if !ok {
		r.log.Debug("no directory match", zap.String("handle", handle), zap.Int("candidates", len(members)))
		return Result{}, nil
	}
	u := AvatarURL(r.opts.GuildID, m)
	name := DisplayName(m)
	return Result{AvatarURL: &u, DisplayName: &name}, nil
}

// pickMember returns the first member whose username, nick or global name
// equals handle ignoring case. Without an exact match the first candidate is
// used unless strict is set.
func pickMember(members []Member, handle string, strict bool) (Member, bool) {
	if len(members) == 0 {
		return Member{}, false
	}
	for _, m := range members {
		if matches(m, handle) {
			return m, true
		}
	}
	if strict {
		return Member{}, false
	}
	return members[0], true
}

func matches(m Member, handle string) bool {
	if strings.EqualFold(m.User.Username, handle) {
		return true
	}
	if m.Nick != nil && strings.EqualFold(*m.Nick, handle) {
		return true
	}
	return m.User.GlobalName != nil && strings.EqualFold(*m.User.GlobalName, handle)
}
