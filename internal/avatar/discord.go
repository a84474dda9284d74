package avatar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/youruser/cardapp/internal/util"
)

const cdnBase = "https://cdn.discordapp.com"

// ErrNoCredentials is returned by a directory client built without a token.
var ErrNoCredentials = errors.New("directory credentials not configured")

// User is the account part of a guild member.
type User struct {
	ID         snowflake.ID `json:"id"`
	Username   string       `json:"username"`
	GlobalName *string      `json:"global_name"`
	Avatar     *string      `json:"avatar"`
}

// Member is one guild member returned by a directory search.
type Member struct {
	Nick   *string `json:"nick"`
	Avatar *string `json:"avatar"`
	User   User    `json:"user"`
}

// Directory searches the members of a community.
type Directory interface {
	SearchMembers(ctx context.Context, guildID, query string, limit int) ([]Member, error)
}

// DiscordClient talks to the Discord REST API with a bot token.
type DiscordClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewDiscordClient returns a client for baseURL. A nil httpClient uses util.DefaultClient.
func NewDiscordClient(baseURL, token string, httpClient *http.Client) *DiscordClient {
	return &DiscordClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// SearchMembers runs the guild member search for query.
func (c *DiscordClient) SearchMembers(ctx context.Context, guildID, query string, limit int) ([]Member, error) {
	if c.token == "" {
		return nil, ErrNoCredentials
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/guilds/%s/members/search?%s", c.baseURL, url.PathEscape(guildID), q.Encode())

	body, err := util.GetBytes(ctx, c.http, endpoint, http.Header{
		"Authorization": {"Bot " + c.token},
		"Accept":        {"application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}
	var members []Member
	if err := json.Unmarshal(body, &members); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}
	return members, nil
}

// AvatarURL picks the member's image: guild avatar, then account avatar, then
// the default avatar derived from the account id.
func AvatarURL(guildID string, m Member) string {
	id := m.User.ID
	if m.Avatar != nil && *m.Avatar != "" {
		return fmt.Sprintf("%s/guilds/%s/users/%s/avatars/%s.png?size=256", cdnBase, guildID, id, *m.Avatar)
	}
	if m.User.Avatar != nil && *m.User.Avatar != "" {
		return fmt.Sprintf("%s/avatars/%s/%s.png?size=256", cdnBase, id, *m.User.Avatar)
	}
	return fmt.Sprintf("%s/embed/avatars/%d.png", cdnBase, DefaultAvatarIndex(id))
}

// DefaultAvatarIndex maps an account id to one of the six default avatars.
func DefaultAvatarIndex(id snowflake.ID) int {
	return int((uint64(id) >> 22) % 6)
}

// DisplayName returns nick, then global name, then username.
func DisplayName(m Member) string {
	if m.Nick != nil && *m.Nick != "" {
		return *m.Nick
	}
	if m.User.GlobalName != nil && *m.User.GlobalName != "" {
		return *m.User.GlobalName
	}
	return m.User.Username
}
