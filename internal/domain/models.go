package domain

// Time layouts used by the persisted snapshot. Feed posts carry a full
// date, chat messages only the time of day.
const (
	PostTimeLayout = "2006-01-02 15:04"
	ChatTimeLayout = "15:04"
)

// AdminName is the fixed display name for admin-authored content.
const AdminName = "admin"

// FeedKind selects one of the two post collections.
type FeedKind string

const (
	FeedAdmin FeedKind = "admin"
	FeedFan   FeedKind = "fan"
)

// Valid reports whether k names an existing feed.
func (k FeedKind) Valid() bool {
	return k == FeedAdmin || k == FeedFan
}

// Profile is one admin account. The username is the key of
// Snapshot.Profiles, which doubles as the admin registry.
type Profile struct {
	Bio        string `json:"bio"`
	ProfileURL string `json:"profile_url"`
	Password   string `json:"password,omitempty"` // stored in plaintext, accepted for this scope
}

// Comment belongs to exactly one post and has no independent lifecycle.
type Comment struct {
	Nickname string `json:"nickname"`
	Body     string `json:"body"`
}

// Post is one entry of the admin or fan feed. Posts are append-only:
// after creation only Likes and Comments change.
type Post struct {
	ID       int64      `json:"id"`
	Writer   string     `json:"writer"`
	Content  string     `json:"content"`
	ImageURL string     `json:"image_url,omitempty"`
	Time     string     `json:"time"` // PostTimeLayout
	Pinned   bool       `json:"pinned,omitempty"`
	Likes    int        `json:"likes"`
	Comments []*Comment `json:"comments"`
}

// ChatMessage is one entry of the rolling chat log.
type ChatMessage struct {
	Nickname string `json:"nickname"`
	Message  string `json:"message"`
	Time     string `json:"time"` // ChatTimeLayout
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

// ChatTheme is the singleton display configuration, overwritten wholesale
// by admin action.
type ChatTheme struct {
	BGColor     string `json:"bg_color"`
	TextColor   string `json:"text_color"`
	ChannelName string `json:"channel_name"`
}

// Snapshot is the complete persisted state of the channel. Every mutation
// rewrites the whole snapshot.
type Snapshot struct {
	Profiles  map[string]*Profile `json:"profile"`
	FeedAdmin []*Post             `json:"feed_admin"`
	FeedFan   []*Post             `json:"feed_fan"`
	Chat      []*ChatMessage      `json:"chat"`
	ChatTheme ChatTheme           `json:"chat_theme"`
}

// DefaultSnapshot returns the state a fresh channel starts from: one admin
// profile with the default credential, empty feeds and chat, white/black theme.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Profiles: map[string]*Profile{
			AdminName: {
				Bio:        "안녕하세요! 관리자 프로필입니다.",
				ProfileURL: "https://via.placeholder.com/150",
				Password:   "1234",
			},
		},
		FeedAdmin: []*Post{},
		FeedFan:   []*Post{},
		Chat:      []*ChatMessage{},
		ChatTheme: ChatTheme{
			BGColor:     "#FFFFFF",
			TextColor:   "#000000",
			ChannelName: "My Channel",
		},
	}
}

// Feed returns a pointer to the posts of the given feed so callers can
// append in place. Returns nil for an unknown kind.
func (s *Snapshot) Feed(kind FeedKind) *[]*Post {
	switch kind {
	case FeedAdmin:
		return &s.FeedAdmin
	case FeedFan:
		return &s.FeedFan
	}
	return nil
}

// FindPost looks a post up by id within one feed.
func (s *Snapshot) FindPost(kind FeedKind, id int64) *Post {
	feed := s.Feed(kind)
	if feed == nil {
		return nil
	}
	for _, p := range *feed {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// NextPostID returns the id the next post appended to the feed gets.
// Ids are monotonic per feed, starting at 1.
func (s *Snapshot) NextPostID(kind FeedKind) int64 {
	feed := s.Feed(kind)
	if feed == nil {
		return 1
	}
	var max int64
	for _, p := range *feed {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// Normalize repairs a snapshot after decoding: nil collections become
// empty ones and the default admin profile is restored if the registry
// came back empty. The admin credential must survive every load.
func (s *Snapshot) Normalize() {
	def := DefaultSnapshot()
	if len(s.Profiles) == 0 {
		s.Profiles = def.Profiles
	}
	if s.FeedAdmin == nil {
		s.FeedAdmin = []*Post{}
	}
	if s.FeedFan == nil {
		s.FeedFan = []*Post{}
	}
	if s.Chat == nil {
		s.Chat = []*ChatMessage{}
	}
	if s.ChatTheme == (ChatTheme{}) {
		s.ChatTheme = def.ChatTheme
	}
	for _, feed := range [][]*Post{s.FeedAdmin, s.FeedFan} {
		for _, p := range feed {
			if p.Comments == nil {
				p.Comments = []*Comment{}
			}
		}
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Profiles:  make(map[string]*Profile, len(s.Profiles)),
		FeedAdmin: clonePosts(s.FeedAdmin),
		FeedFan:   clonePosts(s.FeedFan),
		Chat:      make([]*ChatMessage, 0, len(s.Chat)),
		ChatTheme: s.ChatTheme,
	}
	for name, p := range s.Profiles {
		cp := *p
		out.Profiles[name] = &cp
	}
	for _, m := range s.Chat {
		cm := *m
		out.Chat = append(out.Chat, &cm)
	}
	return out
}

func clonePosts(posts []*Post) []*Post {
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		cp := *p
		cp.Comments = make([]*Comment, 0, len(p.Comments))
		for _, c := range p.Comments {
			cc := *c
			cp.Comments = append(cp.Comments, &cc)
		}
		out = append(out, &cp)
	}
	return out
}
