package sqlite

import (
	"context"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

// Store persists the snapshot as a SQLite file. Entities map to the
// relations profile, feed_admin, feed_fan, feed_comment, chat and
// chat_theme; Save rewrites all of them in one transaction so the file
// always holds a complete snapshot.
type Store struct {
	db *gorm.DB
}

// Row types. Post rows serve both feed tables, selected via Table().

type profileRow struct {
	Username   string `gorm:"primaryKey;column:username"`
	Bio        string `gorm:"column:bio;type:text"`
	ProfileURL string `gorm:"column:profile_url"`
	Password   string `gorm:"column:password"`
}

func (profileRow) TableName() string { return "profile" }

type postRow struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Writer   string `gorm:"column:writer"`
	Content  string `gorm:"column:content;type:text"`
	ImageURL string `gorm:"column:image_url"`
	Time     string `gorm:"column:time"`
	Pinned   bool   `gorm:"column:pinned"`
	Likes    int    `gorm:"column:likes"`
}

type commentRow struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Feed     string `gorm:"column:feed;index"`
	PostID   int64  `gorm:"column:post_id;index"`
	Nickname string `gorm:"column:nickname"`
	Body     string `gorm:"column:body;type:text"`
}

func (commentRow) TableName() string { return "feed_comment" }

type chatRow struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Nickname string `gorm:"column:nickname"`
	Message  string `gorm:"column:message;type:text"`
	Time     string `gorm:"column:time"`
	IsAdmin  bool   `gorm:"column:is_admin"`
}

func (chatRow) TableName() string { return "chat" }

type themeRow struct {
	ID          int64  `gorm:"primaryKey"`
	BGColor     string `gorm:"column:bg_color"`
	TextColor   string `gorm:"column:text_color"`
	ChannelName string `gorm:"column:channel_name"`
}

func (themeRow) TableName() string { return "chat_theme" }

// New opens (or creates) the SQLite file at path and migrates the schema.
// A file that cannot be opened or migrated is treated like a corrupt
// snapshot: it is removed and recreated from scratch.
func New(path string) (*Store, error) {
	db, err := open(path)
	if err != nil {
		log.Printf("sqlite snapshot %s unusable (%v), reinitializing", path, err)
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, fmt.Errorf("%w: remove %s: %v", domain.ErrStorage, path, rmErr)
		}
		if db, err = open(path); err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStorage, path, err)
		}
	}
	return &Store{db: db}, nil
}

func open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&profileRow{}, &commentRow{}, &chatRow{}, &themeRow{}); err != nil {
		return nil, err
	}
	for _, table := range []string{"feed_admin", "feed_fan"} {
		if err := db.Table(table).AutoMigrate(&postRow{}); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Load reads the whole snapshot. An empty database (no profile rows)
// counts as absent and is seeded with the default snapshot.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	var profiles []profileRow
	if err := s.db.WithContext(ctx).Order("username").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("%w: load profiles: %v", domain.ErrStorage, err)
	}
	if len(profiles) == 0 {
		snap := domain.DefaultSnapshot()
		if err := s.Save(ctx, snap); err != nil {
			return nil, err
		}
		return snap, nil
	}

	snap := &domain.Snapshot{
		Profiles:  make(map[string]*domain.Profile, len(profiles)),
		FeedAdmin: []*domain.Post{},
		FeedFan:   []*domain.Post{},
		Chat:      []*domain.ChatMessage{},
	}
	for _, r := range profiles {
		snap.Profiles[r.Username] = &domain.Profile{
			Bio:        r.Bio,
			ProfileURL: r.ProfileURL,
			Password:   r.Password,
		}
	}

	var comments []commentRow
	if err := s.db.WithContext(ctx).Order("id").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("%w: load comments: %v", domain.ErrStorage, err)
	}
	byPost := make(map[string][]*domain.Comment)
	for _, r := range comments {
		key := fmt.Sprintf("%s/%d", r.Feed, r.PostID)
		byPost[key] = append(byPost[key], &domain.Comment{Nickname: r.Nickname, Body: r.Body})
	}

	for _, kind := range []domain.FeedKind{domain.FeedAdmin, domain.FeedFan} {
		var rows []postRow
		if err := s.db.WithContext(ctx).Table(feedTable(kind)).Order("id").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("%w: load %s feed: %v", domain.ErrStorage, kind, err)
		}
		feed := snap.Feed(kind)
		for _, r := range rows {
			post := &domain.Post{
				ID:       r.ID,
				Writer:   r.Writer,
				Content:  r.Content,
				ImageURL: r.ImageURL,
				Time:     r.Time,
				Pinned:   r.Pinned,
				Likes:    r.Likes,
				Comments: byPost[fmt.Sprintf("%s/%d", kind, r.ID)],
			}
			if post.Comments == nil {
				post.Comments = []*domain.Comment{}
			}
			*feed = append(*feed, post)
		}
	}

	var chat []chatRow
	if err := s.db.WithContext(ctx).Order("id").Find(&chat).Error; err != nil {
		return nil, fmt.Errorf("%w: load chat: %v", domain.ErrStorage, err)
	}
	for _, r := range chat {
		snap.Chat = append(snap.Chat, &domain.ChatMessage{
			Nickname: r.Nickname,
			Message:  r.Message,
			Time:     r.Time,
			IsAdmin:  r.IsAdmin,
		})
	}

	var theme themeRow
	if err := s.db.WithContext(ctx).First(&theme).Error; err == nil {
		snap.ChatTheme = domain.ChatTheme{
			BGColor:     theme.BGColor,
			TextColor:   theme.TextColor,
			ChannelName: theme.ChannelName,
		}
	}

	snap.Normalize()
	return snap, nil
}

// Save replaces every relation with the rows of snap inside one
// transaction, keeping the whole-snapshot overwrite semantics of the
// document backend.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"profile", "feed_admin", "feed_fan", "feed_comment", "chat", "chat_theme"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		for username, p := range snap.Profiles {
			row := profileRow{Username: username, Bio: p.Bio, ProfileURL: p.ProfileURL, Password: p.Password}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert profile %s: %w", username, err)
			}
		}

		for _, kind := range []domain.FeedKind{domain.FeedAdmin, domain.FeedFan} {
			for _, post := range *snap.Feed(kind) {
				row := postRow{
					ID:       post.ID,
					Writer:   post.Writer,
					Content:  post.Content,
					ImageURL: post.ImageURL,
					Time:     post.Time,
					Pinned:   post.Pinned,
					Likes:    post.Likes,
				}
				if err := tx.Table(feedTable(kind)).Create(&row).Error; err != nil {
					return fmt.Errorf("insert %s post %d: %w", kind, post.ID, err)
				}
				for _, c := range post.Comments {
					crow := commentRow{Feed: string(kind), PostID: post.ID, Nickname: c.Nickname, Body: c.Body}
					if err := tx.Create(&crow).Error; err != nil {
						return fmt.Errorf("insert comment on %s post %d: %w", kind, post.ID, err)
					}
				}
			}
		}

		for i, m := range snap.Chat {
			row := chatRow{ID: int64(i + 1), Nickname: m.Nickname, Message: m.Message, Time: m.Time, IsAdmin: m.IsAdmin}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert chat message %d: %w", i, err)
			}
		}

		theme := themeRow{
			ID:          1,
			BGColor:     snap.ChatTheme.BGColor,
			TextColor:   snap.ChatTheme.TextColor,
			ChannelName: snap.ChatTheme.ChannelName,
		}
		if err := tx.Create(&theme).Error; err != nil {
			return fmt.Errorf("insert theme: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: save snapshot: %v", domain.ErrStorage, err)
	}
	return nil
}

func feedTable(kind domain.FeedKind) string {
	if kind == domain.FeedAdmin {
		return "feed_admin"
	}
	return "feed_fan"
}
