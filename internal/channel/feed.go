package channel

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

// AddPostInput carries the fields of a new post. Pinned is honored only
// on the admin feed.
type AddPostInput struct {
	Writer   string
	Content  string
	ImageURL string
	Pinned   bool
}

// AddPost appends a post to the given feed. The admin feed requires an
// active admin session and stamps the fixed admin writer name; the fan
// feed is open but requires a writer name. Content is always required.
func (s *Service) AddPost(ctx context.Context, sess domain.Session, kind domain.FeedKind, in AddPostInput) (*domain.Post, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown feed %q", domain.ErrValidation, kind)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrValidation)
	}

	switch kind {
	case domain.FeedAdmin:
		if !sess.LoggedIn() {
			return nil, fmt.Errorf("%w: admin session required", domain.ErrUnauthorized)
		}
		in.Writer = domain.AdminName
	case domain.FeedFan:
		if strings.TrimSpace(in.Writer) == "" {
			return nil, fmt.Errorf("%w: writer is required", domain.ErrValidation)
		}
		in.Pinned = false
	}

	var post *domain.Post
	err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		post = &domain.Post{
			ID:       snap.NextPostID(kind),
			Writer:   in.Writer,
			Content:  in.Content,
			ImageURL: in.ImageURL,
			Time:     s.now().Format(domain.PostTimeLayout),
			Pinned:   in.Pinned,
			Comments: []*domain.Comment{},
		}
		feed := snap.Feed(kind)
		*feed = append(*feed, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// AddComment appends a comment to the post with the given id.
func (s *Service) AddComment(ctx context.Context, kind domain.FeedKind, postID int64, nickname, body string) (*domain.Comment, error) {
	if strings.TrimSpace(nickname) == "" || strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: nickname and body are required", domain.ErrValidation)
	}

	var comment *domain.Comment
	err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		post := snap.FindPost(kind, postID)
		if post == nil {
			return fmt.Errorf("%w: post %d", domain.ErrNotFound, postID)
		}
		comment = &domain.Comment{Nickname: nickname, Body: body}
		post.Comments = append(post.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Like increments the like counter of the post and returns the new
// count. There is no per-caller deduplication: repeated likes all count,
// which the product treats as intended behavior.
func (s *Service) Like(ctx context.Context, kind domain.FeedKind, postID int64) (int, error) {
	var likes int
	err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		post := snap.FindPost(kind, postID)
		if post == nil {
			return fmt.Errorf("%w: post %d", domain.ErrNotFound, postID)
		}
		post.Likes++
		likes = post.Likes
		return nil
	})
	if err != nil {
		return 0, err
	}
	return likes, nil
}

// ListPosts returns the feed newest first. With pinnedFirst, pinned
// posts sort before unpinned ones, both groups newest first, insertion
// order breaking ties.
func (s *Service) ListPosts(ctx context.Context, kind domain.FeedKind, pinnedFirst bool) ([]*domain.Post, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown feed %q", domain.ErrValidation, kind)
	}

	var posts []*domain.Post
	err := s.view(ctx, func(snap *domain.Snapshot) error {
		feed := *snap.Feed(kind)
		posts = make([]*domain.Post, 0, len(feed))
		for i := len(feed) - 1; i >= 0; i-- {
			posts = append(posts, feed[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if pinnedFirst {
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Pinned && !posts[j].Pinned
		})
	}
	return posts, nil
}
