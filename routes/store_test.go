package routes

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"gameon/account"
	"gameon/apperrors"
	"gameon/feed"
	"gameon/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore backs every service with in-memory maps.
type memStore struct {
	mu          sync.Mutex
	users       map[primitive.ObjectID]*models.User
	profiles    []models.Profile
	connections []*models.Connection
	posts       []models.Post

	pingErr error
}

func newMemStore() *memStore {
	return &memStore{users: map[primitive.ObjectID]*models.User{}}
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) InsertUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperrors.Conflict("")
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) InsertProfile(_ context.Context, p models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, p)
	return nil
}

func (m *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx account.Tx) error) error {
	return fn(ctx, m)
}

func (m *memStore) CreateUser(ctx context.Context, u *models.User, p models.Profile) error {
	if err := m.InsertUser(ctx, u); err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	return m.InsertProfile(ctx, p)
}

func (m *memStore) update(id primitive.ObjectID, fn func(u *models.User)) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	fn(u)
	cp := *u
	return &cp, nil
}

func (m *memStore) LinkProvider(_ context.Context, id primitive.ObjectID, subject, picture string) (*models.User, error) {
	return m.update(id, func(u *models.User) {
		u.GoogleID = &subject
		if u.Image == "" {
			u.Image = picture
		}
	})
}

func (m *memStore) SetOTP(_ context.Context, id primitive.ObjectID, hash string, expiry time.Time) error {
	u, _ := m.update(id, func(u *models.User) {
		u.OTPHash = &hash
		u.OTPExpiry = &expiry
	})
	if u == nil {
		return apperrors.NotFound("User not found")
	}
	return nil
}

func (m *memStore) CompleteVerification(_ context.Context, id primitive.ObjectID, at time.Time) error {
	u, _ := m.update(id, func(u *models.User) {
		u.Status = models.StatusVerified
		u.EmailVerified = &at
		u.OTPHash = nil
		u.OTPExpiry = nil
	})
	if u == nil {
		return apperrors.NotFound("User not found")
	}
	return nil
}

func (m *memStore) SetInterests(_ context.Context, id primitive.ObjectID, interests []string) (*models.User, error) {
	return m.update(id, func(u *models.User) {
		u.Interests = interests
		u.OnboardingCompleted = true
	})
}

func (m *memStore) SetImage(_ context.Context, id primitive.ObjectID, url string) (*models.User, error) {
	return m.update(id, func(u *models.User) { u.Image = url })
}

func (m *memStore) AcceptedPeerIDs(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []primitive.ObjectID
	for _, c := range m.connections {
		if c.Status == models.ConnectionAccepted && (c.SenderID == userID || c.ReceiverID == userID) {
			ids = append(ids, c.Peer(userID))
		}
	}
	return ids, nil
}

func (m *memStore) ListConnections(_ context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Connection
	for _, c := range m.connections {
		if c.Status == status && (c.SenderID == userID || c.ReceiverID == userID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) FindConnection(_ context.Context, id primitive.ObjectID) (*models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.connections {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindConnectionBetween(_ context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.connections {
		if (c.SenderID == a && c.ReceiverID == b) || (c.SenderID == b && c.ReceiverID == a) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) InsertConnection(_ context.Context, c *models.Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.connections = append(m.connections, &cp)
	return nil
}

func (m *memStore) TransitionConnection(_ context.Context, id primitive.ObjectID, status models.ConnectionStatus, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.connections {
		if c.ID == id && c.Status == models.ConnectionPending {
			c.Status = status
			c.UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertPost(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, *p)
	return nil
}

func (m *memStore) matching(f feed.Filter) []feed.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []feed.Record
	for _, p := range m.posts {
		author := m.users[p.AuthorID]
		if author == nil || !f.Matches(&p, author.Role) {
			continue
		}
		out = append(out, feed.Record{Post: p, Author: *author})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *memStore) FindFeedPosts(_ context.Context, f feed.Filter, limit, offset int) ([]feed.Record, error) {
	all := m.matching(f)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memStore) CountFeedPosts(_ context.Context, f feed.Filter) (int64, error) {
	return int64(len(m.matching(f))), nil
}

// codeSender remembers the last code mailed to each address.
type codeSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *codeSender) SendOTP(_ context.Context, to, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes == nil {
		s.codes = map[string]string{}
	}
	s.codes[to] = code
	return nil
}

func (s *codeSender) last(to string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[to]
}

type stubUploader struct{}

func (stubUploader) UploadAvatar(_ context.Context, userID string, file io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, file); err != nil {
		return "", err
	}
	return "https://res.cloudinary.com/demo/image/upload/gameon/avatars/" + userID, nil
}
