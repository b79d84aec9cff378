package feed

import (
	"context"
	"sort"

	"gameon/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore evaluates filters in memory with the same ordering the Mongo
// pipeline uses.
type memStore struct {
	users       map[primitive.ObjectID]*models.User
	connections []models.Connection
	posts       []models.Post
	likes       []models.Like
	comments    []models.Comment

	err error
}

func newMemStore() *memStore {
	return &memStore{users: map[primitive.ObjectID]*models.User{}}
}

func (m *memStore) addUser(name string, role models.Role, interests ...string) *models.User {
	u := &models.User{ID: primitive.NewObjectID(), Name: name, Role: role, Interests: interests}
	m.users[u.ID] = u
	return u
}

func (m *memStore) connect(a, b *models.User, status models.ConnectionStatus) {
	m.connections = append(m.connections, models.Connection{
		ID: primitive.NewObjectID(), SenderID: a.ID, ReceiverID: b.ID, Status: status,
	})
}

func (m *memStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[id], nil
}

func (m *memStore) AcceptedPeerIDs(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if m.err != nil {
		return nil, m.err
	}
	var ids []primitive.ObjectID
	for _, c := range m.connections {
		if c.Status != models.ConnectionAccepted {
			continue
		}
		if c.SenderID == userID || c.ReceiverID == userID {
			ids = append(ids, c.Peer(userID))
		}
	}
	return ids, nil
}

func (m *memStore) matching(f Filter) []Record {
	var out []Record
	for _, p := range m.posts {
		author := m.users[p.AuthorID]
		if author == nil || !f.Matches(&p, author.Role) {
			continue
		}
		r := Record{Post: p, Author: *author}
		for _, l := range m.likes {
			if l.PostID == p.ID {
				r.LikerIDs = append(r.LikerIDs, l.UserID)
			}
		}
		for _, c := range m.comments {
			if c.PostID == p.ID {
				r.CommentCount++
			}
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out
}

func (m *memStore) FindFeedPosts(_ context.Context, f Filter, limit, offset int) ([]Record, error) {
	if m.err != nil {
		return nil, m.err
	}
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

func (m *memStore) CountFeedPosts(_ context.Context, f Filter) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.matching(f))), nil
}
