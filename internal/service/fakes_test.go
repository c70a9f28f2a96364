package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"pomelo/internal/model/auth"
	"pomelo/internal/model/bot"
	"pomelo/internal/pkg/chatctx"
)

// 内存版仓库实现，测试用，不依赖 Mongo / Redis

type fakeChatbotRepo struct {
	bots map[string]*bot.Chatbot
}

func newFakeChatbotRepo() *fakeChatbotRepo {
	return &fakeChatbotRepo{bots: make(map[string]*bot.Chatbot)}
}

func (r *fakeChatbotRepo) Create(_ context.Context, chatbot *bot.Chatbot) error {
	now := time.Now()
	chatbot.CreatedAt = now
	chatbot.UpdatedAt = now
	r.bots[chatbot.ID] = chatbot
	return nil
}

func (r *fakeChatbotRepo) FindByID(_ context.Context, id string) (*bot.Chatbot, error) {
	b, ok := r.bots[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *b
	return &copied, nil
}

func (r *fakeChatbotRepo) ListByUser(_ context.Context, userID string) ([]*bot.Chatbot, error) {
	var out []*bot.Chatbot
	for _, b := range r.bots {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeChatbotRepo) ListPublic(_ context.Context) ([]*bot.Chatbot, error) {
	var out []*bot.Chatbot
	for _, b := range r.bots {
		if b.Public {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeChatbotRepo) ListByAuthor(_ context.Context, author bot.AuthorTag) ([]*bot.Chatbot, error) {
	var out []*bot.Chatbot
	for _, b := range r.bots {
		if b.Author == author {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeChatbotRepo) SetCurrentVersion(_ context.Context, id string, v *bot.Version, avatar, category string) error {
	b, ok := r.bots[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	b.CurrentVersionID = v.ID
	b.CurrentVersionNumber = v.VersionNumber
	b.Name = v.Name
	b.Prompt = v.Prompt
	if avatar != "" {
		b.Avatar = avatar
	}
	if category != "" {
		b.Category = category
	}
	b.UpdatedAt = time.Now()
	return nil
}

func (r *fakeChatbotRepo) Delete(_ context.Context, id string) error {
	delete(r.bots, id)
	return nil
}

type fakeVersionRepo struct {
	versions []*bot.Version
}

func (r *fakeVersionRepo) Append(_ context.Context, v *bot.Version) error {
	latest := 0
	for _, existing := range r.versions {
		if existing.ChatbotID == v.ChatbotID && existing.VersionNumber > latest {
			latest = existing.VersionNumber
		}
	}
	v.VersionNumber = latest + 1
	v.CreatedAt = time.Now()
	r.versions = append(r.versions, v)
	return nil
}

func (r *fakeVersionRepo) FindByID(_ context.Context, chatbotID, versionID string) (*bot.Version, error) {
	for _, v := range r.versions {
		if v.ID == versionID && v.ChatbotID == chatbotID {
			return v, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeVersionRepo) ListByChatbot(_ context.Context, chatbotID string) ([]*bot.Version, error) {
	var out []*bot.Version
	for _, v := range r.versions {
		if v.ChatbotID == chatbotID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

func (r *fakeVersionRepo) DeleteByChatbot(_ context.Context, chatbotID string) error {
	var kept []*bot.Version
	for _, v := range r.versions {
		if v.ChatbotID != chatbotID {
			kept = append(kept, v)
		}
	}
	r.versions = kept
	return nil
}

type fakeTurnRepo struct {
	turns []*bot.Turn
}

func (r *fakeTurnRepo) Create(_ context.Context, turn *bot.Turn) error {
	turn.CreatedAt = time.Now()
	r.turns = append(r.turns, turn)
	return nil
}

func (r *fakeTurnRepo) ListByChatbotAndUser(_ context.Context, chatbotID, userID string) ([]*bot.Turn, error) {
	var out []*bot.Turn
	for _, t := range r.turns {
		if t.ChatbotID == chatbotID && t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTurnRepo) DeleteByChatbotAndUser(_ context.Context, chatbotID, userID string) (int64, error) {
	var kept []*bot.Turn
	var deleted int64
	for _, t := range r.turns {
		if t.ChatbotID == chatbotID && t.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	r.turns = kept
	return deleted, nil
}

func (r *fakeTurnRepo) DeleteByChatbot(_ context.Context, chatbotID string) error {
	var kept []*bot.Turn
	for _, t := range r.turns {
		if t.ChatbotID != chatbotID {
			kept = append(kept, t)
		}
	}
	r.turns = kept
	return nil
}

type fakeCommentRepo struct {
	comments []*bot.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *bot.Comment) error {
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, comment)
	return nil
}

func (r *fakeCommentRepo) ListByChatbot(_ context.Context, chatbotID string) ([]*bot.Comment, error) {
	var out []*bot.Comment
	for _, c := range r.comments {
		if c.ChatbotID == chatbotID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*auth.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id, username, name, bio string) error {
	u, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Username = username
	u.Name = name
	u.Bio = bio
	return nil
}

func (r *fakeUserRepo) UpdateLastLoginAt(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

func (r *fakeUserRepo) IncContribution(_ context.Context, id string, delta int) error {
	u, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.ContributionScore += delta
	return nil
}

// entityDoc 通用实体文档，覆盖点赞/举报/发布/删除需要的字段
type entityDoc struct {
	owner   string
	public  bool
	likes   int
	reports int
}

type fakeEntityRepo struct {
	docs map[string]map[string]*entityDoc // collection -> id -> doc
}

func newFakeEntityRepo() *fakeEntityRepo {
	return &fakeEntityRepo{docs: make(map[string]map[string]*entityDoc)}
}

func (r *fakeEntityRepo) put(collection, id string, doc *entityDoc) {
	if r.docs[collection] == nil {
		r.docs[collection] = make(map[string]*entityDoc)
	}
	r.docs[collection][id] = doc
}

func (r *fakeEntityRepo) get(collection, id string) (*entityDoc, bool) {
	doc, ok := r.docs[collection][id]
	return doc, ok
}

func (r *fakeEntityRepo) Exists(_ context.Context, collection, id string) (bool, error) {
	_, ok := r.get(collection, id)
	return ok, nil
}

func (r *fakeEntityRepo) Owner(_ context.Context, collection, id string) (string, error) {
	doc, ok := r.get(collection, id)
	if !ok {
		return "", mongo.ErrNoDocuments
	}
	return doc.owner, nil
}

func (r *fakeEntityRepo) IncCounter(_ context.Context, collection, id, field string) error {
	doc, ok := r.get(collection, id)
	if !ok {
		return mongo.ErrNoDocuments
	}
	switch field {
	case "likes":
		doc.likes++
	case "reports":
		doc.reports++
	}
	return nil
}

func (r *fakeEntityRepo) TogglePublic(_ context.Context, collection, id string) (bool, error) {
	doc, ok := r.get(collection, id)
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	doc.public = !doc.public
	return doc.public, nil
}

func (r *fakeEntityRepo) Delete(_ context.Context, collection, id string) error {
	if _, ok := r.get(collection, id); !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.docs[collection], id)
	return nil
}

type fakeQuotaStore struct {
	counts    map[string]int64
	firstSeen map[string]time.Time
}

func newFakeQuotaStore() *fakeQuotaStore {
	return &fakeQuotaStore{
		counts:    make(map[string]int64),
		firstSeen: make(map[string]time.Time),
	}
}

func (s *fakeQuotaStore) Increment(_ context.Context, sessionID string) (int64, time.Time, error) {
	if _, ok := s.firstSeen[sessionID]; !ok {
		s.firstSeen[sessionID] = time.Now()
	}
	s.counts[sessionID]++
	return s.counts[sessionID], s.firstSeen[sessionID], nil
}

func (s *fakeQuotaStore) Count(_ context.Context, sessionID string) (int64, error) {
	return s.counts[sessionID], nil
}

// fakeCompleter 记录收到的消息并返回预设回复
type fakeCompleter struct {
	reply    string
	err      error
	calls    int
	lastMsgs []chatctx.Message
}

func (c *fakeCompleter) Complete(_ context.Context, messages []chatctx.Message, apiKey, engine string) (string, error) {
	c.calls++
	c.lastMsgs = messages
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

var errCompleterDown = errors.New("completer unavailable")
