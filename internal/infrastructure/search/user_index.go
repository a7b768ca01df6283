package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/application"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
)

// UserIndex mirrors users into an Elasticsearch index for free-text search.
// All writes are best effort: a failed index never fails the business
// operation that triggered it.
type UserIndex struct {
	ES     *elasticsearch.Client
	Name   string
	Logger *logrus.Logger
}

func NewUserIndex(es *elasticsearch.Client, name string, logger *logrus.Logger) *UserIndex {
	return &UserIndex{ES: es, Name: name, Logger: logger}
}

func (x *UserIndex) Index(ctx context.Context, u *entity.User) {
	if x == nil || x.ES == nil || x.Name == "" {
		return
	}
	p := u.Profile()
	doc := map[string]any{
		"id":         u.ID().String(),
		"username":   u.Username().String(),
		"email":      u.Email().String(),
		"first_name": p.FirstName(),
		"last_name":  p.LastName(),
		"full_name":  p.FullName(),
		"avatar_url": p.AvatarURL(),
		"is_active":  u.IsActive(),
		"created_at": u.CreatedAt().Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt().Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: x.Name, DocumentID: u.ID().String(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		x.warn(err, u.ID().String(), "es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && x.Logger != nil {
		x.Logger.WithField("status", res.Status()).WithField("user_id", u.ID().String()).Warn("es index response error")
	}
}

func (x *UserIndex) Remove(ctx context.Context, ids []string) {
	if x == nil || x.ES == nil || x.Name == "" {
		return
	}
	for _, id := range ids {
		req := esapi.DeleteRequest{Index: x.Name, DocumentID: id}
		c, cancel := context.WithTimeout(ctx, 3*time.Second)
		res, err := req.Do(c, x.ES)
		cancel()
		if err != nil {
			x.warn(err, id, "es delete failed")
			continue
		}
		_ = res.Body.Close()
	}
}

// Search runs a multi_match over the identity fields, username and email
// weighted above names.
func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if x == nil || x.ES == nil || x.Name == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "email^2", "full_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Name),
		x.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (x *UserIndex) warn(err error, id, msg string) {
	if x.Logger != nil {
		x.Logger.WithError(err).WithField("user_id", id).Warn(msg)
	}
}

var _ application.UserIndexer = (*UserIndex)(nil)
