package character

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
)

const (
	recordKeyPrefix     = "character:data:"
	userIndexPrefix     = "character:user:"
	codeIndexPrefix     = "character:code:"
	updateChannelPrefix = "character:updates:"

	// Error messages
	errRecordNil     = "record cannot be nil"
	errRecordIDEmpty = "record ID cannot be empty"
	errUserIDEmpty   = "user ID cannot be empty"
	errCodeEmpty     = "public code cannot be empty"
)

func recordKey(id string) string { return recordKeyPrefix + id }

func userIndexKey(userID string) string { return userIndexPrefix + userID }

func codeIndexKey(code string) string { return codeIndexPrefix + code }

func updateChannel(id string) string { return updateChannelPrefix + id }

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis character repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

// load returns nil without error when the row does not exist
func (r *redisRepository) load(ctx context.Context, id string) (*Record, error) {
	result, err := r.client.Get(ctx, recordKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to get character record")
	}

	var rec Record
	if err := json.Unmarshal([]byte(result), &rec); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character record %s", id)
	}
	return &rec, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRecordIDEmpty)
	}

	rec, err := r.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}

	return &GetOutput{Record: rec}, nil
}

func (r *redisRepository) Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error) {
	rec := input.Record
	if rec == nil {
		return nil, errors.InvalidArgument(errRecordNil)
	}
	if rec.ID == "" {
		return nil, errors.InvalidArgument(errRecordIDEmpty)
	}
	if rec.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	code := normalizeCode(rec.PublicCode)
	if code == "" {
		return nil, errors.InvalidArgument(errCodeEmpty)
	}

	// stored documents are compact and HTML-escaped, matching what
	// json.Marshal writes, so change detection compares like with like
	var compact, data bytes.Buffer
	if err := json.Compact(&compact, rec.Data); err != nil {
		return nil, errors.InvalidArgumentf("character %s data is not valid JSON", rec.ID)
	}
	json.HTMLEscape(&data, compact.Bytes())

	existing, err := r.load(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.UserID != rec.UserID {
		return nil, errors.PermissionDeniedf("character %s belongs to another user", rec.ID)
	}

	owner, err := r.client.Get(ctx, codeIndexKey(code)).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.Wrapf(err, "failed to check public code")
	}
	if err == nil && owner != rec.ID {
		return nil, errors.AlreadyExistsf("public code %s is already in use", code).
			WithMeta("code", code)
	}

	stored := &Record{
		ID:         rec.ID,
		UserID:     rec.UserID,
		PublicCode: code,
		Name:       rec.Name,
		Data:       json.RawMessage(data.Bytes()),
		UpdatedAt:  r.clock.Now(),
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character record")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, recordKey(rec.ID), payload, 0)
	pipe.ZAdd(ctx, userIndexKey(rec.UserID), redis.Z{
		Score:  float64(stored.UpdatedAt.UnixMilli()),
		Member: rec.ID,
	})
	pipe.Set(ctx, codeIndexKey(code), rec.ID, 0)
	if existing != nil && existing.PublicCode != "" && existing.PublicCode != code {
		pipe.Del(ctx, codeIndexKey(existing.PublicCode))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to upsert character")
	}

	changed := existing == nil || !bytes.Equal(existing.Data, stored.Data)
	if changed {
		if err := r.client.Publish(ctx, updateChannel(rec.ID), payload).Err(); err != nil {
			// the row is written; watchers catch up on their next read
			slog.WarnContext(ctx, "failed to publish character update",
				"character_id", rec.ID,
				"error", err.Error())
		}
	}

	slog.DebugContext(ctx, "upserted character",
		"character_id", rec.ID,
		"user_id", rec.UserID,
		"changed", changed)

	return &UpsertOutput{Record: stored, Changed: changed}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRecordIDEmpty)
	}
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	rec, err := r.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	// another user's row is reported exactly like a missing one
	if rec == nil || rec.UserID != input.UserID {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}

	owner, err := r.client.Get(ctx, codeIndexKey(rec.PublicCode)).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.Wrapf(err, "failed to check public code")
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, recordKey(input.ID))
	pipe.ZRem(ctx, userIndexKey(input.UserID), input.ID)
	if owner == input.ID {
		pipe.Del(ctx, codeIndexKey(rec.PublicCode))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	indexKey := userIndexKey(input.UserID)
	ids, err := r.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to read user index",
			"user_id", input.UserID,
			"index_key", indexKey,
			"error", err.Error())
		return nil, errors.Wrapf(err, "failed to list characters for user %s", input.UserID)
	}

	records, missing, err := r.loadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		slog.WarnContext(ctx, "characters missing, cleaning up index",
			"user_id", input.UserID,
			"character_ids", missing)
		members := make([]any, len(missing))
		for i, id := range missing {
			members[i] = id
		}
		r.client.ZRem(ctx, indexKey, members...)
	}

	slog.DebugContext(ctx, "listed characters for user",
		"user_id", input.UserID,
		"count", len(records))

	return &ListOutput{Records: records}, nil
}

func (r *redisRepository) ListAll(ctx context.Context, _ ListAllInput) (*ListAllOutput, error) {
	var ids []string
	iter := r.client.Scan(ctx, 0, recordKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), recordKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to scan characters")
	}

	records, _, err := r.loadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &ListAllOutput{Records: records}, nil
}

// loadMany fetches rows in order, reporting ids whose row is gone
func (r *redisRepository) loadMany(ctx context.Context, ids []string) ([]*Record, []string, error) {
	records := make([]*Record, 0, len(ids))
	if len(ids) == 0 {
		return records, nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to get character records")
	}

	var missing []string
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			slog.WarnContext(ctx, "skipping unreadable character record",
				"character_id", ids[i],
				"error", err.Error())
			continue
		}
		records = append(records, &rec)
	}
	return records, missing, nil
}

func (r *redisRepository) FindByPublicCode(
	ctx context.Context,
	input FindByPublicCodeInput,
) (*FindByPublicCodeOutput, error) {
	code := normalizeCode(input.Code)
	if code == "" {
		return nil, errors.InvalidArgument(errCodeEmpty)
	}

	id, err := r.client.Get(ctx, codeIndexKey(code)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no character with code %s", code)
		}
		return nil, errors.Wrapf(err, "failed to look up public code")
	}

	rec, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NotFoundf("no character with code %s", code)
	}

	return &FindByPublicCodeOutput{Record: rec}, nil
}

func (r *redisRepository) Subscribe(ctx context.Context, input SubscribeInput) (*SubscribeOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRecordIDEmpty)
	}

	pubsub := r.client.Subscribe(ctx, updateChannel(input.ID))
	// wait for the subscription to be confirmed so no publish is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, errors.Wrapf(err, "failed to subscribe to character %s", input.ID)
	}

	sub := &subscription{
		pubsub:  pubsub,
		updates: make(chan *Record, 1),
		done:    make(chan struct{}),
	}
	go sub.run(ctx, input.ID)

	return &SubscribeOutput{Subscription: sub}, nil
}

type subscription struct {
	pubsub  *redis.PubSub
	updates chan *Record
	done    chan struct{}
	once    sync.Once
}

func (s *subscription) Updates() <-chan *Record {
	return s.updates
}

func (s *subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

func (s *subscription) run(ctx context.Context, id string) {
	defer close(s.updates)

	messages := s.pubsub.Channel()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var rec Record
			if err := json.Unmarshal([]byte(msg.Payload), &rec); err != nil {
				slog.WarnContext(ctx, "dropping unreadable character update",
					"character_id", id,
					"error", err.Error())
				continue
			}
			select {
			case s.updates <- &rec:
			case <-s.done:
				return
			}
		}
	}
}
