// Package redisstore keeps nodelim-encoded values in Redis.
//
// Values are stored as opaque binary strings. A reply that is not a binary
// string, such as an integer, a status or an array, is a type error and is
// never handed to the decoder.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/oy3o/nodelim"
	"go.uber.org/zap"
)

// ErrNotBinary is returned when Redis replies with something other than a
// binary string where an encoded value was expected.
var ErrNotBinary = errors.New("redisstore: reply is not a binary value")

// Store reads and writes values of type T under string keys.
// It is safe for concurrent use.
type Store[T any] struct {
	client      *redis.Client
	shape       nodelim.Shape[T]
	logger      *zap.Logger
	compression Compression
	ttl         time.Duration
	prefix      string
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	compression Compression
	ttl         time.Duration
	prefix      string
}

// WithLogger sets the logger used for debug and warning messages.
// The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCompression compresses values before they are stored. Values are then
// framed with a compression tag, so every reader of the keys must use a
// Store configured with some compression, though not necessarily the same.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithTTL sets the expiration of keys written by Set. Zero means no
// expiration.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithKeyPrefix prepends prefix to every key.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// New creates a Store over client using shape to encode and decode values.
func New[T any](client *redis.Client, shape nodelim.Shape[T], opts ...Option) *Store[T] {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return &Store[T]{
		client:      client,
		shape:       shape,
		logger:      o.logger.Named("redisstore"),
		compression: o.compression,
		ttl:         o.ttl,
		prefix:      o.prefix,
	}
}

// Value returns v bound to shape as an encoding.BinaryMarshaler, which
// go-redis accepts directly as a command argument.
func Value[T any](shape nodelim.Shape[T], v T) nodelim.Bound[T] {
	return nodelim.Bind(shape, &v)
}

// Into returns p bound to shape as an encoding.BinaryUnmarshaler, which
// go-redis accepts as a Scan destination.
func Into[T any](shape nodelim.Shape[T], p *T) nodelim.Bound[T] {
	return nodelim.Bind(shape, p)
}

// Set stores v under key.
func (s *Store[T]) Set(ctx context.Context, key string, v T) (err error) {
	defer wrap(&err, "Set(%q)", key)
	data := s.encode(v)
	s.logger.Debug("set", zap.String("key", s.prefix+key), zap.Int("bytes", len(data)))
	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

// Get returns the value stored under key. The boolean is false, with a nil
// error, if the key does not exist.
func (s *Store[T]) Get(ctx context.Context, key string) (v T, found bool, err error) {
	defer wrap(&err, "Get(%q)", key)
	return s.do(ctx, key, "GET", s.prefix+key)
}

// Do runs a command whose reply is expected to be a stored value, such as
// GETDEL or GETEX, and decodes the reply. Arguments are passed as is; the
// key prefix is not applied. A missing key reports false with a nil error,
// and a reply of any other kind than a binary string is ErrNotBinary.
func (s *Store[T]) Do(ctx context.Context, args ...any) (v T, found bool, err error) {
	defer wrap(&err, "Do(%v)", args)
	if len(args) == 0 {
		return v, false, errors.New("no command")
	}
	return s.do(ctx, strings.TrimSuffix(fmt.Sprintln(args...), "\n"), args...)
}

func (s *Store[T]) do(ctx context.Context, key string, args ...any) (v T, found bool, err error) {
	reply, err := s.client.Do(ctx, args...).Result()
	if err == redis.Nil { // not found
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	return s.decodeReply(key, reply)
}

// MGet returns the values stored under keys, in order. Missing keys yield
// nil entries.
func (s *Store[T]) MGet(ctx context.Context, keys ...string) (values []*T, err error) {
	defer wrap(&err, "MGet(%q)", keys)
	if len(keys) == 0 {
		return nil, nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}
	replies, err := s.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, err
	}
	values = make([]*T, len(replies))
	for i, reply := range replies {
		v, found, err := s.decodeReply(keys[i], reply)
		if err != nil {
			return nil, err
		}
		if found {
			values[i] = &v
		}
	}
	return values, nil
}

// Delete deletes the given keys. It does not return an error if a key does
// not exist.
func (s *Store[T]) Delete(ctx context.Context, keys ...string) (err error) {
	defer wrap(&err, "Delete(%q)", keys)
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}
	return s.client.Unlink(ctx, prefixed...).Err()
}

func (s *Store[T]) encode(v T) []byte {
	data := nodelim.Marshal(s.shape, v)
	if s.compression == CompressionNone {
		return data
	}
	return compressFrame(s.compression, data)
}

// decodeReply classifies a raw reply. Bulk strings are decoded, nil is a
// missing key and every other reply kind is ErrNotBinary.
func (s *Store[T]) decodeReply(key string, reply any) (v T, found bool, err error) {
	var data []byte
	switch r := reply.(type) {
	case nil:
		return v, false, nil
	case string:
		data = []byte(r)
	case []byte:
		data = r
	default:
		return v, false, fmt.Errorf("%w: key %q holds a %T reply", ErrNotBinary, key, reply)
	}
	if s.compression != CompressionNone {
		if data, err = decompressFrame(data); err != nil {
			s.logger.Warn("undecodable frame", zap.String("key", key), zap.Error(err))
			return v, false, err
		}
	}
	v, err = nodelim.Unmarshal(s.shape, data)
	if err != nil {
		s.logger.Warn("undecodable value", zap.String("key", key), zap.Int("bytes", len(data)), zap.Error(err))
		return v, false, err
	}
	return v, true, nil
}

// wrap adds context to a non-nil *errp, keeping the original error
// available to errors.Is and errors.As.
func wrap(errp *error, format string, args ...any) {
	if *errp != nil {
		*errp = fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), *errp)
	}
}
