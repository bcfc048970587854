package localstore

import (
	"context"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const bucketPreferences = "preferences"

// Bolt stores values in one bbolt bucket.
type Bolt struct {
	db *bolt.DB
}

var _ Store = (*Bolt)(nil)

// OpenBolt opens (or creates) the bbolt file at path.
func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, pkgerrors.Wrap(err, "create bolt dir")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open bolt")
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketPreferences))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, pkgerrors.Wrap(err, "create bolt bucket")
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(ctx context.Context, key string) ([]byte, error) {
	_, span := tracer.Start(ctx, "bolt.Get", trace.WithAttributes(attribute.String("key", key)))
	defer span.End()

	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketPreferences)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction.
		out = append([]byte(nil), v...)
		return nil
	})
	if err == ErrNotFound {
		span.AddEvent("miss")
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, pkgerrors.Wrapf(err, "get %q", key)
	}
	return out, nil
}

func (b *Bolt) Put(ctx context.Context, key string, value []byte) error {
	_, span := tracer.Start(ctx, "bolt.Put", trace.WithAttributes(
		attribute.String("key", key), attribute.Int("bytes", len(value))))
	defer span.End()

	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPreferences)).Put([]byte(key), value)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return pkgerrors.Wrapf(err, "put %q", key)
	}
	return nil
}

func (b *Bolt) Delete(ctx context.Context, key string) error {
	_, span := tracer.Start(ctx, "bolt.Delete", trace.WithAttributes(attribute.String("key", key)))
	defer span.End()

	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPreferences)).Delete([]byte(key))
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return pkgerrors.Wrapf(err, "delete %q", key)
	}
	return nil
}

func (b *Bolt) Close() error { return b.db.Close() }
