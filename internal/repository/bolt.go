package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/debemdeboas/draftboard/internal/model"
)

var blogsBucket = []byte("blogs")

// BoltBlogRepository stores each blog as a JSON value keyed by id in a
// single bbolt bucket.
type BoltBlogRepository struct { // implements Store
	db *bbolt.DB
}

func NewBoltBlogRepository(dbPath string) (*BoltBlogRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating parent directory for bolt db")
	}

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{
		Timeout:      1 * time.Second,
		FreelistType: bbolt.FreelistMapType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening bolt db")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(blogsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating blogs bucket")
	}

	repoLogger.Info().Str("path", dbPath).Msg("Bolt store opened")
	return &BoltBlogRepository{db: db}, nil
}

func (r *BoltBlogRepository) Get(_ context.Context, id model.BlogID) (*model.Blog, error) {
	var blog *model.Blog

	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(blogsBucket).Get([]byte(id))
		if data == nil {
			return errors.Wrapf(model.ErrNotFound, "blog %s", id)
		}

		var found model.Blog
		if err := json.Unmarshal(data, &found); err != nil {
			return errors.Wrapf(err, "decoding blog %s", id)
		}
		blog = &found
		return nil
	})

	return blog, err
}

func (r *BoltBlogRepository) List(_ context.Context) ([]model.Blog, error) {
	blogs := make([]model.Blog, 0)

	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(blogsBucket).ForEach(func(k, v []byte) error {
			var blog model.Blog
			if err := json.Unmarshal(v, &blog); err != nil {
				return errors.Wrapf(err, "decoding blog %s", k)
			}
			blogs = append(blogs, blog)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortByUpdated(blogs)
	return blogs, nil
}

func (r *BoltBlogRepository) Put(_ context.Context, blog *model.Blog) error {
	data, err := json.Marshal(blog)
	if err != nil {
		return errors.Wrap(err, "encoding blog")
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(blogsBucket).Put([]byte(blog.ID), data)
	})
}

func (r *BoltBlogRepository) Delete(_ context.Context, id model.BlogID) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(blogsBucket)
		if bucket.Get([]byte(id)) == nil {
			return errors.Wrapf(model.ErrNotFound, "blog %s", id)
		}
		return bucket.Delete([]byte(id))
	})
}

func (r *BoltBlogRepository) Close() error {
	return r.db.Close()
}
