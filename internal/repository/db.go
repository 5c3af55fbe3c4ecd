package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/debemdeboas/draftboard/internal/db"
	"github.com/debemdeboas/draftboard/internal/model"
	"github.com/debemdeboas/draftboard/internal/util"
	"github.com/debemdeboas/draftboard/internal/util/compression"
)

const blogColumns = `id, title, content, tags, status, created_at, updated_at`

type DBBlogRepository struct { // implements Store
	db         db.DB
	compressor compression.Compressor
}

func NewDBBlogRepository(db db.DB) *DBBlogRepository {
	return &DBBlogRepository{
		db: db,

		compressor: compression.ZstdCompressor{},
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *DBBlogRepository) scanBlog(row rowScanner) (*model.Blog, error) {
	var blog model.Blog
	var compressed []byte
	var tags string

	if err := row.Scan(&blog.ID, &blog.Title, &compressed, &tags, &blog.Status, &blog.CreatedAt, &blog.UpdatedAt); err != nil {
		return nil, err
	}

	content, err := r.compressor.Decompress(compressed)
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing content of blog %s", blog.ID)
	}
	blog.Content = string(content)

	blog.Tags = model.Tags{}
	if err := json.Unmarshal([]byte(tags), &blog.Tags); err != nil {
		return nil, errors.Wrapf(err, "decoding tags of blog %s", blog.ID)
	}

	return &blog, nil
}

func (r *DBBlogRepository) Get(ctx context.Context, id model.BlogID) (*model.Blog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = ?`, id)

	blog, err := r.scanBlog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(model.ErrNotFound, "blog %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading blog %s", id)
	}
	return blog, nil
}

func (r *DBBlogRepository) List(ctx context.Context) ([]model.Blog, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+blogColumns+` FROM blogs ORDER BY updated_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying blogs")
	}
	defer rows.Close()

	blogs := make([]model.Blog, 0)
	for rows.Next() {
		blog, err := r.scanBlog(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning blog")
		}
		blogs = append(blogs, *blog)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating blogs")
	}

	// The driver stores timestamps as text, so fractional seconds don't
	// always sort lexically.
	sortByUpdated(blogs)

	return blogs, nil
}

func (r *DBBlogRepository) Put(ctx context.Context, blog *model.Blog) error {
	compressed, err := r.compressor.Compress([]byte(blog.Content))
	if err != nil {
		return errors.Wrap(err, "compressing content")
	}

	tags := blog.Tags
	if tags == nil {
		tags = model.Tags{}
	}
	encodedTags, err := json.Marshal(tags)
	if err != nil {
		return errors.Wrap(err, "encoding tags")
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO blogs (id, title, content, content_hash, tags, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			content_hash = excluded.content_hash,
			tags = excluded.tags,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		blog.ID, blog.Title, compressed, util.ContentHashString(blog.Content), string(encodedTags),
		blog.Status, blog.CreatedAt.UTC(), blog.UpdatedAt.UTC(),
	)
	if err != nil {
		return errors.Wrapf(err, "saving blog %s", blog.ID)
	}

	repoLogger.Debug().Str("blog_id", string(blog.ID)).Interface("result", res).Msg("Blog saved")

	return nil
}

func (r *DBBlogRepository) Delete(ctx context.Context, id model.BlogID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "deleting blog %s", id)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}
	if n == 0 {
		return errors.Wrapf(model.ErrNotFound, "blog %s", id)
	}

	repoLogger.Debug().Str("blog_id", string(id)).Msg("Blog deleted")
	return nil
}

func (r *DBBlogRepository) Close() error {
	return r.db.Close()
}
