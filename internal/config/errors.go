package config

// Messages returned in the "error" field of API responses.
const (
	ErrBlogNotFound       = "Blog not found"
	ErrFetchBlogs         = "Failed to fetch blogs"
	ErrFetchBlog          = "Failed to fetch blog"
	ErrSaveDraft          = "Failed to save draft"
	ErrPublishBlog        = "Failed to publish blog"
	ErrUpdateBlog         = "Failed to update blog"
	ErrDeleteBlog         = "Failed to delete blog"
	ErrInvalidBody        = "Invalid request body"
	ErrTitleContentNeeded = "Title and content are required"

	MsgBlogDeleted = "Blog deleted successfully"
)
